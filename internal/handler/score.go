package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"HeartHabit/internal/service"
	"HeartHabit/pkg/response"
)

// GetScore 当前健康分及分项构成
// GET /v1/score
func GetScore(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	resp, err := service.Score().GetScore(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, resp)
}
