package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"HeartHabit/internal/service"
	"HeartHabit/pkg/response"
)

// RecalculateBadges 全量重算徽章
// POST /v1/badges/recalculate
func RecalculateBadges(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	resp, err := service.Badge().Recalculate(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, resp)
}

// ListBadges 已获徽章列表
// GET /v1/badges
func ListBadges(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	items, err := service.Badge().ListBadges(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, items)
}
