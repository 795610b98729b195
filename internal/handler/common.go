package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"HeartHabit/internal/middleware"
	pkgerrors "HeartHabit/pkg/errors"
	"HeartHabit/pkg/response"
)

// currentUserID 解析认证中间件注入的 public_id
func currentUserID(ctx context.Context, c *app.RequestContext) (int64, bool) {
	raw, exists := middleware.GetUserID(ctx, c)
	if !exists {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.Error(ctx, c, pkgerrors.InvalidUserID)
		return 0, false
	}

	return id, true
}

// pathID 解析路径上的数字 ID
func pathID(ctx context.Context, c *app.RequestContext, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.Error(ctx, c, pkgerrors.ValidationFailed)
		return 0, false
	}
	return id, true
}

// pagination cursor 分页参数，limit 限制在 [1,100]
func pagination(c *app.RequestContext) (int64, int) {
	cursor, _ := strconv.ParseInt(c.Query("cursor"), 10, 64)

	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return cursor, limit
}
