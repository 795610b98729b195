package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"HeartHabit/internal/model/dto"
	"HeartHabit/internal/service"
	"HeartHabit/pkg/response"
)

// CompleteAction 完成动作实例
// POST /v1/actions/:action_instance_id/complete
func CompleteAction(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}
	instanceID, ok := pathID(ctx, c, "action_instance_id")
	if !ok {
		return
	}

	resp, err := service.Action().Complete(ctx, userID, instanceID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, resp)
}

// DeclineAction 按实例 ID 拒绝动作
// POST /v1/actions/:action_instance_id/decline
func DeclineAction(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}
	instanceID, ok := pathID(ctx, c, "action_instance_id")
	if !ok {
		return
	}

	resp, err := service.Action().DeclineByID(ctx, userID, instanceID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, resp)
}

// DeclineActionByTuple 按 (动作, 可选日期) 拒绝，邮件链接入口
// POST /v1/actions/decline
func DeclineActionByTuple(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	var req dto.DeclineByActionRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	resp, err := service.Action().DeclineByAction(ctx, userID, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, resp)
}

// FavoriteAction 切换收藏标记
// POST /v1/actions/:action_instance_id/favorite
func FavoriteAction(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}
	instanceID, ok := pathID(ctx, c, "action_instance_id")
	if !ok {
		return
	}

	resp, err := service.Action().ToggleFavorite(ctx, userID, instanceID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, resp)
}

// HideAction 隐藏动作
// POST /v1/hidden-actions/:action_id
func HideAction(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}
	actionID, ok := pathID(ctx, c, "action_id")
	if !ok {
		return
	}

	if err := service.Action().Hide(ctx, userID, actionID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{"hidden": true})
}

// UnhideAction 取消隐藏
// DELETE /v1/hidden-actions/:action_id
func UnhideAction(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}
	actionID, ok := pathID(ctx, c, "action_id")
	if !ok {
		return
	}

	if err := service.Action().Unhide(ctx, userID, actionID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// ListHiddenActions 隐藏动作列表
// GET /v1/actions/hidden
func ListHiddenActions(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}
	cursor, limit := pagination(c)

	items, nextCursor, err := service.Action().ListHidden(ctx, userID, cursor, limit)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	meta := map[string]interface{}{}
	if nextCursor > 0 {
		meta["next_cursor"] = strconv.FormatInt(nextCursor, 10)
	}
	response.SuccessWithMeta(ctx, c, items, meta)
}

// ListFavoriteActions 收藏动作列表
// GET /v1/actions/favorites
func ListFavoriteActions(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}
	cursor, limit := pagination(c)

	items, nextCursor, err := service.Action().ListFavorites(ctx, userID, cursor, limit)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	meta := map[string]interface{}{}
	if nextCursor > 0 {
		meta["next_cursor"] = strconv.FormatInt(nextCursor, 10)
	}
	response.SuccessWithMeta(ctx, c, items, meta)
}
