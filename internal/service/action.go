package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"HeartHabit/internal/cache"
	"HeartHabit/internal/model"
	"HeartHabit/internal/model/dto"
	"HeartHabit/internal/queue"
	pkgerrors "HeartHabit/pkg/errors"
	"HeartHabit/pkg/logger"
	"HeartHabit/pkg/metrics"
	"HeartHabit/storage/database"
	"HeartHabit/utils"
)

// declineRedirectTarget 邮件拒绝入口处理完后的跳转地址
const declineRedirectTarget = "/today"

type ActionService struct{}

var (
	actionService *ActionService
	actionOnce    sync.Once
)

func Action() *ActionService {
	actionOnce.Do(func() {
		actionService = &ActionService{}
	})
	return actionService
}

// Complete 完成一个动作实例
// 条件更新保证两次并发 complete 只有一次生效
func (s *ActionService) Complete(ctx context.Context, userID int64, instanceID int64) (*dto.CompleteActionResponse, error) {
	db := database.DB()

	user, err := getUserByPublicID(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := db.WithContext(ctx).Model(&model.DailyAction{}).
		Where("id = ? AND user_id = ? AND completed = ? AND declined = ?", instanceID, user.ID, false, false).
		Updates(map[string]interface{}{
			"completed":    true,
			"completed_at": now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to complete action: %w", result.Error)
	}

	instance, err := getInstance(ctx, db, user.ID, instanceID)
	if err != nil {
		return nil, err
	}

	if result.RowsAffected == 0 {
		// 更新没有命中，按实例当前状态归因
		return nil, completeStateError(instance)
	}

	s.afterMutation(ctx, userID, "complete")

	// 完成事件触发异步重算
	if err := queue.PublishEngagementRecalc(ctx, userID, "action_complete"); err != nil {
		logger.Logger.Error("Failed to publish recalc event",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	inputs, err := collectScoreInputs(ctx, db, user.ID, now)
	if err != nil {
		return nil, err
	}
	bonus, err := badgeBonusForUser(ctx, db, user.ID)
	if err != nil {
		return nil, err
	}
	score, _ := ComputeHealthScore(inputs, bonus, now)

	return &dto.CompleteActionResponse{
		Action:        toActionItem(instance),
		CurrentStreak: inputs.CurrentStreak,
		HealthScore:   score,
	}, nil
}

// DeclineByID 按实例 ID 拒绝
func (s *ActionService) DeclineByID(ctx context.Context, userID int64, instanceID int64) (*dto.DeclineActionResponse, error) {
	db := database.DB()

	user, err := getUserByPublicID(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	instance, err := getInstance(ctx, db, user.ID, instanceID)
	if err != nil {
		return nil, err
	}
	if instance.Completed {
		return nil, pkgerrors.ActionAlreadyCompleted
	}
	if instance.Declined {
		return nil, pkgerrors.ActionAlreadyDeclined
	}

	declined, err := s.declineInstance(ctx, db, user.ID, instance.ID)
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, userID, "decline")

	return &dto.DeclineActionResponse{Action: toActionItem(declined)}, nil
}

// DeclineByAction 按 (用户, 动作, 可选日期) 拒绝，供邮件链接等异步入口使用
// 未指定日期时选最近一条未完成实例
func (s *ActionService) DeclineByAction(ctx context.Context, userID int64, req dto.DeclineByActionRequest) (*dto.DeclineByActionResponse, error) {
	db := database.DB()

	user, err := getUserByPublicID(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	actionID, err := strconv.ParseInt(req.ActionID, 10, 64)
	if err != nil {
		return nil, pkgerrors.ValidationFailed
	}

	q := db.WithContext(ctx).
		Where("user_id = ? AND action_id = ?", user.ID, actionID)
	if req.Date != "" {
		date, err := utils.ParseDate(req.Date)
		if err != nil {
			return nil, pkgerrors.ValidationFailed
		}
		q = q.Where("assigned_date = ?", date)
	}

	var candidates []model.DailyAction
	if err := q.Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve action instance: %w", err)
	}

	instance := pickDeclineTarget(candidates)
	if instance == nil {
		return nil, pkgerrors.NoIncompleteAction
	}

	declined, err := s.declineInstance(ctx, db, user.ID, instance.ID)
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, userID, "decline")

	return &dto.DeclineByActionResponse{
		Action:     toActionItem(declined),
		RedirectTo: declineRedirectTarget,
	}, nil
}

// declineInstance 两个拒绝入口共用的状态转换
func (s *ActionService) declineInstance(ctx context.Context, db *gorm.DB, ownerID, instanceID int64) (*model.DailyAction, error) {
	now := time.Now()
	result := db.WithContext(ctx).Model(&model.DailyAction{}).
		Where("id = ? AND user_id = ? AND completed = ? AND declined = ?", instanceID, ownerID, false, false).
		Updates(map[string]interface{}{
			"declined":    true,
			"declined_at": now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to decline action: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, pkgerrors.ActionAlreadyDeclined
	}

	return getInstance(ctx, db, ownerID, instanceID)
}

// ToggleFavorite 翻转收藏标记，返回新状态
func (s *ActionService) ToggleFavorite(ctx context.Context, userID int64, instanceID int64) (*dto.FavoriteActionResponse, error) {
	db := database.DB()

	user, err := getUserByPublicID(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	result := db.WithContext(ctx).Model(&model.DailyAction{}).
		Where("id = ? AND user_id = ?", instanceID, user.ID).
		Update("favorited", gorm.Expr("NOT favorited"))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to toggle favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, pkgerrors.ActionNotFound
	}

	instance, err := getInstance(ctx, db, user.ID, instanceID)
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, userID, "favorite")

	return &dto.FavoriteActionResponse{Favorited: instance.Favorited}, nil
}

// Hide 将 (用户, 动作) 加入隐藏集合，重复隐藏是无害的
func (s *ActionService) Hide(ctx context.Context, userID int64, actionID int64) error {
	db := database.DB()

	user, err := getUserByPublicID(ctx, db, userID)
	if err != nil {
		return err
	}

	var action model.Action
	if err := db.WithContext(ctx).First(&action, actionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.ActionNotFound
		}
		return fmt.Errorf("failed to query action: %w", err)
	}

	hidden := model.HiddenAction{UserID: user.ID, ActionID: actionID}
	if err := db.WithContext(ctx).
		Where("user_id = ? AND action_id = ?", user.ID, actionID).
		FirstOrCreate(&hidden).Error; err != nil {
		return fmt.Errorf("failed to hide action: %w", err)
	}

	s.afterMutation(ctx, userID, "hide")

	return nil
}

// Unhide 从隐藏集合移除，移除不存在的记录同样视为成功
func (s *ActionService) Unhide(ctx context.Context, userID int64, actionID int64) error {
	db := database.DB()

	user, err := getUserByPublicID(ctx, db, userID)
	if err != nil {
		return err
	}

	if err := db.WithContext(ctx).
		Where("user_id = ? AND action_id = ?", user.ID, actionID).
		Delete(&model.HiddenAction{}).Error; err != nil {
		return fmt.Errorf("failed to unhide action: %w", err)
	}

	s.afterMutation(ctx, userID, "unhide")

	return nil
}

// ListHidden 隐藏动作列表，按隐藏时间倒序，cursor 分页
func (s *ActionService) ListHidden(ctx context.Context, userID int64, cursorID int64, limit int) ([]*dto.HiddenActionItem, int64, error) {
	db := database.DB()

	user, err := getUserByPublicID(ctx, db, userID)
	if err != nil {
		return nil, 0, err
	}

	q := db.WithContext(ctx).
		Preload("Action").
		Where("user_id = ?", user.ID)
	if cursorID > 0 {
		q = q.Where("id < ?", cursorID)
	}

	var hidden []model.HiddenAction
	if err := q.Order("id DESC").Limit(limit + 1).Find(&hidden).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list hidden actions: %w", err)
	}

	var nextCursor int64
	if len(hidden) > limit {
		nextCursor = hidden[limit-1].ID
		hidden = hidden[:limit]
	}

	items := make([]*dto.HiddenActionItem, 0, len(hidden))
	for _, h := range hidden {
		items = append(items, &dto.HiddenActionItem{
			ActionID: strconv.FormatInt(h.ActionID, 10),
			Title:    h.Action.Title,
			Category: h.Action.Category,
			HiddenAt: h.CreatedAt,
		})
	}

	return items, nextCursor, nil
}

// ListFavorites 收藏的动作实例列表，cursor 分页
func (s *ActionService) ListFavorites(ctx context.Context, userID int64, cursorID int64, limit int) ([]*dto.ActionItem, int64, error) {
	db := database.DB()

	user, err := getUserByPublicID(ctx, db, userID)
	if err != nil {
		return nil, 0, err
	}

	q := db.WithContext(ctx).
		Preload("Action").
		Where("user_id = ? AND favorited = ?", user.ID, true)
	if cursorID > 0 {
		q = q.Where("id < ?", cursorID)
	}

	var instances []model.DailyAction
	if err := q.Order("id DESC").Limit(limit + 1).Find(&instances).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list favorites: %w", err)
	}

	var nextCursor int64
	if len(instances) > limit {
		nextCursor = instances[limit-1].ID
		instances = instances[:limit]
	}

	items := make([]*dto.ActionItem, 0, len(instances))
	for _, inst := range instances {
		item := toActionItem(&inst)
		items = append(items, &item)
	}

	return items, nextCursor, nil
}

// afterMutation 生命周期变更后的公共收尾，缓存失效加指标上报
func (s *ActionService) afterMutation(ctx context.Context, userID int64, transition string) {
	if err := cache.ScoreCache.Delete(ctx, strconv.FormatInt(userID, 10)); err != nil {
		logger.Logger.Warn("Failed to invalidate score cache",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	if m := metrics.GetMetrics(); m != nil {
		m.RecordActionTransition(ctx, transition)
	}
}

// completeStateError 完成转换未命中时按实例当前状态归因
// 两个标记互斥，已拒绝的实例不能再完成
func completeStateError(instance *model.DailyAction) error {
	if instance.Completed {
		return pkgerrors.ActionAlreadyCompleted
	}
	if instance.Declined {
		return pkgerrors.ActionAlreadyDeclined
	}
	return pkgerrors.ActionNotFound
}

// pickDeclineTarget 在候选实例中挑未完成未拒绝且指派日期最新的一条
func pickDeclineTarget(candidates []model.DailyAction) *model.DailyAction {
	var target *model.DailyAction
	for i := range candidates {
		inst := &candidates[i]
		if inst.Completed || inst.Declined {
			continue
		}
		if target == nil || inst.AssignedDate.After(target.AssignedDate) {
			target = inst
		}
	}
	return target
}

func getInstance(ctx context.Context, db *gorm.DB, ownerID, instanceID int64) (*model.DailyAction, error) {
	var instance model.DailyAction
	err := db.WithContext(ctx).Preload("Action").
		Where("id = ? AND user_id = ?", instanceID, ownerID).
		First(&instance).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.ActionNotFound
		}
		return nil, fmt.Errorf("failed to query action instance: %w", err)
	}
	return &instance, nil
}

func toActionItem(instance *model.DailyAction) dto.ActionItem {
	return dto.ActionItem{
		ID:           strconv.FormatInt(instance.ID, 10),
		ActionID:     strconv.FormatInt(instance.ActionID, 10),
		Title:        instance.Action.Title,
		Category:     instance.Action.Category,
		AssignedDate: utils.FormatDate(instance.AssignedDate),
		Completed:    instance.Completed,
		CompletedAt:  instance.CompletedAt,
		Declined:     instance.Declined,
		Favorited:    instance.Favorited,
	}
}
