package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"HeartHabit/internal/cache"
	"HeartHabit/internal/model"
	"HeartHabit/internal/model/dto"
	pkgerrors "HeartHabit/pkg/errors"
	"HeartHabit/pkg/logger"
	"HeartHabit/pkg/metrics"
	"HeartHabit/storage/database"
	"HeartHabit/utils"
)

// HealthScoreInputs 健康分计算的输入统计
type HealthScoreInputs struct {
	TotalCompleted    int
	CurrentStreak     int
	TotalDaysActive   int
	UniqueActionCount int
	LastActionDate    *time.Time
}

const (
	streakPointsPerDay   = 6
	streakPointsCap      = 50
	completionPointsEach = 1.5
	completionPointsCap  = 20
	varietyPointsEach    = 3
	varietyPointsCap     = 30
	decayGraceDays       = 2
	decayPointsPerDay    = 2
	healthScoreMax       = 100
)

// ComputeHealthScore 由完成统计和徽章加成计算 [0,100] 健康分
// now 由调用方注入，日期只取日粒度
func ComputeHealthScore(in HealthScoreInputs, badgeBonus int, now time.Time) (int, dto.ScoreBreakdown) {
	// 非法输入一律按零处理
	if in.CurrentStreak < 0 {
		in.CurrentStreak = 0
	}
	if in.TotalCompleted < 0 {
		in.TotalCompleted = 0
	}
	if in.UniqueActionCount < 0 {
		in.UniqueActionCount = 0
	}
	if badgeBonus < 0 {
		badgeBonus = 0
	}

	streakPoints := math.Min(float64(in.CurrentStreak)*streakPointsPerDay, streakPointsCap)
	completionPoints := math.Min(float64(in.TotalCompleted)*completionPointsEach, completionPointsCap)
	varietyPoints := math.Min(float64(in.UniqueActionCount)*varietyPointsEach, varietyPointsCap)

	base := streakPoints + completionPoints + varietyPoints

	var decay float64
	if in.LastActionDate != nil {
		elapsed := utils.DaysBetween(*in.LastActionDate, now)
		if elapsed > decayGraceDays {
			decay = math.Min(float64(elapsed-decayGraceDays)*decayPointsPerDay, base)
			base -= decay
		}
	}
	if base < 0 {
		base = 0
	}

	final := base + float64(badgeBonus)
	if final > healthScoreMax {
		final = healthScoreMax
	}
	if final < 0 {
		final = 0
	}

	return int(math.Round(final)), dto.ScoreBreakdown{
		StreakPoints:     streakPoints,
		CompletionPoints: completionPoints,
		VarietyPoints:    varietyPoints,
		DecayPenalty:     decay,
		BadgeBonus:       badgeBonus,
	}
}

// CurrentStreak 由完成日集合计算当前连续天数
// 最近一次完成早于昨天则连续中断，返回 0
func CurrentStreak(completionDays []time.Time, now time.Time) int {
	if len(completionDays) == 0 {
		return 0
	}

	seen := make(map[time.Time]struct{}, len(completionDays))
	for _, d := range completionDays {
		seen[utils.DateOnly(d)] = struct{}{}
	}

	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	today := utils.DateOnly(now)
	latest := days[0]
	if utils.DaysBetween(latest, today) > 1 {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if utils.DaysBetween(days[i], days[i-1]) == 1 {
			streak++
			continue
		}
		break
	}

	return streak
}

type ScoreService struct{}

var (
	scoreService *ScoreService
	scoreOnce    sync.Once
)

func Score() *ScoreService {
	scoreOnce.Do(func() {
		scoreService = &ScoreService{}
	})
	return scoreService
}

// GetScore 返回用户当前健康分及分项构成
func (s *ScoreService) GetScore(ctx context.Context, userID int64) (*dto.ScoreResponse, error) {
	// 缓存命中直接返回，TTL 较短，任何生命周期变更都会失效
	var cached dto.ScoreResponse
	if hit, err := cache.ScoreCache.Get(ctx, fmt.Sprintf("%d", userID), &cached); err == nil && hit {
		return &cached, nil
	}

	resp, _, err := s.computeForUser(ctx, userID, time.Now())
	if err != nil {
		return nil, err
	}

	if err := cache.ScoreCache.Set(ctx, fmt.Sprintf("%d", userID), resp); err != nil {
		logger.Logger.Warn("Failed to cache health score",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	return resp, nil
}

// RefreshSnapshot 重算健康分并回写到用户行的统计快照
// worker 在消费完成事件后调用，失败可安全重试
func (s *ScoreService) RefreshSnapshot(ctx context.Context, userID int64, trigger string) error {
	started := time.Now()

	resp, user, err := s.computeForUser(ctx, userID, time.Now())
	if err != nil {
		return err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"health_score":   resp.Score,
		"badge_bonus":    resp.Breakdown.BadgeBonus,
		"last_scored_at": now,
	}
	if err := database.DB().WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update score snapshot: %w", err)
	}

	if err := cache.ScoreCache.Set(ctx, fmt.Sprintf("%d", userID), resp); err != nil {
		logger.Logger.Warn("Failed to refresh score cache",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	if m := metrics.GetMetrics(); m != nil {
		m.RecordScoreComputed(ctx, trigger, time.Since(started).Seconds())
	}

	logger.Logger.Info("Health score snapshot refreshed",
		zap.Int64("user_id", userID),
		zap.Int("score", resp.Score),
		zap.String("trigger", trigger),
	)

	return nil
}

func (s *ScoreService) computeForUser(ctx context.Context, userID int64, now time.Time) (*dto.ScoreResponse, *model.User, error) {
	db := database.DB()

	user, err := getUserByPublicID(ctx, db, userID)
	if err != nil {
		return nil, nil, err
	}

	inputs, err := collectScoreInputs(ctx, db, user.ID, now)
	if err != nil {
		return nil, nil, err
	}

	bonus, err := badgeBonusForUser(ctx, db, user.ID)
	if err != nil {
		return nil, nil, err
	}

	score, breakdown := ComputeHealthScore(inputs, bonus, now)

	return &dto.ScoreResponse{
		Score:      score,
		Breakdown:  breakdown,
		ComputedAt: now,
	}, user, nil
}

// collectScoreInputs 汇总完成历史统计，徽章重算与健康分共用
func collectScoreInputs(ctx context.Context, db *gorm.DB, userID int64, now time.Time) (HealthScoreInputs, error) {
	var inputs HealthScoreInputs

	var completedAt []time.Time
	if err := db.WithContext(ctx).Model(&model.DailyAction{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Order("completed_at DESC").
		Pluck("completed_at", &completedAt).Error; err != nil {
		return inputs, fmt.Errorf("failed to load completion history: %w", err)
	}

	inputs.TotalCompleted = len(completedAt)
	if len(completedAt) > 0 {
		last := completedAt[0]
		inputs.LastActionDate = &last
	}

	daySet := make(map[time.Time]struct{}, len(completedAt))
	for _, t := range completedAt {
		daySet[utils.DateOnly(t)] = struct{}{}
	}
	inputs.TotalDaysActive = len(daySet)
	inputs.CurrentStreak = CurrentStreak(completedAt, now)

	var uniqueCount int64
	if err := db.WithContext(ctx).Model(&model.DailyAction{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Distinct("action_id").
		Count(&uniqueCount).Error; err != nil {
		return inputs, fmt.Errorf("failed to count distinct actions: %w", err)
	}
	inputs.UniqueActionCount = int(uniqueCount)

	return inputs, nil
}

// badgeBonusForUser 汇总用户已获徽章的分数加成
func badgeBonusForUser(ctx context.Context, db *gorm.DB, userID int64) (int, error) {
	var codes []string
	if err := db.WithContext(ctx).Model(&model.BadgeAward{}).
		Where("user_id = ?", userID).
		Pluck("badge_code", &codes).Error; err != nil {
		return 0, fmt.Errorf("failed to load badge awards: %w", err)
	}

	bonus := 0
	for _, code := range codes {
		if def, ok := model.BadgeDefinitionByCode(code); ok {
			bonus += def.Bonus
		}
	}
	return bonus, nil
}

// getUserByPublicID 按对外 ID 查用户，所有 service 入口共用
func getUserByPublicID(ctx context.Context, db *gorm.DB, publicID int64) (*model.User, error) {
	var user model.User
	err := db.WithContext(ctx).Where("public_id = ?", publicID).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.UserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}
