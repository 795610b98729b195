package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"HeartHabit/internal/cache"
	"HeartHabit/internal/model"
	"HeartHabit/internal/model/dto"
	"HeartHabit/pkg/logger"
	"HeartHabit/pkg/metrics"
	"HeartHabit/storage/database"
	"HeartHabit/utils"
)

// BadgeStats 徽章求值所需的全量历史统计
type BadgeStats struct {
	TotalCompleted    int
	BestStreak        int
	UniqueActionCount int
	CategoryCounts    map[string]int
}

// EvaluateBadges 对照规则表求出当前应持有的徽章集合
// 纯函数，徽章集合始终是历史的函数
func EvaluateBadges(stats BadgeStats) []model.BadgeDefinition {
	var earned []model.BadgeDefinition

	for _, def := range model.BadgeCatalog {
		switch def.Kind {
		case model.BadgeKindStreak:
			if stats.BestStreak >= def.Threshold {
				earned = append(earned, def)
			}
		case model.BadgeKindTotal:
			if stats.TotalCompleted >= def.Threshold {
				earned = append(earned, def)
			}
		case model.BadgeKindVariety:
			if stats.UniqueActionCount >= def.Threshold {
				earned = append(earned, def)
			}
		case model.BadgeKindCategory:
			if stats.CategoryCounts[def.Category] >= def.Threshold {
				earned = append(earned, def)
			}
		}
	}

	return earned
}

// BestStreak 历史上最长的连续完成天数
func BestStreak(completionDays []time.Time) int {
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
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if utils.DaysBetween(days[i-1], days[i]) == 1 {
			run++
			if run > best {
				best = run
			}
			continue
		}
		run = 1
	}

	return best
}

type BadgeService struct{}

var (
	badgeService *BadgeService
	badgeOnce    sync.Once
)

func Badge() *BadgeService {
	badgeOnce.Do(func() {
		badgeService = &BadgeService{}
	})
	return badgeService
}

// Recalculate 全量重算用户徽章并原子替换存量集合
// 历史读取失败时整体失败，已有徽章保持不变
func (s *BadgeService) Recalculate(ctx context.Context, userID int64) (*dto.RecalculateBadgesResponse, error) {
	db := database.DB()

	user, err := getUserByPublicID(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	// 同一用户的并发重算是收敛的，锁只是省掉重复扫描
	lockKey := fmt.Sprintf("badge:recalc:%d", user.ID)
	locked, err := cache.TryLock(ctx, lockKey, 30*time.Second)
	if err != nil {
		logger.Logger.Warn("Recalc lock unavailable, proceeding anyway",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		locked = true
	} else if !locked {
		logger.Logger.Info("Badge recalculation already in flight, skipping",
			zap.Int64("user_id", userID),
		)
		return &dto.RecalculateBadgesResponse{BadgesAwarded: 0}, nil
	}
	if locked && err == nil {
		defer func() {
			if err := cache.Unlock(ctx, lockKey); err != nil {
				logger.Logger.Warn("Failed to release recalc lock", zap.Error(err))
			}
		}()
	}

	stats, err := collectBadgeStats(ctx, db, user.ID)
	if err != nil {
		return nil, err
	}

	target := EvaluateBadges(stats)
	targetCodes := make(map[string]struct{}, len(target))
	for _, def := range target {
		targetCodes[def.Code] = struct{}{}
	}

	var current []model.BadgeAward
	if err := db.WithContext(ctx).Where("user_id = ?", user.ID).Find(&current).Error; err != nil {
		return nil, fmt.Errorf("failed to load current badges: %w", err)
	}

	currentCodes := make(map[string]struct{}, len(current))
	var toRemove []string
	for _, award := range current {
		currentCodes[award.BadgeCode] = struct{}{}
		if _, keep := targetCodes[award.BadgeCode]; !keep {
			toRemove = append(toRemove, award.BadgeCode)
		}
	}

	now := time.Now()
	var toAdd []model.BadgeAward
	for _, def := range target {
		if _, held := currentCodes[def.Code]; !held {
			toAdd = append(toAdd, model.BadgeAward{
				UserID:    user.ID,
				BadgeCode: def.Code,
				AwardedAt: now,
			})
		}
	}

	if len(toRemove) > 0 || len(toAdd) > 0 {
		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if len(toRemove) > 0 {
				if err := tx.Where("user_id = ? AND badge_code IN ?", user.ID, toRemove).
					Delete(&model.BadgeAward{}).Error; err != nil {
					return fmt.Errorf("failed to remove stale badges: %w", err)
				}
			}
			if len(toAdd) > 0 {
				if err := tx.Create(&toAdd).Error; err != nil {
					return fmt.Errorf("failed to award badges: %w", err)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		if err := cache.BadgeListCache.Delete(ctx, strconv.FormatInt(userID, 10)); err != nil {
			logger.Logger.Warn("Failed to invalidate badge cache", zap.Error(err))
		}
		if err := cache.ScoreCache.Delete(ctx, strconv.FormatInt(userID, 10)); err != nil {
			logger.Logger.Warn("Failed to invalidate score cache", zap.Error(err))
		}
	}

	if m := metrics.GetMetrics(); m != nil {
		m.RecordBadgeRecalc(ctx, int64(len(toAdd)), int64(len(toRemove)))
	}

	logger.Logger.Info("Badge recalculation finished",
		zap.Int64("user_id", userID),
		zap.Int("awarded", len(toAdd)),
		zap.Int("revoked", len(toRemove)),
	)

	return &dto.RecalculateBadgesResponse{BadgesAwarded: len(toAdd)}, nil
}

// ListBadges 用户当前持有的徽章
func (s *BadgeService) ListBadges(ctx context.Context, userID int64) ([]*dto.BadgeItem, error) {
	db := database.DB()

	user, err := getUserByPublicID(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	cacheKey := strconv.FormatInt(userID, 10)
	var cached []*dto.BadgeItem
	if hit, err := cache.BadgeListCache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	var awards []model.BadgeAward
	if err := db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Order("awarded_at DESC").
		Find(&awards).Error; err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}

	items := make([]*dto.BadgeItem, 0, len(awards))
	for _, award := range awards {
		def, ok := model.BadgeDefinitionByCode(award.BadgeCode)
		if !ok {
			// 规则表里已删除的旧徽章不再展示
			continue
		}
		items = append(items, &dto.BadgeItem{
			Code:      award.BadgeCode,
			Title:     def.Title,
			Bonus:     def.Bonus,
			AwardedAt: award.AwardedAt,
		})
	}

	if err := cache.BadgeListCache.Set(ctx, cacheKey, items); err != nil {
		logger.Logger.Warn("Failed to cache badge list", zap.Error(err))
	}

	return items, nil
}

// collectBadgeStats 汇总徽章求值需要的历史统计
func collectBadgeStats(ctx context.Context, db *gorm.DB, userID int64) (BadgeStats, error) {
	stats := BadgeStats{CategoryCounts: make(map[string]int)}

	var completedAt []time.Time
	if err := db.WithContext(ctx).Model(&model.DailyAction{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Pluck("completed_at", &completedAt).Error; err != nil {
		return stats, fmt.Errorf("failed to load completion history: %w", err)
	}

	stats.TotalCompleted = len(completedAt)
	stats.BestStreak = BestStreak(completedAt)

	var uniqueCount int64
	if err := db.WithContext(ctx).Model(&model.DailyAction{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Distinct("action_id").
		Count(&uniqueCount).Error; err != nil {
		return stats, fmt.Errorf("failed to count distinct actions: %w", err)
	}
	stats.UniqueActionCount = int(uniqueCount)

	type categoryCount struct {
		Category string
		Cnt      int
	}
	var counts []categoryCount
	if err := db.WithContext(ctx).Table("daily_actions").
		Select("actions.category AS category, COUNT(*) AS cnt").
		Joins("JOIN actions ON actions.id = daily_actions.action_id").
		Where("daily_actions.user_id = ? AND daily_actions.completed = ? AND daily_actions.deleted_at IS NULL", userID, true).
		Group("actions.category").
		Scan(&counts).Error; err != nil {
		return stats, fmt.Errorf("failed to count category completions: %w", err)
	}
	for _, c := range counts {
		stats.CategoryCounts[c.Category] = c.Cnt
	}

	return stats, nil
}
