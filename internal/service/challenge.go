package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"HeartHabit/config"
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

type ChallengeService struct{}

var (
	challengeService *ChallengeService
	challengeOnce    sync.Once
)

func Challenge() *ChallengeService {
	challengeOnce.Do(func() {
		challengeService = &ChallengeService{}
	})
	return challengeService
}

// Join 报名挑战，同一挑战存在活跃报名时冲突
func (s *ChallengeService) Join(ctx context.Context, userID int64, challengeID int64) (*dto.JoinChallengeResponse, error) {
	db := database.DB()

	user, err := getUserByPublicID(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	challenge, err := getChallenge(ctx, db, challengeID)
	if err != nil {
		return nil, err
	}

	var enrollment model.ChallengeEnrollment
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.ChallengeEnrollment
		err := tx.Where("user_id = ? AND challenge_id = ? AND completed = ?", user.ID, challenge.ID, false).
			First(&existing).Error
		if err == nil {
			return pkgerrors.ChallengeAlreadyJoined
		}
		if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("failed to check active enrollment: %w", err)
		}

		enrollment = model.ChallengeEnrollment{
			UserID:      user.ID,
			ChallengeID: challenge.ID,
			JoinedAt:    time.Now(),
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			return fmt.Errorf("failed to create enrollment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterChallengeEvent(ctx, userID, "join")

	logger.Logger.Info("User joined challenge",
		zap.Int64("user_id", userID),
		zap.Int64("challenge_id", challengeID),
	)

	return &dto.JoinChallengeResponse{
		Message:    fmt.Sprintf("You joined %q", challenge.Title),
		Enrollment: toEnrollmentItem(&enrollment, challenge),
	}, nil
}

// RecordDailyProgress 当日进度加一，同一天重复调用是无操作
// 幂等由条件更新保证，Redis 标记只是快路径
func (s *ChallengeService) RecordDailyProgress(ctx context.Context, userID int64, challengeID int64) (*dto.EnrollmentItem, error) {
	db := database.DB()

	user, err := getUserByPublicID(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	challenge, err := getChallenge(ctx, db, challengeID)
	if err != nil {
		return nil, err
	}

	enrollment, err := getActiveEnrollment(ctx, db, user.ID, challenge.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	today := utils.DateOnly(now)

	alreadyToday, err := cache.HasDailyProgress(ctx, enrollment.ID, utils.FormatDate(today))
	if err != nil {
		logger.Logger.Warn("Progress marker unavailable, falling back to store",
			zap.Int64("enrollment_id", enrollment.ID),
			zap.Error(err),
		)
		alreadyToday = false
	}

	if !alreadyToday {
		result := db.WithContext(ctx).Model(&model.ChallengeEnrollment{}).
			Where("id = ? AND completed = ? AND (last_progress_date IS NULL OR last_progress_date < ?)",
				enrollment.ID, false, today).
			Updates(map[string]interface{}{
				"completed_days":     gorm.Expr("completed_days + 1"),
				"last_progress_date": today,
			})
		if result.Error != nil {
			return nil, fmt.Errorf("failed to record progress: %w", result.Error)
		}

		if result.RowsAffected > 0 {
			if err := cache.MarkDailyProgress(ctx, enrollment.ID, utils.FormatDate(today)); err != nil {
				logger.Logger.Warn("Failed to write progress marker",
					zap.Int64("enrollment_id", enrollment.ID),
					zap.Error(err),
				)
			}

			s.afterChallengeEvent(ctx, userID, "progress")

			if err := queue.PublishEngagementRecalc(ctx, userID, "challenge_progress"); err != nil {
				logger.Logger.Error("Failed to publish recalc event",
					zap.Int64("user_id", userID),
					zap.Error(err),
				)
			}
		}
	}

	updated, err := getActiveEnrollment(ctx, db, user.ID, challenge.ID)
	if err != nil {
		return nil, err
	}

	item := toEnrollmentItem(updated, challenge)
	return &item, nil
}

// Leave 离开挑战，进度计数保留
func (s *ChallengeService) Leave(ctx context.Context, userID int64, challengeID int64) (*dto.LeaveChallengeResponse, error) {
	db := database.DB()

	user, err := getUserByPublicID(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	challenge, err := getChallenge(ctx, db, challengeID)
	if err != nil {
		return nil, err
	}

	result := db.WithContext(ctx).Model(&model.ChallengeEnrollment{}).
		Where("user_id = ? AND challenge_id = ? AND completed = ?", user.ID, challenge.ID, false).
		Update("completed", true)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to leave challenge: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, pkgerrors.EnrollmentNotFound
	}

	var enrollment model.ChallengeEnrollment
	if err := db.WithContext(ctx).
		Where("user_id = ? AND challenge_id = ?", user.ID, challenge.ID).
		Order("id DESC").First(&enrollment).Error; err != nil {
		return nil, fmt.Errorf("failed to reload enrollment: %w", err)
	}

	// 清掉当日标记，同一天重新报名后进度不受旧标记影响
	if err := cache.ClearDailyProgress(ctx, enrollment.ID, utils.FormatDate(time.Now())); err != nil {
		logger.Logger.Warn("Failed to clear progress marker",
			zap.Int64("enrollment_id", enrollment.ID),
			zap.Error(err),
		)
	}

	s.afterChallengeEvent(ctx, userID, "leave")

	logger.Logger.Info("User left challenge",
		zap.Int64("user_id", userID),
		zap.Int64("challenge_id", challengeID),
		zap.Int("completed_days", enrollment.CompletedDays),
	)

	return &dto.LeaveChallengeResponse{
		Message:    fmt.Sprintf("You left %q", challenge.Title),
		Enrollment: toEnrollmentItem(&enrollment, challenge),
	}, nil
}

// ListActive 用户的活跃报名，带派生进度字段
func (s *ChallengeService) ListActive(ctx context.Context, userID int64) ([]*dto.EnrollmentItem, error) {
	db := database.DB()

	user, err := getUserByPublicID(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	cacheKey := strconv.FormatInt(userID, 10)
	var cached []*dto.EnrollmentItem
	if hit, err := cache.EnrollmentCache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	var enrollments []model.ChallengeEnrollment
	if err := db.WithContext(ctx).
		Preload("Challenge").
		Where("user_id = ? AND completed = ?", user.ID, false).
		Order("joined_at DESC").
		Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	items := make([]*dto.EnrollmentItem, 0, len(enrollments))
	for i := range enrollments {
		item := toEnrollmentItem(&enrollments[i], &enrollments[i].Challenge)
		items = append(items, &item)
	}

	if err := cache.EnrollmentCache.Set(ctx, cacheKey, items); err != nil {
		logger.Logger.Warn("Failed to cache enrollment list",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	return items, nil
}

func (s *ChallengeService) afterChallengeEvent(ctx context.Context, userID int64, event string) {
	key := strconv.FormatInt(userID, 10)

	if err := cache.ScoreCache.Delete(ctx, key); err != nil {
		logger.Logger.Warn("Failed to invalidate score cache",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	if err := cache.EnrollmentCache.Delete(ctx, key); err != nil {
		logger.Logger.Warn("Failed to invalidate enrollment cache",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	if m := metrics.GetMetrics(); m != nil {
		m.RecordChallengeEvent(ctx, event)
	}
}

func getChallenge(ctx context.Context, db *gorm.DB, challengeID int64) (*model.Challenge, error) {
	var challenge model.Challenge
	if err := db.WithContext(ctx).First(&challenge, challengeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.ChallengeNotFound
		}
		return nil, fmt.Errorf("failed to query challenge: %w", err)
	}
	return &challenge, nil
}

func getActiveEnrollment(ctx context.Context, db *gorm.DB, ownerID, challengeID int64) (*model.ChallengeEnrollment, error) {
	var enrollment model.ChallengeEnrollment
	err := db.WithContext(ctx).
		Where("user_id = ? AND challenge_id = ? AND completed = ?", ownerID, challengeID, false).
		First(&enrollment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.EnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to query enrollment: %w", err)
	}
	return &enrollment, nil
}

// toEnrollmentItem 计算进度百分比和剩余天数
// 挑战天数缺失时退回配置的默认值
func toEnrollmentItem(enrollment *model.ChallengeEnrollment, challenge *model.Challenge) dto.EnrollmentItem {
	totalDays := challenge.TotalDays
	if totalDays <= 0 {
		totalDays = config.Cfg.DefaultChallengeDays
	}

	// 四舍五入，3/7 展示为 43% 而不是 42%
	percent := int(math.Round(float64(enrollment.CompletedDays) * 100 / float64(totalDays)))
	if percent > 100 {
		percent = 100
	}
	remaining := totalDays - enrollment.CompletedDays
	if remaining < 0 {
		remaining = 0
	}

	var lastProgress *string
	if enrollment.LastProgressDate != nil {
		d := utils.FormatDate(*enrollment.LastProgressDate)
		lastProgress = &d
	}

	return dto.EnrollmentItem{
		ID:               strconv.FormatInt(enrollment.ID, 10),
		ChallengeID:      strconv.FormatInt(enrollment.ChallengeID, 10),
		Title:            challenge.Title,
		TotalDays:        totalDays,
		CompletedDays:    enrollment.CompletedDays,
		ProgressPercent:  percent,
		RemainingDays:    remaining,
		Completed:        enrollment.Completed,
		JoinedAt:         enrollment.JoinedAt,
		LastProgressDate: lastProgress,
	}
}
