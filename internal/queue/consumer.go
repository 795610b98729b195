package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"HeartHabit/internal/cache"
	"HeartHabit/internal/model"
	"HeartHabit/pkg/errors"
	"HeartHabit/pkg/logger"
	"HeartHabit/storage/mq"
)

// RecalcService worker 启动时注入，避免 queue 反向依赖 service
type RecalcService interface {
	RecalculateBadges(ctx context.Context, userID int64) (int, error)
	RefreshScore(ctx context.Context, userID int64, trigger string) error
}

var recalcService RecalcService

// SetRecalcService 设置重算服务（在 worker 启动时调用）
func SetRecalcService(s RecalcService) {
	recalcService = s
}

// StartEngagementRecalcConsumer 启动参与度重算消费者
func StartEngagementRecalcConsumer(ctx context.Context) error {
	handler := func(body []byte) error {
		var msg model.EngagementRecalcMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal engagement recalc message: %w", err)
		}

		processed, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			// 检查失败时继续处理，重算收敛，重复无害
		} else if !processed {
			logger.Logger.Info("Message already processed or being processed, skipping",
				zap.String("message_id", msg.MessageID),
				zap.Int64("user_id", msg.UserID),
			)
			return &errors.SkipMessageError{Reason: fmt.Sprintf("Message %s already processed", msg.MessageID)}
		}

		logger.Logger.Info("Processing engagement recalc",
			zap.String("message_id", msg.MessageID),
			zap.Int64("user_id", msg.UserID),
			zap.String("trigger", msg.Trigger),
		)

		if recalcService == nil {
			logger.Logger.Error("RecalcService not initialized",
				zap.String("message_id", msg.MessageID),
			)
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("recalc service not initialized")
		}

		awarded, err := recalcService.RecalculateBadges(ctx, msg.UserID)
		if err != nil {
			// 取消标记，允许重试
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("failed to recalculate badges: %w", err)
		}

		if err := recalcService.RefreshScore(ctx, msg.UserID, msg.Trigger); err != nil {
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("failed to refresh score snapshot: %w", err)
		}

		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			// 记录失败但不影响主流程
		}

		logger.Logger.Info("Engagement recalc finished",
			zap.String("message_id", msg.MessageID),
			zap.Int64("user_id", msg.UserID),
			zap.Int("badges_awarded", awarded),
		)

		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         mq.EngagementRecalcQueue,
		ConsumerTag:   "engagement_recalc_consumer",
		PrefetchCount: 10,
		Handler:       handler,
	})
}

// StartAllConsumers 启动所有消费者（在 worker 启动时调用）
func StartAllConsumers(ctx context.Context) {
	var wg sync.WaitGroup

	consumers := []struct {
		name     string
		consumer func(context.Context) error
	}{
		{"engagement_recalc", StartEngagementRecalcConsumer},
	}

	for _, c := range consumers {
		wg.Add(1)
		go func(name string, consumer func(context.Context) error) {
			defer wg.Done()

			logger.Logger.Info("Starting consumer",
				zap.String("consumer_name", name),
			)

			if err := consumer(ctx); err != nil {
				logger.Logger.Error("Consumer exited with error",
					zap.String("consumer_name", name),
					zap.Error(err),
				)
			}
		}(c.name, c.consumer)
	}

	wg.Wait()

	logger.Logger.Info("All consumers started")
}
