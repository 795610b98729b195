package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"HeartHabit/internal/model"
	"HeartHabit/pkg/logger"
	"HeartHabit/pkg/snowflake"
	"HeartHabit/storage/mq"
)

// PublishEngagementRecalc 发布参与度重算事件
// 完成动作和挑战进度都会触发，worker 端重算是收敛的，重复投递无害
func PublishEngagementRecalc(ctx context.Context, userID int64, trigger string) error {
	id, err := snowflake.NextID(snowflake.GeneratorTypeMessage)
	if err != nil {
		logger.Logger.Error("Failed to generate message ID",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to generate message ID: %w", err)
	}

	msg := model.EngagementRecalcMessage{
		MessageID:  fmt.Sprintf("recalc_%d", id),
		BatchID:    uuid.NewString(),
		UserID:     userID,
		Trigger:    trigger,
		OccurredAt: time.Now().Format(time.RFC3339),
	}

	err = mq.PublishMessage(
		mq.EngagementExchange,
		mq.EngagementRecalcRoutingKey,
		msg,
	)
	if err != nil {
		logger.Logger.Error("Failed to publish engagement recalc message",
			zap.String("message_id", msg.MessageID),
			zap.Int64("user_id", userID),
			zap.String("trigger", trigger),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published engagement recalc message",
		zap.String("message_id", msg.MessageID),
		zap.String("batch_id", msg.BatchID),
		zap.Int64("user_id", userID),
		zap.String("trigger", trigger),
	)

	return nil
}
