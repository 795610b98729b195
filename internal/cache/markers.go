package cache

import (
	"context"
	"strconv"
	"time"

	"HeartHabit/storage/redis"
)

const (
	processedPrefix = "mq:processed"
	progressPrefix  = "challenge:progress"
)

// TryMarkMessageProcessing 原子地检查并标记消息正在处理
// 返回 false 表示该消息已被处理过或正在处理
func TryMarkMessageProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	key := redis.Key(processedPrefix, messageID)
	return redis.Client().SetNX(ctx, key, 1, ttl).Result()
}

// UnmarkMessageProcessing 处理失败时取消标记，允许消息重试
func UnmarkMessageProcessing(ctx context.Context, messageID string) error {
	key := redis.Key(processedPrefix, messageID)
	return redis.Client().Del(ctx, key).Err()
}

// MarkMessageProcessed 处理成功后延长标记的 TTL
func MarkMessageProcessed(ctx context.Context, messageID string, ttl time.Duration) error {
	key := redis.Key(processedPrefix, messageID)
	return redis.Client().Set(ctx, key, 1, ttl).Err()
}

// HasDailyProgress 当日进度快路径检查，true 表示今天已记录过
// 只是快路径，真正的幂等由数据库条件更新保证
func HasDailyProgress(ctx context.Context, enrollmentID int64, date string) (bool, error) {
	key := redis.Key(progressPrefix, formatID(enrollmentID), date)
	n, err := redis.Client().Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkDailyProgress 数据库落账成功后写入当日标记
func MarkDailyProgress(ctx context.Context, enrollmentID int64, date string) error {
	key := redis.Key(progressPrefix, formatID(enrollmentID), date)
	return redis.Client().Set(ctx, key, 1, 48*time.Hour).Err()
}

// ClearDailyProgress 离开挑战时清掉当日标记
func ClearDailyProgress(ctx context.Context, enrollmentID int64, date string) error {
	key := redis.Key(progressPrefix, formatID(enrollmentID), date)
	return redis.Client().Del(ctx, key).Err()
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
