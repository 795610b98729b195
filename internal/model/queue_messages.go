package model

// EngagementRecalcMessage 完成事件触发的异步重算消息
type EngagementRecalcMessage struct {
	MessageID  string `json:"message_id"` // 消息唯一ID，用于幂等性检查
	BatchID    string `json:"batch_id"`
	UserID     int64  `json:"user_id"`
	Trigger    string `json:"trigger"` // action_complete / challenge_progress / manual
	OccurredAt string `json:"occurred_at"`
}
