package model

import "time"

// ActionCadence 动作的推送节奏
type ActionCadence string

const (
	ActionCadenceDaily  ActionCadence = "daily"
	ActionCadenceWeekly ActionCadence = "weekly"
)

// Action 动作定义（内容选择由上游系统负责，这里只存引用信息）
type Action struct {
	BaseModel
	Title    string        `gorm:"type:varchar(128);not null" json:"title"`
	Category string        `gorm:"type:varchar(64);not null;index:idx_actions_category" json:"category"`
	Cadence  ActionCadence `gorm:"type:varchar(16);not null;default:'daily'" json:"cadence"`
}

// TableName 指定表名
func (Action) TableName() string {
	return "actions"
}

// DailyAction 指派给用户的动作实例
// 同一用户同一天同一动作只有一条记录
type DailyAction struct {
	BaseModel
	UserID       int64     `gorm:"not null;uniqueIndex:uq_daily_actions_user_action_date;index:idx_daily_actions_user" json:"user_id"`
	ActionID     int64     `gorm:"not null;uniqueIndex:uq_daily_actions_user_action_date" json:"action_id"`
	AssignedDate time.Time `gorm:"type:date;not null;uniqueIndex:uq_daily_actions_user_action_date" json:"assigned_date"`

	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Declined    bool       `gorm:"not null;default:false" json:"declined"`
	DeclinedAt  *time.Time `json:"declined_at,omitempty"`
	Favorited   bool       `gorm:"not null;default:false" json:"favorited"`

	Action Action `gorm:"foreignKey:ActionID" json:"action"`
}

// TableName 指定表名
func (DailyAction) TableName() string {
	return "daily_actions"
}

// HiddenAction 隐藏标记，作用于 (user, action) 对，与日期无关
type HiddenAction struct {
	BaseModel
	UserID   int64 `gorm:"not null;uniqueIndex:uq_hidden_actions_user_action" json:"user_id"`
	ActionID int64 `gorm:"not null;uniqueIndex:uq_hidden_actions_user_action" json:"action_id"`

	Action Action `gorm:"foreignKey:ActionID" json:"action"`
}

// TableName 指定表名
func (HiddenAction) TableName() string {
	return "hidden_actions"
}
