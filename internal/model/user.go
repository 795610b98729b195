package model

import "time"

// UserTier 用户订阅层级
type UserTier string

const (
	UserTierTrial  UserTier = "trial"  // 试用期
	UserTierMember UserTier = "member" // 正式会员
)

// User 用户模型
type User struct {
	BaseModel
	PublicID int64    `gorm:"uniqueIndex;not null" json:"public_id"`
	Email    string   `gorm:"uniqueIndex;type:varchar(255);not null" json:"email"`
	Nickname string   `gorm:"type:varchar(64);not null;default:''" json:"nickname"`
	Tier     UserTier `gorm:"type:varchar(16);not null;default:'trial';index:idx_users_tier" json:"tier"`

	TrialEndsAt *time.Time `json:"trial_ends_at,omitempty"`
	Timezone    string     `gorm:"type:varchar(64);not null;default:'UTC'" json:"timezone"`

	// 统计快照，worker 在每次完成事件后刷新
	HealthScore  int        `gorm:"not null;default:0" json:"health_score"`
	BadgeBonus   int        `gorm:"not null;default:0" json:"badge_bonus"`
	LastScoredAt *time.Time `json:"last_scored_at,omitempty"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
