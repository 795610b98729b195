package model

import "time"

// Challenge 多日挑战定义
type Challenge struct {
	BaseModel
	Title       string `gorm:"type:varchar(128);not null" json:"title"`
	Description string `gorm:"type:text;not null;default:''" json:"description"`
	TotalDays   int    `gorm:"not null;default:7" json:"total_days"`
}

// TableName 指定表名
func (Challenge) TableName() string {
	return "challenges"
}

// ChallengeEnrollment 用户的挑战报名记录
// 活跃报名唯一性在 service 层以条件查询保证
type ChallengeEnrollment struct {
	BaseModel
	UserID      int64     `gorm:"not null;index:idx_enrollments_user" json:"user_id"`
	ChallengeID int64     `gorm:"not null;index:idx_enrollments_challenge" json:"challenge_id"`
	JoinedAt    time.Time `gorm:"not null" json:"joined_at"`

	CompletedDays    int        `gorm:"not null;default:0" json:"completed_days"`
	LastProgressDate *time.Time `gorm:"type:date" json:"last_progress_date,omitempty"`
	Completed        bool       `gorm:"not null;default:false" json:"completed"`

	Challenge Challenge `gorm:"foreignKey:ChallengeID" json:"challenge"`
}

// TableName 指定表名
func (ChallengeEnrollment) TableName() string {
	return "challenge_enrollments"
}
