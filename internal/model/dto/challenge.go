package dto

import "time"

// EnrollmentItem 挑战报名视图，带派生进度
type EnrollmentItem struct {
	ID               string     `json:"id"`
	ChallengeID      string     `json:"challenge_id"`
	Title            string     `json:"title"`
	TotalDays        int        `json:"total_days"`
	CompletedDays    int        `json:"completed_days"`
	ProgressPercent  int        `json:"progress_percent"`
	RemainingDays    int        `json:"remaining_days"`
	Completed        bool       `json:"completed"`
	JoinedAt         time.Time  `json:"joined_at"`
	LastProgressDate *string    `json:"last_progress_date,omitempty"`
}

// JoinChallengeResponse 加入挑战的返回
type JoinChallengeResponse struct {
	Message    string         `json:"message"`
	Enrollment EnrollmentItem `json:"enrollment"`
}

// LeaveChallengeResponse 离开挑战的返回
type LeaveChallengeResponse struct {
	Message    string         `json:"message"`
	Enrollment EnrollmentItem `json:"enrollment"`
}
