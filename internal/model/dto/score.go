package dto

import "time"

// ScoreBreakdown 健康分的分项构成
type ScoreBreakdown struct {
	StreakPoints     float64 `json:"streak_points"`
	CompletionPoints float64 `json:"completion_points"`
	VarietyPoints    float64 `json:"variety_points"`
	DecayPenalty     float64 `json:"decay_penalty"`
	BadgeBonus       int     `json:"badge_bonus"`
}

// ScoreResponse 当前健康分
type ScoreResponse struct {
	Score      int            `json:"score"`
	Breakdown  ScoreBreakdown `json:"breakdown"`
	ComputedAt time.Time      `json:"computed_at"`
}

// BadgeItem 徽章视图
type BadgeItem struct {
	Code      string    `json:"code"`
	Title     string    `json:"title"`
	Bonus     int       `json:"bonus"`
	AwardedAt time.Time `json:"awarded_at"`
}

// RecalculateBadgesResponse 重算徽章的返回
type RecalculateBadgesResponse struct {
	BadgesAwarded int `json:"badges_awarded"`
}
