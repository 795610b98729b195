package dto

import "time"

// ActionItem 动作实例视图
type ActionItem struct {
	ID           string     `json:"id"`
	ActionID     string     `json:"action_id"`
	Title        string     `json:"title"`
	Category     string     `json:"category"`
	AssignedDate string     `json:"assigned_date"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Declined     bool       `json:"declined"`
	Favorited    bool       `json:"favorited"`
}

// CompleteActionResponse 完成动作的返回
type CompleteActionResponse struct {
	Action        ActionItem `json:"action"`
	CurrentStreak int        `json:"current_streak"`
	HealthScore   int        `json:"health_score"`
}

// DeclineActionResponse 按 ID 拒绝动作的返回
type DeclineActionResponse struct {
	Action ActionItem `json:"action"`
}

// DeclineByActionRequest 邮件入口按动作拒绝的请求
type DeclineByActionRequest struct {
	ActionID string `json:"action_id" vd:"len($)>0"`
	Date     string `json:"date,omitempty"` // YYYY-MM-DD，缺省取最近一条未完成实例
}

// DeclineByActionResponse 按动作拒绝的返回，带跳转地址
type DeclineByActionResponse struct {
	Action     ActionItem `json:"action"`
	RedirectTo string     `json:"redirect_to"`
}

// FavoriteActionResponse 收藏切换的返回
type FavoriteActionResponse struct {
	Favorited bool `json:"favorited"`
}

// HiddenActionItem 隐藏列表项
type HiddenActionItem struct {
	ActionID string    `json:"action_id"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	HiddenAt time.Time `json:"hidden_at"`
}
