package model

import "time"

// BadgeKind 徽章规则类型
type BadgeKind string

const (
	BadgeKindStreak   BadgeKind = "streak"   // 连续完成天数
	BadgeKindTotal    BadgeKind = "total"    // 累计完成次数
	BadgeKindVariety  BadgeKind = "variety"  // 不同动作数
	BadgeKindCategory BadgeKind = "category" // 单一分类完成次数
)

// BadgeDefinition 徽章规则，全量重算时逐条求值
type BadgeDefinition struct {
	Code      string    `json:"code"`
	Title     string    `json:"title"`
	Kind      BadgeKind `json:"kind"`
	Threshold int       `json:"threshold"`
	Category  string    `json:"category,omitempty"` // 仅 category 类徽章使用
	Bonus     int       `json:"bonus"`              // 计入健康分的加成
}

// BadgeCatalog 全部徽章规则
var BadgeCatalog = []BadgeDefinition{
	{Code: "streak_3", Title: "三日连击", Kind: BadgeKindStreak, Threshold: 3, Bonus: 1},
	{Code: "streak_7", Title: "七日连击", Kind: BadgeKindStreak, Threshold: 7, Bonus: 2},
	{Code: "streak_30", Title: "三十日连击", Kind: BadgeKindStreak, Threshold: 30, Bonus: 5},
	{Code: "total_1", Title: "第一步", Kind: BadgeKindTotal, Threshold: 1, Bonus: 1},
	{Code: "total_10", Title: "十次完成", Kind: BadgeKindTotal, Threshold: 10, Bonus: 1},
	{Code: "total_50", Title: "五十次完成", Kind: BadgeKindTotal, Threshold: 50, Bonus: 2},
	{Code: "total_100", Title: "百次完成", Kind: BadgeKindTotal, Threshold: 100, Bonus: 3},
	{Code: "variety_5", Title: "初试身手", Kind: BadgeKindVariety, Threshold: 5, Bonus: 1},
	{Code: "variety_15", Title: "博采众长", Kind: BadgeKindVariety, Threshold: 15, Bonus: 2},
	{Code: "category_communication_10", Title: "沟通达人", Kind: BadgeKindCategory, Threshold: 10, Category: "communication", Bonus: 2},
	{Code: "category_quality_time_10", Title: "陪伴达人", Kind: BadgeKindCategory, Threshold: 10, Category: "quality_time", Bonus: 2},
}

// BadgeDefinitionByCode 按编码查找徽章规则
func BadgeDefinitionByCode(code string) (BadgeDefinition, bool) {
	for _, def := range BadgeCatalog {
		if def.Code == code {
			return def, true
		}
	}
	return BadgeDefinition{}, false
}

// BadgeAward 用户已获得的徽章
type BadgeAward struct {
	BaseModel
	UserID    int64     `gorm:"not null;uniqueIndex:uq_badge_awards_user_code" json:"user_id"`
	BadgeCode string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_badge_awards_user_code" json:"badge_code"`
	AwardedAt time.Time `gorm:"not null" json:"awarded_at"`
}

// TableName 指定表名
func (BadgeAward) TableName() string {
	return "badge_awards"
}
