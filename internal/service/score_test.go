package service

import (
	"testing"
	"time"
)

var scoreNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := scoreNow.AddDate(0, 0, -n)
	return &t
}

func TestComputeHealthScore(t *testing.T) {
	tests := []struct {
		name       string
		inputs     HealthScoreInputs
		badgeBonus int
		want       int
	}{
		{
			name: "typical mid-range user",
			inputs: HealthScoreInputs{
				CurrentStreak:     5,
				TotalCompleted:    10,
				UniqueActionCount: 4,
				LastActionDate:    daysAgo(0),
			},
			want: 57, // 30 + 15 + 12
		},
		{
			name: "all components capped",
			inputs: HealthScoreInputs{
				CurrentStreak:     20,
				TotalCompleted:    100,
				UniqueActionCount: 20,
				LastActionDate:    daysAgo(0),
			},
			want: 100, // 50 + 20 + 30
		},
		{
			name: "badge bonus clamped at 100",
			inputs: HealthScoreInputs{
				CurrentStreak:     20,
				TotalCompleted:    100,
				UniqueActionCount: 20,
				LastActionDate:    daysAgo(0),
			},
			badgeBonus: 15,
			want:       100,
		},
		{
			name:   "zero history",
			inputs: HealthScoreInputs{},
			want:   0,
		},
		{
			name: "negative inputs treated as zero",
			inputs: HealthScoreInputs{
				CurrentStreak:     -3,
				TotalCompleted:    -1,
				UniqueActionCount: -7,
			},
			want: 0,
		},
		{
			name: "no decay within two idle days",
			inputs: HealthScoreInputs{
				CurrentStreak:  5,
				TotalCompleted: 8,
				LastActionDate: daysAgo(2),
			},
			want: 42, // 30 + 12, untouched
		},
		{
			name: "decay after five idle days",
			inputs: HealthScoreInputs{
				CurrentStreak:  5,
				TotalCompleted: 8,
				LastActionDate: daysAgo(5),
			},
			want: 36, // 42 - (5-2)*2
		},
		{
			name: "decay floors at zero",
			inputs: HealthScoreInputs{
				TotalCompleted: 2,
				LastActionDate: daysAgo(30),
			},
			want: 0, // base 3, decay capped at base
		},
		{
			name: "badge bonus survives full decay",
			inputs: HealthScoreInputs{
				TotalCompleted: 2,
				LastActionDate: daysAgo(30),
			},
			badgeBonus: 4,
			want:       4,
		},
		{
			name: "negative badge bonus treated as zero",
			inputs: HealthScoreInputs{
				TotalCompleted: 4,
				LastActionDate: daysAgo(0),
			},
			badgeBonus: -10,
			want:       6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ComputeHealthScore(tt.inputs, tt.badgeBonus, scoreNow)
			if got != tt.want {
				t.Errorf("ComputeHealthScore() = %d, want %d", got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("score %d out of [0,100]", got)
			}
		})
	}
}

func TestComputeHealthScoreBreakdown(t *testing.T) {
	inputs := HealthScoreInputs{
		CurrentStreak:     5,
		TotalCompleted:    8,
		UniqueActionCount: 2,
		LastActionDate:    daysAgo(5),
	}

	score, breakdown := ComputeHealthScore(inputs, 3, scoreNow)

	if breakdown.StreakPoints != 30 {
		t.Errorf("StreakPoints = %v, want 30", breakdown.StreakPoints)
	}
	if breakdown.CompletionPoints != 12 {
		t.Errorf("CompletionPoints = %v, want 12", breakdown.CompletionPoints)
	}
	if breakdown.VarietyPoints != 6 {
		t.Errorf("VarietyPoints = %v, want 6", breakdown.VarietyPoints)
	}
	if breakdown.DecayPenalty != 6 {
		t.Errorf("DecayPenalty = %v, want 6", breakdown.DecayPenalty)
	}
	if breakdown.BadgeBonus != 3 {
		t.Errorf("BadgeBonus = %v, want 3", breakdown.BadgeBonus)
	}
	if score != 45 { // 48 - 6 decay + 3 bonus
		t.Errorf("score = %d, want 45", score)
	}
}

func TestCurrentStreak(t *testing.T) {
	day := func(n int) time.Time {
		return scoreNow.AddDate(0, 0, -n)
	}

	tests := []struct {
		name string
		days []time.Time
		want int
	}{
		{name: "empty history", days: nil, want: 0},
		{name: "single completion today", days: []time.Time{day(0)}, want: 1},
		{name: "single completion yesterday", days: []time.Time{day(1)}, want: 1},
		{name: "stale history breaks streak", days: []time.Time{day(2), day(3)}, want: 0},
		{
			name: "three consecutive days",
			days: []time.Time{day(0), day(1), day(2)},
			want: 3,
		},
		{
			name: "gap stops the count",
			days: []time.Time{day(0), day(1), day(3), day(4)},
			want: 2,
		},
		{
			name: "duplicate completions on one day count once",
			days: []time.Time{day(0), day(0).Add(2 * time.Hour), day(1)},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentStreak(tt.days, scoreNow); got != tt.want {
				t.Errorf("CurrentStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}
