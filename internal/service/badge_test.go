package service

import (
	"testing"
	"time"
)

func TestEvaluateBadges(t *testing.T) {
	tests := []struct {
		name  string
		stats BadgeStats
		want  []string
	}{
		{
			name:  "empty history earns nothing",
			stats: BadgeStats{},
			want:  nil,
		},
		{
			name:  "first completion",
			stats: BadgeStats{TotalCompleted: 1},
			want:  []string{"total_1"},
		},
		{
			name: "week-long streak",
			stats: BadgeStats{
				TotalCompleted: 7,
				BestStreak:     7,
			},
			want: []string{"streak_3", "streak_7", "total_1"},
		},
		{
			name: "variety thresholds",
			stats: BadgeStats{
				TotalCompleted:    20,
				UniqueActionCount: 15,
			},
			want: []string{"total_1", "total_10", "variety_5", "variety_15"},
		},
		{
			name: "category completions",
			stats: BadgeStats{
				TotalCompleted: 12,
				CategoryCounts: map[string]int{"communication": 10, "quality_time": 2},
			},
			want: []string{"total_1", "total_10", "category_communication_10"},
		},
		{
			name: "long-term power user",
			stats: BadgeStats{
				TotalCompleted:    120,
				BestStreak:        31,
				UniqueActionCount: 18,
				CategoryCounts:    map[string]int{"communication": 40, "quality_time": 35},
			},
			want: []string{
				"streak_3", "streak_7", "streak_30",
				"total_1", "total_10", "total_50", "total_100",
				"variety_5", "variety_15",
				"category_communication_10", "category_quality_time_10",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			earned := EvaluateBadges(tt.stats)

			got := make([]string, 0, len(earned))
			for _, def := range earned {
				got = append(got, def.Code)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("EvaluateBadges() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("badge[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEvaluateBadgesIsPure(t *testing.T) {
	stats := BadgeStats{
		TotalCompleted:    10,
		BestStreak:        3,
		UniqueActionCount: 5,
	}

	first := EvaluateBadges(stats)
	second := EvaluateBadges(stats)

	if len(first) != len(second) {
		t.Fatalf("repeated evaluation diverged: %d vs %d badges", len(first), len(second))
	}
	for i := range first {
		if first[i].Code != second[i].Code {
			t.Errorf("badge[%d] differs between runs", i)
		}
	}
}

func TestBestStreak(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	day := func(n int) time.Time {
		return base.AddDate(0, 0, n)
	}

	tests := []struct {
		name string
		days []time.Time
		want int
	}{
		{name: "empty history", days: nil, want: 0},
		{name: "single day", days: []time.Time{day(0)}, want: 1},
		{
			name: "run in the middle",
			days: []time.Time{day(0), day(5), day(6), day(7), day(10)},
			want: 3,
		},
		{
			name: "two runs keeps the longest",
			days: []time.Time{day(0), day(1), day(4), day(5), day(6), day(7)},
			want: 4,
		},
		{
			name: "duplicates within a day count once",
			days: []time.Time{day(0), day(0).Add(time.Hour), day(1)},
			want: 2,
		},
		{
			name: "older streak beats the current one",
			days: []time.Time{day(0), day(1), day(2), day(3), day(4), day(20), day(21)},
			want: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BestStreak(tt.days); got != tt.want {
				t.Errorf("BestStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}
