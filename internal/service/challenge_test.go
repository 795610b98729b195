package service

import (
	"testing"
	"time"

	"HeartHabit/internal/model"
)

func TestToEnrollmentItem(t *testing.T) {
	joined := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		enrollment    model.ChallengeEnrollment
		challenge     model.Challenge
		wantPercent   int
		wantRemaining int
	}{
		{
			name:          "fresh enrollment",
			enrollment:    model.ChallengeEnrollment{JoinedAt: joined},
			challenge:     model.Challenge{Title: "Week of Walks", TotalDays: 7},
			wantPercent:   0,
			wantRemaining: 7,
		},
		{
			name:          "mid-way progress",
			enrollment:    model.ChallengeEnrollment{JoinedAt: joined, CompletedDays: 3},
			challenge:     model.Challenge{Title: "Week of Walks", TotalDays: 7},
			wantPercent:   43, // 3/7 四舍五入
			wantRemaining: 4,
		},
		{
			name:          "finished counter",
			enrollment:    model.ChallengeEnrollment{JoinedAt: joined, CompletedDays: 7},
			challenge:     model.Challenge{Title: "Week of Walks", TotalDays: 7},
			wantPercent:   100,
			wantRemaining: 0,
		},
		{
			name:          "counter beyond total stays clamped",
			enrollment:    model.ChallengeEnrollment{JoinedAt: joined, CompletedDays: 9},
			challenge:     model.Challenge{Title: "Week of Walks", TotalDays: 7},
			wantPercent:   100,
			wantRemaining: 0,
		},
		{
			name:          "missing total falls back to default",
			enrollment:    model.ChallengeEnrollment{JoinedAt: joined, CompletedDays: 2},
			challenge:     model.Challenge{Title: "Untimed"},
			wantPercent:   29, // 2/7 四舍五入
			wantRemaining: 5,
		},
		{
			name:          "ten day challenge",
			enrollment:    model.ChallengeEnrollment{JoinedAt: joined, CompletedDays: 5},
			challenge:     model.Challenge{Title: "Ten Talks", TotalDays: 10},
			wantPercent:   50,
			wantRemaining: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := toEnrollmentItem(&tt.enrollment, &tt.challenge)

			if item.ProgressPercent != tt.wantPercent {
				t.Errorf("ProgressPercent = %d, want %d", item.ProgressPercent, tt.wantPercent)
			}
			if item.RemainingDays != tt.wantRemaining {
				t.Errorf("RemainingDays = %d, want %d", item.RemainingDays, tt.wantRemaining)
			}
			if item.Title != tt.challenge.Title {
				t.Errorf("Title = %s, want %s", item.Title, tt.challenge.Title)
			}
		})
	}
}

func TestToEnrollmentItemLastProgressDate(t *testing.T) {
	last := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	enrollment := model.ChallengeEnrollment{
		CompletedDays:    1,
		LastProgressDate: &last,
	}
	challenge := model.Challenge{Title: "Week of Walks", TotalDays: 7}

	item := toEnrollmentItem(&enrollment, &challenge)

	if item.LastProgressDate == nil || *item.LastProgressDate != "2026-03-12" {
		t.Errorf("LastProgressDate = %v, want 2026-03-12", item.LastProgressDate)
	}
}
