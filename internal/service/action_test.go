package service

import (
	"errors"
	"testing"
	"time"

	"HeartHabit/internal/model"
	pkgerrors "HeartHabit/pkg/errors"
)

func instanceOn(day int, completed, declined bool) model.DailyAction {
	return model.DailyAction{
		AssignedDate: time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
		Completed:    completed,
		Declined:     declined,
	}
}

func TestCompleteStateError(t *testing.T) {
	tests := []struct {
		name     string
		instance model.DailyAction
		want     error
	}{
		{
			name:     "declined instance cannot become completed",
			instance: instanceOn(10, false, true),
			want:     pkgerrors.ActionAlreadyDeclined,
		},
		{
			name:     "already completed surfaces conflict, not silent success",
			instance: instanceOn(10, true, false),
			want:     pkgerrors.ActionAlreadyCompleted,
		},
		{
			name:     "completed wins when both flags are somehow set",
			instance: instanceOn(10, true, true),
			want:     pkgerrors.ActionAlreadyCompleted,
		},
		{
			name:     "untouched instance means the row was not ours",
			instance: instanceOn(10, false, false),
			want:     pkgerrors.ActionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := completeStateError(&tt.instance)
			if !errors.Is(got, tt.want) {
				t.Errorf("completeStateError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPickDeclineTarget(t *testing.T) {
	tests := []struct {
		name       string
		candidates []model.DailyAction
		wantDay    int // 0 表示期望没有可拒绝的实例
	}{
		{
			name: "picks the most recent incomplete instance",
			candidates: []model.DailyAction{
				instanceOn(8, false, false),
				instanceOn(12, false, false),
				instanceOn(10, false, false),
			},
			wantDay: 12,
		},
		{
			name: "completed and declined instances are skipped even when newer",
			candidates: []model.DailyAction{
				instanceOn(9, false, false),
				instanceOn(11, true, false),
				instanceOn(13, false, true),
			},
			wantDay: 9,
		},
		{
			name: "all instances already resolved",
			candidates: []model.DailyAction{
				instanceOn(10, true, false),
				instanceOn(11, false, true),
			},
			wantDay: 0,
		},
		{
			name:       "no candidates at all",
			candidates: nil,
			wantDay:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pickDeclineTarget(tt.candidates)

			if tt.wantDay == 0 {
				if got != nil {
					t.Fatalf("pickDeclineTarget() = %v, want nil", got.AssignedDate)
				}
				return
			}

			if got == nil {
				t.Fatalf("pickDeclineTarget() = nil, want day %d", tt.wantDay)
			}
			if got.AssignedDate.Day() != tt.wantDay {
				t.Errorf("pickDeclineTarget() picked day %d, want %d", got.AssignedDate.Day(), tt.wantDay)
			}
		})
	}
}
