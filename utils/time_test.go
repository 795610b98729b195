package utils

import (
	"testing"
	"time"
)

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{
			name: "same day different hours",
			from: time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC),
			to:   time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "late night to early morning",
			from: time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC),
			to:   time.Date(2026, 3, 16, 0, 1, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "five whole days",
			from: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
			to:   time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC),
			want: 5,
		},
		{
			name: "across month boundary",
			from: time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC),
			to:   time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
			want: 3, // 2026 年 2 月有 28 天
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.from, tt.to); got != tt.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 3, 15, 0, 0, 1, 0, time.UTC)
	b := time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

	if !SameDay(a, b) {
		t.Error("expected same day for timestamps within one date")
	}
	if SameDay(b, c) {
		t.Error("expected different days across midnight")
	}
}

func TestFormatParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-15")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if got := FormatDate(d); got != "2026-03-15" {
		t.Errorf("FormatDate = %s, want 2026-03-15", got)
	}

	if _, err := ParseDate("15/03/2026"); err == nil {
		t.Error("expected error for malformed date")
	}
}
