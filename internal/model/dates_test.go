package model

import "testing"

func TestDaysIn(t *testing.T) {
	tests := []struct {
		year, month, want int
	}{
		{2026, 2, 28},
		{2028, 2, 29},
		{2000, 2, 29},
		{1900, 2, 28},
		{2025, 1, 31},
		{2025, 11, 30},
		{2025, 12, 31},
	}
	for _, tt := range tests {
		if got := DaysIn(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysIn(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestStartWeekday(t *testing.T) {
	tests := []struct {
		year, month, want int
	}{
		{2025, 1, 3},  // Wednesday
		{2026, 2, 0},  // Sunday
		{2025, 11, 6}, // Saturday
	}
	for _, tt := range tests {
		if got := StartWeekday(tt.year, tt.month); got != tt.want {
			t.Errorf("StartWeekday(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestMonthNames(t *testing.T) {
	if got := MonthName(2); got != "February" {
		t.Errorf("MonthName(2) = %q", got)
	}
	if got := MonthAbbrev(2); got != "FEB" {
		t.Errorf("MonthAbbrev(2) = %q", got)
	}
}

func TestDaysInPanicsOnBadMonth(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for month 13")
		}
	}()
	DaysIn(2026, 13)
}
