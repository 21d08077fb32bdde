package timeutil

import (
	"testing"
	"time"
)

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(12, 2024)
	if start.Year() != 2024 || start.Month() != time.December || start.Day() != 1 {
		t.Errorf("start = %v", start)
	}
	if end.Year() != 2025 || end.Month() != time.January || end.Day() != 1 {
		t.Errorf("end = %v", end)
	}
}

func TestPreviousMonth(t *testing.T) {
	tests := []struct {
		month, year         int
		wantMonth, wantYear int
	}{
		{1, 2025, 12, 2024},
		{7, 2025, 6, 2025},
	}
	for _, tt := range tests {
		m, y := PreviousMonth(tt.month, tt.year)
		if m != tt.wantMonth || y != tt.wantYear {
			t.Errorf("PreviousMonth(%d, %d) = %d, %d", tt.month, tt.year, m, y)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-09")
	if err != nil {
		t.Fatalf("ParseDate() error: %v", err)
	}
	if FormatDate(d) != "2025-03-09" {
		t.Errorf("FormatDate() = %s", FormatDate(d))
	}

	if _, err := ParseDate("09/03/2025"); err == nil {
		t.Error("ParseDate() accepted a non ISO date")
	}

	today, err := ParseDate("")
	if err != nil || !today.Equal(Today()) {
		t.Errorf("ParseDate(\"\") = %v, %v; want today", today, err)
	}
}
