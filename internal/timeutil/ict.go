package timeutil

import (
	"time"
)

// ICT is Indochina Time (UTC+7), the garage's business time zone
var ICT *time.Location

func init() {
	var err error
	ICT, err = time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		// Fallback: create fixed zone if tzdata is not available
		ICT = time.FixedZone("ICT", 7*60*60)
	}
}

// Now returns the current time in ICT
func Now() time.Time {
	return time.Now().In(ICT)
}

// Today returns the current business date at midnight ICT
func Today() time.Time {
	return StartOfDay(Now())
}

// ParseDate parses a YYYY-MM-DD string as a business date; empty means today
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return Today(), nil
	}
	return time.ParseInLocation(DateLayout, value, ICT)
}

// FormatDate formats a date using DateLayout in ICT
func FormatDate(t time.Time) string {
	return t.In(ICT).Format(DateLayout)
}

// StartOfDay returns the start of day (00:00:00) in ICT for the given time
func StartOfDay(t time.Time) time.Time {
	local := t.In(ICT)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, ICT)
}

// MonthRange returns [first day of month, first day of next month)
func MonthRange(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, ICT)
	return start, start.AddDate(0, 1, 0)
}

// PreviousMonth returns the month and year before the given one
func PreviousMonth(month, year int) (int, int) {
	if month == 1 {
		return 12, year - 1
	}
	return month - 1, year
}

// Common layouts
const (
	DateLayout    = "2006-01-02"
	DisplayLayout = "02/01/2006"
)
