package model

import (
	"fmt"
	"strings"
	"time"
)

// DaysIn returns the number of days in month of year, honouring leap years.
// It panics for a month outside 1-12; callers own that validation.
func DaysIn(year, month int) int {
	mustMonth(month)
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartWeekday returns the weekday (0=Sunday..6=Saturday) of day 1.
func StartWeekday(year, month int) int {
	mustMonth(month)
	return int(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// MonthName returns the English month name, e.g. "February".
func MonthName(month int) string {
	mustMonth(month)
	return time.Month(month).String()
}

// MonthAbbrev returns the upper-case three letter form, e.g. "FEB".
func MonthAbbrev(month int) string {
	mustMonth(month)
	return strings.ToUpper(time.Month(month).String()[:3])
}

func mustMonth(month int) {
	if month < 1 || month > 12 {
		panic(fmt.Sprintf("model: month %d out of range 1-12", month))
	}
}
