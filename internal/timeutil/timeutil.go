package timeutil

import (
	"strconv"
	"strings"
	"time"
)

const DayLayout = "2006-01-02"

var monthCodes = [...]string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}

// SplitDay returns year and month of a YYYY-MM-DD string without checking
// that the day exists in that month.
func SplitDay(value string) (int, time.Month, bool) {
	value = strings.TrimSpace(value)
	if len(value) != len(DayLayout) || value[4] != '-' || value[7] != '-' {
		return 0, 0, false
	}
	year, err := strconv.Atoi(value[:4])
	if err != nil {
		return 0, 0, false
	}
	month, err := strconv.Atoi(value[5:7])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	if _, err := strconv.Atoi(value[8:]); err != nil {
		return 0, 0, false
	}
	return year, time.Month(month), true
}

// ValidCalendarDay reports whether year/month/day names a real date.
func ValidCalendarDay(year, month, day int) bool {
	value := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return value.Year() == year && int(value.Month()) == month && value.Day() == day
}

// MonthCode returns the single-letter code for a month, A for January through L for December.
func MonthCode(month time.Month) string {
	if month < time.January || month > time.December {
		return ""
	}
	return monthCodes[month-1]
}
