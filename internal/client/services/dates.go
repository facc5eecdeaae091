package services

import (
	"fmt"
	"time"
)

// DateLayout is the backend's due-date format.
const DateLayout = "2006-01-02"

// FormatDate renders t as a backend due date in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a backend due date as a local calendar day.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// DaysUntilDue counts calendar days from now's day to due's day. Negative
// means overdue.
func DaysUntilDue(due, now time.Time) int {
	d := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(n).Hours() / 24)
}

func FormatDaysUntilDue(days int) string {
	switch {
	case days < -1:
		return fmt.Sprintf("overdue by %d days", -days)
	case days == -1:
		return "overdue by 1 day"
	case days == 0:
		return "due today"
	case days == 1:
		return "due tomorrow"
	default:
		return fmt.Sprintf("%d days left", days)
	}
}
