// internal/common/dateutil/dateutil.go
// Package dateutil provides calendar helpers shared by the analytics and
// reporting workers. All calculations are done in a caller-supplied location,
// defaulting to UTC.
package dateutil

import (
	"fmt"
	"time"
)

// WeekBounds returns the Monday 00:00:00 and Sunday 23:59:59 bounding the
// ISO week that contains t, in t's location.
func WeekBounds(t time.Time) (start, end time.Time) {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).
		AddDate(0, 0, -(weekday - 1))
	end = start.AddDate(0, 0, 6).Add(24*time.Hour - time.Second)
	return start, end
}

// IsWeekday reports whether t falls on Monday through Friday.
func IsWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// WorkingDays counts the weekdays in [from, to] inclusive. Returns 0 when
// from is after to.
func WorkingDays(from, to time.Time) int {
	from = truncateDay(from)
	to = truncateDay(to)
	if from.After(to) {
		return 0
	}
	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if IsWeekday(d) {
			count++
		}
	}
	return count
}

// DaysBetween returns the number of whole calendar days from a to b,
// ignoring time-of-day. Negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	a = truncateDay(a)
	b = truncateDay(b)
	return int(b.Sub(a).Hours() / 24)
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// WeekLabel formats the label used for trend series points, e.g. "Aug 18 - Aug 24".
func WeekLabel(weekStart time.Time) string {
	weekEnd := weekStart.AddDate(0, 0, 6)
	return fmt.Sprintf("%s - %s", weekStart.Format("Jan 2"), weekEnd.Format("Jan 2"))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
