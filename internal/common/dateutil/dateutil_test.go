package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     time.Time
		wantStart time.Time
	}{
		{"monday maps to itself", date(2026, time.August, 17), date(2026, time.August, 17)},
		{"wednesday maps back to monday", date(2026, time.August, 19), date(2026, time.August, 17)},
		{"sunday maps back six days", date(2026, time.August, 23), date(2026, time.August, 17)},
		{"mid-day timestamp truncated", time.Date(2026, time.August, 20, 15, 30, 0, 0, time.UTC), date(2026, time.August, 17)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := WeekBounds(tt.input)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantStart.AddDate(0, 0, 6).Add(24*time.Hour-time.Second), end)
		})
	}
}

func TestWorkingDays(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"full week has five", date(2026, time.August, 17), date(2026, time.August, 23), 5},
		{"weekend only has zero", date(2026, time.August, 22), date(2026, time.August, 23), 0},
		{"single weekday", date(2026, time.August, 19), date(2026, time.August, 19), 1},
		{"inverted range", date(2026, time.August, 23), date(2026, time.August, 17), 0},
		{"two full weeks", date(2026, time.August, 17), date(2026, time.August, 30), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WorkingDays(tt.from, tt.to))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 3, DaysBetween(date(2026, time.August, 17), date(2026, time.August, 20)))
	assert.Equal(t, -3, DaysBetween(date(2026, time.August, 20), date(2026, time.August, 17)))
	assert.Equal(t, 0, DaysBetween(
		time.Date(2026, time.August, 17, 1, 0, 0, 0, time.UTC),
		time.Date(2026, time.August, 17, 23, 0, 0, 0, time.UTC),
	))
}

func TestSameDay(t *testing.T) {
	assert.True(t, SameDay(
		time.Date(2026, time.August, 17, 1, 0, 0, 0, time.UTC),
		time.Date(2026, time.August, 17, 23, 59, 0, 0, time.UTC),
	))
	assert.False(t, SameDay(date(2026, time.August, 17), date(2026, time.August, 18)))
}

func TestWeekLabel(t *testing.T) {
	assert.Equal(t, "Aug 17 - Aug 23", WeekLabel(date(2026, time.August, 17)))
	assert.Equal(t, "Dec 29 - Jan 4", WeekLabel(date(2025, time.December, 29)))
}
