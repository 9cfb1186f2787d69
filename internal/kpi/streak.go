// internal/kpi/streak.go
package kpi

import (
	"sort"
	"time"

	"rehab-workers/internal/common/dateutil"
	"rehab-workers/internal/common/logger"
	"rehab-workers/internal/models"
)

// Analyzer derives working-day submission streaks from unordered assessment
// events. Saturday and Sunday submissions are excluded from streak
// consideration entirely rather than treated as breaks.
type Analyzer struct {
	log logger.Logger
	now func() time.Time
	loc *time.Location
}

func NewAnalyzer(log logger.Logger) *Analyzer {
	return &Analyzer{log: log, now: time.Now, loc: time.UTC}
}

// WithClock overrides the reference clock used for the current-streak check.
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// WithLocation sets the timezone used to resolve day boundaries. Defaults
// to UTC; production passes the configured reporting timezone so that a
// late-evening local submission lands on the right calendar day.
func (a *Analyzer) WithLocation(loc *time.Location) *Analyzer {
	if loc != nil {
		a.loc = loc
	}
	return a
}

// Analyze computes current and longest streaks for one worker's events.
//
// The longest-streak walk does not deduplicate same-day submissions: a
// duplicate produces a zero-day gap, which closes the running streak and
// restarts it at 1. That behavior is pinned by a characterization test; do
// not dedupe here without revisiting that decision.
func (a *Analyzer) Analyze(events []models.AssessmentEvent) models.StreakResult {
	weekdayDates := make([]time.Time, 0, len(events))
	for _, ev := range events {
		d := ev.SubmittedAtUTC.In(a.loc)
		if dateutil.IsWeekday(d) {
			weekdayDates = append(weekdayDates, truncateToDay(d))
		}
	}

	if len(weekdayDates) == 0 {
		return models.StreakResult{}
	}

	sort.Slice(weekdayDates, func(i, j int) bool {
		return weekdayDates[i].Before(weekdayDates[j])
	})

	result := models.StreakResult{
		Longest: a.longestStreak(weekdayDates),
		Current: a.currentStreak(weekdayDates),
	}

	a.log.Debug("streak analysis", map[string]interface{}{
		"events":  len(events),
		"current": result.Current,
		"longest": result.Longest,
	})
	return result
}

func (a *Analyzer) longestStreak(sortedDates []time.Time) int {
	longest := 1
	tempStreak := 1
	for i := 1; i < len(sortedDates); i++ {
		if dateutil.DaysBetween(sortedDates[i-1], sortedDates[i]) == 1 {
			tempStreak++
		} else {
			tempStreak = 1
		}
		if tempStreak > longest {
			longest = tempStreak
		}
	}
	return longest
}

func (a *Analyzer) currentStreak(sortedDates []time.Time) int {
	// Distinct dates, most recent first.
	distinct := make([]time.Time, 0, len(sortedDates))
	for i := len(sortedDates) - 1; i >= 0; i-- {
		if len(distinct) == 0 || !distinct[len(distinct)-1].Equal(sortedDates[i]) {
			distinct = append(distinct, sortedDates[i])
		}
	}

	today := truncateToDay(a.now().In(a.loc))
	if dateutil.DaysBetween(distinct[0], today) > 1 {
		return 0
	}

	current := 1
	for i := 1; i < len(distinct); i++ {
		if dateutil.DaysBetween(distinct[i], distinct[i-1]) != 1 {
			break
		}
		current++
	}
	return current
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
