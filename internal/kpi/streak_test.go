package kpi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rehab-workers/internal/common/logger"
	"rehab-workers/internal/models"
)

// Week of Mon 2026-08-17 .. Sun 2026-08-23.
func eventOn(y int, m time.Month, d, hour int) models.AssessmentEvent {
	return models.AssessmentEvent{
		WorkerID:       "w-1",
		SubmittedAtUTC: time.Date(y, m, d, hour, 0, 0, 0, time.UTC),
		ReadinessLevel: models.ReadinessFit,
		FatigueLevel:   2,
		Mood:           models.MoodOkay,
	}
}

func analyzerAt(y int, m time.Month, d int) *Analyzer {
	return NewAnalyzer(logger.NewNoOpLogger()).WithClock(func() time.Time {
		return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	})
}

func TestAnalyze_EmptyInput(t *testing.T) {
	result := analyzerAt(2026, time.August, 19).Analyze(nil)
	assert.Equal(t, models.StreakResult{Current: 0, Longest: 0}, result)
}

func TestAnalyze_WeekendEventsIgnoredEntirely(t *testing.T) {
	events := []models.AssessmentEvent{
		eventOn(2026, time.August, 22, 9), // Saturday
		eventOn(2026, time.August, 23, 9), // Sunday
	}
	result := analyzerAt(2026, time.August, 24).Analyze(events)
	assert.Equal(t, models.StreakResult{Current: 0, Longest: 0}, result)
}

func TestAnalyze_ConsecutiveWeekdays(t *testing.T) {
	events := []models.AssessmentEvent{
		eventOn(2026, time.August, 19, 9), // Wed, deliberately unordered
		eventOn(2026, time.August, 17, 9), // Mon
		eventOn(2026, time.August, 18, 9), // Tue
	}

	t.Run("as of the last submission day", func(t *testing.T) {
		result := analyzerAt(2026, time.August, 19).Analyze(events)
		assert.Equal(t, 3, result.Longest)
		assert.Equal(t, 3, result.Current)
	})

	t.Run("one day later the streak still counts", func(t *testing.T) {
		result := analyzerAt(2026, time.August, 20).Analyze(events)
		assert.Equal(t, 3, result.Longest)
		assert.Equal(t, 3, result.Current)
	})

	t.Run("two days later the current streak is gone", func(t *testing.T) {
		result := analyzerAt(2026, time.August, 21).Analyze(events)
		assert.Equal(t, 3, result.Longest)
		assert.Equal(t, 0, result.Current)
	})
}

func TestAnalyze_GapBreaksStreak(t *testing.T) {
	events := []models.AssessmentEvent{
		eventOn(2026, time.August, 17, 9), // Mon
		eventOn(2026, time.August, 18, 9), // Tue
		eventOn(2026, time.August, 20, 9), // Thu (Wed missed)
		eventOn(2026, time.August, 21, 9), // Fri
	}
	result := analyzerAt(2026, time.August, 21).Analyze(events)
	assert.Equal(t, 2, result.Longest)
	assert.Equal(t, 2, result.Current)
}

// A weekend gap is a calendar gap greater than one day, so a Friday-to-Monday
// pair does not continue a streak under the current calendar-day rule.
func TestAnalyze_WeekendGapBreaksCalendarRule(t *testing.T) {
	events := []models.AssessmentEvent{
		eventOn(2026, time.August, 13, 9), // Thu
		eventOn(2026, time.August, 14, 9), // Fri
		eventOn(2026, time.August, 17, 9), // Mon
		eventOn(2026, time.August, 18, 9), // Tue
		eventOn(2026, time.August, 19, 9), // Wed
	}
	result := analyzerAt(2026, time.August, 19).Analyze(events)
	assert.Equal(t, 3, result.Longest)
	assert.Equal(t, 3, result.Current)
}

// Same-day duplicates are not deduplicated before the longest-streak walk:
// the zero-day gap closes the running streak. Characterization test, kept
// until product decides whether duplicates should be collapsed.
func TestAnalyze_SameDayDuplicateResetsLongestWalk(t *testing.T) {
	events := []models.AssessmentEvent{
		eventOn(2026, time.August, 17, 9),  // Mon
		eventOn(2026, time.August, 18, 9),  // Tue
		eventOn(2026, time.August, 18, 15), // Tue again
		eventOn(2026, time.August, 19, 9),  // Wed
	}
	result := analyzerAt(2026, time.August, 19).Analyze(events)
	assert.Equal(t, 2, result.Longest, "duplicate should reset the longest walk")
	assert.Equal(t, 3, result.Current, "current streak uses distinct dates")
}

func TestAnalyze_CurrentNeverExceedsLongestWithoutDuplicates(t *testing.T) {
	histories := [][]models.AssessmentEvent{
		{eventOn(2026, time.August, 19, 9)},
		{eventOn(2026, time.August, 17, 9), eventOn(2026, time.August, 19, 9)},
		{
			eventOn(2026, time.August, 10, 9), eventOn(2026, time.August, 11, 9),
			eventOn(2026, time.August, 12, 9), eventOn(2026, time.August, 19, 9),
		},
	}

	a := analyzerAt(2026, time.August, 19)
	for _, events := range histories {
		result := a.Analyze(events)
		assert.LessOrEqual(t, result.Current, result.Longest)
	}
}

func TestAnalyze_StaleHistoryHasNoCurrentStreak(t *testing.T) {
	events := []models.AssessmentEvent{
		eventOn(2026, time.August, 3, 9), // Mon two weeks back
		eventOn(2026, time.August, 4, 9),
		eventOn(2026, time.August, 5, 9),
		eventOn(2026, time.August, 6, 9),
	}
	result := analyzerAt(2026, time.August, 19).Analyze(events)
	assert.Equal(t, 4, result.Longest)
	assert.Equal(t, 0, result.Current)
}
