// internal/kpi/trend.go
package kpi

import (
	"context"
	"math"
	"time"

	"rehab-workers/internal/common/dateutil"
	"rehab-workers/internal/common/logger"
	"rehab-workers/internal/models"
)

// DefaultTrendWindowWeeks is the sliding-window size used when the caller
// does not configure one.
const DefaultTrendWindowWeeks = 4

// AssessmentFetcher retrieves one worker's assessment events in a time range.
// Implementations own cancellation and timeout semantics.
type AssessmentFetcher interface {
	FetchAssessments(ctx context.Context, workerID string, start, end time.Time) ([]models.AssessmentEvent, error)
}

// Aggregator recomputes completion-rate KPIs week by week over a sliding
// window. Fetch failures degrade to empty results rather than errors so a
// single failed metric never blanks a whole report.
type Aggregator struct {
	fetcher AssessmentFetcher
	calc    *Calculator
	log     logger.Logger
	now     func() time.Time
	loc     *time.Location
	weeks   int
}

func NewAggregator(fetcher AssessmentFetcher, log logger.Logger, weeks int) *Aggregator {
	if weeks <= 0 {
		weeks = DefaultTrendWindowWeeks
	}
	return &Aggregator{
		fetcher: fetcher,
		calc:    NewCalculator(log),
		log:     log,
		now:     time.Now,
		loc:     time.UTC,
		weeks:   weeks,
	}
}

// WithClock overrides the reference clock for week-window calculations.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// WithLocation sets the timezone used for week boundaries and day counting.
func (a *Aggregator) WithLocation(loc *time.Location) *Aggregator {
	if loc != nil {
		a.loc = loc
	}
	return a
}

// WeeklyTrend builds the completion-rate trend series for one worker,
// returned oldest week first. A fetch failure on any week is logged and
// yields an empty series.
func (a *Aggregator) WeeklyTrend(ctx context.Context, workerID string) []models.TrendPoint {
	points := make([]models.TrendPoint, 0, a.weeks)

	// Computed most-recent-first, reversed on return.
	for i := 0; i < a.weeks; i++ {
		ref := a.now().In(a.loc).AddDate(0, 0, -7*i)
		start, end := dateutil.WeekBounds(ref)
		workingDays := dateutil.WorkingDays(start, end)

		events, err := a.fetcher.FetchAssessments(ctx, workerID, start, end)
		if err != nil {
			a.log.WithError(err).Warn("trend aggregation failed, returning empty series", map[string]interface{}{
				"workerId":  workerID,
				"weekStart": start.Format("2006-01-02"),
			})
			return []models.TrendPoint{}
		}

		completedDays := a.countDistinctDates(events)
		rate := 0.0
		if workingDays > 0 {
			rate = float64(completedDays) / float64(workingDays) * 100
		}
		kpi := a.calc.ScoreCompletionRate(rate, nil, nil)

		points = append(points, models.TrendPoint{
			WeekLabel:      dateutil.WeekLabel(start),
			CompletionRate: math.Round(rate),
			KPIRating:      kpi.Rating,
			CompletedDays:  completedDays,
			TotalDays:      workingDays,
		})
	}

	// Reverse into oldest-first order.
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points
}

// CompareWeeks compares the current week's submission rate against the
// previous week's. Returns nil when either fetch fails; callers treat nil as
// "comparison unavailable".
func (a *Aggregator) CompareWeeks(ctx context.Context, workerID string) *models.WeekComparison {
	currentRate, err := a.weekRate(ctx, workerID, a.now().In(a.loc))
	if err != nil {
		a.log.WithError(err).Warn("week comparison unavailable", map[string]interface{}{"workerId": workerID})
		return nil
	}
	previousRate, err := a.weekRate(ctx, workerID, a.now().In(a.loc).AddDate(0, 0, -7))
	if err != nil {
		a.log.WithError(err).Warn("week comparison unavailable", map[string]interface{}{"workerId": workerID})
		return nil
	}

	improvement := int(math.Round(currentRate - previousRate))
	trend := "stable"
	switch {
	case improvement > 0:
		trend = "improving"
	case improvement < 0:
		trend = "declining"
	}

	return &models.WeekComparison{
		CurrentRate:  math.Round(currentRate),
		PreviousRate: math.Round(previousRate),
		Improvement:  improvement,
		Trend:        trend,
	}
}

func (a *Aggregator) weekRate(ctx context.Context, workerID string, ref time.Time) (float64, error) {
	start, end := dateutil.WeekBounds(ref)
	workingDays := dateutil.WorkingDays(start, end)

	events, err := a.fetcher.FetchAssessments(ctx, workerID, start, end)
	if err != nil {
		return 0, err
	}
	if workingDays == 0 {
		return 0, nil
	}
	return float64(a.countDistinctDates(events)) / float64(workingDays) * 100, nil
}

func (a *Aggregator) countDistinctDates(events []models.AssessmentEvent) int {
	seen := make(map[string]struct{}, len(events))
	for _, ev := range events {
		seen[ev.SubmittedAtUTC.In(a.loc).Format("2006-01-02")] = struct{}{}
	}
	return len(seen)
}
