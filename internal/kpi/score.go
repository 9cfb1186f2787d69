// internal/kpi/score.go
// Package kpi implements the performance-scoring engine behind the analytics
// workers: rating buckets, working-day streaks, insight generation, and
// week-over-week trend aggregation. Everything here is pure computation over
// already-fetched data; persistence and transport belong to the callers.
package kpi

import (
	"fmt"
	"math"

	"rehab-workers/internal/common/logger"
	"rehab-workers/internal/models"
)

// ratingColors maps each rating to the hex color dashboards render it with.
var ratingColors = map[models.Rating]string{
	models.RatingExcellent:        "#22c55e",
	models.RatingGood:             "#84cc16",
	models.RatingAverage:          "#eab308",
	models.RatingBelowAverage:     "#f97316",
	models.RatingNeedsImprovement: "#ef4444",
	models.RatingPoor:             "#dc2626",
	models.RatingNoAssignments:    "#9ca3af",
	models.RatingNoKPIPoints:      "#9ca3af",
	models.RatingNotStarted:       "#6b7280",
	models.RatingOnTrack:          "#3b82f6",
	models.RatingError:            "#ef4444",
}

// bucket is one row of a threshold table: the first bucket whose Min is not
// above the value wins. Tables are ordered highest threshold first so the
// thresholds stay auditable instead of buried in if/else chains.
type bucket struct {
	min    float64
	rating models.Rating
	score  func(v float64) int
}

func evalBuckets(table []bucket, v float64) (models.Rating, int) {
	for _, b := range table {
		if v >= b.min {
			return b.rating, b.score(v)
		}
	}
	// Tables always end with a math.Inf(-1) catch-all; unreachable.
	return models.RatingError, 0
}

// Calculator maps raw performance counters to bucketed KPI results. It holds
// no state beyond the trace logger; every method is safe for concurrent use.
type Calculator struct {
	log logger.Logger
}

func NewCalculator(log logger.Logger) *Calculator {
	return &Calculator{log: log}
}

var consecutiveDayBuckets = []bucket{
	{7, models.RatingExcellent, func(float64) int { return 100 }},
	{5, models.RatingGood, fractionOfWeek},
	{3, models.RatingAverage, fractionOfWeek},
	{math.Inf(-1), models.RatingNoKPIPoints, func(float64) int { return 0 }},
}

func fractionOfWeek(days float64) int {
	return int(math.Round(days / 7 * 100))
}

// ScoreConsecutiveDays rates a submission streak length. Callers must not
// pass negative values; days above 7 saturate at Excellent/100.
func (c *Calculator) ScoreConsecutiveDays(days int) models.KPIResult {
	rating, score := evalBuckets(consecutiveDayBuckets, float64(days))

	result := models.KPIResult{
		Rating:      rating,
		Color:       ratingColors[rating],
		Description: fmt.Sprintf("%d consecutive working days with a submitted assessment", days),
		Score:       score,
		Metric:      "consecutive_days",
		RawValue:    float64(days),
	}
	c.trace("score_consecutive_days", map[string]interface{}{"days": days}, result)
	return result
}

var weightedScoreBuckets = []bucket{
	{90, models.RatingExcellent, roundScore},
	{75, models.RatingGood, roundScore},
	{60, models.RatingAverage, roundScore},
	{40, models.RatingBelowAverage, roundScore},
	{math.Inf(-1), models.RatingNeedsImprovement, roundScore},
}

func roundScore(v float64) int { return int(math.Round(v)) }

// ScoreAssignments rates a worker's assignment counters for one evaluation
// window. The weighted sum is deliberately not re-clamped after the pending
// bonus and overdue penalty are applied, so scores above 100 and below 0 are
// possible before bucketing.
func (c *Calculator) ScoreAssignments(counters models.AssignmentCounters) models.KPIResult {
	if counters.Total == 0 {
		result := models.KPIResult{
			Rating:      models.RatingNoAssignments,
			Color:       ratingColors[models.RatingNoAssignments],
			Description: "No assignments in this evaluation window",
			Score:       0,
			Metric:      "assignments",
		}
		c.trace("score_assignments", map[string]interface{}{"total": 0}, result)
		return result
	}

	completionRate := clamp(counters.Completed/counters.Total*100, 0, 100)
	onTimeRate := clamp(counters.OnTime/counters.Total*100, 0, 100)
	quality := clamp(counters.QualityScore, 0, 100)
	pendingBonus := math.Min(5, counters.Pending/counters.Total*5)
	overduePenalty := math.Min(10, counters.Overdue/counters.Total*10)

	weighted := completionRate*0.7 + onTimeRate*0.2 + quality*0.1 + pendingBonus - overduePenalty
	rating, score := evalBuckets(weightedScoreBuckets, weighted)

	result := models.KPIResult{
		Rating:      rating,
		Color:       ratingColors[rating],
		Description: fmt.Sprintf("%.0f of %.0f assignments completed (%.0f%% on time)", counters.Completed, counters.Total, onTimeRate),
		Score:       score,
		Metric:      "assignments",
		RawValue:    weighted,
	}
	c.trace("score_assignments", map[string]interface{}{
		"completed":     counters.Completed,
		"total":         counters.Total,
		"weightedScore": weighted,
	}, result)
	return result
}

// ScoreAssignmentsFrom scores an untyped counter payload, typically decoded
// straight from process variables. Non-numeric completed/total values return
// the "Error" sentinel result; callers branch on Rating, never on an error.
func (c *Calculator) ScoreAssignmentsFrom(raw map[string]interface{}) models.KPIResult {
	completed, okCompleted := toFloat(raw["completed"])
	total, okTotal := toFloat(raw["total"])
	if !okCompleted || !okTotal {
		result := models.KPIResult{
			Rating:      models.RatingError,
			Color:       ratingColors[models.RatingError],
			Description: "Invalid assignment data: completed and total must be numeric",
			Score:       0,
			Metric:      "assignments",
		}
		c.trace("score_assignments", map[string]interface{}{"error": "non_numeric_counters"}, result)
		return result
	}

	onTime, _ := toFloat(raw["onTime"])
	pending, _ := toFloat(raw["pending"])
	overdue, _ := toFloat(raw["overdue"])
	quality, _ := toFloat(raw["qualityScore"])

	return c.ScoreAssignments(models.AssignmentCounters{
		Completed:    completed,
		Total:        total,
		OnTime:       onTime,
		Pending:      pending,
		Overdue:      overdue,
		QualityScore: quality,
	})
}

var completionRateBuckets = []bucket{
	{100, models.RatingExcellent, func(float64) int { return 100 }},
	{70, models.RatingGood, roundScore},
	{50, models.RatingAverage, roundScore},
	{math.Inf(-1), models.RatingNeedsImprovement, roundScore},
}

// ScoreCompletionRate rates an assessment-cycle completion rate. currentDay
// and totalAssessments are optional; a nil pointer means "unknown". Cycles in
// their first two days get the "On Track" grace rating regardless of rate.
func (c *Calculator) ScoreCompletionRate(rate float64, currentDay, totalAssessments *int) models.KPIResult {
	var result models.KPIResult
	switch {
	case rate == 0 && (totalAssessments == nil || *totalAssessments == 0):
		result = models.KPIResult{
			Rating:      models.RatingNotStarted,
			Color:       ratingColors[models.RatingNotStarted],
			Description: "No assessments submitted yet",
			Score:       0,
		}
	case currentDay != nil && *currentDay <= 2:
		result = models.KPIResult{
			Rating:      models.RatingOnTrack,
			Color:       ratingColors[models.RatingOnTrack],
			Description: fmt.Sprintf("Day %d of cycle, within grace period", *currentDay),
			Score:       0,
		}
	default:
		rating, score := evalBuckets(completionRateBuckets, rate)
		result = models.KPIResult{
			Rating:      rating,
			Color:       ratingColors[rating],
			Description: fmt.Sprintf("%.0f%% of assessments completed", rate),
			Score:       score,
		}
	}

	result.Metric = "completion_rate"
	result.RawValue = rate
	c.trace("score_completion_rate", map[string]interface{}{"rate": rate}, result)
	return result
}

var weeklyTeamBuckets = []bucket{
	{90, models.RatingExcellent, roundScore},
	{75, models.RatingGood, roundScore},
	{60, models.RatingAverage, roundScore},
	{40, models.RatingNeedsImprovement, roundScore},
	{math.Inf(-1), models.RatingPoor, roundScore},
}

// ScoreWeeklyTeam rates a team's weekly submission rate.
func (c *Calculator) ScoreWeeklyTeam(rate float64, submissions, totalMembers int) models.KPIResult {
	rating, score := evalBuckets(weeklyTeamBuckets, rate)

	result := models.KPIResult{
		Rating:      rating,
		Color:       ratingColors[rating],
		Description: fmt.Sprintf("%d of %d team members submitted this week", submissions, totalMembers),
		Score:       score,
		Metric:      "weekly_team",
		RawValue:    rate,
	}
	c.trace("score_weekly_team", map[string]interface{}{
		"rate":         rate,
		"submissions":  submissions,
		"totalMembers": totalMembers,
	}, result)
	return result
}

// trace emits a calculation record for observability. It never affects the
// returned result.
func (c *Calculator) trace(operation string, inputs map[string]interface{}, result models.KPIResult) {
	c.log.Debug("kpi calculation", map[string]interface{}{
		"operation": operation,
		"inputs":    inputs,
		"rating":    string(result.Rating),
		"score":     result.Score,
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
