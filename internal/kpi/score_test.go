package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rehab-workers/internal/common/logger"
	"rehab-workers/internal/models"
)

func newTestCalculator() *Calculator {
	return NewCalculator(logger.NewNoOpLogger())
}

func TestScoreConsecutiveDays(t *testing.T) {
	calc := newTestCalculator()

	tests := []struct {
		name       string
		days       int
		wantRating models.Rating
		wantScore  int
	}{
		{"full week is excellent", 7, models.RatingExcellent, 100},
		{"beyond a week stays excellent", 10, models.RatingExcellent, 100},
		{"six days is good", 6, models.RatingGood, 86},
		{"five days is good", 5, models.RatingGood, 71},
		{"four days is average", 4, models.RatingAverage, 57},
		{"three days is average", 3, models.RatingAverage, 43},
		{"two days earns nothing", 2, models.RatingNoKPIPoints, 0},
		{"zero days earns nothing", 0, models.RatingNoKPIPoints, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := calc.ScoreConsecutiveDays(tt.days)
			assert.Equal(t, tt.wantRating, result.Rating)
			assert.Equal(t, tt.wantScore, result.Score)
			assert.NotEmpty(t, result.Color)
		})
	}
}

func TestScoreConsecutiveDays_Monotonic(t *testing.T) {
	calc := newTestCalculator()

	prev := -1
	for days := 0; days <= 7; days++ {
		score := calc.ScoreConsecutiveDays(days).Score
		assert.GreaterOrEqual(t, score, prev, "score regressed at %d days", days)
		prev = score
	}
}

func TestScoreAssignments(t *testing.T) {
	calc := newTestCalculator()

	tests := []struct {
		name       string
		counters   models.AssignmentCounters
		wantRating models.Rating
		wantScore  int
	}{
		{
			name:       "no assignments",
			counters:   models.AssignmentCounters{},
			wantRating: models.RatingNoAssignments,
			wantScore:  0,
		},
		{
			name: "perfect record is excellent",
			counters: models.AssignmentCounters{
				Completed: 10, Total: 10, OnTime: 10, QualityScore: 100,
			},
			wantRating: models.RatingExcellent,
			wantScore:  100,
		},
		{
			name: "zero completed with overdue backlog",
			counters: models.AssignmentCounters{
				Total: 10, Overdue: 10,
			},
			wantRating: models.RatingNeedsImprovement,
			wantScore:  -10,
		},
		{
			name: "mid-range record is average",
			counters: models.AssignmentCounters{
				Completed: 7, Total: 10, OnTime: 5, QualityScore: 60,
			},
			wantRating: models.RatingAverage,
			wantScore:  65,
		},
		{
			name: "below average band",
			counters: models.AssignmentCounters{
				Completed: 5, Total: 10, OnTime: 3, QualityScore: 50,
			},
			wantRating: models.RatingBelowAverage,
			wantScore:  46,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := calc.ScoreAssignments(tt.counters)
			assert.Equal(t, tt.wantRating, result.Rating)
			assert.Equal(t, tt.wantScore, result.Score)
		})
	}
}

// The weighted sum is not re-clamped after the pending bonus and overdue
// penalty, so scores above 100 and below 0 are reachable. This pins the
// current behavior until product confirms whether it is intentional.
func TestScoreAssignments_UnclampedWeightedSum(t *testing.T) {
	calc := newTestCalculator()

	over := calc.ScoreAssignments(models.AssignmentCounters{
		Completed: 10, Total: 10, OnTime: 10, QualityScore: 100, Pending: 10,
	})
	assert.Equal(t, models.RatingExcellent, over.Rating)
	assert.Equal(t, 105, over.Score)

	under := calc.ScoreAssignments(models.AssignmentCounters{
		Total: 10, Overdue: 10,
	})
	assert.Equal(t, -10, under.Score)
}

func TestScoreAssignmentsFrom(t *testing.T) {
	calc := newTestCalculator()

	tests := []struct {
		name       string
		raw        map[string]interface{}
		wantRating models.Rating
	}{
		{
			name:       "valid payload delegates to typed scoring",
			raw:        map[string]interface{}{"completed": 10.0, "total": 10.0, "onTime": 10.0, "qualityScore": 100.0},
			wantRating: models.RatingExcellent,
		},
		{
			name:       "string completed is a data-integrity error",
			raw:        map[string]interface{}{"completed": "ten", "total": 10.0},
			wantRating: models.RatingError,
		},
		{
			name:       "missing total is a data-integrity error",
			raw:        map[string]interface{}{"completed": 5.0},
			wantRating: models.RatingError,
		},
		{
			name:       "integer-typed counters accepted",
			raw:        map[string]interface{}{"completed": 10, "total": int64(10), "onTime": 10, "qualityScore": 100},
			wantRating: models.RatingExcellent,
		},
		{
			name:       "non-numeric optional fields default to zero",
			raw:        map[string]interface{}{"completed": 0.0, "total": 10.0, "onTime": "soon"},
			wantRating: models.RatingNeedsImprovement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := calc.ScoreAssignmentsFrom(tt.raw)
			assert.Equal(t, tt.wantRating, result.Rating)
			if tt.wantRating == models.RatingError {
				assert.Equal(t, 0, result.Score)
			}
		})
	}
}

func intPtr(v int) *int { return &v }

func TestScoreCompletionRate(t *testing.T) {
	calc := newTestCalculator()

	tests := []struct {
		name             string
		rate             float64
		currentDay       *int
		totalAssessments *int
		wantRating       models.Rating
		wantScore        int
	}{
		{"zero rate with no assessments means not started", 0, nil, nil, models.RatingNotStarted, 0},
		{"zero rate with zero assessments means not started", 0, intPtr(5), intPtr(0), models.RatingNotStarted, 0},
		{"grace period on day one", 0, intPtr(1), intPtr(5), models.RatingOnTrack, 0},
		{"grace period on day two overrides rate buckets", 30, intPtr(2), intPtr(5), models.RatingOnTrack, 0},
		{"day three leaves grace period", 30, intPtr(3), intPtr(5), models.RatingNeedsImprovement, 30},
		{"full rate is excellent", 100, nil, intPtr(5), models.RatingExcellent, 100},
		{"seventy percent is good", 70, nil, intPtr(5), models.RatingGood, 70},
		{"fifty percent is average", 50, nil, intPtr(5), models.RatingAverage, 50},
		{"forty percent needs improvement", 40, nil, intPtr(5), models.RatingNeedsImprovement, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := calc.ScoreCompletionRate(tt.rate, tt.currentDay, tt.totalAssessments)
			assert.Equal(t, tt.wantRating, result.Rating)
			assert.Equal(t, tt.wantScore, result.Score)
		})
	}
}

func TestScoreWeeklyTeam(t *testing.T) {
	calc := newTestCalculator()

	tests := []struct {
		name       string
		rate       float64
		wantRating models.Rating
	}{
		{"ninety percent excellent", 90, models.RatingExcellent},
		{"eighty percent good", 80, models.RatingGood},
		{"sixty five percent average", 65, models.RatingAverage},
		{"forty five percent needs improvement", 45, models.RatingNeedsImprovement},
		{"twenty percent poor", 20, models.RatingPoor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := calc.ScoreWeeklyTeam(tt.rate, 4, 5)
			assert.Equal(t, tt.wantRating, result.Rating)
			assert.Equal(t, int(tt.rate), result.Score)
			assert.Contains(t, result.Description, "4 of 5")
		})
	}
}

func TestScoring_Idempotent(t *testing.T) {
	calc := newTestCalculator()
	counters := models.AssignmentCounters{Completed: 7, Total: 10, OnTime: 5, QualityScore: 80}

	first := calc.ScoreAssignments(counters)
	second := calc.ScoreAssignments(counters)
	assert.Equal(t, first, second)

	assert.Equal(t, calc.ScoreConsecutiveDays(5), calc.ScoreConsecutiveDays(5))
}
