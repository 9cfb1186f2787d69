// internal/models/kpi.go
package models

// Rating is the bucketed performance rating attached to a KPIResult.
// Values are display strings; dashboards and insight generation branch on
// them directly, so they must not be renamed without updating call sites.
type Rating string

const (
	RatingExcellent        Rating = "Excellent"
	RatingGood             Rating = "Good"
	RatingAverage          Rating = "Average"
	RatingBelowAverage     Rating = "Below Average"
	RatingNeedsImprovement Rating = "Needs Improvement"
	RatingPoor             Rating = "Poor"
	RatingNoAssignments    Rating = "No Assignments"
	RatingNoKPIPoints      Rating = "No KPI Points"
	RatingNotStarted       Rating = "Not Started"
	RatingOnTrack          Rating = "On Track"
	RatingError            Rating = "Error"
)

// AssignmentCounters aggregates one worker's assignment counts over an
// evaluation window. Invariants: completed <= total, onTime <= total.
type AssignmentCounters struct {
	Completed    float64 `json:"completed"`
	Total        float64 `json:"total"`
	OnTime       float64 `json:"onTime"`
	Pending      float64 `json:"pending"`
	Overdue      float64 `json:"overdue"`
	QualityScore float64 `json:"qualityScore"` // 0..100
}

// KPIResult is the output tuple of every scoring entry point. It is
// recomputed on every call; callers must branch on Rating (including the
// "Error" sentinel) rather than expecting errors.
type KPIResult struct {
	Rating      Rating  `json:"rating"`
	Color       string  `json:"color"`
	Description string  `json:"description"`
	Score       int     `json:"score"`
	Metric      string  `json:"metric,omitempty"`
	RawValue    float64 `json:"rawValue,omitempty"`
}

// TeamSummary carries team-level aggregates into insight generation.
type TeamSummary struct {
	TotalCompletedCycles  int       `json:"totalCompletedCycles"`
	AverageCompletionRate float64   `json:"averageCompletionRate"`
	TeamKPI               KPIResult `json:"teamKPI"`
	AverageCyclesPerMember float64  `json:"averageCyclesPerMember"`
}

// TrendPoint is one week's entry in a completion-rate trend series.
type TrendPoint struct {
	WeekLabel      string  `json:"weekLabel"`
	CompletionRate float64 `json:"completionRate"`
	KPIRating      Rating  `json:"kpiRating"`
	CompletedDays  int     `json:"completedDays"`
	TotalDays      int     `json:"totalDays"`
}

// WeekComparison compares the current week's submission rate against the
// previous week's.
type WeekComparison struct {
	CurrentRate  float64 `json:"currentRate"`
	PreviousRate float64 `json:"previousRate"`
	Improvement  int     `json:"improvement"`
	Trend        string  `json:"trend"` // improving | declining | stable
}
