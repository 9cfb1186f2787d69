// internal/workers/analytics/calculate-kpi-score/models.go
package calculatekpiscore

import "rehab-workers/internal/models"

// Metric families accepted on the "metric" variable.
const (
	MetricConsecutiveDays = "consecutive_days"
	MetricAssignments     = "assignments"
	MetricCompletionRate  = "completion_rate"
	MetricWeeklyTeam      = "weekly_team"
)

type Input struct {
	Metric   string `json:"metric"`
	WorkerID string `json:"workerId,omitempty"`

	// consecutive_days
	ConsecutiveDays *int `json:"consecutiveDays,omitempty"`

	// assignments; kept untyped so non-numeric counters surface as the
	// "Error" sentinel rating instead of a parse failure
	Counters map[string]interface{} `json:"counters,omitempty"`

	// completion_rate
	CompletionRate   *float64 `json:"completionRate,omitempty"`
	CurrentDay       *int     `json:"currentDay,omitempty"`
	TotalAssessments *int     `json:"totalAssessments,omitempty"`

	// weekly_team
	SubmissionRate *float64 `json:"submissionRate,omitempty"`
	Submissions    int      `json:"submissions,omitempty"`
	TotalMembers   int      `json:"totalMembers,omitempty"`
}

type Output struct {
	KPI models.KPIResult `json:"kpi"`
}
