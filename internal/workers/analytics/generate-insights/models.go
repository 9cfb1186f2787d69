// internal/workers/analytics/generate-insights/models.go
package generateinsights

import "rehab-workers/internal/models"

// Report kinds accepted on the "reportType" variable.
const (
	ReportPerformance = "performance"
	ReportMonitoring  = "monitoring"
	ReportMonthly     = "monthly"
)

type Input struct {
	ReportType string `json:"reportType"`

	// performance
	IndividualKPIs []models.WorkerWeeklyKPI `json:"individualKPIs,omitempty"`
	TeamKPI        *models.KPIResult        `json:"teamKPI,omitempty"`

	// monitoring
	CurrentCycleStatus     []models.CycleStatus    `json:"currentCycleStatus,omitempty"`
	CompletedCyclesHistory []models.CompletedCycle `json:"completedCyclesHistory,omitempty"`

	// monitoring + monthly
	TeamSummary *models.TeamSummary `json:"teamSummary,omitempty"`

	// monthly
	MonthlyWorkerKPIs []models.WorkerMonthlyKPI  `json:"monthlyWorkerKPIs,omitempty"`
	MonthlyTrends     []models.MonthlyTrendEntry `json:"monthlyTrends,omitempty"`
}

type Output struct {
	ReportType string           `json:"reportType"`
	Insights   []models.Insight `json:"insights"`
}
