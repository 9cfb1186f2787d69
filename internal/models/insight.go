// internal/models/insight.go
package models

// InsightType classifies an insight for dashboard styling.
type InsightType string

const (
	InsightSuccess InsightType = "success"
	InsightWarning InsightType = "warning"
	InsightError   InsightType = "error"
	InsightInfo    InsightType = "info"
)

// Insight is one human-readable finding emitted by a reporting view.
type Insight struct {
	Type    InsightType `json:"type"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// WorkerWeeklyKPI pairs a worker with their weekly KPI metrics for the
// weekly performance report.
type WorkerWeeklyKPI struct {
	WorkerName       string           `json:"workerName"`
	WeeklyKPIMetrics WeeklyKPIMetrics `json:"weeklyKPIMetrics"`
}

type WeeklyKPIMetrics struct {
	KPI KPIResult `json:"kpi"`
}

// CycleStatus is one worker's position in their current assessment cycle.
type CycleStatus struct {
	WorkerID   string `json:"workerId"`
	WorkerName string `json:"workerName"`
	Status     string `json:"status"` // Cycle In Progress | Cycle Completed | No Cycle Started
}

// CompletedCycle records a finished assessment cycle. Accepted by the
// monitoring report for forward compatibility; current insight logic does
// not read it.
type CompletedCycle struct {
	WorkerID    string  `json:"workerId"`
	WorkerName  string  `json:"workerName"`
	CompletedAt string  `json:"completedAt"`
	Rate        float64 `json:"rate"`
}

// WorkerMonthlyKPI pairs a worker with their monthly rollup.
type WorkerMonthlyKPI struct {
	WorkerName     string         `json:"workerName"`
	MonthlyMetrics MonthlyMetrics `json:"monthlyMetrics"`
}

type MonthlyMetrics struct {
	MonthlyKPI      KPIResult `json:"monthlyKPI"`
	CompletionRate  float64   `json:"completionRate"`
	CompletedCycles int       `json:"completedCycles"`
}

// MonthlyTrendEntry is one month's aggregate in the monthly trend series.
type MonthlyTrendEntry struct {
	Month           string  `json:"month"`
	CompletionRate  float64 `json:"completionRate"`
	CompletedCycles int     `json:"completedCycles"`
}
