// internal/workers/analytics/analyze-streak/models.go
package analyzestreak

import "rehab-workers/internal/models"

type Input struct {
	WorkerID     string `json:"workerId"`
	LookbackDays int    `json:"lookbackDays,omitempty"`
	SkipCache    bool   `json:"skipCache,omitempty"`
}

type Output struct {
	WorkerID  string              `json:"workerId"`
	Streak    models.StreakResult `json:"streak"`
	KPI       models.KPIResult    `json:"kpi"`
	FromCache bool                `json:"fromCache"`
}
