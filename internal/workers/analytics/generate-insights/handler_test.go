package generateinsights

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"rehab-workers/internal/common/logger"
	"rehab-workers/internal/models"
)

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), logger.NewZapAdapter(zaptest.NewLogger(t)))
}

func TestHandler_Execute_PerformanceReport(t *testing.T) {
	handler := createTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		ReportType: ReportPerformance,
		IndividualKPIs: []models.WorkerWeeklyKPI{
			{
				WorkerName:       "Asha Patel",
				WeeklyKPIMetrics: models.WeeklyKPIMetrics{KPI: models.KPIResult{Rating: models.RatingExcellent}},
			},
		},
		TeamKPI: &models.KPIResult{Rating: models.RatingGood},
	})

	require.NoError(t, err)
	assert.Equal(t, ReportPerformance, output.ReportType)
	require.Len(t, output.Insights, 3)
	assert.Equal(t, "Excellent Performers", output.Insights[0].Title)
	assert.Equal(t, "Good Team Performance", output.Insights[1].Title)
	assert.Equal(t, "High Consistency", output.Insights[2].Title)
}

func TestHandler_Execute_PerformanceReport_NoTeamKPI(t *testing.T) {
	handler := createTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{ReportType: ReportPerformance})

	require.NoError(t, err)
	assert.Empty(t, output.Insights, "zero-value team rating maps to no team insight")
}

func TestHandler_Execute_MonitoringReport(t *testing.T) {
	handler := createTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		ReportType: ReportMonitoring,
		CurrentCycleStatus: []models.CycleStatus{
			{WorkerID: "1", WorkerName: "Asha Patel", Status: "Cycle In Progress"},
			{WorkerID: "2", WorkerName: "Ben Ortiz", Status: "Cycle Completed"},
		},
		TeamSummary: &models.TeamSummary{AverageCyclesPerMember: 1.5},
	})

	require.NoError(t, err)
	require.Len(t, output.Insights, 3)
	assert.Equal(t, "Active Cycles", output.Insights[0].Title)
	assert.Equal(t, "Recent Completions", output.Insights[1].Title)
	assert.Equal(t, "Team Performance", output.Insights[2].Title)
}

func TestHandler_Execute_MonthlyReport(t *testing.T) {
	handler := createTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		ReportType: ReportMonthly,
		MonthlyTrends: []models.MonthlyTrendEntry{
			{Month: "Jul", CompletionRate: 60},
			{Month: "Aug", CompletionRate: 75},
		},
		TeamSummary: &models.TeamSummary{TotalCompletedCycles: 9, AverageCompletionRate: 75},
	})

	require.NoError(t, err)
	require.Len(t, output.Insights, 2)
	assert.Equal(t, "Improving Trend", output.Insights[0].Title)
	assert.Equal(t, "Monthly Summary", output.Insights[1].Title)
}

func TestHandler_Execute_UnknownReportType(t *testing.T) {
	handler := createTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{ReportType: "quarterly"})

	assert.Nil(t, output)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown report type")
}
