// internal/kpi/insight.go
package kpi

import (
	"fmt"
	"math"
	"strings"

	"rehab-workers/internal/common/logger"
	"rehab-workers/internal/models"
)

// Generator produces human-readable insight records for the three reporting
// views. All generation is pure; the logger only records a summary.
type Generator struct {
	log logger.Logger
}

func NewGenerator(log logger.Logger) *Generator {
	return &Generator{log: log}
}

// teamRatingInsights is the fixed mapping from a team KPI rating to the
// single team-level insight in the weekly performance report. Ratings absent
// from this table produce no team insight.
var teamRatingInsights = map[models.Rating]struct {
	Type    models.InsightType
	Title   string
	Message string
}{
	models.RatingExcellent: {
		models.InsightSuccess, "Outstanding Team Performance",
		"The team achieved an Excellent rating this week. Keep up the momentum.",
	},
	models.RatingGood: {
		models.InsightSuccess, "Good Team Performance",
		"The team is performing well with a Good rating this week.",
	},
	models.RatingAverage: {
		models.InsightWarning, "Average Team Performance",
		"Team performance is average. Consider checking in with members who are falling behind.",
	},
	models.RatingNeedsImprovement: {
		models.InsightError, "Team Performance Needs Attention",
		"Team performance needs attention. Review assessment completion with the team.",
	},
	models.RatingNotStarted: {
		models.InsightInfo, "Team Getting Started",
		"The team has not started submitting assessments yet this week.",
	},
}

// GeneratePerformanceInsights builds the weekly performance insight list.
// Emission order is fixed: excellent performers, workers needing support, the
// team-level insight, then the consistency insight.
func (g *Generator) GeneratePerformanceInsights(individualKPIs []models.WorkerWeeklyKPI, teamKPI models.KPIResult) []models.Insight {
	insights := []models.Insight{}

	var excellent []string
	needsImprovement := 0
	consistent := 0
	for _, w := range individualKPIs {
		switch w.WeeklyKPIMetrics.KPI.Rating {
		case models.RatingExcellent:
			excellent = append(excellent, w.WorkerName)
			consistent++
		case models.RatingGood:
			consistent++
		case models.RatingNeedsImprovement:
			needsImprovement++
		}
	}

	if len(excellent) > 0 {
		insights = append(insights, models.Insight{
			Type:    models.InsightSuccess,
			Title:   "Excellent Performers",
			Message: fmt.Sprintf("%s achieved an Excellent rating this week", strings.Join(excellent, ", ")),
			Data:    map[string]interface{}{"workers": excellent},
		})
	}

	if needsImprovement > 0 {
		insights = append(insights, models.Insight{
			Type:    models.InsightWarning,
			Title:   "Workers Needing Support",
			Message: fmt.Sprintf("%d team member(s) rated Needs Improvement this week", needsImprovement),
			Data:    map[string]interface{}{"count": needsImprovement},
		})
	}

	if team, ok := teamRatingInsights[teamKPI.Rating]; ok {
		insights = append(insights, models.Insight{
			Type:    team.Type,
			Title:   team.Title,
			Message: team.Message,
			Data:    map[string]interface{}{"teamRating": string(teamKPI.Rating), "teamScore": teamKPI.Score},
		})
	}

	consistencyRate := 0
	if len(individualKPIs) > 0 {
		consistencyRate = int(math.Round(float64(consistent) / float64(len(individualKPIs)) * 100))
	}
	if consistencyRate >= 80 {
		insights = append(insights, models.Insight{
			Type:    models.InsightInfo,
			Title:   "High Consistency",
			Message: fmt.Sprintf("%d%% of the team rated Good or better this week", consistencyRate),
			Data:    map[string]interface{}{"consistencyRate": consistencyRate},
		})
	}

	g.summarize("performance", len(insights))
	return insights
}

// GenerateMonitoringInsights builds the cycle-monitoring insight list.
// completedCyclesHistory is accepted for forward compatibility; current logic
// does not read it.
func (g *Generator) GenerateMonitoringInsights(
	currentCycleStatus []models.CycleStatus,
	completedCyclesHistory []models.CompletedCycle,
	teamSummary models.TeamSummary,
) []models.Insight {
	insights := []models.Insight{}

	var inProgress, completed, notStarted []string
	for _, s := range currentCycleStatus {
		switch s.Status {
		case "Cycle In Progress":
			inProgress = append(inProgress, s.WorkerName)
		case "Cycle Completed":
			completed = append(completed, s.WorkerName)
		case "No Cycle Started":
			notStarted = append(notStarted, s.WorkerName)
		}
	}

	if len(inProgress) > 0 {
		insights = append(insights, models.Insight{
			Type:    models.InsightInfo,
			Title:   "Active Cycles",
			Message: fmt.Sprintf("%d member(s) currently have an assessment cycle in progress", len(inProgress)),
			Data:    map[string]interface{}{"workers": inProgress},
		})
	}

	if len(completed) > 0 {
		insights = append(insights, models.Insight{
			Type:    models.InsightSuccess,
			Title:   "Recent Completions",
			Message: fmt.Sprintf("%d member(s) recently completed an assessment cycle", len(completed)),
			Data:    map[string]interface{}{"workers": completed},
		})
	}

	if len(notStarted) > 0 {
		insights = append(insights, models.Insight{
			Type:    models.InsightWarning,
			Title:   "Inactive Members",
			Message: fmt.Sprintf("%d member(s) have not started an assessment cycle", len(notStarted)),
			Data:    map[string]interface{}{"workers": notStarted},
		})
	}

	if teamSummary.AverageCyclesPerMember > 0 {
		avg := math.Round(teamSummary.AverageCyclesPerMember*100) / 100
		insights = append(insights, models.Insight{
			Type:    models.InsightInfo,
			Title:   "Team Performance",
			Message: fmt.Sprintf("The team averages %.2f completed cycles per member", avg),
			Data:    map[string]interface{}{"averageCyclesPerMember": avg},
		})
	}

	g.summarize("monitoring", len(insights))
	return insights
}

// GenerateMonthlyInsights builds the monthly summary insight list. The
// closing Monthly Summary insight is always emitted.
func (g *Generator) GenerateMonthlyInsights(
	monthlyWorkerKPIs []models.WorkerMonthlyKPI,
	teamSummary models.TeamSummary,
	monthlyTrends []models.MonthlyTrendEntry,
) []models.Insight {
	insights := []models.Insight{}

	top := topByRating(monthlyWorkerKPIs, models.RatingExcellent, 3)
	if len(top) > 0 {
		insights = append(insights, models.Insight{
			Type:    models.InsightSuccess,
			Title:   "Top Performers",
			Message: fmt.Sprintf("%s led the team this month with Excellent ratings", strings.Join(top, ", ")),
			Data:    map[string]interface{}{"workers": top},
		})
	}

	struggling := topByRating(monthlyWorkerKPIs, models.RatingNeedsImprovement, 3)
	if len(struggling) > 0 {
		insights = append(insights, models.Insight{
			Type:    models.InsightWarning,
			Title:   "Needs Improvement",
			Message: fmt.Sprintf("%s may need additional support this month", strings.Join(struggling, ", ")),
			Data:    map[string]interface{}{"workers": struggling},
		})
	}

	if len(monthlyTrends) >= 2 {
		previous := monthlyTrends[len(monthlyTrends)-2]
		latest := monthlyTrends[len(monthlyTrends)-1]
		delta := latest.CompletionRate - previous.CompletionRate
		switch {
		case delta > 0:
			insights = append(insights, models.Insight{
				Type:    models.InsightInfo,
				Title:   "Improving Trend",
				Message: fmt.Sprintf("Completion rate improved by %d%% compared to the previous month", int(math.Round(delta))),
				Data:    map[string]interface{}{"delta": delta},
			})
		case delta < 0:
			insights = append(insights, models.Insight{
				Type:    models.InsightWarning,
				Title:   "Declining Trend",
				Message: fmt.Sprintf("Completion rate decreased by %d%% compared to the previous month", int(math.Round(-delta))),
				Data:    map[string]interface{}{"delta": delta},
			})
		}
	}

	insights = append(insights, models.Insight{
		Type:  models.InsightInfo,
		Title: "Monthly Summary",
		Message: fmt.Sprintf("The team completed %d cycles this month with an average completion rate of %d%%",
			teamSummary.TotalCompletedCycles, int(math.Round(teamSummary.AverageCompletionRate))),
		Data: map[string]interface{}{
			"totalCompletedCycles":  teamSummary.TotalCompletedCycles,
			"averageCompletionRate": math.Round(teamSummary.AverageCompletionRate),
			"teamRating":            string(teamSummary.TeamKPI.Rating),
		},
	})

	g.summarize("monthly", len(insights))
	return insights
}

func topByRating(workers []models.WorkerMonthlyKPI, rating models.Rating, limit int) []string {
	var names []string
	for _, w := range workers {
		if w.MonthlyMetrics.MonthlyKPI.Rating == rating {
			names = append(names, w.WorkerName)
			if len(names) == limit {
				break
			}
		}
	}
	return names
}

func (g *Generator) summarize(report string, count int) {
	g.log.Debug("insights generated", map[string]interface{}{
		"report": report,
		"count":  count,
	})
}
