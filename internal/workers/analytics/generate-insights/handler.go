package generateinsights

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"rehab-workers/internal/common/logger"
	"rehab-workers/internal/common/metrics"
	"rehab-workers/internal/kpi"
	"rehab-workers/internal/models"
)

const (
	TaskType = "generate-insights"
)

type Handler struct {
	generator *kpi.Generator
	logger    logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		generator: kpi.NewGenerator(scoped),
		logger:    scoped,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "INVALID_REPORT_TYPE", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	var insights []models.Insight

	switch input.ReportType {
	case ReportPerformance:
		teamKPI := models.KPIResult{}
		if input.TeamKPI != nil {
			teamKPI = *input.TeamKPI
		}
		insights = h.generator.GeneratePerformanceInsights(input.IndividualKPIs, teamKPI)

	case ReportMonitoring:
		summary := models.TeamSummary{}
		if input.TeamSummary != nil {
			summary = *input.TeamSummary
		}
		insights = h.generator.GenerateMonitoringInsights(input.CurrentCycleStatus, input.CompletedCyclesHistory, summary)

	case ReportMonthly:
		summary := models.TeamSummary{}
		if input.TeamSummary != nil {
			summary = *input.TeamSummary
		}
		insights = h.generator.GenerateMonthlyInsights(input.MonthlyWorkerKPIs, summary, input.MonthlyTrends)

	default:
		return nil, fmt.Errorf("unknown report type: %q", input.ReportType)
	}

	metrics.InsightsGenerated.WithLabelValues(input.ReportType).Add(float64(len(insights)))

	h.logger.Info("insights generated", map[string]interface{}{
		"reportType": input.ReportType,
		"count":      len(insights),
	})
	return &Output{ReportType: input.ReportType, Insights: insights}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
