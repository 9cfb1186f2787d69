package calculatekpiscore

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
)

const (
	TaskType = "calculate-kpi-score"
)

type Handler struct {
	calc   *kpi.Calculator
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		calc:   kpi.NewCalculator(scoped),
		logger: scoped,
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
		h.failJob(client, job, "INVALID_METRIC_FAMILY", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	var output Output

	switch input.Metric {
	case MetricConsecutiveDays:
		days := 0
		if input.ConsecutiveDays != nil {
			days = *input.ConsecutiveDays
		}
		output.KPI = h.calc.ScoreConsecutiveDays(days)

	case MetricAssignments:
		counters := input.Counters
		if counters == nil {
			counters = make(map[string]interface{})
		}
		// Non-numeric counters come back as the "Error" sentinel rating;
		// the job still completes so callers can branch on the rating.
		output.KPI = h.calc.ScoreAssignmentsFrom(counters)

	case MetricCompletionRate:
		rate := 0.0
		if input.CompletionRate != nil {
			rate = *input.CompletionRate
		}
		output.KPI = h.calc.ScoreCompletionRate(rate, input.CurrentDay, input.TotalAssessments)

	case MetricWeeklyTeam:
		rate := 0.0
		if input.SubmissionRate != nil {
			rate = *input.SubmissionRate
		}
		output.KPI = h.calc.ScoreWeeklyTeam(rate, input.Submissions, input.TotalMembers)

	default:
		return nil, fmt.Errorf("unknown metric family: %q", input.Metric)
	}

	metrics.KPIScoresComputed.WithLabelValues(input.Metric, string(output.KPI.Rating)).Inc()

	h.logger.Info("kpi score calculated", map[string]interface{}{
		"workerId": input.WorkerID,
		"metric":   input.Metric,
		"rating":   string(output.KPI.Rating),
		"score":    output.KPI.Score,
	})
	return &output, nil
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
