package aggregatetrends

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"rehab-workers/internal/common/logger"
	"rehab-workers/internal/common/metrics"
	"rehab-workers/internal/kpi"
)

const (
	TaskType = "aggregate-trends"
)

type Handler struct {
	config     *Config
	aggregator *kpi.Aggregator
	logger     logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		aggregator: kpi.NewAggregator(&postgresFetcher{db: db}, scoped, config.WindowWeeks).WithLocation(config.Location()),
		logger:     scoped,
	}
}

// NewHandlerWithAggregator wires a preconfigured aggregator; used by tests
// that need a fixed clock.
func NewHandlerWithAggregator(config *Config, aggregator *kpi.Aggregator, log logger.Logger) *Handler {
	return &Handler{
		config:     config,
		aggregator: aggregator,
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
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

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "TREND_AGGREGATION_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.WorkerID == "" {
		return nil, fmt.Errorf("workerId is required")
	}

	// Degraded fetches come back as an empty series / nil comparison, not
	// errors; the job completes either way.
	trend := h.aggregator.WeeklyTrend(ctx, input.WorkerID)
	comparison := h.aggregator.CompareWeeks(ctx, input.WorkerID)

	h.logger.Info("trend aggregated", map[string]interface{}{
		"workerId":   input.WorkerID,
		"weeks":      len(trend),
		"comparison": comparison != nil,
	})

	return &Output{
		WorkerID:   input.WorkerID,
		Trend:      trend,
		Comparison: comparison,
	}, nil
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
