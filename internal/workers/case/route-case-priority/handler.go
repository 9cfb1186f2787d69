package routecasepriority

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"rehab-workers/internal/common/database"
	"rehab-workers/internal/common/logger"
	"rehab-workers/internal/common/metrics"
	"rehab-workers/internal/models"
)

const (
	TaskType = "route-case-priority"
)

// severityTable is the base decision table: incident severity alone fixes
// the floor for priority and the clinician group that takes the case.
var severityTable = map[models.IncidentSeverity]struct {
	Priority models.CasePriority
	Tier     models.ClinicianTier
}{
	models.SeverityNearMiss: {models.PriorityLow, models.TierNurse},
	models.SeverityFirstAid: {models.PriorityMedium, models.TierNurse},
	models.SeverityMedical:  {models.PriorityHigh, models.TierPhysio},
	models.SeverityLostTime: {models.PriorityHigh, models.TierSpecialist},
	models.SeverityFatality: {models.PriorityUrgent, models.TierOccupational},
}

type Handler struct {
	config *Config
	db     *sql.DB
	cache  *database.RedisClient
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, cache *database.RedisClient, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "CASE_ROUTING_FAILED", fmt.Sprintf("parse input: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "CASE_ROUTING_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	base, ok := severityTable[models.IncidentSeverity(input.Severity)]
	if !ok {
		return nil, fmt.Errorf("unknown incident severity %q", input.Severity)
	}

	readiness, err := h.latestReadiness(ctx, input.WorkerID)
	if err != nil {
		h.logger.Warn("failed to fetch latest readiness, routing on severity alone", map[string]interface{}{
			"workerId": input.WorkerID,
			"error":    err,
		})
		readiness = ""
	}

	priority := base.Priority
	tier := base.Tier
	escalated := false

	// A worker who already reports not_fit gets the case bumped one level
	// and, below specialist level, a physiotherapist instead of the nurse.
	if readiness == string(models.ReadinessNotFit) {
		if bumped := bumpPriority(priority); bumped != priority {
			priority = bumped
			escalated = true
		}
		if tier == models.TierNurse {
			tier = models.TierPhysio
		}
	}

	h.logger.Info("case routed", map[string]interface{}{
		"incidentId": input.IncidentID,
		"workerId":   input.WorkerID,
		"severity":   input.Severity,
		"readiness":  readiness,
		"priority":   priority,
		"tier":       tier,
		"escalated":  escalated,
	})

	return &Output{
		CasePriority:   string(priority),
		ClinicianTier:  string(tier),
		ReadinessLevel: readiness,
		Escalated:      escalated,
	}, nil
}

func (h *Handler) latestReadiness(ctx context.Context, workerID string) (string, error) {
	if workerID == "" {
		return "", fmt.Errorf("workerId is required")
	}

	cacheKey := "readiness:latest:" + workerID
	if val, err := h.cache.Get(ctx, cacheKey); err == nil {
		return val, nil
	}

	row := h.db.QueryRowContext(ctx, `
		SELECT readiness_level
		FROM work_readiness_assessments
		WHERE worker_id = $1
		ORDER BY submitted_at DESC
		LIMIT 1`, workerID)

	var readiness string
	err := row.Scan(&readiness)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("no assessments for worker %s", workerID)
		}
		return "", fmt.Errorf("database error: %w", err)
	}

	switch models.ReadinessLevel(readiness) {
	case models.ReadinessFit, models.ReadinessMinor, models.ReadinessNotFit:
		// valid
	default:
		readiness = string(models.ReadinessFit)
	}

	if err := h.cache.Set(ctx, cacheKey, readiness, h.config.CacheTTL); err != nil {
		h.logger.Warn("failed to cache readiness", map[string]interface{}{
			"workerId": workerID,
			"error":    err,
		})
	}
	return readiness, nil
}

func bumpPriority(p models.CasePriority) models.CasePriority {
	switch p {
	case models.PriorityLow:
		return models.PriorityMedium
	case models.PriorityMedium:
		return models.PriorityHigh
	case models.PriorityHigh:
		return models.PriorityUrgent
	default:
		return p
	}
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
