package recordincident

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"rehab-workers/internal/common/logger"
	"rehab-workers/internal/common/metrics"
	"rehab-workers/internal/models"
)

const (
	TaskType = "record-incident"
)

var (
	ErrDatabaseInsertFailed = errors.New("DATABASE_INSERT_FAILED")
	ErrDuplicateIncident    = errors.New("DUPLICATE_INCIDENT")
	ErrInvalidIncident      = errors.New("INVALID_INCIDENT")
)

var validSeverities = map[models.IncidentSeverity]bool{
	models.SeverityNearMiss: true,
	models.SeverityFirstAid: true,
	models.SeverityMedical:  true,
	models.SeverityLostTime: true,
	models.SeverityFatality: true,
}

type Handler struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
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
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "UNKNOWN_ERROR"
		retries := int32(0)
		if errors.Is(err, ErrDatabaseInsertFailed) {
			errorCode = "DATABASE_INSERT_FAILED"
			retries = 3
		} else if errors.Is(err, ErrDuplicateIncident) {
			errorCode = "DUPLICATE_INCIDENT"
		} else if errors.Is(err, ErrInvalidIncident) {
			errorCode = "INVALID_INCIDENT"
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.WorkerID == "" {
		return nil, fmt.Errorf("%w: workerId is required", ErrInvalidIncident)
	}
	if input.Description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidIncident)
	}
	if !validSeverities[models.IncidentSeverity(input.Severity)] {
		return nil, fmt.Errorf("%w: unknown severity %q", ErrInvalidIncident, input.Severity)
	}

	occurredAt, err := time.Parse(time.RFC3339, input.OccurredAt)
	if err != nil {
		return nil, fmt.Errorf("%w: occurredAt must be RFC3339: %v", ErrInvalidIncident, err)
	}

	// Same worker, same severity, within the duplicate window means the
	// incident was already reported (often by both the worker and a supervisor).
	var exists bool
	err = h.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM incidents
			WHERE worker_id = $1 AND severity = $2
			  AND occurred_at BETWEEN $3 AND $4
		)`, input.WorkerID, input.Severity,
		occurredAt.Add(-h.config.DuplicateWindow), occurredAt.Add(h.config.DuplicateWindow)).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("%w: duplicate check failed: %v", ErrDatabaseInsertFailed, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: incident already reported for worker %s around %s",
			ErrDuplicateIncident, input.WorkerID, input.OccurredAt)
	}

	incidentID := uuid.New().String()
	reportedAt := time.Now().UTC()
	caseNumber := buildCaseNumber(reportedAt, incidentID)

	bodyPartsJSON, err := json.Marshal(input.BodyParts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal body parts: %v", ErrDatabaseInsertFailed, err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO incidents (
			id, case_number, worker_id, reported_by, severity,
			description, body_parts, occurred_at, reported_at, case_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		incidentID,
		caseNumber,
		input.WorkerID,
		input.ReportedBy,
		input.Severity,
		input.Description,
		bodyPartsJSON,
		occurredAt,
		reportedAt,
		"open",
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert failed: %v", ErrDatabaseInsertFailed, err)
	}

	// Audit trail is best effort, a failed write never blocks the case.
	auditDetailsJSON, err := json.Marshal(map[string]interface{}{
		"workerId":   input.WorkerID,
		"reportedBy": input.ReportedBy,
		"severity":   input.Severity,
		"caseNumber": caseNumber,
	})
	if err != nil {
		h.logger.Warn("failed to marshal audit log details", map[string]interface{}{
			"error": err,
		})
		auditDetailsJSON = []byte("{}")
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"incident_recorded",
		"incident",
		incidentID,
		auditDetailsJSON,
		reportedAt,
	)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":      err,
			"incidentId": incidentID,
		})
	}

	h.logger.Info("incident recorded", map[string]interface{}{
		"incidentId": incidentID,
		"caseNumber": caseNumber,
		"workerId":   input.WorkerID,
		"severity":   input.Severity,
	})

	return &Output{
		IncidentID: incidentID,
		CaseNumber: caseNumber,
		CaseStatus: "open",
		ReportedAt: reportedAt.Format(time.RFC3339),
	}, nil
}

// buildCaseNumber derives a human-readable case number, e.g. INC-2026-3F2A91C4.
func buildCaseNumber(reportedAt time.Time, incidentID string) string {
	id := uuid.MustParse(incidentID)
	short := fmt.Sprintf("%X", id[0:4])
	return fmt.Sprintf("INC-%d-%s", reportedAt.Year(), short)
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
	} else {
		metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
		h.logger.Info("job completed successfully", map[string]interface{}{
			"jobKey": job.Key,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
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
