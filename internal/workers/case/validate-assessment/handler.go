package validateassessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"rehab-workers/internal/common/logger"
	"rehab-workers/internal/common/metrics"
	"rehab-workers/internal/common/validation"
)

const (
	TaskType = "validate-assessment"
)

var (
	ErrAssessmentValidationFailed = errors.New("ASSESSMENT_VALIDATION_FAILED")
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
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
		h.failJob(client, job, "PARSE_ERROR", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "ASSESSMENT_VALIDATION_FAILED", err.Error())
		return
	}

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
		h.logger.Error("failed to complete job", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.WorkerID == "" {
		return nil, fmt.Errorf("%w: workerId is required", ErrAssessmentValidationFailed)
	}
	if input.Assessment == nil {
		return nil, fmt.Errorf("%w: assessment payload is required", ErrAssessmentValidationFailed)
	}

	submission := h.normalize(input.Assessment)
	result := validation.ValidateInput(submission, assessmentSchema)

	h.logger.Info("validation completed", map[string]interface{}{
		"workerId":   input.WorkerID,
		"isValid":    result.Valid,
		"errorCount": len(result.Errors),
	})

	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrAssessmentValidationFailed,
			strings.Join(result.GetErrorMessages(), "; "))
	}

	return &Output{
		IsValid:          true,
		ValidatedData:    submission,
		ValidationErrors: []validation.ValidationError{},
	}, nil
}

// normalize trims and lowercases the enum-valued fields before schema
// validation so the form can send "Fit" or " great " without failing.
func (h *Handler) normalize(raw map[string]interface{}) map[string]interface{} {
	normalized := make(map[string]interface{}, len(raw))
	for key, value := range raw {
		switch key {
		case "readinessLevel", "mood":
			if s, ok := value.(string); ok {
				normalized[key] = strings.ToLower(strings.TrimSpace(s))
				continue
			}
		case "notes":
			if s, ok := value.(string); ok {
				normalized[key] = strings.TrimSpace(s)
				continue
			}
		}
		normalized[key] = value
	}
	return normalized
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, _ = client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
