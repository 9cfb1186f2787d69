package analyzestreak

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"rehab-workers/internal/common/database"
	"rehab-workers/internal/common/logger"
	"rehab-workers/internal/common/metrics"
	"rehab-workers/internal/kpi"
	"rehab-workers/internal/models"
)

const (
	TaskType = "analyze-streak"
)

type Handler struct {
	config   *Config
	db       *sql.DB
	cache    *database.RedisClient
	analyzer *kpi.Analyzer
	calc     *kpi.Calculator
	logger   logger.Logger
}

func NewHandler(config *Config, db *sql.DB, cache *database.RedisClient, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		db:       db,
		cache:    cache,
		analyzer: kpi.NewAnalyzer(scoped).WithLocation(config.Location()),
		calc:     kpi.NewCalculator(scoped),
		logger:   scoped,
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
		h.failJob(client, job, "STREAK_ANALYSIS_FAILED", err.Error())
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.WorkerID == "" {
		return nil, fmt.Errorf("workerId is required")
	}

	if !input.SkipCache {
		if streak, ok := h.cachedStreak(ctx, input.WorkerID); ok {
			return &Output{
				WorkerID:  input.WorkerID,
				Streak:    streak,
				KPI:       h.calc.ScoreConsecutiveDays(streak.Current),
				FromCache: true,
			}, nil
		}
	}

	events, err := h.loadAssessments(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("load assessments: %w", err)
	}

	streak := h.analyzer.Analyze(events)
	h.storeStreak(ctx, input.WorkerID, streak)

	return &Output{
		WorkerID: input.WorkerID,
		Streak:   streak,
		KPI:      h.calc.ScoreConsecutiveDays(streak.Current),
	}, nil
}

func (h *Handler) loadAssessments(ctx context.Context, input *Input) ([]models.AssessmentEvent, error) {
	lookback := input.LookbackDays
	if lookback <= 0 {
		lookback = h.config.LookbackDays
	}
	since := time.Now().UTC().AddDate(0, 0, -lookback)

	rows, err := h.db.QueryContext(ctx, `
		SELECT worker_id, submitted_at, readiness_level, fatigue_level, pain_discomfort, mood
		FROM work_readiness_assessments
		WHERE worker_id = $1 AND submitted_at >= $2
		ORDER BY submitted_at`, input.WorkerID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.AssessmentEvent
	for rows.Next() {
		var ev models.AssessmentEvent
		if err := rows.Scan(&ev.WorkerID, &ev.SubmittedAtUTC, &ev.ReadinessLevel,
			&ev.FatigueLevel, &ev.PainDiscomfort, &ev.Mood); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// cachedStreak returns a previously computed streak. Cache failures are
// treated as misses.
func (h *Handler) cachedStreak(ctx context.Context, workerID string) (models.StreakResult, bool) {
	raw, err := h.cache.Get(ctx, cacheKey(workerID))
	if err != nil {
		return models.StreakResult{}, false
	}

	var streak models.StreakResult
	if err := json.Unmarshal([]byte(raw), &streak); err != nil {
		h.logger.WithError(err).Warn("discarding malformed cached streak", map[string]interface{}{
			"workerId": workerID,
		})
		return models.StreakResult{}, false
	}
	return streak, true
}

func (h *Handler) storeStreak(ctx context.Context, workerID string, streak models.StreakResult) {
	payload, err := json.Marshal(streak)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, cacheKey(workerID), payload, h.config.CacheTTL); err != nil {
		h.logger.WithError(err).Warn("failed to cache streak", map[string]interface{}{
			"workerId": workerID,
		})
	}
}

func cacheKey(workerID string) string {
	return "streak:" + workerID
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
