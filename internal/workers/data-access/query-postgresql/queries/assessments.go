// internal/workers/data-access/query-postgresql/queries/assessments.go
package queries

import (
	"context"
	"database/sql"
	"time"
)

func WorkerAssessments(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	workerID, ok := params["workerId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	startDate, endDate := dateRangeFromFilters(params)

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, worker_id, submitted_at, readiness_level, fatigue_level, pain_discomfort, mood
		FROM work_readiness_assessments
		WHERE worker_id = $1 AND submitted_at >= $2 AND submitted_at <= $3
		ORDER BY submitted_at`, workerID, startDate, endDate)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var id, wID, readinessLevel, mood string
		var submittedAt time.Time
		var fatigueLevel int
		var painDiscomfort bool
		if err := rows.Scan(&id, &wID, &submittedAt, &readinessLevel, &fatigueLevel, &painDiscomfort, &mood); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"id":             id,
			"workerId":       wID,
			"submittedAt":    submittedAt.UTC().Format(time.RFC3339),
			"readinessLevel": readinessLevel,
			"fatigueLevel":   fatigueLevel,
			"painDiscomfort": painDiscomfort,
			"mood":           mood,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func AssignmentCounters(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	workerID, ok := params["workerId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var completed, total, onTime, pending, overdue int
	var qualityScore sql.NullFloat64

	err := db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'completed' AND completed_at <= due_at),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'pending' AND due_at < NOW()),
			AVG(quality_score) FILTER (WHERE status = 'completed')
		FROM assignments
		WHERE worker_id = $1`, workerID).Scan(
		&completed, &total, &onTime, &pending, &overdue, &qualityScore,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"workerId":     workerID,
		"completed":    completed,
		"total":        total,
		"onTime":       onTime,
		"pending":      pending,
		"overdue":      overdue,
		"qualityScore": qualityScore.Float64,
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}

// dateRangeFromFilters reads optional startDate/endDate filters (RFC3339);
// defaults to the last 90 days.
func dateRangeFromFilters(params map[string]interface{}) (time.Time, time.Time) {
	end := time.Now().UTC()
	begin := end.AddDate(0, 0, -90)

	filters, ok := params["filters"].(map[string]interface{})
	if !ok {
		return begin, end
	}
	if raw, ok := filters["startDate"].(string); ok {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			begin = t
		}
	}
	if raw, ok := filters["endDate"].(string); ok {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			end = t
		}
	}
	return begin, end
}
