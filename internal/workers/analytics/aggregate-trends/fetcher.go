// internal/workers/analytics/aggregate-trends/fetcher.go
package aggregatetrends

import (
	"context"
	"database/sql"
	"time"

	"rehab-workers/internal/models"
)

// postgresFetcher satisfies kpi.AssessmentFetcher against the assessments
// table.
type postgresFetcher struct {
	db *sql.DB
}

func (f *postgresFetcher) FetchAssessments(ctx context.Context, workerID string, start, end time.Time) ([]models.AssessmentEvent, error) {
	rows, err := f.db.QueryContext(ctx, `
		SELECT worker_id, submitted_at, readiness_level, fatigue_level, pain_discomfort, mood
		FROM work_readiness_assessments
		WHERE worker_id = $1 AND submitted_at >= $2 AND submitted_at <= $3
		ORDER BY submitted_at`, workerID, start, end)
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
