// internal/workers/data-access/query-postgresql/queries/team.go
package queries

import (
	"context"
	"database/sql"
	"time"
)

func TeamRoster(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	teamID, ok := params["teamId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT id, full_name, email, phone, role
		FROM workers
		WHERE team_id = $1 AND active = true
		ORDER BY full_name`, teamID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var id, fullName, email, role string
		var phone sql.NullString
		if err := rows.Scan(&id, &fullName, &email, &phone, &role); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"id":       id,
			"fullName": fullName,
			"email":    email,
			"phone":    phone.String,
			"role":     role,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func CycleStatus(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	teamID, ok := params["teamId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT w.id, w.full_name,
		       CASE
		           WHEN c.id IS NULL THEN 'No Cycle Started'
		           WHEN c.completed_at IS NOT NULL THEN 'Cycle Completed'
		           ELSE 'Cycle In Progress'
		       END AS status
		FROM workers w
		LEFT JOIN assessment_cycles c
		       ON c.worker_id = w.id
		      AND c.started_at = (SELECT MAX(started_at) FROM assessment_cycles WHERE worker_id = w.id)
		WHERE w.team_id = $1 AND w.active = true
		ORDER BY w.full_name`, teamID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var id, fullName, status string
		if err := rows.Scan(&id, &fullName, &status); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"workerId":   id,
			"workerName": fullName,
			"status":     status,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func WorkerProfile(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	workerID, ok := params["workerId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var id, fullName, email, role, teamID string
	var phone sql.NullString
	var createdAt time.Time

	err := db.QueryRowContext(ctx, `
		SELECT id, full_name, email, phone, role, team_id, created_at
		FROM workers
		WHERE id = $1`, workerID).Scan(
		&id, &fullName, &email, &phone, &role, &teamID, &createdAt,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"id":        id,
		"fullName":  fullName,
		"email":     email,
		"phone":     phone.String,
		"role":      role,
		"teamId":    teamID,
		"createdAt": createdAt.UTC().Format(time.RFC3339),
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}
