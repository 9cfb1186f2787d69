// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

import "rehab-workers/internal/models"

type Input struct {
	QueryType string                 `json:"queryType"`
	WorkerID  string                 `json:"workerId,omitempty"`
	WorkerIDs []string               `json:"workerIds,omitempty"`
	TeamID    string                 `json:"teamId,omitempty"`
	Filters   map[string]interface{} `json:"filters,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryType = models.QueryType

// Export constants for external use
var (
	QueryTypeWorkerAssessments  = models.QueryTypeWorkerAssessments
	QueryTypeAssignmentCounters = models.QueryTypeAssignmentCounters
	QueryTypeTeamRoster         = models.QueryTypeTeamRoster
	QueryTypeCycleStatus        = models.QueryTypeCycleStatus
	QueryTypeWorkerProfile      = models.QueryTypeWorkerProfile
)
