// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeWorkerAssessments  QueryType = "worker_assessments"
	QueryTypeAssignmentCounters QueryType = "assignment_counters"
	QueryTypeTeamRoster         QueryType = "team_roster"
	QueryTypeCycleStatus        QueryType = "cycle_status"
	QueryTypeWorkerProfile      QueryType = "worker_profile"
)
