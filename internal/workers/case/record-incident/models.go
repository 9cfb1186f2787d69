// internal/workers/case/record-incident/models.go
package recordincident

type Input struct {
	WorkerID    string   `json:"workerId"`
	ReportedBy  string   `json:"reportedBy"`
	Severity    string   `json:"severity"`
	Description string   `json:"description"`
	BodyParts   []string `json:"bodyParts,omitempty"`
	OccurredAt  string   `json:"occurredAt"` // RFC3339
}

type Output struct {
	IncidentID string `json:"incidentId"`
	CaseNumber string `json:"caseNumber"`
	CaseStatus string `json:"caseStatus"`
	ReportedAt string `json:"reportedAt"`
}
