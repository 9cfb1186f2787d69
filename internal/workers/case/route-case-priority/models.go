// internal/workers/case/route-case-priority/models.go
package routecasepriority

type Input struct {
	IncidentID string `json:"incidentId"`
	WorkerID   string `json:"workerId"`
	Severity   string `json:"severity"`
}

type Output struct {
	CasePriority  string `json:"casePriority"`
	ClinicianTier string `json:"clinicianTier"`
	// ReadinessLevel is the latest self-report used for escalation, if any.
	ReadinessLevel string `json:"readinessLevel,omitempty"`
	Escalated      bool   `json:"escalated"`
}
