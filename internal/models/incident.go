// internal/models/incident.go
package models

import "time"

// IncidentSeverity is the reported severity of a workplace incident.
type IncidentSeverity string

const (
	SeverityNearMiss    IncidentSeverity = "near_miss"
	SeverityFirstAid    IncidentSeverity = "first_aid"
	SeverityMedical     IncidentSeverity = "medical_treatment"
	SeverityLostTime    IncidentSeverity = "lost_time"
	SeverityFatality    IncidentSeverity = "fatality"
)

// CasePriority drives clinician assignment and notification urgency.
type CasePriority string

const (
	PriorityLow    CasePriority = "low"
	PriorityMedium CasePriority = "medium"
	PriorityHigh   CasePriority = "high"
	PriorityUrgent CasePriority = "urgent"
)

// Incident is a reported workplace incident that opens a rehabilitation case.
type Incident struct {
	ID           string           `json:"id"`
	CaseNumber   string           `json:"caseNumber"`
	WorkerID     string           `json:"workerId"`
	ReportedBy   string           `json:"reportedBy"`
	Severity     IncidentSeverity `json:"severity"`
	Description  string           `json:"description"`
	BodyParts    []string         `json:"bodyParts,omitempty"`
	OccurredAt   time.Time        `json:"occurredAt"`
	ReportedAt   time.Time        `json:"reportedAt"`
}

// ClinicianTier maps case priority to the clinician group that takes it.
type ClinicianTier string

const (
	TierNurse        ClinicianTier = "triage_nurse"
	TierPhysio       ClinicianTier = "physiotherapist"
	TierSpecialist   ClinicianTier = "rehab_specialist"
	TierOccupational ClinicianTier = "occupational_physician"
)
