// internal/models/assessment.go
package models

import "time"

// ReadinessLevel is the worker's self-reported fitness for duty.
type ReadinessLevel string

const (
	ReadinessFit    ReadinessLevel = "fit"
	ReadinessMinor  ReadinessLevel = "minor"
	ReadinessNotFit ReadinessLevel = "not_fit"
)

// Mood buckets used by the daily check-in form.
type Mood string

const (
	MoodGreat    Mood = "great"
	MoodOkay     Mood = "okay"
	MoodLow      Mood = "low"
	MoodStressed Mood = "stressed"
)

// AssessmentEvent is one worker's daily work-readiness self-report.
// Read-only to the analytics core; rows are produced by the submission flow.
type AssessmentEvent struct {
	WorkerID       string         `json:"workerId"`
	SubmittedAtUTC time.Time      `json:"submittedAtUtc"`
	ReadinessLevel ReadinessLevel `json:"readinessLevel"`
	FatigueLevel   int            `json:"fatigueLevel"` // 1..5
	PainDiscomfort bool           `json:"painDiscomfort"`
	Mood           Mood           `json:"mood"`
}

// StreakResult holds working-day submission streaks for one worker.
type StreakResult struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}
