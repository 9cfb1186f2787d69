// internal/workers/case/validate-assessment/models.go
package validateassessment

import "rehab-workers/internal/common/validation"

type Input struct {
	WorkerID   string                 `json:"workerId"`
	Assessment map[string]interface{} `json:"assessment"`
}

type Output struct {
	IsValid          bool                         `json:"isValid"`
	ValidatedData    map[string]interface{}       `json:"validatedData"`
	ValidationErrors []validation.ValidationError `json:"validationErrors"`
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// assessmentSchema describes a daily work-readiness submission.
var assessmentSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"readinessLevel": {
			Type:        "string",
			Description: "Self-reported fitness for duty",
			Enum:        []string{"fit", "minor", "not_fit"},
		},
		"fatigueLevel": {
			Type:        "integer",
			Description: "Fatigue on a 1 (rested) to 5 (exhausted) scale",
			Minimum:     floatPtr(1),
			Maximum:     floatPtr(5),
		},
		"painDiscomfort": {
			Type:        "boolean",
			Description: "Whether the worker reports pain or discomfort today",
		},
		"mood": {
			Type: "string",
			Enum: []string{"great", "okay", "low", "stressed"},
		},
		"notes": {
			Type:      "string",
			MaxLength: intPtr(500),
		},
	},
	Required:             []string{"readinessLevel", "fatigueLevel", "painDiscomfort", "mood"},
	AdditionalProperties: false,
}
