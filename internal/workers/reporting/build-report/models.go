// internal/workers/reporting/build-report/models.go
package buildreport

type Input struct {
	TemplateID string                 `json:"templateId"`
	RequestID  string                 `json:"requestId"`
	Data       map[string]interface{} `json:"data"`
}

type Output struct {
	Report ReportPayload `json:"report"`
}

type ReportPayload struct {
	RequestID string                 `json:"requestId"`
	Status    string                 `json:"status"`
	Data      map[string]interface{} `json:"data"`
	Metadata  ReportMetadata         `json:"metadata"`
}

type ReportMetadata struct {
	Timestamp string `json:"timestamp"` // ISO 8601
	Template  string `json:"template"`
	Version   string `json:"version"`
}

// TemplateDefinition is one entry in the report template registry.
type TemplateDefinition struct {
	ID       string                 `json:"id"`
	Type     string                 `json:"type"`     // weekly-performance, monthly-summary, ...
	Schema   map[string]interface{} `json:"schema"`   // JSON Schema for the report data
	Template map[string]interface{} `json:"template"` // Base structure with placeholders
	Version  string                 `json:"version"`
}
