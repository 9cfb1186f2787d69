// internal/workers/notification/send-notification/models.go
package sendnotification

type Input struct {
	RecipientID      string                 `json:"recipientId"`
	RecipientType    string                 `json:"recipientType"` // "worker", "clinician" or "team_leader"
	NotificationType string                 `json:"notificationType"`
	CaseNumber       string                 `json:"caseNumber,omitempty"`
	Priority         string                 `json:"priority,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "failed", "disabled"
	SentAt         string `json:"sentAt"` // ISO 8601
}

// Notification types
const (
	TypeWeeklyReportReady  = "weekly_report_ready"
	TypeMonthlyReportReady = "monthly_report_ready"
	TypeUrgentCase         = "urgent_case"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

// Recipient types
const (
	RecipientTypeWorker     = "worker"
	RecipientTypeClinician  = "clinician"
	RecipientTypeTeamLeader = "team_leader"
)
