package events

import "time"

const NotificationTopic = "attendance.notification.v1"

// Workflow event names carried to the notification sink.
const (
	EventRegularizationSubmitted = "regularization_submitted"
	EventRegularizationDecided   = "regularization_decided"
	EventRegularizationReview    = "regularization_review_requested"
	EventMachineSynced           = "machine_synced"
)

type NotificationEvent struct {
	EventType  string         `json:"event_type"`
	Target     string         `json:"target"`
	CompanyID  string         `json:"company_id"`
	RequestID  string         `json:"request_id,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}
