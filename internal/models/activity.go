package models

import "time"

// Activity event types.
const (
	EventSignup          = "SIGNUP"
	EventLogin           = "LOGIN"
	EventPasswordReset   = "PASSWORD_RESET"
	EventProjectCreated  = "PROJECT_CREATED"
	EventProjectDeleted  = "PROJECT_DELETED"
	EventTaskCreated     = "TASK_CREATED"
	EventTaskCompleted   = "TASK_COMPLETED"
	EventTaskDeleted     = "TASK_DELETED"
	EventUserDeactivated = "USER_DEACTIVATED"
)

// ActivityEvent is a single entry in the application activity log.
type ActivityEvent struct {
	EventID    string    `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	Metadata   any       `json:"metadata,omitempty"`
}
