package entities

import "time"

type AuditEventType string

const (
	AuditEventCatalogue AuditEventType = "catalogue"
	AuditEventLoan      AuditEventType = "loan"
	AuditEventMember    AuditEventType = "member"
	AuditEventAuth      AuditEventType = "auth"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEvent is one entry in the audit trail. Events are written
// synchronously after each mutating operation and each login attempt.
type AuditEvent struct {
	EventType   AuditEventType `json:"event_type"`
	Action      string         `json:"action"`      // e.g. "book_add", "loan_issue"
	Actor       string         `json:"actor"`       // librarian username or member id
	EntityType  string         `json:"entity_type"` // "book", "member", "loan"
	EntityID    string         `json:"entity_id,omitempty"`
	Description string         `json:"description"`
	Status      AuditStatus    `json:"status"`
	ErrorMsg    string         `json:"error_msg,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
