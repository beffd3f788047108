package models

import "time"

// Audit actions recorded for admin mutations.
const (
	AuditActionQuoteUpdate  = "QUOTE_UPDATE"
	AuditActionQuoteDelete  = "QUOTE_DELETE"
	AuditActionContentWrite = "CONTENT_WRITE"
)

// AuditLog represents an audit trail event.
type AuditLog struct {
	ID         string                 `json:"id"`
	Timestamp  time.Time              `json:"timestamp"`
	UserID     string                 `json:"userId"` // Who performed the action
	Action     string                 `json:"action"`
	TargetType string                 `json:"targetType,omitempty"` // e.g. "QUOTE_REQUEST", "HOMEPAGE_CONTENT"
	TargetID   string                 `json:"targetId,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
}
