package entity

import (
	"encoding/json"
	"time"
)

// AuditLogEntry is one row of user_manipulations_logs. Rows are written once by
// the audit logger and never updated.
type AuditLogEntry struct {
	ID             int64
	Action         Action
	EntityID       int64
	OriginalValues json.RawMessage
	NewValues      json.RawMessage
	ByUser         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
