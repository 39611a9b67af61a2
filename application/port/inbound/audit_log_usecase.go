package inbound

import (
	"context"
	"encoding/json"
	"time"
)

// AuditLogQuery holds the optional filters of the manipulation log view.
type AuditLogQuery struct {
	Action    *string
	EntityID  *int64
	ByUser    *string
	CreatedAt *time.Time
}

type ActingUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AuditLogView is the external shape of one audit log entry.
type AuditLogView struct {
	ID                int64           `json:"id"`
	Action            string          `json:"action"`
	ManipulatedUser   int64           `json:"manipulated_user"`
	OriginalValues    json.RawMessage `json:"original_values"`
	NewValues         json.RawMessage `json:"new_values"`
	ActionTakenByUser ActingUser      `json:"action_taken_by_user"`
	ActionTakenAt     string          `json:"action_taken_at"`
}

type AuditLogUseCase interface {
	View(ctx context.Context, query AuditLogQuery) ([]AuditLogView, error)
}
