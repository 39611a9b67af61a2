package outbound

import (
	"context"
	"time"

	"github.com/fixora/accounts/domain/entity"
)

// AuditLogFilter narrows a scan of the audit log. Nil fields impose no
// constraint; set fields are combined with AND.
type AuditLogFilter struct {
	Action    *entity.Action
	EntityID  *int64
	ByUser    *string
	CreatedAt *time.Time // matched on the calendar day
}

// AuditLogRepository is append-only: there is no way to change or remove an
// entry once written.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *entity.AuditLogEntry) error
	Find(ctx context.Context, filter AuditLogFilter) ([]*entity.AuditLogEntry, error)
}
