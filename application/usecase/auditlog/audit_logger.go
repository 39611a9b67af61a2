package auditlog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/fixora/accounts/application/event"
	"github.com/fixora/accounts/application/port/outbound"
	"github.com/fixora/accounts/domain/entity"
	"github.com/fixora/accounts/infrastructure/service/logger"
)

// AuditLogger records every UserManipulated event as one audit log entry.
type AuditLogger struct {
	repo    outbound.AuditLogRepository
	metrics outbound.AuditMetrics
	logger  logger.Logger
	now     func() time.Time
}

func NewAuditLogger(repo outbound.AuditLogRepository, metrics outbound.AuditMetrics, log logger.Logger) *AuditLogger {
	return &AuditLogger{
		repo:    repo,
		metrics: metrics,
		logger:  log.WithFields(map[string]interface{}{"component": "audit_logger"}),
		now:     entity.Now,
	}
}

func (l *AuditLogger) Name() string {
	return "audit_logger"
}

func (l *AuditLogger) Handle(ctx context.Context, evt event.UserManipulated) error {
	entry, err := BuildEntry(evt, l.now())
	if err != nil {
		l.failed(ctx, evt, err)
		return err
	}

	if err := l.repo.Append(ctx, entry); err != nil {
		l.failed(ctx, evt, err)
		return fmt.Errorf("append audit log entry: %w", err)
	}

	if l.metrics != nil {
		l.metrics.AuditEntryWritten(evt.Action.String())
	}
	l.logger.Debug(ctx, "User manipulation logged", map[string]interface{}{
		"audit_id":  entry.ID,
		"action":    entry.Action,
		"entity_id": entry.EntityID,
		"by_user":   entry.ByUser,
	})
	return nil
}

func (l *AuditLogger) failed(ctx context.Context, evt event.UserManipulated, err error) {
	if l.metrics != nil {
		l.metrics.AuditEntryFailed(evt.Action.String())
	}
	l.logger.Error(ctx, "Failed to log user manipulation", err, map[string]interface{}{
		"action":    evt.Action,
		"entity_id": evt.User.ID,
	})
}

// BuildEntry derives the audit row for an event:
//
//	create: original null,          new = user
//	update: original = Original,    new = user
//	delete: original = user,        new null
//
// by_user is the acting principal, or the subject itself when nobody is
// logged in (self registration).
func BuildEntry(evt event.UserManipulated, at time.Time) (*entity.AuditLogEntry, error) {
	entry := &entity.AuditLogEntry{
		Action:    evt.Action,
		EntityID:  evt.User.ID,
		ByUser:    strconv.FormatInt(evt.User.ID, 10),
		CreatedAt: at,
		UpdatedAt: at,
	}
	if evt.Actor != nil {
		entry.ByUser = strconv.FormatInt(evt.Actor.UserID, 10)
	}

	var err error
	switch evt.Action {
	case entity.ActionCreate:
		entry.NewValues, err = encode(evt.User)
	case entity.ActionUpdate:
		if evt.Original == nil {
			return nil, fmt.Errorf("update event for user %d carries no original values", evt.User.ID)
		}
		if entry.OriginalValues, err = encode(*evt.Original); err == nil {
			entry.NewValues, err = encode(evt.User)
		}
	case entity.ActionDelete:
		entry.OriginalValues, err = encode(evt.User)
	default:
		return nil, fmt.Errorf("unknown user manipulation %q", evt.Action)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func encode(s entity.UserSnapshot) (json.RawMessage, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode user snapshot: %w", err)
	}
	return b, nil
}
