package auditlog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fixora/accounts/application/port/inbound"
	"github.com/fixora/accounts/application/port/outbound"
	"github.com/fixora/accounts/domain/entity"
)

// DeletedUserName is shown for an acting user that no longer exists.
const DeletedUserName = "[Deleted]"

// Presenter renders audit log entries. The acting user's name is looked up at
// read time, so renames show up and removed users render as DeletedUserName.
type Presenter struct {
	users outbound.UserRepository
}

func NewPresenter(users outbound.UserRepository) *Presenter {
	return &Presenter{users: users}
}

func (p *Presenter) Present(ctx context.Context, entry *entity.AuditLogEntry) (inbound.AuditLogView, error) {
	name, err := p.actorName(ctx, entry.ByUser)
	if err != nil {
		return inbound.AuditLogView{}, err
	}
	return inbound.AuditLogView{
		ID:              entry.ID,
		Action:          entry.Action.String(),
		ManipulatedUser: entry.EntityID,
		OriginalValues:  entry.OriginalValues,
		NewValues:       entry.NewValues,
		ActionTakenByUser: inbound.ActingUser{
			ID:   entry.ByUser,
			Name: name,
		},
		ActionTakenAt: FormatDay(entry.CreatedAt),
	}, nil
}

func (p *Presenter) actorName(ctx context.Context, byUser string) (string, error) {
	id, err := strconv.ParseInt(byUser, 10, 64)
	if err != nil {
		return DeletedUserName, nil
	}
	user, err := p.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			return DeletedUserName, nil
		}
		return "", fmt.Errorf("look up acting user %s: %w", byUser, err)
	}
	return user.Name, nil
}

// FormatDay renders t as "<ordinal day> <month> <year>", e.g. "21st September 2020".
func FormatDay(t time.Time) string {
	return fmt.Sprintf("%s %s", Ordinal(t.Day()), t.Format("January 2006"))
}

// Ordinal returns n with its English suffix: 1st, 2nd, 3rd, 4th, 11th, 22nd.
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}
