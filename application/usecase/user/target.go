package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/fixora/accounts/application/port/inbound"
	"github.com/fixora/accounts/application/port/outbound"
	"github.com/fixora/accounts/domain/entity"
	apperror "github.com/fixora/accounts/pkg/error"
)

// resolveTarget picks the user an operation applies to: the explicit id when
// given, otherwise the authenticated caller.
func resolveTarget(ctx context.Context, repo outbound.UserRepository, actor *inbound.Principal, id *int64) (*entity.User, error) {
	var targetID int64
	switch {
	case id != nil:
		targetID = *id
	case actor != nil:
		targetID = actor.UserID
	default:
		return nil, apperror.NewNotFound("user not found")
	}

	user, err := repo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			return nil, apperror.NewNotFound("user not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
