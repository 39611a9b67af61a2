package user

import (
	"context"
	"fmt"

	"github.com/fixora/accounts/application/event"
	"github.com/fixora/accounts/application/port/inbound"
	"github.com/fixora/accounts/application/port/outbound"
	"github.com/fixora/accounts/infrastructure/service/logger"
)

type DeleteUseCase struct {
	userRepo    outbound.UserRepository
	revocations outbound.TokenRevocationStore
	tx          outbound.Transactor
	publisher   event.Publisher
	logger      logger.Logger
}

func NewDeleteUseCase(
	userRepo outbound.UserRepository,
	revocations outbound.TokenRevocationStore,
	tx outbound.Transactor,
	publisher event.Publisher,
	logger logger.Logger,
) *DeleteUseCase {
	return &DeleteUseCase{
		userRepo:    userRepo,
		revocations: revocations,
		tx:          tx,
		publisher:   publisher,
		logger:      logger,
	}
}

// Execute deletes the user with the given id, or the caller's own account when
// id is nil. Deleting oneself logs the caller out first.
func (uc *DeleteUseCase) Execute(ctx context.Context, actor *inbound.Principal, id *int64) error {
	if id == nil && actor != nil {
		if err := uc.revocations.Revoke(ctx, actor.TokenID, actor.ExpiresAt); err != nil {
			return fmt.Errorf("failed to revoke access token: %w", err)
		}
	}

	var deletedID int64
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := resolveTarget(ctx, uc.userRepo, actor, id)
		if err != nil {
			return err
		}

		// Captured by value: the row is gone once SoftDelete returns.
		snapshot := user.Snapshot()

		if err := uc.userRepo.SoftDelete(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		deletedID = snapshot.ID
		return uc.publisher.Publish(ctx, event.UserDeleted(snapshot, actor))
	})
	if err != nil {
		return err
	}

	uc.logger.Info(ctx, "User deleted", map[string]interface{}{
		"user_id": deletedID,
	})
	return nil
}
