package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/fixora/accounts/application/event"
	"github.com/fixora/accounts/application/port/inbound"
	"github.com/fixora/accounts/application/port/outbound"
	"github.com/fixora/accounts/domain/entity"
	"github.com/fixora/accounts/infrastructure/service/logger"
	apperror "github.com/fixora/accounts/pkg/error"
	"github.com/fixora/accounts/pkg/validator"
)

type UpdateUseCase struct {
	userRepo  outbound.UserRepository
	tx        outbound.Transactor
	publisher event.Publisher
	logger    logger.Logger
}

func NewUpdateUseCase(
	userRepo outbound.UserRepository,
	tx outbound.Transactor,
	publisher event.Publisher,
	logger logger.Logger,
) *UpdateUseCase {
	return &UpdateUseCase{
		userRepo:  userRepo,
		tx:        tx,
		publisher: publisher,
		logger:    logger,
	}
}

func (uc *UpdateUseCase) Execute(ctx context.Context, actor *inbound.Principal, req inbound.UpdateRequest) (*entity.User, error) {
	req.Email = validator.NormalizeEmail(req.Email)

	errs := validator.Errors{}
	errs.Require("name", req.Name)
	errs.Email("email", req.Email)
	if !errs.Empty() {
		return nil, apperror.NewValidation(errs)
	}

	var updated *entity.User
	err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := resolveTarget(ctx, uc.userRepo, actor, req.ID)
		if err != nil {
			return err
		}

		taken, err := uc.userRepo.ExistsByEmail(ctx, req.Email, user.ID)
		if err != nil {
			return fmt.Errorf("failed to check email existence: %w", err)
		}
		if taken {
			return apperror.NewValidation(map[string][]string{"email": {emailTakenMessage}})
		}

		// The snapshot must be taken before the entity is touched.
		original := user.Snapshot()
		user.UpdateProfile(req.Name, req.Email)

		if err := uc.userRepo.Update(ctx, user); err != nil {
			if errors.Is(err, outbound.ErrUserAlreadyExists) {
				return apperror.NewValidation(map[string][]string{"email": {emailTakenMessage}})
			}
			return fmt.Errorf("failed to update user: %w", err)
		}
		if err := uc.publisher.Publish(ctx, event.UserUpdated(user.Snapshot(), original, actor)); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info(ctx, "User updated", map[string]interface{}{
		"user_id": updated.ID,
	})
	return updated, nil
}
