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

const emailTakenMessage = "The email has already been taken."

type RegisterUseCase struct {
	userRepo    outbound.UserRepository
	passwordSvc outbound.PasswordService
	tx          outbound.Transactor
	publisher   event.Publisher
	logger      logger.Logger
}

func NewRegisterUseCase(
	userRepo outbound.UserRepository,
	passwordSvc outbound.PasswordService,
	tx outbound.Transactor,
	publisher event.Publisher,
	logger logger.Logger,
) *RegisterUseCase {
	return &RegisterUseCase{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		tx:          tx,
		publisher:   publisher,
		logger:      logger,
	}
}

func (uc *RegisterUseCase) Execute(ctx context.Context, actor *inbound.Principal, req inbound.RegisterRequest) (*entity.User, error) {
	req.Email = validator.NormalizeEmail(req.Email)
	if err := uc.validate(ctx, req); err != nil {
		return nil, err
	}

	hashedPassword, err := uc.passwordSvc.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := entity.NewUser(req.Name, req.Email, hashedPassword)

	err = uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := uc.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, outbound.ErrUserAlreadyExists) {
				return apperror.NewValidation(map[string][]string{"email": {emailTakenMessage}})
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return uc.publisher.Publish(ctx, event.UserCreated(user.Snapshot(), actor))
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info(ctx, "User registered", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, nil
}

func (uc *RegisterUseCase) validate(ctx context.Context, req inbound.RegisterRequest) error {
	errs := validator.Errors{}
	errs.Require("name", req.Name)
	errs.Email("email", req.Email)
	if errs.Require("password", req.Password) && errs.Require("password_confirmation", req.PasswordConfirmation) {
		if req.Password != req.PasswordConfirmation {
			errs.Add("password_confirmation", "The password confirmation and password must match.")
		}
	}

	if _, bad := errs["email"]; !bad {
		exists, err := uc.userRepo.ExistsByEmail(ctx, req.Email, 0)
		if err != nil {
			return fmt.Errorf("failed to check email existence: %w", err)
		}
		if exists {
			errs.Add("email", emailTakenMessage)
		}
	}

	if !errs.Empty() {
		return apperror.NewValidation(errs)
	}
	return nil
}
