package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/fixora/accounts/application/port/inbound"
	"github.com/fixora/accounts/application/port/outbound"
	"github.com/fixora/accounts/infrastructure/service/logger"
	apperror "github.com/fixora/accounts/pkg/error"
	"github.com/fixora/accounts/pkg/validator"
)

const invalidCredentialsMessage = "invalid email or password"

type LoginUseCase struct {
	userRepo        outbound.UserRepository
	tokenService    outbound.TokenService
	passwordService outbound.PasswordService
	logger          logger.Logger
}

func NewLoginUseCase(
	userRepo outbound.UserRepository,
	tokenService outbound.TokenService,
	passwordService outbound.PasswordService,
	logger logger.Logger,
) *LoginUseCase {
	return &LoginUseCase{
		userRepo:        userRepo,
		tokenService:    tokenService,
		passwordService: passwordService,
		logger:          logger,
	}
}

func (uc *LoginUseCase) Execute(ctx context.Context, req inbound.LoginRequest) (*inbound.LoginResponse, error) {
	req.Email = validator.NormalizeEmail(req.Email)

	errs := validator.Errors{}
	errs.Email("email", req.Email)
	errs.Require("password", req.Password)
	if !errs.Empty() {
		return nil, apperror.NewValidation(errs)
	}

	user, err := uc.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			logger.LogAuthEvent(ctx, uc.logger, "login_failed_user_not_found", 0, false, nil)
			return nil, apperror.NewUnauthorized(invalidCredentialsMessage)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive {
		logger.LogAuthEvent(ctx, uc.logger, "login_failed_inactive", user.ID, false, nil)
		return nil, apperror.NewUnauthorized(invalidCredentialsMessage)
	}

	valid, err := uc.passwordService.VerifyPassword(req.Password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("password verification failed: %w", err)
	}
	if !valid {
		logger.LogAuthEvent(ctx, uc.logger, "login_failed_invalid_password", user.ID, false, nil)
		return nil, apperror.NewUnauthorized(invalidCredentialsMessage)
	}

	token, _, err := uc.tokenService.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	logger.LogAuthEvent(ctx, uc.logger, "login", user.ID, true, nil)
	return &inbound.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(uc.tokenService.AccessTokenTTL().Seconds()),
	}, nil
}
