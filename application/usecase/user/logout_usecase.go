package user

import (
	"context"
	"fmt"

	"github.com/fixora/accounts/application/port/inbound"
	"github.com/fixora/accounts/application/port/outbound"
	"github.com/fixora/accounts/infrastructure/service/logger"
	apperror "github.com/fixora/accounts/pkg/error"
)

type LogoutUseCase struct {
	revocations outbound.TokenRevocationStore
	logger      logger.Logger
}

func NewLogoutUseCase(revocations outbound.TokenRevocationStore, logger logger.Logger) *LogoutUseCase {
	return &LogoutUseCase{
		revocations: revocations,
		logger:      logger,
	}
}

func (uc *LogoutUseCase) Execute(ctx context.Context, actor *inbound.Principal) error {
	if actor == nil {
		return apperror.NewUnauthorized("no logged on user")
	}
	if err := uc.revocations.Revoke(ctx, actor.TokenID, actor.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke access token: %w", err)
	}
	logger.LogAuthEvent(ctx, uc.logger, "logout", actor.UserID, true, nil)
	return nil
}
