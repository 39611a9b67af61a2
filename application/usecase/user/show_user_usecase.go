package user

import (
	"context"

	"github.com/fixora/accounts/application/port/inbound"
	"github.com/fixora/accounts/application/port/outbound"
	"github.com/fixora/accounts/domain/entity"
	apperror "github.com/fixora/accounts/pkg/error"
)

type ShowUserUseCase struct {
	userRepo outbound.UserRepository
}

func NewShowUserUseCase(userRepo outbound.UserRepository) *ShowUserUseCase {
	return &ShowUserUseCase{
		userRepo: userRepo,
	}
}

func (uc *ShowUserUseCase) Execute(ctx context.Context, actor *inbound.Principal) (*entity.User, error) {
	if actor == nil {
		return nil, apperror.NewUnauthorized("no logged on user")
	}
	return resolveTarget(ctx, uc.userRepo, actor, nil)
}
