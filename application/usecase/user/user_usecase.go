package user

import (
	"context"

	"github.com/fixora/accounts/application/event"
	"github.com/fixora/accounts/application/port/inbound"
	"github.com/fixora/accounts/application/port/outbound"
	"github.com/fixora/accounts/infrastructure/service/logger"
)

type UserUseCaseImpl struct {
	registerUseCase *RegisterUseCase
	loginUseCase    *LoginUseCase
	updateUseCase   *UpdateUseCase
	deleteUseCase   *DeleteUseCase
	showUseCase     *ShowUserUseCase
	logoutUseCase   *LogoutUseCase
}

type Dependencies struct {
	UserRepo        outbound.UserRepository
	PasswordService outbound.PasswordService
	TokenService    outbound.TokenService
	Revocations     outbound.TokenRevocationStore
	Transactor      outbound.Transactor
	Publisher       event.Publisher
	Logger          logger.Logger
}

func NewUserUseCase(deps Dependencies) inbound.UserUseCase {
	log := deps.Logger.WithFields(map[string]interface{}{"component": "user_usecase"})
	return &UserUseCaseImpl{
		registerUseCase: NewRegisterUseCase(deps.UserRepo, deps.PasswordService, deps.Transactor, deps.Publisher, log),
		loginUseCase:    NewLoginUseCase(deps.UserRepo, deps.TokenService, deps.PasswordService, log),
		updateUseCase:   NewUpdateUseCase(deps.UserRepo, deps.Transactor, deps.Publisher, log),
		deleteUseCase:   NewDeleteUseCase(deps.UserRepo, deps.Revocations, deps.Transactor, deps.Publisher, log),
		showUseCase:     NewShowUserUseCase(deps.UserRepo),
		logoutUseCase:   NewLogoutUseCase(deps.Revocations, log),
	}
}

func (uc *UserUseCaseImpl) Register(ctx context.Context, actor *inbound.Principal, req inbound.RegisterRequest) (*inbound.UserResponse, error) {
	user, err := uc.registerUseCase.Execute(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	return inbound.NewUserResponse(user), nil
}

func (uc *UserUseCaseImpl) Login(ctx context.Context, req inbound.LoginRequest) (*inbound.LoginResponse, error) {
	return uc.loginUseCase.Execute(ctx, req)
}

func (uc *UserUseCaseImpl) Update(ctx context.Context, actor *inbound.Principal, req inbound.UpdateRequest) (*inbound.UserResponse, error) {
	user, err := uc.updateUseCase.Execute(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	return inbound.NewUserResponse(user), nil
}

func (uc *UserUseCaseImpl) Delete(ctx context.Context, actor *inbound.Principal, id *int64) error {
	return uc.deleteUseCase.Execute(ctx, actor, id)
}

func (uc *UserUseCaseImpl) Show(ctx context.Context, actor *inbound.Principal) (*inbound.UserResponse, error) {
	user, err := uc.showUseCase.Execute(ctx, actor)
	if err != nil {
		return nil, err
	}
	return inbound.NewUserResponse(user), nil
}

func (uc *UserUseCaseImpl) Logout(ctx context.Context, actor *inbound.Principal) error {
	return uc.logoutUseCase.Execute(ctx, actor)
}
