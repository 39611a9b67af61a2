package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fixora/accounts/application/port/inbound"
)

type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) Register(ctx context.Context, actor *inbound.Principal, req inbound.RegisterRequest) (*inbound.UserResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.UserResponse), args.Error(1)
}

func (m *MockUserUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*inbound.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.LoginResponse), args.Error(1)
}

func (m *MockUserUseCase) Update(ctx context.Context, actor *inbound.Principal, req inbound.UpdateRequest) (*inbound.UserResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.UserResponse), args.Error(1)
}

func (m *MockUserUseCase) Delete(ctx context.Context, actor *inbound.Principal, id *int64) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockUserUseCase) Show(ctx context.Context, actor *inbound.Principal) (*inbound.UserResponse, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.UserResponse), args.Error(1)
}

func (m *MockUserUseCase) Logout(ctx context.Context, actor *inbound.Principal) error {
	args := m.Called(ctx, actor)
	return args.Error(0)
}

type MockAuditLogUseCase struct {
	mock.Mock
}

func (m *MockAuditLogUseCase) View(ctx context.Context, query inbound.AuditLogQuery) ([]inbound.AuditLogView, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inbound.AuditLogView), args.Error(1)
}
