package inbound

import (
	"context"
	"time"

	"github.com/fixora/accounts/domain/entity"
)

// Register
type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Update. ID is optional; without it the caller updates their own account.
type UpdateRequest struct {
	ID    *int64 `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// UserResponse is the public shape of a user.
type UserResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func NewUserResponse(u *entity.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

type UserUseCase interface {
	Register(ctx context.Context, actor *Principal, req RegisterRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Update(ctx context.Context, actor *Principal, req UpdateRequest) (*UserResponse, error)
	Delete(ctx context.Context, actor *Principal, id *int64) error
	Show(ctx context.Context, actor *Principal) (*UserResponse, error)
	Logout(ctx context.Context, actor *Principal) error
}
