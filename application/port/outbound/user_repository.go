package outbound

import (
	"context"
	"errors"

	"github.com/fixora/accounts/domain/entity"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserRepository reads and writes users. Soft-deleted users are invisible to
// every lookup.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	SoftDelete(ctx context.Context, id int64) error
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
}
