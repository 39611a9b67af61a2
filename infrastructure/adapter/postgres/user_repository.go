package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/fixora/accounts/application/port/outbound"
	"github.com/fixora/accounts/domain/entity"
)

const uniqueViolation = "23505"

const userColumns = `id, name, email, password, is_active, created_at, updated_at, deleted_at`

type UserRepositoryAdapter struct {
	db *sql.DB
}

func NewUserRepositoryAdapter(db *sql.DB) outbound.UserRepository {
	return &UserRepositoryAdapter{
		db: db,
	}
}

func (r *UserRepositoryAdapter) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`

	user, err := scanUser(execer(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

func (r *UserRepositoryAdapter) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if email == "" {
		return nil, fmt.Errorf("email cannot be empty")
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1 AND deleted_at IS NULL
		LIMIT 1
	`

	user, err := scanUser(execer(ctx, r.db).QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepositoryAdapter) Create(ctx context.Context, user *entity.User) error {
	if user == nil {
		return fmt.Errorf("user cannot be nil")
	}
	if user.Email == "" || user.Password == "" {
		return fmt.Errorf("user email and password are required")
	}

	query := `
		INSERT INTO users (name, email, password, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := execer(ctx, r.db).QueryRowContext(ctx, query,
		user.Name,
		user.Email,
		user.Password,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return outbound.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepositoryAdapter) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, is_active = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := execer(ctx, r.db).ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.IsActive,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return outbound.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireRow(result)
}

func (r *UserRepositoryAdapter) SoftDelete(ctx context.Context, id int64) error {
	query := `
		UPDATE users
		SET deleted_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := execer(ctx, r.db).ExecContext(ctx, query, id, entity.Now())
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireRow(result)
}

func (r *UserRepositoryAdapter) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM users
			WHERE email = $1 AND id <> $2 AND deleted_at IS NULL
		)
	`

	var exists bool
	if err := execer(ctx, r.db).QueryRowContext(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

func scanUser(row *sql.Row) (*entity.User, error) {
	var user entity.User
	var deletedAt sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	if deletedAt.Valid {
		t := deletedAt.Time.UTC()
		user.DeletedAt = &t
	}
	return &user, nil
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return outbound.ErrUserNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
