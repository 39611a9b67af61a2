package entity

import (
	"time"
)

type User struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Password  string     `json:"-"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-"`
}

// UserSnapshot is the field/value view of a user recorded in the audit log.
// The password hash is never part of it.
type UserSnapshot struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewUser(name, email, password string) *User {
	now := Now()
	return &User{
		Name:      name,
		Email:     email,
		Password:  password,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Snapshot copies the persisted fields by value.
func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (u *User) UpdateProfile(name, email string) {
	u.Name = name
	u.Email = email
	u.UpdatedAt = Now()
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// Now returns the current time at the precision PostgreSQL stores, so that a
// snapshot taken before a write equals the row read back afterwards.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
