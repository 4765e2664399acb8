package directory

import (
	"context"
	"errors"

	"userdesk.org/internal/auth"
)

var (
	// ErrNotFound signals that the user does not exist.
	ErrNotFound = errors.New("directory: user not found")
	// ErrConflict signals that the email is already registered.
	ErrConflict = errors.New("directory: email already registered")
)

// UserUpdate carries the fields to mutate; nil pointers are left untouched.
// A pointer to the empty string clears the optional phone field.
type UserUpdate struct {
	Email        *string
	Name         *string
	Phone        *string
	Role         *auth.Role
	PasswordHash *string
}

// Store is the persistence contract the auth core depends on. Implementations
// must enforce email uniqueness atomically at write time; callers treat a
// late ErrConflict as authoritative even when their own pre-check passed.
type Store interface {
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]User, error)
}
