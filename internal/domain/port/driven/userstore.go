package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/passvault/internal/domain/model"
)

// Sentinel errors returned by UserStore implementations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserStore defines the driven port for user persistence.
// Create returns ErrUserAlreadyExists if the email is already registered.
// FindByEmail returns (nil, nil) when no such user exists.
type UserStore interface {
	Create(ctx context.Context, user model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
