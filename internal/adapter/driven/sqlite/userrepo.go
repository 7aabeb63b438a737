package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ericfisherdev/passvault/internal/domain/model"
	"github.com/ericfisherdev/passvault/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.UserStore = (*UserRepo)(nil)

// UserRepo is the SQLite implementation of the UserStore port interface.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new UserRepo backed by the given DB.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new user. Returns ErrUserAlreadyExists if the email is
// already registered.
func (r *UserRepo) Create(ctx context.Context, user model.User) error {
	const query = `INSERT INTO users (email, password_hash) VALUES (?, ?)`

	_, err := r.db.Writer.ExecContext(ctx, query, user.Email, user.PasswordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("create user %s: %w", user.Email, driven.ErrUserAlreadyExists)
		}
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

// FindByEmail retrieves a user by email. Returns nil, nil if the user does
// not exist.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `SELECT email, password_hash FROM users WHERE email = ?`

	var user model.User
	err := r.db.Reader.QueryRowContext(ctx, query, email).Scan(&user.Email, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", email, err)
	}

	return &user, nil
}
