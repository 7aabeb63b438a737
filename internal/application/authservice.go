package application

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/passvault/internal/domain/model"
	"github.com/ericfisherdev/passvault/internal/domain/port/driven"
)

// Session identifies a logged-in vault owner. It is created by Login and
// held by the AuthService until Logout or a subsequent Login replaces it;
// there is never more than one live session per process.
type Session struct {
	Email string
}

// AuthService handles registration, login and logout. All failures are
// converted to a false result plus a human-readable message at this
// boundary; nothing escapes as an error.
//
// The login password is stored as a plain SHA-256 digest. That is a fast,
// non-stretched hash, deliberately cheaper than the vault key derivation:
// it gates access to the entry list, not to the secret plaintexts, which
// stay protected by the master passphrase.
type AuthService struct {
	users   driven.UserStore
	session *Session
	logger  *slog.Logger
}

// NewAuthService creates a new AuthService backed by the given user store.
func NewAuthService(users driven.UserStore) *AuthService {
	return &AuthService{
		users:  users,
		logger: slog.Default(),
	}
}

// Register creates a new user. The email is trimmed before any check;
// empty email or password, an email over 255 characters, and an already
// registered email all fail with a message and write nothing.
func (s *AuthService) Register(ctx context.Context, email, password string) (bool, string) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, "Email cannot be empty"
	}
	if password == "" {
		return false, "Password cannot be empty"
	}
	if len(email) > model.MaxEmailLen {
		return false, "Email is too long"
	}

	err := s.users.Create(ctx, model.User{
		Email:        email,
		PasswordHash: hashPassword(password),
	})
	if errors.Is(err, driven.ErrUserAlreadyExists) {
		return false, "User already exists"
	}
	if err != nil {
		s.logger.Warn("registration failed", "email", email, "error", err)
		return false, "Registration failed"
	}

	return true, "Registration successful"
}

// Login authenticates the user and, on success, replaces any prior session.
// A failed login leaves the current session untouched.
func (s *AuthService) Login(ctx context.Context, email, password string) (bool, string) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, "Email cannot be empty"
	}
	if password == "" {
		return false, "Password cannot be empty"
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("login lookup failed", "email", email, "error", err)
		return false, "Login failed"
	}
	if user == nil {
		return false, "User not found"
	}

	if !hashEqual(user.PasswordHash, hashPassword(password)) {
		return false, "Incorrect password"
	}

	s.session = &Session{Email: email}
	return true, "Login successful"
}

// Logout clears the current session. Idempotent.
func (s *AuthService) Logout() {
	s.session = nil
}

// Current returns the live session, or nil when logged out.
func (s *AuthService) Current() *Session {
	return s.session
}

// hashPassword returns the hex SHA-256 digest of password.
func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// hashEqual compares two digests in constant time.
func hashEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
