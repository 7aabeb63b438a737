// Package application contains the vault's services: authentication, entry
// management, and the Vault facade the presentation layer talks to.
package application

import (
	"context"

	"github.com/ericfisherdev/passvault/internal/crypto"
	"github.com/ericfisherdev/passvault/internal/domain/model"
	"github.com/ericfisherdev/passvault/internal/domain/port/driven"
)

// Vault composes the auth and entry services behind the single API the
// presentation layer consumes. Every entry operation is gated on a live
// session: with none, mutations return false and reads return nothing,
// never an error.
type Vault struct {
	auth    *AuthService
	entries *EntryService
}

// New wires a Vault from its stores and cipher.
func New(users driven.UserStore, entries driven.EntryStore, cipher *crypto.Cipher) *Vault {
	return &Vault{
		auth:    NewAuthService(users),
		entries: NewEntryService(entries, cipher),
	}
}

// Register creates a new user account.
func (v *Vault) Register(ctx context.Context, email, password string) (bool, string) {
	return v.auth.Register(ctx, email, password)
}

// Login authenticates and opens a session, replacing any prior one.
func (v *Vault) Login(ctx context.Context, email, password string) (bool, string) {
	return v.auth.Login(ctx, email, password)
}

// Logout closes the current session. Idempotent.
func (v *Vault) Logout() {
	v.auth.Logout()
}

// CurrentUser returns the email of the logged-in user, or "" when logged out.
func (v *Vault) CurrentUser() string {
	if s := v.auth.Current(); s != nil {
		return s.Email
	}
	return ""
}

// AddEntry stores a new entry for the logged-in user.
func (v *Vault) AddEntry(ctx context.Context, name, account, secret, url string) bool {
	s := v.auth.Current()
	if s == nil {
		return false
	}
	return v.entries.Add(ctx, s.Email, name, account, secret, url)
}

// ListEntries returns the logged-in user's entries in custom order.
func (v *Vault) ListEntries(ctx context.Context) []EntryView {
	s := v.auth.Current()
	if s == nil {
		return nil
	}
	return v.entries.List(ctx, s.Email)
}

// UpdateEntry rewrites the entry at position.
func (v *Vault) UpdateEntry(ctx context.Context, position int, name, account, secret, url string) bool {
	s := v.auth.Current()
	if s == nil {
		return false
	}
	return v.entries.Update(ctx, s.Email, position, name, account, secret, url)
}

// DeleteEntry removes the entry at position.
func (v *Vault) DeleteEntry(ctx context.Context, position int) bool {
	s := v.auth.Current()
	if s == nil {
		return false
	}
	return v.entries.Delete(ctx, s.Email, position)
}

// DeleteAll removes every entry of the logged-in user.
func (v *Vault) DeleteAll(ctx context.Context) bool {
	s := v.auth.Current()
	if s == nil {
		return false
	}
	return v.entries.DeleteAll(ctx, s.Email)
}

// MoveUp moves the entry at position one slot earlier in custom order.
func (v *Vault) MoveUp(ctx context.Context, position int) bool {
	s := v.auth.Current()
	if s == nil {
		return false
	}
	return v.entries.MoveUp(ctx, s.Email, position)
}

// MoveDown moves the entry at position one slot later in custom order.
func (v *Vault) MoveDown(ctx context.Context, position int) bool {
	s := v.auth.Current()
	if s == nil {
		return false
	}
	return v.entries.MoveDown(ctx, s.Email, position)
}

// IncrementUsage bumps the usage counter of the entry at position.
func (v *Vault) IncrementUsage(ctx context.Context, position int) {
	s := v.auth.Current()
	if s == nil {
		return
	}
	v.entries.IncrementUsage(ctx, s.Email, position)
}

// Query returns the logged-in user's entries filtered by search and sorted
// by mode.
func (v *Vault) Query(ctx context.Context, mode model.SortMode, search string) []EntryView {
	s := v.auth.Current()
	if s == nil {
		return nil
	}
	return v.entries.Query(ctx, s.Email, mode, search)
}
