package application

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/ericfisherdev/passvault/internal/crypto"
	"github.com/ericfisherdev/passvault/internal/domain/model"
	"github.com/ericfisherdev/passvault/internal/domain/port/driven"
)

// EntryView is a decrypted read model of a stored entry, as handed to the
// presentation layer. Secret is the plaintext, never the stored token.
// SecretUnreadable marks an entry whose token failed authentication, so
// callers can tell a genuinely empty secret from a corrupt one.
type EntryView struct {
	Name             string
	Account          string
	Secret           string
	URL              string
	OrderRank        int64
	UsageCounter     int64
	SecretUnreadable bool
}

// EntryService implements the owner-scoped entry operations: validated
// CRUD, manual reordering, search, sort, and usage tracking. It is the only
// place secrets are encrypted or decrypted.
//
// Every failure (validation, storage, decryption) is absorbed at this
// boundary and reported as a false (or empty) result with a log line;
// callers never see an error value.
type EntryService struct {
	entries driven.EntryStore
	cipher  *crypto.Cipher
	logger  *slog.Logger
}

// NewEntryService creates a new EntryService.
func NewEntryService(entries driven.EntryStore, cipher *crypto.Cipher) *EntryService {
	return &EntryService{
		entries: entries,
		cipher:  cipher,
		logger:  slog.Default(),
	}
}

// Add validates, encrypts and stores a new entry for owner. The new entry
// receives the highest order rank, placing it last in custom order.
func (s *EntryService) Add(ctx context.Context, owner, name, account, secret, url string) bool {
	fields, ok := s.validate(name, account, secret, url)
	if !ok {
		return false
	}

	token, err := s.cipher.Encrypt(secret)
	if err != nil {
		s.logger.Warn("encrypt secret failed", "owner", owner, "error", err)
		return false
	}

	err = s.entries.Create(ctx, model.Entry{
		Owner:       owner,
		Name:        fields.name,
		Account:     fields.account,
		SecretToken: token,
		URL:         fields.url,
	})
	if err != nil {
		s.logger.Warn("add entry failed", "owner", owner, "error", err)
		return false
	}
	return true
}

// List returns all of owner's entries in custom order with decrypted
// secrets. A token that fails to decrypt does not fail the listing: its
// view carries an empty secret and SecretUnreadable set.
func (s *EntryService) List(ctx context.Context, owner string) []EntryView {
	entries, err := s.entries.ListByOwner(ctx, owner)
	if err != nil {
		s.logger.Warn("list entries failed", "owner", owner, "error", err)
		return nil
	}
	return s.toViews(entries)
}

// Update re-validates and rewrites the entry at position, re-encrypting the
// secret. An unresolvable position fails with no side effects.
func (s *EntryService) Update(ctx context.Context, owner string, position int, name, account, secret, url string) bool {
	fields, ok := s.validate(name, account, secret, url)
	if !ok {
		return false
	}

	token, err := s.cipher.Encrypt(secret)
	if err != nil {
		s.logger.Warn("encrypt secret failed", "owner", owner, "error", err)
		return false
	}

	err = s.entries.UpdateAt(ctx, owner, position, fields.name, fields.account, token, fields.url)
	if err != nil {
		if !errors.Is(err, driven.ErrEntryNotFound) {
			s.logger.Warn("update entry failed", "owner", owner, "position", position, "error", err)
		}
		return false
	}
	return true
}

// Delete removes the entry at position. Surviving entries keep their ranks.
func (s *EntryService) Delete(ctx context.Context, owner string, position int) bool {
	err := s.entries.DeleteAt(ctx, owner, position)
	if err != nil {
		if !errors.Is(err, driven.ErrEntryNotFound) {
			s.logger.Warn("delete entry failed", "owner", owner, "position", position, "error", err)
		}
		return false
	}
	return true
}

// DeleteAll removes every entry owned by owner.
func (s *EntryService) DeleteAll(ctx context.Context, owner string) bool {
	if err := s.entries.DeleteAll(ctx, owner); err != nil {
		s.logger.Warn("delete all entries failed", "owner", owner, "error", err)
		return false
	}
	return true
}

// MoveUp swaps the entry at position with its predecessor. MoveUp(0) and
// unresolvable positions are no-ops returning false.
func (s *EntryService) MoveUp(ctx context.Context, owner string, position int) bool {
	if position <= 0 {
		return false
	}
	return s.swap(ctx, owner, position-1)
}

// MoveDown swaps the entry at position with its successor. Moving the last
// entry down, and unresolvable positions, are no-ops returning false.
func (s *EntryService) MoveDown(ctx context.Context, owner string, position int) bool {
	if position < 0 {
		return false
	}
	return s.swap(ctx, owner, position)
}

func (s *EntryService) swap(ctx context.Context, owner string, lower int) bool {
	err := s.entries.SwapAdjacent(ctx, owner, lower)
	if err != nil {
		if !errors.Is(err, driven.ErrEntryNotFound) {
			s.logger.Warn("swap entries failed", "owner", owner, "position", lower, "error", err)
		}
		return false
	}
	return true
}

// IncrementUsage bumps the usage counter of the entry at position. An
// unresolvable position is a silent no-op.
func (s *EntryService) IncrementUsage(ctx context.Context, owner string, position int) {
	err := s.entries.IncrementUsageAt(ctx, owner, position)
	if err != nil && !errors.Is(err, driven.ErrEntryNotFound) {
		s.logger.Warn("increment usage failed", "owner", owner, "position", position, "error", err)
	}
}

// Query filters owner's entries by a case-insensitive substring over name,
// account and url (empty search matches everything), then sorts them by
// mode. Entry id is the secondary sort key in every mode, so equal names,
// counters and ranks still order deterministically.
func (s *EntryService) Query(ctx context.Context, owner string, mode model.SortMode, search string) []EntryView {
	entries, err := s.entries.Search(ctx, owner, search)
	if err != nil {
		s.logger.Warn("query entries failed", "owner", owner, "error", err)
		return nil
	}

	switch mode {
	case model.SortAlphabeticalAsc:
		sort.Slice(entries, func(i, j int) bool {
			a, b := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
			if a != b {
				return a < b
			}
			return entries[i].ID < entries[j].ID
		})
	case model.SortAlphabeticalDesc:
		sort.Slice(entries, func(i, j int) bool {
			a, b := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
			if a != b {
				return a > b
			}
			return entries[i].ID < entries[j].ID
		})
	case model.SortFrequentlyUsed:
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].UsageCounter != entries[j].UsageCounter {
				return entries[i].UsageCounter > entries[j].UsageCounter
			}
			return entries[i].ID < entries[j].ID
		})
	default:
		// SortCustom: the store already returns rank order with id tie-break.
	}

	return s.toViews(entries)
}

// toViews decrypts entries into read models. Decryption failures are
// contained per entry.
func (s *EntryService) toViews(entries []model.Entry) []EntryView {
	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		view := EntryView{
			Name:         e.Name,
			Account:      e.Account,
			URL:          e.URL,
			OrderRank:    e.OrderRank,
			UsageCounter: e.UsageCounter,
		}

		secret, err := s.cipher.Decrypt(e.SecretToken)
		if err != nil {
			s.logger.Warn("secret unreadable", "owner", e.Owner, "entry", e.Name, "error", err)
			view.SecretUnreadable = true
		} else {
			view.Secret = secret
		}

		views = append(views, view)
	}
	return views
}

// entryFields holds validated, trimmed input. The secret is checked but
// never trimmed; leading and trailing whitespace in a secret is meaningful.
type entryFields struct {
	name    string
	account string
	url     string
}

func (s *EntryService) validate(name, account, secret, url string) (entryFields, bool) {
	name = strings.TrimSpace(name)
	account = strings.TrimSpace(account)
	url = strings.TrimSpace(url)

	switch {
	case name == "":
		s.logger.Warn("entry rejected", "reason", "empty name")
	case account == "":
		s.logger.Warn("entry rejected", "reason", "empty account")
	case secret == "":
		s.logger.Warn("entry rejected", "reason", "empty secret")
	case len(name) > model.MaxNameLen:
		s.logger.Warn("entry rejected", "reason", "name too long")
	case len(account) > model.MaxAccountLen:
		s.logger.Warn("entry rejected", "reason", "account too long")
	case len(secret) > model.MaxSecretLen:
		s.logger.Warn("entry rejected", "reason", "secret too long")
	case len(url) > model.MaxURLLen:
		s.logger.Warn("entry rejected", "reason", "url too long")
	default:
		return entryFields{name: name, account: account, url: url}, true
	}

	return entryFields{}, false
}
