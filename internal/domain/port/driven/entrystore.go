package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/passvault/internal/domain/model"
)

// ErrEntryNotFound indicates a position that does not resolve to a row in
// the owner's rank-ordered entry sequence.
var ErrEntryNotFound = errors.New("entry not found")

// EntryStore defines the driven port for credential entry persistence.
//
// A "position" is a zero-based index into the owner's entries ordered by
// ascending order_rank (id breaks rank ties). Positions are not stable
// identifiers; implementations must resolve a position and apply the
// mutation within a single transaction so a concurrent write cannot slip
// between resolution and action.
//
// Position-taking mutations return ErrEntryNotFound when the position does
// not resolve. Create returns ErrUserNotFound when the owner does not exist.
type EntryStore interface {
	// Create inserts the entry, assigning it the next order_rank for its
	// owner (highest existing rank + 1, or 0 for the owner's first entry).
	Create(ctx context.Context, entry model.Entry) error

	// ListByOwner returns all of the owner's entries in rank order.
	ListByOwner(ctx context.Context, owner string) ([]model.Entry, error)

	// GetAt resolves a position to its row. Returns (nil, nil) when the
	// position is out of range.
	GetAt(ctx context.Context, owner string, position int) (*model.Entry, error)

	// UpdateAt rewrites name, account, secret token and url of the entry at
	// the given position. Rank and usage counter are untouched.
	UpdateAt(ctx context.Context, owner string, position int, name, account, secretToken, url string) error

	// DeleteAt removes the entry at the given position. Remaining ranks are
	// not renumbered.
	DeleteAt(ctx context.Context, owner string, position int) error

	// DeleteAll removes every entry owned by owner.
	DeleteAll(ctx context.Context, owner string) error

	// SwapAdjacent exchanges the order_rank values of the entries at
	// positions lower and lower+1.
	SwapAdjacent(ctx context.Context, owner string, lower int) error

	// IncrementUsageAt adds one to the usage counter of the entry at the
	// given position.
	IncrementUsageAt(ctx context.Context, owner string, position int) error

	// Search returns the owner's entries whose name, account or url contains
	// substring, case-insensitively, in rank order. An empty substring
	// matches everything.
	Search(ctx context.Context, owner, substring string) ([]model.Entry, error)
}
