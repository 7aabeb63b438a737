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
var _ driven.EntryStore = (*EntryRepo)(nil)

// rankOrder is the canonical entry ordering: ascending order_rank with id as
// the deterministic tie-break. Every position in this package is an offset
// into this ordering.
const rankOrder = `ORDER BY order_rank, id`

// EntryRepo is the SQLite implementation of the EntryStore port interface.
//
// Every position-taking mutation resolves the position and applies the write
// inside one transaction on the single writer connection, so no concurrent
// write can invalidate a resolved row between resolution and action.
type EntryRepo struct {
	db *DB
}

// NewEntryRepo creates a new EntryRepo backed by the given DB.
func NewEntryRepo(db *DB) *EntryRepo {
	return &EntryRepo{db: db}
}

// Create inserts a new entry, assigning it the next order_rank for its owner
// in the same statement. Returns ErrUserNotFound if the owner does not exist.
func (r *EntryRepo) Create(ctx context.Context, entry model.Entry) error {
	const query = `
		INSERT INTO entries (owner, name, account, secret_token, url, order_rank, usage_counter)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(order_rank), -1) + 1 FROM entries WHERE owner = ?), 0)`

	_, err := r.db.Writer.ExecContext(ctx, query,
		entry.Owner, entry.Name, entry.Account, entry.SecretToken, entry.URL, entry.Owner)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint") {
			return fmt.Errorf("create entry for %s: %w", entry.Owner, driven.ErrUserNotFound)
		}
		return fmt.Errorf("create entry for %s: %w", entry.Owner, err)
	}

	return nil
}

// ListByOwner returns all of the owner's entries in rank order.
func (r *EntryRepo) ListByOwner(ctx context.Context, owner string) ([]model.Entry, error) {
	const query = `
		SELECT id, owner, name, account, secret_token, url, order_rank, usage_counter
		FROM entries WHERE owner = ? ` + rankOrder

	rows, err := r.db.Reader.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// GetAt resolves a zero-based position in the owner's rank-ordered sequence
// to its row. Returns nil, nil if the position is out of range.
func (r *EntryRepo) GetAt(ctx context.Context, owner string, position int) (*model.Entry, error) {
	if position < 0 {
		return nil, nil
	}

	const query = `
		SELECT id, owner, name, account, secret_token, url, order_rank, usage_counter
		FROM entries WHERE owner = ? ` + rankOrder + ` LIMIT 1 OFFSET ?`

	entry, err := scanEntry(r.db.Reader.QueryRowContext(ctx, query, owner, position))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry at %d: %w", position, err)
	}

	return entry, nil
}

// UpdateAt rewrites the mutable fields of the entry at the given position.
// Rank and usage counter are untouched. Returns ErrEntryNotFound if the
// position does not resolve.
func (r *EntryRepo) UpdateAt(ctx context.Context, owner string, position int, name, account, secretToken, url string) error {
	return r.withTx(ctx, fmt.Sprintf("update entry at %d", position), func(tx *sql.Tx) error {
		id, err := resolveID(ctx, tx, owner, position)
		if err != nil {
			return err
		}

		const query = `UPDATE entries SET name = ?, account = ?, secret_token = ?, url = ? WHERE id = ?`
		_, err = tx.ExecContext(ctx, query, name, account, secretToken, url, id)
		return err
	})
}

// DeleteAt removes the entry at the given position. Remaining ranks keep
// their gaps. Returns ErrEntryNotFound if the position does not resolve.
func (r *EntryRepo) DeleteAt(ctx context.Context, owner string, position int) error {
	return r.withTx(ctx, fmt.Sprintf("delete entry at %d", position), func(tx *sql.Tx) error {
		id, err := resolveID(ctx, tx, owner, position)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
		return err
	})
}

// DeleteAll removes every entry owned by owner.
func (r *EntryRepo) DeleteAll(ctx context.Context, owner string) error {
	_, err := r.db.Writer.ExecContext(ctx, `DELETE FROM entries WHERE owner = ?`, owner)
	if err != nil {
		return fmt.Errorf("delete all entries for %s: %w", owner, err)
	}
	return nil
}

// SwapAdjacent exchanges the order_rank values of the entries at positions
// lower and lower+1. Returns ErrEntryNotFound unless both positions resolve.
func (r *EntryRepo) SwapAdjacent(ctx context.Context, owner string, lower int) error {
	if lower < 0 {
		return fmt.Errorf("swap entries at %d: %w", lower, driven.ErrEntryNotFound)
	}

	return r.withTx(ctx, fmt.Sprintf("swap entries at %d", lower), func(tx *sql.Tx) error {
		const query = `SELECT id, order_rank FROM entries WHERE owner = ? ` + rankOrder + ` LIMIT 2 OFFSET ?`

		rows, err := tx.QueryContext(ctx, query, owner, lower)
		if err != nil {
			return err
		}
		defer rows.Close()

		var ids, ranks []int64
		for rows.Next() {
			var id, rank int64
			if err := rows.Scan(&id, &rank); err != nil {
				return err
			}
			ids = append(ids, id)
			ranks = append(ranks, rank)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		if len(ids) < 2 {
			return driven.ErrEntryNotFound
		}

		const update = `UPDATE entries SET order_rank = ? WHERE id = ?`
		if _, err := tx.ExecContext(ctx, update, ranks[1], ids[0]); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, update, ranks[0], ids[1])
		return err
	})
}

// IncrementUsageAt adds one to the usage counter of the entry at the given
// position. Returns ErrEntryNotFound if the position does not resolve.
func (r *EntryRepo) IncrementUsageAt(ctx context.Context, owner string, position int) error {
	return r.withTx(ctx, fmt.Sprintf("increment usage at %d", position), func(tx *sql.Tx) error {
		id, err := resolveID(ctx, tx, owner, position)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `UPDATE entries SET usage_counter = usage_counter + 1 WHERE id = ?`, id)
		return err
	})
}

// Search returns the owner's entries whose name, account or url contains
// substring, case-insensitively, in rank order. LIKE wildcards in the
// substring are escaped so they match literally.
func (r *EntryRepo) Search(ctx context.Context, owner, substring string) ([]model.Entry, error) {
	if substring == "" {
		return r.ListByOwner(ctx, owner)
	}

	const query = `
		SELECT id, owner, name, account, secret_token, url, order_rank, usage_counter
		FROM entries
		WHERE owner = ?
		  AND (name LIKE ? ESCAPE '\' OR account LIKE ? ESCAPE '\' OR url LIKE ? ESCAPE '\')
		` + rankOrder

	pattern := "%" + escapeLike(substring) + "%"
	rows, err := r.db.Reader.QueryContext(ctx, query, owner, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// withTx runs fn inside a transaction on the writer connection, rolling back
// on error and committing otherwise. op labels the operation in wrapped
// errors; sentinel errors pass through unwrapped for errors.Is checks.
func (r *EntryRepo) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		if errors.Is(err, driven.ErrEntryNotFound) {
			return fmt.Errorf("%s: %w", op, driven.ErrEntryNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

// resolveID maps a position to the entry id within the current transaction.
func resolveID(ctx context.Context, tx *sql.Tx, owner string, position int) (int64, error) {
	if position < 0 {
		return 0, driven.ErrEntryNotFound
	}

	const query = `SELECT id FROM entries WHERE owner = ? ` + rankOrder + ` LIMIT 1 OFFSET ?`

	var id int64
	err := tx.QueryRowContext(ctx, query, owner, position).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, driven.ErrEntryNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*model.Entry, error) {
	var entry model.Entry
	err := s.Scan(
		&entry.ID, &entry.Owner, &entry.Name, &entry.Account,
		&entry.SecretToken, &entry.URL, &entry.OrderRank, &entry.UsageCounter,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func collectEntries(rows *sql.Rows) ([]model.Entry, error) {
	var entries []model.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}
