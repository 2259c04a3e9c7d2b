// Package sqlitestore persists items in SQLite. A *Store satisfies
// crud.Backend and backs the sandbox server when it runs with --db.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Ratio1/crud_sdk_go/internal/crudapi"
	"github.com/Ratio1/crud_sdk_go/internal/devseed"
	"github.com/Ratio1/crud_sdk_go/pkg/crud"
)

const schema = `
CREATE TABLE IF NOT EXISTS items (
	id         TEXT PRIMARY KEY,
	value      REAL NOT NULL,
	tx_hash    TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
)`

// Store is a SQLite-backed item store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at dsn and applies the schema. Use
// ":memory:" for a throwaway database.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent and serialises
	// writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: init schema: %w", err)
	}
	return &Store{
		db: db,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Seed inserts seed entries, generating ids where missing.
func (s *Store) Seed(ctx context.Context, entries []devseed.ItemSeedEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlitestore: begin seed: %w", err)
	}
	defer tx.Rollback()

	now := s.now()
	for _, e := range entries {
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO items (id, value, tx_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			id, e.Value, e.TxHash, now, now,
		); err != nil {
			return fmt.Errorf("sqlitestore: seed %q: %w", id, err)
		}
	}
	return tx.Commit()
}

// Count returns the number of stored items.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlitestore: count: %w", err)
	}
	return n, nil
}

// Create validates payload and inserts it under a fresh id.
func (s *Store) Create(ctx context.Context, payload []byte) ([]byte, error) {
	fields, err := crudapi.ParseItemFields(payload)
	if err != nil || !fields.Complete() {
		return nil, crud.RemoteFailure(http.StatusBadRequest, "Invalid input: value must be a number, txHash must be a string")
	}

	id := uuid.NewString()
	now := s.now()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO items (id, value, tx_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, *fields.Value, *fields.TxHash, now, now,
	); err != nil {
		return nil, fmt.Errorf("sqlitestore: insert: %w", err)
	}
	return json.Marshal(crud.CreateResult{ID: id, Status: "created"})
}

// Get returns the item stored under id.
func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	var res crud.GetResult
	err := s.db.QueryRowContext(ctx, `SELECT value, tx_hash FROM items WHERE id = ?`, id).Scan(&res.Value, &res.TxHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, crud.RemoteFailure(http.StatusNotFound, "Item not found")
	}
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: select: %w", err)
	}
	return json.Marshal(res)
}

// Update applies the fields present in payload to id.
func (s *Store) Update(ctx context.Context, id string, payload []byte) ([]byte, error) {
	fields, err := crudapi.ParseItemFields(payload)
	if err != nil {
		return nil, crud.RemoteFailure(http.StatusBadRequest, "Invalid input: value must be a number, txHash must be a string")
	}
	if fields.Empty() {
		return nil, crud.RemoteFailure(http.StatusBadRequest, "Update data is required")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE items SET value = COALESCE(?, value), tx_hash = COALESCE(?, tx_hash), updated_at = ? WHERE id = ?`,
		nullFloat(fields.Value), nullString(fields.TxHash), s.now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: update: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, crud.RemoteFailure(http.StatusNotFound, "Item not found")
	}
	return json.Marshal(crud.UpdateResult{Status: "updated"})
}

// Delete removes id.
func (s *Store) Delete(ctx context.Context, id string) ([]byte, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: delete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, crud.RemoteFailure(http.StatusNotFound, "Item not found")
	}
	return json.Marshal(crud.DeleteResult{Status: "deleted"})
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

var _ crud.Backend = (*Store)(nil)
