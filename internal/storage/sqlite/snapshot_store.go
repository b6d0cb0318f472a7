// Package sqlite provides the local SQLite snapshot store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/scrypster/caseflow/internal/storage"
)

// Schema creates the snapshot table. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	name       TEXT PRIMARY KEY,
	document   TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SnapshotStore implements storage.SnapshotStore using SQLite.
type SnapshotStore struct {
	db   *sql.DB
	name string
}

// NewSnapshotStore opens (or creates) the SQLite database at dsn and applies
// the schema. The snapshot is stored under storage.DefaultSnapshotName.
func NewSnapshotStore(dsn string) (*SnapshotStore, error) {
	return NewNamedSnapshotStore(dsn, storage.DefaultSnapshotName)
}

// NewNamedSnapshotStore is NewSnapshotStore with an explicit snapshot name,
// allowing several graphs to share one database file.
func NewNamedSnapshotStore(dsn, name string) (*SnapshotStore, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: snapshot name is required", storage.ErrInvalidInput)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one concurrent writer; a single connection
	// serialises writes and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SnapshotStore{db: db, name: name}, nil
}

// LoadSnapshot reads and decodes the stored document.
// Returns storage.ErrNotFound when no snapshot has been saved.
func (s *SnapshotStore) LoadSnapshot(ctx context.Context) (*storage.Snapshot, error) {
	var document string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM snapshots WHERE name = ?`, s.name,
	).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %q: %w", s.name, err)
	}

	snap := storage.NewSnapshot()
	if err := json.Unmarshal([]byte(document), snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %q: %w", s.name, err)
	}
	snap.Normalize()
	return snap, nil
}

// SaveSnapshot writes the whole snapshot inside one transaction. The
// transaction is rolled back on every early return.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, snap *storage.Snapshot) error {
	if snap == nil {
		return storage.ErrInvalidInput
	}

	document, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (name, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			document = excluded.document,
			updated_at = excluded.updated_at
	`, s.name, string(document), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write snapshot %q: %w", s.name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot %q: %w", s.name, err)
	}
	return nil
}

// GetDB returns the underlying database connection.
func (s *SnapshotStore) GetDB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}
