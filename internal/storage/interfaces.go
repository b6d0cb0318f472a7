// Package storage provides the persistence interfaces for caseflow.
//
// The connection graph lives in memory and is persisted as a whole snapshot.
// Backends only need to store and return one JSON document per snapshot
// name, which keeps SQLite, PostgreSQL and in-process implementations
// interchangeable.
package storage

import "context"

// SnapshotStore persists and restores graph snapshots.
type SnapshotStore interface {
	// LoadSnapshot returns the most recently saved snapshot.
	// Returns ErrNotFound if nothing has been saved yet.
	LoadSnapshot(ctx context.Context) (*Snapshot, error)

	// SaveSnapshot replaces the stored snapshot with s.
	SaveSnapshot(ctx context.Context, s *Snapshot) error

	// Close releases any resources held by the store.
	Close() error
}
