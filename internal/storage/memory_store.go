package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is an in-process SnapshotStore. It keeps the encoded document
// rather than the struct so that loads never alias engine state.
type MemoryStore struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

// NewMemoryStore creates an empty in-process snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// LoadSnapshot decodes the last saved document.
func (m *MemoryStore) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return nil, ErrNotFound
	}

	snap := NewSnapshot()
	if err := json.Unmarshal(m.data, snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	snap.Normalize()
	return snap, nil
}

// SaveSnapshot encodes and keeps s.
func (m *MemoryStore) SaveSnapshot(ctx context.Context, s *Snapshot) error {
	if s == nil {
		return ErrInvalidInput
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	m.mu.Lock()
	m.data = data
	m.saves++
	m.mu.Unlock()
	return nil
}

// SetRaw replaces the stored document with arbitrary bytes. Used to simulate
// corrupt snapshots.
func (m *MemoryStore) SetRaw(data []byte) {
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
}

// Saves reports how many times SaveSnapshot succeeded.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
