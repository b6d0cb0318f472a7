package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/caseflow/internal/storage"
	"github.com/scrypster/caseflow/pkg/types"
)

func newTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	store, err := NewSnapshotStore(filepath.Join(t.TempDir(), "caseflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLoadSnapshot_EmptyDatabase(t *testing.T) {
	store := newTestStore(t)

	snap, err := store.LoadSnapshot(context.Background())
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSaveSnapshot_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	conf := 0.42

	snap := storage.NewSnapshot()
	snap.Entities["case-1"] = types.EntitySummary{
		ID: "case-1", Type: types.EntityCase, Title: "Johnson v. Smith",
		Tags: []string{"litigation", "priority"}, CreatedAt: now, UpdatedAt: now,
	}
	snap.Connections["conn-1"] = types.EntityConnection{
		ID: "conn-1", SourceType: types.EntityTask, SourceID: "task-1",
		TargetType: types.EntityCase, TargetID: "case-1",
		ConnectionType: types.ConnPartOf, Strength: 0.8, AutoDetected: true,
		CreatedAt: now, UpdatedAt: now,
		Metadata: &types.ConnectionMetadata{Reason: "shared caption", AIConfidence: &conf},
	}
	snap.Index["case-1"] = []string{"conn-1"}

	require.NoError(t, store.SaveSnapshot(ctx, snap))

	loaded, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"litigation", "priority"}, loaded.Entities["case-1"].Tags)
	conn := loaded.Connections["conn-1"]
	require.NotNil(t, conn.Metadata)
	require.NotNil(t, conn.Metadata.AIConfidence)
	assert.InDelta(t, 0.42, *conn.Metadata.AIConfidence, 1e-9)
	assert.True(t, conn.CreatedAt.Equal(now))
	assert.Equal(t, []string{"conn-1"}, loaded.Index["case-1"])
}

func TestSaveSnapshot_Overwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := storage.NewSnapshot()
	first.Entities["a"] = types.EntitySummary{ID: "a", Type: types.EntityNote}
	require.NoError(t, store.SaveSnapshot(ctx, first))

	second := storage.NewSnapshot()
	require.NoError(t, store.SaveSnapshot(ctx, second))

	loaded, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.Entities)

	var rows int
	require.NoError(t, store.GetDB().QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestSaveSnapshot_NilRejected(t *testing.T) {
	store := newTestStore(t)
	assert.ErrorIs(t, store.SaveSnapshot(context.Background(), nil), storage.ErrInvalidInput)
}

func TestLoadSnapshot_CorruptDocument(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetDB().Exec(
		`INSERT INTO snapshots (name, document) VALUES (?, ?)`,
		storage.DefaultSnapshotName, "{not json",
	)
	require.NoError(t, err)

	_, err = store.LoadSnapshot(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
}

func TestNamedSnapshotStores_ShareDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	ctx := context.Background()

	a, err := NewNamedSnapshotStore(path, "a")
	require.NoError(t, err)
	snap := storage.NewSnapshot()
	snap.Entities["x"] = types.EntitySummary{ID: "x", Type: types.EntityTask}
	require.NoError(t, a.SaveSnapshot(ctx, snap))
	require.NoError(t, a.Close())

	b, err := NewNamedSnapshotStore(path, "b")
	require.NoError(t, err)
	defer b.Close()

	_, err = b.LoadSnapshot(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestNewNamedSnapshotStore_RequiresName(t *testing.T) {
	_, err := NewNamedSnapshotStore(filepath.Join(t.TempDir(), "x.db"), "")
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
