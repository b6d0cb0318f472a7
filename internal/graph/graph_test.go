package graph

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/caseflow/internal/ids"
	"github.com/scrypster/caseflow/internal/storage"
	"github.com/scrypster/caseflow/pkg/types"
)

var testNow = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestGraph builds an isolated graph backed by an in-memory store with
// deterministic ids and a fixed clock.
func newTestGraph(t *testing.T) (*Graph, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	g := New(Options{
		Store:  store,
		IDs:    ids.NewSequenceProvider(),
		Now:    func() time.Time { return testNow },
		Logger: quietLogger(),
	})
	return g, store
}

func mustRegister(t *testing.T, g *Graph, id string, typ types.EntityType, title string) {
	t.Helper()
	require.NoError(t, g.RegisterEntity(context.Background(), types.EntitySummary{
		ID: id, Type: typ, Title: title,
	}))
}

func mustConnect(t *testing.T, g *Graph, src, dst string, ct types.ConnectionType) types.EntityConnection {
	t.Helper()
	c, err := g.CreateConnection(context.Background(), types.NewConnection{
		SourceID: src, TargetID: dst, ConnectionType: ct, Strength: 0.5,
	})
	require.NoError(t, err)
	return c
}

// failingStore always fails to save.
type failingStore struct{ storage.MemoryStore }

func (f *failingStore) SaveSnapshot(ctx context.Context, s *storage.Snapshot) error {
	return errors.New("disk full")
}

func TestLoad_MissingSnapshotStartsEmpty(t *testing.T) {
	g, _ := newTestGraph(t)
	g.Load(context.Background())

	e, c := g.Stats()
	assert.Zero(t, e)
	assert.Zero(t, c)
}

func TestLoad_CorruptSnapshotStartsEmpty(t *testing.T) {
	g, store := newTestGraph(t)
	mustRegister(t, g, "a", types.EntityTask, "Draft motion")

	store.SetRaw([]byte("{corrupt"))
	g.Load(context.Background())

	e, _ := g.Stats()
	assert.Zero(t, e)
	assert.Empty(t, g.GetAllEntities())
}

func TestLoad_RestoresStateAndRebuildsIndex(t *testing.T) {
	ctx := context.Background()
	g, store := newTestGraph(t)
	mustRegister(t, g, "task-1", types.EntityTask, "Draft answer")
	mustRegister(t, g, "case-1", types.EntityCase, "Johnson v. Smith")
	c := mustConnect(t, g, "task-1", "case-1", types.ConnPartOf)

	// Corrupt the persisted index; it must be ignored on load.
	snap, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	snap.Index = map[string][]string{"task-1": {"bogus"}}
	require.NoError(t, store.SaveSnapshot(ctx, snap))

	restored := New(Options{Store: store, Logger: quietLogger()})
	restored.Load(ctx)

	entities, conns := restored.Stats()
	assert.Equal(t, 2, entities)
	assert.Equal(t, 1, conns)

	for _, id := range []string{"task-1", "case-1"} {
		got := restored.GetConnectionsForEntity(id)
		require.Len(t, got, 1, "connections for %s", id)
		assert.Equal(t, c.ID, got[0].ID)
	}
}

func TestBatch_PersistsOnce(t *testing.T) {
	ctx := context.Background()
	g, store := newTestGraph(t)

	err := g.Batch(ctx, func(b *Batch) error {
		for _, id := range []string{"a", "b", "c"} {
			if err := b.RegisterEntity(types.EntitySummary{ID: id, Type: types.EntityNote, Title: id}); err != nil {
				return err
			}
		}
		_, err := b.CreateConnection(types.NewConnection{SourceID: "a", TargetID: "b", ConnectionType: types.ConnRelated})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Saves())
}

func TestBatch_NoChangesDoesNotPersist(t *testing.T) {
	g, store := newTestGraph(t)
	require.NoError(t, g.Batch(context.Background(), func(b *Batch) error {
		b.DeleteConnection("missing")
		return nil
	}))
	assert.Zero(t, store.Saves())
}

func TestBatch_ErrorKeepsAppliedMutations(t *testing.T) {
	g, store := newTestGraph(t)
	err := g.Batch(context.Background(), func(b *Batch) error {
		if err := b.RegisterEntity(types.EntitySummary{ID: "a", Type: types.EntityTask, Title: "a"}); err != nil {
			return err
		}
		return b.RegisterEntity(types.EntitySummary{ID: "b", Type: "widget"})
	})
	require.ErrorIs(t, err, storage.ErrInvalidInput)

	_, ok := g.GetEntity("a")
	assert.True(t, ok)
	assert.Equal(t, 1, store.Saves())
}

func TestPersistFailure_DoesNotUndoMutation(t *testing.T) {
	g := New(Options{Store: &failingStore{}, Logger: quietLogger()})
	require.NoError(t, g.RegisterEntity(context.Background(), types.EntitySummary{
		ID: "a", Type: types.EntityCase, Title: "Estate of Doe",
	}))

	_, ok := g.GetEntity("a")
	assert.True(t, ok)
}

func TestNew_WithoutStore(t *testing.T) {
	g := New(Options{})
	g.Load(context.Background())
	require.NoError(t, g.RegisterEntity(context.Background(), types.EntitySummary{
		ID: "a", Type: types.EntityContact, Title: "Jane Roe",
	}))
	e, _ := g.Stats()
	assert.Equal(t, 1, e)
}

func TestSnapshot_IsACopy(t *testing.T) {
	g, _ := newTestGraph(t)
	mustRegister(t, g, "a", types.EntityTask, "Draft motion")

	snap := g.Snapshot()
	snap.Entities["a"] = types.EntitySummary{ID: "a", Title: "changed"}

	e, _ := g.GetEntity("a")
	assert.Equal(t, "Draft motion", e.Title)
}
