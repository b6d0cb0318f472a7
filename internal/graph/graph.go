// Package graph implements the entity connection graph: the entity registry,
// the connection store with its bidirectional index, relationship discovery,
// strength scoring and cluster analysis.
//
// A Graph is an explicitly constructed engine. All state is guarded by one
// reader-writer lock: traversals and reports take the read lock, mutations
// take the write lock. Mutations are grouped with Batch and persisted once
// per batch through the injected storage.SnapshotStore.
package graph

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/scrypster/caseflow/internal/ids"
	"github.com/scrypster/caseflow/internal/storage"
	"github.com/scrypster/caseflow/pkg/types"
)

// connectionIDPrefix prefixes every generated connection id.
const connectionIDPrefix = "conn"

// Options configures a Graph. Zero values select defaults.
type Options struct {
	// Store persists snapshots. Nil keeps the graph purely in memory.
	Store storage.SnapshotStore

	// IDs generates connection ids (default: ids.UUIDProvider).
	IDs ids.Provider

	// Now returns the current time (default: time.Now).
	Now func() time.Time

	// Logger receives persistence diagnostics (default: slog.Default()).
	Logger *slog.Logger
}

// Graph is the entity connection graph engine.
type Graph struct {
	mu          sync.RWMutex
	entities    map[string]types.EntitySummary
	connections map[string]types.EntityConnection
	index       *connectionIndex

	store  storage.SnapshotStore
	ids    ids.Provider
	now    func() time.Time
	logger *slog.Logger
}

// New creates an empty graph. Call Load to restore persisted state.
func New(opts Options) *Graph {
	if opts.IDs == nil {
		opts.IDs = ids.UUIDProvider{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Graph{
		entities:    make(map[string]types.EntitySummary),
		connections: make(map[string]types.EntityConnection),
		index:       newConnectionIndex(),
		store:       opts.Store,
		ids:         opts.IDs,
		now:         opts.Now,
		logger:      opts.Logger,
	}
}

// Load replaces the in-memory state with the persisted snapshot.
// A missing or unreadable snapshot is logged and leaves the graph empty;
// it is never fatal. The index is rebuilt from the connections rather than
// trusted from the snapshot.
func (g *Graph) Load(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.entities = make(map[string]types.EntitySummary)
	g.connections = make(map[string]types.EntityConnection)
	g.index = newConnectionIndex()

	if g.store == nil {
		return
	}

	snap, err := g.store.LoadSnapshot(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			g.logger.Info("graph: no snapshot found, starting empty")
		} else {
			g.logger.Warn("graph: failed to load snapshot, starting empty", "error", err)
		}
		return
	}

	for id, e := range snap.Entities {
		e.ID = id
		g.entities[id] = e
	}
	for id, c := range snap.Connections {
		c.ID = id
		c.Strength = types.ClampStrength(c.Strength)
		g.connections[id] = c
		g.index.add(c.SourceID, id)
		g.index.add(c.TargetID, id)
	}

	if diverged := g.index.diverges(snap.Index); diverged {
		g.logger.Warn("graph: persisted index diverged from connections, rebuilt")
	}

	g.logger.Info("graph: snapshot loaded",
		"entities", len(g.entities),
		"connections", len(g.connections))
}

// Batch runs fn with exclusive access to the graph and persists once if fn
// changed anything. Mutations applied before fn returns an error are kept;
// there is no rollback.
func (g *Graph) Batch(ctx context.Context, fn func(b *Batch) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	b := &Batch{g: g}
	err := fn(b)
	if b.dirty {
		g.persistLocked(ctx)
	}
	return err
}

// persistLocked writes the full snapshot. Failures are logged and do not
// undo the in-memory mutation. Callers must hold the write lock.
func (g *Graph) persistLocked(ctx context.Context) {
	if g.store == nil {
		return
	}
	if err := g.store.SaveSnapshot(ctx, g.snapshotLocked()); err != nil {
		g.logger.Error("graph: failed to persist snapshot", "error", err)
	}
}

// snapshotLocked copies the current state into a storage.Snapshot.
func (g *Graph) snapshotLocked() *storage.Snapshot {
	snap := storage.NewSnapshot()
	for id, e := range g.entities {
		snap.Entities[id] = e.Clone()
	}
	for id, c := range g.connections {
		snap.Connections[id] = c.Clone()
	}
	snap.Index = g.index.copy()
	return snap
}

// Snapshot returns a copy of the current state.
func (g *Graph) Snapshot() *storage.Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snapshotLocked()
}

// Stats reports entity and connection counts.
func (g *Graph) Stats() (entities, connections int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entities), len(g.connections)
}

// sortedEntityIDsLocked returns registered entity ids in ascending order.
func (g *Graph) sortedEntityIDsLocked() []string {
	out := make([]string, 0, len(g.entities))
	for id := range g.entities {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Batch is the mutation handle passed to Graph.Batch. It must not be used
// after the callback returns.
type Batch struct {
	g     *Graph
	dirty bool
}
