package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/scrypster/caseflow/internal/storage"
	"github.com/scrypster/caseflow/pkg/types"
)

// Auto-link defaults for attaching a task to its case.
const (
	autoLinkStrength = 0.8
	autoLinkReason   = "task filed under case"
)

// CreateConnection stores a new connection and indexes it under both
// endpoints.
func (g *Graph) CreateConnection(ctx context.Context, nc types.NewConnection) (types.EntityConnection, error) {
	var created types.EntityConnection
	err := g.Batch(ctx, func(b *Batch) error {
		var err error
		created, err = b.CreateConnection(nc)
		return err
	})
	return created, err
}

// UpdateConnection merges patch into an existing connection.
// Returns storage.ErrNotFound if the id is unknown.
func (g *Graph) UpdateConnection(ctx context.Context, id string, patch types.ConnectionPatch) (types.EntityConnection, error) {
	var updated types.EntityConnection
	err := g.Batch(ctx, func(b *Batch) error {
		var err error
		updated, err = b.UpdateConnection(id, patch)
		return err
	})
	return updated, err
}

// DeleteConnection removes a connection and both index entries. Deleting an
// unknown id is a no-op.
func (g *Graph) DeleteConnection(ctx context.Context, id string) error {
	return g.Batch(ctx, func(b *Batch) error {
		b.DeleteConnection(id)
		return nil
	})
}

// AutoLinkTaskToCase connects a task to the case it belongs to with a
// part_of connection.
func (g *Graph) AutoLinkTaskToCase(ctx context.Context, taskID, caseID string) (types.EntityConnection, error) {
	return g.CreateConnection(ctx, types.NewConnection{
		SourceType:     types.EntityTask,
		SourceID:       taskID,
		TargetType:     types.EntityCase,
		TargetID:       caseID,
		ConnectionType: types.ConnPartOf,
		Strength:       autoLinkStrength,
		AutoDetected:   true,
		Metadata:       &types.ConnectionMetadata{Reason: autoLinkReason},
	})
}

// GetConnection returns the connection with the given id.
func (g *Graph) GetConnection(id string) (types.EntityConnection, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.connections[id]
	if !ok {
		return types.EntityConnection{}, false
	}
	return c.Clone(), true
}

// GetConnectionsForEntity returns every connection touching entityID, in
// index order.
func (g *Graph) GetConnectionsForEntity(entityID string) []types.EntityConnection {
	g.mu.RLock()
	defer g.mu.RUnlock()

	conns := g.connectionsOfLocked(entityID)
	out := make([]types.EntityConnection, len(conns))
	for i, c := range conns {
		out[i] = c.Clone()
	}
	return out
}

// GetAllConnections returns every connection, ordered by id.
func (g *Graph) GetAllConnections() []types.EntityConnection {
	g.mu.RLock()
	defer g.mu.RUnlock()

	connIDs := make([]string, 0, len(g.connections))
	for id := range g.connections {
		connIDs = append(connIDs, id)
	}
	sort.Strings(connIDs)

	out := make([]types.EntityConnection, 0, len(connIDs))
	for _, id := range connIDs {
		out = append(out, g.connections[id].Clone())
	}
	return out
}

// connectionsOfLocked resolves entityID's index entries against the store.
// Index entries without a stored connection are skipped.
func (g *Graph) connectionsOfLocked(entityID string) []types.EntityConnection {
	connIDs := g.index.ids(entityID)
	out := make([]types.EntityConnection, 0, len(connIDs))
	for _, id := range connIDs {
		if c, ok := g.connections[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// connectedLocked reports whether any connection joins a and b.
func (g *Graph) connectedLocked(a, b string) bool {
	for _, c := range g.connectionsOfLocked(a) {
		if c.Other(a) == b {
			return true
		}
	}
	return false
}

// CreateConnection validates nc, assigns an id and timestamps, and indexes
// the connection under both endpoints. Endpoint types missing from nc are
// taken from the registry when the entity is known.
func (b *Batch) CreateConnection(nc types.NewConnection) (types.EntityConnection, error) {
	g := b.g
	if nc.SourceID == "" || nc.TargetID == "" {
		return types.EntityConnection{}, fmt.Errorf("%w: source and target ids are required", storage.ErrInvalidInput)
	}
	if nc.SourceType == "" {
		nc.SourceType = g.entities[nc.SourceID].Type
	}
	if nc.TargetType == "" {
		nc.TargetType = g.entities[nc.TargetID].Type
	}
	if !types.IsValidEntityType(nc.SourceType) {
		return types.EntityConnection{}, fmt.Errorf("%w: invalid source type %q", storage.ErrInvalidInput, nc.SourceType)
	}
	if !types.IsValidEntityType(nc.TargetType) {
		return types.EntityConnection{}, fmt.Errorf("%w: invalid target type %q", storage.ErrInvalidInput, nc.TargetType)
	}
	if !types.IsValidConnectionType(nc.ConnectionType) {
		return types.EntityConnection{}, fmt.Errorf("%w: invalid connection type %q", storage.ErrInvalidInput, nc.ConnectionType)
	}

	now := g.now()
	c := types.EntityConnection{
		ID:             g.ids.NewID(connectionIDPrefix),
		SourceType:     nc.SourceType,
		SourceID:       nc.SourceID,
		TargetType:     nc.TargetType,
		TargetID:       nc.TargetID,
		ConnectionType: nc.ConnectionType,
		Strength:       types.ClampStrength(nc.Strength),
		AutoDetected:   nc.AutoDetected,
		CreatedAt:      now,
		UpdatedAt:      now,
		Metadata:       clampMetadata(nc.Metadata),
	}

	g.connections[c.ID] = c
	g.index.add(c.SourceID, c.ID)
	g.index.add(c.TargetID, c.ID)
	b.dirty = true
	return c.Clone(), nil
}

// UpdateConnection merges patch into the stored connection. Index
// membership is unchanged because endpoints are immutable.
func (b *Batch) UpdateConnection(id string, patch types.ConnectionPatch) (types.EntityConnection, error) {
	c, ok := b.g.connections[id]
	if !ok {
		return types.EntityConnection{}, fmt.Errorf("connection %s: %w", id, storage.ErrNotFound)
	}

	if patch.ConnectionType != nil {
		if !types.IsValidConnectionType(*patch.ConnectionType) {
			return types.EntityConnection{}, fmt.Errorf("%w: invalid connection type %q", storage.ErrInvalidInput, *patch.ConnectionType)
		}
		c.ConnectionType = *patch.ConnectionType
	}
	if patch.Strength != nil {
		c.Strength = types.ClampStrength(*patch.Strength)
	}
	if patch.AutoDetected != nil {
		c.AutoDetected = *patch.AutoDetected
	}
	if patch.Metadata != nil {
		c.Metadata = clampMetadata(patch.Metadata)
	}
	c.UpdatedAt = b.g.now()

	b.g.connections[id] = c
	b.dirty = true
	return c.Clone(), nil
}

// DeleteConnection removes the connection and prunes both index entries.
func (b *Batch) DeleteConnection(id string) {
	c, ok := b.g.connections[id]
	if !ok {
		return
	}
	delete(b.g.connections, id)
	b.g.index.remove(c.SourceID, id)
	b.g.index.remove(c.TargetID, id)
	b.dirty = true
}

// clampMetadata copies md and bounds AIConfidence to [0, 1].
func clampMetadata(md *types.ConnectionMetadata) *types.ConnectionMetadata {
	if md == nil {
		return nil
	}
	out := *md
	if md.AIConfidence != nil {
		v := types.ClampStrength(*md.AIConfidence)
		out.AIConfidence = &v
	}
	return &out
}
