package graph

import (
	"context"
	"fmt"

	"github.com/scrypster/caseflow/internal/storage"
	"github.com/scrypster/caseflow/pkg/types"
)

// RegisterEntity inserts or replaces an entity by id.
func (g *Graph) RegisterEntity(ctx context.Context, e types.EntitySummary) error {
	return g.Batch(ctx, func(b *Batch) error {
		return b.RegisterEntity(e)
	})
}

// UpdateEntity merges patch into the entity with the given id and refreshes
// its UpdatedAt. Returns storage.ErrNotFound if the id is unknown.
func (g *Graph) UpdateEntity(ctx context.Context, id string, patch types.EntityPatch) (types.EntitySummary, error) {
	var updated types.EntitySummary
	err := g.Batch(ctx, func(b *Batch) error {
		var err error
		updated, err = b.UpdateEntity(id, patch)
		return err
	})
	return updated, err
}

// GetEntity returns the entity with the given id.
func (g *Graph) GetEntity(id string) (types.EntitySummary, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.entities[id]
	if !ok {
		return types.EntitySummary{}, false
	}
	return e.Clone(), true
}

// GetAllEntities returns every registered entity, ordered by id.
func (g *Graph) GetAllEntities() []types.EntitySummary {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]types.EntitySummary, 0, len(g.entities))
	for _, id := range g.sortedEntityIDsLocked() {
		out = append(out, g.entities[id].Clone())
	}
	return out
}

// RegisterEntity inserts or replaces e. Missing timestamps are filled from
// the graph clock; connections are never touched.
func (b *Batch) RegisterEntity(e types.EntitySummary) error {
	if e.ID == "" {
		return fmt.Errorf("%w: entity id is required", storage.ErrInvalidInput)
	}
	if !types.IsValidEntityType(e.Type) {
		return fmt.Errorf("%w: invalid entity type %q for %s", storage.ErrInvalidInput, e.Type, e.ID)
	}

	now := b.g.now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = now
	}

	b.g.entities[e.ID] = e.Clone()
	b.dirty = true
	return nil
}

// UpdateEntity merges patch into an existing entity.
func (b *Batch) UpdateEntity(id string, patch types.EntityPatch) (types.EntitySummary, error) {
	e, ok := b.g.entities[id]
	if !ok {
		return types.EntitySummary{}, fmt.Errorf("entity %s: %w", id, storage.ErrNotFound)
	}
	if patch.Type != nil && !types.IsValidEntityType(*patch.Type) {
		return types.EntitySummary{}, fmt.Errorf("%w: invalid entity type %q for %s", storage.ErrInvalidInput, *patch.Type, id)
	}

	patch.Apply(&e)
	e.UpdatedAt = b.g.now()

	b.g.entities[id] = e
	b.dirty = true
	return e.Clone(), nil
}
