package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/scrypster/caseflow/internal/storage"
	"github.com/scrypster/caseflow/pkg/types"
)

// DefaultMaxDepth is the hop bound callers use when none is requested.
const DefaultMaxDepth = 2

// suggestionRule is one discovery heuristic: which connection type it
// proposes, and the similarity above which it suggests and auto-applies.
type suggestionRule struct {
	connType  types.ConnectionType
	threshold float64
	autoApply float64
}

var (
	relatedRule  = suggestionRule{types.ConnRelated, 0.3, 0.7}
	taskCaseRule = suggestionRule{types.ConnPartOf, 0.2, 0.6}
	deadlineRule = suggestionRule{types.ConnDependsOn, 0.3, 0.7}
)

// GetRelatedEntities returns the entities reachable from entityID within
// maxDepth hops, in breadth-first order and excluding entityID itself.
// Unregistered ids are traversed through but left out of the result.
// A maxDepth of zero or less follows no hops and returns an empty slice.
func (g *Graph) GetRelatedEntities(entityID string, maxDepth int) []types.EntitySummary {
	if maxDepth <= 0 {
		return []types.EntitySummary{}
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	type queueItem struct {
		id    string
		depth int
	}

	queue := []queueItem{{entityID, 0}}
	visited := map[string]bool{entityID: true}
	related := make([]types.EntitySummary, 0)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.id != entityID {
			if e, ok := g.entities[current.id]; ok {
				related = append(related, e.Clone())
			}
		}

		// Stop expanding once the hop bound is reached
		if current.depth >= maxDepth {
			continue
		}

		for _, c := range g.connectionsOfLocked(current.id) {
			next := c.Other(current.id)
			if visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, queueItem{next, current.depth + 1})
		}
	}

	return related
}

// DetectPotentialConnections proposes connections for entityID from keyword
// overlap with every other registered entity, plus type-specific heuristics:
// tasks are matched against cases (part_of) and deadlines against tasks
// (depends_on, from the task to the deadline). Suggestions are sorted by
// confidence, highest first; on equal confidence the type-specific
// suggestion comes before the generic related one. Returns
// storage.ErrNotFound for an unknown id.
func (g *Graph) DetectPotentialConnections(entityID string) ([]types.ConnectionSuggestion, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	source, ok := g.entities[entityID]
	if !ok {
		return nil, fmt.Errorf("entity %s: %w", entityID, storage.ErrNotFound)
	}

	now := g.now()
	sourceTokens := TokenSet(entityText(source.Title, source.Description))
	otherIDs := g.sortedEntityIDsLocked()

	tokenCache := make(map[string]map[string]struct{}, len(otherIDs))
	tokensOf := func(e types.EntitySummary) map[string]struct{} {
		if set, ok := tokenCache[e.ID]; ok {
			return set
		}
		set := TokenSet(entityText(e.Title, e.Description))
		tokenCache[e.ID] = set
		return set
	}

	suggest := func(rule suggestionRule, from, to string, targetTokens map[string]struct{}) (types.ConnectionSuggestion, bool) {
		sim := Jaccard(sourceTokens, targetTokens)
		if sim <= rule.threshold {
			return types.ConnectionSuggestion{}, false
		}
		return types.ConnectionSuggestion{
			SourceID:       from,
			TargetID:       to,
			ConnectionType: rule.connType,
			Confidence:     sim,
			Reason:         "Shared keywords: " + strings.Join(sharedTokens(sourceTokens, targetTokens), ", "),
			AutoApply:      sim > rule.autoApply,
			CreatedAt:      now,
		}, true
	}

	var suggestions []types.ConnectionSuggestion

	for _, id := range otherIDs {
		if id == entityID {
			continue
		}
		if s, ok := suggest(relatedRule, entityID, id, tokensOf(g.entities[id])); ok {
			suggestions = append(suggestions, s)
		}
	}

	switch source.Type {
	case types.EntityTask:
		for _, id := range otherIDs {
			other := g.entities[id]
			if id == entityID || other.Type != types.EntityCase {
				continue
			}
			if s, ok := suggest(taskCaseRule, entityID, id, tokensOf(other)); ok {
				suggestions = append(suggestions, s)
			}
		}
	case types.EntityDeadline:
		for _, id := range otherIDs {
			other := g.entities[id]
			if id == entityID || other.Type != types.EntityTask {
				continue
			}
			if s, ok := suggest(deadlineRule, id, entityID, tokensOf(other)); ok {
				suggestions = append(suggestions, s)
			}
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.ConnectionType != types.ConnRelated && b.ConnectionType == types.ConnRelated
	})
	return suggestions, nil
}

// AcceptSuggestion turns a suggestion into an auto-detected connection whose
// strength and ai_confidence are the suggestion's confidence.
func (g *Graph) AcceptSuggestion(ctx context.Context, s types.ConnectionSuggestion) (types.EntityConnection, error) {
	var created types.EntityConnection
	err := g.Batch(ctx, func(b *Batch) error {
		var err error
		created, err = b.acceptSuggestion(s)
		return err
	})
	return created, err
}

// ApplyAutoSuggestions accepts every auto-apply suggestion for entityID whose
// endpoints are not already connected. All connections are created in one
// batch and persisted once.
func (g *Graph) ApplyAutoSuggestions(ctx context.Context, entityID string) ([]types.EntityConnection, error) {
	suggestions, err := g.DetectPotentialConnections(entityID)
	if err != nil {
		return nil, err
	}

	created := make([]types.EntityConnection, 0)
	err = g.Batch(ctx, func(b *Batch) error {
		for _, s := range suggestions {
			if !s.AutoApply || g.connectedLocked(s.SourceID, s.TargetID) {
				continue
			}
			c, err := b.acceptSuggestion(s)
			if err != nil {
				return err
			}
			created = append(created, c)
		}
		return nil
	})
	return created, err
}

func (b *Batch) acceptSuggestion(s types.ConnectionSuggestion) (types.EntityConnection, error) {
	confidence := types.ClampStrength(s.Confidence)
	return b.CreateConnection(types.NewConnection{
		SourceID:       s.SourceID,
		TargetID:       s.TargetID,
		ConnectionType: s.ConnectionType,
		Strength:       confidence,
		AutoDetected:   true,
		Metadata: &types.ConnectionMetadata{
			Reason:       s.Reason,
			AIConfidence: &confidence,
		},
	})
}
