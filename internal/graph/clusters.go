package graph

import (
	"sort"

	"github.com/scrypster/caseflow/pkg/types"
)

// defaultClusterName names clusters whose titles yield no tokens.
const defaultClusterName = "Related items"

// GetConnectionClusters partitions the registered entities into connected
// components and returns those with at least two members, strongest first.
//
// Every entity belongs to at most one cluster. Unregistered ids are walked
// through, so a path via one still joins its ends, but they are never
// members. A cluster's strength is the mean Strength over the distinct
// connections traversed while expanding it.
func (g *Graph) GetConnectionClusters() []types.EntityCluster {
	g.mu.RLock()
	defer g.mu.RUnlock()

	visited := make(map[string]bool, len(g.entities))
	var clusters []types.EntityCluster

	for _, startID := range g.sortedEntityIDsLocked() {
		if visited[startID] {
			continue
		}

		members := []string{}
		seenConns := make(map[string]bool)
		var strengthSum float64

		queue := []string{startID}
		visited[startID] = true

		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			if _, registered := g.entities[current]; registered {
				members = append(members, current)
			}

			for _, c := range g.connectionsOfLocked(current) {
				next := c.Other(current)
				if !seenConns[c.ID] {
					seenConns[c.ID] = true
					strengthSum += Strength(c)
				}
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}

		if len(members) < 2 {
			continue
		}

		sort.Strings(members)
		var strength float64
		if len(seenConns) > 0 {
			strength = strengthSum / float64(len(seenConns))
		}

		clusters = append(clusters, types.EntityCluster{
			ID:        "cluster:" + members[0],
			Name:      g.clusterNameLocked(members),
			EntityIDs: members,
			Strength:  strength,
			Type:      g.clusterTypeLocked(members),
		})
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Strength > clusters[j].Strength
	})
	if clusters == nil {
		clusters = []types.EntityCluster{}
	}
	return clusters
}

// clusterNameLocked picks the most frequent token across member titles.
// Ties go to the lexicographically smallest token.
func (g *Graph) clusterNameLocked(members []string) string {
	counts := make(map[string]int)
	for _, id := range members {
		for _, tok := range Tokenize(g.entities[id].Title) {
			counts[tok]++
		}
	}

	best, bestCount := "", 0
	for tok, n := range counts {
		if n > bestCount || (n == bestCount && tok < best) {
			best, bestCount = tok, n
		}
	}
	if best == "" {
		return defaultClusterName
	}
	return best + " cluster"
}

// clusterTypeLocked infers a cluster type from its member entity types.
func (g *Graph) clusterTypeLocked(members []string) types.ClusterType {
	allTasks, allCases, anyDeadline := true, true, false
	for _, id := range members {
		switch g.entities[id].Type {
		case types.EntityTask:
			allCases = false
		case types.EntityCase:
			allTasks = false
		case types.EntityDeadline:
			allTasks, allCases, anyDeadline = false, false, true
		default:
			allTasks, allCases = false, false
		}
	}

	switch {
	case allTasks:
		return types.ClusterWorkflow
	case allCases:
		return types.ClusterClient
	case anyDeadline:
		return types.ClusterDeadlineGroup
	default:
		return types.ClusterProject
	}
}
