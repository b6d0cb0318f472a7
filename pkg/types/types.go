// Package types defines the core data structures for caseflow.
// These types represent practice entities, the connections inferred between
// them, and the deadline rules, calculations and alerts produced by the
// deadline engine.
package types

import "math"

// EntityType classifies a trackable item.
type EntityType string

// ConnectionType classifies a connection between two entities.
type ConnectionType string

// ClusterType classifies a connected component of the graph.
type ClusterType string

// Entity type constants
const (
	EntityTask     EntityType = "task"
	EntityCase     EntityType = "case"
	EntityContact  EntityType = "contact"
	EntityNote     EntityType = "note"
	EntityDeadline EntityType = "deadline"
	EntityDocument EntityType = "document"
)

// ValidEntityTypes is a slice of all valid entity types for validation
var ValidEntityTypes = []EntityType{
	EntityTask,
	EntityCase,
	EntityContact,
	EntityNote,
	EntityDeadline,
	EntityDocument,
}

// Connection type constants
const (
	ConnRelated    ConnectionType = "related"
	ConnDependsOn  ConnectionType = "depends_on"
	ConnBlocks     ConnectionType = "blocks"
	ConnReferences ConnectionType = "references"
	ConnAssignedTo ConnectionType = "assigned_to"
	ConnPartOf     ConnectionType = "part_of"
	ConnSimilarTo  ConnectionType = "similar_to"
)

// ValidConnectionTypes is a slice of all valid connection types for validation
var ValidConnectionTypes = []ConnectionType{
	ConnRelated,
	ConnDependsOn,
	ConnBlocks,
	ConnReferences,
	ConnAssignedTo,
	ConnPartOf,
	ConnSimilarTo,
}

// Cluster type constants
const (
	ClusterProject       ClusterType = "project"
	ClusterTopic         ClusterType = "topic"
	ClusterClient        ClusterType = "client"
	ClusterDeadlineGroup ClusterType = "deadline_group"
	ClusterWorkflow      ClusterType = "workflow"
)

// IsValidEntityType checks if the given entity type is valid
func IsValidEntityType(entityType EntityType) bool {
	for _, validType := range ValidEntityTypes {
		if validType == entityType {
			return true
		}
	}
	return false
}

// IsValidConnectionType checks if the given connection type is valid
func IsValidConnectionType(connType ConnectionType) bool {
	for _, validType := range ValidConnectionTypes {
		if validType == connType {
			return true
		}
	}
	return false
}

// ClampStrength bounds a strength or confidence value to [0, 1]. NaN
// becomes 0.
func ClampStrength(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
