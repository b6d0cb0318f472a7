package types

import "time"

// ConnectionMetadata holds the optional annotations attached to a connection.
// Every field is optional; AIConfidence is nil when no discovery heuristic
// produced the connection.
type ConnectionMetadata struct {
	Reason        string   `json:"reason,omitempty"`
	AIConfidence  *float64 `json:"ai_confidence,omitempty"` // 0.0-1.0
	UserConfirmed bool     `json:"user_confirmed,omitempty"`
	Context       string   `json:"context,omitempty"`
}

// EntityConnection is a typed, weighted, directed relationship between two
// entities. It is indexed under both endpoints.
type EntityConnection struct {
	ID             string              `json:"id"`
	SourceType     EntityType          `json:"source_type"`
	SourceID       string              `json:"source_id"`
	TargetType     EntityType          `json:"target_type"`
	TargetID       string              `json:"target_id"`
	ConnectionType ConnectionType      `json:"connection_type"`
	Strength       float64             `json:"strength"` // Clamped to 0.0-1.0
	AutoDetected   bool                `json:"auto_detected"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	Metadata       *ConnectionMetadata `json:"metadata,omitempty"`
}

// Clone returns a deep copy of the connection.
func (c EntityConnection) Clone() EntityConnection {
	if c.Metadata != nil {
		md := *c.Metadata
		if md.AIConfidence != nil {
			v := *md.AIConfidence
			md.AIConfidence = &v
		}
		c.Metadata = &md
	}
	return c
}

// Other returns the endpoint opposite to entityID.
func (c EntityConnection) Other(entityID string) string {
	if c.SourceID == entityID {
		return c.TargetID
	}
	return c.SourceID
}

// NewConnection is the input for creating a connection: everything except
// the generated id and timestamps.
type NewConnection struct {
	SourceType     EntityType          `json:"source_type"`
	SourceID       string              `json:"source_id"`
	TargetType     EntityType          `json:"target_type"`
	TargetID       string              `json:"target_id"`
	ConnectionType ConnectionType      `json:"connection_type"`
	Strength       float64             `json:"strength"`
	AutoDetected   bool                `json:"auto_detected"`
	Metadata       *ConnectionMetadata `json:"metadata,omitempty"`
}

// ConnectionPatch carries a partial update for a connection. Endpoints are
// immutable after creation and therefore absent.
type ConnectionPatch struct {
	ConnectionType *ConnectionType     `json:"connection_type,omitempty"`
	Strength       *float64            `json:"strength,omitempty"`
	AutoDetected   *bool               `json:"auto_detected,omitempty"`
	Metadata       *ConnectionMetadata `json:"metadata,omitempty"`
}

// ConnectionSuggestion is an ephemeral candidate connection produced by
// relationship discovery. It is never persisted.
type ConnectionSuggestion struct {
	SourceID       string         `json:"source_id"`
	TargetID       string         `json:"target_id"`
	ConnectionType ConnectionType `json:"connection_type"`
	Confidence     float64        `json:"confidence"`
	Reason         string         `json:"reason"`
	AutoApply      bool           `json:"auto_apply"`
	CreatedAt      time.Time      `json:"created_at"`
}

// EntityCluster is a maximal connected component of the graph with at least
// two members. Clusters are derived and recomputed on demand.
type EntityCluster struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	EntityIDs []string    `json:"entity_ids"`
	Strength  float64     `json:"strength"` // Mean connection strength
	Type      ClusterType `json:"type"`
}
