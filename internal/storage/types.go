package storage

import (
	"errors"

	"github.com/scrypster/caseflow/pkg/types"
)

var (
	// ErrNotFound indicates that the requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates that the input parameters are invalid.
	ErrInvalidInput = errors.New("invalid input")
)

// DefaultSnapshotName is the snapshot key used when a store holds a single graph.
const DefaultSnapshotName = "graph"

// Snapshot is the persisted state of the connection graph: three key→value
// collections serialised together as one document.
type Snapshot struct {
	// Connections holds every connection keyed by connection id.
	Connections map[string]types.EntityConnection `json:"connections"`

	// Entities holds every entity summary keyed by entity id.
	Entities map[string]types.EntitySummary `json:"entities"`

	// Index maps entity id to the ids of connections touching it.
	// It is written for layout compatibility; loaders rebuild it from
	// Connections instead of trusting it.
	Index map[string][]string `json:"index"`
}

// NewSnapshot returns a snapshot with all three collections initialised.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Connections: make(map[string]types.EntityConnection),
		Entities:    make(map[string]types.EntitySummary),
		Index:       make(map[string][]string),
	}
}

// Normalize replaces nil collections with empty ones.
func (s *Snapshot) Normalize() {
	if s.Connections == nil {
		s.Connections = make(map[string]types.EntityConnection)
	}
	if s.Entities == nil {
		s.Entities = make(map[string]types.EntitySummary)
	}
	if s.Index == nil {
		s.Index = make(map[string][]string)
	}
}
