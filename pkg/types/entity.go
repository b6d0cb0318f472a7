package types

import "time"

// EntitySummary is the canonical summary of a trackable item (task, case,
// contact, note, deadline or document) known to the connection graph.
type EntitySummary struct {
	ID          string     `json:"id"`                    // Unique, opaque identifier
	Type        EntityType `json:"type"`                  // Entity type (see EntityType constants)
	Title       string     `json:"title"`                 // Display title
	Description string     `json:"description,omitempty"` // Optional free text
	Status      string     `json:"status,omitempty"`      // Optional workflow status
	Priority    string     `json:"priority,omitempty"`    // Optional priority label
	Tags        []string   `json:"tags,omitempty"`        // Ordered user tags
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// EntityPatch carries a partial update for an entity. Nil fields are left
// unchanged.
type EntityPatch struct {
	Type        *EntityType `json:"type,omitempty"`
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Status      *string     `json:"status,omitempty"`
	Priority    *string     `json:"priority,omitempty"`
	Tags        *[]string   `json:"tags,omitempty"`
}

// Apply merges the patch into e. It does not touch timestamps.
func (p EntityPatch) Apply(e *EntitySummary) {
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.Priority != nil {
		e.Priority = *p.Priority
	}
	if p.Tags != nil {
		e.Tags = append([]string(nil), (*p.Tags)...)
	}
}

// Clone returns a deep copy so callers cannot mutate registry state.
func (e EntitySummary) Clone() EntitySummary {
	if e.Tags != nil {
		e.Tags = append([]string(nil), e.Tags...)
	}
	return e
}
