package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/scrypster/caseflow/internal/graph"
	"github.com/scrypster/caseflow/pkg/types"
)

// GraphHandlers contains HTTP handlers for the entity connection graph.
type GraphHandlers struct {
	graph  *graph.Graph
	events Broadcaster
	logger *slog.Logger
}

// NewGraphHandlers creates a new GraphHandlers instance. events may be nil.
func NewGraphHandlers(g *graph.Graph, events Broadcaster, logger *slog.Logger) *GraphHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &GraphHandlers{graph: g, events: events, logger: logger}
}

func (h *GraphHandlers) publish(eventType string, data interface{}) {
	if h.events == nil {
		return
	}
	h.events.Broadcast(Event{Type: eventType, Data: data, Timestamp: time.Now().UTC()})
}

// ListEntities handles GET /api/entities - returns every registered entity.
func (h *GraphHandlers) ListEntities(w http.ResponseWriter, r *http.Request) {
	entities := h.graph.GetAllEntities()
	respondJSON(w, http.StatusOK, EntityListResponse{Entities: entities, Total: len(entities)})
}

// RegisterEntity handles POST /api/entities - inserts or replaces an entity.
// A task registered with a case_id is linked to that case.
func (h *GraphHandlers) RegisterEntity(w http.ResponseWriter, r *http.Request) {
	var req RegisterEntityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}
	if req.CaseID != "" && req.Type != types.EntityTask {
		respondError(w, http.StatusBadRequest, "case_id is only valid for tasks", nil)
		return
	}

	if err := h.graph.RegisterEntity(r.Context(), req.EntitySummary); err != nil {
		respondDomainError(w, "failed to register entity", err)
		return
	}

	entity, _ := h.graph.GetEntity(req.ID)
	resp := RegisterEntityResponse{Entity: entity}
	h.publish(EventEntityRegistered, entity)

	if req.CaseID != "" {
		link, err := h.graph.AutoLinkTaskToCase(r.Context(), req.ID, req.CaseID)
		if err != nil {
			respondDomainError(w, "failed to link task to case", err)
			return
		}
		resp.CaseLink = &link
		h.publish(EventConnectionCreated, link)
	}

	respondJSON(w, http.StatusCreated, resp)
}

// GetEntity handles GET /api/entities/{id}.
func (h *GraphHandlers) GetEntity(w http.ResponseWriter, r *http.Request) {
	entity, ok := h.graph.GetEntity(r.PathValue("id"))
	if !ok {
		respondError(w, http.StatusNotFound, "entity not found", nil)
		return
	}
	respondJSON(w, http.StatusOK, entity)
}

// UpdateEntity handles PATCH /api/entities/{id} - merges a partial update.
func (h *GraphHandlers) UpdateEntity(w http.ResponseWriter, r *http.Request) {
	var patch types.EntityPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}

	entity, err := h.graph.UpdateEntity(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		respondDomainError(w, "failed to update entity", err)
		return
	}
	h.publish(EventEntityUpdated, entity)
	respondJSON(w, http.StatusOK, entity)
}

// EntityConnections handles GET /api/entities/{id}/connections.
func (h *GraphHandlers) EntityConnections(w http.ResponseWriter, r *http.Request) {
	conns := h.graph.GetConnectionsForEntity(r.PathValue("id"))
	respondJSON(w, http.StatusOK, ConnectionListResponse{Connections: conns, Total: len(conns)})
}

// RelatedEntities handles GET /api/entities/{id}/related?depth=N.
// A missing depth uses graph.DefaultMaxDepth; depth=0 returns nothing.
func (h *GraphHandlers) RelatedEntities(w http.ResponseWriter, r *http.Request) {
	depth := graph.DefaultMaxDepth
	if raw := r.URL.Query().Get("depth"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "depth must be a non-negative integer", err)
			return
		}
		depth = n
	}

	id := r.PathValue("id")
	respondJSON(w, http.StatusOK, RelatedResponse{
		EntityID: id,
		Depth:    depth,
		Related:  h.graph.GetRelatedEntities(id, depth),
	})
}

// Suggestions handles GET /api/entities/{id}/suggestions.
func (h *GraphHandlers) Suggestions(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	suggestions, err := h.graph.DetectPotentialConnections(id)
	if err != nil {
		respondDomainError(w, "failed to detect connections", err)
		return
	}
	if suggestions == nil {
		suggestions = []types.ConnectionSuggestion{}
	}
	respondJSON(w, http.StatusOK, SuggestionsResponse{EntityID: id, Suggestions: suggestions})
}

// ApplySuggestions handles POST /api/entities/{id}/suggestions/apply -
// accepts every auto-apply suggestion for the entity.
func (h *GraphHandlers) ApplySuggestions(w http.ResponseWriter, r *http.Request) {
	created, err := h.graph.ApplyAutoSuggestions(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, "failed to apply suggestions", err)
		return
	}
	for _, c := range created {
		h.publish(EventConnectionCreated, c)
	}
	respondJSON(w, http.StatusOK, ConnectionListResponse{Connections: created, Total: len(created)})
}

// ListConnections handles GET /api/connections - returns all connections.
func (h *GraphHandlers) ListConnections(w http.ResponseWriter, r *http.Request) {
	conns := h.graph.GetAllConnections()
	respondJSON(w, http.StatusOK, ConnectionListResponse{Connections: conns, Total: len(conns)})
}

// CreateConnection handles POST /api/connections - creates a new connection.
func (h *GraphHandlers) CreateConnection(w http.ResponseWriter, r *http.Request) {
	var req types.NewConnection
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}

	conn, err := h.graph.CreateConnection(r.Context(), req)
	if err != nil {
		respondDomainError(w, "failed to create connection", err)
		return
	}
	h.publish(EventConnectionCreated, conn)
	respondJSON(w, http.StatusCreated, conn)
}

// UpdateConnection handles PATCH /api/connections/{id}.
func (h *GraphHandlers) UpdateConnection(w http.ResponseWriter, r *http.Request) {
	var patch types.ConnectionPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}

	conn, err := h.graph.UpdateConnection(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		respondDomainError(w, "failed to update connection", err)
		return
	}
	h.publish(EventConnectionUpdated, conn)
	respondJSON(w, http.StatusOK, conn)
}

// DeleteConnection handles DELETE /api/connections/{id}. Unknown ids succeed.
func (h *GraphHandlers) DeleteConnection(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.graph.DeleteConnection(r.Context(), id); err != nil {
		respondDomainError(w, "failed to delete connection", err)
		return
	}
	h.publish(EventConnectionDeleted, map[string]string{"id": id})
	w.WriteHeader(http.StatusNoContent)
}

// Clusters handles GET /api/clusters.
func (h *GraphHandlers) Clusters(w http.ResponseWriter, r *http.Request) {
	clusters := h.graph.GetConnectionClusters()
	if clusters == nil {
		clusters = []types.EntityCluster{}
	}
	respondJSON(w, http.StatusOK, ClustersResponse{Clusters: clusters})
}
