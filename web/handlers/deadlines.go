package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/scrypster/caseflow/internal/deadline"
	"github.com/scrypster/caseflow/pkg/types"
)

// EscalationDispatcher delivers escalated alerts to an external channel.
type EscalationDispatcher interface {
	Enabled() bool
	Dispatch(ctx context.Context, alert types.DeadlineAlert, esc types.Escalation) error
}

// DeadlineHandlers contains HTTP handlers for the deadline rule engine.
type DeadlineHandlers struct {
	engine     *deadline.Engine
	dispatcher EscalationDispatcher
	events     Broadcaster
	logger     *slog.Logger
}

// NewDeadlineHandlers creates a new DeadlineHandlers instance.
// dispatcher and events may be nil.
func NewDeadlineHandlers(engine *deadline.Engine, dispatcher EscalationDispatcher, events Broadcaster, logger *slog.Logger) *DeadlineHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeadlineHandlers{
		engine:     engine,
		dispatcher: dispatcher,
		events:     events,
		logger:     logger,
	}
}

// ListJurisdictions handles GET /api/jurisdictions.
func (h *DeadlineHandlers) ListJurisdictions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, JurisdictionsResponse{Jurisdictions: h.engine.GetAvailableJurisdictions()})
}

// JurisdictionRules handles GET /api/jurisdictions/{name}/rules.
func (h *DeadlineHandlers) JurisdictionRules(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	rules := h.engine.GetJurisdictionRules(name)
	if len(rules) == 0 {
		respondError(w, http.StatusNotFound, "unknown jurisdiction", nil)
		return
	}
	respondJSON(w, http.StatusOK, RulesResponse{Jurisdiction: name, Rules: rules})
}

// Calculate handles POST /api/deadlines/calculate.
func (h *DeadlineHandlers) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}
	if req.StartDate == "" {
		respondError(w, http.StatusBadRequest, "start_date is required", nil)
		return
	}

	start, err := deadline.ParseDate(req.StartDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid start_date", err)
		return
	}

	calc, err := h.engine.Calculate(deadline.CalculationRequest{
		StartDate:       start,
		Jurisdiction:    req.Jurisdiction,
		FilingType:      req.FilingType,
		PreparationDays: req.PreparationDays,
		CaseID:          req.CaseID,
		TaskID:          req.TaskID,
	})
	if err != nil {
		respondDomainError(w, "failed to calculate deadline", err)
		return
	}
	respondJSON(w, http.StatusOK, calc)
}

// GenerateAlerts handles POST /api/alerts - returns the alerts currently due
// for the posted calculations and pushes each to websocket subscribers.
func (h *DeadlineHandlers) GenerateAlerts(w http.ResponseWriter, r *http.Request) {
	var req AlertsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}

	alerts := h.engine.GenerateAlerts(req.Calculations)
	if h.events != nil {
		for _, alert := range alerts {
			h.events.Broadcast(Event{Type: EventDeadlineAlert, Data: alert, Timestamp: time.Now().UTC()})
		}
	}
	respondJSON(w, http.StatusOK, AlertsResponse{Alerts: alerts})
}

// Escalate handles POST /api/alerts/escalate - decides the routing for an
// alert and hands it to the dispatcher when one is configured. A failed
// delivery is reported in the body; the routing decision still succeeds.
func (h *DeadlineHandlers) Escalate(w http.ResponseWriter, r *http.Request) {
	var req EscalateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse request body", err)
		return
	}
	if req.Alert.ID == "" {
		respondError(w, http.StatusBadRequest, "alert.id is required", nil)
		return
	}

	esc := h.engine.EscalateDeadline(req.Alert)
	resp := EscalateResponse{Escalation: esc}

	if h.dispatcher != nil && h.dispatcher.Enabled() {
		if err := h.dispatcher.Dispatch(r.Context(), req.Alert, esc); err != nil {
			h.logger.Warn("escalation dispatch failed", "alert", req.Alert.ID, "error", err)
			resp.DispatchError = err.Error()
		} else {
			resp.Dispatched = true
		}
	}

	if h.events != nil {
		h.events.Broadcast(Event{
			Type:      EventDeadlineEscalated,
			Data:      map[string]interface{}{"alert": req.Alert, "escalation": esc},
			Timestamp: time.Now().UTC(),
		})
	}
	respondJSON(w, http.StatusOK, resp)
}
