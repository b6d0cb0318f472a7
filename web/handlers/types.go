package handlers

import (
	"github.com/scrypster/caseflow/pkg/types"
)

// ErrorResponse is the standard error response format for the API.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RegisterEntityRequest is the request body for POST /api/entities.
// When CaseID is set and the entity is a task, it is linked to that case.
type RegisterEntityRequest struct {
	types.EntitySummary
	CaseID string `json:"case_id,omitempty"`
}

// RegisterEntityResponse is returned by POST /api/entities.
type RegisterEntityResponse struct {
	Entity   types.EntitySummary     `json:"entity"`
	CaseLink *types.EntityConnection `json:"case_link,omitempty"`
}

// EntityListResponse is returned by GET /api/entities.
type EntityListResponse struct {
	Entities []types.EntitySummary `json:"entities"`
	Total    int                   `json:"total"`
}

// ConnectionListResponse is returned by the connection listing endpoints.
type ConnectionListResponse struct {
	Connections []types.EntityConnection `json:"connections"`
	Total       int                      `json:"total"`
}

// RelatedResponse is returned by GET /api/entities/{id}/related.
type RelatedResponse struct {
	EntityID string                `json:"entity_id"`
	Depth    int                   `json:"depth"`
	Related  []types.EntitySummary `json:"related"`
}

// SuggestionsResponse is returned by GET /api/entities/{id}/suggestions.
type SuggestionsResponse struct {
	EntityID    string                       `json:"entity_id"`
	Suggestions []types.ConnectionSuggestion `json:"suggestions"`
}

// ClustersResponse is returned by GET /api/clusters.
type ClustersResponse struct {
	Clusters []types.EntityCluster `json:"clusters"`
}

// CalculateRequest is the request body for POST /api/deadlines/calculate.
// StartDate accepts YYYY-MM-DD or RFC 3339.
type CalculateRequest struct {
	StartDate       string         `json:"start_date"`
	Jurisdiction    string         `json:"jurisdiction"`
	FilingType      types.RuleType `json:"filing_type"`
	PreparationDays int            `json:"preparation_days,omitempty"`
	CaseID          string         `json:"case_id,omitempty"`
	TaskID          string         `json:"task_id,omitempty"`
}

// AlertsRequest is the request body for POST /api/alerts.
type AlertsRequest struct {
	Calculations []types.DeadlineCalculation `json:"calculations"`
}

// AlertsResponse is returned by POST /api/alerts.
type AlertsResponse struct {
	Alerts []types.DeadlineAlert `json:"alerts"`
}

// EscalateRequest is the request body for POST /api/alerts/escalate.
type EscalateRequest struct {
	Alert types.DeadlineAlert `json:"alert"`
}

// EscalateResponse is returned by POST /api/alerts/escalate.
type EscalateResponse struct {
	Escalation    types.Escalation `json:"escalation"`
	Dispatched    bool             `json:"dispatched"`
	DispatchError string           `json:"dispatch_error,omitempty"`
}

// JurisdictionsResponse is returned by GET /api/jurisdictions.
type JurisdictionsResponse struct {
	Jurisdictions []string `json:"jurisdictions"`
}

// RulesResponse is returned by GET /api/jurisdictions/{name}/rules.
type RulesResponse struct {
	Jurisdiction string               `json:"jurisdiction"`
	Rules        []types.DeadlineRule `json:"rules"`
}
