package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/caseflow/internal/deadline"
	"github.com/scrypster/caseflow/internal/ids"
	"github.com/scrypster/caseflow/internal/logging"
	"github.com/scrypster/caseflow/pkg/types"
)

// fakeDispatcher records dispatched alerts.
type fakeDispatcher struct {
	enabled bool
	err     error
	alerts  []types.DeadlineAlert
	esc     []types.Escalation
}

func (f *fakeDispatcher) Enabled() bool { return f.enabled }

func (f *fakeDispatcher) Dispatch(ctx context.Context, alert types.DeadlineAlert, esc types.Escalation) error {
	f.alerts = append(f.alerts, alert)
	f.esc = append(f.esc, esc)
	return f.err
}

func setupDeadlineHandlers(t *testing.T, now time.Time, dispatcher EscalationDispatcher) (*DeadlineHandlers, *recordingBroadcaster) {
	t.Helper()
	engine := deadline.New(deadline.Options{
		IDs:    ids.NewSequenceProvider(),
		Now:    func() time.Time { return now },
		Logger: logging.Discard(),
	})
	events := &recordingBroadcaster{}
	return NewDeadlineHandlers(engine, dispatcher, events, logging.Discard()), events
}

var julyFirst = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

func TestListJurisdictions(t *testing.T) {
	h, _ := setupDeadlineHandlers(t, julyFirst, nil)

	w := httptest.NewRecorder()
	h.ListJurisdictions(w, httptest.NewRequest(http.MethodGet, "/api/jurisdictions", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp JurisdictionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"california", "federal", "new york", "texas"}, resp.Jurisdictions)
}

func TestJurisdictionRules(t *testing.T) {
	h, _ := setupDeadlineHandlers(t, julyFirst, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/jurisdictions/federal/rules", nil)
	req.SetPathValue("name", "federal")
	w := httptest.NewRecorder()
	h.JurisdictionRules(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp RulesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Rules)
	assert.Equal(t, "frcp-12-answer", resp.Rules[0].ID)

	req = httptest.NewRequest(http.MethodGet, "/api/jurisdictions/narnia/rules", nil)
	req.SetPathValue("name", "narnia")
	w = httptest.NewRecorder()
	h.JurisdictionRules(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCalculate_FederalResponse(t *testing.T) {
	h, _ := setupDeadlineHandlers(t, julyFirst, nil)

	w := httptest.NewRecorder()
	h.Calculate(w, jsonRequest(t, http.MethodPost, "/api/deadlines/calculate", CalculateRequest{
		StartDate:       "2025-07-01",
		Jurisdiction:    "federal",
		FilingType:      types.RuleResponse,
		PreparationDays: 7,
		CaseID:          "case-1",
	}))
	require.Equal(t, http.StatusOK, w.Code)

	var calc types.DeadlineCalculation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &calc))
	assert.Equal(t, "2025-07-31", calc.Deadline.Format("2006-01-02"))
	assert.Equal(t, "2025-07-30", calc.AlertDates.Warning24h.Format("2006-01-02"))
	assert.Equal(t, "2025-07-17", calc.AlertDates.Warning7.Format("2006-01-02"))
	assert.Equal(t, "federal", calc.Jurisdiction)
	assert.Equal(t, "case-1", calc.CaseID)
}

func TestCalculate_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"missing start date", CalculateRequest{Jurisdiction: "federal", FilingType: types.RuleResponse}},
		{"malformed start date", CalculateRequest{StartDate: "July 1st", FilingType: types.RuleResponse}},
		{"not json", "just a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupDeadlineHandlers(t, julyFirst, nil)
			w := httptest.NewRecorder()
			h.Calculate(w, jsonRequest(t, http.MethodPost, "/api/deadlines/calculate", tt.body))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGenerateAlerts_OverdueBroadcast(t *testing.T) {
	h, events := setupDeadlineHandlers(t, time.Date(2025, 8, 5, 12, 0, 0, 0, time.UTC), nil)

	deadlineAt := time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)
	calc := types.DeadlineCalculation{
		Deadline: deadlineAt,
		AlertDates: types.AlertDates{
			Warning90:  deadlineAt.AddDate(0, 0, -90),
			Warning30:  deadlineAt.AddDate(0, 0, -30),
			Warning7:   deadlineAt.AddDate(0, 0, -14),
			Warning24h: deadlineAt.AddDate(0, 0, -1),
		},
		RuleApplied: "Answer to Complaint",
		RiskLevel:   types.RiskCritical,
		CaseID:      "case-1",
	}

	w := httptest.NewRecorder()
	h.GenerateAlerts(w, jsonRequest(t, http.MethodPost, "/api/alerts", AlertsRequest{
		Calculations: []types.DeadlineCalculation{calc},
	}))
	require.Equal(t, http.StatusOK, w.Code)

	var resp AlertsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Alerts, 1)
	assert.Equal(t, types.AlertOverdue, resp.Alerts[0].Type)
	assert.Equal(t, 5, resp.Alerts[0].UrgencyLevel)
	assert.True(t, resp.Alerts[0].Escalated)
	assert.Equal(t, []string{EventDeadlineAlert}, events.types())
}

func TestGenerateAlerts_EmptyList(t *testing.T) {
	h, events := setupDeadlineHandlers(t, julyFirst, nil)

	w := httptest.NewRecorder()
	h.GenerateAlerts(w, jsonRequest(t, http.MethodPost, "/api/alerts", AlertsRequest{}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"alerts":[]}`, w.Body.String())
	assert.Empty(t, events.types())
}

func TestEscalate(t *testing.T) {
	overdue := types.DeadlineAlert{ID: "alert:1", Type: types.AlertOverdue, UrgencyLevel: 5, Escalated: true}

	tests := []struct {
		name           string
		dispatcher     *fakeDispatcher
		wantDispatched bool
		wantError      string
		wantCalls      int
	}{
		{"no dispatcher configured", nil, false, "", 0},
		{"dispatcher disabled", &fakeDispatcher{}, false, "", 0},
		{"delivered", &fakeDispatcher{enabled: true}, true, "", 1},
		{"delivery failed", &fakeDispatcher{enabled: true, err: errors.New("circuit breaker is open")}, false, "circuit breaker is open", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dispatcher EscalationDispatcher
			if tt.dispatcher != nil {
				dispatcher = tt.dispatcher
			}
			h, events := setupDeadlineHandlers(t, julyFirst, dispatcher)

			w := httptest.NewRecorder()
			h.Escalate(w, jsonRequest(t, http.MethodPost, "/api/alerts/escalate", EscalateRequest{Alert: overdue}))
			require.Equal(t, http.StatusOK, w.Code)

			var resp EscalateResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, deadline.ChannelAll, resp.Escalation.Channel)
			assert.Equal(t, deadline.PriorityCritical, resp.Escalation.Priority)
			assert.Equal(t, tt.wantDispatched, resp.Dispatched)
			assert.Equal(t, tt.wantError, resp.DispatchError)
			assert.Equal(t, []string{EventDeadlineEscalated}, events.types())

			if tt.dispatcher != nil {
				assert.Len(t, tt.dispatcher.alerts, tt.wantCalls)
			}
		})
	}
}

func TestEscalate_RequiresAlertID(t *testing.T) {
	h, _ := setupDeadlineHandlers(t, julyFirst, nil)
	w := httptest.NewRecorder()
	h.Escalate(w, jsonRequest(t, http.MethodPost, "/api/alerts/escalate", EscalateRequest{}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
