package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/caseflow/pkg/types"
)

func federalAnswer(t *testing.T, now time.Time) (*Engine, types.DeadlineCalculation) {
	t.Helper()
	e := newTestEngine(t, now)
	calc, err := e.Calculate(CalculationRequest{
		StartDate:    date(2025, 7, 1),
		Jurisdiction: "federal",
		FilingType:   types.RuleResponse,
		CaseID:       "case-1",
		TaskID:       "task-1",
	})
	require.NoError(t, err)
	return e, calc
}

func alertTypes(alerts []types.DeadlineAlert) []types.AlertType {
	out := make([]types.AlertType, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Type)
	}
	return out
}

func TestGenerateAlerts_OverdueOnly(t *testing.T) {
	e, calc := federalAnswer(t, date(2025, 8, 5))
	require.Equal(t, types.RiskCritical, calc.RiskLevel)

	alerts := e.GenerateAlerts([]types.DeadlineCalculation{calc})
	require.Len(t, alerts, 1)

	a := alerts[0]
	assert.Equal(t, types.AlertOverdue, a.Type)
	assert.Equal(t, 5, a.UrgencyLevel)
	assert.True(t, a.Escalated)
	assert.False(t, a.Acknowledged)
	assert.Equal(t, "case-1", a.CaseID)
	assert.Equal(t, "task-1", a.TaskID)
	assert.Equal(t, calc.Deadline, a.Deadline)
	assert.Equal(t, "alert:1", a.ID)
	assert.Equal(t, date(2025, 8, 5), a.CreatedAt)
	assert.Contains(t, a.Description, "Answer to Complaint")
}

func TestGenerateAlerts_OpenWindows(t *testing.T) {
	now := date(2025, 7, 20).Add(12 * time.Hour)
	e, calc := federalAnswer(t, now)
	require.Equal(t, types.RiskMedium, calc.RiskLevel)

	alerts := e.GenerateAlerts([]types.DeadlineCalculation{calc})
	assert.Equal(t,
		[]types.AlertType{types.AlertWarning7, types.AlertWarning30, types.AlertWarning90},
		alertTypes(alerts))

	for _, a := range alerts {
		assert.False(t, a.Escalated)
	}
	assert.Equal(t, 3, alerts[0].UrgencyLevel)
	assert.Equal(t, 2, alerts[1].UrgencyLevel)
	assert.Equal(t, 1, alerts[2].UrgencyLevel)
}

func TestGenerateAlerts_CriticalBumpsUrgency(t *testing.T) {
	e, calc := federalAnswer(t, date(2025, 7, 30).Add(12*time.Hour))
	require.Equal(t, types.RiskCritical, calc.RiskLevel)

	alerts := e.GenerateAlerts([]types.DeadlineCalculation{calc})
	require.Len(t, alerts, 4)

	want := map[types.AlertType]int{
		types.AlertWarning24h: 5,
		types.AlertWarning7:   4,
		types.AlertWarning30:  3,
		types.AlertWarning90:  2,
	}
	for _, a := range alerts {
		assert.Equal(t, want[a.Type], a.UrgencyLevel, a.Type)
		assert.True(t, a.Escalated)
	}
	assert.Equal(t, types.AlertWarning24h, alerts[0].Type)
}

func TestGenerateAlerts_NothingDueYet(t *testing.T) {
	e, calc := federalAnswer(t, date(2025, 4, 1))
	alerts := e.GenerateAlerts([]types.DeadlineCalculation{calc})
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}

func TestGenerateAlerts_DeadlineInstantIsNeitherOpenNorOverdue(t *testing.T) {
	e, calc := federalAnswer(t, date(2025, 7, 31))
	assert.Empty(t, e.GenerateAlerts([]types.DeadlineCalculation{calc}))
}

func TestGenerateAlerts_MergesAndSortsAcrossCalculations(t *testing.T) {
	now := date(2025, 7, 20).Add(12 * time.Hour)
	e := newTestEngine(t, now)

	open, err := e.Calculate(CalculationRequest{StartDate: date(2025, 7, 1), Jurisdiction: "federal", FilingType: types.RuleResponse, CaseID: "open"})
	require.NoError(t, err)
	overdue, err := e.Calculate(CalculationRequest{StartDate: date(2025, 6, 1), Jurisdiction: "federal", FilingType: types.RuleFiling, CaseID: "late"})
	require.NoError(t, err)

	alerts := e.GenerateAlerts([]types.DeadlineCalculation{open, overdue})
	require.Len(t, alerts, 4)

	assert.Equal(t, types.AlertOverdue, alerts[0].Type)
	assert.Equal(t, "late", alerts[0].CaseID)
	for i := 1; i < len(alerts); i++ {
		assert.GreaterOrEqual(t, alerts[i-1].UrgencyLevel, alerts[i].UrgencyLevel)
		assert.Equal(t, "open", alerts[i].CaseID)
	}

	seen := map[string]bool{}
	for _, a := range alerts {
		assert.False(t, seen[a.ID], "duplicate id %s", a.ID)
		seen[a.ID] = true
	}
}

func TestEscalate(t *testing.T) {
	tests := []struct {
		name       string
		alert      types.DeadlineAlert
		channel    string
		recipients []string
		priority   string
	}{
		{
			"overdue",
			types.DeadlineAlert{Type: types.AlertOverdue, UrgencyLevel: 5},
			ChannelAll, []string{RolePrimary, RoleBackup, RoleAssistant}, PriorityCritical,
		},
		{
			"overdue with low urgency is still critical",
			types.DeadlineAlert{Type: types.AlertOverdue, UrgencyLevel: 1},
			ChannelAll, []string{RolePrimary, RoleBackup, RoleAssistant}, PriorityCritical,
		},
		{
			"urgency five",
			types.DeadlineAlert{Type: types.AlertWarning24h, UrgencyLevel: 5},
			ChannelAll, []string{RolePrimary, RoleBackup, RoleAssistant}, PriorityCritical,
		},
		{
			"urgency four",
			types.DeadlineAlert{Type: types.AlertWarning24h, UrgencyLevel: 4},
			ChannelSMS, []string{RolePrimary}, PriorityHigh,
		},
		{
			"routine",
			types.DeadlineAlert{Type: types.AlertWarning30, UrgencyLevel: 2},
			ChannelEmail, []string{RolePrimary}, PriorityHigh,
		},
	}

	e := newTestEngine(t, date(2025, 7, 1))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.EscalateDeadline(tt.alert)
			assert.Equal(t, tt.channel, got.Channel)
			assert.Equal(t, tt.recipients, got.Recipients)
			assert.Equal(t, tt.priority, got.Priority)
		})
	}
}
