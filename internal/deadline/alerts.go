package deadline

import (
	"fmt"
	"sort"
	"time"

	"github.com/scrypster/caseflow/pkg/types"
)

const (
	maxUrgency    = 5
	alertIDPrefix = "alert"
)

type alertStep struct {
	kind    types.AlertType
	urgency int
	date    func(types.AlertDates) time.Time
	label   string
}

var alertCascade = []alertStep{
	{types.AlertWarning90, 1, func(a types.AlertDates) time.Time { return a.Warning90 }, "90 days"},
	{types.AlertWarning30, 2, func(a types.AlertDates) time.Time { return a.Warning30 }, "30 days"},
	{types.AlertWarning7, 3, func(a types.AlertDates) time.Time { return a.Warning7 }, "preparation window"},
	{types.AlertWarning24h, 4, func(a types.AlertDates) time.Time { return a.Warning24h }, "24 hours"},
}

// GenerateAlerts returns the alerts that are currently due for calcs, most
// urgent first. A cascade alert is due while its date has been reached and
// the deadline has not. A passed deadline additionally yields an overdue
// alert.
func (e *Engine) GenerateAlerts(calcs []types.DeadlineCalculation) []types.DeadlineAlert {
	now := e.now()
	alerts := make([]types.DeadlineAlert, 0)

	for _, calc := range calcs {
		critical := calc.RiskLevel == types.RiskCritical

		for _, step := range alertCascade {
			at := step.date(calc.AlertDates)
			if at.After(now) || !now.Before(calc.Deadline) {
				continue
			}
			urgency := step.urgency
			if critical {
				urgency = min(maxUrgency, urgency+1)
			}
			alerts = append(alerts, e.newAlert(calc, step.kind, urgency, critical, now,
				fmt.Sprintf("%s due %s (%s alert)", ruleLabel(calc), calc.Deadline.Format(dateLayout), step.label)))
		}

		if now.After(calc.Deadline) {
			alerts = append(alerts, e.newAlert(calc, types.AlertOverdue, maxUrgency, true, now,
				fmt.Sprintf("%s overdue since %s", ruleLabel(calc), calc.Deadline.Format(dateLayout))))
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].UrgencyLevel > alerts[j].UrgencyLevel
	})
	return alerts
}

func (e *Engine) newAlert(calc types.DeadlineCalculation, kind types.AlertType, urgency int, escalated bool, now time.Time, desc string) types.DeadlineAlert {
	return types.DeadlineAlert{
		ID:           e.ids.NewID(alertIDPrefix),
		CaseID:       calc.CaseID,
		TaskID:       calc.TaskID,
		Type:         kind,
		Deadline:     calc.Deadline,
		Description:  desc,
		UrgencyLevel: urgency,
		Escalated:    escalated,
		CreatedAt:    now,
	}
}

func ruleLabel(calc types.DeadlineCalculation) string {
	if calc.RuleApplied == "" {
		return "Deadline"
	}
	return calc.RuleApplied
}
