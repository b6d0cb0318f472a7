package deadline

import (
	"fmt"
	"math"
	"time"

	"github.com/scrypster/caseflow/internal/storage"
	"github.com/scrypster/caseflow/pkg/types"
)

const day = 24 * time.Hour

// CalculationRequest is the input to Calculate.
type CalculationRequest struct {
	StartDate       time.Time      `json:"start_date"`
	Jurisdiction    string         `json:"jurisdiction"`
	FilingType      types.RuleType `json:"filing_type"`
	PreparationDays int            `json:"preparation_days,omitempty"`
	CaseID          string         `json:"case_id,omitempty"`
	TaskID          string         `json:"task_id,omitempty"`
}

// Calculate resolves the applicable rule and computes the deadline, its alert
// cascade and the current risk level. For a fixed clock the result depends
// only on the request.
func (e *Engine) Calculate(req CalculationRequest) (types.DeadlineCalculation, error) {
	if req.StartDate.IsZero() {
		return types.DeadlineCalculation{}, fmt.Errorf("%w: start date is required", storage.ErrInvalidInput)
	}
	prep := req.PreparationDays
	if prep <= 0 {
		prep = e.prepDays
	}

	rule, jurisdiction, err := e.rules.Lookup(req.Jurisdiction, req.FilingType)
	if err != nil {
		return types.DeadlineCalculation{}, err
	}
	if rule.Type != req.FilingType {
		e.logger.Warn("deadline: no rule for filing type, using first rule",
			"jurisdiction", jurisdiction,
			"filing_type", req.FilingType,
			"rule", rule.ID)
	}

	deadline := e.countQualifyingDays(req.StartDate, rule)
	if rule.BusinessDaysOnly {
		for isWeekend(deadline) {
			deadline = deadline.AddDate(0, 0, 1)
		}
	}

	return types.DeadlineCalculation{
		OriginalDate:    req.StartDate,
		Deadline:        deadline,
		PreparationTime: prep,
		AlertDates:      alertDates(deadline, prep),
		Jurisdiction:    jurisdiction,
		RuleApplied:     rule.Name,
		RuleID:          rule.ID,
		RiskLevel:       riskLevel(deadline, e.now(), prep),
		CaseID:          req.CaseID,
		TaskID:          req.TaskID,
	}, nil
}

// countQualifyingDays advances one calendar day at a time from start and
// returns the day on which rule.BaseDays qualifying days have been counted.
func (e *Engine) countQualifyingDays(start time.Time, rule types.DeadlineRule) time.Time {
	current := start
	counted := 0
	for counted < rule.BaseDays {
		current = current.AddDate(0, 0, 1)
		if rule.ExcludeWeekends && isWeekend(current) {
			continue
		}
		if rule.ExcludeHolidays && e.holidays.IsHoliday(current) {
			continue
		}
		counted++
	}
	return current
}

func alertDates(deadline time.Time, prepDays int) types.AlertDates {
	return types.AlertDates{
		Warning90:  deadline.AddDate(0, 0, -90),
		Warning30:  deadline.AddDate(0, 0, -30),
		Warning7:   deadline.AddDate(0, 0, -prepDays-7),
		Warning24h: deadline.AddDate(0, 0, -1),
	}
}

// daysRemaining is the ceiling of the whole days between now and deadline.
// It is negative once the deadline has passed.
func daysRemaining(deadline, now time.Time) int {
	return int(math.Ceil(float64(deadline.Sub(now)) / float64(day)))
}

func riskLevel(deadline, now time.Time, prepDays int) types.RiskLevel {
	days := daysRemaining(deadline, now)
	switch {
	case days <= 1:
		return types.RiskCritical
	case days <= 7:
		return types.RiskHigh
	case days <= prepDays+7:
		return types.RiskMedium
	default:
		return types.RiskLow
	}
}
