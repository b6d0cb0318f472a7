package types

import "time"

// RuleType classifies the procedural event a deadline rule governs.
type RuleType string

// RiskLevel is a coarse urgency classification of a deadline.
type RiskLevel string

// AlertType identifies a step of the alert cascade.
type AlertType string

// Rule type constants
const (
	RuleFiling    RuleType = "filing"
	RuleResponse  RuleType = "response"
	RuleDiscovery RuleType = "discovery"
	RuleTrial     RuleType = "trial"
	RuleAppeal    RuleType = "appeal"
)

// ValidRuleTypes is a slice of all valid rule types for validation
var ValidRuleTypes = []RuleType{
	RuleFiling,
	RuleResponse,
	RuleDiscovery,
	RuleTrial,
	RuleAppeal,
}

// Risk level constants
const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Alert type constants
const (
	AlertWarning90  AlertType = "warning90"
	AlertWarning30  AlertType = "warning30"
	AlertWarning7   AlertType = "warning7"
	AlertWarning24h AlertType = "warning24h"
	AlertOverdue    AlertType = "overdue"
)

// IsValidRuleType checks if the given rule type is valid
func IsValidRuleType(ruleType RuleType) bool {
	for _, validType := range ValidRuleTypes {
		if validType == ruleType {
			return true
		}
	}
	return false
}

// DeadlineRule describes how a jurisdiction counts the days for one kind of
// procedural deadline. Rules are immutable once registered.
type DeadlineRule struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Jurisdiction     string   `json:"jurisdiction" yaml:"jurisdiction,omitempty"`
	Type             RuleType `json:"type" yaml:"type"`
	BaseDays         int      `json:"base_days" yaml:"base_days"`
	ExcludeWeekends  bool     `json:"exclude_weekends" yaml:"exclude_weekends"`
	ExcludeHolidays  bool     `json:"exclude_holidays" yaml:"exclude_holidays"`
	BusinessDaysOnly bool     `json:"business_days_only" yaml:"business_days_only"`
	Citations        []string `json:"citations,omitempty" yaml:"citations,omitempty"`
}

// AlertDates is the alert cascade preceding a deadline.
type AlertDates struct {
	Warning90  time.Time `json:"warning90"`
	Warning30  time.Time `json:"warning30"`
	Warning7   time.Time `json:"warning7"` // 7 days before preparation starts
	Warning24h time.Time `json:"warning24h"`
}

// DeadlineCalculation is the derived result of applying a rule to a start
// date. It is not persisted by the engine.
type DeadlineCalculation struct {
	OriginalDate    time.Time  `json:"original_date"`
	Deadline        time.Time  `json:"deadline"`
	PreparationTime int        `json:"preparation_time"` // Days
	AlertDates      AlertDates `json:"alert_dates"`
	Jurisdiction    string     `json:"jurisdiction"` // Jurisdiction whose rules were used
	RuleApplied     string     `json:"rule_applied"`
	RuleID          string     `json:"rule_id"`
	RiskLevel       RiskLevel  `json:"risk_level"`
	CaseID          string     `json:"case_id,omitempty"`
	TaskID          string     `json:"task_id,omitempty"`
}

// DeadlineAlert is a time-relevant alert derived from a calculation.
type DeadlineAlert struct {
	ID           string    `json:"id"`
	CaseID       string    `json:"case_id,omitempty"`
	TaskID       string    `json:"task_id,omitempty"`
	Type         AlertType `json:"type"`
	Deadline     time.Time `json:"deadline"`
	Description  string    `json:"description"`
	UrgencyLevel int       `json:"urgency_level"` // 1-5
	Escalated    bool      `json:"escalated"`
	Acknowledged bool      `json:"acknowledged"`
	CreatedAt    time.Time `json:"created_at"`
}

// Escalation is the notification routing decided for an alert.
type Escalation struct {
	Channel    string   `json:"channel"`    // all, sms or email
	Recipients []string `json:"recipients"` // primary, backup, assistant
	Priority   string   `json:"priority"`   // critical or high
}
