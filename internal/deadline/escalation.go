package deadline

import "github.com/scrypster/caseflow/pkg/types"

// Escalation channels, recipient roles and priorities.
const (
	ChannelAll   = "all"
	ChannelSMS   = "sms"
	ChannelEmail = "email"

	RolePrimary   = "primary"
	RoleBackup    = "backup"
	RoleAssistant = "assistant"

	PriorityCritical = "critical"
	PriorityHigh     = "high"
)

// Escalate decides how an alert is routed. Overdue alerts and alerts at
// maximum urgency go to everyone on every channel; urgency 4 goes out by SMS;
// anything lower by email to the primary contact only.
func Escalate(alert types.DeadlineAlert) types.Escalation {
	urgent := alert.UrgencyLevel >= 4
	critical := alert.Type == types.AlertOverdue || alert.UrgencyLevel == maxUrgency

	esc := types.Escalation{
		Channel:    ChannelEmail,
		Recipients: []string{RolePrimary},
		Priority:   PriorityHigh,
	}
	switch {
	case critical:
		esc.Channel = ChannelAll
		esc.Recipients = []string{RolePrimary, RoleBackup, RoleAssistant}
		esc.Priority = PriorityCritical
	case urgent:
		esc.Channel = ChannelSMS
	}
	return esc
}

// EscalateDeadline applies the escalation policy to alert.
func (e *Engine) EscalateDeadline(alert types.DeadlineAlert) types.Escalation {
	return Escalate(alert)
}
