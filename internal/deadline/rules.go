// Package deadline implements the deadline rule engine: a jurisdiction-keyed
// rule repository, a business-day aware deadline calculator, the alert
// cascade generator and the escalation policy.
package deadline

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/scrypster/caseflow/pkg/types"
)

// DefaultJurisdiction is used when a lookup names an unknown jurisdiction.
const DefaultJurisdiction = "federal"

var (
	// ErrInvalidRule is returned when a rule is missing required fields.
	ErrInvalidRule = errors.New("invalid deadline rule")

	// ErrDuplicateRule is returned when a jurisdiction already has a rule
	// with the same id.
	ErrDuplicateRule = errors.New("duplicate deadline rule")

	// ErrNoRules is returned when neither the requested jurisdiction nor
	// the default jurisdiction has any rules.
	ErrNoRules = errors.New("no deadline rules available")
)

// Repository maps jurisdictions to ordered rule lists. Jurisdiction keys are
// case-insensitive. Rules are append-only.
type Repository struct {
	mu    sync.RWMutex
	rules map[string][]types.DeadlineRule
}

// NewRepository returns a repository preloaded with the built-in rule tables.
func NewRepository() *Repository {
	r := NewEmptyRepository()
	for _, j := range builtinJurisdictions() {
		for _, rule := range j.rules {
			if err := r.AddRule(j.name, rule); err != nil {
				panic(fmt.Sprintf("deadline: bad built-in rule %s: %v", rule.ID, err))
			}
		}
	}
	return r
}

// NewEmptyRepository returns a repository with no rules.
func NewEmptyRepository() *Repository {
	return &Repository{rules: make(map[string][]types.DeadlineRule)}
}

func normalizeJurisdiction(j string) string {
	return strings.ToLower(strings.TrimSpace(j))
}

// Lookup resolves the rule for jurisdiction and ruleType. An unknown
// jurisdiction falls back to DefaultJurisdiction; a jurisdiction without a
// rule of the requested type falls back to its first rule. The returned
// string is the jurisdiction whose rules were used.
func (r *Repository) Lookup(jurisdiction string, ruleType types.RuleType) (types.DeadlineRule, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := normalizeJurisdiction(jurisdiction)
	list, ok := r.rules[key]
	if !ok || len(list) == 0 {
		key = DefaultJurisdiction
		list = r.rules[key]
	}
	if len(list) == 0 {
		return types.DeadlineRule{}, "", fmt.Errorf("jurisdiction %q: %w", jurisdiction, ErrNoRules)
	}

	for _, rule := range list {
		if rule.Type == ruleType {
			return cloneRule(rule), key, nil
		}
	}
	return cloneRule(list[0]), key, nil
}

// AddRule appends rule to jurisdiction, creating the jurisdiction if absent.
func (r *Repository) AddRule(jurisdiction string, rule types.DeadlineRule) error {
	key := normalizeJurisdiction(jurisdiction)
	if key == "" {
		return fmt.Errorf("%w: jurisdiction is required", ErrInvalidRule)
	}
	if err := validateRule(rule); err != nil {
		return err
	}
	if rule.Jurisdiction == "" {
		rule.Jurisdiction = strings.TrimSpace(jurisdiction)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.rules[key] {
		if existing.ID == rule.ID {
			return fmt.Errorf("rule %s in %s: %w", rule.ID, key, ErrDuplicateRule)
		}
	}
	r.rules[key] = append(r.rules[key], cloneRule(rule))
	return nil
}

// Jurisdictions returns the known jurisdiction keys in ascending order.
func (r *Repository) Jurisdictions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.rules))
	for j := range r.rules {
		out = append(out, j)
	}
	sort.Strings(out)
	return out
}

// Rules returns a copy of jurisdiction's rules in registration order. An
// unknown jurisdiction yields an empty slice.
func (r *Repository) Rules(jurisdiction string) []types.DeadlineRule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.rules[normalizeJurisdiction(jurisdiction)]
	out := make([]types.DeadlineRule, 0, len(list))
	for _, rule := range list {
		out = append(out, cloneRule(rule))
	}
	return out
}

func validateRule(rule types.DeadlineRule) error {
	switch {
	case strings.TrimSpace(rule.ID) == "":
		return fmt.Errorf("%w: id is required", ErrInvalidRule)
	case strings.TrimSpace(rule.Name) == "":
		return fmt.Errorf("%w: rule %s: name is required", ErrInvalidRule, rule.ID)
	case !types.IsValidRuleType(rule.Type):
		return fmt.Errorf("%w: rule %s: unknown type %q", ErrInvalidRule, rule.ID, rule.Type)
	case rule.BaseDays < 1:
		return fmt.Errorf("%w: rule %s: base_days must be positive", ErrInvalidRule, rule.ID)
	}
	return nil
}

func cloneRule(rule types.DeadlineRule) types.DeadlineRule {
	if rule.Citations != nil {
		rule.Citations = append([]string(nil), rule.Citations...)
	}
	return rule
}
