package deadline

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/scrypster/caseflow/pkg/types"
)

// RulesFile is the on-disk rule table format:
//
//	jurisdictions:
//	  oregon:
//	    - id: orcp-7-answer
//	      name: Answer to Complaint
//	      type: response
//	      base_days: 30
//	      exclude_holidays: true
//	      business_days_only: true
//	      citations: ["ORCP 7 C(2)"]
type RulesFile struct {
	Jurisdictions map[string][]types.DeadlineRule `yaml:"jurisdictions"`
}

// ParseRules decodes a YAML rule table.
func ParseRules(data []byte) (*RulesFile, error) {
	var f RulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	return &f, nil
}

// Merge appends every rule in f to r, jurisdictions in name order. Rules
// whose id already exists in their jurisdiction are skipped. It stops at the
// first invalid rule and reports how many rules were added before it.
func (r *Repository) Merge(f *RulesFile) (int, error) {
	if f == nil {
		return 0, nil
	}

	names := make([]string, 0, len(f.Jurisdictions))
	for name := range f.Jurisdictions {
		names = append(names, name)
	}
	sort.Strings(names)

	added := 0
	for _, name := range names {
		for _, rule := range f.Jurisdictions[name] {
			err := r.AddRule(name, rule)
			switch {
			case err == nil:
				added++
			case errors.Is(err, ErrDuplicateRule):
				continue
			default:
				return added, err
			}
		}
	}
	return added, nil
}

// LoadRulesFile reads path and merges its rules into r.
func (r *Repository) LoadRulesFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read rules file: %w", err)
	}
	f, err := ParseRules(data)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return r.Merge(f)
}
