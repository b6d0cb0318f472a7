package deadline

import "github.com/scrypster/caseflow/pkg/types"

type jurisdictionRules struct {
	name  string
	rules []types.DeadlineRule
}

// builtinJurisdictions returns the rule tables shipped with the engine. The
// first rule of each jurisdiction is its fallback.
func builtinJurisdictions() []jurisdictionRules {
	return []jurisdictionRules{
		{
			name: "federal",
			rules: []types.DeadlineRule{
				{
					ID: "frcp-12-answer", Name: "Answer to Complaint", Type: types.RuleResponse,
					BaseDays: 21, ExcludeWeekends: true, ExcludeHolidays: true, BusinessDaysOnly: true,
					Citations: []string{"Fed. R. Civ. P. 12(a)(1)(A)(i)"},
				},
				{
					ID: "frcp-33-discovery", Name: "Response to Interrogatories", Type: types.RuleDiscovery,
					BaseDays: 30, ExcludeWeekends: true, ExcludeHolidays: true, BusinessDaysOnly: true,
					Citations: []string{"Fed. R. Civ. P. 33(b)(2)", "Fed. R. Civ. P. 34(b)(2)(A)"},
				},
				{
					ID: "frcp-6-motion", Name: "Opposition to Motion", Type: types.RuleFiling,
					BaseDays: 14, ExcludeWeekends: true, ExcludeHolidays: true, BusinessDaysOnly: true,
					Citations: []string{"Fed. R. Civ. P. 6(c)(1)"},
				},
				{
					ID: "frcp-26-pretrial", Name: "Pretrial Disclosures", Type: types.RuleTrial,
					BaseDays: 30, ExcludeWeekends: false, ExcludeHolidays: false, BusinessDaysOnly: true,
					Citations: []string{"Fed. R. Civ. P. 26(a)(3)(B)"},
				},
				{
					ID: "frap-4-appeal", Name: "Notice of Appeal", Type: types.RuleAppeal,
					BaseDays: 30, ExcludeWeekends: false, ExcludeHolidays: false, BusinessDaysOnly: true,
					Citations: []string{"Fed. R. App. P. 4(a)(1)(A)"},
				},
			},
		},
		{
			name: "california",
			rules: []types.DeadlineRule{
				{
					ID: "ccp-412-answer", Name: "Response to Complaint", Type: types.RuleResponse,
					BaseDays: 30, ExcludeWeekends: false, ExcludeHolidays: true, BusinessDaysOnly: true,
					Citations: []string{"Cal. Civ. Proc. Code § 412.20(a)(3)"},
				},
				{
					ID: "ccp-2030-discovery", Name: "Response to Interrogatories", Type: types.RuleDiscovery,
					BaseDays: 30, ExcludeWeekends: false, ExcludeHolidays: true, BusinessDaysOnly: true,
					Citations: []string{"Cal. Civ. Proc. Code § 2030.260(a)"},
				},
				{
					ID: "crc-8104-appeal", Name: "Notice of Appeal", Type: types.RuleAppeal,
					BaseDays: 60, ExcludeWeekends: false, ExcludeHolidays: false, BusinessDaysOnly: true,
					Citations: []string{"Cal. Rules of Court, rule 8.104(a)"},
				},
			},
		},
		{
			name: "new york",
			rules: []types.DeadlineRule{
				{
					ID: "cplr-320-answer", Name: "Answer to Summons", Type: types.RuleResponse,
					BaseDays: 20, ExcludeWeekends: false, ExcludeHolidays: true, BusinessDaysOnly: true,
					Citations: []string{"N.Y. C.P.L.R. 320(a)"},
				},
				{
					ID: "cplr-5513-appeal", Name: "Notice of Appeal", Type: types.RuleAppeal,
					BaseDays: 30, ExcludeWeekends: false, ExcludeHolidays: false, BusinessDaysOnly: true,
					Citations: []string{"N.Y. C.P.L.R. 5513(a)"},
				},
			},
		},
		{
			name: "texas",
			rules: []types.DeadlineRule{
				{
					ID: "trcp-99-answer", Name: "Answer to Petition", Type: types.RuleResponse,
					BaseDays: 20, ExcludeWeekends: false, ExcludeHolidays: true, BusinessDaysOnly: true,
					Citations: []string{"Tex. R. Civ. P. 99(b)"},
				},
				{
					ID: "trcp-196-discovery", Name: "Response to Requests for Production", Type: types.RuleDiscovery,
					BaseDays: 30, ExcludeWeekends: false, ExcludeHolidays: true, BusinessDaysOnly: true,
					Citations: []string{"Tex. R. Civ. P. 196.2"},
				},
				{
					ID: "trap-26-appeal", Name: "Notice of Appeal", Type: types.RuleAppeal,
					BaseDays: 30, ExcludeWeekends: false, ExcludeHolidays: false, BusinessDaysOnly: true,
					Citations: []string{"Tex. R. App. P. 26.1"},
				},
			},
		},
	}
}
