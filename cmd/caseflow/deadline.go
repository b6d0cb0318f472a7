package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/scrypster/caseflow/internal/deadline"
	"github.com/scrypster/caseflow/pkg/types"
)

const dateFormat = "2006-01-02"

func newDeadlineCmd() *cobra.Command {
	var (
		jurisdiction string
		filingType   string
		start        string
		prep         int
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "deadline",
		Short: "Calculate a court deadline",
		Long: `Calculate a deadline from a trigger date using the rule table of a
jurisdiction, and print its alert cascade and current risk level.

Examples:
  caseflow deadline --start 2025-07-01
  caseflow deadline --jurisdiction california --type appeal --start 2025-07-01
  caseflow deadline --start 2025-07-01 --prep 10 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			startDate, err := deadline.ParseDate(start)
			if err != nil {
				return err
			}
			engine, err := newEngine(cfg, logger)
			if err != nil {
				return err
			}

			calc, err := engine.Calculate(deadline.CalculationRequest{
				StartDate:       startDate,
				Jurisdiction:    jurisdiction,
				FilingType:      types.RuleType(strings.ToLower(filingType)),
				PreparationDays: prep,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(calc)
			}
			printCalculation(out, calc)
			return nil
		},
	}

	cmd.Flags().StringVarP(&jurisdiction, "jurisdiction", "j", deadline.DefaultJurisdiction, "Jurisdiction whose rules apply")
	cmd.Flags().StringVarP(&filingType, "type", "t", string(types.RuleResponse), "Filing type: filing, response, discovery, trial or appeal")
	cmd.Flags().StringVarP(&start, "start", "s", "", "Trigger date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().IntVar(&prep, "prep", 0, "Preparation days (default from CASEFLOW_PREPARATION_DAYS)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the calculation as JSON")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func printCalculation(out io.Writer, calc types.DeadlineCalculation) {
	fmt.Fprintf(out, "Rule:          %s (%s, %s)\n", calc.RuleApplied, calc.RuleID, calc.Jurisdiction)
	fmt.Fprintf(out, "Start date:    %s\n", calc.OriginalDate.Format(dateFormat))
	fmt.Fprintf(out, "Deadline:      %s\n", color.New(color.Bold).Sprint(calc.Deadline.Format(dateFormat)))
	fmt.Fprintf(out, "Preparation:   %d days\n", calc.PreparationTime)
	fmt.Fprintf(out, "Risk:          %s\n", riskLabel(calc.RiskLevel))
	fmt.Fprintln(out, "Alerts:")
	fmt.Fprintf(out, "  90 days:     %s\n", calc.AlertDates.Warning90.Format(dateFormat))
	fmt.Fprintf(out, "  30 days:     %s\n", calc.AlertDates.Warning30.Format(dateFormat))
	fmt.Fprintf(out, "  preparation: %s\n", calc.AlertDates.Warning7.Format(dateFormat))
	fmt.Fprintf(out, "  24 hours:    %s\n", calc.AlertDates.Warning24h.Format(dateFormat))
}

// riskLabel colours a risk level for terminal output.
func riskLabel(level types.RiskLevel) string {
	label := strings.ToUpper(string(level))
	switch level {
	case types.RiskCritical:
		return color.New(color.FgHiRed, color.Bold).Sprint(label)
	case types.RiskHigh:
		return color.New(color.FgRed).Sprint(label)
	case types.RiskMedium:
		return color.New(color.FgYellow).Sprint(label)
	default:
		return color.New(color.FgGreen).Sprint(label)
	}
}
