package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newJurisdictionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jurisdictions [name]",
		Short: "List jurisdictions, or the rule table of one jurisdiction",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			engine, err := newEngine(cfg, logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				for _, j := range engine.GetAvailableJurisdictions() {
					fmt.Fprintf(out, "%s (%d rules)\n", j, len(engine.GetJurisdictionRules(j)))
				}
				return nil
			}

			rules := engine.GetJurisdictionRules(args[0])
			if len(rules) == 0 {
				return fmt.Errorf("unknown jurisdiction %q", args[0])
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tDAYS\tCOUNTING\tNAME\tCITATIONS")
			for _, r := range rules {
				counting := "calendar"
				if r.BusinessDaysOnly || (r.ExcludeWeekends && r.ExcludeHolidays) {
					counting = "court"
				} else if r.ExcludeWeekends {
					counting = "weekdays"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
					color.New(color.FgCyan).Sprint(r.ID), r.Type, r.BaseDays, counting, r.Name,
					strings.Join(r.Citations, "; "))
			}
			return tw.Flush()
		},
	}
}
