package main

import (
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/scrypster/caseflow/internal/backup"
	"github.com/scrypster/caseflow/internal/config"
)

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up, list and restore the SQLite database",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "now",
			Short: "Take a backup immediately",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := backupServiceFromEnv()
				if err != nil {
					return err
				}
				result, err := svc.BackupNow(cmd.Context())
				if err != nil {
					return err
				}
				verified := color.New(color.FgYellow).Sprint("unverified")
				if result.Verified {
					verified = color.New(color.FgGreen).Sprint("verified")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes, %s)\n", result.Path, result.Size, verified)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List stored backups, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := backupServiceFromEnv()
				if err != nil {
					return err
				}
				backups, err := svc.List()
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "TAKEN\tSIZE\tPATH")
				for _, b := range backups {
					fmt.Fprintf(tw, "%s\t%d\t%s\n", b.Timestamp.Format(time.RFC3339), b.Size, b.Path)
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "restore <backup-file>",
			Short: "Replace the database with a backup (stop the server first)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := backupServiceFromEnv()
				if err != nil {
					return err
				}
				if err := svc.Restore(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "restored from %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

func backupServiceFromEnv() (*backup.Service, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newBackupService(cfg, logger)
}

// newBackupService builds the backup service for the sqlite engine.
func newBackupService(cfg *config.Config, logger *slog.Logger) (*backup.Service, error) {
	if cfg.Storage.StorageEngine != config.EngineSQLite {
		return nil, errors.New("backups are only supported for the sqlite storage engine")
	}
	return backup.NewService(backup.Options{
		DBPath:   cfg.SQLitePath(),
		Dir:      cfg.Backup.Dir,
		Interval: cfg.Backup.Interval,
		Retention: backup.RetentionPolicy{
			Hourly:  cfg.Backup.KeepHourly,
			Daily:   cfg.Backup.KeepDaily,
			Weekly:  cfg.Backup.KeepWeekly,
			Monthly: cfg.Backup.KeepMonthly,
		},
		Logger: logger,
	})
}
