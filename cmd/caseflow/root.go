package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/scrypster/caseflow/internal/config"
	"github.com/scrypster/caseflow/internal/deadline"
	"github.com/scrypster/caseflow/internal/logging"
	"github.com/scrypster/caseflow/internal/storage"
	"github.com/scrypster/caseflow/internal/storage/postgres"
	"github.com/scrypster/caseflow/internal/storage/sqlite"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "caseflow",
		Short: "Entity connection graph and court deadline engine",
		Long: `caseflow tracks how cases, tasks, contacts, notes, deadlines and
documents relate to each other and computes court deadlines from
jurisdiction rule tables.

Configuration is read from CASEFLOW_* environment variables.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newDeadlineCmd(),
		newJurisdictionsCmd(),
		newGraphCmd(),
		newBackupCmd(),
	)
	return root
}

// loadConfig loads the environment configuration and installs the default
// logger. Logs go to stderr so command output stays clean.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// openStore opens the snapshot store selected by the storage engine setting.
func openStore(cfg *config.Config) (storage.SnapshotStore, error) {
	name := cfg.Storage.SnapshotName
	if name == "" {
		name = storage.DefaultSnapshotName
	}

	switch cfg.Storage.StorageEngine {
	case config.EngineMemory:
		return storage.NewMemoryStore(), nil
	case config.EnginePostgres:
		return postgres.NewNamedSnapshotStore(cfg.Storage.PostgresDSN, name)
	default:
		if err := os.MkdirAll(cfg.Storage.DataPath, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		return sqlite.NewNamedSnapshotStore(cfg.SQLitePath(), name)
	}
}

// loadRules builds the rule repository: built-ins plus the configured rules
// file, if any.
func loadRules(cfg *config.Config, logger *slog.Logger) (*deadline.Repository, error) {
	repo := deadline.NewRepository()
	if cfg.Deadlines.RulesFile == "" {
		return repo, nil
	}
	added, err := repo.LoadRulesFile(cfg.Deadlines.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules file: %w", err)
	}
	logger.Info("loaded deadline rules", "file", cfg.Deadlines.RulesFile, "added", added)
	return repo, nil
}

// newEngine builds the deadline engine from configuration.
func newEngine(cfg *config.Config, logger *slog.Logger) (*deadline.Engine, error) {
	repo, err := loadRules(cfg, logger)
	if err != nil {
		return nil, err
	}
	return deadline.New(deadline.Options{
		Rules:                  repo,
		DefaultPreparationDays: cfg.Deadlines.DefaultPreparationDays,
		Logger:                 logger,
	}), nil
}
