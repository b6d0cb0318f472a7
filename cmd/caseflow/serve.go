package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scrypster/caseflow/internal/backup"
	"github.com/scrypster/caseflow/internal/config"
	"github.com/scrypster/caseflow/internal/deadline"
	"github.com/scrypster/caseflow/internal/graph"
	"github.com/scrypster/caseflow/internal/notify"
	"github.com/scrypster/caseflow/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	g := graph.New(graph.Options{Store: store, Logger: logger})
	g.Load(ctx)
	entities, connections := g.Stats()
	logger.Info("graph loaded", "engine", cfg.Storage.StorageEngine, "entities", entities, "connections", connections)

	engine, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}

	if cfg.Deadlines.RulesFile != "" && cfg.Deadlines.WatchRules {
		watcher := deadline.NewRulesWatcher(cfg.Deadlines.RulesFile, engine.Rules(), logger, func(added int) {
			logger.Info("deadline rules reloaded", "added", added)
		})
		if err := watcher.Start(); err != nil {
			logger.Warn("rules watcher disabled", "error", err)
		} else {
			defer watcher.Stop()
		}
	}

	dispatcher := notify.NewDispatcher(notify.Config{
		WebhookURL: cfg.Notify.WebhookURL,
		Contacts: notify.Contacts{
			Primary:   cfg.Notify.Primary,
			Backup:    cfg.Notify.Backup,
			Assistant: cfg.Notify.Assistant,
		},
		Breaker: notify.BreakerConfig{
			MaxFailures: uint32(max(cfg.Notify.BreakerFailures, 0)),
			Timeout:     cfg.Notify.BreakerTimeout,
		},
		HTTPClient: &http.Client{Timeout: cfg.Notify.WebhookTimeout},
		Logger:     logger,
	})
	if !dispatcher.Enabled() {
		logger.Info("escalation webhook not configured; escalations are not delivered")
	}

	// Background workers are waited on before the deferred store.Close.
	var workers sync.WaitGroup
	defer workers.Wait()

	var backups *backup.Service
	if cfg.Storage.StorageEngine == config.EngineSQLite && cfg.Backup.Interval > 0 {
		backups, err = newBackupService(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize backups: %w", err)
		}
		workers.Add(1)
		go func() {
			defer workers.Done()
			if err := backups.Run(ctx); err != nil {
				logger.Error("backup scheduler exited", "error", err)
			}
		}()
	}

	srv, err := server.Start(ctx, cfg, server.Deps{
		Graph:      g,
		Deadlines:  engine,
		Dispatcher: dispatcher,
		Backups:    backups,
		Logger:     logger,
	})
	if err != nil {
		stop()
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "caseflow API running at http://%s\n", srv.Addr)

	<-ctx.Done()
	logger.Info("shutting down")
	srv.Wait()
	return nil
}
