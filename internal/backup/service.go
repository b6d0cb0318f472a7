package backup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrRunning is returned by Restore while the scheduler is active.
var ErrRunning = errors.New("backup service is running")

// Service takes scheduled and on-demand backups of the SQLite database.
type Service struct {
	dbPath    string
	dir       string
	interval  time.Duration
	retention RetentionPolicy
	verify    bool
	logger    *slog.Logger

	mu         sync.Mutex
	running    bool
	lastBackup time.Time
	now        func() time.Time
}

// NewService validates opts and creates the backup directory.
func NewService(opts Options) (*Service, error) {
	if opts.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if opts.Dir == "" {
		return nil, fmt.Errorf("backup directory is required")
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Hour
	}
	if opts.Retention == (RetentionPolicy{}) {
		opts.Retention = DefaultRetention
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if err := os.MkdirAll(opts.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	return &Service{
		dbPath:    opts.DBPath,
		dir:       opts.Dir,
		interval:  opts.Interval,
		retention: opts.Retention,
		verify:    !opts.SkipVerify,
		logger:    opts.Logger.With("component", "backup"),
		now:       time.Now,
	}, nil
}

// Run takes a backup every interval until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrRunning
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("backup scheduler started", "interval", s.interval, "dir", s.dir)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("backup scheduler stopped")
			return nil
		case <-ticker.C:
			result, err := s.BackupNow(ctx)
			if err != nil {
				s.logger.Error("scheduled backup failed", "error", err)
				continue
			}
			s.logger.Info("scheduled backup completed",
				"path", result.Path, "size", result.Size, "duration", result.Duration)
		}
	}
}

// BackupNow writes a timestamped backup, verifies it and applies the
// retention policy. Retention failures are logged, not returned.
func (s *Service) BackupNow(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := s.now()

	if _, err := os.Stat(s.dbPath); err != nil {
		return nil, fmt.Errorf("database not found: %w", err)
	}

	name := filePrefix + start.UTC().Format("20060102-150405.000000") + fileSuffix
	path := filepath.Join(s.dir, name)
	if err := backupSQLite(s.dbPath, path); err != nil {
		return nil, err
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup: %w", err)
	}
	result := &Result{Path: path, Size: fi.Size()}

	if s.verify {
		if err := verifyBackup(path); err != nil {
			return nil, fmt.Errorf("backup verification failed: %w", err)
		}
		result.Verified = true
	}
	result.Duration = time.Since(start)

	s.mu.Lock()
	s.lastBackup = start
	s.mu.Unlock()

	if removed, err := applyRetention(s.dir, s.retention, s.now()); err != nil {
		s.logger.Warn("failed to apply retention policy", "error", err)
	} else if removed > 0 {
		s.logger.Debug("pruned old backups", "removed", removed)
	}
	return result, nil
}

// List returns the stored backups, newest first.
func (s *Service) List() ([]Info, error) {
	return listBackups(s.dir)
}

// Restore replaces the database with the given backup. A pre-restore copy
// of the current database is used to roll back if the restore fails. The
// database must not be open elsewhere.
func (s *Service) Restore(ctx context.Context, backupPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if running {
		return ErrRunning
	}

	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("backup not found: %w", err)
	}

	rollback := s.dbPath + ".pre-restore"
	haveRollback := false
	if _, err := os.Stat(s.dbPath); err == nil {
		_ = os.Remove(rollback)
		if err := backupSQLite(s.dbPath, rollback); err != nil {
			return fmt.Errorf("failed to create pre-restore backup: %w", err)
		}
		haveRollback = true
		defer func() { _ = os.Remove(rollback) }()
	}

	if err := restoreSQLite(backupPath, s.dbPath); err != nil {
		if !haveRollback {
			return err
		}
		if rbErr := restoreSQLite(rollback, s.dbPath); rbErr != nil {
			return fmt.Errorf("restore failed and rollback failed: %v (restore error: %w)", rbErr, err)
		}
		return fmt.Errorf("restore failed, rolled back to previous state: %w", err)
	}

	s.logger.Info("database restored", "from", backupPath)
	return nil
}

// Health reports on the backup directory. A warning is raised when the
// last backup taken by this service is more than two intervals old.
func (s *Service) Health() (*Status, error) {
	s.mu.Lock()
	last := s.lastBackup
	s.mu.Unlock()

	backups, err := listBackups(s.dir)
	if err != nil {
		return nil, err
	}

	status := &Status{Status: "healthy", LastBackup: last, TotalBackups: len(backups)}
	for _, b := range backups {
		status.DiskSpaceUsed += b.Size
	}

	switch {
	case last.IsZero():
		status.Message = "no backups taken yet"
	case s.now().Sub(last) > 2*s.interval:
		status.Status = "warning"
		status.Message = fmt.Sprintf("backup overdue by %s", (s.now().Sub(last) - s.interval).Round(time.Second))
	default:
		status.Message = fmt.Sprintf("last backup %s ago", s.now().Sub(last).Round(time.Second))
	}
	return status, nil
}
