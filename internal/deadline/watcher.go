package deadline

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// RulesWatcher reloads a rules file into a Repository whenever it is written
// or replaced. Rules are append-only, so a reload only adds rules whose ids
// are new to their jurisdiction.
type RulesWatcher struct {
	path     string
	repo     *Repository
	logger   *slog.Logger
	onReload func(added int)
	watcher  *fsnotify.Watcher
	done     chan struct{}
}

// NewRulesWatcher creates a watcher for path. onReload, if non-nil, is called
// after every successful reload.
func NewRulesWatcher(path string, repo *Repository, logger *slog.Logger, onReload func(added int)) *RulesWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &RulesWatcher{
		path:     filepath.Clean(path),
		repo:     repo,
		logger:   logger,
		onReload: onReload,
		done:     make(chan struct{}),
	}
}

// Start begins watching. The file's directory is watched rather than the
// file itself so that editors which save by rename are picked up. Call Stop
// to clean up.
func (rw *RulesWatcher) Start() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(rw.path)); err != nil {
		_ = w.Close()
		return err
	}
	rw.watcher = w

	go rw.loop()
	rw.logger.Info("deadline: watching rules file", "path", rw.path)
	return nil
}

// Stop shuts down the watcher and waits for the event loop to exit.
func (rw *RulesWatcher) Stop() {
	if rw.watcher == nil {
		return
	}
	_ = rw.watcher.Close()
	<-rw.done
}

func (rw *RulesWatcher) loop() {
	defer close(rw.done)
	for {
		select {
		case evt, ok := <-rw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != rw.path {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				rw.reload()
			}
		case err, ok := <-rw.watcher.Errors:
			if !ok {
				return
			}
			rw.logger.Warn("deadline: rules watcher error", "error", err)
		}
	}
}

func (rw *RulesWatcher) reload() {
	added, err := rw.repo.LoadRulesFile(rw.path)
	if err != nil {
		// Partial writes are common; the next write event retries.
		rw.logger.Warn("deadline: failed to reload rules file", "path", rw.path, "error", err)
		return
	}
	if added > 0 {
		rw.logger.Info("deadline: rules reloaded", "path", rw.path, "added", added)
	}
	if rw.onReload != nil {
		rw.onReload(added)
	}
}
