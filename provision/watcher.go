package provision

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures the provision file watcher.
type WatcherConfig struct {
	// Path is the provisions YAML file to watch.
	Path string

	// DebounceDelay is how long to wait for more changes before reloading.
	DebounceDelay time.Duration

	// Logger for logging events.
	Logger *slog.Logger
}

// Watcher reloads a provision set when its backing file changes. Editors
// often write through renames, so the watch is on the parent directory
// and events are filtered to the target file.
type Watcher struct {
	config  WatcherConfig
	set     *Set
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

// NewWatcher creates a watcher that keeps set in sync with the file at
// config.Path.
func NewWatcher(config WatcherConfig, set *Set) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	debounce := config.DebounceDelay
	if debounce == 0 {
		debounce = 250 * time.Millisecond
	}
	config.DebounceDelay = debounce

	return &Watcher{
		config:  config,
		set:     set,
		watcher: fsw,
		logger:  logger,
	}, nil
}

// Start begins watching. It returns once the watch is registered; reloads
// happen on a background goroutine until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.config.Path)); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("provision watcher started",
		"path", w.config.Path,
		"debounce", w.config.DebounceDelay)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) processEvents(ctx context.Context) {
	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	pending := false
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.config.Path) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = true
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("provision watcher error", "error", err)

		case <-ticker.C:
			if !pending {
				continue
			}
			pending = false
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	fresh, err := LoadFile(w.config.Path)
	if err != nil {
		// Keep serving the last good set.
		w.logger.Error("provision reload failed",
			"path", w.config.Path,
			"error", err)
		return
	}
	w.set.Replace(fresh)
	w.logger.Info("provisions reloaded",
		"path", w.config.Path,
		"count", fresh.Len())
}
