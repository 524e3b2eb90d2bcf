package cache

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a rules directory and refreshes the cache when rule files
// change. Rapid edit bursts are debounced into a single refresh.
type Watcher struct {
	watcher  *fsnotify.Watcher
	cache    *RuleCache
	logger   *slog.Logger
	dir      string
	debounce *Debouncer

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// DefaultDebounceInterval is the quiet period after the last file event
// before the cache refreshes. Editors and deploy tooling write rule files in
// several operations; one refresh covers the whole burst.
const DefaultDebounceInterval = 100 * time.Millisecond

// NewWatcher creates a watcher over dir that refreshes the given cache.
// debounce <= 0 selects DefaultDebounceInterval.
func NewWatcher(dir string, c *RuleCache, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounceInterval
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  fsw,
		cache:    c,
		logger:   logger,
		dir:      dir,
		debounce: NewDebouncer(debounce),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch blocks processing file events until the context is cancelled or Stop
// is called. On each debounced change burst it invalidates the entries for
// deleted files and refreshes the rest.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	if err := w.addDirectories(); err != nil {
		return fmt.Errorf("watch rules dir: %w", err)
	}

	w.logger.Info("rule watcher started", "dir", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("rule watcher stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("rule watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			// Keep watching; a transient fs error must not kill hot reload.
			w.logger.Error("rule watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.debounce.Stop()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}
	return nil
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	// New subdirectories must be added to the watch set immediately, before
	// any rule files land in them.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			return
		}
	}

	if !w.shouldProcess(event) {
		return
	}

	w.logger.Debug("rule file event", "path", event.Name, "op", event.Op.String())

	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		if rel, err := filepath.Rel(w.dir, event.Name); err == nil {
			// Cache keys are extension-less rule ids.
			w.cache.Invalidate(strings.TrimSuffix(filepath.ToSlash(rel), ".json"))
		}
	}

	w.debounce.Trigger(func() {
		w.logger.Info("refreshing rule cache", "trigger", event.Name)
		if err := w.cache.Refresh(ctx); err != nil {
			w.logger.Error("rule cache refresh failed", "error", err)
		}
	})
}

func (w *Watcher) shouldProcess(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(event.Name), ".json")
}

func (w *Watcher) addDirectories() error {
	return filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != w.dir {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch directory %q: %w", path, err)
		}
		return nil
	})
}
