package brief

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"adforge/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// ChangeHandler is invoked with the reloaded brief after a watched file
// settles past the debounce window.
type ChangeHandler func(ctx context.Context, path string, b CampaignBrief)

// Watcher watches a brief YAML file for changes and triggers a reload.
// Editors tend to write through temp-file renames, so the watcher monitors
// the parent directory and filters events down to the target file.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	briefPath   string // Absolute path of the watched brief file
	watchDir    string // Parent directory registered with fsnotify
	onChange    ChangeHandler
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats WatcherStats
}

// WatcherStats tracks watcher activity for debugging.
type WatcherStats struct {
	FilesModified int
	RunsTriggered int
	Errors        int
	LastEventTime time.Time
	LastEventPath string
	LastEventType string
}

// NewWatcher creates a Watcher for the given brief file.
func NewWatcher(path string, debounce time.Duration, onChange ChangeHandler) (*Watcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("change handler required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve brief path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	w := &Watcher{
		watcher:     watcher,
		briefPath:   abs,
		watchDir:    filepath.Dir(abs),
		onChange:    onChange,
		debounceMap: make(map[string]time.Time),
		debounceDur: debounce,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}

	return w, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil // Already running
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.watchDir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("failed to watch %s: %w", w.watchDir, err)
	}
	logging.Watch("Watching brief: %s", w.briefPath)

	go w.run(ctx)

	return nil
}

// Stop stops the watcher and waits for cleanup.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logging.Get(logging.CategoryWatch).Error("Error closing watcher: %v", err)
	}
	logging.Watch("Brief watcher stopped")
}

// run is the main event loop for the watcher.
func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	// Ticker drains events that have settled past the debounce window
	debounceTicker := time.NewTicker(100 * time.Millisecond)
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Watch("Brief watcher: context cancelled")
			return

		case <-w.stopCh:
			logging.WatchDebug("Brief watcher: stop signal received")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				logging.WatchDebug("Brief watcher: event channel closed")
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				logging.WatchDebug("Brief watcher: error channel closed")
				return
			}
			logging.Get(logging.CategoryWatch).Error("Brief watcher error: %v", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-debounceTicker.C:
			w.processDebouncedEvents(ctx)
		}
	}
}

// handleEvent records a filesystem event for the watched brief file.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.briefPath {
		return
	}

	var eventType string
	switch {
	case event.Op&fsnotify.Create != 0:
		eventType = "create"
	case event.Op&fsnotify.Write != 0:
		eventType = "modify"
	case event.Op&fsnotify.Rename != 0:
		eventType = "rename"
	default:
		return // Ignore chmod and removals
	}

	logging.WatchDebug("Brief watcher: %s event for %s", eventType, event.Name)

	w.mu.Lock()
	w.stats.LastEventTime = time.Now()
	w.stats.LastEventPath = event.Name
	w.stats.LastEventType = eventType
	w.stats.FilesModified++

	// Debounce: record the event for later processing
	w.debounceMap[w.briefPath] = time.Now()
	w.mu.Unlock()
}

// processDebouncedEvents fires the handler for events that have settled.
func (w *Watcher) processDebouncedEvents(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	toProcess := make([]string, 0)

	for path, eventTime := range w.debounceMap {
		if now.Sub(eventTime) >= w.debounceDur {
			toProcess = append(toProcess, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range toProcess {
		w.reload(ctx, path)
	}
}

// reload re-reads the brief file and dispatches to the handler. A brief
// that fails to parse or validate is logged and skipped; the watcher
// keeps running so the next save gets another chance.
func (w *Watcher) reload(ctx context.Context, path string) {
	b, err := LoadFile(path)
	if err != nil {
		logging.WatchWarn("Brief reload skipped: %v", err)
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
		return
	}

	w.mu.Lock()
	w.stats.RunsTriggered++
	w.mu.Unlock()

	logging.Watch("Brief changed, dispatching run: %s", path)
	w.onChange(ctx, path, b)
}

// GetStats returns the current watcher statistics.
func (w *Watcher) GetStats() WatcherStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// ResetStats resets the watcher statistics.
func (w *Watcher) ResetStats() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stats = WatcherStats{}
}

// IsWatching returns true if the watcher is currently running.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}
