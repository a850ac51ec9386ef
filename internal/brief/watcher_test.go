package brief

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

const validBrief = `product_service: eco water bottle
target_audience: young professionals
key_differentiator: self-cleaning UV lid
`

func writeBrief(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write brief: %v", err)
	}
}

// waitFor polls cond until it returns true or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestNewWatcher_RequiresHandler(t *testing.T) {
	if _, err := NewWatcher("brief.yaml", time.Second, nil); err == nil {
		t.Fatal("expected error for nil handler")
	}
}

func TestWatcher_StartStop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "brief.yaml")
	writeBrief(t, path, validBrief)

	w, err := NewWatcher(path, 100*time.Millisecond, func(ctx context.Context, p string, b CampaignBrief) {})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	if w.IsWatching() {
		t.Error("watcher should not be running before Start")
	}

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !w.IsWatching() {
		t.Error("watcher should be running after Start")
	}

	// Second Start is a no-op
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("second Start: %v", err)
	}

	w.Stop()
	if w.IsWatching() {
		t.Error("watcher should not be running after Stop")
	}
}

func TestWatcher_DispatchesOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "brief.yaml")
	writeBrief(t, path, validBrief)

	var calls atomic.Int32
	var gotProduct atomic.Value

	w, err := NewWatcher(path, 100*time.Millisecond, func(ctx context.Context, p string, b CampaignBrief) {
		gotProduct.Store(b.ProductService)
		calls.Add(1)
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	// Modify the brief after the watcher is up
	time.Sleep(50 * time.Millisecond)
	writeBrief(t, path, `product_service: smart thermos
target_audience: commuters
key_differentiator: 24h heat retention
`)

	if !waitFor(t, 5*time.Second, func() bool { return calls.Load() > 0 }) {
		t.Fatal("handler was not called after brief change")
	}

	if got, _ := gotProduct.Load().(string); got != "smart thermos" {
		t.Errorf("handler got product %q, want smart thermos", got)
	}
}

func TestWatcher_SkipsInvalidBrief(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "brief.yaml")
	writeBrief(t, path, validBrief)

	var calls atomic.Int32
	w, err := NewWatcher(path, 100*time.Millisecond, func(ctx context.Context, p string, b CampaignBrief) {
		calls.Add(1)
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	writeBrief(t, path, "product_service: incomplete\n")

	// Error counter should move; the handler should not fire
	if !waitFor(t, 5*time.Second, func() bool { return w.GetStats().Errors > 0 }) {
		t.Fatal("invalid brief should have been counted as an error")
	}
	if calls.Load() != 0 {
		t.Errorf("handler fired %d times for invalid brief, want 0", calls.Load())
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "brief.yaml")
	writeBrief(t, path, validBrief)

	var calls atomic.Int32
	w, err := NewWatcher(path, 100*time.Millisecond, func(ctx context.Context, p string, b CampaignBrief) {
		calls.Add(1)
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	writeBrief(t, filepath.Join(dir, "other.yaml"), validBrief)

	// Give the debounce loop ample time to (not) fire
	time.Sleep(500 * time.Millisecond)
	if calls.Load() != 0 {
		t.Errorf("handler fired %d times for unrelated file, want 0", calls.Load())
	}
	if w.GetStats().FilesModified != 0 {
		t.Errorf("stats recorded %d modifications for unrelated file", w.GetStats().FilesModified)
	}
}

func TestWatcher_ResetStats(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "brief.yaml")
	writeBrief(t, path, validBrief)

	w, err := NewWatcher(path, 100*time.Millisecond, func(ctx context.Context, p string, b CampaignBrief) {})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	w.mu.Lock()
	w.stats.RunsTriggered = 7
	w.mu.Unlock()

	w.ResetStats()
	if got := w.GetStats().RunsTriggered; got != 0 {
		t.Errorf("RunsTriggered after reset = %d, want 0", got)
	}
}
