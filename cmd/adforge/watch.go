package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"adforge/internal/brief"
)

// watchCmd reruns the pipeline whenever a brief file changes
var watchCmd = &cobra.Command{
	Use:   "watch [brief.yaml]",
	Short: "Watch a brief file and rerun the pipeline on change",
	Long: `Watches the given brief YAML file and reruns the full campaign
pipeline every time it changes (debounced). A brief that no longer
parses or validates is skipped; the watcher keeps running so the next
save gets another chance.

Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

// runWatch watches a brief file and triggers pipeline runs.
func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Println("\nStopping watcher...")
		cancel()
	}()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := args[0]

	// One run at a time; saves during a run are skipped, not queued.
	var runMu sync.Mutex
	dispatch := func(runCtx context.Context, briefPath string, b brief.CampaignBrief) {
		if !runMu.TryLock() {
			fmt.Println("⏳ Run in progress, skipping this change")
			return
		}
		defer runMu.Unlock()

		fmt.Printf("\n🔁 Running pipeline for %s\n\n", briefPath)
		result, runErr := executeRun(runCtx, cfg, b, runOptions{})
		if runErr != nil {
			if runCtx.Err() != nil {
				return
			}
			fmt.Printf("❌ Run failed: %v\n", runErr)
			return
		}
		printRunSummary(result)
		fmt.Println("👀 Watching for changes...")
	}

	watcher, err := brief.NewWatcher(path, cfg.GetWatchDebounce(), dispatch)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	// Stop waits for an in-flight handler, so runs are never torn mid-write.
	defer watcher.Stop()

	logger.Info("Watching brief", zap.String("path", path), zap.Duration("debounce", cfg.GetWatchDebounce()))
	fmt.Printf("👀 Watching %s (debounce %s). Press Ctrl+C to stop.\n", path, cfg.GetWatchDebounce())

	// Initial run when the file already holds a valid brief.
	if b, loadErr := brief.LoadFile(path); loadErr == nil {
		dispatch(ctx, path, b)
	} else {
		fmt.Printf("⚠️  Waiting for a valid brief: %v\n", loadErr)
	}

	<-ctx.Done()

	stats := watcher.GetStats()
	fmt.Printf("Watcher stopped: %d changes, %d runs\n", stats.FilesModified, stats.RunsTriggered)
	return nil
}
