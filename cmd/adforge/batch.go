package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"adforge/internal/brief"
	"adforge/internal/config"
	"adforge/internal/logging"
	"adforge/internal/pipeline"
)

var batchConcurrency int

// batchCmd processes every brief in a directory
var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Run the pipeline for every brief YAML in a directory",
	Long: `Processes all *.yaml / *.yml campaign briefs in the given directory
concurrently. Each run gets its own output subdirectory named after the
product slug and run ID, so parallel runs never collide.

Example:
  adforge batch ./briefs --concurrency 3`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "Max concurrent runs (default: from config)")
}

// batchOutcome is one brief's result line in the batch summary.
type batchOutcome struct {
	file     string
	runID    string
	outDir   string
	state    pipeline.RunState
	failed   int
	duration time.Duration
	err      error
}

// runBatch executes the pipeline for every brief file in a directory.
func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("Received shutdown signal, cancelling batch")
		cancel()
	}()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dir := args[0]
	files, err := collectBriefFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no brief files (*.yaml, *.yml) found in %s", dir)
	}

	concurrency := cfg.Batch.Concurrency
	if batchConcurrency > 0 {
		concurrency = batchConcurrency
	}

	fmt.Printf("🚀 Batch: %d briefs, concurrency %d\n\n", len(files), concurrency)
	logging.Batch("batch started: dir=%s briefs=%d concurrency=%d", dir, len(files), concurrency)

	var (
		mu       sync.Mutex
		outcomes []batchOutcome
	)

	g, runCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, file := range files {
		g.Go(func() error {
			outcome := processBrief(runCtx, cfg, file)

			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()

			line := "✅"
			if outcome.err != nil || outcome.failed > 0 {
				line = "❌"
			}
			if outcome.err != nil {
				fmt.Printf("%s %s: %v\n", line, filepath.Base(file), outcome.err)
			} else {
				fmt.Printf("%s %s → %s (%s, %d failed stages)\n",
					line, filepath.Base(file), outcome.outDir, outcome.duration.Round(time.Millisecond), outcome.failed)
			}

			// A failed brief never stops its siblings; only context
			// cancellation does.
			return runCtx.Err()
		})
	}

	waitErr := g.Wait()

	printBatchSummary(outcomes)
	logging.Batch("batch finished: briefs=%d", len(outcomes))

	if waitErr != nil {
		return fmt.Errorf("batch cancelled: %w", waitErr)
	}
	return nil
}

// processBrief runs the pipeline for one brief file into its own output
// subdirectory.
func processBrief(ctx context.Context, cfg *config.Config, file string) batchOutcome {
	outcome := batchOutcome{file: file}

	b, err := brief.LoadFile(file)
	if err != nil {
		outcome.err = err
		logging.BatchError("brief %s rejected: %v", file, err)
		return outcome
	}

	runID := uuid.NewString()
	outcome.runID = runID
	outcome.outDir = filepath.Join(cfg.Output.Dir, fmt.Sprintf("%s-%s", b.Slug(), runID[:8]))

	logger.Info("Batch run starting",
		zap.String("file", file),
		zap.String("run_id", runID),
		zap.String("output_dir", outcome.outDir))

	result, err := executeRun(ctx, cfg, b, runOptions{
		outputDir: outcome.outDir,
		runID:     runID,
		quiet:     true,
	})
	if err != nil {
		outcome.err = err
		return outcome
	}

	outcome.state = result.State
	outcome.failed = len(result.FailedStages())
	outcome.duration = result.Duration()
	return outcome
}

// collectBriefFiles lists the YAML briefs in dir, sorted by name.
func collectBriefFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read brief directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// printBatchSummary prints the final per-brief outcome table.
func printBatchSummary(outcomes []batchOutcome) {
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].file < outcomes[j].file })

	succeeded := 0
	fmt.Println("\nBatch summary:")
	for _, o := range outcomes {
		switch {
		case o.err != nil:
			fmt.Printf("  ❌ %-30s error: %v\n", filepath.Base(o.file), o.err)
		case o.failed > 0:
			fmt.Printf("  ⚠️  %-30s %s, %d failed stages → %s\n", filepath.Base(o.file), o.state, o.failed, o.outDir)
			succeeded++
		default:
			fmt.Printf("  ✅ %-30s %s → %s\n", filepath.Base(o.file), o.duration.Round(time.Millisecond), o.outDir)
			succeeded++
		}
	}
	fmt.Printf("\n%d/%d briefs completed\n", succeeded, len(outcomes))
}
