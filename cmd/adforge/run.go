package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"adforge/cmd/adforge/ui"
	"adforge/internal/artifact"
	"adforge/internal/brief"
	"adforge/internal/config"
	"adforge/internal/pipeline"
	"adforge/internal/reasoning"
	"adforge/internal/synthesis"
)

var (
	runProduct        string
	runAudience       string
	runDifferentiator string
	runBriefFile      string
	runImagePrompt    string
	runNoImage        bool
	runPlain          bool
	runWithUI         bool
)

// runCmd executes a single campaign pipeline run
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the campaign pipeline for one brief",
	Long: `Runs the five-stage campaign pipeline:
  1. Market strategy analysis
  2. Tagline generation (5 options with justifications)
  3. Visual concept development
  4. Campaign image generation (Imagen)
  5. Final campaign report

The brief comes from --brief <file.yaml> or from the three field flags.

Examples:
  adforge run --product "eco water bottle" --audience "young professionals" --differentiator "self-cleaning UV lid"
  adforge run --brief campaign.yaml --ui
  adforge run --brief campaign.yaml --no-image --plain`,
	RunE: runCampaign,
}

func init() {
	runCmd.Flags().StringVar(&runProduct, "product", "", "Product or service name")
	runCmd.Flags().StringVar(&runAudience, "audience", "", "Target audience")
	runCmd.Flags().StringVar(&runDifferentiator, "differentiator", "", "Key differentiator")
	runCmd.Flags().StringVar(&runBriefFile, "brief", "", "Campaign brief YAML file (overrides field flags)")
	runCmd.Flags().StringVar(&runImagePrompt, "image-prompt", "", "Extra detail appended to the image prompt")
	runCmd.Flags().BoolVar(&runNoImage, "no-image", false, "Skip image generation")
	runCmd.Flags().BoolVar(&runPlain, "plain", false, "Print the report as raw markdown")
	runCmd.Flags().BoolVar(&runWithUI, "ui", false, "Show the interactive progress UI")
}

// runCampaign executes a single pipeline run from the CLI.
func runCampaign(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("Received shutdown signal")
		cancel()
	}()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	b, err := resolveBrief()
	if err != nil {
		return err
	}

	result, err := executeRun(ctx, cfg, b, runOptions{
		imagePrompt: runImagePrompt,
		noImage:     runNoImage,
		withUI:      runWithUI,
		quiet:       false,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			fmt.Println("\nRun cancelled.")
			return nil
		}
		return err
	}

	printRunSummary(result)
	return renderReport(result.Report)
}

// resolveBrief builds the campaign brief from --brief or the field flags.
func resolveBrief() (brief.CampaignBrief, error) {
	if runBriefFile != "" {
		b, err := brief.LoadFile(runBriefFile)
		if err != nil {
			return b, fmt.Errorf("failed to load brief %s: %w", runBriefFile, err)
		}
		return b, nil
	}

	b := brief.CampaignBrief{
		ProductService:    runProduct,
		TargetAudience:    runAudience,
		KeyDifferentiator: runDifferentiator,
	}
	if err := b.Validate(); err != nil {
		return b, fmt.Errorf("%w (use --product/--audience/--differentiator or --brief)", err)
	}
	return b.Normalized(), nil
}

// runOptions carries per-run CLI choices into executeRun.
type runOptions struct {
	// outputDir overrides the config output directory (batch mode gives
	// each run its own subdirectory).
	outputDir   string
	runID       string
	imagePrompt string
	noImage     bool
	withUI      bool
	// quiet suppresses the event stream (batch mode prints its own
	// per-run lines).
	quiet bool
}

// executeRun wires engine, synthesizer and orchestrator from config and
// drives one pipeline run. Shared by run, batch and watch.
func executeRun(ctx context.Context, cfg *config.Config, b brief.CampaignBrief, opts runOptions) (*pipeline.RunResult, error) {
	// One run ID shared by the orchestrator and the artifact records.
	if opts.runID == "" {
		opts.runID = uuid.NewString()
	}

	outDir := cfg.Output.Dir
	if opts.outputDir != "" {
		outDir = opts.outputDir
	}

	writer := artifact.NewWriter(outDir)
	registrar := artifact.NewManifestRegistrar(outDir)

	engine := reasoning.NewGeminiEngine(reasoning.Config{
		APIKey:  cfg.Engine.APIKey,
		BaseURL: cfg.Engine.BaseURL,
		Model:   cfg.Engine.Model,
		Timeout: cfg.GetEngineTimeout(),
	})

	synthesizer := buildSynthesizer(ctx, cfg, writer, registrar, opts)

	eventCh := make(chan pipeline.Event, 64)
	progressCh := make(chan pipeline.Progress, 16)

	orchestrator := pipeline.NewOrchestrator(pipeline.OrchestratorConfig{
		Brief:            b,
		Engine:           engine,
		Synthesizer:      synthesizer,
		Writer:           writer,
		Registrar:        registrar,
		RunID:            opts.runID,
		EventChan:        eventCh,
		ProgressChan:     progressCh,
		SaveReport:       cfg.Output.SaveReport,
		StageTimeout:     cfg.GetEngineTimeout(),
		SynthesisTimeout: cfg.GetSynthesisTimeout(),
	})

	logger.Info("Starting campaign run",
		zap.String("run_id", orchestrator.RunID()),
		zap.String("product", b.ProductService),
		zap.String("output_dir", outDir))

	if opts.withUI {
		return ui.RunPipeline(ctx, ui.PipelineRunner{
			Brief:        b,
			Run:          orchestrator.Run,
			EventChan:    eventCh,
			ProgressChan: progressCh,
		})
	}

	if !opts.quiet {
		fmt.Printf("🚀 Generating campaign for %q (run %s)\n\n", b.ProductService, orchestrator.RunID())
	}

	// Event listener; the channel is closed once Run returns.
	printerDone := make(chan struct{})
	go func() {
		defer close(printerDone)
		for event := range eventCh {
			if opts.quiet {
				continue
			}
			switch event.Type {
			case pipeline.EventStageStarted:
				fmt.Printf("🔄 %s...\n", event.StageName)
			case pipeline.EventStageCompleted:
				fmt.Printf("✅ %s complete\n", event.StageName)
			case pipeline.EventStageFailed:
				fmt.Printf("❌ %s failed: %s\n", event.StageName, event.Message)
			case pipeline.EventImageSaved:
				fmt.Printf("🖼️  Image saved: %s\n", event.Message)
			case pipeline.EventRunCompleted:
				fmt.Printf("\n✨ %s\n", event.Message)
			}
		}
	}()
	// Progress is consumed by the UI; drain it here so sends never drop.
	go func() {
		for range progressCh {
		}
	}()

	result, runErr := orchestrator.Run(ctx)
	close(eventCh)
	close(progressCh)
	<-printerDone

	return result, runErr
}

// buildSynthesizer binds the Imagen service unless image generation is
// disabled. A nil service is legitimate: the synthesizer reports the
// stage as unavailable and the pipeline continues.
func buildSynthesizer(ctx context.Context, cfg *config.Config, writer *artifact.Writer, registrar artifact.Registrar, opts runOptions) *synthesis.Synthesizer {
	var service synthesis.Service
	if !opts.noImage && !cfg.Imagen.Disabled && cfg.Engine.APIKey != "" {
		imagen, err := synthesis.NewImagenService(ctx, cfg.Engine.APIKey, cfg.Imagen.Model)
		if err != nil {
			logger.Warn("Imagen service unavailable, continuing without image generation", zap.Error(err))
		} else {
			service = imagen
		}
	}

	return synthesis.New(synthesis.Config{
		APIKey:      cfg.Engine.APIKey,
		Service:     service,
		Writer:      writer,
		Registrar:   registrar,
		RunID:       opts.runID,
		ImagePrompt: opts.imagePrompt,
	})
}

// printRunSummary prints the per-stage outcome table after a run.
func printRunSummary(result *pipeline.RunResult) {
	fmt.Printf("\nRun %s finished in %s\n", result.RunID, result.Duration().Round(time.Millisecond))
	for _, rec := range result.Stages {
		status := "✅"
		if rec.Status == pipeline.StageFailed {
			status = "❌"
		}
		fmt.Printf("  %s %-20s %s\n", status, rec.Name, rec.Duration.Round(time.Millisecond))
	}
	if result.Image.Success {
		fmt.Printf("\n🖼️  %s (%dx%d, %.1f KB)\n", result.Image.Path, result.Image.Width, result.Image.Height, result.Image.SizeKB)
	}
	if result.ReportPath != "" {
		fmt.Printf("📄 %s\n", result.ReportPath)
	}
	fmt.Println()
}

// renderReport renders the final report with glamour, falling back to
// raw markdown with --plain or when the renderer cannot start.
func renderReport(report string) error {
	if strings.TrimSpace(report) == "" {
		fmt.Println("No report was produced.")
		return nil
	}

	if runPlain {
		fmt.Println(report)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		fmt.Println(report)
		return nil
	}

	rendered, err := renderer.Render(report)
	if err != nil {
		fmt.Println(report)
		return nil
	}
	fmt.Print(rendered)
	return nil
}
