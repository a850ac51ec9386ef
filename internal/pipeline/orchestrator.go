package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"adforge/internal/artifact"
	"adforge/internal/brief"
	"adforge/internal/logging"
	"adforge/internal/reasoning"
	"adforge/internal/synthesis"
)

// ImageSynthesizer runs the image stage. Satisfied by
// *synthesis.Synthesizer; tests bind stubs.
type ImageSynthesizer interface {
	Generate(ctx context.Context, visualBrief string) synthesis.ImageOutcome
}

// OrchestratorConfig wires one pipeline run.
type OrchestratorConfig struct {
	// Brief is the campaign brief. Validated at Run.
	Brief brief.CampaignBrief
	// Engine produces the text stages. Nil is tolerated: text stages
	// fail softly and the report falls back to the scaffold.
	Engine reasoning.Engine
	// Synthesizer produces the image stage. Defaults to an unbound
	// synthesizer that reports its own missing configuration.
	Synthesizer ImageSynthesizer
	// Writer persists the report. Defaults to the standard output dir.
	Writer *artifact.Writer
	// Registrar records produced artifacts (best-effort). Optional.
	Registrar artifact.Registrar
	// Stages defaults to DefaultStages().
	Stages []StageSpec
	// RunID defaults to a fresh uuid.
	RunID string
	// EventChan receives lifecycle events. Optional; sends never block.
	EventChan chan Event
	// ProgressChan receives per-stage progress. Optional; sends never
	// block.
	ProgressChan chan Progress
	// SaveReport writes the final report under the output directory.
	SaveReport bool
	// StageTimeout bounds each reasoning call. Zero means the engine's
	// own timeout governs.
	StageTimeout time.Duration
	// SynthesisTimeout bounds the image stage. Zero means no extra
	// deadline.
	SynthesisTimeout time.Duration
}

// Orchestrator drives one campaign run through the fixed stage order,
// threading each stage's output into the ContextStore. One run per
// instance.
type Orchestrator struct {
	mu sync.RWMutex

	campaignBrief brief.CampaignBrief
	engine        reasoning.Engine
	synthesizer   ImageSynthesizer
	writer        *artifact.Writer
	registrar     artifact.Registrar
	stages        []StageSpec
	runID         string
	saveReport    bool

	stageTimeout     time.Duration
	synthesisTimeout time.Duration

	eventChan    chan Event
	progressChan chan Progress

	state   RunState
	started bool
	store   *ContextStore
	result  *RunResult
}

// NewOrchestrator creates an orchestrator for one run.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	if len(cfg.Stages) == 0 {
		cfg.Stages = DefaultStages()
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	if cfg.Writer == nil {
		cfg.Writer = artifact.NewWriter("")
	}
	if cfg.Synthesizer == nil {
		cfg.Synthesizer = synthesis.New(synthesis.Config{Writer: cfg.Writer})
	}

	return &Orchestrator{
		campaignBrief:    cfg.Brief,
		engine:           cfg.Engine,
		synthesizer:      cfg.Synthesizer,
		writer:           cfg.Writer,
		registrar:        cfg.Registrar,
		stages:           cfg.Stages,
		runID:            cfg.RunID,
		saveReport:       cfg.SaveReport,
		stageTimeout:     cfg.StageTimeout,
		synthesisTimeout: cfg.SynthesisTimeout,
		eventChan:        cfg.EventChan,
		progressChan:     cfg.ProgressChan,
		state:            RunPending,
		store:            NewContextStore(),
	}
}

// RunID returns the run identifier.
func (o *Orchestrator) RunID() string {
	return o.runID
}

// State returns the current run state.
func (o *Orchestrator) State() RunState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Result returns a copy of the run result so far, or nil before Run.
func (o *Orchestrator) Result() *RunResult {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.result == nil {
		return nil
	}
	cp := *o.result
	cp.Stages = append([]StageRecord(nil), o.result.Stages...)
	return &cp
}

// Snapshot returns a copy of the context store contents.
func (o *Orchestrator) Snapshot() map[StageKey]string {
	return o.store.Snapshot()
}

// Run executes the stages strictly in order, one at a time. Stage
// failures never halt the run; the report stage always executes.
// Context cancellation is the only early exit: the run ends in
// RunCancelled and the context error is returned alongside the partial
// result.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	normalized := o.campaignBrief.Normalized()
	if err := normalized.Validate(); err != nil {
		return nil, fmt.Errorf("invalid campaign brief: %w", err)
	}

	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return nil, fmt.Errorf("pipeline already running")
	}
	if err := o.transitionLocked(RunRunning); err != nil {
		o.mu.Unlock()
		return nil, err
	}
	o.started = true
	o.campaignBrief = normalized
	o.result = &RunResult{
		RunID:     o.runID,
		Brief:     normalized,
		State:     RunRunning,
		Stages:    make([]StageRecord, 0, len(o.stages)),
		StartedAt: time.Now(),
	}
	o.mu.Unlock()

	logging.Pipeline("run %s started: product=%q stages=%d", o.runID, normalized.ProductService, len(o.stages))

	total := len(o.stages)
	for i, spec := range o.stages {
		if ctx.Err() != nil {
			return o.finishCancelled(ctx.Err())
		}

		o.emitEvent(Event{Type: EventStageStarted, Stage: spec.ID, StageName: spec.Name})
		logging.Stage("run %s: stage %s started", o.runID, spec.ID)
		start := time.Now()

		output, stageErr := o.executeStage(ctx, spec)

		if ctx.Err() != nil {
			// In-flight stage result is discarded on cancellation.
			return o.finishCancelled(ctx.Err())
		}

		o.store.Put(spec.OutputKey, output)

		record := StageRecord{
			ID:       spec.ID,
			Name:     spec.Name,
			Status:   StageSuccess,
			Output:   output,
			Duration: time.Since(start),
		}
		if stageErr != nil {
			record.Status = StageFailed
			record.Error = stageErr.Error()
			logging.StageError("run %s: stage %s failed: %v", o.runID, spec.ID, stageErr)
			o.emitEvent(Event{Type: EventStageFailed, Stage: spec.ID, StageName: spec.Name, Message: stageErr.Error()})
		} else {
			logging.Stage("run %s: stage %s completed in %v", o.runID, spec.ID, record.Duration)
			o.emitEvent(Event{Type: EventStageCompleted, Stage: spec.ID, StageName: spec.Name})
		}

		o.mu.Lock()
		o.result.Stages = append(o.result.Stages, record)
		o.mu.Unlock()

		o.emitProgress(spec, i+1, total)
	}

	return o.finishDone(ctx)
}

// executeStage builds the stage payload and dispatches on stage kind.
// The returned output is always stored, even on failure: a failed text
// stage yields an explanatory placeholder, a failed image stage yields
// its status text.
func (o *Orchestrator) executeStage(ctx context.Context, spec StageSpec) (string, error) {
	payload := spec.Build(o.campaignBrief, o.store)

	if spec.Kind == KindSynthesis {
		return o.executeSynthesis(ctx, payload)
	}
	return o.executeReasoning(ctx, spec, payload)
}

func (o *Orchestrator) executeReasoning(ctx context.Context, spec StageSpec, payload InstructionPayload) (string, error) {
	var text string
	var err error

	if o.engine == nil {
		err = fmt.Errorf("no reasoning engine configured")
	} else {
		runCtx := ctx
		if o.stageTimeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, o.stageTimeout)
			defer cancel()
		}
		text, err = o.engine.CompleteWithSystem(runCtx, cmoSystemPrompt, payload.Instructions)
	}

	if err != nil {
		if spec.ID == StageReport {
			// The run must still end with a deliverable.
			return ReportScaffold(o.campaignBrief, o.store), fmt.Errorf("report generation failed, falling back to scaffold: %w", err)
		}
		return fmt.Sprintf("[Stage failed: %v]", err), fmt.Errorf("stage %s failed: %w", spec.ID, err)
	}
	return text, nil
}

func (o *Orchestrator) executeSynthesis(ctx context.Context, payload InstructionPayload) (string, error) {
	runCtx := ctx
	if o.synthesisTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, o.synthesisTimeout)
		defer cancel()
	}

	outcome := o.synthesizer.Generate(runCtx, payload.Instructions)

	o.mu.Lock()
	o.result.Image = outcome
	o.mu.Unlock()

	if outcome.Success {
		o.store.Put(KeyImagePath, outcome.Path)
		o.store.Put(KeyImageFile, outcome.Filename)
		o.emitEvent(Event{Type: EventImageSaved, Stage: StageImage, Message: outcome.Path})
		return outcome.StatusText(), nil
	}
	return outcome.StatusText(), fmt.Errorf("image generation failed: %s", outcome.Failure)
}

func (o *Orchestrator) finishDone(ctx context.Context) (*RunResult, error) {
	report := o.store.Value(KeyReport)

	var reportPath string
	if o.saveReport && report != "" {
		path, err := o.writer.SaveReport(report)
		if err != nil {
			logging.PipelineWarn("run %s: could not save report: %v", o.runID, err)
		} else {
			reportPath = path
			o.registerReport(ctx, path, len(report))
		}
	}

	o.mu.Lock()
	if err := o.transitionLocked(RunDone); err != nil {
		o.mu.Unlock()
		return nil, err
	}
	o.result.State = RunDone
	o.result.Report = report
	o.result.ReportPath = reportPath
	o.result.FinishedAt = time.Now()
	result := *o.result
	o.mu.Unlock()

	o.emitEvent(Event{Type: EventRunCompleted, Message: fmt.Sprintf("run %s completed", o.runID)})
	logging.Pipeline("run %s completed in %v (failed stages: %d)", o.runID, result.Duration(), len(result.FailedStages()))
	return &result, nil
}

func (o *Orchestrator) finishCancelled(cause error) (*RunResult, error) {
	o.mu.Lock()
	if err := o.transitionLocked(RunCancelled); err != nil {
		o.mu.Unlock()
		return nil, err
	}
	o.result.State = RunCancelled
	o.result.FinishedAt = time.Now()
	result := *o.result
	o.mu.Unlock()

	logging.PipelineWarn("run %s cancelled: %v", o.runID, cause)
	return &result, cause
}

// registerReport records the saved report in the manifest. Best-effort.
func (o *Orchestrator) registerReport(ctx context.Context, path string, size int) {
	if o.registrar == nil {
		return
	}
	entry := artifact.Artifact{
		RunID:     o.runID,
		Kind:      artifact.KindReport,
		MimeType:  "text/markdown",
		Path:      path,
		SizeBytes: int64(size),
	}
	if err := o.registrar.Register(ctx, entry); err != nil {
		logging.PipelineWarn("run %s: could not register report artifact: %v", o.runID, err)
	}
}

// transitionLocked validates and applies a state change. Caller holds
// the write lock.
func (o *Orchestrator) transitionLocked(to RunState) error {
	if err := Transition(o.state, to); err != nil {
		return err
	}
	o.state = to
	return nil
}

// emitEvent delivers an event without ever blocking the pipeline.
func (o *Orchestrator) emitEvent(event Event) {
	if o.eventChan == nil {
		return
	}
	event.Timestamp = time.Now()
	select {
	case o.eventChan <- event:
	default:
		// Drop rather than block the pipeline
	}
}

// emitProgress delivers progress without ever blocking the pipeline.
func (o *Orchestrator) emitProgress(spec StageSpec, index, total int) {
	if o.progressChan == nil {
		return
	}
	progress := Progress{
		RunID:     o.runID,
		Stage:     spec.ID,
		StageName: spec.Name,
		Index:     index,
		Total:     total,
		Percent:   float64(index) / float64(total) * 100,
	}
	select {
	case o.progressChan <- progress:
	default:
	}
}
