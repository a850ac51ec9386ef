// Package pipeline drives a campaign brief through the fixed five-stage
// generation sequence: market strategy, taglines, visual brief, image
// synthesis, and the final report.
//
// The package provides:
//   - ContextStore: the per-run accumulator of stage outputs
//   - StageSpec: declarative stage definitions with pure prompt builders
//   - Orchestrator: the state machine executing the stages in order
//   - The report scaffold used when the reasoning engine cannot
//     produce a polished report
//
// Stages are strictly ordered and single-pass. Text stages cannot fail
// in a way that halts the run: an engine error becomes an explanatory
// placeholder in context and the pipeline advances. The image stage
// folds every failure into a typed ImageOutcome. Only context
// cancellation ends a run early.
package pipeline

import (
	"time"

	"adforge/internal/brief"
	"adforge/internal/synthesis"
)

// StageID identifies one of the five pipeline stages.
type StageID string

const (
	StageStrategy    StageID = "/strategy"     // Market strategy analysis
	StageTaglines    StageID = "/taglines"     // Tagline generation
	StageVisualBrief StageID = "/visual_brief" // Visual concept development
	StageImage       StageID = "/image"        // Image synthesis
	StageReport      StageID = "/report"       // Final campaign report
)

// StageKind separates text reasoning stages from image synthesis.
type StageKind string

const (
	KindReasoning StageKind = "/reasoning"
	KindSynthesis StageKind = "/synthesis"
)

// StageKey addresses a value in the ContextStore.
type StageKey string

const (
	KeyStrategy    StageKey = "strategy"
	KeyTaglines    StageKey = "taglines"
	KeyVisualBrief StageKey = "visual_brief"
	KeyImageStatus StageKey = "image_status"
	KeyImagePath   StageKey = "image_path"
	KeyImageFile   StageKey = "image_file"
	KeyReport      StageKey = "report"
)

// RunState is the orchestrator lifecycle state.
type RunState string

const (
	RunPending   RunState = "/pending"
	RunRunning   RunState = "/running"
	RunDone      RunState = "/done"
	RunCancelled RunState = "/cancelled"
)

// StageStatus records how a stage finished.
type StageStatus string

const (
	StageSuccess StageStatus = "/success"
	StageFailed  StageStatus = "/failed"
)

// Event types emitted on the orchestrator event channel.
const (
	EventStageStarted   = "stage_started"
	EventStageCompleted = "stage_completed"
	EventStageFailed    = "stage_failed"
	EventImageSaved     = "image_saved"
	EventRunCompleted   = "run_completed"
)

// Event is one orchestrator lifecycle notification.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Stage     StageID   `json:"stage,omitempty"`
	StageName string    `json:"stage_name,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// Progress reports pipeline position after each finished stage.
type Progress struct {
	RunID     string  `json:"run_id"`
	Stage     StageID `json:"stage"`
	StageName string  `json:"stage_name"`
	Index     int     `json:"index"` // 1-based position of the finished stage
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

// InstructionPayload is a composed stage task for the reasoning engine
// (or, for the image stage, the raw visual brief handed to synthesis).
// Builders are pure string formatting and cannot fail.
type InstructionPayload struct {
	StageID      StageID `json:"stage_id"`
	Instructions string  `json:"instructions"`
	Description  string  `json:"description"`
}

// StageRecord is the per-stage entry in a RunResult.
type StageRecord struct {
	ID       StageID       `json:"id"`
	Name     string        `json:"name"`
	Status   StageStatus   `json:"status"`
	Output   string        `json:"output,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// RunResult is the complete outcome of one pipeline run.
type RunResult struct {
	RunID      string                 `json:"run_id"`
	Brief      brief.CampaignBrief    `json:"brief"`
	State      RunState               `json:"state"`
	Stages     []StageRecord          `json:"stages"`
	Image      synthesis.ImageOutcome `json:"image"`
	Report     string                 `json:"report"`
	ReportPath string                 `json:"report_path,omitempty"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
}

// StageByID returns the record for the given stage.
func (r *RunResult) StageByID(id StageID) (StageRecord, bool) {
	for _, rec := range r.Stages {
		if rec.ID == id {
			return rec, true
		}
	}
	return StageRecord{}, false
}

// FailedStages returns the records of stages that did not succeed.
func (r *RunResult) FailedStages() []StageRecord {
	var failed []StageRecord
	for _, rec := range r.Stages {
		if rec.Status == StageFailed {
			failed = append(failed, rec)
		}
	}
	return failed
}

// Duration returns the wall-clock time of the whole run.
func (r *RunResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
