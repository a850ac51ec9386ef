package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"adforge/internal/brief"
	"adforge/internal/pipeline"
)

// PipelineRunner bundles everything the progress UI needs to drive and
// observe one pipeline run.
type PipelineRunner struct {
	Brief        brief.CampaignBrief
	Run          func(ctx context.Context) (*pipeline.RunResult, error)
	EventChan    chan pipeline.Event
	ProgressChan chan pipeline.Progress
}

// stageState is the display status of one checklist row.
type stageState int

const (
	statePending stageState = iota
	stateActive
	stateDone
	stateFailed
)

// stageRow is one line of the five-stage checklist.
type stageRow struct {
	id      pipeline.StageID
	name    string
	state   stageState
	message string
}

type (
	eventMsg    pipeline.Event
	progressMsg pipeline.Progress
	finishedMsg struct{}
)

// model is the bubbletea model for the run progress display.
type model struct {
	campaign   string
	rows       []stageRow
	spinner    spinner.Model
	percent    float64
	stageIndex int
	stageTotal int
	cancelling bool
	done       bool
	cancel     context.CancelFunc
	eventCh    chan pipeline.Event
	progressCh chan pipeline.Progress
	styles     Styles
}

func newModel(r PipelineRunner, cancel context.CancelFunc) model {
	styles := DefaultStyles()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	stages := pipeline.DefaultStages()
	rows := make([]stageRow, len(stages))
	for i, spec := range stages {
		rows[i] = stageRow{id: spec.ID, name: spec.Name}
	}

	return model{
		campaign:   r.Brief.ProductService,
		rows:       rows,
		spinner:    sp,
		stageTotal: len(stages),
		cancel:     cancel,
		eventCh:    r.EventChan,
		progressCh: r.ProgressChan,
		styles:     styles,
	}
}

// waitForEvent reads the next orchestrator event. A zero event means the
// channel was closed.
func waitForEvent(ch chan pipeline.Event) tea.Cmd {
	return func() tea.Msg {
		return eventMsg(<-ch)
	}
}

func waitForProgress(ch chan pipeline.Progress) tea.Cmd {
	return func() tea.Msg {
		return progressMsg(<-ch)
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForEvent(m.eventCh),
		waitForProgress(m.progressCh),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.cancelling && !m.done {
				m.cancelling = true
				m.cancel()
			}
			return m, nil
		}

	case eventMsg:
		if msg.Type == "" {
			// Channel closed; stop listening.
			return m, nil
		}
		m.applyEvent(pipeline.Event(msg))
		return m, waitForEvent(m.eventCh)

	case progressMsg:
		if msg.Total == 0 {
			return m, nil
		}
		m.percent = msg.Percent
		m.stageIndex = msg.Index
		return m, waitForProgress(m.progressCh)

	case finishedMsg:
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// applyEvent folds an orchestrator event into the checklist.
func (m *model) applyEvent(event pipeline.Event) {
	for i := range m.rows {
		if m.rows[i].id != event.Stage {
			continue
		}
		switch event.Type {
		case pipeline.EventStageStarted:
			m.rows[i].state = stateActive
		case pipeline.EventStageCompleted:
			m.rows[i].state = stateDone
		case pipeline.EventStageFailed:
			m.rows[i].state = stateFailed
			m.rows[i].message = event.Message
		case pipeline.EventImageSaved:
			m.rows[i].message = event.Message
		}
		return
	}
}

func (m model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Header.Render(fmt.Sprintf("Campaign: %s", m.campaign)))
	sb.WriteString("\n\n")

	for _, row := range m.rows {
		var line string
		switch row.state {
		case stateActive:
			line = m.styles.Active.Render(fmt.Sprintf(" %s %s", m.spinner.View(), row.name))
		case stateDone:
			line = m.styles.Success.Render(fmt.Sprintf(" ✓ %s", row.name))
		case stateFailed:
			line = m.styles.Error.Render(fmt.Sprintf(" ✗ %s", row.name))
		default:
			line = m.styles.Muted.Render(fmt.Sprintf(" ○ %s", row.name))
		}
		sb.WriteString(line)
		sb.WriteString("\n")

		if row.message != "" {
			style := m.styles.Muted
			if row.state == stateFailed {
				style = m.styles.Warning
			}
			sb.WriteString(style.Render(fmt.Sprintf("   %s", firstLine(row.message))))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Stage.Render(fmt.Sprintf(" %d/%d stages (%.0f%%)", m.stageIndex, m.stageTotal, m.percent)))

	switch {
	case m.done:
		sb.WriteString(m.styles.Footer.Render("\n Run complete."))
	case m.cancelling:
		sb.WriteString(m.styles.Warning.Render("\n Cancelling..."))
	default:
		sb.WriteString(m.styles.Footer.Render("\n Press ctrl+c to cancel"))
	}
	sb.WriteString("\n")

	return sb.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// RunPipeline drives a run behind the progress display and returns its
// result once both the run and the display have finished.
func RunPipeline(ctx context.Context, r PipelineRunner) (*pipeline.RunResult, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(r, cancel))

	var (
		result *pipeline.RunResult
		runErr error
	)
	runDone := make(chan struct{})
	go func() {
		result, runErr = r.Run(runCtx)
		close(runDone)
		// Unblock pending channel reads; the orchestrator sends nothing
		// after Run returns.
		close(r.EventChan)
		close(r.ProgressChan)
		p.Send(finishedMsg{})
	}()

	if _, err := p.Run(); err != nil {
		// Display failed; make sure the pipeline still winds down.
		cancel()
		<-runDone
		if runErr != nil {
			return result, runErr
		}
		return result, fmt.Errorf("progress display failed: %w", err)
	}

	<-runDone
	return result, runErr
}
