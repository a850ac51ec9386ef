package pipeline

import (
	"context"
	"strings"
	"sync"

	"adforge/internal/synthesis"
)

// Canned stage outputs used across the orchestrator tests.
const (
	cannedStrategy    = "## MARKETING STRATEGY:\nThe Hydration Revolution: own the clean-water moment."
	cannedTaglines    = "TAGLINE 1: Pure on the Go\nJUSTIFICATION: Taps the convenience instinct.\n\nTAGLINE 2: Clean Sips Only\nJUSTIFICATION: Purity framing builds trust."
	cannedVisualBrief = "**STYLE:** Minimalist product photography with soft morning light."
)

// StubEngine is a function-field reasoning engine for tests. When
// CompleteWithSystemFunc is nil it answers from canned content keyed on
// the stage prompt.
type StubEngine struct {
	CompleteFunc           func(ctx context.Context, prompt string) (string, error)
	CompleteWithSystemFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

func (s *StubEngine) Complete(ctx context.Context, prompt string) (string, error) {
	return s.CompleteWithSystem(ctx, "", prompt)
}

func (s *StubEngine) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, userPrompt)
	s.mu.Unlock()

	if s.CompleteWithSystemFunc != nil {
		return s.CompleteWithSystemFunc(ctx, systemPrompt, userPrompt)
	}
	return cannedResponse(userPrompt), nil
}

// Prompts returns the user prompts seen so far, in call order.
func (s *StubEngine) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}

// CallCount returns how many completions were requested.
func (s *StubEngine) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

// cannedResponse keys a deterministic answer off the stage prompt. The
// report stage echoes its own instructions so tests can assert that
// upstream context was interpolated into the final deliverable.
func cannedResponse(prompt string) string {
	switch {
	case strings.Contains(prompt, "market strategy analysis"):
		return cannedStrategy
	case strings.Contains(prompt, "Generate EXACTLY 5 distinct"):
		return cannedTaglines
	case strings.Contains(prompt, "Creative Director"):
		return cannedVisualBrief
	case strings.Contains(prompt, "Final Marketing Campaign Report"):
		return prompt
	default:
		return "unrecognized stage prompt"
	}
}

// StubSynthesizer is a function-field image stage for tests.
type StubSynthesizer struct {
	GenerateFunc func(ctx context.Context, visualBrief string) synthesis.ImageOutcome

	mu     sync.Mutex
	briefs []string
}

func (s *StubSynthesizer) Generate(ctx context.Context, visualBrief string) synthesis.ImageOutcome {
	s.mu.Lock()
	s.briefs = append(s.briefs, visualBrief)
	s.mu.Unlock()

	if s.GenerateFunc != nil {
		return s.GenerateFunc(ctx, visualBrief)
	}
	return synthesis.ImageOutcome{
		Success:  true,
		Failure:  synthesis.FailureNone,
		Path:     "output/campaign_image_test.png",
		Filename: "campaign_image_test.png",
		Width:    2,
		Height:   2,
		SizeKB:   0.1,
	}
}

// Briefs returns the visual briefs seen so far, in call order.
func (s *StubSynthesizer) Briefs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.briefs...)
}
