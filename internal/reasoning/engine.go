// Package reasoning provides the text-completion engine behind the
// campaign pipeline's thinking stages (strategy, taglines, visual brief,
// report). The production engine talks to the Gemini REST API; tests use
// function-field stubs.
package reasoning

import (
	"context"
	"time"
)

// Engine is the completion port the pipeline reasons through.
type Engine interface {
	// Complete sends a prompt and returns the completion.
	Complete(ctx context.Context, prompt string) (string, error)
	// CompleteWithSystem sends a prompt with a system message.
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Config holds configuration for the Gemini engine.
type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	Timeout         time.Duration
	MaxOutputTokens int
}

// DefaultConfig returns sensible defaults for campaign work.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:          apiKey,
		BaseURL:         "https://generativelanguage.googleapis.com/v1beta",
		Model:           "gemini-2.5-flash",
		Timeout:         2 * time.Minute,
		MaxOutputTokens: 8192,
	}
}
