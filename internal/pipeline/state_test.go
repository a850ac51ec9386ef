package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition_AllowedPaths(t *testing.T) {
	tests := []struct {
		name string
		from RunState
		to   RunState
	}{
		{"pending to running", RunPending, RunRunning},
		{"running to done", RunRunning, RunDone},
		{"running to cancelled", RunRunning, RunCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, Transition(tt.from, tt.to))
		})
	}
}

func TestTransition_DisallowedPaths(t *testing.T) {
	tests := []struct {
		name string
		from RunState
		to   RunState
	}{
		{"pending straight to done", RunPending, RunDone},
		{"pending straight to cancelled", RunPending, RunCancelled},
		{"done is terminal", RunDone, RunRunning},
		{"cancelled is terminal", RunCancelled, RunRunning},
		{"running back to pending", RunRunning, RunPending},
		{"self transition", RunRunning, RunRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Transition(tt.from, tt.to)
			require.Error(t, err)
			assert.Contains(t, err.Error(), string(tt.from))
			assert.Contains(t, err.Error(), string(tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(RunPending))
	assert.False(t, IsTerminal(RunRunning))
	assert.True(t, IsTerminal(RunDone))
	assert.True(t, IsTerminal(RunCancelled))
}
