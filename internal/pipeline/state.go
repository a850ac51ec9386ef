package pipeline

import "fmt"

// IsTerminal reports whether the run state is terminal.
func IsTerminal(s RunState) bool {
	switch s {
	case RunDone, RunCancelled:
		return true
	default:
		return false
	}
}

// Transition validates a run state change. The schedule is strictly
// forward: pending -> running -> done, with cancellation the only other
// exit from running.
func Transition(from, to RunState) error {
	if !isAllowedTransition(from, to) {
		return fmt.Errorf("disallowed run state transition: %s -> %s", from, to)
	}
	return nil
}

func isAllowedTransition(from, to RunState) bool {
	switch from {
	case RunPending:
		return to == RunRunning
	case RunRunning:
		return to == RunDone || to == RunCancelled
	default:
		return false
	}
}
