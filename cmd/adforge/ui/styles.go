// Package ui provides the interactive progress display for pipeline runs.
package ui

import "github.com/charmbracelet/lipgloss"

// Semantic colors shared across the progress display.
var (
	colorSuccess = lipgloss.Color("#8BC34A") // Lime green
	colorError   = lipgloss.Color("#e53935") // Red
	colorInfo    = lipgloss.Color("#2196F3") // Blue
	colorWarning = lipgloss.Color("#FFC107") // Yellow
	colorMuted   = lipgloss.Color("241")
)

// Styles holds the styled components of the progress display.
type Styles struct {
	Header  lipgloss.Style
	Stage   lipgloss.Style
	Active  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
	Footer  lipgloss.Style
	Spinner lipgloss.Style
}

// DefaultStyles returns the standard progress display styles.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1),

		Stage: lipgloss.NewStyle(),

		Active: lipgloss.NewStyle().
			Foreground(colorInfo),

		Success: lipgloss.NewStyle().
			Foreground(colorSuccess),

		Error: lipgloss.NewStyle().
			Foreground(colorError),

		Warning: lipgloss.NewStyle().
			Foreground(colorWarning),

		Muted: lipgloss.NewStyle().
			Foreground(colorMuted),

		Footer: lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1),

		Spinner: lipgloss.NewStyle().
			Foreground(colorInfo),
	}
}
