package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains pre-configured lipgloss styles for the TUI.
type Styles struct {
	// Title style for the header.
	Title lipgloss.Style

	// Question style for asked questions.
	Question lipgloss.Style

	// Answer style for answer text.
	Answer lipgloss.Style

	// Muted style for metadata and help text.
	Muted lipgloss.Style

	// Confident style for high-confidence markers.
	Confident lipgloss.Style

	// Uncertain style for low-confidence markers.
	Uncertain lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// InputField style for the question input area.
	InputField lipgloss.Style
}

// DefaultStyles returns the default style set.
func DefaultStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")),

		Question: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#06B6D4")),

		Answer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CDD6F4")),

		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")),

		Confident: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1")),

		Uncertain: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9E2AF")),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1),
	}
}
