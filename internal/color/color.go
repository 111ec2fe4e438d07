// Package color provides the terminal style palette for samctl's test
// output. Styles adapt to dark and light backgrounds and respect
// NO_COLOR through lipgloss's profile detection.
package color

import "github.com/charmbracelet/lipgloss"

var (
	// Prefix marks every test-output line.
	Prefix = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "42"})

	// Name renders suite and case names.
	Name = lipgloss.NewStyle().Italic(true)

	// Success renders passing results.
	Success = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "42"})

	// Failure renders failing results and failed assertion messages.
	Failure = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "196"})

	// Skipped renders skipped cases and empty suites.
	Skipped = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "214"})
)
