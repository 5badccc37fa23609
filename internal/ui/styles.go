// Package ui renders docfind's terminal output: styled search results,
// scan progress, and status lines. Color is dropped automatically when
// stdout is not a terminal.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color palette, single cyan accent.
const (
	ColorCyan     = "45"  // Primary accent
	ColorWhite    = "255" // Headers, important text
	ColorGray     = "245" // Secondary text, snippets
	ColorDarkGray = "238" // Separators
	ColorRed      = "196" // Errors
	ColorYellow   = "220" // Warnings
	ColorGreen    = "77"  // Success
)

// Styles holds the render styles for terminal output.
type Styles struct {
	Header  lipgloss.Style
	Path    lipgloss.Style
	Score   lipgloss.Style
	Snippet lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Dim     lipgloss.Style
	Label   lipgloss.Style
}

// DefaultStyles returns the colored styles.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorCyan)),
		Path:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWhite)),
		Score:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorCyan)),
		Snippet: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGreen)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
	}
}

// NoColorStyles returns unstyled components for plain output.
func NoColorStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle(),
		Path:    lipgloss.NewStyle(),
		Score:   lipgloss.NewStyle(),
		Snippet: lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Dim:     lipgloss.NewStyle(),
		Label:   lipgloss.NewStyle(),
	}
}

// GetStyles picks styles for the environment. Color is used only when
// stdout is a terminal and noColor is false.
func GetStyles(noColor bool) Styles {
	if noColor || !isatty.IsTerminal(os.Stdout.Fd()) {
		return NoColorStyles()
	}
	return DefaultStyles()
}
