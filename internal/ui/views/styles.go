package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title       lipgloss.Style
	Tab         lipgloss.Style
	ActiveTab   lipgloss.Style
	Heading     lipgloss.Style
	Dim         lipgloss.Style
	Status      lipgloss.Style
	Prompt      lipgloss.Style
	Help        lipgloss.Style
	Main        lipgloss.Style
	Scroll      lipgloss.Style
	Highlight   lipgloss.Style
	SelectionBg lipgloss.Style
	Badge       lipgloss.Style
	Done        lipgloss.Style
	Progress    lipgloss.Style
	StatusError lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Tab: lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")),
		ActiveTab: lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")),
		Heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true), // yellow
		Help:        lipgloss.NewStyle().Faint(true),
		Main:        lipgloss.NewStyle().Padding(1, 2),
		Scroll:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		SelectionBg: lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Badge:       lipgloss.NewStyle().Foreground(lipgloss.Color("51")),  // cyan
		Done:        lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Progress:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
	}
}

// ProgressColor returns the color for a checklist completion ratio
func ProgressColor(done, total int) string {
	switch {
	case total > 0 && done == total:
		return "78" // green
	case done > 0:
		return "214" // yellow
	default:
		return "241" // gray
	}
}
