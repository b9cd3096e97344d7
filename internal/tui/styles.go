// Package tui holds terminal styling and the interactive version picker.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)
	// ActiveStyle marks the version currently on PATH.
	ActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	// DimStyle is for paths and secondary detail.
	DimStyle     = lipgloss.NewStyle().Faint(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	stateStyles = map[string]lipgloss.Style{
		"done":  SuccessStyle,
		"found": SuccessStyle,

		"resolving": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"scanning":  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"linking":   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"verifying": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),

		"not-found-local": WarnStyle,

		"not-found-system": ErrorStyle,
		"failed":           ErrorStyle,

		"idle": lipgloss.NewStyle().Faint(true),
	}
)

// StateStyle returns the style for a switch state name.
func StateStyle(state string) lipgloss.Style {
	if s, ok := stateStyles[state]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// Styler renders text with a style, or verbatim when color is off.
type Styler struct {
	Color bool
}

// Render applies s to text when color is enabled.
func (st Styler) Render(s lipgloss.Style, text string) string {
	if !st.Color {
		return text
	}
	return s.Render(text)
}
