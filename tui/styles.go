package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used to render the editor.
type Styles struct {
	Title       lipgloss.Style
	Number      lipgloss.Style
	Operator    lipgloss.Style
	Variable    lipgloss.Style
	Text        lipgloss.Style
	Selected    lipgloss.Style
	Dropdown    lipgloss.Style
	Item        lipgloss.Style
	Highlighted lipgloss.Style
	Muted       lipgloss.Style
	Result      lipgloss.Style
	Error       lipgloss.Style
	Help        lipgloss.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() Styles {
	chip := lipgloss.NewStyle().Padding(0, 1)
	return Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1),
		Number:      chip.Foreground(lipgloss.Color("39")),
		Operator:    chip.Foreground(lipgloss.Color("252")).Bold(true),
		Variable:    chip.Foreground(lipgloss.Color("16")).Background(lipgloss.Color("114")),
		Text:        chip.Foreground(lipgloss.Color("203")).Underline(true),
		Selected:    chip.Foreground(lipgloss.Color("16")).Background(lipgloss.Color("220")).Bold(true),
		Dropdown:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("241")).Padding(0, 1),
		Item:        lipgloss.NewStyle().PaddingLeft(2),
		Highlighted: lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Result:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Error:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
