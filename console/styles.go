package console

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#7D56F4")
	muted   = lipgloss.Color("#888888")
	danger  = lipgloss.Color("#FF5F87")
	success = lipgloss.Color("#04B575")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(accent).
			Padding(0, 1)

	labelStyle    = lipgloss.NewStyle().Foreground(muted)
	errorStyle    = lipgloss.NewStyle().Foreground(danger)
	statusStyle   = lipgloss.NewStyle().Foreground(success)
	hintStyle     = lipgloss.NewStyle().Foreground(muted).Italic(true)
	selectedStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2)

	modalStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(danger).
			Padding(1, 3).
			Align(lipgloss.Center)
)
