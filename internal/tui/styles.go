package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorPrimary = "#FF0033"
	colorSuccess = "#04B575"
	colorError   = "#FF5F87"
	colorInfo    = "#8A8A8A"
	colorBorder  = "#C4302B"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary)).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorSuccess))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorInfo))

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder)).
			Padding(0, 2)

	barFull  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPrimary))
	barEmpty = lipgloss.NewStyle().Foreground(lipgloss.Color(colorInfo))
)
