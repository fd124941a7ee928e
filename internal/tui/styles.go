package tui

import (
	"github.com/charmbracelet/lipgloss"

	"focustimer/internal/model"
)

var (
	ColorFocus      = lipgloss.Color("#E06C75")
	ColorShortBreak = lipgloss.Color("#98C379")
	ColorLongBreak  = lipgloss.Color("#61AFEF")
	ColorMuted      = lipgloss.Color("#636B78")
	ColorText       = lipgloss.Color("#ABB2BF")
	ColorBorder     = lipgloss.Color("#3F4451")
	ColorWarning    = lipgloss.Color("#E5C07B")
)

var (
	FrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 3)

	ClockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	StateStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	TaskStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)
)

func sessionColor(t model.SessionType) lipgloss.Color {
	switch t {
	case model.SessionShortBreak:
		return ColorShortBreak
	case model.SessionLongBreak:
		return ColorLongBreak
	default:
		return ColorFocus
	}
}

func SessionStyle(t model.SessionType) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(sessionColor(t))
}
