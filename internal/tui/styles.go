package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors based on a modern dark theme
var (
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorSuccess = lipgloss.Color("#10B981") // Green
	colorWarning = lipgloss.Color("#F59E0B") // Amber
	colorError   = lipgloss.Color("#EF4444") // Red

	colorText      = lipgloss.Color("#E5E7EB") // Light gray
	colorTextMuted = lipgloss.Color("#9CA3AF") // Medium gray
	colorTextDim   = lipgloss.Color("#6B7280") // Dark gray
	colorBorder    = lipgloss.Color("#374151") // Border gray
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted).
			Width(10)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorText)

	urlStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Underline(true)

	logStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	stateStyles = map[string]lipgloss.Style{
		"running":  lipgloss.NewStyle().Foreground(colorSuccess).Bold(true),
		"starting": lipgloss.NewStyle().Foreground(colorWarning).Bold(true),
		"stopping": lipgloss.NewStyle().Foreground(colorWarning).Bold(true),
		"stopped":  lipgloss.NewStyle().Foreground(colorError).Bold(true),
	}
)

// stateStyle returns the style for a worker state string.
func stateStyle(state string) lipgloss.Style {
	if s, ok := stateStyles[state]; ok {
		return s
	}
	return valueStyle
}
