package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// maxLogLines limits the recent-output section of the dashboard.
const maxLogLines = 8

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderStatus())
	if len(m.status.RecentLines) > 0 {
		sections = append(sections, m.renderRecentOutput())
	}
	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := titleStyle.Render(m.appTitle)
	version := footerStyle.Render(" " + m.version)
	return title + version + "\n"
}

func (m Model) renderStatus() string {
	rows := []string{
		labelStyle.Render("URL") + urlStyle.Render(m.status.URL),
		labelStyle.Render("State") + stateStyle(m.status.State).Render(m.status.State),
		labelStyle.Render("PID") + valueStyle.Render(fmt.Sprintf("%d", m.status.PID)),
		labelStyle.Render("Uptime") + valueStyle.Render(formatDuration(m.status.Uptime)),
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) renderRecentOutput() string {
	lines := m.status.RecentLines
	if len(lines) > maxLogLines {
		lines = lines[len(lines)-maxLogLines:]
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(logStyle.Render(truncate(line, m.width-4)))
		b.WriteString("\n")
	}
	return "\n" + strings.TrimRight(b.String(), "\n")
}

func (m Model) renderFooter() string {
	return "\n" + footerStyle.Render("open the URL in a browser · press q to quit")
}

// formatDuration renders an uptime as 1h02m03s, trimming leading zero units.
func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	if total < 0 {
		total = 0
	}
	h := total / 3600
	mi := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, mi, s)
	}
	if mi > 0 {
		return fmt.Sprintf("%dm%02ds", mi, s)
	}
	return fmt.Sprintf("%ds", s)
}

// truncate cuts a line to width runes.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
