// Package tui provides a live terminal dashboard for a running app.
//
// The dashboard is the fallback surface when no window shell is available
// or the user passed -no-window: it shows the UI server's URL, the worker's
// state and recent diagnostics, and quits on q or ctrl+c.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent periodically to refresh the display.
type TickMsg time.Time

// Status is a snapshot of the supervised worker.
type Status struct {
	URL         string
	PID         int
	State       string
	Uptime      time.Duration
	RecentLines []string
}

// StatusSource provides worker status snapshots.
type StatusSource interface {
	Status() Status
}

// Model represents the dashboard state.
type Model struct {
	appTitle string
	version  string
	source   StatusSource

	status     Status
	lastUpdate time.Time

	width  int
	height int

	quitting bool
}

// New creates a dashboard model.
func New(appTitle, version string, source StatusSource) Model {
	m := Model{
		appTitle:   appTitle,
		version:    version,
		source:     source,
		lastUpdate: time.Now(),
		width:      80,
		height:     24,
	}
	if source != nil {
		m.status = source.Status()
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TickMsg:
		if m.source != nil {
			m.status = m.source.Status()
		}
		m.lastUpdate = time.Now()
		return m, tickCmd()
	}

	return m, nil
}

// tickCmd returns a command that sends a tick after one second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Run shows the dashboard until the user quits or ctx is cancelled.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if ctx.Err() != nil {
		// Cancellation is the normal shutdown path, not a failure.
		return nil
	}
	return err
}
