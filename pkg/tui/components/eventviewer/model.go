// Package eventviewer shows the engine's slog stream inside the terminal
// host: trigger resolution, stale deliveries, gestures and ledger writes.
package eventviewer

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/viewport"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/promoreel/pkg/tui/theme"
)

// Entry is one log record. Source is the component prefix of the message
// ("overlay", "ui"), Summary the rest of it and Detail the attributes.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Source  string
	Summary string
	Detail  string
}

// Model is the newest-first event pane.
type Model struct {
	viewport   viewport.Model
	entries    []Entry
	maxEntries int
	errors     int

	width, height int
	styles        theme.EventsTheme
}

// NewModel keeps at most maxEntries records.
func NewModel(maxEntries int, styles theme.EventsTheme) *Model {
	return &Model{
		viewport:   viewport.New(viewport.WithWidth(1), viewport.WithHeight(1)),
		maxEntries: max(maxEntries, 1),
		styles:     styles,
	}
}

// SetSize fits the pane, border included, into width x height.
func (m *Model) SetSize(width, height int) {
	width, height = max(width, 4), max(height, 3)
	if m.width == width && m.height == height {
		return
	}
	m.width, m.height = width, height
	m.viewport.SetWidth(width - 2)
	m.viewport.SetHeight(max(height-3, 1))
	m.render()
}

func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}
	title := fmt.Sprintf("Events (%d)", len(m.entries))
	if m.errors > 0 {
		title += m.styles.Error.Render(fmt.Sprintf(" %d errors", m.errors))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, m.styles.Title.Render(title), m.viewport.View())
	return m.styles.Frame.Width(m.width).Height(m.height).Render(body)
}

// Append puts e on top and drops the oldest record past the cap.
func (m *Model) Append(e Entry) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	if e.Level >= slog.LevelError {
		m.errors++
	}
	m.entries = append([]Entry{e}, m.entries...)
	if len(m.entries) > m.maxEntries {
		m.entries = m.entries[:m.maxEntries]
	}
	m.render()
	m.viewport.SetYOffset(0)
}

// Entries returns the kept records, newest first.
func (m *Model) Entries() []Entry { return m.entries }

func (m *Model) render() {
	if len(m.entries) == 0 {
		m.viewport.SetContent(m.styles.Stamp.Render("waiting for engine events"))
		return
	}
	lines := make([]string, len(m.entries))
	for i, e := range m.entries {
		msg := e.Summary
		if e.Detail != "" {
			msg += " " + m.styles.Stamp.Render(e.Detail)
		}
		lines[i] = strings.Join([]string{
			m.styles.Stamp.Render(e.Time.Format("15:04:05.000")),
			m.styles.Source.Render(e.Source),
			m.styles.Level(e.Level).Render(msg),
		}, " ")
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}
