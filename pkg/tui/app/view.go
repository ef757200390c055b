package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/promoreel/pkg/display"
	"tableflip.dev/promoreel/pkg/tui/components/bellpanel"
	"tableflip.dev/promoreel/pkg/tui/components/reelcard"
	overlaymgr "tableflip.dev/promoreel/pkg/tui/ui/overlay"
)

const helpLine = "? help · tab section · enter open · x dismiss · b bell · q quit"

// View implements tea.Model.
func (m *Model) View() (string, *tea.Cursor) {
	if m.width <= 0 || m.height <= 0 {
		return "", nil
	}
	rows := m.pageRows()
	layers, _ := m.surface()
	parts := []string{
		m.renderHeader(),
		overlaymgr.Compose(m.pageText(rows), m.width, rows, layers...),
	}
	if m.debug {
		parts = append(parts, m.events.View())
	}
	parts = append(parts, m.renderFooter())
	return strings.Join(parts, "\n"), nil
}

// surface returns the layers drawn over the page and the screen cells the
// card occupies, for hit-testing.
func (m *Model) surface() ([]overlaymgr.Layer, overlaymgr.Rect) {
	w, h := m.width, m.pageRows()
	if m.helpOpen {
		hw, hh := m.help.Size()
		return []overlaymgr.Layer{{
			View: m.help.View(),
			Placement: overlaymgr.Placement{
				Horizontal: lipgloss.Center,
				Vertical:   lipgloss.Center,
				Width:      hw,
				Height:     hh,
			},
		}}, overlaymgr.Rect{}
	}

	var layers []overlaymgr.Layer
	var bellRect overlaymgr.Rect
	if m.bellOpen && m.session.State().Mode != display.Fullscreen {
		l := bellpanel.Layer(m.bellEntries, m.theme.Bell)
		bellRect = l.Bounds(w, h)
		layers = append(layers, l)
	}

	card, ok := reelcard.Layer(reelcard.Props{
		State:     m.session.State(),
		Progress:  m.player.progress(),
		Width:     w,
		Height:    h,
		RowHeight: m.rowHeight(),
		Styles:    m.theme.Card,
	})
	if !ok {
		return layers, overlaymgr.Rect{}
	}
	r := card.Bounds(w, h)
	if overlaps(r, bellRect) {
		return layers, overlaymgr.Rect{}
	}
	layers = append(layers, card)
	r.Y += headerRows
	return layers, r
}

func overlaps(a, b overlaymgr.Rect) bool {
	if a.Empty() || b.Empty() {
		return false
	}
	return a.X < b.X+b.Width && b.X < a.X+a.Width && a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
}

func (m *Model) pageText(rows int) string {
	lines := m.doc.Lines()
	if len(lines) == 0 {
		return m.status
	}
	start := min(m.scroll, len(lines))
	end := min(start+rows, len(lines))
	return strings.Join(lines[start:end], "\n")
}

func (m *Model) renderHeader() string {
	t := m.theme.Header
	tabs := make([]string, 0, len(m.sections))
	for i, key := range m.sections {
		title := string(key)
		if sec, ok := m.cfg.Section(key); ok && sec.Title != "" {
			title = sec.Title
		}
		if i == m.current {
			tabs = append(tabs, t.ActiveTab.Render(title))
			continue
		}
		tabs = append(tabs, t.Tab.Render(title))
	}
	left := strings.Join(tabs, "")

	unread := 0
	for _, e := range m.bellEntries {
		if !e.Read {
			unread++
		}
	}
	badge := t.Tab.Render("bell")
	if unread > 0 {
		badge = t.Badge.Render(fmt.Sprintf("bell %d", unread))
	}
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(badge), 1)
	return t.Bar.MaxWidth(m.width).Render(left + strings.Repeat(" ", gap) + badge)
}

func (m *Model) renderFooter() string {
	t := m.theme.Footer
	left := m.status
	if left == "" {
		left = helpLine
	}
	right := t.Status.Render(m.describeOverlay())
	left = t.Help.Render(left)
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return lipgloss.NewStyle().MaxWidth(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m *Model) describeOverlay() string {
	st := m.session.State()
	switch {
	case !st.Loaded:
		return "loading"
	case st.Dismissed:
		return "dismissed"
	case st.Count == 0:
		return "no reels"
	case st.AutoHidden:
		return "hidden"
	case !st.Visible:
		return "waiting"
	}
	return fmt.Sprintf("%s %d/%d", st.Mode, st.Index+1, st.Count)
}
