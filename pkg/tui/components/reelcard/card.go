// Package reelcard renders the promotional overlay for each display mode as a
// composable layer.
package reelcard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"

	"tableflip.dev/promoreel/pkg/content"
	"tableflip.dev/promoreel/pkg/display"
	"tableflip.dev/promoreel/pkg/overlay"
	"tableflip.dev/promoreel/pkg/tui/theme"
	overlaymgr "tableflip.dev/promoreel/pkg/tui/ui/overlay"
)

// DockedWidth is the outer width of the docked card in cells.
const DockedWidth = 30

// Props is everything the card needs to draw one frame.
type Props struct {
	State overlay.State
	// Progress is the elapsed share of the current clip, 0 to 1.
	Progress float64
	// Width and Height bound the surface the card floats over.
	Width, Height int
	// RowHeight converts the drag offset from pixels to rows.
	RowHeight int
	Styles    theme.CardTheme
}

// Layer returns the card for the current mode. ok is false when nothing
// should be drawn.
func Layer(p Props) (overlaymgr.Layer, bool) {
	st := p.State
	if !st.Eligible() || !st.HasItem || p.Width <= 0 || p.Height <= 0 {
		return overlaymgr.Layer{}, false
	}
	switch st.Mode {
	case display.Minimized:
		return overlaymgr.Layer{
			View: pill(p),
			Placement: overlaymgr.Placement{
				Horizontal: lipgloss.Right,
				Vertical:   lipgloss.Bottom,
				MarginX:    1,
				MarginY:    1,
			},
		}, true
	case display.Fullscreen:
		return overlaymgr.Layer{
			View:      fullscreen(p),
			Placement: overlaymgr.Placement{Width: p.Width, Height: p.Height},
		}, true
	case display.Docked:
		rows := 0
		if p.RowHeight > 0 {
			rows = st.DragOffset / p.RowHeight
		}
		return overlaymgr.Layer{
			View: docked(p),
			Placement: overlaymgr.Placement{
				Horizontal: lipgloss.Right,
				Vertical:   lipgloss.Bottom,
				MarginX:    1,
				MarginY:    1 - rows,
			},
		}, true
	default:
		return overlaymgr.Layer{}, false
	}
}

func docked(p Props) string {
	s := p.Styles
	inner := DockedWidth - s.Docked.GetHorizontalFrameSize()
	mediaRows := 6
	if p.State.Item.Aspect == content.Landscape {
		mediaRows = 4
	}
	lines := []string{
		s.Title.Render(truncate(p.State.Item.Title, inner)),
		media(p, inner, mediaRows),
		progress(p, inner),
		footer(p, inner),
	}
	return s.Docked.Width(DockedWidth).Render(strings.Join(lines, "\n"))
}

func fullscreen(p Props) string {
	s := p.Styles
	inner := max(p.Width-s.Fullscreen.GetHorizontalFrameSize(), 10)
	height := max(p.Height-s.Fullscreen.GetVerticalFrameSize(), 6)
	// title, progress, footer, hint
	mediaRows := max(height-4, 2)
	mediaWidth := inner
	if p.State.Item.Aspect == content.Portrait {
		mediaWidth = min(inner, mediaRows*9/8+12)
	}
	box := lipgloss.PlaceHorizontal(inner, lipgloss.Center, media(p, mediaWidth, mediaRows))
	lines := []string{
		s.Title.Render(truncate(p.State.Item.Title, inner)),
		box,
		progress(p, inner),
		footer(p, inner),
		s.Hint.Render(truncate("↑/↓ browse · enter pause · m sound · esc close", inner)),
	}
	return s.Fullscreen.Width(p.Width).Height(p.Height).Render(strings.Join(lines, "\n"))
}

func pill(p Props) string {
	st := p.State
	label := fmt.Sprintf("▶ Reels %d/%d", st.Index+1, st.Count)
	return p.Styles.Pill.Render(label)
}

func media(p Props, width, rows int) string {
	width = max(width, 4)
	rows = max(rows, 2)
	glyph := "▶"
	if p.State.Paused {
		glyph = "❚❚"
	}
	mid := rows / 2
	lines := make([]string, rows)
	for i := range lines {
		if i == mid {
			lines[i] = lipgloss.PlaceHorizontal(width, lipgloss.Center, glyph)
			continue
		}
		lines[i] = strings.Repeat(" ", width)
	}
	if p.State.Item.MediaURL != "" && rows > 2 {
		lines[rows-1] = lipgloss.PlaceHorizontal(width, lipgloss.Center, truncate(p.State.Item.Aspect.String(), width))
	}
	return p.Styles.Media.Width(width).Render(strings.Join(lines, "\n"))
}

var (
	progressFrom, _ = colorful.Hex("#ff87d7")
	progressTo, _   = colorful.Hex("#87d7ff")
)

func progress(p Props, width int) string {
	width = max(width, 1)
	done := int(clamp01(p.Progress) * float64(width))
	var b strings.Builder
	for i := 0; i < width; i++ {
		if i >= done {
			b.WriteString(p.Styles.Dot.Render("─"))
			continue
		}
		c := progressFrom.BlendLuv(progressTo, float64(i)/float64(width)).Hex()
		b.WriteString(p.Styles.Progress.Foreground(lipgloss.Color(c)).Render("━"))
	}
	return b.String()
}

func footer(p Props, width int) string {
	st := p.State
	dots := make([]string, 0, st.Count)
	for i := 0; i < st.Count && i < 9; i++ {
		if i == st.Index {
			dots = append(dots, p.Styles.ActiveDot.Render("●"))
			continue
		}
		dots = append(dots, p.Styles.Dot.Render("○"))
	}
	left := strings.Join(dots, " ")
	sound := "muted"
	if !st.Muted {
		sound = "sound"
	}
	right := p.Styles.Hint.Render(fmt.Sprintf("%d/%d %s", st.Index+1, st.Count, sound))
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
