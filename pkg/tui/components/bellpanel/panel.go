// Package bellpanel renders the notification list opened from the header bell.
package bellpanel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/promoreel/pkg/bell"
	"tableflip.dev/promoreel/pkg/tui/theme"
	overlaymgr "tableflip.dev/promoreel/pkg/tui/ui/overlay"
)

// Width is the outer width of the panel.
const Width = 44

// Layer returns the panel anchored under the header on the right.
func Layer(entries []bell.Entry, styles theme.BellTheme) overlaymgr.Layer {
	return overlaymgr.Layer{
		View: View(entries, styles),
		Placement: overlaymgr.Placement{
			Horizontal: lipgloss.Right,
			Vertical:   lipgloss.Top,
			MarginX:    1,
		},
	}
}

// View renders the entries, unread first in provider order.
func View(entries []bell.Entry, styles theme.BellTheme) string {
	inner := Width - styles.Frame.GetHorizontalFrameSize()
	unread := 0
	for _, e := range entries {
		if !e.Read {
			unread++
		}
	}
	lines := []string{styles.Title.Render(fmt.Sprintf("Notifications (%d unread)", unread))}
	if len(entries) == 0 {
		lines = append(lines, styles.Read.Render("Nothing new"))
	}
	for _, e := range entries {
		mark, style := "●", styles.Unread
		if e.Read {
			mark, style = "○", styles.Read
		}
		lines = append(lines,
			style.Render(truncate.StringWithTail(mark+" "+e.Title, uint(inner), "…")),
			styles.Read.Render(truncate.StringWithTail("  "+e.Body, uint(inner), "…")),
		)
	}
	lines = append(lines, styles.Read.Render("r mark all read · b close"))
	return styles.Frame.Width(Width).Render(strings.Join(lines, "\n"))
}
