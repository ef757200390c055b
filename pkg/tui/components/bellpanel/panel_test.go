package bellpanel

import (
	"strings"
	"testing"

	"tableflip.dev/promoreel/pkg/bell"
	"tableflip.dev/promoreel/pkg/content"
	"tableflip.dev/promoreel/pkg/tui/theme"
)

func TestViewCountsUnread(t *testing.T) {
	entries := []bell.Entry{
		{NotificationItem: content.NotificationItem{ID: "a", Title: "New SEO cohort", Body: "Enrolment is open."}},
		{NotificationItem: content.NotificationItem{ID: "b", Title: "Fresh reels"}, Read: true},
	}
	view := View(entries, theme.Default().Bell)
	for _, want := range []string{"(1 unread)", "● New SEO cohort", "○ Fresh reels"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestViewEmpty(t *testing.T) {
	if view := View(nil, theme.Default().Bell); !strings.Contains(view, "Nothing new") {
		t.Fatalf("view = %q", view)
	}
}

func TestLayerAnchorsTopRight(t *testing.T) {
	r := Layer(nil, theme.Default().Bell).Bounds(100, 30)
	if r.Y != 0 || r.X+r.Width != 99 {
		t.Fatalf("bounds = %+v", r)
	}
}
