package help

import (
	"strings"
	"testing"
)

func TestRendersKeyReference(t *testing.T) {
	m := New(70, 120)
	if m.err != nil {
		t.Fatalf("render: %v", m.err)
	}
	view := m.View()
	for _, want := range []string{"promoreel", "dismiss"} {
		if !strings.Contains(view, want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestSetSizeEnforcesMinimum(t *testing.T) {
	m := New(5, 2)
	if w, h := m.Size(); w != 32 || h != 8 {
		t.Fatalf("size = %dx%d", w, h)
	}
}
