package content

import (
	"context"
	"testing"
	"time"
)

func TestMemoryListActiveItemsFiltersBySectionMembership(t *testing.T) {
	m := NewMemory(
		MediaItem{ID: "a", Active: true, Version: 10, Sections: []SectionKey{SectionHome}},
		MediaItem{ID: "b", Active: true, Version: 30, Sections: []SectionKey{SectionHome, SectionSEO}},
		MediaItem{ID: "c", Active: false, Version: 40, Sections: []SectionKey{SectionHome}},
		MediaItem{ID: "d", Active: true, Version: 20, Sections: []SectionKey{SectionSEO}},
	)

	home, err := m.ListActiveItems(context.Background(), SectionHome)
	if err != nil {
		t.Fatalf("list home: %v", err)
	}
	if got := ids(home); got != "b,a" {
		t.Fatalf("home items = %s, want b,a", got)
	}

	seo, err := m.ListActiveItems(context.Background(), SectionSEO)
	if err != nil {
		t.Fatalf("list seo: %v", err)
	}
	if got := ids(seo); got != "b,d" {
		t.Fatalf("seo items = %s, want b,d", got)
	}
}

func TestMemoryTouchBumpsVersion(t *testing.T) {
	m := NewMemory(MediaItem{ID: "a", Active: true, Version: 5, Sections: []SectionKey{SectionHome}})
	m.now = func() time.Time { return time.UnixMilli(1) }

	v, err := m.Touch("a")
	if err != nil {
		t.Fatalf("touch: %v", err)
	}
	if v != 6 {
		t.Fatalf("version = %d, want 6", v)
	}
	if _, err := m.Touch("missing"); err != ErrNotFound {
		t.Fatalf("touch missing err = %v, want ErrNotFound", err)
	}
}

func TestParseAspectRatio(t *testing.T) {
	tests := map[string]AspectRatio{
		"":          Portrait,
		"portrait":  Portrait,
		"Landscape": Landscape,
	}
	for in, want := range tests {
		got, err := ParseAspectRatio(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseAspectRatio("square"); err == nil {
		t.Fatal("expected error for unknown aspect")
	}
}

func ids(items []MediaItem) string {
	out := ""
	for i, it := range items {
		if i > 0 {
			out += ","
		}
		out += it.ID
	}
	return out
}
