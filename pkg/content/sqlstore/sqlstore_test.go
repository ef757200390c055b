package sqlstore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tableflip.dev/promoreel/pkg/content"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, "sqlite", ":memory:", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if _, err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openMemory(t)
	n, err := s.Migrate(context.Background())
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if n != 0 {
		t.Fatalf("second migrate applied %d migrations", n)
	}
	status, err := s.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(status) != 2 {
		t.Fatalf("status = %+v", status)
	}
	for _, st := range status {
		if !st.Applied {
			t.Errorf("migration %d not applied", st.Version)
		}
	}
}

func TestListActiveItems(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	seed := []content.MediaItem{
		{ID: "old", Title: "Old", MediaURL: "old.mp4", Active: true, Version: 100, Sections: []content.SectionKey{"home"}},
		{ID: "new", Title: "New", MediaURL: "new.mp4", Active: true, Version: 300, Aspect: content.Landscape,
			Duration: 12 * time.Second, Sections: []content.SectionKey{"home", "seo"}},
		{ID: "off", Title: "Off", MediaURL: "off.mp4", Active: false, Version: 400, Sections: []content.SectionKey{"home"}},
		{ID: "seo", Title: "SEO", MediaURL: "seo.mp4", Active: true, Version: 200, Sections: []content.SectionKey{"seo"}},
	}
	for _, it := range seed {
		if _, err := s.UpsertItem(ctx, it); err != nil {
			t.Fatalf("upsert %s: %v", it.ID, err)
		}
	}

	items, err := s.ListActiveItems(ctx, content.SectionHome)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].ID != "new" || items[1].ID != "old" {
		t.Fatalf("items = %+v", items)
	}
	got := items[0]
	if got.Aspect != content.Landscape || got.Duration != 12*time.Second || got.Version != 300 || !got.Active {
		t.Errorf("item = %+v", got)
	}
	if len(got.Sections) != 2 || !got.InSection(content.SectionSEO) {
		t.Errorf("sections = %v", got.Sections)
	}

	if items, _ := s.ListActiveItems(ctx, "pricing"); len(items) != 0 {
		t.Errorf("unknown section returned %+v", items)
	}
}

func TestUpsertReplacesSections(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	it := content.MediaItem{ID: "a", Title: "A", MediaURL: "a.mp4", Active: true, Version: 10, Sections: []content.SectionKey{"home"}}
	if _, err := s.UpsertItem(ctx, it); err != nil {
		t.Fatal(err)
	}
	it.Sections = []content.SectionKey{"seo"}
	it.Version = 11
	if _, err := s.UpsertItem(ctx, it); err != nil {
		t.Fatal(err)
	}
	if items, _ := s.ListActiveItems(ctx, content.SectionHome); len(items) != 0 {
		t.Fatalf("home still lists %+v", items)
	}
	got, err := s.Item(ctx, "a")
	if err != nil {
		t.Fatalf("item: %v", err)
	}
	if got.Version != 11 || len(got.Sections) != 1 || got.Sections[0] != content.SectionSEO {
		t.Fatalf("item = %+v", got)
	}
}

func TestTouchMovesVersionForward(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	future := content.VersionOf(time.Now().Add(time.Hour))
	if _, err := s.UpsertItem(ctx, content.MediaItem{ID: "a", Title: "A", MediaURL: "a.mp4", Active: true, Version: future}); err != nil {
		t.Fatal(err)
	}
	v, err := s.Touch(ctx, "a")
	if err != nil {
		t.Fatalf("touch: %v", err)
	}
	if v != future+1 {
		t.Fatalf("version = %d, want %d", v, future+1)
	}

	if _, err := s.UpsertNotification(ctx, content.NotificationItem{ID: "n", Title: "N", Version: 5}); err != nil {
		t.Fatal(err)
	}
	if v, err := s.Touch(ctx, "n"); err != nil || v <= 5 {
		t.Fatalf("touch notification = %d, %v", v, err)
	}

	if _, err := s.Touch(ctx, "missing"); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("touch missing: %v", err)
	}
}

func TestListNotifications(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	s.now = func() time.Time { return time.UnixMilli(1000) }
	for _, n := range []content.NotificationItem{
		{ID: "b", Title: "B", Body: "second", Version: 20},
		{ID: "a", Title: "A", Body: "first"},
	} {
		if _, err := s.UpsertNotification(ctx, n); err != nil {
			t.Fatal(err)
		}
	}
	notes, err := s.ListNotifications(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(notes) != 2 || notes[0].ID != "a" || notes[0].Version != 1000 || notes[1].Body != "second" {
		t.Fatalf("notes = %+v", notes)
	}
}

func TestItemNotFound(t *testing.T) {
	s := openMemory(t)
	if _, err := s.Item(context.Background(), "nope"); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestPostgresPlaceholders(t *testing.T) {
	s := New(nil, Postgres, nil)
	query, args, err := s.activeItemsQuery(content.SectionSEO)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(query, "$1") || !strings.Contains(query, "$2") || strings.Contains(query, "?") {
		t.Fatalf("query = %s", query)
	}
	if len(args) != 2 {
		t.Fatalf("args = %v", args)
	}
}

func TestParseDialect(t *testing.T) {
	if d, err := ParseDialect("postgres"); err != nil || d != Postgres {
		t.Fatalf("postgres = %v, %v", d, err)
	}
	if _, err := ParseDialect("mysql"); err == nil {
		t.Fatal("expected error")
	}
}

func TestBadQueryKeepsBuilderError(t *testing.T) {
	s := openMemory(t)
	_, _, cause := s.sb.Select().From("media_items").ToSql()
	if cause == nil {
		t.Fatal("a select without columns must not build")
	}
	err := badQuery(cause)
	if !errors.Is(err, ErrBadQuery) {
		t.Fatalf("err = %v, want ErrBadQuery", err)
	}
	if !strings.Contains(err.Error(), cause.Error()) {
		t.Fatalf("err %q lost the builder error %q", err, cause)
	}
}
