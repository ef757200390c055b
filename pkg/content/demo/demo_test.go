package demo

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/promoreel/pkg/content"
	"tableflip.dev/promoreel/pkg/page"
	"tableflip.dev/promoreel/pkg/trigger"
)

func TestIDsAreStable(t *testing.T) {
	if ID("studio-tour") != ID("studio-tour") {
		t.Fatal("ids must be deterministic")
	}
	if ID("studio-tour") == ID("bakery-launch") {
		t.Fatal("ids must differ per slug")
	}
}

func TestProviderSections(t *testing.T) {
	p := Provider(time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC))
	home, err := p.ListActiveItems(context.Background(), content.SectionHome)
	if err != nil {
		t.Fatal(err)
	}
	if len(home) != 3 || home[0].ID != ID("harbour-shoot") {
		t.Fatalf("home = %+v", home)
	}
	seo, _ := p.ListActiveItems(context.Background(), content.SectionSEO)
	if len(seo) != 3 {
		t.Fatalf("seo = %+v", seo)
	}
	notes, _ := p.ListNotifications(context.Background())
	if len(notes) != 2 || notes[0].ID != ID("notice-cohort") {
		t.Fatalf("notifications = %+v", notes)
	}
}

func TestPagesCarryTheirAnchors(t *testing.T) {
	raw, ok := Page(content.SectionSEO)
	if !ok {
		t.Fatal("seo page missing")
	}
	doc, err := page.ParseString(raw, page.DefaultLayout())
	if err != nil {
		t.Fatal(err)
	}
	a := trigger.Resolve(doc, trigger.Rules{ShowMarker: "reel-show", HideMarker: "reel-hide"})
	if a.Show.Source != trigger.SourceMarker || a.Hide.Source != trigger.SourceMarker {
		t.Fatalf("anchors = %s", a.Report())
	}
	if a.Show.Element.Top >= a.Hide.Element.Top {
		t.Fatalf("show anchor must precede hide anchor: %s", a.Report())
	}

	raw, _ = Page(content.SectionHome)
	doc, _ = page.ParseString(raw, page.DefaultLayout())
	home := trigger.Resolve(doc, trigger.Rules{ShowText: "latest reels"})
	if home.Show.Source != trigger.SourceText {
		t.Fatalf("home anchors = %s", home.Report())
	}

	if _, ok := Page("pricing"); ok {
		t.Fatal("unknown section must have no page")
	}
}
