package trigger

import (
	"testing"

	"tableflip.dev/promoreel/pkg/page"
)

func docWith(elements ...page.Element) page.Document {
	return page.Elements(elements)
}

func TestResolvePrefersMarkerThenTextThenOffset(t *testing.T) {
	doc := docWith(
		page.Element{Tag: "h2", Text: "  Our Recent WORK ", Top: 900},
		page.Element{Tag: "section", Marker: "reel-show", Top: 1200},
		page.Element{Tag: "div", Text: "Contact us", Top: 1500},
		page.Element{Tag: "p", Text: "Contact us today", Top: 1800},
	)

	a := Resolve(doc, Rules{ShowMarker: "reel-show", ShowText: "recent work", HideText: "contact us"})
	if a.Show.Source != SourceMarker || a.Show.Element.Top != 1200 {
		t.Fatalf("show = %v", a.Show)
	}
	if a.Hide.Source != SourceText || a.Hide.Element.Top != 1800 {
		t.Fatalf("hide = %v, want the first text candidate (div is not one)", a.Hide)
	}

	a = Resolve(doc, Rules{ShowMarker: "missing", ShowText: "recent work"})
	if a.Show.Source != SourceText || a.Show.Element.Top != 900 {
		t.Fatalf("text fallback show = %v", a.Show)
	}

	a = Resolve(doc, Rules{ShowText: "not on page", ShowOffset: Offset(800)})
	if a.Show.Source != SourceOffset || a.Show.Offset != 800 {
		t.Fatalf("offset fallback show = %v", a.Show)
	}
	if a.Hide.Source != SourceNone {
		t.Fatalf("hide = %v, want none", a.Hide)
	}
}

func TestVisibilityBoundaryAtEightyFivePercent(t *testing.T) {
	const anchorTop = 2000
	vpHeight := 1000
	e := New(Rules{ShowMarker: "show"})
	e.Resolve(docWith(page.Element{Tag: "section", Marker: "show", Top: anchorTop}))

	boundary := anchorTop - int(float64(vpHeight)*ShowRatio) // 1150
	for scroll := 0; scroll <= 3000; scroll += 10 {
		got := e.Evaluate(page.Viewport{ScrollY: scroll, Height: vpHeight}).Visible
		want := scroll >= boundary
		if got != want {
			t.Fatalf("scroll=%d visible=%v, want %v", scroll, got, want)
		}
	}
}

func TestAutoHideJustPastViewportTop(t *testing.T) {
	e := New(Rules{ShowOffset: Offset(0), HideMarker: "hide"})
	e.Resolve(docWith(page.Element{Tag: "footer", Marker: "hide", Top: 3000}))

	vp := page.Viewport{Height: 800}
	vp.ScrollY = 3050
	if e.Evaluate(vp).AutoHidden {
		t.Fatal("anchor exactly 50px above the top must not auto-hide yet")
	}
	vp.ScrollY = 3051
	if !e.Evaluate(vp).AutoHidden {
		t.Fatal("anchor past -50px should auto-hide")
	}
	vp.ScrollY = 100
	if e.Evaluate(vp).AutoHidden {
		t.Fatal("auto-hide is a level and must clear when scrolling back")
	}
}

func TestOffsetFallbackDefaultSection(t *testing.T) {
	e := New(Rules{ShowText: "gone", ShowOffset: Offset(800)})
	e.Resolve(docWith())

	if e.Evaluate(page.Viewport{ScrollY: 800, Height: 600}).Visible {
		t.Fatal("offset rule is strictly greater than")
	}
	st := e.Evaluate(page.Viewport{ScrollY: 801, Height: 600})
	if !st.Visible || st.AutoHidden {
		t.Fatalf("state = %+v, want visible and never auto-hidden", st)
	}
	if e.Evaluate(page.Viewport{ScrollY: 20, Height: 600}).Visible {
		t.Fatal("visibility must drop when scrolling back above the offset")
	}
}

func TestUnresolvedNeverVisible(t *testing.T) {
	e := New(Rules{ShowText: "absent"})
	if e.Evaluate(page.Viewport{ScrollY: 99999, Height: 600}).Visible {
		t.Fatal("engine must not report visibility before resolution")
	}
	e.Resolve(docWith(page.Element{Tag: "p", Text: "something else"}))
	if e.Evaluate(page.Viewport{ScrollY: 99999, Height: 600}).Visible {
		t.Fatal("no anchor and no offset means never visible")
	}
}

func TestResetClearsResolution(t *testing.T) {
	e := New(Rules{ShowOffset: Offset(10)})
	e.Resolve(docWith())
	if !e.Evaluate(page.Viewport{ScrollY: 20, Height: 100}).Visible {
		t.Fatal("expected visible")
	}
	e.Reset(Rules{ShowOffset: Offset(10)})
	if e.Resolved() || e.State().Visible {
		t.Fatal("reset must clear anchors and flags")
	}
}

func TestReport(t *testing.T) {
	a := Resolve(docWith(page.Element{Tag: "div", Marker: "reel-show", Top: 300}), Rules{ShowMarker: "reel-show", HideOffset: Offset(900)})
	want := `show: marker "reel-show" at 300px; hide: offset 900px`
	if got := a.Report(); got != want {
		t.Fatalf("report = %q, want %q", got, want)
	}
}
