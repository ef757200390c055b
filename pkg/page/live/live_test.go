package live

import (
	"testing"

	"tableflip.dev/promoreel/pkg/trigger"
)

func TestDecodeSnapshot(t *testing.T) {
	raw := `{"viewportHeight":900,"scrollHeight":4200,"elements":[
		{"tag":"h2","text":"What you will learn","marker":"","top":1400},
		{"tag":"section","text":"","marker":"reel-show","top":1600},
		{"tag":"p","text":"Frequently asked questions","marker":"","top":3800}
	]}`
	snap, err := decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.ViewportHeight != 900 || snap.ScrollHeight != 4200 || len(snap.Elements()) != 3 {
		t.Fatalf("snapshot = %+v", snap)
	}

	a := trigger.Resolve(snap, trigger.Rules{ShowMarker: "reel-show", HideText: "frequently asked"})
	if a.Show.Source != trigger.SourceMarker || a.Show.Element.Top != 1600 {
		t.Errorf("show = %+v", a.Show)
	}
	if a.Hide.Source != trigger.SourceText || a.Hide.Element.Top != 3800 {
		t.Errorf("hide = %+v", a.Hide)
	}
	if vp := snap.Viewport(700); vp.Height != 900 || vp.ScrollY != 700 {
		t.Errorf("viewport = %+v", vp)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := decode("undefined"); err == nil {
		t.Fatal("expected error")
	}
}
