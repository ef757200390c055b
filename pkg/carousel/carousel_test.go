package carousel

import (
	"fmt"
	"testing"

	"tableflip.dev/promoreel/pkg/content"
)

func items(n int) []content.MediaItem {
	out := make([]content.MediaItem, n)
	for i := range out {
		out[i] = content.MediaItem{ID: fmt.Sprintf("item-%d", i+1), Active: true}
	}
	return out
}

func TestNextWrapsAround(t *testing.T) {
	for n := 2; n <= 5; n++ {
		c := New(items(n))
		for i := 0; i < n; i++ {
			if !c.Next() {
				t.Fatalf("n=%d: next #%d did not move", n, i)
			}
		}
		if c.Index() != 0 {
			t.Fatalf("n=%d: index after n nexts = %d, want 0", n, c.Index())
		}
		if c.Direction() != Forward {
			t.Fatalf("direction = %v, want forward", c.Direction())
		}
	}
}

func TestPrevFromFirstGoesToLast(t *testing.T) {
	c := New(items(4))
	c.Prev()
	if c.Index() != 3 || c.Direction() != Backward {
		t.Fatalf("index=%d direction=%v", c.Index(), c.Direction())
	}
}

func TestSingleItemIsNoOpAndLoops(t *testing.T) {
	c := New(items(1))
	if c.Next() || c.Prev() || c.GoTo(0) {
		t.Fatal("single item must not move")
	}
	if c.Index() != 0 || !c.Loop() {
		t.Fatalf("index=%d loop=%v", c.Index(), c.Loop())
	}
	if c.MediaEnded() {
		t.Fatal("media end with one item must loop, not advance")
	}
}

func TestGoToSetsNeutralDirection(t *testing.T) {
	c := New(items(3))
	c.Next()
	if !c.GoTo(2) {
		t.Fatal("goto should move")
	}
	if c.Index() != 2 || c.Direction() != None {
		t.Fatalf("index=%d direction=%v", c.Index(), c.Direction())
	}
	if c.GoTo(7) || c.GoTo(-1) {
		t.Fatal("out of range goto must be ignored")
	}
}

func TestResetReturnsToFirst(t *testing.T) {
	c := New(items(3))
	c.Next()
	c.Next()
	c.Reset(items(2))
	if c.Index() != 0 || c.Direction() != None || c.Len() != 2 {
		t.Fatalf("index=%d direction=%v len=%d", c.Index(), c.Direction(), c.Len())
	}
}

func TestMediaEndedAdvances(t *testing.T) {
	c := New(items(2))
	if !c.MediaEnded() || c.Index() != 1 {
		t.Fatalf("index = %d, want 1", c.Index())
	}
}

func TestDragCommitsPastThreshold(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy int
		want   Release
	}{
		{name: "down past threshold", dy: 45, want: Release{Step: StepNext}},
		{name: "up past threshold", dy: -45, want: Release{Step: StepPrev}},
		{name: "snap back", dy: 30, want: Release{}},
		{name: "tap", want: Release{Tap: true}},
		{name: "horizontal dismiss", dx: 150, dy: 20, want: Release{Dismiss: true}},
		{name: "short horizontal", dx: 60, want: Release{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Drag{Threshold: 40, DismissThreshold: 120}
			d.Begin(100, 100)
			d.Move(100+tt.dx/2, 100+tt.dy/2)
			if got := d.End(100+tt.dx, 100+tt.dy); got != tt.want {
				t.Fatalf("release = %+v, want %+v", got, tt.want)
			}
			if d.Active() {
				t.Fatal("drag still active after end")
			}
		})
	}
}

func TestWheelCommitsOneStepPerFrame(t *testing.T) {
	w := Wheel{Threshold: 50}
	if w.Feed(30) != StepNone {
		t.Fatal("below threshold must not step")
	}
	if w.Feed(30) != StepNext {
		t.Fatal("accumulated delta past threshold should step forward")
	}
	if w.Feed(200) != StepNone || !w.Locked() {
		t.Fatal("wheel must ignore input until the next frame")
	}
	w.Tick()
	if w.Feed(-60) != StepPrev {
		t.Fatal("negative delta should step back after tick")
	}
}
