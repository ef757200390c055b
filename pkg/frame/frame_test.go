package frame

import "testing"

func TestCoalescerRunsLatestTaskOncePerFrame(t *testing.T) {
	var c Coalescer
	var runs []int

	if !c.Request(func() { runs = append(runs, 1) }) {
		t.Fatal("first request must schedule a frame")
	}
	if c.Request(func() { runs = append(runs, 2) }) {
		t.Fatal("second request within a frame must not schedule again")
	}
	if !c.Pending() {
		t.Fatal("expected pending task")
	}

	if !c.Flush() {
		t.Fatal("flush should run the pending task")
	}
	if len(runs) != 1 || runs[0] != 2 {
		t.Fatalf("runs = %v, want [2]", runs)
	}
	if c.Flush() {
		t.Fatal("empty slot must not run anything")
	}
	if !c.Request(func() {}) {
		t.Fatal("request after flush must schedule a new frame")
	}
	c.Cancel()
	if c.Pending() {
		t.Fatal("cancel should empty the slot")
	}
}
