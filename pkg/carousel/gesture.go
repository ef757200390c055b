package carousel

// Step is a normalised navigation intent.
type Step int

const (
	StepNone Step = iota
	StepNext
	StepPrev
)

// Default gesture thresholds in pixels.
const (
	DefaultDragThreshold    = 40
	DefaultDismissThreshold = 120
	DefaultWheelThreshold   = 50
)

// Release is the outcome of a finished drag.
type Release struct {
	// Step is set when the vertical travel committed a navigation.
	Step Step
	// Dismiss is set when the horizontal travel passed the dismiss threshold.
	Dismiss bool
	// Tap is set when the pointer barely moved.
	Tap bool
}

// Drag tracks one pointer press on the current item.
type Drag struct {
	Threshold        int
	DismissThreshold int

	active         bool
	startX, startY int
	dx, dy         int
}

// Begin starts tracking at the pointer position.
func (d *Drag) Begin(x, y int) {
	d.active = true
	d.startX, d.startY = x, y
	d.dx, d.dy = 0, 0
}

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool { return d.active }

// Move updates the travel; it returns the current vertical offset so the
// host can render the item following the pointer.
func (d *Drag) Move(x, y int) int {
	if !d.active {
		return 0
	}
	d.dx, d.dy = x-d.startX, y-d.startY
	return d.dy
}

// Offset returns the current travel.
func (d *Drag) Offset() (dx, dy int) { return d.dx, d.dy }

// End finishes the drag. Below threshold the item snaps back and nothing is
// committed.
func (d *Drag) End(x, y int) Release {
	if !d.active {
		return Release{}
	}
	d.Move(x, y)
	d.active = false
	dx, dy := d.dx, d.dy
	d.dx, d.dy = 0, 0

	vt := d.Threshold
	if vt <= 0 {
		vt = DefaultDragThreshold
	}
	ht := d.DismissThreshold
	if ht <= 0 {
		ht = DefaultDismissThreshold
	}

	switch {
	case abs(dx) > ht && abs(dx) > abs(dy):
		return Release{Dismiss: true}
	case dy > vt:
		return Release{Step: StepNext}
	case dy < -vt:
		return Release{Step: StepPrev}
	case dx == 0 && dy == 0:
		return Release{Tap: true}
	}
	return Release{}
}

// Cancel abandons the drag without committing.
func (d *Drag) Cancel() {
	d.active = false
	d.dx, d.dy = 0, 0
}

// Wheel accumulates wheel deltas into single steps. After committing a step
// it ignores input until the next frame tick, so one gesture moves one item.
type Wheel struct {
	Threshold int

	sum    int
	locked bool
}

// Feed adds a wheel delta. Positive deltas scroll forward.
func (w *Wheel) Feed(deltaY int) Step {
	if w.locked {
		return StepNone
	}
	w.sum += deltaY
	t := w.Threshold
	if t <= 0 {
		t = DefaultWheelThreshold
	}
	if abs(w.sum) <= t {
		return StepNone
	}
	step := StepNext
	if w.sum < 0 {
		step = StepPrev
	}
	w.sum = 0
	w.locked = true
	return step
}

// Locked reports whether input is ignored until the next frame.
func (w *Wheel) Locked() bool { return w.locked }

// Tick releases the lock at a frame boundary.
func (w *Wheel) Tick() { w.locked = false }

// Reset clears accumulated travel and the lock.
func (w *Wheel) Reset() {
	w.sum = 0
	w.locked = false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
