// Package carousel owns the current item of the overlay and normalises the
// navigation inputs into next/previous steps.
package carousel

import "tableflip.dev/promoreel/pkg/content"

// Direction is the transition origin of the last index change.
type Direction int

const (
	Backward Direction = -1
	None     Direction = 0
	Forward  Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Backward:
		return "backward"
	case Forward:
		return "forward"
	default:
		return "none"
	}
}

// Controller holds the ordered items, the current index and direction.
type Controller struct {
	items     []content.MediaItem
	index     int
	direction Direction
}

// New returns a controller positioned on the first item.
func New(items []content.MediaItem) *Controller {
	c := &Controller{}
	c.Reset(items)
	return c
}

// Reset replaces the items and returns to index 0.
func (c *Controller) Reset(items []content.MediaItem) {
	c.items = append([]content.MediaItem(nil), items...)
	c.index = 0
	c.direction = None
}

// Items returns the ordered items.
func (c *Controller) Items() []content.MediaItem { return c.items }

// Len returns the item count.
func (c *Controller) Len() int { return len(c.items) }

// Index returns the current index.
func (c *Controller) Index() int { return c.index }

// Direction returns the direction of the last change.
func (c *Controller) Direction() Direction { return c.direction }

// Current returns the item at the current index.
func (c *Controller) Current() (content.MediaItem, bool) {
	if len(c.items) == 0 {
		return content.MediaItem{}, false
	}
	return c.items[c.index], true
}

// Loop reports whether the single remaining item should loop in place.
func (c *Controller) Loop() bool { return len(c.items) == 1 }

// Next advances one item, wrapping to the first. It reports whether the
// index changed.
func (c *Controller) Next() bool {
	if len(c.items) <= 1 {
		return false
	}
	c.index = (c.index + 1) % len(c.items)
	c.direction = Forward
	return true
}

// Prev steps back one item, wrapping to the last.
func (c *Controller) Prev() bool {
	if len(c.items) <= 1 {
		return false
	}
	c.index = (c.index - 1 + len(c.items)) % len(c.items)
	c.direction = Backward
	return true
}

// GoTo jumps to index i. Out of range indexes are ignored.
func (c *Controller) GoTo(i int) bool {
	if len(c.items) <= 1 || i < 0 || i >= len(c.items) || i == c.index {
		return false
	}
	c.index = i
	c.direction = None
	return true
}

// Step applies a normalised gesture step.
func (c *Controller) Step(s Step) bool {
	switch s {
	case StepNext:
		return c.Next()
	case StepPrev:
		return c.Prev()
	}
	return false
}

// MediaEnded handles autoplay completion: advance when there is more than one
// item, otherwise keep looping the current one.
func (c *Controller) MediaEnded() bool {
	if c.Loop() {
		return false
	}
	return c.Next()
}
