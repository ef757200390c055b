// Package frame coalesces high-frequency work to at most one run per
// rendering frame.
package frame

// Coalescer is a single-slot pending task. Requests made while a task is
// pending replace it; Flush runs the latest one once.
type Coalescer struct {
	task func()
}

// Request stores task as the pending work. It reports true when the slot was
// empty, meaning the caller must schedule a Flush on the next frame.
func (c *Coalescer) Request(task func()) bool {
	scheduled := c.task == nil
	c.task = task
	return scheduled
}

// Pending reports whether a task waits for the next frame.
func (c *Coalescer) Pending() bool { return c.task != nil }

// Flush runs the pending task, if any, and empties the slot. It reports
// whether a task ran.
func (c *Coalescer) Flush() bool {
	task := c.task
	c.task = nil
	if task == nil {
		return false
	}
	task()
	return true
}

// Cancel drops the pending task without running it.
func (c *Coalescer) Cancel() { c.task = nil }
