// Package overlay drives one section's promotional overlay: it combines the
// trigger engine, carousel, display machine and playback controller, and
// routes every input event to them.
//
// A Session is owned by a single event loop and is not safe for concurrent
// use. The host delivers events one at a time, schedules the settle delay and
// frame ticks, and performs the content fetch.
package overlay

import (
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"tableflip.dev/promoreel/pkg/carousel"
	"tableflip.dev/promoreel/pkg/content"
	"tableflip.dev/promoreel/pkg/display"
	"tableflip.dev/promoreel/pkg/frame"
	"tableflip.dev/promoreel/pkg/ledger"
	"tableflip.dev/promoreel/pkg/page"
	"tableflip.dev/promoreel/pkg/playback"
	"tableflip.dev/promoreel/pkg/trigger"
)

// DefaultSettleDelay lets the page layout stabilise before anchors are
// measured.
const DefaultSettleDelay = 400 * time.Millisecond

// ErrClosed is returned by actions on a closed session.
var ErrClosed = errors.New("overlay: session closed")

// Options configure a Session.
type Options struct {
	Section content.SectionKey
	Rules   trigger.Rules
	// Ledger records dismissals; nil disables suppression.
	Ledger *ledger.Ledger[string]
	Player playback.Player
	Logger *slog.Logger

	SettleDelay      time.Duration
	DragThreshold    int
	DismissThreshold int
	WheelThreshold   int
}

// Key is a keyboard intent.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyEscape
)

// State is a snapshot of the overlay for rendering.
type State struct {
	Section    content.SectionKey
	Loaded     bool
	Visible    bool
	AutoHidden bool
	Mode       display.Mode
	Dismissed  bool
	Muted      bool
	Paused     bool
	Index      int
	Count      int
	Direction  carousel.Direction
	Item       content.MediaItem
	HasItem    bool
	Loop       bool
	DragOffset int
}

// Eligible reports whether the overlay should be rendered.
func (s State) Eligible() bool {
	return s.Visible && !s.AutoHidden && !s.Dismissed && s.Count > 0
}

var epochs atomic.Uint64

// Session is the overlay state for one section entry.
type Session struct {
	section content.SectionKey
	epoch   uint64
	settle  time.Duration
	ledger  *ledger.Ledger[string]
	logger  *slog.Logger

	engine   *trigger.Engine
	carousel *carousel.Controller
	machine  display.Machine
	playback *playback.Controller
	frames   frame.Coalescer
	drag     carousel.Drag
	wheel    carousel.Wheel

	viewport  page.Viewport
	loaded    bool
	dismissed bool
	closed    bool
}

// NewSession starts the overlay for a section entry.
func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	settle := opts.SettleDelay
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	epoch := epochs.Add(1)
	logger = logger.With("section", string(opts.Section), "epoch", epoch)
	return &Session{
		section:  opts.Section,
		epoch:    epoch,
		settle:   settle,
		ledger:   opts.Ledger,
		logger:   logger,
		engine:   trigger.New(opts.Rules),
		carousel: carousel.New(nil),
		playback: playback.New(opts.Player, logger),
		drag:     carousel.Drag{Threshold: opts.DragThreshold, DismissThreshold: opts.DismissThreshold},
		wheel:    carousel.Wheel{Threshold: opts.WheelThreshold},
	}
}

// Section returns the section the session belongs to.
func (s *Session) Section() content.SectionKey { return s.section }

// Epoch identifies this session for delayed callbacks.
func (s *Session) Epoch() uint64 { return s.epoch }

// SettleDelay is how long the host waits before calling Settle.
func (s *Session) SettleDelay() time.Duration { return s.settle }

// Closed reports whether Close was called.
func (s *Session) Closed() bool { return s.closed }

// Anchors returns the resolved trigger anchors.
func (s *Session) Anchors() trigger.Anchors { return s.engine.Anchors() }

// Deliver hands the fetched items to the session. Results for another section
// or arriving after Close are discarded. A fetch error shows nothing.
func (s *Session) Deliver(section content.SectionKey, items []content.MediaItem, err error) bool {
	if s.closed || section != s.section {
		s.logger.Debug("overlay: discarding stale items", "for", string(section), "count", len(items))
		return false
	}
	if err != nil {
		s.logger.Error("overlay: content fetch failed", "error", err)
		items = nil
	}
	visible := ledger.Visible(s.ledger, items, func(it content.MediaItem) (string, int64) {
		return it.ID, it.Version
	})
	s.carousel.Reset(visible)
	s.loaded = true
	s.logger.Info("overlay: items loaded", "fetched", len(items), "shown", len(visible))
	if len(visible) > 0 {
		s.playback.IndexChanged(s.carousel.Loop())
	}
	return true
}

// Settle resolves the anchors once the settle delay has elapsed. A settle for
// another session is ignored.
func (s *Session) Settle(epoch uint64, doc page.Document) bool {
	if s.closed || epoch != s.epoch {
		return false
	}
	anchors := s.engine.Resolve(doc)
	s.logger.Info("overlay: anchors resolved",
		"show", anchors.Show.String(), "hide", anchors.Hide.String())
	s.engine.Evaluate(s.viewport)
	return true
}

// Scroll records the viewport and queues one evaluation for the next frame.
// It reports whether the host must schedule a frame.
func (s *Session) Scroll(vp page.Viewport) bool {
	if s.closed {
		return false
	}
	s.viewport = vp
	return s.frames.Request(func() { s.engine.Evaluate(s.viewport) })
}

// NeedsFrame reports whether a frame tick has pending work.
func (s *Session) NeedsFrame() bool {
	return !s.closed && (s.frames.Pending() || s.wheel.Locked())
}

// Frame runs the work queued for this frame.
func (s *Session) Frame() {
	if s.closed {
		return
	}
	s.frames.Flush()
	s.wheel.Tick()
}

// State returns the current snapshot.
func (s *Session) State() State {
	ts := s.engine.State()
	item, ok := s.carousel.Current()
	_, dy := s.drag.Offset()
	return State{
		Section:    s.section,
		Loaded:     s.loaded,
		Visible:    ts.Visible,
		AutoHidden: ts.AutoHidden,
		Mode:       s.machine.Mode(),
		Dismissed:  s.dismissed,
		Muted:      s.playback.Muted(),
		Paused:     s.playback.Paused(),
		Index:      s.carousel.Index(),
		Count:      s.carousel.Len(),
		Direction:  s.carousel.Direction(),
		Item:       item,
		HasItem:    ok,
		Loop:       s.carousel.Loop(),
		DragOffset: dy,
	}
}

// Eligible reports whether the overlay renders right now.
func (s *Session) Eligible() bool {
	return !s.closed && s.State().Eligible()
}

func (s *Session) navigable() bool {
	if !s.Eligible() {
		return false
	}
	m := s.machine.Mode()
	return m == display.Docked || m == display.Fullscreen
}

// Next shows the following item.
func (s *Session) Next() bool {
	if !s.navigable() {
		return false
	}
	return s.changed(s.carousel.Next())
}

// Prev shows the previous item.
func (s *Session) Prev() bool {
	if !s.navigable() {
		return false
	}
	return s.changed(s.carousel.Prev())
}

// GoTo jumps to an index dot.
func (s *Session) GoTo(i int) bool {
	if !s.navigable() {
		return false
	}
	return s.changed(s.carousel.GoTo(i))
}

func (s *Session) changed(moved bool) bool {
	if moved {
		s.playback.IndexChanged(s.carousel.Loop())
	}
	return moved
}

// Wheel feeds a wheel delta over the current item.
func (s *Session) Wheel(deltaY int) bool {
	if !s.navigable() {
		return false
	}
	return s.changed(s.carousel.Step(s.wheel.Feed(deltaY)))
}

// PointerDown starts a drag on the current item.
func (s *Session) PointerDown(x, y int) bool {
	if !s.Eligible() || s.machine.Mode() == display.Dismissed {
		return false
	}
	s.drag.Begin(x, y)
	return true
}

// PointerMove updates a drag in progress.
func (s *Session) PointerMove(x, y int) {
	if s.closed {
		return
	}
	s.drag.Move(x, y)
}

// PointerUp finishes a drag and commits its outcome.
func (s *Session) PointerUp(x, y int) bool {
	if s.closed || !s.drag.Active() {
		return false
	}
	r := s.drag.End(x, y)
	switch {
	case r.Dismiss:
		if s.machine.Mode() != display.Docked {
			return false
		}
		return s.Dismiss() == nil
	case r.Step != carousel.StepNone:
		if !s.navigable() {
			return false
		}
		return s.changed(s.carousel.Step(r.Step))
	case r.Tap:
		return s.Tap()
	}
	return false
}

// Key handles keyboard input. Arrows navigate only in fullscreen; Escape
// leaves fullscreen.
func (s *Session) Key(k Key) bool {
	if s.closed || s.machine.Mode() != display.Fullscreen {
		return false
	}
	switch k {
	case KeyUp:
		return s.Prev()
	case KeyDown:
		return s.Next()
	case KeyEscape:
		return s.ExitFullscreen() == nil
	}
	return false
}

// Tap handles a tap on the media: expand when docked, pause when fullscreen,
// restore when minimized.
func (s *Session) Tap() bool {
	if !s.Eligible() {
		return false
	}
	switch s.machine.Mode() {
	case display.Docked:
		return s.Expand() == nil
	case display.Fullscreen:
		s.playback.TogglePause()
		return true
	case display.Minimized:
		return s.ToggleMinimize() == nil
	}
	return false
}

// ToggleMinimize flips Docked and Minimized.
func (s *Session) ToggleMinimize() error {
	_, err := s.fire(display.ToggleMinimize)
	return err
}

// Expand enters fullscreen.
func (s *Session) Expand() error {
	if _, err := s.fire(display.Expand); err != nil {
		return err
	}
	s.playback.EnterFullscreen()
	return nil
}

// ExitFullscreen returns to the docked card.
func (s *Session) ExitFullscreen() error {
	_, err := s.fire(display.Exit)
	return err
}

// Dismiss closes the overlay for the session and records the current item's
// version in the ledger.
func (s *Session) Dismiss() error {
	if _, err := s.fire(display.Dismiss); err != nil {
		return err
	}
	s.dismissed = true
	s.playback.Stop()
	item, ok := s.carousel.Current()
	if !ok || s.ledger == nil {
		return nil
	}
	if err := s.ledger.RecordDismissal(item.ID, item.Version); err != nil {
		s.logger.Error("overlay: record dismissal", "item", item.ID, "error", err)
		return err
	}
	s.logger.Info("overlay: dismissed", "item", item.ID, "version", item.Version)
	return nil
}

// ToggleMute flips mute on explicit user action.
func (s *Session) ToggleMute() bool {
	if !s.Eligible() {
		return false
	}
	s.playback.ToggleMute()
	return true
}

// MediaEnded advances to the next item, or restarts a lone item.
func (s *Session) MediaEnded() bool {
	if s.closed || s.dismissed || s.carousel.Len() == 0 {
		return false
	}
	if s.carousel.Loop() {
		s.playback.IndexChanged(true)
		return false
	}
	return s.changed(s.carousel.MediaEnded())
}

func (s *Session) fire(ev display.Event) (display.Transition, error) {
	if s.closed {
		return display.Transition{}, ErrClosed
	}
	if ev != display.Exit && !s.Eligible() {
		return display.Transition{}, display.ErrInvalidTransition
	}
	tr, err := s.machine.Fire(ev)
	if err != nil {
		return tr, err
	}
	s.logger.Debug("overlay: mode", "from", tr.From.String(), "to", tr.To.String())
	return tr, nil
}

// Close tears the session down. Pending frame work and settle callbacks are
// dropped and later input is ignored.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.frames.Cancel()
	s.drag.Cancel()
	s.wheel.Reset()
	s.playback.Stop()
}
