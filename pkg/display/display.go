// Package display is the overlay display-mode state machine.
package display

import (
	"errors"
	"fmt"
)

// Mode is the overlay presentation.
type Mode int

const (
	Docked Mode = iota
	Minimized
	Fullscreen
	// Dismissed is terminal for the session.
	Dismissed
)

func (m Mode) String() string {
	switch m {
	case Docked:
		return "docked"
	case Minimized:
		return "minimized"
	case Fullscreen:
		return "fullscreen"
	case Dismissed:
		return "dismissed"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Event is a user intent that may change the mode.
type Event int

const (
	// ToggleMinimize flips between Docked and Minimized.
	ToggleMinimize Event = iota
	// Expand enters Fullscreen from Docked.
	Expand
	// Exit leaves Fullscreen.
	Exit
	// Dismiss closes the overlay for the session.
	Dismiss
)

func (e Event) String() string {
	switch e {
	case ToggleMinimize:
		return "toggle-minimize"
	case Expand:
		return "expand"
	case Exit:
		return "exit"
	case Dismiss:
		return "dismiss"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// ErrInvalidTransition is returned for an event the current mode rejects.
var ErrInvalidTransition = errors.New("display: invalid transition")

// Transition records one accepted mode change.
type Transition struct {
	From  Mode
	To    Mode
	Event Event
}

type edge struct {
	from  Mode
	event Event
}

var transitions = map[edge]Mode{
	{Docked, ToggleMinimize}:    Minimized,
	{Minimized, ToggleMinimize}: Docked,
	{Docked, Expand}:            Fullscreen,
	{Fullscreen, Exit}:          Docked,
	{Docked, Dismiss}:           Dismissed,
	{Minimized, Dismiss}:        Dismissed,
}

// Machine holds the current mode. The zero value starts Docked.
type Machine struct {
	mode Mode
}

// Mode returns the current mode.
func (m *Machine) Mode() Mode { return m.mode }

// Can reports whether ev is accepted in the current mode.
func (m *Machine) Can(ev Event) bool {
	_, ok := transitions[edge{m.mode, ev}]
	return ok
}

// Fire applies ev.
func (m *Machine) Fire(ev Event) (Transition, error) {
	to, ok := transitions[edge{m.mode, ev}]
	if !ok {
		return Transition{}, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, m.mode)
	}
	t := Transition{From: m.mode, To: to, Event: ev}
	m.mode = to
	return t, nil
}

// Reset returns the machine to Docked for a new session.
func (m *Machine) Reset() { m.mode = Docked }
