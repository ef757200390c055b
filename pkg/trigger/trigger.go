// Package trigger decides from scroll position alone whether the overlay
// should currently be shown.
package trigger

import (
	"fmt"
	"strings"

	"tableflip.dev/promoreel/pkg/page"
)

const (
	// ShowRatio is the fraction of the viewport height the show anchor must
	// scroll above for the overlay to become visible.
	ShowRatio = 0.85
	// HideMargin is the viewport-relative offset the hide anchor must scroll
	// above for the overlay to auto-hide.
	HideMargin = -50
)

// Rules configure the show and hide anchors of one section. A marker wins
// over text; offsets apply only when no anchor element resolves.
type Rules struct {
	ShowMarker string `mapstructure:"show_marker" json:"showMarker,omitempty"`
	HideMarker string `mapstructure:"hide_marker" json:"hideMarker,omitempty"`
	ShowText   string `mapstructure:"show_text" json:"showText,omitempty"`
	HideText   string `mapstructure:"hide_text" json:"hideText,omitempty"`
	// ShowOffset is the scroll offset in px past which the overlay shows when
	// no show anchor resolves. Nil means no fallback.
	ShowOffset *int `mapstructure:"show_offset" json:"showOffset,omitempty"`
	// HideOffset is the scroll offset in px past which the overlay auto-hides
	// when no hide anchor resolves. Nil means never auto-hide.
	HideOffset *int `mapstructure:"hide_offset" json:"hideOffset,omitempty"`
}

// Offset is a helper for building Rules literals.
func Offset(px int) *int { return &px }

// Source tells how an anchor was resolved.
type Source int

const (
	// SourceNone means neither an element nor an offset is available.
	SourceNone Source = iota
	// SourceMarker means a named marker element was found.
	SourceMarker
	// SourceText means an element matched the configured text.
	SourceText
	// SourceOffset means the numeric fallback applies.
	SourceOffset
)

func (s Source) String() string {
	switch s {
	case SourceMarker:
		return "marker"
	case SourceText:
		return "text"
	case SourceOffset:
		return "offset"
	default:
		return "none"
	}
}

// Anchor is one resolved show or hide reference.
type Anchor struct {
	Source  Source
	Element page.Element
	Offset  int
}

func (a Anchor) String() string {
	switch a.Source {
	case SourceMarker:
		return fmt.Sprintf("marker %q at %dpx", a.Element.Marker, a.Element.Top)
	case SourceText:
		return fmt.Sprintf("text %q (<%s>) at %dpx", a.Element.Text, a.Element.Tag, a.Element.Top)
	case SourceOffset:
		return fmt.Sprintf("offset %dpx", a.Offset)
	default:
		return "unresolved"
	}
}

// Anchors is the result of resolving Rules against a document.
type Anchors struct {
	Show Anchor
	Hide Anchor
}

// Report describes how both anchors resolved.
func (a Anchors) Report() string {
	return fmt.Sprintf("show: %s; hide: %s", a.Show, a.Hide)
}

// Resolve scans the document once and picks the show and hide anchors.
func Resolve(doc page.Document, rules Rules) Anchors {
	var elements []page.Element
	if doc != nil {
		elements = doc.Elements()
	}
	return Anchors{
		Show: resolveOne(elements, rules.ShowMarker, rules.ShowText, rules.ShowOffset),
		Hide: resolveOne(elements, rules.HideMarker, rules.HideText, rules.HideOffset),
	}
}

func resolveOne(elements []page.Element, marker, text string, offset *int) Anchor {
	if marker != "" {
		for _, el := range elements {
			if el.Marker == marker {
				return Anchor{Source: SourceMarker, Element: el}
			}
		}
	}
	if needle := strings.ToLower(strings.TrimSpace(text)); needle != "" {
		for _, el := range elements {
			if !el.TextCandidate() {
				continue
			}
			if strings.Contains(strings.ToLower(strings.TrimSpace(el.Text)), needle) {
				return Anchor{Source: SourceText, Element: el}
			}
		}
	}
	if offset != nil {
		return Anchor{Source: SourceOffset, Offset: *offset}
	}
	return Anchor{Source: SourceNone}
}

// State is the engine output for one scroll position.
type State struct {
	Visible    bool
	AutoHidden bool
}

// Engine evaluates the visibility rule for one section activation.
type Engine struct {
	rules    Rules
	anchors  Anchors
	resolved bool
	state    State
}

// New returns an engine for rules. It reports nothing visible until Resolve.
func New(rules Rules) *Engine {
	return &Engine{rules: rules}
}

// Reset clears anchors and flags for a new section activation.
func (e *Engine) Reset(rules Rules) {
	*e = Engine{rules: rules}
}

// Rules returns the active rules.
func (e *Engine) Rules() Rules { return e.rules }

// Resolve locates the anchors in doc.
func (e *Engine) Resolve(doc page.Document) Anchors {
	e.anchors = Resolve(doc, e.rules)
	e.resolved = true
	return e.anchors
}

// Resolved reports whether anchors have been located for this activation.
func (e *Engine) Resolved() bool { return e.resolved }

// Anchors returns the resolved anchors.
func (e *Engine) Anchors() Anchors { return e.anchors }

// State returns the last evaluated state.
func (e *Engine) State() State { return e.state }

// Evaluate recomputes the state for vp. Both flags are levels: every call
// derives them from the current position only.
func (e *Engine) Evaluate(vp page.Viewport) State {
	if !e.resolved {
		e.state = State{}
		return e.state
	}
	e.state = State{
		Visible:    showing(e.anchors.Show, vp),
		AutoHidden: hidden(e.anchors.Hide, vp),
	}
	return e.state
}

func showing(a Anchor, vp page.Viewport) bool {
	switch a.Source {
	case SourceMarker, SourceText:
		return float64(a.Element.RelativeTop(vp)) <= float64(vp.Height)*ShowRatio
	case SourceOffset:
		return vp.ScrollY > a.Offset
	default:
		return false
	}
}

func hidden(a Anchor, vp page.Viewport) bool {
	switch a.Source {
	case SourceMarker, SourceText:
		return a.Element.RelativeTop(vp) < HideMargin
	case SourceOffset:
		return vp.ScrollY > a.Offset
	default:
		return false
	}
}
