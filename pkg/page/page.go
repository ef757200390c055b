// Package page models the document the overlay is mounted on: the anchor
// candidates with their document offsets and the scrolling viewport.
package page

import "strings"

// MarkerAttr is the HTML attribute naming an explicit overlay anchor.
const MarkerAttr = "data-reel-marker"

// Element is an anchor candidate. Top is the document offset of the
// element's top edge in pixels.
type Element struct {
	Tag    string `json:"tag"`
	Text   string `json:"text"`
	Marker string `json:"marker,omitempty"`
	Top    int    `json:"top"`
}

// TextCandidate reports whether the element takes part in anchor text
// matching (headings, paragraphs and spans).
func (e Element) TextCandidate() bool {
	switch strings.ToLower(e.Tag) {
	case "h1", "h2", "h3", "h4", "h5", "h6", "p", "span":
		return true
	}
	return false
}

// RelativeTop is the element's top edge relative to the viewport top.
func (e Element) RelativeTop(vp Viewport) int {
	return e.Top - vp.ScrollY
}

// Document exposes the anchor candidates currently in the page, in document
// order.
type Document interface {
	Elements() []Element
}

// Viewport is the visible window onto the document, in pixels.
type Viewport struct {
	ScrollY int
	Height  int
}

// Elements is a Document over a fixed slice.
type Elements []Element

// Elements implements Document.
func (e Elements) Elements() []Element { return e }
