// Package overlay composites floating views (the reel card, the bell panel)
// over a background while keeping the background visible around them.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
)

// Placement controls layer alignment and sizing.
type Placement struct {
	Horizontal lipgloss.Position
	Vertical   lipgloss.Position
	MarginX    int
	MarginY    int
	Width      int
	Height     int
}

// Rect is a cell rectangle within the composed surface.
type Rect struct {
	X, Y, Width, Height int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Layer is one floating view.
type Layer struct {
	View      string
	Placement Placement
}

// Bounds returns where the layer lands on a width x height surface.
func (l Layer) Bounds(width, height int) Rect {
	if l.View == "" || width <= 0 || height <= 0 {
		return Rect{}
	}
	lines := strings.Split(l.View, "\n")
	w := l.Placement.Width
	if w <= 0 {
		for _, line := range lines {
			w = max(w, lipgloss.Width(line))
		}
	}
	h := l.Placement.Height
	if h <= 0 {
		h = len(lines)
	}
	w, h = min(w, width), min(h, height)
	if w <= 0 || h <= 0 {
		return Rect{}
	}
	x, y := offsets(width, height, w, h, l.Placement)
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Compose draws the layers over background in order. Layers must not
// overlap each other; the background is expected to be unstyled text.
func Compose(background string, width, height int, layers ...Layer) string {
	rows := fitBackground(background, width, height)
	for _, l := range layers {
		r := l.Bounds(width, height)
		if r.Empty() {
			continue
		}
		lines := strings.Split(l.View, "\n")
		for i := 0; i < r.Height; i++ {
			y := r.Y + i
			if y < 0 || y >= len(rows) {
				continue
			}
			line := ""
			if i < len(lines) {
				line = lines[i]
			}
			base := rows[y]
			rows[y] = cut(base, 0, r.X) + pad(line, r.Width) + cut(base, r.X+r.Width, width)
		}
	}
	return strings.Join(rows, "\n")
}

func fitBackground(view string, width, height int) []string {
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = pad(lines[i], width)
	}
	return lines
}

func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w >= width {
		return lipgloss.NewStyle().MaxWidth(width).Render(s)
	}
	return s + strings.Repeat(" ", width-w)
}

// cut returns the cells [start, end) of a plain-text line.
func cut(s string, start, end int) string {
	start = max(start, 0)
	end = min(end, lipgloss.Width(s))
	if start >= end {
		return ""
	}
	var b strings.Builder
	seen := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		next := seen + rw
		if next <= start {
			seen = next
			continue
		}
		if seen >= end || next > end {
			break
		}
		b.WriteRune(r)
		seen = next
	}
	return b.String()
}

func offsets(width, height, w, h int, p Placement) (int, int) {
	x := p.MarginX
	switch p.Horizontal {
	case lipgloss.Right:
		x = width - w - p.MarginX
	case lipgloss.Center:
		x = (width - w) / 2
	}
	y := p.MarginY
	switch p.Vertical {
	case lipgloss.Bottom:
		y = height - h - p.MarginY
	case lipgloss.Center:
		y = (height - h) / 2
	}
	return clamp(x, 0, width-w), clamp(y, 0, height-h)
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
