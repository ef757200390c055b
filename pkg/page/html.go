package page

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Layout controls how a parsed document is laid out into rows.
type Layout struct {
	// Width is the wrap width in columns.
	Width int
	// RowHeight is the pixel height of one rendered row.
	RowHeight int
}

// DefaultLayout matches an 80 column terminal where a row stands for 20px.
func DefaultLayout() Layout {
	return Layout{Width: 80, RowHeight: 20}
}

func (l Layout) normalized() Layout {
	if l.Width <= 0 {
		l.Width = 80
	}
	if l.RowHeight <= 0 {
		l.RowHeight = 20
	}
	return l
}

// Static is a document laid out once from HTML. Lines are the rendered rows;
// every element offset is a multiple of the row height.
type Static struct {
	lines    []string
	elements []Element
	layout   Layout
}

var _ Document = (*Static)(nil)

// Elements implements Document.
func (s *Static) Elements() []Element { return s.elements }

// Lines returns the rendered rows.
func (s *Static) Lines() []string { return s.lines }

// Layout returns the layout used to build the document.
func (s *Static) Layout() Layout { return s.layout }

// Height returns the document height in pixels.
func (s *Static) Height() int { return len(s.lines) * s.layout.RowHeight }

// Parse lays out an HTML page. Block text is wrapped at the layout width and
// separated by a blank row.
func Parse(r io.Reader, layout Layout) (*Static, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("page: parse html: %w", err)
	}
	b := &builder{layout: layout.normalized()}
	b.walk(root)
	return &Static{lines: b.lines, elements: b.elements, layout: b.layout}, nil
}

// ParseString is Parse over a string.
func ParseString(s string, layout Layout) (*Static, error) {
	return Parse(strings.NewReader(s), layout)
}

type builder struct {
	layout   Layout
	lines    []string
	elements []Element
}

func (b *builder) top() int { return len(b.lines) * b.layout.RowHeight }

func (b *builder) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if text := collapse(n.Data); text != "" {
			b.emit(text, "")
		}
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Head, atom.Script, atom.Style, atom.Noscript, atom.Template:
			return
		case atom.Hr:
			b.lines = append(b.lines, strings.Repeat("─", b.layout.Width/2), "")
			return
		}
		if isBlock(n.DataAtom) {
			b.block(n)
			return
		}
		if marker := attr(n, MarkerAttr); marker != "" {
			b.elements = append(b.elements, Element{
				Tag:    n.Data,
				Text:   collapse(textContent(n)),
				Marker: marker,
				Top:    b.top(),
			})
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c)
	}
}

func (b *builder) block(n *html.Node) {
	top := b.top()
	text := collapse(textContent(n))
	b.elements = append(b.elements, Element{
		Tag:    n.Data,
		Text:   text,
		Marker: attr(n, MarkerAttr),
		Top:    top,
	})
	b.inline(n, top)
	if text == "" {
		return
	}
	b.emit(text, headingPrefix(n.DataAtom))
}

// inline records spans and marked descendants of a block at the block's
// offset.
func (b *builder) inline(n *html.Node, top int) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		marker := attr(c, MarkerAttr)
		if c.DataAtom == atom.Span || marker != "" {
			b.elements = append(b.elements, Element{
				Tag:    c.Data,
				Text:   collapse(textContent(c)),
				Marker: marker,
				Top:    top,
			})
		}
		b.inline(c, top)
	}
}

func (b *builder) emit(text, prefix string) {
	width := b.layout.Width - len(prefix)
	if width < 10 {
		width = 10
	}
	wrapped := wordwrap.String(text, width)
	for i, line := range strings.Split(wrapped, "\n") {
		if i == 0 {
			line = prefix + line
		} else if prefix != "" {
			line = strings.Repeat(" ", len(prefix)) + line
		}
		b.lines = append(b.lines, line)
	}
	b.lines = append(b.lines, "")
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.P, atom.Li, atom.Blockquote, atom.Pre:
		return true
	}
	return false
}

func headingPrefix(a atom.Atom) string {
	switch a {
	case atom.H1:
		return "# "
	case atom.H2:
		return "## "
	case atom.H3, atom.H4, atom.H5, atom.H6:
		return "### "
	case atom.Li:
		return "• "
	case atom.Blockquote:
		return "│ "
	}
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
			return
		}
		if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return sb.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
