package eventviewer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
)

// EntryMsg delivers one log entry to the Bubble Tea program.
type EntryMsg Entry

// Sink buffers slog records for the event viewer. Records are dropped when
// the buffer is full so logging never blocks the engine.
type Sink struct {
	ch chan Entry
}

// NewSink returns a sink holding up to size pending entries.
func NewSink(size int) *Sink {
	if size <= 0 {
		size = 256
	}
	return &Sink{ch: make(chan Entry, size)}
}

// Handler returns a slog.Handler feeding the sink.
func (s *Sink) Handler(level slog.Leveler) slog.Handler {
	if level == nil {
		level = slog.LevelDebug
	}
	return &handler{sink: s, level: level}
}

// Wait returns a command that yields the next entry.
func (s *Sink) Wait() tea.Cmd {
	return func() tea.Msg {
		return EntryMsg(<-s.ch)
	}
}

func (s *Sink) push(e Entry) {
	select {
	case s.ch <- e:
	default:
	}
}

type handler struct {
	sink  *Sink
	level slog.Leveler
	attrs []slog.Attr
	group string
}

func (h *handler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	source, summary := "engine", r.Message
	if i := strings.Index(r.Message, ": "); i > 0 && !strings.Contains(r.Message[:i], " ") {
		source, summary = r.Message[:i], r.Message[i+2:]
	}

	parts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		parts = append(parts, h.format(a))
	}
	r.Attrs(func(a slog.Attr) bool {
		parts = append(parts, h.format(a))
		return true
	})

	h.sink.push(Entry{
		Time:    r.Time,
		Level:   r.Level,
		Source:  source,
		Summary: summary,
		Detail:  strings.Join(parts, " "),
	})
	return nil
}

func (h *handler) format(a slog.Attr) string {
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	return fmt.Sprintf("%s=%v", key, a.Value.Any())
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

func (h *handler) WithGroup(name string) slog.Handler {
	next := *h
	if next.group != "" {
		name = next.group + "." + name
	}
	next.group = name
	return &next
}
