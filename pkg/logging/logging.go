// Package logging builds the slog logger used by the CLI and the terminal
// host: zerolog output, optional Sentry error reporting, and any extra
// handlers fanned out together.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

// Options select the log sinks.
type Options struct {
	Level string
	// File receives the log when set; otherwise Writer is used.
	File   string
	Writer io.Writer
	// JSON switches zerolog from the console format to JSON lines.
	JSON      bool
	SentryDSN string
	// Extra handlers receive every record too, e.g. the TUI event log.
	Extra []slog.Handler
}

// ParseLevel maps a config string to a slog level. Unknown values are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns the logger and a cleanup func that flushes Sentry and closes
// the log file.
func New(o Options) (*slog.Logger, func(), error) {
	level := ParseLevel(o.Level)
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	w := o.Writer
	if o.File != "" {
		if err := os.MkdirAll(filepath.Dir(o.File), 0o755); err != nil {
			return nil, cleanup, fmt.Errorf("logging: %w", err)
		}
		f, err := os.OpenFile(o.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, cleanup, fmt.Errorf("logging: open %s: %w", o.File, err)
		}
		closers = append(closers, func() { _ = f.Close() })
		w = f
	}
	if w == nil {
		w = os.Stderr
	}
	if !o.JSON {
		w = zerolog.ConsoleWriter{Out: w, NoColor: o.File != "", TimeFormat: time.RFC3339}
	}
	zl := zerolog.New(w).With().Timestamp().Logger()

	handlers := []slog.Handler{
		slogzerolog.Option{Level: level, Logger: &zl}.NewZerologHandler(),
	}

	if o.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: o.SentryDSN}); err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("logging: sentry: %w", err)
		}
		closers = append(closers, func() { sentry.Flush(2 * time.Second) })
		handlers = append(handlers, slogsentry.Option{Level: slog.LevelError}.NewSentryHandler())
	}

	handlers = append(handlers, o.Extra...)
	return slog.New(slogmulti.Fanout(handlers...)), cleanup, nil
}

// Discard is a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
