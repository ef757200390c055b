package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type recorder struct {
	mu      sync.Mutex
	records []slog.Record
}

func (r *recorder) Enabled(context.Context, slog.Level) bool { return true }
func (r *recorder) Handle(_ context.Context, rec slog.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}
func (r *recorder) WithAttrs([]slog.Attr) slog.Handler { return r }
func (r *recorder) WithGroup(string) slog.Handler      { return r }

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFanoutToWriterAndExtra(t *testing.T) {
	var buf bytes.Buffer
	rec := &recorder{}
	logger, cleanup, err := New(Options{Level: "info", Writer: &buf, JSON: true, Extra: []slog.Handler{rec}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer cleanup()

	logger.Debug("hidden")
	logger.Info("overlay: dismissed", "item", "a")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug must be filtered at info level")
	}
	if !strings.Contains(buf.String(), `"item":"a"`) {
		t.Errorf("zerolog output = %q", buf.String())
	}
	if len(rec.records) != 2 {
		t.Errorf("extra handler saw %d records", len(rec.records))
	}
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "promoreel.log")
	logger, cleanup, err := New(Options{File: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Warn("ledger read failed")
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "ledger read failed") {
		t.Errorf("log file = %q", data)
	}
}
