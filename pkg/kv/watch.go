package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event is emitted by Disk.Watch when a namespace changes on disk.
type Event struct {
	Namespace string
}

var _ Watcher = (*Disk)(nil)

// Watch streams namespace change events until ctx is cancelled. Bursts of
// writes to the same namespace collapse into one event. The channel is closed
// once ctx is done or the watcher fails.
func (s *Disk) Watch(ctx context.Context) (<-chan Event, error) {
	if s.basePath == "" {
		return nil, errors.New("kv: base path unknown")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("kv: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "kv: watcher close: %v\n", err)
			}
		})
	}

	if err := watcher.Add(s.basePath); err != nil {
		closeWatcher()
		return nil, fmt.Errorf("kv: watch %s: %w", s.basePath, err)
	}

	events := make(chan Event, 16)

	go func() {
		defer close(events)
		defer closeWatcher()

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-throttle.Ready():
				for _, ns := range throttle.Drain() {
					select {
					case events <- Event{Namespace: ns}:
					default:
						// Consumer is behind; it reloads the whole namespace anyway.
					}
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				ns := s.namespaceForPath(evt.Name)
				if ns == "" {
					continue
				}
				throttle.Enqueue(ns)
			}
		}
	}()

	return events, nil
}

func (s *Disk) namespaceForPath(path string) string {
	rel, err := filepath.Rel(s.basePath, path)
	if err != nil || rel == "." {
		return ""
	}
	if strings.Contains(rel, string(os.PathSeparator)) || strings.HasPrefix(rel, ".") {
		return ""
	}
	return rel
}

// eventThrottle coalesces rapid change notifications into one flush per
// burst. The timer only signals Ready; the owner of the events channel drains
// and sends, so nothing is sent once that owner has returned.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
	delay   time.Duration
	ready   chan struct{}
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[string]struct{}),
		ready:   make(chan struct{}, 1),
	}
}

func (t *eventThrottle) Enqueue(namespace string) {
	t.mu.Lock()
	t.pending[namespace] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, t.fire)
	}
	t.mu.Unlock()
}

func (t *eventThrottle) fire() {
	select {
	case t.ready <- struct{}{}:
	default:
	}
}

// Ready receives once per elapsed burst.
func (t *eventThrottle) Ready() <-chan struct{} { return t.ready }

// Drain returns the pending namespaces in order and starts a new burst.
func (t *eventThrottle) Drain() []string {
	t.mu.Lock()
	out := make([]string, 0, len(t.pending))
	for ns := range t.pending {
		out = append(out, ns)
	}
	t.pending = make(map[string]struct{})
	t.timer = nil
	t.mu.Unlock()
	sort.Strings(out)
	return out
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
