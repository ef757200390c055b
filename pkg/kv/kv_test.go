package kv

import (
	"context"
	"testing"
	"time"
)

func TestDiskRoundTripAndMissing(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, ok, err := s.Get("promoreel.reel.dismissed"); err != nil || ok {
		t.Fatalf("missing namespace: ok=%v err=%v", ok, err)
	}
	if err := s.Set("promoreel.reel.dismissed", `{"a":1}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set("promoreel.reel.dismissed", `{"a":2}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := s.Get("promoreel.reel.dismissed")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got != `{"a":2}` {
		t.Fatalf("value = %q", got)
	}

	if err := s.Delete("promoreel.reel.dismissed"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get("promoreel.reel.dismissed"); ok {
		t.Fatal("namespace still present after delete")
	}
}

func TestDiskRejectsInvalidNamespaces(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, ns := range []string{"", "../escape", ".hidden", "a/b"} {
		if err := s.Set(ns, "x"); err == nil {
			t.Fatalf("expected error for namespace %q", ns)
		}
	}
}

func TestDiskWatchReportsNamespaceWrites(t *testing.T) {
	base := t.TempDir()
	s, err := Open(base)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow the watcher goroutine to subscribe before writing.
	time.Sleep(50 * time.Millisecond)

	other, err := Open(base)
	if err != nil {
		t.Fatalf("open second handle: %v", err)
	}
	if err := other.Set("promoreel.bell.read", `{"n1":3}`); err != nil {
		t.Fatalf("set: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Namespace == "promoreel.bell.read" {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for namespace change event")
		}
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemory()
	if err := m.Set("ns", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok, err := m.Get("ns"); err != nil || !ok || v != "v" {
		t.Fatalf("get = %q %v %v", v, ok, err)
	}
}

func TestThrottleFiresAfterStopWithoutSending(t *testing.T) {
	for i := 0; i < 50; i++ {
		th := newEventThrottle(time.Microsecond)
		th.Enqueue("promoreel.bell.read")
		th.Enqueue("promoreel.bell.read")
		time.Sleep(50 * time.Microsecond)
		th.Stop()

		// A timer that fired before Stop only leaves a signal behind.
		select {
		case <-th.Ready():
			if got := th.Drain(); len(got) != 1 || got[0] != "promoreel.bell.read" {
				t.Fatalf("iteration %d: drained %v", i, got)
			}
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestDiskWatchCancelDuringFlush(t *testing.T) {
	base := t.TempDir()
	s, err := Open(base)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 10; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		ch, err := s.Watch(ctx)
		if err != nil {
			cancel()
			t.Fatalf("watch: %v", err)
		}
		if err := s.Set("promoreel.bell.read", `{"n1":1}`); err != nil {
			cancel()
			t.Fatalf("set: %v", err)
		}
		// Land the cancel around the 100ms throttle deadline.
		time.Sleep(time.Duration(95+i) * time.Millisecond)
		cancel()

		deadline := time.After(2 * time.Second)
	drain:
		for {
			select {
			case _, ok := <-ch:
				if !ok {
					break drain
				}
			case <-deadline:
				t.Fatalf("iteration %d: events channel not closed after cancel", i)
			}
		}
	}
}
