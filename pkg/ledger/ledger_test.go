package ledger

import (
	"errors"
	"testing"

	"tableflip.dev/promoreel/pkg/kv"
)

type itemID string

func TestSuppressionInvariant(t *testing.T) {
	store := kv.NewMemory()
	l := New[itemID](store, ReelNamespace)

	tests := []struct {
		name      string
		dismissed int64
		record    bool
		current   int64
		want      bool
	}{
		{name: "no record", record: false, current: 5, want: false},
		{name: "same version", record: true, dismissed: 5, current: 5, want: true},
		{name: "older current", record: true, dismissed: 5, current: 4, want: true},
		{name: "edited after dismissal", record: true, dismissed: 5, current: 6, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := l.Clear(); err != nil {
				t.Fatalf("clear: %v", err)
			}
			if tt.record {
				if err := l.RecordDismissal("item-2", tt.dismissed); err != nil {
					t.Fatalf("record: %v", err)
				}
			}
			if got := l.IsSuppressed("item-2", tt.current); got != tt.want {
				t.Fatalf("IsSuppressed(v=%d) = %v, want %v", tt.current, got, tt.want)
			}
		})
	}
}

func TestEditReleasesDismissal(t *testing.T) {
	l := New[itemID](kv.NewMemory(), ReelNamespace)
	if err := l.RecordDismissal("item-2", 5); err != nil {
		t.Fatalf("record: %v", err)
	}
	if !l.IsSuppressed("item-2", 5) {
		t.Fatal("expected suppression at dismissed version")
	}
	if l.IsSuppressed("item-2", 6) {
		t.Fatal("edited item must not stay suppressed")
	}
}

func TestRecordNeverMovesBackwards(t *testing.T) {
	l := New[itemID](kv.NewMemory(), ReelNamespace)
	if err := l.RecordDismissal("a", 9); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := l.RecordDismissal("a", 3); err != nil {
		t.Fatalf("record older: %v", err)
	}
	if got := l.Records()["a"]; got != 9 {
		t.Fatalf("record = %d, want 9", got)
	}
}

func TestFailOpen(t *testing.T) {
	t.Run("malformed", func(t *testing.T) {
		store := kv.NewMemory()
		_ = store.Set(ReelNamespace, "{not json")
		l := New[itemID](store, ReelNamespace)
		if l.IsSuppressed("a", 0) {
			t.Fatal("malformed ledger must suppress nothing")
		}
		if err := l.RecordDismissal("a", 1); err != nil {
			t.Fatalf("record after malformed: %v", err)
		}
		if !l.IsSuppressed("a", 1) {
			t.Fatal("ledger should recover after a write")
		}
	})
	t.Run("read error", func(t *testing.T) {
		store := kv.NewMemory()
		_ = store.Set(ReelNamespace, `{"a":10}`)
		store.GetErr = errors.New("quota")
		l := New[itemID](store, ReelNamespace)
		if l.IsSuppressed("a", 1) {
			t.Fatal("read failure must suppress nothing")
		}
	})
}

func TestNamespacesAreIndependent(t *testing.T) {
	store := kv.NewMemory()
	reel := New[itemID](store, ReelNamespace)
	bell := New[itemID](store, BellNamespace)

	if err := reel.RecordDismissal("x", 1); err != nil {
		t.Fatalf("record: %v", err)
	}
	if bell.IsSuppressed("x", 1) {
		t.Fatal("bell ledger must not see reel dismissals")
	}
}

func TestVisibleFiltersSuppressedItems(t *testing.T) {
	type row struct {
		id string
		v  int64
	}
	l := New[string](kv.NewMemory(), ReelNamespace)
	_ = l.RecordAll(map[string]int64{"b": 2, "c": 1})

	rows := []row{{"a", 1}, {"b", 2}, {"c", 2}}
	got := Visible(l, rows, func(r row) (string, int64) { return r.id, r.v })
	if len(got) != 2 || got[0].id != "a" || got[1].id != "c" {
		t.Fatalf("visible = %+v", got)
	}
}

func TestDiskBackedLedgerPersistsAcrossInstances(t *testing.T) {
	base := t.TempDir()
	s1, err := kv.Open(base)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := New[itemID](s1, ReelNamespace).RecordDismissal("a", 7); err != nil {
		t.Fatalf("record: %v", err)
	}

	s2, err := kv.Open(base)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !New[itemID](s2, ReelNamespace).IsSuppressed("a", 7) {
		t.Fatal("dismissal lost across store instances")
	}
}

func TestSnapshotMatchesLedger(t *testing.T) {
	l := New[itemID](kv.NewMemory(), BellNamespace)
	if err := l.RecordAll(map[itemID]int64{"a": 5, "b": 2}); err != nil {
		t.Fatal(err)
	}
	snap := l.Records()
	for _, tt := range []struct {
		id      itemID
		current int64
	}{{"a", 5}, {"a", 6}, {"b", 1}, {"c", 0}} {
		if got, want := snap.Suppressed(tt.id, tt.current), l.IsSuppressed(tt.id, tt.current); got != want {
			t.Errorf("%s@%d: snapshot %v, ledger %v", tt.id, tt.current, got, want)
		}
	}
	if snap.Suppressed("a", 6) {
		t.Fatal("an edit past the dismissed version must not be suppressed")
	}
}
