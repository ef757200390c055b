package bell

import (
	"context"
	"errors"
	"testing"

	"tableflip.dev/promoreel/pkg/content"
	"tableflip.dev/promoreel/pkg/kv"
	"tableflip.dev/promoreel/pkg/ledger"
)

func newBell() *Bell {
	return New(ledger.New[string](kv.NewMemory(), ledger.BellNamespace))
}

func notes() []content.NotificationItem {
	return []content.NotificationItem{
		{ID: "n1", Title: "New reel", Version: 10},
		{ID: "n2", Title: "Course sale", Version: 20},
	}
}

func TestUnreadCount(t *testing.T) {
	b := newBell()
	b.Load(notes())
	if got := b.UnreadCount(); got != 2 {
		t.Fatalf("unread = %d, want 2", got)
	}
	if err := b.MarkRead("n1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if got := b.UnreadCount(); got != 1 {
		t.Fatalf("unread = %d, want 1", got)
	}
	entries := b.Entries()
	if !entries[0].Read || entries[1].Read {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestEditedNotificationIsUnreadAgain(t *testing.T) {
	b := newBell()
	b.Load(notes())
	if err := b.MarkAllRead(); err != nil {
		t.Fatalf("mark all: %v", err)
	}
	if b.UnreadCount() != 0 {
		t.Fatal("all notifications should be read")
	}

	edited := notes()
	edited[1].Version = 21
	b.Load(edited)
	if got := b.UnreadCount(); got != 1 {
		t.Fatalf("unread = %d, want 1", got)
	}
}

func TestMarkReadUnknown(t *testing.T) {
	b := newBell()
	b.Load(notes())
	if err := b.MarkRead("nope"); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestFetch(t *testing.T) {
	p := content.NewMemory()
	for _, n := range notes() {
		p.PutNotification(n)
	}
	b := newBell()
	if err := b.Fetch(context.Background(), p); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(b.Entries()) != 2 {
		t.Fatalf("entries = %+v", b.Entries())
	}
}
