// Package bell tracks which notifications the viewer has read, using the
// same versioned ledger as overlay dismissals.
package bell

import (
	"context"
	"fmt"

	"tableflip.dev/promoreel/pkg/content"
	"tableflip.dev/promoreel/pkg/ledger"
)

// Entry is one notification with its read flag.
type Entry struct {
	content.NotificationItem
	Read bool `json:"read"`
}

// Bell is the notification list of the current viewer.
type Bell struct {
	ledger *ledger.Ledger[string]
	items  []content.NotificationItem
}

// New returns a bell over l, normally in ledger.BellNamespace.
func New(l *ledger.Ledger[string]) *Bell {
	return &Bell{ledger: l}
}

// Load replaces the notification list.
func (b *Bell) Load(items []content.NotificationItem) {
	b.items = append([]content.NotificationItem(nil), items...)
}

// Fetch loads the notifications from p.
func (b *Bell) Fetch(ctx context.Context, p content.Provider) error {
	items, err := p.ListNotifications(ctx)
	if err != nil {
		return fmt.Errorf("bell: list notifications: %w", err)
	}
	b.Load(items)
	return nil
}

// Entries returns the notifications in load order. The ledger is re-read so
// writes from other processes are reflected.
func (b *Bell) Entries() []Entry {
	records := b.ledger.Records()
	out := make([]Entry, 0, len(b.items))
	for _, it := range b.items {
		out = append(out, Entry{NotificationItem: it, Read: records.Suppressed(it.ID, it.Version)})
	}
	return out
}

// UnreadCount is the badge number.
func (b *Bell) UnreadCount() int {
	n := 0
	for _, e := range b.Entries() {
		if !e.Read {
			n++
		}
	}
	return n
}

// MarkRead records id as read at its current version.
func (b *Bell) MarkRead(id string) error {
	for _, it := range b.items {
		if it.ID == id {
			return b.ledger.RecordDismissal(it.ID, it.Version)
		}
	}
	return fmt.Errorf("bell: %q: %w", id, content.ErrNotFound)
}

// MarkAllRead records every loaded notification in one write.
func (b *Bell) MarkAllRead() error {
	versions := make(map[string]int64, len(b.items))
	for _, it := range b.items {
		versions[it.ID] = it.Version
	}
	return b.ledger.RecordAll(versions)
}
