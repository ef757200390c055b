package content

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrNotFound is returned when an item id is unknown.
var ErrNotFound = errors.New("content: item not found")

// Provider fetches promotional content for the overlay.
type Provider interface {
	// ListActiveItems returns active items belonging to section, newest first.
	ListActiveItems(ctx context.Context, section SectionKey) ([]MediaItem, error)
	// ListNotifications returns every notification, newest first.
	ListNotifications(ctx context.Context) ([]NotificationItem, error)
}

// Memory is an in-process Provider. It is safe for concurrent use.
type Memory struct {
	mu            sync.Mutex
	items         map[string]MediaItem
	notifications map[string]NotificationItem
	now           func() time.Time
}

// NewMemory returns a Memory seeded with the given items.
func NewMemory(items ...MediaItem) *Memory {
	m := &Memory{
		items:         make(map[string]MediaItem),
		notifications: make(map[string]NotificationItem),
		now:           time.Now,
	}
	for _, it := range items {
		m.items[it.ID] = cloneItem(it)
	}
	return m
}

var _ Provider = (*Memory)(nil)

// PutItem inserts or replaces an item as-is.
func (m *Memory) PutItem(item MediaItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = cloneItem(item)
}

// PutNotification inserts or replaces a notification as-is.
func (m *Memory) PutNotification(n NotificationItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications[n.ID] = n
}

// Touch records an edit of the item or notification with id, moving its
// version forward.
func (m *Memory) Touch(id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := VersionOf(m.now())
	if it, ok := m.items[id]; ok {
		if next <= it.Version {
			next = it.Version + 1
		}
		it.Version = next
		m.items[id] = it
		return next, nil
	}
	if n, ok := m.notifications[id]; ok {
		if next <= n.Version {
			next = n.Version + 1
		}
		n.Version = next
		m.notifications[id] = n
		return next, nil
	}
	return 0, ErrNotFound
}

// ListActiveItems implements Provider.
func (m *Memory) ListActiveItems(ctx context.Context, section SectionKey) ([]MediaItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MediaItem, 0, len(m.items))
	for _, it := range m.items {
		if !it.Active || !it.InSection(section) {
			continue
		}
		out = append(out, cloneItem(it))
	}
	SortItems(out)
	return out, nil
}

// ListNotifications implements Provider.
func (m *Memory) ListNotifications(ctx context.Context) ([]NotificationItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]NotificationItem, 0, len(m.notifications))
	for _, n := range m.notifications {
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Version == out[j].Version {
			return out[i].ID < out[j].ID
		}
		return out[i].Version > out[j].Version
	})
	return out, nil
}

// SortItems orders items by recency, newest first, ties broken by id.
func SortItems(items []MediaItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Version == items[j].Version {
			return items[i].ID < items[j].ID
		}
		return items[i].Version > items[j].Version
	})
}

func cloneItem(it MediaItem) MediaItem {
	if it.Sections != nil {
		it.Sections = append([]SectionKey(nil), it.Sections...)
	}
	return it
}
