// Package ledger implements the versioned dismissal ledger: a persisted
// id -> version map answering whether an item is still suppressed.
//
// An item is suppressed if and only if a record exists for it whose version
// is at least the item's current version. Editing an item moves its version
// forward and so releases every earlier dismissal of it.
package ledger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"tableflip.dev/promoreel/pkg/kv"
)

// Namespaces used by the two ledgers of the site.
const (
	ReelNamespace = "promoreel.reel.dismissed"
	BellNamespace = "promoreel.bell.read"
)

// Ledger is a versioned suppression map over one store namespace.
type Ledger[K ~string] struct {
	store     kv.Store
	namespace string
	logger    *slog.Logger
}

// Option customises a Ledger.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger routes read failures to logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New returns a ledger persisted in store under namespace.
func New[K ~string](store kv.Store, namespace string, opts ...Option) *Ledger[K] {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Ledger[K]{
		store:     store,
		namespace: namespace,
		logger:    o.logger.With("ledger", namespace),
	}
}

// Namespace returns the store namespace backing the ledger.
func (l *Ledger[K]) Namespace() string { return l.namespace }

// Snapshot is the record map as read at one point in time.
type Snapshot[K ~string] map[K]int64

// Suppressed reports whether id was dismissed at currentVersion or later.
func (s Snapshot[K]) Suppressed(id K, currentVersion int64) bool {
	v, ok := s[id]
	return ok && v >= currentVersion
}

// IsSuppressed reports whether id was dismissed at currentVersion or later.
func (l *Ledger[K]) IsSuppressed(id K, currentVersion int64) bool {
	return l.Records().Suppressed(id, currentVersion)
}

// RecordDismissal stores that id was dismissed at currentVersion. A record
// never moves backwards, so dismissing a stale copy cannot release a newer
// dismissal.
func (l *Ledger[K]) RecordDismissal(id K, currentVersion int64) error {
	records := l.load()
	if prev, ok := records[id]; ok && prev >= currentVersion {
		return nil
	}
	records[id] = currentVersion
	return l.save(records)
}

// RecordAll stores several dismissals in a single write.
func (l *Ledger[K]) RecordAll(versions map[K]int64) error {
	if len(versions) == 0 {
		return nil
	}
	records := l.load()
	changed := false
	for id, v := range versions {
		if prev, ok := records[id]; ok && prev >= v {
			continue
		}
		records[id] = v
		changed = true
	}
	if !changed {
		return nil
	}
	return l.save(records)
}

// Records returns a copy of every stored record.
func (l *Ledger[K]) Records() Snapshot[K] {
	return Snapshot[K](l.load())
}

// Record is one ledger entry, for listings.
type Record[K ~string] struct {
	ID      K     `json:"id"`
	Version int64 `json:"dismissedVersion"`
}

// Sorted returns the records ordered by id.
func (l *Ledger[K]) Sorted() []Record[K] {
	records := l.load()
	out := make([]Record[K], 0, len(records))
	for id, v := range records {
		out = append(out, Record[K]{ID: id, Version: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Clear drops every record.
func (l *Ledger[K]) Clear() error {
	return l.save(map[K]int64{})
}

// Visible returns the items that are not suppressed, preserving order.
func Visible[K ~string, T any](l *Ledger[K], items []T, key func(T) (K, int64)) []T {
	if l == nil {
		return items
	}
	records := l.Records()
	out := make([]T, 0, len(items))
	for _, it := range items {
		if records.Suppressed(key(it)) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// load reads the whole map. Any failure yields an empty map so that nothing
// stays suppressed.
func (l *Ledger[K]) load() map[K]int64 {
	records := make(map[K]int64)
	raw, ok, err := l.store.Get(l.namespace)
	if err != nil {
		l.logger.Warn("ledger read failed, treating as empty", "error", err)
		return records
	}
	if !ok || raw == "" {
		return records
	}
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		l.logger.Warn("ledger malformed, treating as empty", "error", err)
		return make(map[K]int64)
	}
	return records
}

func (l *Ledger[K]) save(records map[K]int64) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("ledger: encode %s: %w", l.namespace, err)
	}
	if err := l.store.Set(l.namespace, string(data)); err != nil {
		return fmt.Errorf("ledger: save %s: %w", l.namespace, err)
	}
	return nil
}
