// Package app wires the configured content provider and ledger store so the
// CLI and the terminal host share one setup.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tableflip.dev/promoreel/pkg/bell"
	"tableflip.dev/promoreel/pkg/config"
	"tableflip.dev/promoreel/pkg/content"
	"tableflip.dev/promoreel/pkg/content/demo"
	"tableflip.dev/promoreel/pkg/content/sqlstore"
	"tableflip.dev/promoreel/pkg/kv"
	"tableflip.dev/promoreel/pkg/ledger"
)

// ErrNoDatabase is returned by operations that need the SQL content store
// when the memory driver is configured.
var ErrNoDatabase = errors.New("app: content driver has no database")

// LedgerKind selects one of the two ledgers.
type LedgerKind string

const (
	LedgerReel LedgerKind = "reel"
	LedgerBell LedgerKind = "bell"
)

// ParseLedgerKind validates a --ledger flag.
func ParseLedgerKind(s string) (LedgerKind, error) {
	switch k := LedgerKind(s); k {
	case LedgerReel, LedgerBell:
		return k, nil
	}
	return "", fmt.Errorf("app: unknown ledger %q, want reel or bell", s)
}

func (k LedgerKind) namespace() string {
	if k == LedgerBell {
		return ledger.BellNamespace
	}
	return ledger.ReelNamespace
}

// Service provides the operations shared by the CLI and the terminal host.
type Service struct {
	Config   *config.Config
	Provider content.Provider
	Store    kv.Store
	// Watcher is set when the store is on disk.
	Watcher kv.Watcher
	Logger  *slog.Logger

	sql *sqlstore.Store
}

// Open builds a service from cfg. A SQL content database must be migrated
// before use.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{Config: cfg, Logger: logger}

	if cfg.Path == "" {
		s.Store = kv.NewMemory()
	} else {
		disk, err := kv.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		s.Store, s.Watcher = disk, disk
	}

	switch cfg.Content.Driver {
	case "", "memory":
		s.Provider = demo.Provider(time.Now())
	default:
		st, err := sqlstore.Open(ctx, cfg.Content.Driver, cfg.Content.DSN, logger)
		if err != nil {
			return nil, err
		}
		s.sql = st
		s.Provider = st
	}
	return s, nil
}

// Close releases the content database.
func (s *Service) Close() error {
	if s.sql == nil {
		return nil
	}
	return s.sql.Close()
}

// Migrate applies pending content migrations. It is a no-op for the memory
// driver.
func (s *Service) Migrate(ctx context.Context) (int, error) {
	if s.sql == nil {
		return 0, nil
	}
	return s.sql.Migrate(ctx)
}

// SQL returns the content database.
func (s *Service) SQL() (*sqlstore.Store, error) {
	if s.sql == nil {
		return nil, ErrNoDatabase
	}
	return s.sql, nil
}

// Ledger returns the ledger of kind.
func (s *Service) Ledger(kind LedgerKind) *ledger.Ledger[string] {
	return ledger.New[string](s.Store, kind.namespace(), ledger.WithLogger(s.Logger))
}

// ItemStatus is an active item with its dismissal state.
type ItemStatus struct {
	content.MediaItem
	Suppressed bool `json:"suppressed"`
	// DismissedVersion is the recorded version, zero when never dismissed.
	DismissedVersion int64 `json:"dismissedVersion,omitempty"`
}

// Items lists the active items of section.
func (s *Service) Items(ctx context.Context, section content.SectionKey) ([]ItemStatus, error) {
	items, err := s.Provider.ListActiveItems(ctx, section)
	if err != nil {
		return nil, fmt.Errorf("app: list items: %w", err)
	}
	records := s.Ledger(LedgerReel).Records()
	out := make([]ItemStatus, 0, len(items))
	for _, it := range items {
		out = append(out, ItemStatus{
			MediaItem:        it,
			Suppressed:       records.Suppressed(it.ID, it.Version),
			DismissedVersion: records[it.ID],
		})
	}
	return out, nil
}

// Bell returns the notification bell loaded from the provider.
func (s *Service) Bell(ctx context.Context) (*bell.Bell, error) {
	b := bell.New(s.Ledger(LedgerBell))
	if err := b.Fetch(ctx, s.Provider); err != nil {
		return nil, err
	}
	return b, nil
}

// Touch bumps the version of an item or notification, which makes an
// earlier dismissal or read mark stale.
func (s *Service) Touch(ctx context.Context, id string) (int64, error) {
	switch p := s.Provider.(type) {
	case *sqlstore.Store:
		return p.Touch(ctx, id)
	case *content.Memory:
		return p.Touch(id)
	}
	return 0, fmt.Errorf("app: provider %T cannot touch items", s.Provider)
}

// SeedResult counts the demo rows written.
type SeedResult struct {
	Items         int `json:"items"`
	Notifications int `json:"notifications"`
}

// Seed upserts the demo content stamped at now.
func (s *Service) Seed(ctx context.Context, now time.Time) (SeedResult, error) {
	st, err := s.SQL()
	if err != nil {
		return SeedResult{}, err
	}
	var res SeedResult
	for _, it := range demo.Items(now) {
		if _, err := st.UpsertItem(ctx, it); err != nil {
			return res, err
		}
		res.Items++
	}
	for _, n := range demo.Notifications(now) {
		if _, err := st.UpsertNotification(ctx, n); err != nil {
			return res, err
		}
		res.Notifications++
	}
	s.Logger.Info("app: seeded demo content", "items", res.Items, "notifications", res.Notifications)
	return res, nil
}
