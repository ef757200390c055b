// Package sqlstore is a content.Provider backed by SQLite or PostgreSQL.
// Queries are built with squirrel and the schema is managed by goose.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"tableflip.dev/promoreel/pkg/content"
	_ "tableflip.dev/promoreel/pkg/content/sqlstore/migrations"
)

// Dialect is the SQL flavour of the backing database.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// ParseDialect maps a config driver name to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	default:
		return SQLite, fmt.Errorf("sqlstore: unknown driver %q", driver)
	}
}

func (d Dialect) driverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

func (d Dialect) gooseDialect() goose.Dialect {
	if d == Postgres {
		return goose.DialectPostgres
	}
	return goose.DialectSQLite3
}

func (d Dialect) builder() sq.StatementBuilderType {
	if d == Postgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// ErrBadQuery is returned when a statement cannot be built.
var ErrBadQuery = errors.New("sqlstore: bad query")

func badQuery(err error) error {
	return fmt.Errorf("%w: %v", ErrBadQuery, err)
}

// Store reads and writes promotional content.
type Store struct {
	db      *sql.DB
	dialect Dialect
	sb      sq.StatementBuilderType
	now     func() time.Time
	logger  *slog.Logger
}

var _ content.Provider = (*Store)(nil)

// Open connects to dsn. For SQLite the parent directory is created and the
// usual pragmas applied; ":memory:" is pinned to one connection.
func Open(ctx context.Context, driver, dsn string, logger *slog.Logger) (*Store, error) {
	dialect, err := ParseDialect(driver)
	if err != nil {
		return nil, err
	}
	if dialect == SQLite && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("sqlstore: mkdir: %w", err)
		}
	}
	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open: %w", err)
	}
	if dialect == SQLite {
		if dsn == ":memory:" {
			db.SetMaxOpenConns(1)
		}
		if err := applyPragmas(ctx, db, dsn == ":memory:"); err != nil {
			db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlstore: ping: %w", err)
	}
	return New(db, dialect, logger), nil
}

// New wraps an open database.
func New(db *sql.DB, dialect Dialect, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:      db,
		dialect: dialect,
		sb:      dialect.builder(),
		now:     time.Now,
		logger:  logger.With("component", "sqlstore"),
	}
}

func applyPragmas(ctx context.Context, db *sql.DB, memory bool) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	if !memory {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("sqlstore: %s: %w", p, err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the handle, for migrations and tests.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) migrations() (*goose.Provider, error) {
	p, err := goose.NewProvider(s.dialect.gooseDialect(), s.db, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: migrations: %w", err)
	}
	return p, nil
}

// Migrate applies every pending migration and returns how many ran.
func (s *Store) Migrate(ctx context.Context) (int, error) {
	p, err := s.migrations()
	if err != nil {
		return 0, err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return len(results), fmt.Errorf("sqlstore: migrate: %w", err)
	}
	for _, r := range results {
		s.logger.Info("sqlstore: applied migration", "version", r.Source.Version, "took", r.Duration)
	}
	return len(results), nil
}

// MigrationStatus is one row of the migration listing.
type MigrationStatus struct {
	Version int64
	Applied bool
	At      time.Time
}

// Status lists every known migration.
func (s *Store) Status(ctx context.Context) ([]MigrationStatus, error) {
	p, err := s.migrations()
	if err != nil {
		return nil, err
	}
	status, err := p.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: status: %w", err)
	}
	out := make([]MigrationStatus, 0, len(status))
	for _, st := range status {
		out = append(out, MigrationStatus{
			Version: st.Source.Version,
			Applied: st.State == goose.StateApplied,
			At:      st.AppliedAt,
		})
	}
	return out, nil
}

var itemColumns = []string{"m.id", "m.title", "m.media_url", "m.aspect", "m.active", "m.duration_ms", "m.updated_at"}

func (s *Store) activeItemsQuery(section content.SectionKey) (string, []interface{}, error) {
	return s.sb.
		Select(itemColumns...).
		From("media_items m").
		Join("media_item_sections ms ON ms.item_id = m.id").
		Where(sq.Eq{"ms.section": string(section), "m.active": true}).
		OrderBy("m.updated_at DESC", "m.id ASC").
		ToSql()
}

// ListActiveItems implements content.Provider.
func (s *Store) ListActiveItems(ctx context.Context, section content.SectionKey) ([]content.MediaItem, error) {
	query, args, err := s.activeItemsQuery(section)
	if err != nil {
		return nil, badQuery(err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list items: %w", err)
	}
	defer rows.Close()

	var items []content.MediaItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: list items: %w", err)
	}
	if err := s.attachSections(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Item returns one item regardless of its active flag.
func (s *Store) Item(ctx context.Context, id string) (content.MediaItem, error) {
	query, args, err := s.sb.
		Select(itemColumns...).
		From("media_items m").
		Where(sq.Eq{"m.id": id}).
		ToSql()
	if err != nil {
		return content.MediaItem{}, badQuery(err)
	}
	it, err := scanItem(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return content.MediaItem{}, fmt.Errorf("sqlstore: item %q: %w", id, content.ErrNotFound)
	}
	if err != nil {
		return content.MediaItem{}, err
	}
	items := []content.MediaItem{it}
	if err := s.attachSections(ctx, items); err != nil {
		return content.MediaItem{}, err
	}
	return items[0], nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row scanner) (content.MediaItem, error) {
	var (
		it         content.MediaItem
		aspect     string
		durationMS int64
	)
	if err := row.Scan(&it.ID, &it.Title, &it.MediaURL, &aspect, &it.Active, &durationMS, &it.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return it, err
		}
		return it, fmt.Errorf("sqlstore: scan item: %w", err)
	}
	a, err := content.ParseAspectRatio(aspect)
	if err != nil {
		return it, err
	}
	it.Aspect = a
	it.Duration = time.Duration(durationMS) * time.Millisecond
	return it, nil
}

func (s *Store) attachSections(ctx context.Context, items []content.MediaItem) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, 0, len(items))
	index := make(map[string]int, len(items))
	for i, it := range items {
		ids = append(ids, it.ID)
		index[it.ID] = i
	}
	query, args, err := s.sb.
		Select("item_id", "section").
		From("media_item_sections").
		Where(sq.Eq{"item_id": ids}).
		OrderBy("item_id", "section").
		ToSql()
	if err != nil {
		return badQuery(err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqlstore: sections: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, section string
		if err := rows.Scan(&id, &section); err != nil {
			return fmt.Errorf("sqlstore: scan section: %w", err)
		}
		i := index[id]
		items[i].Sections = append(items[i].Sections, content.SectionKey(section))
	}
	return rows.Err()
}

// ListNotifications implements content.Provider.
func (s *Store) ListNotifications(ctx context.Context) ([]content.NotificationItem, error) {
	query, args, err := s.sb.
		Select("id", "title", "body", "image", "updated_at").
		From("notifications").
		OrderBy("updated_at DESC", "id ASC").
		ToSql()
	if err != nil {
		return nil, badQuery(err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list notifications: %w", err)
	}
	defer rows.Close()

	var out []content.NotificationItem
	for rows.Next() {
		var n content.NotificationItem
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.Image, &n.Version); err != nil {
			return nil, fmt.Errorf("sqlstore: scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// version returns v, or the current time when v is unset.
func (s *Store) version(v int64) int64 {
	if v > 0 {
		return v
	}
	return content.VersionOf(s.now())
}

// UpsertItem inserts or replaces an item and its section membership. A zero
// Version is stamped with the current time. It returns the stored version.
func (s *Store) UpsertItem(ctx context.Context, it content.MediaItem) (int64, error) {
	version := s.version(it.Version)
	insert, args, err := s.sb.
		Insert("media_items").
		Columns("id", "title", "media_url", "aspect", "active", "duration_ms", "updated_at").
		Values(it.ID, it.Title, it.MediaURL, it.Aspect.String(), it.Active, it.Duration.Milliseconds(), version).
		Suffix("ON CONFLICT (id) DO UPDATE SET title = excluded.title, media_url = excluded.media_url, " +
			"aspect = excluded.aspect, active = excluded.active, duration_ms = excluded.duration_ms, " +
			"updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return 0, badQuery(err)
	}
	del, delArgs, err := s.sb.Delete("media_item_sections").Where(sq.Eq{"item_id": it.ID}).ToSql()
	if err != nil {
		return 0, badQuery(err)
	}

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, del, delArgs...); err != nil {
			return err
		}
		if len(it.Sections) == 0 {
			return nil
		}
		ins := s.sb.Insert("media_item_sections").Columns("item_id", "section")
		for _, sec := range it.Sections {
			ins = ins.Values(it.ID, string(sec))
		}
		query, qargs, err := ins.ToSql()
		if err != nil {
			return badQuery(err)
		}
		_, err = tx.ExecContext(ctx, query, qargs...)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("sqlstore: upsert item %q: %w", it.ID, err)
	}
	return version, nil
}

// UpsertNotification inserts or replaces a notification.
func (s *Store) UpsertNotification(ctx context.Context, n content.NotificationItem) (int64, error) {
	version := s.version(n.Version)
	query, args, err := s.sb.
		Insert("notifications").
		Columns("id", "title", "body", "image", "updated_at").
		Values(n.ID, n.Title, n.Body, n.Image, version).
		Suffix("ON CONFLICT (id) DO UPDATE SET title = excluded.title, body = excluded.body, " +
			"image = excluded.image, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return 0, badQuery(err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("sqlstore: upsert notification %q: %w", n.ID, err)
	}
	return version, nil
}

// Touch records an edit of the item or notification with id, moving its
// version forward so earlier dismissals no longer apply.
func (s *Store) Touch(ctx context.Context, id string) (int64, error) {
	next := content.VersionOf(s.now())
	for _, table := range []string{"media_items", "notifications"} {
		query, args, err := s.sb.
			Update(table).
			Set("updated_at", sq.Expr("CASE WHEN updated_at >= ? THEN updated_at + 1 ELSE ? END", next, next)).
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return 0, badQuery(err)
		}
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("sqlstore: touch %q: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue
		}
		var version int64
		sel, selArgs, err := s.sb.Select("updated_at").From(table).Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return 0, badQuery(err)
		}
		if err := s.db.QueryRowContext(ctx, sel, selArgs...).Scan(&version); err != nil {
			return 0, fmt.Errorf("sqlstore: touch %q: %w", id, err)
		}
		return version, nil
	}
	return 0, fmt.Errorf("sqlstore: touch %q: %w", id, content.ErrNotFound)
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
