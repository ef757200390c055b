package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateMediaItems, downCreateMediaItems)
}

func upCreateMediaItems(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`CREATE TABLE media_items (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			media_url   TEXT NOT NULL,
			aspect      TEXT NOT NULL DEFAULT 'portrait',
			active      BOOLEAN NOT NULL DEFAULT TRUE,
			duration_ms BIGINT NOT NULL DEFAULT 0,
			updated_at  BIGINT NOT NULL
		)`,
		`CREATE TABLE media_item_sections (
			item_id TEXT NOT NULL REFERENCES media_items (id) ON DELETE CASCADE,
			section TEXT NOT NULL,
			PRIMARY KEY (item_id, section)
		)`,
		`CREATE INDEX media_item_sections_section ON media_item_sections (section)`,
	)
}

func downCreateMediaItems(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`DROP TABLE media_item_sections`,
		`DROP TABLE media_items`,
	)
}

func execAll(ctx context.Context, tx *sql.Tx, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
