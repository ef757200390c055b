package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateNotifications, downCreateNotifications)
}

func upCreateNotifications(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`CREATE TABLE notifications (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			body       TEXT NOT NULL DEFAULT '',
			image      TEXT NOT NULL DEFAULT '',
			updated_at BIGINT NOT NULL
		)`,
	)
}

func downCreateNotifications(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, `DROP TABLE notifications`)
}
