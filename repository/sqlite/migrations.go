package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		sql: `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL,
			created_at  TEXT NOT NULL,
			position    INTEGER NOT NULL DEFAULT 0,
			is_active   INTEGER NOT NULL DEFAULT 1
		);
		CREATE INDEX IF NOT EXISTS idx_tasks_position ON tasks (position);

		INSERT INTO schema_version (version) VALUES (1);
		`,
	},
	{
		version: 2,
		sql: `
		CREATE TABLE IF NOT EXISTS daily_task_completions (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id         INTEGER NOT NULL REFERENCES tasks (id),
			task_name       TEXT NOT NULL,
			completed_date  TEXT NOT NULL,
			footnote        TEXT DEFAULT NULL,
			UNIQUE (task_id, completed_date)
		);
		CREATE INDEX IF NOT EXISTS idx_completions_date ON daily_task_completions (completed_date);

		INSERT INTO schema_version (version) VALUES (2);
		`,
	},
}

// migrate applies every migration newer than the recorded schema version.
func migrate(ctx context.Context, db *sqlx.DB) error {
	currentVersion := 0

	var tableCount int
	err := db.GetContext(ctx, &tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'")
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}
	if tableCount > 0 {
		if err := db.GetContext(ctx, &currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := db.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}
	return nil
}
