package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillOrigin(db); err != nil {
		return fmt.Errorf("backfilling block origin: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS time_blocks (
		id              TEXT PRIMARY KEY,
		title           TEXT NOT NULL,
		date            TEXT NOT NULL DEFAULT '',
		start_time      INTEGER NOT NULL
		                CHECK(start_time = -1 OR (start_time >= 0 AND start_time < 1440)),
		duration        INTEGER NOT NULL CHECK(duration > 0),
		column_kind     TEXT NOT NULL
		                CHECK(column_kind IN ('plan','actual','device_log')),
		status          TEXT NOT NULL DEFAULT 'todo'
		                CHECK(status IN ('todo','completed','failed')),
		description     TEXT NOT NULL DEFAULT '',
		color           TEXT NOT NULL DEFAULT '',
		origin          TEXT NOT NULL DEFAULT '',
		goal_id         TEXT NOT NULL DEFAULT '',
		milestone_id    TEXT NOT NULL DEFAULT '',
		related_plan_id TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_time_blocks_date ON time_blocks(date, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_time_blocks_related ON time_blocks(related_plan_id) WHERE related_plan_id != ''`,
	`CREATE TABLE IF NOT EXISTS goals (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		unit_name  TEXT NOT NULL DEFAULT '',
		color      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS milestones (
		id          TEXT PRIMARY KEY,
		goal_id     TEXT NOT NULL REFERENCES goals(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		unit_name   TEXT NOT NULL DEFAULT '',
		total_units INTEGER NOT NULL DEFAULT 0,
		order_index INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_milestones_goal ON milestones(goal_id)`,
	`CREATE TABLE IF NOT EXISTS day_templates (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_day_templates_name ON day_templates(name)`,
	`CREATE TABLE IF NOT EXISTS template_blocks (
		template_id  TEXT NOT NULL REFERENCES day_templates(id) ON DELETE CASCADE,
		position     INTEGER NOT NULL,
		title        TEXT NOT NULL,
		start_time   INTEGER NOT NULL,
		duration     INTEGER NOT NULL CHECK(duration > 0),
		column_kind  TEXT NOT NULL DEFAULT 'plan',
		description  TEXT NOT NULL DEFAULT '',
		color        TEXT NOT NULL DEFAULT '',
		origin       TEXT NOT NULL DEFAULT '',
		goal_id      TEXT NOT NULL DEFAULT '',
		milestone_id TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (template_id, position)
	)`,
	// Device capture, value tagging and priority arrived after the first
	// release.
	`ALTER TABLE time_blocks ADD COLUMN device_source TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE time_blocks ADD COLUMN time_value TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE time_blocks ADD COLUMN priority TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE template_blocks ADD COLUMN time_value TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE template_blocks ADD COLUMN priority TEXT NOT NULL DEFAULT ''`,
}

// migrateBackfillOrigin stamps provenance on rows written before origin was
// tracked: anything carrying a goal came from a goal drop, the rest from the
// user. Idempotent.
func migrateBackfillOrigin(db *sql.DB) error {
	ctx := context.Background()
	if _, err := db.ExecContext(ctx,
		`UPDATE time_blocks SET origin = 'goal' WHERE origin = '' AND goal_id != ''`); err != nil {
		return fmt.Errorf("backfilling goal origin: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`UPDATE time_blocks SET origin = 'user' WHERE origin = ''`); err != nil {
		return fmt.Errorf("backfilling user origin: %w", err)
	}
	return nil
}
