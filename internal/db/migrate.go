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
	if err := migrateBackfillSortOrder(db); err != nil {
		return fmt.Errorf("backfilling sort order: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS entities (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		start_date  TEXT,
		end_date    TEXT,
		status      TEXT NOT NULL DEFAULT 'unscheduled',
		owner_id    TEXT NOT NULL DEFAULT '',
		owner_name  TEXT NOT NULL DEFAULT '',
		client      TEXT NOT NULL DEFAULT '',
		progress    REAL NOT NULL DEFAULT 0
		            CHECK(progress >= 0 AND progress <= 100),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_entities_owner ON entities(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_entities_client ON entities(client)`,

	`CREATE TABLE IF NOT EXISTS sub_items (
		id          TEXT PRIMARY KEY,
		entity_id   TEXT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		completed   INTEGER NOT NULL DEFAULT 0,
		order_index INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sub_items_entity ON sub_items(entity_id)`,

	`CREATE TABLE IF NOT EXISTS entity_tags (
		entity_id TEXT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
		tag       TEXT NOT NULL,
		PRIMARY KEY (entity_id, tag)
	)`,

	// Manual board ordering
	`ALTER TABLE entities ADD COLUMN sort_order INTEGER NOT NULL DEFAULT 0`,

	// Sub-item kinds (task, milestone, document, ...)
	`ALTER TABLE sub_items ADD COLUMN kind TEXT NOT NULL DEFAULT ''`,
}

// migrateBackfillSortOrder gives entities created before manual ordering
// existed a sort order following their creation time, appended after any
// entity that already has one. Idempotent: only rows with sort_order = 0 are
// touched.
func migrateBackfillSortOrder(db *sql.DB) error {
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting backfill transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var maxOrder int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(sort_order), 0) FROM entities`).Scan(&maxOrder); err != nil {
		return fmt.Errorf("reading max sort order: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM entities WHERE sort_order = 0 ORDER BY created_at, id`)
	if err != nil {
		return fmt.Errorf("listing unordered entities: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scanning entity id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating entities: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	for i, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`UPDATE entities SET sort_order = ? WHERE id = ?`, maxOrder+i+1, id); err != nil {
			return fmt.Errorf("setting sort order for %s: %w", id, err)
		}
	}
	return tx.Commit()
}
