package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradePath_LegacySchema simulates a database created before
// manual ordering and sub-item kinds existed. Verifies that rows survive,
// the new columns are added with defaults, and legacy rows get a sort order
// in creation order after any already-ordered row.
func TestMigrate_UpgradePath_LegacySchema(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	legacyStatements := []string{
		`CREATE TABLE entities (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			start_date  TEXT,
			end_date    TEXT,
			status      TEXT NOT NULL DEFAULT 'unscheduled',
			owner_id    TEXT NOT NULL DEFAULT '',
			owner_name  TEXT NOT NULL DEFAULT '',
			client      TEXT NOT NULL DEFAULT '',
			progress    REAL NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		)`,
		`CREATE TABLE sub_items (
			id          TEXT PRIMARY KEY,
			entity_id   TEXT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
			name        TEXT NOT NULL,
			completed   INTEGER NOT NULL DEFAULT 0,
			order_index INTEGER NOT NULL DEFAULT 0
		)`,
		`INSERT INTO entities (id, title, created_at, updated_at) VALUES
			('late',  'Second', '2026-02-01T00:00:00Z', '2026-02-01T00:00:00Z'),
			('early', 'First',  '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`,
		`INSERT INTO sub_items (id, entity_id, name) VALUES ('s1', 'early', 'kickoff')`,
	}
	for _, stmt := range legacyStatements {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db))

	order := map[string]int{}
	rows, err := db.Query(`SELECT id, sort_order FROM entities`)
	require.NoError(t, err)
	for rows.Next() {
		var id string
		var n int
		require.NoError(t, rows.Scan(&id, &n))
		order[id] = n
	}
	require.NoError(t, rows.Close())
	assert.Equal(t, map[string]int{"early": 1, "late": 2}, order)

	var kind string
	require.NoError(t, db.QueryRow(`SELECT kind FROM sub_items WHERE id = 's1'`).Scan(&kind))
	assert.Equal(t, "", kind)

	var tagsTable string
	require.NoError(t, db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='entity_tags'`).Scan(&tagsTable))

	// Re-running leaves the backfilled order alone.
	require.NoError(t, Migrate(db))
	var early int
	require.NoError(t, db.QueryRow(`SELECT sort_order FROM entities WHERE id = 'early'`).Scan(&early))
	assert.Equal(t, 1, early)
}
