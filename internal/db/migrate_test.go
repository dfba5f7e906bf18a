package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	err := Migrate(db)
	require.NoError(t, err)

	err = Migrate(db)
	require.NoError(t, err)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"entities", "sub_items", "entity_tags"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_entities_owner",
		"idx_entities_client",
		"idx_sub_items_entity",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk)
	require.NoError(t, err)
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestOpenDB_EveryConnectionEnforcesForeignKeys(t *testing.T) {
	db, err := OpenDB(t.TempDir() + "/board.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	// Hold several connections at once so the pool has to open new ones.
	var conns []*sql.Conn
	for range 3 {
		conn, err := db.Conn(ctx)
		require.NoError(t, err)
		conns = append(conns, conn)
	}
	for i, conn := range conns {
		var fk, busy int
		require.NoError(t, conn.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
		require.NoError(t, conn.QueryRowContext(ctx, `PRAGMA busy_timeout`).Scan(&busy))
		assert.Equal(t, 1, fk, "connection %d", i)
		assert.Equal(t, 5000, busy, "connection %d", i)
	}
	for _, conn := range conns {
		require.NoError(t, conn.Close())
	}
}

func TestMigrate_WALModeRequested(t *testing.T) {
	// In-memory SQLite reports "memory"; WAL only applies to file DBs.
	db := openTestDB(t)

	var mode string
	err := db.QueryRow(`PRAGMA journal_mode`).Scan(&mode)
	require.NoError(t, err)
	assert.Equal(t, "memory", mode)
}

func TestMigrate_FileDBUsesWAL(t *testing.T) {
	db, err := OpenDB(t.TempDir() + "/nested/board.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestMigrate_ProgressCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO entities (id, title, progress, created_at, updated_at)
		VALUES ('e1', 'Bad', 140, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err)
}

func TestMigrate_UnknownStatusAccepted(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO entities (id, title, status, created_at, updated_at)
		VALUES ('e1', 'Legacy', 'archived', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
}

func TestMigrate_SubItemsCascadeOnDelete(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO entities (id, title, created_at, updated_at)
		VALUES ('e1', 'Parent', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO sub_items (id, entity_id, name) VALUES ('s1', 'e1', 'child')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO entity_tags (entity_id, tag) VALUES ('e1', 'urgent')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM entities WHERE id = 'e1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sub_items`).Scan(&n))
	assert.Equal(t, 0, n)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM entity_tags`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestMigrate_SubItemsRequireParent(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO sub_items (id, entity_id, name) VALUES ('s1', 'missing', 'orphan')`)
	assert.Error(t, err)
}
