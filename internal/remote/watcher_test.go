package remote

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/opsboard/internal/db"
	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/alexanderramin/opsboard/internal/repository"
	"github.com/alexanderramin/opsboard/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func TestSQLiteWatcher_SignalsCommitsFromOtherConnections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.db")
	watched, err := db.OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { watched.Close() })

	// A second handle stands in for another process.
	writer, err := db.OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { writer.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	w := NewSQLiteWatcher(watched, 5*time.Millisecond)
	sig, err := w.Watch(ctx)
	require.NoError(t, err)

	repo := repository.NewSQLiteEntityRepo(writer)
	e := testutil.NewTestEntity("Alpha")
	require.NoError(t, repo.Create(ctx, e))
	expectSignal(t, sig)

	require.NoError(t, repo.Patch(ctx, e.ID, domain.Patch{domain.FieldTitle: "Alpha v2"}))
	expectSignal(t, sig)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-sig:
			return !ok
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}

func TestPgListener_SignalsTriggerNotifications(t *testing.T) {
	dsn := os.Getenv("OPSBOARD_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("OPSBOARD_TEST_PG_DSN not set")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	repo := repository.NewPgEntityRepo(pool)
	require.NoError(t, repo.EnsureSchema(ctx))

	sig, err := NewPgListener(pool).Watch(ctx)
	require.NoError(t, err)

	e := testutil.NewTestEntity("Listened")
	require.NoError(t, repo.Create(ctx, e))
	expectSignal(t, sig)
	require.NoError(t, repo.Delete(ctx, e.ID))
	expectSignal(t, sig)
}
