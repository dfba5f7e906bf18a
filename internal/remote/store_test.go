package remote

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/alexanderramin/opsboard/internal/live"
	"github.com/alexanderramin/opsboard/internal/repository"
	"github.com/alexanderramin/opsboard/internal/service"
	"github.com/alexanderramin/opsboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *repository.SQLiteEntityRepo, *Bus) {
	t.Helper()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteEntityRepo(database)
	svc := service.NewEntityService(repo, service.SQLiteTx(testutil.NewTestUoW(database)))
	bus := NewBus()
	return NewStore(svc, bus), repo, bus
}

func TestStore_FetchAllScopes(t *testing.T) {
	store, repo, _ := newTestStore(t)
	ctx := context.Background()

	a := testutil.NewTestEntity("Alpha", testutil.WithClient("Acme"), testutil.WithSubItems("one"))
	b := testutil.NewTestEntity("Beta", testutil.WithOwner("u1", "Dana"))
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	all, err := store.FetchAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := store.FetchAll(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, b.ID, scoped[0].ID)
}

func TestStore_WritesPublish(t *testing.T) {
	store, repo, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig, err := store.Subscribe(ctx)
	require.NoError(t, err)

	e := testutil.NewTestEntity("Alpha")
	require.NoError(t, store.Insert(ctx, e))
	expectSignal(t, sig)

	require.NoError(t, store.Write(ctx, e.ID, domain.Patch{domain.FieldStatus: domain.StatusReview}))
	expectSignal(t, sig)

	fetched, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReview, fetched.Status)

	require.NoError(t, store.Delete(ctx, e.ID))
	expectSignal(t, sig)
}

func TestStore_MissingEntityMapsToNotFound(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	err := store.Write(ctx, "missing", domain.Patch{domain.FieldTitle: "x"})
	assert.ErrorIs(t, err, live.ErrNotFound)
	assert.ErrorIs(t, err, repository.ErrEntityNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "missing"), live.ErrNotFound)
}

func TestBus_CoalescesAndDrops(t *testing.T) {
	bus := NewBus()
	ctx, cancel := context.WithCancel(context.Background())

	sig, err := bus.Watch(ctx)
	require.NoError(t, err)
	bus.Publish()
	bus.Publish()
	expectSignal(t, sig)
	select {
	case <-sig:
		t.Fatal("signals should coalesce")
	default:
	}

	bus.Drop()
	_, open := <-sig
	assert.False(t, open)
	assert.Zero(t, bus.Subscribers())

	other, err := bus.Watch(ctx)
	require.NoError(t, err)
	cancel()
	require.Eventually(t, func() bool { return bus.Subscribers() == 0 }, time.Second, time.Millisecond)
	_, open = <-other
	assert.False(t, open)
}

// Two engines over one store: an edit in one shows up in the other through
// the bus signal and refetch.
func TestStore_EnginesShareChanges(t *testing.T) {
	store, repo, bus := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := testutil.NewTestEntity("Alpha", testutil.WithDates("2026-03-02", "2026-03-06"))
	require.NoError(t, repo.Create(ctx, a))

	newEngine := func() *live.Engine {
		e := live.NewEngine(live.Options{
			Remote:   store,
			Debounce: 5 * time.Millisecond,
			Backoff:  live.Backoff{Min: time.Millisecond, Max: 5 * time.Millisecond},
		})
		require.NoError(t, e.Load(ctx))
		go func() { _ = e.Run(ctx) }()
		t.Cleanup(e.Wait)
		return e
	}
	editor, viewer := newEngine(), newEngine()
	require.Eventually(t, func() bool { return bus.Subscribers() == 2 }, time.Second, time.Millisecond)

	ticket, err := editor.DragToLane(ctx, a.ID, domain.StatusInProgress)
	require.NoError(t, err)
	require.NoError(t, ticket.Wait(ctx))
	assert.Equal(t, live.StateCommitted, ticket.State())

	require.Eventually(t, func() bool {
		got, ok := viewer.Get(a.ID)
		return ok && got.Status == domain.StatusInProgress
	}, time.Second, 2*time.Millisecond)

	lane := viewer.Board()
	require.Len(t, lane.Lane(domain.StatusInProgress).Cards, 1)
}

func expectSignal(t *testing.T, sig <-chan struct{}) {
	t.Helper()
	select {
	case _, ok := <-sig:
		require.True(t, ok, "subscription closed unexpectedly")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change signal")
	}
}
