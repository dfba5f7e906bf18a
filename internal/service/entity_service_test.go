package service

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/alexanderramin/opsboard/internal/repository"
	"github.com/alexanderramin/opsboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingUseCaseObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingUseCaseObserver) ObserveUseCase(_ context.Context, ev UseCaseEvent) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func setupEntityService(t *testing.T, observers ...UseCaseObserver) (EntityService, *repository.SQLiteEntityRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteEntityRepo(database)
	return NewEntityService(repo, SQLiteTx(testutil.NewTestUoW(database)), observers...), repo
}

func TestEntityService_CreateAssignsDefaults(t *testing.T) {
	svc, _ := setupEntityService(t)
	ctx := context.Background()

	e := &domain.Entity{
		Title:    "  Acme onboarding ",
		Tags:     []string{"b", "a", "b"},
		SubItems: []domain.SubItem{{Name: "kickoff"}},
	}
	require.NoError(t, svc.Create(ctx, e))
	assert.NotEmpty(t, e.ID, "UUID should be generated")
	assert.NotEmpty(t, e.SubItems[0].ID)
	assert.Equal(t, domain.StatusUnscheduled, e.Status)

	fetched, err := svc.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme onboarding", fetched.Title)
	assert.Equal(t, []string{"a", "b"}, fetched.Tags)
	require.Len(t, fetched.SubItems, 1)
}

func TestEntityService_CreateRejectsInvalid(t *testing.T) {
	svc, _ := setupEntityService(t)
	ctx := context.Background()

	err := svc.Create(ctx, &domain.Entity{Title: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidField)

	start, end := testutil.Date("2026-03-10"), testutil.Date("2026-03-01")
	err = svc.Create(ctx, &domain.Entity{Title: "Backwards", StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)

	err = svc.Create(ctx, &domain.Entity{Title: "Too much", Progress: 101})
	assert.ErrorIs(t, err, domain.ErrInvalidProgress)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestEntityService_MoveAndPatch(t *testing.T) {
	svc, repo := setupEntityService(t)
	ctx := context.Background()

	e := testutil.NewTestEntity("Alpha")
	require.NoError(t, repo.Create(ctx, e))

	require.NoError(t, svc.Move(ctx, e.ID, domain.StatusReview))
	assert.ErrorIs(t, svc.Move(ctx, e.ID, domain.Status("archived")), domain.ErrInvalidField)

	require.NoError(t, svc.Patch(ctx, e.ID, domain.Patch{domain.FieldClient: "Acme"}))
	err := svc.Patch(ctx, e.ID, domain.Patch{domain.FieldUpdatedAt: e.UpdatedAt})
	assert.ErrorIs(t, err, domain.ErrInvalidField)

	fetched, err := svc.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReview, fetched.Status)
	assert.Equal(t, "Acme", fetched.Client)
}

func TestEntityService_PatchMissing(t *testing.T) {
	svc, _ := setupEntityService(t)
	err := svc.Patch(context.Background(), "missing", domain.Patch{domain.FieldTitle: "x"})
	assert.ErrorIs(t, err, repository.ErrEntityNotFound)
}

func TestEntityService_DeleteAndScope(t *testing.T) {
	svc, repo := setupEntityService(t)
	ctx := context.Background()

	a := testutil.NewTestEntity("Alpha", testutil.WithClient("Acme"))
	b := testutil.NewTestEntity("Beta", testutil.WithClient("Globex"))
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	scoped, err := svc.List(ctx, "Globex")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, b.ID, scoped[0].ID)

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.ErrorIs(t, svc.Delete(ctx, a.ID), repository.ErrEntityNotFound)
}

func TestEntityService_ObservesUseCases(t *testing.T) {
	obs := &recordingUseCaseObserver{}
	svc, _ := setupEntityService(t, obs)
	ctx := context.Background()

	e := &domain.Entity{Title: "Alpha"}
	require.NoError(t, svc.Create(ctx, e))
	_ = svc.Delete(ctx, "missing")

	require.Len(t, obs.events, 2)
	assert.Equal(t, "create-entity", obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, "delete-entity", obs.events[1].Name)
	assert.False(t, obs.events[1].Success)
	assert.Error(t, obs.events[1].Err)
}

func TestLogUseCaseObserver_WritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf, slog.LevelInfo)
	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:    "patch-entity",
		Success: true,
		Fields:  map[string]any{"entity_id": "e1"},
	})

	out := buf.String()
	assert.Contains(t, out, "msg=service_use_case")
	assert.Contains(t, out, "use_case=patch-entity")
	assert.Contains(t, out, "entity_id=e1")

	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil, slog.LevelInfo))
}
