// Package remote implements the engine's persistence collaborator on top of
// the entity service, with change signals from an in-process bus, a SQLite
// data_version watcher or Postgres LISTEN/NOTIFY.
package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/alexanderramin/opsboard/internal/live"
	"github.com/alexanderramin/opsboard/internal/repository"
	"github.com/alexanderramin/opsboard/internal/service"
)

// Store implements live.Remote.
type Store struct {
	entities service.EntityService
	notifier Notifier
}

var _ live.Remote = (*Store)(nil)

// NewStore creates a Store. A nil notifier gets a fresh Bus.
func NewStore(entities service.EntityService, notifier Notifier) *Store {
	if notifier == nil {
		notifier = NewBus()
	}
	return &Store{entities: entities, notifier: notifier}
}

func (s *Store) FetchAll(ctx context.Context, scope string) ([]domain.Entity, error) {
	list, err := s.entities.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("fetching entities: %w", err)
	}
	out := make([]domain.Entity, 0, len(list))
	for _, e := range list {
		out = append(out, *e)
	}
	return out, nil
}

func (s *Store) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	ch, err := s.notifier.Watch(ctx)
	if err != nil {
		return nil, fmt.Errorf("subscribing to changes: %w", err)
	}
	return ch, nil
}

func (s *Store) Write(ctx context.Context, id string, patch domain.Patch) error {
	if err := s.entities.Patch(ctx, id, patch); err != nil {
		return translate(err)
	}
	s.published()
	return nil
}

func (s *Store) Insert(ctx context.Context, e *domain.Entity) error {
	if err := s.entities.Create(ctx, e); err != nil {
		return translate(err)
	}
	s.published()
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.entities.Delete(ctx, id); err != nil {
		return translate(err)
	}
	s.published()
	return nil
}

func (s *Store) published() {
	if p, ok := s.notifier.(Publisher); ok {
		p.Publish()
	}
}

func translate(err error) error {
	if errors.Is(err, repository.ErrEntityNotFound) {
		return fmt.Errorf("%w: %w", live.ErrNotFound, err)
	}
	return err
}
