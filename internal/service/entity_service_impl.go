package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/alexanderramin/opsboard/internal/repository"
	"github.com/google/uuid"
)

type entityService struct {
	entities repository.EntityRepo
	tx       TxRunner
	observer UseCaseObserver
}

func NewEntityService(entities repository.EntityRepo, tx TxRunner, observers ...UseCaseObserver) EntityService {
	if tx == nil {
		tx = Direct(entities)
	}
	return &entityService{
		entities: entities,
		tx:       tx,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *entityService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

func (s *entityService) Create(ctx context.Context, e *domain.Entity) (err error) {
	startedAt := time.Now().UTC()
	defer func() { s.observe(ctx, "create-entity", startedAt, map[string]any{"title": e.Title}, err) }()

	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidField)
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Status == "" {
		e.Status = domain.StatusUnscheduled
	}
	for i := range e.SubItems {
		if e.SubItems[i].ID == "" {
			e.SubItems[i].ID = uuid.New().String()
		}
	}
	e.Tags = domain.NormalizeTags(e.Tags)
	e.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	if err := e.Validate(); err != nil {
		return fmt.Errorf("creating entity: %w", err)
	}
	return s.tx(ctx, func(ctx context.Context, repo repository.EntityRepo) error {
		return repo.Create(ctx, e)
	})
}

func (s *entityService) GetByID(ctx context.Context, id string) (*domain.Entity, error) {
	return s.entities.GetByID(ctx, id)
}

func (s *entityService) List(ctx context.Context, scope string) ([]*domain.Entity, error) {
	return s.entities.List(ctx, scope)
}

func (s *entityService) Patch(ctx context.Context, id string, p domain.Patch) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"entity_id": id, "fields": len(p)}
	defer func() { s.observe(ctx, "patch-entity", startedAt, fields, err) }()

	if _, ok := p[domain.FieldUpdatedAt]; ok {
		return fmt.Errorf("%w: %s is maintained by the store", domain.ErrInvalidField, domain.FieldUpdatedAt)
	}
	if len(p) == 0 {
		return nil
	}
	return s.tx(ctx, func(ctx context.Context, repo repository.EntityRepo) error {
		return repo.Patch(ctx, id, p)
	})
}

func (s *entityService) Move(ctx context.Context, id string, status domain.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidField, status)
	}
	return s.Patch(ctx, id, domain.Patch{domain.FieldStatus: status})
}

func (s *entityService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	defer func() { s.observe(ctx, "delete-entity", startedAt, map[string]any{"entity_id": id}, err) }()

	return s.tx(ctx, func(ctx context.Context, repo repository.EntityRepo) error {
		return repo.Delete(ctx, id)
	})
}
