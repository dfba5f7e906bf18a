package service

import (
	"context"

	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/alexanderramin/opsboard/internal/importer"
)

type EntityService interface {
	Create(ctx context.Context, e *domain.Entity) error
	GetByID(ctx context.Context, id string) (*domain.Entity, error)
	List(ctx context.Context, scope string) ([]*domain.Entity, error)
	Patch(ctx context.Context, id string, p domain.Patch) error
	Move(ctx context.Context, id string, status domain.Status) error
	Delete(ctx context.Context, id string) error
}

type ImportService interface {
	ImportFile(ctx context.Context, path string) (*ImportResult, error)
	ImportSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}

// ImportResult reports what an import created.
type ImportResult struct {
	Entities       []*domain.Entity
	SubItemCount   int
	ScheduledCount int
}
