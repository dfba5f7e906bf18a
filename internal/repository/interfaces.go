package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/opsboard/internal/domain"
)

// ErrEntityNotFound is returned when no entity has the requested id.
var ErrEntityNotFound = errors.New("entity not found")

// EntityRepo persists entities together with their sub-items and tags.
type EntityRepo interface {
	Create(ctx context.Context, e *domain.Entity) error
	GetByID(ctx context.Context, id string) (*domain.Entity, error)
	// List returns entities in board order. A non-empty scope keeps only
	// entities whose owner id, owner name or client equals it, ignoring case.
	List(ctx context.Context, scope string) ([]*domain.Entity, error)
	// Patch writes only the fields in p and bumps updated_at.
	Patch(ctx context.Context, id string, p domain.Patch) error
	Delete(ctx context.Context, id string) error
}
