package live

import (
	"context"
	"errors"

	"github.com/alexanderramin/opsboard/internal/domain"
)

// Remote is the persistence collaborator the engine is kept in sync with.
type Remote interface {
	// FetchAll loads every entity in scope (blank for all), sub-items included.
	FetchAll(ctx context.Context, scope string) ([]domain.Entity, error)

	// Subscribe returns a channel that receives a payload-free signal on any
	// change to the entity or sub-item tables. The channel is closed when
	// the subscription drops or ctx ends.
	Subscribe(ctx context.Context) (<-chan struct{}, error)

	Write(ctx context.Context, id string, patch domain.Patch) error
	Insert(ctx context.Context, e *domain.Entity) error
	Delete(ctx context.Context, id string) error
}

var (
	// ErrNotFound indicates the id is not in the collection.
	ErrNotFound = errors.New("entity not found")

	// ErrReadOnly indicates the entity was deleted remotely and is only held
	// open for the detail view.
	ErrReadOnly = errors.New("entity is read-only")

	// ErrWriteTimeout indicates a remote write got no acknowledgement in time.
	ErrWriteTimeout = errors.New("remote write timed out")
)
