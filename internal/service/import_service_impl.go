package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/opsboard/internal/importer"
	"github.com/alexanderramin/opsboard/internal/repository"
)

type importService struct {
	tx       TxRunner
	observer UseCaseObserver
}

// NewImportService creates an ImportService. All entities of one file are
// written in a single tx call, so a failure part way leaves nothing behind
// when tx is transactional.
func NewImportService(tx TxRunner, observers ...UseCaseObserver) ImportService {
	return &importService{tx: tx, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportFile(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportSchema(ctx, schema)
}

func (s *importService) ImportSchema(ctx context.Context, schema *importer.ImportSchema) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"entities": len(schema.Entities)}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-entities",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	entities, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	err = s.tx(ctx, func(ctx context.Context, repo repository.EntityRepo) error {
		for _, e := range entities {
			if err := repo.Create(ctx, e); err != nil {
				return fmt.Errorf("creating entity %q: %w", e.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result = &ImportResult{Entities: entities}
	for _, e := range entities {
		result.SubItemCount += len(e.SubItems)
		if e.Scheduled() {
			result.ScheduledCount++
		}
	}
	return result, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
