package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/google/uuid"
)

// Convert transforms a validated ImportSchema into entities ready for
// persistence. Call ValidateImportSchema first; Convert assumes the schema
// is valid. Entities get fresh ids; sort order is left zero so the store
// appends them in file order.
func Convert(schema *ImportSchema) ([]*domain.Entity, error) {
	now := time.Now().UTC().Truncate(time.Second)
	defaults := schema.Defaults
	if defaults == nil {
		defaults = &DefaultsImport{}
	}

	entities := make([]*domain.Entity, 0, len(schema.Entities))
	for i, in := range schema.Entities {
		start, err := parseOptionalDate(in.StartDate)
		if err != nil {
			return nil, fmt.Errorf("entities[%d]: parsing start_date: %w", i, err)
		}
		end, err := parseOptionalDate(in.EndDate)
		if err != nil {
			return nil, fmt.Errorf("entities[%d]: parsing end_date: %w", i, err)
		}

		status := in.Status
		if status == "" {
			status = defaults.Status
		}
		if status == "" {
			status = string(domain.StatusUnscheduled)
		}

		owner := in.Owner
		if owner == nil {
			owner = defaults.Owner
		}
		client := in.Client
		if client == "" {
			client = defaults.Client
		}

		e := &domain.Entity{
			ID:        uuid.New().String(),
			Title:     strings.TrimSpace(in.Title),
			StartDate: start,
			EndDate:   end,
			Status:    domain.ParseStatus(status),
			Client:    client,
			Tags:      domain.NormalizeTags(append(append([]string{}, defaults.Tags...), in.Tags...)),
			UpdatedAt: now,
		}
		if owner != nil {
			e.Owner = domain.Owner{ID: owner.ID, Name: owner.Name}
		}
		if in.Progress != nil {
			e.Progress = *in.Progress
		}
		for _, s := range in.SubItems {
			e.SubItems = append(e.SubItems, domain.SubItem{
				ID:        uuid.New().String(),
				Name:      strings.TrimSpace(s.Name),
				Completed: s.Completed,
				Kind:      s.Kind,
			})
		}
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("entities[%d] %q: %w", i, e.Title, err)
		}
		entities = append(entities, e)
	}
	return entities, nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	return domain.ParseOptionalDate(*s)
}
