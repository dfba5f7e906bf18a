package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/opsboard/internal/domain"
)

// editableFields are the fields offered by `entity set` and the edit form,
// in display order.
var editableFields = []domain.Field{
	domain.FieldTitle,
	domain.FieldStatus,
	domain.FieldStartDate,
	domain.FieldEndDate,
	domain.FieldOwner,
	domain.FieldClient,
	domain.FieldProgress,
	domain.FieldTags,
}

// parseFieldValue turns user input into the typed value Entity.Set expects.
// A blank date clears it.
func parseFieldValue(f domain.Field, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch f {
	case domain.FieldTitle:
		if raw == "" {
			return nil, fmt.Errorf("%w: title must not be empty", domain.ErrInvalidField)
		}
		return raw, nil
	case domain.FieldStartDate, domain.FieldEndDate:
		return domain.ParseOptionalDate(raw)
	case domain.FieldStatus:
		s := domain.ParseStatus(raw)
		if !s.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidField, raw)
		}
		return s, nil
	case domain.FieldOwner:
		return parseOwner(raw), nil
	case domain.FieldClient:
		return raw, nil
	case domain.FieldProgress:
		p, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: progress %q is not a number", domain.ErrInvalidField, raw)
		}
		if !domain.ValidProgress(p) {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidProgress, p)
		}
		return p, nil
	case domain.FieldTags:
		return splitTags(raw), nil
	}
	return nil, fmt.Errorf("%w: %s cannot be edited here", domain.ErrInvalidField, f)
}

// parseOwner reads "id" or "id:Display Name".
func parseOwner(raw string) domain.Owner {
	id, name, _ := strings.Cut(raw, ":")
	return domain.Owner{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name)}
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return domain.NormalizeTags(tags)
}

// formatFieldValue renders the current value in the syntax parseFieldValue
// accepts.
func formatFieldValue(e *domain.Entity, f domain.Field) string {
	switch f {
	case domain.FieldTitle:
		return e.Title
	case domain.FieldStatus:
		return string(e.Status)
	case domain.FieldStartDate:
		return domain.FormatDate(e.StartDate)
	case domain.FieldEndDate:
		return domain.FormatDate(e.EndDate)
	case domain.FieldOwner:
		if e.Owner.Name == "" {
			return e.Owner.ID
		}
		return e.Owner.ID + ":" + e.Owner.Name
	case domain.FieldClient:
		return e.Client
	case domain.FieldProgress:
		return strconv.FormatFloat(e.Progress, 'f', -1, 64)
	case domain.FieldTags:
		return strings.Join(e.Tags, ", ")
	}
	return ""
}
