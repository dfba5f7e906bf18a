package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/opsboard/internal/domain"
)

// ValidateImportSchema checks the seed document before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateDefaults(schema.Defaults)...)

	if len(schema.Entities) == 0 {
		errs = append(errs, fmt.Errorf("entities: at least one entity is required"))
	}

	refs := make(map[string]bool)
	for i, e := range schema.Entities {
		errs = append(errs, validateEntity(fmt.Sprintf("entities[%d]", i), &e, refs)...)
	}
	return errs
}

func validateDefaults(d *DefaultsImport) []error {
	if d == nil {
		return nil
	}
	var errs []error
	if d.Status != "" && !domain.ParseStatus(d.Status).Valid() {
		errs = append(errs, fmt.Errorf("defaults.status: invalid value %q", d.Status))
	}
	if d.Owner != nil && d.Owner.ID == "" {
		errs = append(errs, fmt.Errorf("defaults.owner.id is required"))
	}
	return errs
}

func validateEntity(prefix string, e *EntityImport, refs map[string]bool) []error {
	var errs []error

	if e.Ref != "" {
		if refs[e.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, e.Ref))
		}
		refs[e.Ref] = true
	}

	if strings.TrimSpace(e.Title) == "" {
		errs = append(errs, fmt.Errorf("%s.title is required", prefix))
	}
	// Unknown statuses are accepted from the live store, but a seed file is
	// hand-written, so reject typos here.
	if e.Status != "" && !domain.ParseStatus(e.Status).Valid() {
		errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, e.Status))
	}
	if e.Owner != nil && e.Owner.ID == "" {
		errs = append(errs, fmt.Errorf("%s.owner.id is required", prefix))
	}
	if e.Progress != nil && !domain.ValidProgress(*e.Progress) {
		errs = append(errs, fmt.Errorf("%s.progress: %v out of range 0-100", prefix, *e.Progress))
	}

	startErrs := validateOptionalDate(prefix+".start_date", e.StartDate)
	endErrs := validateOptionalDate(prefix+".end_date", e.EndDate)
	errs = append(errs, startErrs...)
	errs = append(errs, endErrs...)
	if len(startErrs) == 0 && len(endErrs) == 0 && e.StartDate != nil && e.EndDate != nil {
		start, _ := domain.ParseOptionalDate(*e.StartDate)
		end, _ := domain.ParseOptionalDate(*e.EndDate)
		if start != nil && end != nil && end.Before(*start) {
			errs = append(errs, fmt.Errorf("%s.end_date %q must not be before start_date %q", prefix, *e.EndDate, *e.StartDate))
		}
	}

	for j, s := range e.SubItems {
		if strings.TrimSpace(s.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.sub_items[%d].name is required", prefix, j))
		}
	}
	return errs
}

func validateOptionalDate(field string, s *string) []error {
	if s == nil || *s == "" {
		return nil
	}
	if _, err := domain.ParseDate(*s); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, *s)}
	}
	return nil
}
