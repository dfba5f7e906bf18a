package repository

import (
	"database/sql"
	"time"

	"github.com/alexanderramin/opsboard/internal/domain"
)

const dateLayout = domain.DateLayout

// parseNullableDate parses a stored calendar date. Returns nil if the value
// is NULL, empty, or malformed, which leaves the entity unscheduled.
func parseNullableDate(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := domain.ParseOptionalDate(s.String)
	if err != nil {
		return nil
	}
	return t
}

// nullableTimeToString converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil, otherwise returns the formatted string.
func nullableTimeToString(t *time.Time, layout string) any {
	if t == nil {
		return nil
	}
	return t.Format(layout)
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// nowUTC returns the current UTC time truncated to the second, the precision
// RFC3339 storage keeps.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// patchColumn maps a patchable scalar field to its column.
var patchColumn = map[domain.Field]string{
	domain.FieldTitle:     "title",
	domain.FieldStartDate: "start_date",
	domain.FieldEndDate:   "end_date",
	domain.FieldStatus:    "status",
	domain.FieldClient:    "client",
	domain.FieldProgress:  "progress",
	domain.FieldSortOrder: "sort_order",
}
