package domain

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusUnscheduled Status = "unscheduled"
	StatusOnboarding  Status = "onboarding"
	StatusInProgress  Status = "in_progress"
	StatusReview      Status = "review"
	StatusCompleted   Status = "completed"
)

// Statuses is the closed status set in board lane order.
var Statuses = []Status{
	StatusUnscheduled,
	StatusOnboarding,
	StatusInProgress,
	StatusReview,
	StatusCompleted,
}

var statusLabels = map[Status]string{
	StatusUnscheduled: "Unscheduled",
	StatusOnboarding:  "Onboarding",
	StatusInProgress:  "In Progress",
	StatusReview:      "Review",
	StatusCompleted:   "Completed",
}

// Valid reports whether s is one of the declared statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the human-readable lane title. Unknown statuses echo the raw value.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// ParseStatus normalizes spellings such as "In Progress" or "in-progress".
// Values that do not match a declared status are returned unchanged so the
// caller can still display them in the default lane.
func ParseStatus(raw string) Status {
	norm := strings.ToLower(strings.TrimSpace(raw))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	if s := Status(norm); s.Valid() {
		return s
	}
	return Status(raw)
}

type ZoomMode string

const (
	ZoomWeek    ZoomMode = "week"
	ZoomMonth   ZoomMode = "month"
	ZoomQuarter ZoomMode = "quarter"
)

// ZoomModes lists the zoom modes from finest to coarsest.
var ZoomModes = []ZoomMode{ZoomWeek, ZoomMonth, ZoomQuarter}

func ParseZoomMode(s string) (ZoomMode, error) {
	switch ZoomMode(strings.ToLower(strings.TrimSpace(s))) {
	case ZoomWeek:
		return ZoomWeek, nil
	case ZoomMonth:
		return ZoomMonth, nil
	case ZoomQuarter:
		return ZoomQuarter, nil
	}
	return "", fmt.Errorf("invalid zoom mode %q (expected week, month or quarter)", s)
}

// Field names a mutable attribute of an Entity.
type Field string

const (
	FieldTitle     Field = "title"
	FieldStartDate Field = "start_date"
	FieldEndDate   Field = "end_date"
	FieldStatus    Field = "status"
	FieldOwner     Field = "owner"
	FieldClient    Field = "client"
	FieldProgress  Field = "progress"
	FieldTags      Field = "tags"
	FieldSubItems  Field = "sub_items"
	FieldSortOrder Field = "sort_order"
	FieldUpdatedAt Field = "updated_at"
)

// AllFields is the canonical field order used by Diff.
var AllFields = []Field{
	FieldTitle,
	FieldStartDate,
	FieldEndDate,
	FieldStatus,
	FieldOwner,
	FieldClient,
	FieldProgress,
	FieldTags,
	FieldSubItems,
	FieldSortOrder,
	FieldUpdatedAt,
}

// DetailFields are the fields rendered by the entity detail view.
// SortOrder and UpdatedAt are bookkeeping and never displayed there.
var DetailFields = map[Field]bool{
	FieldTitle:     true,
	FieldStartDate: true,
	FieldEndDate:   true,
	FieldStatus:    true,
	FieldOwner:     true,
	FieldClient:    true,
	FieldProgress:  true,
	FieldTags:      true,
	FieldSubItems:  true,
}

func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllFields {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidField, s)
}
