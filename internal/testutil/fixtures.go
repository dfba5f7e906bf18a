package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/google/uuid"
)

var testSortCounter atomic.Int64

// Entity options
type EntityOption func(*domain.Entity)

func WithID(id string) EntityOption {
	return func(e *domain.Entity) {
		e.ID = id
	}
}

func WithStatus(s domain.Status) EntityOption {
	return func(e *domain.Entity) {
		e.Status = s
	}
}

// WithDates sets the range from YYYY-MM-DD strings; an empty end leaves it unset.
func WithDates(start, end string) EntityOption {
	return func(e *domain.Entity) {
		e.StartDate = mustDate(start)
		e.EndDate = mustDate(end)
	}
}

func WithOwner(id, name string) EntityOption {
	return func(e *domain.Entity) {
		e.Owner = domain.Owner{ID: id, Name: name}
	}
}

func WithClient(name string) EntityOption {
	return func(e *domain.Entity) {
		e.Client = name
	}
}

func WithProgress(p float64) EntityOption {
	return func(e *domain.Entity) {
		e.Progress = p
	}
}

func WithTags(tags ...string) EntityOption {
	return func(e *domain.Entity) {
		e.Tags = domain.NormalizeTags(tags)
	}
}

func WithSortOrder(n int) EntityOption {
	return func(e *domain.Entity) {
		e.SortOrder = n
	}
}

// WithSubItems adds sub-items named after names; a leading "x " marks one completed.
func WithSubItems(names ...string) EntityOption {
	return func(e *domain.Entity) {
		for i, n := range names {
			done := len(n) > 2 && n[:2] == "x "
			if done {
				n = n[2:]
			}
			e.SubItems = append(e.SubItems, domain.SubItem{
				ID:        fmt.Sprintf("%s-s%d", e.ID, i+1),
				Name:      n,
				Completed: done,
				Kind:      "task",
			})
		}
	}
}

func NewTestEntity(title string, opts ...EntityOption) *domain.Entity {
	e := &domain.Entity{
		ID:        uuid.New().String(),
		Title:     title,
		Status:    domain.StatusOnboarding,
		SortOrder: int(testSortCounter.Add(1)),
		UpdatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Date parses a YYYY-MM-DD test date.
func Date(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func mustDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t := Date(s)
	return &t
}
