package live

import (
	"time"

	"github.com/alexanderramin/opsboard/internal/board"
	"github.com/alexanderramin/opsboard/internal/domain"
)

// PendingMutation is the live rollback snapshot for one entity: the value to
// restore if every outstanding write for it fails.
type PendingMutation struct {
	Field         domain.Field
	PreviousValue any
	SubmittedAt   time.Time
}

// ViewState is the per-view state for the lifetime of an open board.
// SelectedID and HoveredID are lookup keys into the Collection, never owning
// references.
type ViewState struct {
	Anchor     time.Time
	Zoom       domain.ZoomMode
	SelectedID string
	HoveredID  string
	Filter     board.Filter
	Pending    map[string]*PendingMutation
}

func newViewState(anchor time.Time, zoom domain.ZoomMode, scope string) *ViewState {
	if zoom == "" {
		zoom = domain.ZoomMonth
	}
	return &ViewState{
		Anchor:  domain.DateOnly(anchor),
		Zoom:    zoom,
		Filter:  board.Filter{Scope: scope},
		Pending: make(map[string]*PendingMutation),
	}
}

// snapshot copies the state for callers outside the engine lock.
func (v *ViewState) snapshot() ViewState {
	c := *v
	c.Pending = make(map[string]*PendingMutation, len(v.Pending))
	for id, p := range v.Pending {
		cp := *p
		c.Pending[id] = &cp
	}
	return c
}
