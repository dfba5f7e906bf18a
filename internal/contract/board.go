package contract

import (
	"time"

	"github.com/alexanderramin/opsboard/internal/domain"
)

// Card is one entity as rendered in a lane, a timeline row or a list.
type Card struct {
	ID        string
	Title     string
	Status    domain.Status
	OwnerName string
	Client    string
	Color     string
	Progress  float64
	Tags      []string

	Scheduled bool
	Selected  bool
	Hovered   bool
	Pending   bool
	ReadOnly  bool
}

type LaneView struct {
	Status domain.Status
	Title  string
	Cards  []Card
}

type BoardView struct {
	Lanes  []LaneView
	Total  int
	Scope  string
	Filter string
}

// Lane returns the lane for s, or nil.
func (b *BoardView) Lane(s domain.Status) *LaneView {
	for i := range b.Lanes {
		if b.Lanes[i].Status == s {
			return &b.Lanes[i]
		}
	}
	return nil
}

// Card returns the card for id from any lane.
func (b *BoardView) Card(id string) (Card, bool) {
	for _, l := range b.Lanes {
		for _, c := range l.Cards {
			if c.ID == id {
				return c, true
			}
		}
	}
	return Card{}, false
}

type SubItemView struct {
	ID        string
	Name      string
	Kind      string
	Completed bool
}

// DetailView is the open detail panel for the selected entity.
type DetailView struct {
	Card
	StartDate *time.Time
	EndDate   *time.Time
	SubItems  []SubItemView
	UpdatedAt time.Time

	// MutationState is "idle" or "pending".
	MutationState string
	PendingField  domain.Field
}
