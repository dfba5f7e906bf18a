// Package board partitions entities into the fixed status lanes of the board view.
package board

import (
	"slices"
	"strings"

	"github.com/alexanderramin/opsboard/internal/domain"
)

// DefaultLane receives entities whose status is not a declared lane.
const DefaultLane = domain.StatusUnscheduled

// Filter narrows the entity set. Scope is applied before Text.
type Filter struct {
	// Scope matches an owner id, owner name or client name exactly (case-insensitive).
	Scope string
	// Text is a case-insensitive substring of title, owner name or client name.
	Text string
}

// Active reports whether the filter excludes anything.
func (f Filter) Active() bool {
	return strings.TrimSpace(f.Scope) != "" || strings.TrimSpace(f.Text) != ""
}

func (f Filter) inScope(e *domain.Entity) bool {
	scope := strings.TrimSpace(f.Scope)
	if scope == "" {
		return true
	}
	return strings.EqualFold(e.Owner.ID, scope) ||
		strings.EqualFold(e.Owner.Name, scope) ||
		strings.EqualFold(e.Client, scope)
}

func (f Filter) matchesText(e *domain.Entity) bool {
	q := strings.ToLower(strings.TrimSpace(f.Text))
	if q == "" {
		return true
	}
	for _, s := range []string{e.Title, e.Owner.Name, e.Client} {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

// Match reports whether e passes both filters.
func (f Filter) Match(e *domain.Entity) bool {
	return f.inScope(e) && f.matchesText(e)
}

// Apply returns the entities passing f, preserving order. The returned slice
// shares the entity pointers.
func Apply(entities []*domain.Entity, f Filter) []*domain.Entity {
	if !f.Active() {
		return slices.Clone(entities)
	}
	var scoped []*domain.Entity
	for _, e := range entities {
		if f.inScope(e) {
			scoped = append(scoped, e)
		}
	}
	var out []*domain.Entity
	for _, e := range scoped {
		if f.matchesText(e) {
			out = append(out, e)
		}
	}
	return out
}

type Lane struct {
	Status   domain.Status
	Title    string
	Entities []*domain.Entity
}

// LaneFor returns the lane status an entity is shown in.
func LaneFor(s domain.Status) domain.Status {
	if s.Valid() {
		return s
	}
	return DefaultLane
}

// Classify partitions entities into every declared lane, in lane order.
// Lanes are present even when empty; nothing is dropped.
func Classify(entities []*domain.Entity) []Lane {
	lanes := make([]Lane, len(domain.Statuses))
	index := make(map[domain.Status]int, len(domain.Statuses))
	for i, s := range domain.Statuses {
		lanes[i] = Lane{Status: s, Title: s.Label()}
		index[s] = i
	}
	for _, e := range entities {
		i := index[LaneFor(e.Status)]
		lanes[i].Entities = append(lanes[i].Entities, e)
	}
	return lanes
}

// Build filters then classifies.
func Build(entities []*domain.Entity, f Filter) []Lane {
	return Classify(Apply(entities, f))
}
