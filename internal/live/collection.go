package live

import (
	"sort"

	"github.com/alexanderramin/opsboard/internal/domain"
)

// Collection owns the in-memory entity records, indexed by id. Records are
// patched in place for their whole lifetime so pointer identity is stable for
// every consumer that memoizes on it.
type Collection struct {
	byID  map[string]*domain.Entity
	seq   map[string]int
	next  int
	dirty bool
	order []*domain.Entity
}

func NewCollection() *Collection {
	return &Collection{
		byID: make(map[string]*domain.Entity),
		seq:  make(map[string]int),
	}
}

// Get returns the owned record or nil.
func (c *Collection) Get(id string) *domain.Entity {
	return c.byID[id]
}

// Add takes ownership of e. An existing record with the same id is patched
// instead of replaced.
func (c *Collection) Add(e *domain.Entity) *domain.Entity {
	if cur, ok := c.byID[e.ID]; ok {
		domain.CopyFields(cur, e, domain.AllFields)
		c.dirty = true
		return cur
	}
	c.byID[e.ID] = e
	c.seq[e.ID] = c.next
	c.next++
	c.dirty = true
	return e
}

// Remove drops the record. It reports whether anything was removed.
func (c *Collection) Remove(id string) bool {
	if _, ok := c.byID[id]; !ok {
		return false
	}
	delete(c.byID, id)
	delete(c.seq, id)
	c.dirty = true
	return true
}

// Touch marks the ordering stale after an in-place sort key change.
func (c *Collection) Touch() { c.dirty = true }

func (c *Collection) Len() int { return len(c.byID) }

// All returns the records ordered by SortOrder, then arrival. The slice is
// fresh; the pointers are the owned records.
func (c *Collection) All() []*domain.Entity {
	if c.dirty || len(c.order) != len(c.byID) {
		c.order = c.order[:0]
		for _, e := range c.byID {
			c.order = append(c.order, e)
		}
		sort.SliceStable(c.order, func(i, j int) bool {
			a, b := c.order[i], c.order[j]
			if a.SortOrder != b.SortOrder {
				return a.SortOrder < b.SortOrder
			}
			return c.seq[a.ID] < c.seq[b.ID]
		})
		c.dirty = false
	}
	return append([]*domain.Entity(nil), c.order...)
}

// IDs returns every id, in All order.
func (c *Collection) IDs() []string {
	all := c.All()
	ids := make([]string, len(all))
	for i, e := range all {
		ids[i] = e.ID
	}
	return ids
}
