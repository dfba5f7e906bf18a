package domain

import (
	"math"
	"slices"
	"sort"
	"strings"
	"time"
)

type SubItem struct {
	ID        string
	Name      string
	Completed bool
	Kind      string
}

// Owner is a reference to the person responsible for an entity.
type Owner struct {
	ID   string
	Name string
}

// Entity is a schedulable project or task.
type Entity struct {
	ID        string
	Title     string
	StartDate *time.Time
	EndDate   *time.Time
	Status    Status
	Owner     Owner
	Client    string
	Progress  float64
	SubItems  []SubItem
	Tags      []string
	SortOrder int
	UpdatedAt time.Time

	// Deleted is set when the remote store no longer has the record but it
	// is still held open for the detail view. Never persisted.
	Deleted bool
}

// Range returns the entity's date range for time-axis placement.
// A missing end date equals the start date. ok is false when the entity is
// unscheduled: no start date, or an end date before the start date.
func (e *Entity) Range() (start, end time.Time, ok bool) {
	if e.StartDate == nil {
		return time.Time{}, time.Time{}, false
	}
	start = *e.StartDate
	end = start
	if e.EndDate != nil {
		end = *e.EndDate
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// Scheduled reports whether the entity can be placed on the time axis.
func (e *Entity) Scheduled() bool {
	_, _, ok := e.Range()
	return ok
}

// EffectiveProgress derives progress from sub-items when any exist,
// otherwise it is the stored value clamped to 0-100.
func (e *Entity) EffectiveProgress() float64 {
	if done, total := e.SubItemCounts(); total > 0 {
		return float64(done) / float64(total) * 100
	}
	switch {
	case math.IsNaN(e.Progress) || e.Progress < 0:
		return 0
	case e.Progress > 100:
		return 100
	}
	return e.Progress
}

// SubItemCounts returns how many sub-items are completed out of the total.
func (e *Entity) SubItemCounts() (done, total int) {
	for _, s := range e.SubItems {
		if s.Completed {
			done++
		}
	}
	return done, len(e.SubItems)
}

// HasTag reports whether the entity carries tag, case-insensitively.
func (e *Entity) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (e *Entity) Clone() *Entity {
	c := *e
	c.StartDate = cloneTime(e.StartDate)
	c.EndDate = cloneTime(e.EndDate)
	c.SubItems = slices.Clone(e.SubItems)
	c.Tags = slices.Clone(e.Tags)
	return &c
}

// Validate checks the invariants a stored entity must hold.
func (e *Entity) Validate() error {
	if e.StartDate != nil && e.EndDate != nil && e.EndDate.Before(*e.StartDate) {
		return ErrInvalidDateRange
	}
	if !ValidProgress(e.Progress) {
		return ErrInvalidProgress
	}
	return nil
}

// ValidProgress reports whether p is a finite percentage in [0,100].
func ValidProgress(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 100
}

// NormalizeTags lowercases nothing but trims, de-duplicates and sorts so
// that tag sets compare equal regardless of insertion order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
