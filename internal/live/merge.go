package live

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/alexanderramin/opsboard/internal/domain"
)

// Snapshot is one refresh pushed by the remote store. A Full snapshot is the
// entire collection, so any known id missing from it was deleted remotely.
// A partial snapshot only upserts, plus the ids listed in Deleted.
type Snapshot struct {
	Entities []domain.Entity
	Full     bool
	Deleted  []string
}

// MergeResult reports what a snapshot did to the collection.
type MergeResult struct {
	Added      []string
	Updated    []string
	Removed    []string
	Deferred   []string
	Tombstoned []string

	// DetailChanged is true only when a field shown by the detail view
	// changed on the selected entity.
	DetailChanged bool

	detailID string
}

// Changed reports whether the collection changed in any visible way.
func (r MergeResult) Changed() bool {
	return len(r.Added)+len(r.Updated)+len(r.Removed)+len(r.Tombstoned) > 0 || r.DetailChanged
}

func (r *MergeResult) merge(o MergeResult) {
	r.Added = append(r.Added, o.Added...)
	r.Updated = append(r.Updated, o.Updated...)
	r.Removed = append(r.Removed, o.Removed...)
	r.Deferred = append(r.Deferred, o.Deferred...)
	r.Tombstoned = append(r.Tombstoned, o.Tombstoned...)
	r.DetailChanged = r.DetailChanged || o.DetailChanged
	if o.detailID != "" {
		r.detailID = o.detailID
	}
}

// queuedRemote holds remote data for a pending id until its writes resolve.
type queuedRemote struct {
	values  domain.Patch
	deleted bool
}

// core is the state shared by the merge controller and the mutation gateway.
// Every read and write of coll, view, queued and inflight holds mu.
type core struct {
	mu       sync.Mutex
	coll     *Collection
	view     *ViewState
	queued   map[string]*queuedRemote
	inflight map[string][]*op

	events   *emitter
	observer Observer
	now      func() time.Time
}

func newCore(view *ViewState, observer Observer, now func() time.Time) *core {
	if observer == nil {
		observer = NoopObserver{}
	}
	if now == nil {
		now = time.Now
	}
	return &core{
		coll:     NewCollection(),
		view:     view,
		queued:   make(map[string]*queuedRemote),
		inflight: make(map[string][]*op),
		events:   newEmitter(),
		observer: observer,
		now:      now,
	}
}

// pendingFields returns the fields with an outstanding write for id.
func (c *core) pendingFields(id string) map[domain.Field]bool {
	ops := c.inflight[id]
	if len(ops) == 0 {
		return nil
	}
	out := make(map[domain.Field]bool, len(ops))
	for _, o := range ops {
		out[o.field] = true
	}
	return out
}

func (c *core) queue(id string) *queuedRemote {
	q, ok := c.queued[id]
	if !ok {
		q = &queuedRemote{values: domain.Patch{}}
		c.queued[id] = q
	}
	return q
}

// MergeController folds remote snapshots into the collection.
type MergeController struct {
	c *core
}

// Apply merges s into the collection.
func (m *MergeController) Apply(s Snapshot) MergeResult {
	m.c.mu.Lock()
	res := m.c.applySnapshot(s)
	m.c.mu.Unlock()
	m.c.publishMerge(res)
	return res
}

func (c *core) applySnapshot(s Snapshot) MergeResult {
	var res MergeResult
	seen := make(map[string]bool, len(s.Entities))

	for i := range s.Entities {
		in := s.Entities[i].Clone()
		in.Deleted = false
		if in.ID == "" || seen[in.ID] {
			continue
		}
		seen[in.ID] = true
		c.upsert(in, &res)
	}

	var gone []string
	if s.Full {
		for _, id := range c.coll.IDs() {
			if !seen[id] {
				gone = append(gone, id)
			}
		}
	}
	for _, id := range s.Deleted {
		if !seen[id] && !slices.Contains(gone, id) {
			gone = append(gone, id)
		}
	}
	for _, id := range gone {
		c.remove(id, &res)
	}
	if res.DetailChanged {
		res.detailID = c.view.SelectedID
	}
	return res
}

func (c *core) upsert(in *domain.Entity, res *MergeResult) {
	cur := c.coll.Get(in.ID)
	if cur == nil {
		c.coll.Add(in)
		res.Added = append(res.Added, in.ID)
		return
	}

	changed := false
	if cur.Deleted {
		// reappeared while held open as a tombstone
		cur.Deleted = false
		changed = true
		if in.ID == c.view.SelectedID {
			res.DetailChanged = true
		}
	}

	pending := c.pendingFields(in.ID)
	if q := c.queued[in.ID]; q != nil {
		q.deleted = false
	}

	for _, f := range domain.AllFields {
		if pending[f] {
			// The latest remote value wins once the local writes resolve.
			c.queue(in.ID).values[f] = in.Get(f)
			continue
		}
		if domain.ValuesEqual(f, cur.Get(f), in.Get(f)) {
			continue
		}
		_ = cur.Restore(f, in.Get(f))
		changed = true
		if f == domain.FieldSortOrder {
			c.coll.Touch()
		}
		if in.ID == c.view.SelectedID && domain.DetailFields[f] {
			res.DetailChanged = true
		}
	}
	if len(pending) > 0 {
		res.Deferred = append(res.Deferred, in.ID)
	}
	if changed {
		res.Updated = append(res.Updated, in.ID)
	}
}

func (c *core) remove(id string, res *MergeResult) {
	cur := c.coll.Get(id)
	if cur == nil {
		return
	}
	if len(c.inflight[id]) > 0 {
		q := c.queue(id)
		q.deleted = true
		q.values = domain.Patch{}
		res.Deferred = append(res.Deferred, id)
		return
	}
	if id == c.view.SelectedID {
		if !cur.Deleted {
			cur.Deleted = true
			res.Tombstoned = append(res.Tombstoned, id)
			res.DetailChanged = true
		}
		return
	}
	c.coll.Remove(id)
	delete(c.queued, id)
	if c.view.HoveredID == id {
		c.view.HoveredID = ""
	}
	res.Removed = append(res.Removed, id)
}

// flushQueued applies the remote data held back for id. It runs once the
// last outstanding write for id resolves and consumes the queue entry, so
// queued data is applied exactly once.
func (c *core) flushQueued(id string) MergeResult {
	var res MergeResult
	q, ok := c.queued[id]
	if !ok {
		return res
	}
	delete(c.queued, id)

	if q.deleted {
		c.remove(id, &res)
		if res.DetailChanged {
			res.detailID = id
		}
		return res
	}
	cur := c.coll.Get(id)
	if cur == nil {
		return res
	}
	changed := false
	for _, f := range q.values.Fields() {
		v := q.values[f]
		if domain.ValuesEqual(f, cur.Get(f), v) {
			continue
		}
		_ = cur.Restore(f, v)
		changed = true
		if f == domain.FieldSortOrder {
			c.coll.Touch()
		}
		if id == c.view.SelectedID && domain.DetailFields[f] {
			res.DetailChanged = true
		}
	}
	if changed {
		res.Updated = append(res.Updated, id)
	}
	if res.DetailChanged {
		res.detailID = id
	}
	return res
}

// pruneTombstone drops id if it is a tombstone no longer held by the view.
func (c *core) pruneTombstone(id string) bool {
	cur := c.coll.Get(id)
	if cur == nil || !cur.Deleted || id == c.view.SelectedID {
		return false
	}
	c.coll.Remove(id)
	if c.view.HoveredID == id {
		c.view.HoveredID = ""
	}
	return true
}

func (c *core) publish(evs ...Event) {
	for _, ev := range evs {
		c.observer.ObserveEvent(context.Background(), ev)
		c.events.emit(ev)
	}
}

func (c *core) publishMerge(res MergeResult) {
	if res.Changed() {
		c.publish(Event{Kind: EventCollectionChanged})
	}
	if res.DetailChanged {
		c.publish(Event{Kind: EventDetailChanged, EntityID: res.detailID})
	}
}
