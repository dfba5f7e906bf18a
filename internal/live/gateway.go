package live

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/alexanderramin/opsboard/internal/domain"
)

// DefaultWriteTimeout bounds how long a remote write may go unacknowledged
// before it counts as failed.
const DefaultWriteTimeout = 10 * time.Second

type MutationState int

const (
	StateIdle MutationState = iota
	StatePending
	StateCommitted
	StateRolledBack
)

func (s MutationState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled_back"
	}
	return "idle"
}

var mutationTransitions = map[MutationState][]MutationState{
	StateIdle:       {StatePending},
	StatePending:    {StateCommitted, StateRolledBack},
	StateCommitted:  {StateIdle},
	StateRolledBack: {StateIdle},
}

// CanTransition reports whether the state machine allows s -> to.
func (s MutationState) CanTransition(to MutationState) bool {
	return slices.Contains(mutationTransitions[s], to)
}

// Ticket tracks one submitted mutation until the remote store resolves it.
type Ticket struct {
	EntityID string
	Field    domain.Field

	mu    sync.Mutex
	state MutationState
	err   error
	done  chan struct{}
}

func newTicket(id string, f domain.Field) *Ticket {
	return &Ticket{EntityID: id, Field: f, done: make(chan struct{})}
}

func (t *Ticket) transition(to MutationState, err error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.state.CanTransition(to) {
		return fmt.Errorf("mutation %s/%s: illegal transition %s -> %s", t.EntityID, t.Field, t.state, to)
	}
	t.state = to
	if to == StateCommitted || to == StateRolledBack {
		t.err = err
		close(t.done)
	}
	return nil
}

// Done is closed once the mutation is committed or rolled back.
func (t *Ticket) Done() <-chan struct{} { return t.done }

// State returns Pending until resolution, then Committed or RolledBack.
func (t *Ticket) State() MutationState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Err returns the failure that caused a rollback, or nil.
func (t *Ticket) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Wait blocks until the mutation resolves or ctx ends.
func (t *Ticket) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// op is one optimistic write. prev is the value restored if this write
// fails and no later write of the same field is outstanding.
type op struct {
	id          string
	field       domain.Field
	prev        any
	next        any
	submittedAt time.Time
	ticket      *Ticket
}

// Gateway applies local mutations optimistically and reconciles them with
// the remote store. Writes for one id are submitted in issue order.
type Gateway struct {
	c       *core
	remote  Remote
	timeout time.Duration
	wg      sync.WaitGroup
}

// Mutate sets field on the entity locally, then writes it to the remote
// store in the background. Validation errors are returned immediately and
// leave the entity untouched; remote failures arrive on the Ticket.
func (g *Gateway) Mutate(ctx context.Context, id string, field domain.Field, value any) (*Ticket, error) {
	if field == domain.FieldUpdatedAt {
		return nil, fmt.Errorf("mutating %s: %w: %s is maintained by the store", id, domain.ErrInvalidField, field)
	}

	g.c.mu.Lock()
	cur := g.c.coll.Get(id)
	if cur == nil {
		g.c.mu.Unlock()
		return nil, fmt.Errorf("mutating %s: %w", id, ErrNotFound)
	}
	if cur.Deleted {
		g.c.mu.Unlock()
		return nil, fmt.Errorf("mutating %s: %w", id, ErrReadOnly)
	}

	prev := cur.Get(field)
	if err := cur.Set(field, value); err != nil {
		g.c.mu.Unlock()
		return nil, fmt.Errorf("mutating %s: %w", id, err)
	}
	next := cur.Get(field)

	t := newTicket(id, field)
	_ = t.transition(StatePending, nil)
	if domain.ValuesEqual(field, prev, next) {
		g.c.mu.Unlock()
		_ = t.transition(StateCommitted, nil)
		return t, nil
	}
	if field == domain.FieldSortOrder {
		g.c.coll.Touch()
	}

	o := &op{id: id, field: field, prev: prev, next: next, submittedAt: g.c.now(), ticket: t}
	var after <-chan struct{}
	if ops := g.c.inflight[id]; len(ops) > 0 {
		after = ops[len(ops)-1].ticket.Done()
	}
	g.c.inflight[id] = append(g.c.inflight[id], o)
	// the newest write owns the live rollback snapshot
	g.c.view.Pending[id] = &PendingMutation{Field: field, PreviousValue: prev, SubmittedAt: o.submittedAt}
	detail := id == g.c.view.SelectedID && domain.DetailFields[field]
	g.c.mu.Unlock()

	g.c.observer.ObserveEvent(ctx, Event{Kind: EventMutationPending, EntityID: id, Field: field})
	g.c.events.emit(Event{Kind: EventMutationPending, EntityID: id, Field: field})
	g.c.publish(Event{Kind: EventCollectionChanged})
	if detail {
		g.c.publish(Event{Kind: EventDetailChanged, EntityID: id})
	}

	g.wg.Add(1)
	go g.submit(o, after)
	return t, nil
}

// State reports Pending while any write for id is outstanding, else Idle.
func (g *Gateway) State(id string) MutationState {
	g.c.mu.Lock()
	defer g.c.mu.Unlock()
	if len(g.c.inflight[id]) > 0 {
		return StatePending
	}
	return StateIdle
}

// Wait blocks until every submitted write has resolved.
func (g *Gateway) Wait() {
	g.wg.Wait()
}

func (g *Gateway) submit(o *op, after <-chan struct{}) {
	defer g.wg.Done()
	if after != nil {
		<-after
	}

	ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- g.remote.Write(ctx, o.id, domain.Patch{o.field: o.next})
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		err = ErrWriteTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		err = ErrWriteTimeout
	}
	if err != nil {
		err = fmt.Errorf("writing %s of %s: %w", o.field, o.id, err)
	}
	g.resolve(o, err)
}

func (g *Gateway) resolve(o *op, err error) {
	c := g.c
	c.mu.Lock()

	ops := c.inflight[o.id]
	i := slices.Index(ops, o)
	if i < 0 {
		c.mu.Unlock()
		return
	}
	later := slices.Clone(ops[i+1:])
	ops = slices.Delete(ops, i, i+1)
	c.inflight[o.id] = ops

	var res MergeResult
	if err != nil {
		succ := slices.IndexFunc(later, func(l *op) bool { return l.field == o.field })
		if succ >= 0 {
			// The later write now restores what this one would have.
			later[succ].prev = o.prev
		} else if cur := c.coll.Get(o.id); cur != nil && !domain.ValuesEqual(o.field, cur.Get(o.field), o.prev) {
			_ = cur.Restore(o.field, o.prev)
			if o.field == domain.FieldSortOrder {
				c.coll.Touch()
			}
			res.Updated = append(res.Updated, o.id)
			if o.id == c.view.SelectedID && domain.DetailFields[o.field] {
				res.DetailChanged = true
				res.detailID = o.id
			}
		}
	}

	if len(ops) == 0 {
		delete(c.inflight, o.id)
		delete(c.view.Pending, o.id)
		res.merge(c.flushQueued(o.id))
	} else {
		last := ops[len(ops)-1]
		c.view.Pending[o.id] = &PendingMutation{Field: last.field, PreviousValue: last.prev, SubmittedAt: last.submittedAt}
	}
	c.mu.Unlock()

	kind := EventMutationCommitted
	if err != nil {
		kind = EventMutationRolledBack
		_ = o.ticket.transition(StateRolledBack, err)
	} else {
		_ = o.ticket.transition(StateCommitted, nil)
	}
	c.publish(Event{Kind: kind, EntityID: o.id, Field: o.field, Err: err})
	c.publishMerge(res)
}
