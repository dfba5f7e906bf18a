package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexanderramin/opsboard/internal/board"
	"github.com/alexanderramin/opsboard/internal/domain"
)

// WriteCall records one Write received by a FakeRemote.
type WriteCall struct {
	ID    string
	Patch domain.Patch
}

// FakeRemote is an in-memory remote store with scriptable failures.
// Successful writes update the stored entity and signal subscribers the way
// a real store would.
type FakeRemote struct {
	mu       sync.Mutex
	entities map[string]*domain.Entity
	order    []string
	subs     []chan struct{}

	writes  []WriteCall
	fetches int

	// FetchErr fails every FetchAll while set.
	FetchErr error
	// SubscribeErrs fails successive Subscribe calls, one entry per call.
	SubscribeErrs []error
	// WriteErrs fails successive writes, one entry per call; nil succeeds.
	WriteErrs []error

	held chan error
}

func NewFakeRemote(seed ...*domain.Entity) *FakeRemote {
	f := &FakeRemote{entities: make(map[string]*domain.Entity)}
	for _, e := range seed {
		f.entities[e.ID] = e.Clone()
		f.order = append(f.order, e.ID)
	}
	return f
}

// HoldWrites makes every later Write block until Release supplies its result.
func (f *FakeRemote) HoldWrites() {
	f.mu.Lock()
	f.held = make(chan error)
	f.mu.Unlock()
}

// Release resolves the oldest held write with err. It blocks until a write
// is waiting.
func (f *FakeRemote) Release(err error) {
	f.mu.Lock()
	held := f.held
	f.mu.Unlock()
	held <- err
}

func (f *FakeRemote) FetchAll(_ context.Context, scope string) ([]domain.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	filter := board.Filter{Scope: scope}
	var out []domain.Entity
	for _, id := range f.order {
		e := f.entities[id]
		if filter.Match(e) {
			out = append(out, *e.Clone())
		}
	}
	return out, nil
}

func (f *FakeRemote) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.SubscribeErrs) > 0 {
		err := f.SubscribeErrs[0]
		f.SubscribeErrs = f.SubscribeErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	ch := make(chan struct{}, 1)
	f.subs = append(f.subs, ch)
	go func() {
		<-ctx.Done()
		f.dropSub(ch)
	}()
	return ch, nil
}

func (f *FakeRemote) Write(ctx context.Context, id string, patch domain.Patch) error {
	f.mu.Lock()
	f.writes = append(f.writes, WriteCall{ID: id, Patch: patch})
	var scripted error
	if len(f.WriteErrs) > 0 {
		scripted = f.WriteErrs[0]
		f.WriteErrs = f.WriteErrs[1:]
	}
	held := f.held
	f.mu.Unlock()

	if held != nil {
		select {
		case scripted = <-held:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if scripted != nil {
		return scripted
	}

	f.mu.Lock()
	e, ok := f.entities[id]
	if !ok {
		f.mu.Unlock()
		return fmt.Errorf("entity %s not found", id)
	}
	for _, field := range patch.Fields() {
		_ = e.Restore(field, patch[field])
	}
	f.mu.Unlock()
	f.Notify()
	return nil
}

func (f *FakeRemote) Insert(_ context.Context, e *domain.Entity) error {
	f.mu.Lock()
	if _, ok := f.entities[e.ID]; !ok {
		f.order = append(f.order, e.ID)
	}
	f.entities[e.ID] = e.Clone()
	f.mu.Unlock()
	f.Notify()
	return nil
}

func (f *FakeRemote) Delete(_ context.Context, id string) error {
	f.Remove(id)
	return nil
}

// Put replaces the stored entity as another client would, then signals.
func (f *FakeRemote) Put(e *domain.Entity) {
	_ = f.Insert(context.Background(), e)
}

// Remove deletes the stored entity as another client would, then signals.
func (f *FakeRemote) Remove(id string) {
	f.mu.Lock()
	delete(f.entities, id)
	for i, o := range f.order {
		if o == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	f.mu.Unlock()
	f.Notify()
}

// Entity returns a copy of the stored entity.
func (f *FakeRemote) Entity(id string) (domain.Entity, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entities[id]
	if !ok {
		return domain.Entity{}, false
	}
	return *e.Clone(), true
}

// Notify signals every subscriber without blocking.
func (f *FakeRemote) Notify() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// DropSubscriptions closes every open subscription channel.
func (f *FakeRemote) DropSubscriptions() {
	f.mu.Lock()
	subs := f.subs
	f.subs = nil
	f.mu.Unlock()
	for _, ch := range subs {
		close(ch)
	}
}

func (f *FakeRemote) dropSub(ch chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.subs {
		if s == ch {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			close(ch)
			return
		}
	}
}

// Writes returns every write received so far, in arrival order.
func (f *FakeRemote) Writes() []WriteCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]WriteCall(nil), f.writes...)
}

func (f *FakeRemote) FetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func (f *FakeRemote) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
