package remote

import (
	"context"
	"sync"
)

// Notifier produces payload-free change signals. The returned channel is
// closed when the underlying subscription drops or ctx ends.
type Notifier interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// Publisher is implemented by notifiers that need to be told about writes
// made through this process.
type Publisher interface {
	Publish()
}

// Bus is an in-process Notifier. Store publishes to it after every write,
// so engines sharing one process see each other's changes.
type Bus struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[chan struct{}]struct{})}
}

// Watch registers a subscriber. Signals coalesce: a subscriber that has not
// drained the previous one does not get a second.
func (b *Bus) Watch(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.unsubscribe(ch)
	}()
	return ch, nil
}

// Publish signals every subscriber without blocking.
func (b *Bus) Publish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Drop closes every current subscription, as a lost connection would.
func (b *Bus) Drop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}

// Subscribers returns the number of live subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Bus) unsubscribe(ch chan struct{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}
