package live

import (
	"context"
	"log/slog"
	"sync"

	"github.com/alexanderramin/opsboard/internal/domain"
)

type EventKind string

const (
	EventCollectionChanged    EventKind = "collection_changed"
	EventDetailChanged        EventKind = "detail_changed"
	EventViewChanged          EventKind = "view_changed"
	EventMutationPending      EventKind = "mutation_pending"
	EventMutationCommitted    EventKind = "mutation_committed"
	EventMutationRolledBack   EventKind = "mutation_rolled_back"
	EventLoadFailed           EventKind = "load_failed"
	EventSubscriptionLost     EventKind = "subscription_lost"
	EventSubscriptionRestored EventKind = "subscription_restored"
)

// Event tells listeners that something they render may have changed.
type Event struct {
	Kind     EventKind
	EntityID string
	Field    domain.Field
	Err      error
}

// emitter fans events out to subscribers without ever blocking the engine.
type emitter struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func newEmitter() *emitter {
	return &emitter{subs: make(map[chan Event]struct{})}
}

func (e *emitter) subscribe() chan Event {
	ch := make(chan Event, 64)
	e.mu.Lock()
	e.subs[ch] = struct{}{}
	e.mu.Unlock()
	return ch
}

func (e *emitter) unsubscribe(ch chan Event) {
	e.mu.Lock()
	if _, ok := e.subs[ch]; ok {
		delete(e.subs, ch)
		close(ch)
	}
	e.mu.Unlock()
}

func (e *emitter) emit(ev Event) {
	e.mu.RLock()
	for ch := range e.subs {
		select {
		case ch <- ev:
		default:
			// listener is behind; it re-reads state on the next event anyway
		}
	}
	e.mu.RUnlock()
}

// Observer receives every engine event for logging.
type Observer interface {
	ObserveEvent(ctx context.Context, ev Event)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) ObserveEvent(context.Context, Event) {}

type logObserver struct {
	logger *slog.Logger
}

// NewSlogObserver logs engine events as board_event records. Failures log
// at warn, collection and view churn at debug.
func NewSlogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		return NoopObserver{}
	}
	return &logObserver{logger: logger}
}

func (o *logObserver) ObserveEvent(ctx context.Context, ev Event) {
	attrs := []any{"kind", string(ev.Kind)}
	if ev.EntityID != "" {
		attrs = append(attrs, "entity_id", ev.EntityID)
	}
	if ev.Field != "" {
		attrs = append(attrs, "field", string(ev.Field))
	}
	switch {
	case ev.Err != nil:
		attrs = append(attrs, "error", ev.Err.Error())
		o.logger.WarnContext(ctx, "board_event", attrs...)
	case ev.Kind == EventCollectionChanged || ev.Kind == EventViewChanged:
		o.logger.DebugContext(ctx, "board_event", attrs...)
	default:
		o.logger.InfoContext(ctx, "board_event", attrs...)
	}
}
