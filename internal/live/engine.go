// Package live keeps an in-memory entity collection in sync with a remote
// store and serves the board, timeline and detail read models built on it.
//
// Remote snapshots are merged into owned records in place, local edits are
// applied optimistically and rolled back if the remote write fails, and
// remote data for an entity with an outstanding write is held back until
// that write resolves.
package live

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/alexanderramin/opsboard/internal/board"
	"github.com/alexanderramin/opsboard/internal/contract"
	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/alexanderramin/opsboard/internal/palette"
	"github.com/alexanderramin/opsboard/internal/timeline"
	"github.com/google/uuid"
)

type Options struct {
	Remote   Remote
	Palette  *palette.Palette
	MinWidth float64
	Zoom     domain.ZoomMode
	Scope    string
	Anchor   time.Time
	Now      func() time.Time
	Observer Observer

	WriteTimeout time.Duration
	Debounce     time.Duration
	Backoff      Backoff
}

// Engine is the single owner of the collection and view state of one open
// board. All methods are safe for concurrent use.
type Engine struct {
	c        *core
	remote   Remote
	merge    *MergeController
	gateway  *Gateway
	syncer   *Syncer
	palette  *palette.Palette
	minWidth float64

	loadMu sync.Mutex
}

func NewEngine(opts Options) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Palette == nil {
		opts.Palette = palette.Default()
	}
	if opts.MinWidth <= 0 {
		opts.MinWidth = timeline.DefaultMinWidth
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	anchor := opts.Anchor
	if anchor.IsZero() {
		anchor = opts.Now()
	}

	c := newCore(newViewState(anchor, opts.Zoom, opts.Scope), opts.Observer, opts.Now)
	e := &Engine{
		c:        c,
		remote:   opts.Remote,
		merge:    &MergeController{c: c},
		gateway:  &Gateway{c: c, remote: opts.Remote, timeout: opts.WriteTimeout},
		palette:  opts.Palette,
		minWidth: opts.MinWidth,
	}
	e.syncer = &Syncer{
		remote:   opts.Remote,
		refresh:  e.Load,
		publish:  c.publish,
		backoff:  opts.Backoff,
		debounce: opts.Debounce,
		sleep:    sleepCtx,
	}
	return e
}

// Load fetches the scoped collection and merges it as a full snapshot. On
// failure the collection is left as it was (empty before the first load),
// so views render their empty state; the error is still returned.
func (e *Engine) Load(ctx context.Context) error {
	e.loadMu.Lock()
	defer e.loadMu.Unlock()

	e.c.mu.Lock()
	scope := e.c.view.Filter.Scope
	e.c.mu.Unlock()

	entities, err := e.remote.FetchAll(ctx, scope)
	if err != nil {
		err = fmt.Errorf("loading entities: %w", err)
		e.c.publish(Event{Kind: EventLoadFailed, Err: err})
		return err
	}
	e.merge.Apply(Snapshot{Entities: entities, Full: true})
	return nil
}

// Run follows remote changes until ctx ends. Call Load first.
func (e *Engine) Run(ctx context.Context) error {
	return e.syncer.Run(ctx)
}

// ApplySnapshot merges a pushed snapshot directly.
func (e *Engine) ApplySnapshot(s Snapshot) MergeResult {
	return e.merge.Apply(s)
}

// Events subscribes to engine events. Call the returned func to stop.
func (e *Engine) Events() (<-chan Event, func()) {
	ch := e.c.events.subscribe()
	return ch, func() { e.c.events.unsubscribe(ch) }
}

// View returns a copy of the current view state.
func (e *Engine) View() ViewState {
	e.c.mu.Lock()
	defer e.c.mu.Unlock()
	return e.c.view.snapshot()
}

// Get returns a copy of the entity.
func (e *Engine) Get(id string) (domain.Entity, bool) {
	e.c.mu.Lock()
	defer e.c.mu.Unlock()
	cur := e.c.coll.Get(id)
	if cur == nil {
		return domain.Entity{}, false
	}
	return *cur.Clone(), true
}

// Select opens the detail view on id. A tombstone held by the previous
// selection is pruned.
func (e *Engine) Select(id string) error {
	e.c.mu.Lock()
	cur := e.c.coll.Get(id)
	if cur == nil {
		e.c.mu.Unlock()
		return fmt.Errorf("selecting %s: %w", id, ErrNotFound)
	}
	prev := e.c.view.SelectedID
	e.c.view.SelectedID = id
	pruned := prev != id && e.c.pruneTombstone(prev)
	e.c.mu.Unlock()

	e.c.publish(Event{Kind: EventViewChanged, EntityID: id}, Event{Kind: EventDetailChanged, EntityID: id})
	if pruned {
		e.c.publish(Event{Kind: EventCollectionChanged})
	}
	return nil
}

// CloseDetail clears the selection. An entity deleted remotely while it was
// open is pruned now. In-flight writes for it keep running.
func (e *Engine) CloseDetail() {
	e.c.mu.Lock()
	prev := e.c.view.SelectedID
	e.c.view.SelectedID = ""
	pruned := e.c.pruneTombstone(prev)
	e.c.mu.Unlock()

	e.c.publish(Event{Kind: EventViewChanged, EntityID: prev})
	if pruned {
		e.c.publish(Event{Kind: EventCollectionChanged})
	}
}

// Hover cross-highlights id in every rendering. An empty or unknown id
// clears the hover.
func (e *Engine) Hover(id string) {
	e.c.mu.Lock()
	if e.c.coll.Get(id) == nil {
		id = ""
	}
	changed := e.c.view.HoveredID != id
	e.c.view.HoveredID = id
	e.c.mu.Unlock()
	if changed {
		e.c.publish(Event{Kind: EventViewChanged, EntityID: id})
	}
}

// Navigate moves the window one unit or jumps back to today.
func (e *Engine) Navigate(dir timeline.Direction) {
	e.c.mu.Lock()
	e.c.view.Anchor = timeline.Navigate(e.c.view.Anchor, e.c.view.Zoom, dir, e.c.now())
	e.c.mu.Unlock()
	e.c.publish(Event{Kind: EventViewChanged})
}

// SetAnchor moves the window to the one containing t.
func (e *Engine) SetAnchor(t time.Time) {
	e.c.mu.Lock()
	e.c.view.Anchor = domain.DateOnly(t)
	e.c.mu.Unlock()
	e.c.publish(Event{Kind: EventViewChanged})
}

func (e *Engine) SetZoom(mode domain.ZoomMode) {
	e.c.mu.Lock()
	e.c.view.Zoom = mode
	e.c.mu.Unlock()
	e.c.publish(Event{Kind: EventViewChanged})
}

// SetFilter sets the free-text filter.
func (e *Engine) SetFilter(text string) {
	e.c.mu.Lock()
	e.c.view.Filter.Text = text
	e.c.mu.Unlock()
	e.c.publish(Event{Kind: EventViewChanged})
}

// SetScope changes the owner/client scope and refetches.
func (e *Engine) SetScope(ctx context.Context, scope string) error {
	e.c.mu.Lock()
	e.c.view.Filter.Scope = scope
	e.c.mu.Unlock()
	e.c.publish(Event{Kind: EventViewChanged})
	return e.Load(ctx)
}

// DragToLane moves id into the lane for status.
func (e *Engine) DragToLane(ctx context.Context, id string, status domain.Status) (*Ticket, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("moving %s: %w: unknown lane %q", id, domain.ErrInvalidField, status)
	}
	return e.gateway.Mutate(ctx, id, domain.FieldStatus, status)
}

// EditField is an inline edit of one field.
func (e *Engine) EditField(ctx context.Context, id string, field domain.Field, value any) (*Ticket, error) {
	return e.gateway.Mutate(ctx, id, field, value)
}

// MutationState reports whether id has writes outstanding.
func (e *Engine) MutationState(id string) MutationState {
	return e.gateway.State(id)
}

// Wait blocks until every submitted write has resolved.
func (e *Engine) Wait() {
	e.gateway.Wait()
}

// Create inserts a new entity remotely and shows it without waiting for
// the change signal.
func (e *Engine) Create(ctx context.Context, ent *domain.Entity) error {
	if ent.ID == "" {
		ent.ID = uuid.New().String()
	}
	if err := ent.Validate(); err != nil {
		return fmt.Errorf("creating entity: %w", err)
	}
	if err := e.remote.Insert(ctx, ent); err != nil {
		return fmt.Errorf("creating entity: %w", err)
	}
	e.merge.Apply(Snapshot{Entities: []domain.Entity{*ent}})
	return nil
}

// Delete removes id remotely. If it is the open selection it stays visible,
// read-only, until the detail view closes.
func (e *Engine) Delete(ctx context.Context, id string) error {
	e.c.mu.Lock()
	known := e.c.coll.Get(id) != nil
	e.c.mu.Unlock()
	if !known {
		return fmt.Errorf("deleting %s: %w", id, ErrNotFound)
	}
	if err := e.remote.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting %s: %w", id, err)
	}
	e.merge.Apply(Snapshot{Deleted: []string{id}})
	return nil
}

// Window returns the visible date range.
func (e *Engine) Window() timeline.Window {
	e.c.mu.Lock()
	defer e.c.mu.Unlock()
	return timeline.Compute(e.c.view.Anchor, e.c.view.Zoom)
}

// Board renders the lane layout of the filtered collection.
func (e *Engine) Board() contract.BoardView {
	e.c.mu.Lock()
	defer e.c.mu.Unlock()

	f := e.c.view.Filter
	visible := board.Apply(e.c.coll.All(), f)
	out := contract.BoardView{Total: len(visible), Scope: f.Scope, Filter: f.Text}
	for _, l := range board.Classify(visible) {
		lv := contract.LaneView{Status: l.Status, Title: l.Title}
		for _, ent := range l.Entities {
			lv.Cards = append(lv.Cards, e.card(ent))
		}
		out.Lanes = append(out.Lanes, lv)
	}
	return out
}

// Timeline renders the filtered collection against the current window.
func (e *Engine) Timeline() contract.TimelineView {
	e.c.mu.Lock()
	defer e.c.mu.Unlock()

	w := timeline.Compute(e.c.view.Anchor, e.c.view.Zoom)
	out := contract.TimelineView{Title: w.Title(), Mode: w.Mode, Start: w.Start, End: w.End}
	for _, col := range w.Columns {
		left := w.Position(col.Start)
		out.Columns = append(out.Columns, contract.ColumnView{
			Label: col.Label,
			Left:  left,
			Width: w.Position(col.End) - left,
		})
	}

	for _, ent := range board.Apply(e.c.coll.All(), e.c.view.Filter) {
		start, end, ok := ent.Range()
		if !ok {
			out.Unscheduled = append(out.Unscheduled, e.card(ent))
			continue
		}
		bar, ok := w.Place(start, end, e.minWidth)
		if !ok {
			continue
		}
		out.Bars = append(out.Bars, contract.BarView{
			Card:         e.card(ent),
			Start:        start,
			End:          end,
			Left:         bar.Left,
			Width:        bar.Width,
			ClippedStart: bar.ClippedStart,
			ClippedEnd:   bar.ClippedEnd,
		})
	}

	today := domain.DateOnly(e.c.now())
	out.TodayVisible = w.Contains(today)
	out.Today = w.Position(today)
	return out
}

// Detail renders the selected entity. ok is false when nothing is selected.
func (e *Engine) Detail() (contract.DetailView, bool) {
	e.c.mu.Lock()
	defer e.c.mu.Unlock()

	ent := e.c.coll.Get(e.c.view.SelectedID)
	if ent == nil {
		return contract.DetailView{}, false
	}
	d := contract.DetailView{
		Card:          e.card(ent),
		StartDate:     ent.Get(domain.FieldStartDate).(*time.Time),
		EndDate:       ent.Get(domain.FieldEndDate).(*time.Time),
		UpdatedAt:     ent.UpdatedAt,
		MutationState: StateIdle.String(),
	}
	for _, s := range ent.SubItems {
		d.SubItems = append(d.SubItems, contract.SubItemView{ID: s.ID, Name: s.Name, Kind: s.Kind, Completed: s.Completed})
	}
	if p, ok := e.c.view.Pending[ent.ID]; ok {
		d.MutationState = StatePending.String()
		d.PendingField = p.Field
	}
	return d, true
}

// card must be called with c.mu held.
func (e *Engine) card(ent *domain.Entity) contract.Card {
	return contract.Card{
		ID:        ent.ID,
		Title:     ent.Title,
		Status:    ent.Status,
		OwnerName: ent.Owner.Name,
		Client:    ent.Client,
		Color:     string(e.palette.ForEntity(ent.ID, ent.Status)),
		Progress:  ent.EffectiveProgress(),
		Tags:      slices.Clone(ent.Tags),
		Scheduled: ent.Scheduled(),
		Selected:  ent.ID == e.c.view.SelectedID,
		Hovered:   ent.ID == e.c.view.HoveredID,
		Pending:   len(e.c.inflight[ent.ID]) > 0,
		ReadOnly:  ent.Deleted,
	}
}
