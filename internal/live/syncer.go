package live

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultBackoffMin = 500 * time.Millisecond
	DefaultBackoffMax = 30 * time.Second
	DefaultDebounce   = 100 * time.Millisecond
)

// Backoff yields exponentially growing reconnect delays: Min, 2*Min, ...
// capped at Max.
type Backoff struct {
	Min    time.Duration
	Max    time.Duration
	Factor float64

	attempt int
}

// Next returns the delay before the next attempt.
func (b *Backoff) Next() time.Duration {
	lo, hi, factor := b.Min, b.Max, b.Factor
	if lo <= 0 {
		lo = DefaultBackoffMin
	}
	if hi <= 0 {
		hi = DefaultBackoffMax
	}
	if hi < lo {
		hi = lo
	}
	if factor < 1 {
		factor = 2
	}
	d := float64(lo)
	for i := 0; i < b.attempt && d < float64(hi); i++ {
		d *= factor
	}
	b.attempt++
	if d > float64(hi) {
		return hi
	}
	return time.Duration(d)
}

// Reset starts the sequence over after a successful reconnect.
func (b *Backoff) Reset() { b.attempt = 0 }

// Syncer keeps the collection in step with the remote store: it refetches on
// every change signal and resubscribes with backoff when the push channel
// drops, refetching in full after each reconnect.
type Syncer struct {
	remote   Remote
	refresh  func(ctx context.Context) error
	publish  func(...Event)
	backoff  Backoff
	debounce time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

// Run blocks until ctx ends.
func (s *Syncer) Run(ctx context.Context) error {
	reconnecting := false
	for {
		sig, err := s.remote.Subscribe(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !reconnecting {
				s.publish(Event{Kind: EventSubscriptionLost, Err: fmt.Errorf("subscribing: %w", err)})
				reconnecting = true
			}
			if err := s.sleep(ctx, s.backoff.Next()); err != nil {
				return nil
			}
			continue
		}

		if reconnecting {
			s.backoff.Reset()
			reconnecting = false
			s.publish(Event{Kind: EventSubscriptionRestored})
			if err := s.refresh(ctx); err != nil && ctx.Err() != nil {
				return nil
			}
		}

		s.consume(ctx, sig)
		if ctx.Err() != nil {
			return nil
		}
		s.publish(Event{Kind: EventSubscriptionLost})
		reconnecting = true
		if err := s.sleep(ctx, s.backoff.Next()); err != nil {
			return nil
		}
	}
}

// consume refreshes after each burst of signals settles, returning when the
// channel closes or ctx ends.
func (s *Syncer) consume(ctx context.Context, sig <-chan struct{}) {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-sig:
			if !ok {
				if fire != nil {
					_ = s.refresh(ctx)
				}
				return
			}
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			_ = s.refresh(ctx)
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
