package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/opsboard/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgListener turns Postgres notifications on the entities channel into
// change signals. It holds one pooled connection per Watch call.
type PgListener struct {
	pool    *pgxpool.Pool
	channel string
}

// NewPgListener creates a listener on repository.PgNotifyChannel.
func NewPgListener(pool *pgxpool.Pool) *PgListener {
	return &PgListener{pool: pool, channel: repository.PgNotifyChannel}
}

func (l *PgListener) Watch(ctx context.Context) (<-chan struct{}, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring listen connection: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		conn.Release()
		return nil, fmt.Errorf("listening on %s: %w", l.channel, err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer func() {
			// The connection goes back to the pool, so stop listening first.
			// A broken connection fails here and the pool discards it.
			cleanup, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_, _ = conn.Exec(cleanup, "UNLISTEN *")
			conn.Release()
		}()
		for {
			if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
				return
			}
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}()
	return ch, nil
}
