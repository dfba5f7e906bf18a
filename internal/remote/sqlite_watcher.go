package remote

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DefaultPollInterval is how often SQLiteWatcher checks for commits.
const DefaultPollInterval = 250 * time.Millisecond

// SQLiteWatcher signals commits made to a file-backed SQLite database by
// any connection or process. It polls PRAGMA data_version on a dedicated
// connection; the value changes whenever another connection commits.
// An in-memory database has a single connection, so use a Bus there.
type SQLiteWatcher struct {
	db       *sql.DB
	interval time.Duration
}

// NewSQLiteWatcher creates a watcher. interval <= 0 means DefaultPollInterval.
func NewSQLiteWatcher(db *sql.DB, interval time.Duration) *SQLiteWatcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &SQLiteWatcher{db: db, interval: interval}
}

func (w *SQLiteWatcher) Watch(ctx context.Context) (<-chan struct{}, error) {
	conn, err := w.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening watch connection: %w", err)
	}
	last, err := dataVersion(ctx, conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer conn.Close()
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			v, err := dataVersion(ctx, conn)
			if err != nil {
				return
			}
			if v == last {
				continue
			}
			last = v
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}()
	return ch, nil
}

func dataVersion(ctx context.Context, conn *sql.Conn) (int64, error) {
	var v int64
	if err := conn.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("reading data_version: %w", err)
	}
	return v, nil
}
