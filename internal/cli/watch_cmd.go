package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/opsboard/internal/live"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *App) *cobra.Command {
	var scope string
	var count int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print engine events as remote changes arrive",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			eng := app.newEngine(scope)
			events, unsubscribe := eng.Events()
			defer unsubscribe()

			if err := eng.Load(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %d entities. Ctrl+C to stop.\n", eng.Board().Total)

			runErr := make(chan error, 1)
			go func() { runErr <- eng.Run(ctx) }()

			printEvents(ctx, cmd.OutOrStdout(), events, count, app.now)
			cancel()
			return <-runErr
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "Only entities of this client (overrides config)")
	cmd.Flags().IntVar(&count, "count", 0, "Stop after this many events (0 runs until interrupted)")

	return cmd
}

// printEvents writes one line per event until ctx ends, the channel closes
// or limit events were printed.
func printEvents(ctx context.Context, w io.Writer, events <-chan live.Event, limit int, now func() time.Time) {
	seen := 0
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintln(w, formatEvent(ev, now()))
			seen++
			if limit > 0 && seen >= limit {
				return
			}
		}
	}
}

func formatEvent(ev live.Event, at time.Time) string {
	line := at.Format("15:04:05") + " " + string(ev.Kind)
	if ev.EntityID != "" {
		line += " " + ev.EntityID
	}
	if ev.Field != "" {
		line += " " + string(ev.Field)
	}
	if ev.Err != nil {
		line += ": " + ev.Err.Error()
	}
	return line
}
