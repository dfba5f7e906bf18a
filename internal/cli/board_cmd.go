package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/opsboard/internal/cli/formatter"
	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/alexanderramin/opsboard/internal/live"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// viewFlags are shared by board and timeline.
type viewFlags struct {
	scope  string
	filter string
	zoom   string
	anchor string
	width  int
	plain  bool
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.scope, "scope", "", "Only entities of this client (overrides config)")
	cmd.Flags().StringVar(&f.filter, "filter", "", "Text filter on title, owner and client")
	cmd.Flags().StringVar(&f.zoom, "zoom", "", "Timeline zoom: week, month or quarter")
	cmd.Flags().StringVar(&f.anchor, "anchor", "", "Date the timeline window contains (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&f.width, "width", 0, "Render width for plain output")
	cmd.Flags().BoolVar(&f.plain, "plain", false, "Print once instead of opening the interactive view")
}

// openEngine builds and loads an engine configured by the flags.
func (f *viewFlags) openEngine(ctx context.Context, app *App) (*live.Engine, error) {
	eng := app.newEngine(f.scope)
	if f.zoom != "" {
		z, err := domain.ParseZoomMode(f.zoom)
		if err != nil {
			return nil, err
		}
		eng.SetZoom(z)
	}
	if f.anchor != "" {
		t, err := domain.ParseDate(f.anchor)
		if err != nil {
			return nil, err
		}
		eng.SetAnchor(t)
	}
	if f.filter != "" {
		eng.SetFilter(f.filter)
	}
	return eng, nil
}

func newBoardCmd(app *App) *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show entities in status lanes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := flags.openEngine(ctx, app)
			if err != nil {
				return err
			}
			if app.interactive() && !flags.plain {
				return runTUI(ctx, eng, app, ViewBoard)
			}
			if err := eng.Load(ctx); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBoardList(eng.Board()))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newTimelineCmd(app *App) *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show scheduled entities on a calendar window",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eng, err := flags.openEngine(ctx, app)
			if err != nil {
				return err
			}
			if app.interactive() && !flags.plain {
				return runTUI(ctx, eng, app, ViewTimeline)
			}
			if err := eng.Load(ctx); err != nil {
				return err
			}
			width := flags.width
			if width <= 0 {
				width = 100
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTimeline(eng.Timeline(), formatter.TimelineOptions{Width: width}))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// runTUI loads the engine, follows remote changes in the background and
// runs the full-screen program until the user quits. A failed first load
// still opens the views; they show the empty state and the offline notice.
func runTUI(ctx context.Context, eng *live.Engine, app *App, start ViewID) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, unsubscribe := eng.Events()
	defer unsubscribe()

	loadErr := eng.Load(ctx)

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = eng.Run(ctx)
	}()

	state := &SharedState{App: app, Engine: eng}
	if loadErr != nil {
		state.Flash = loadErr.Error()
		state.FlashErr = true
	}

	p := tea.NewProgram(newAppModel(state, start, events), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()

	cancel()
	<-runDone
	eng.Wait()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
