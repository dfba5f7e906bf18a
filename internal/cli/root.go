package cli

import (
	"time"

	"github.com/alexanderramin/opsboard/internal/live"
	"github.com/alexanderramin/opsboard/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and engine settings used by CLI commands.
type App struct {
	Entities service.EntityService
	Import   service.ImportService

	// Engine is the template for every engine a command opens; Remote must
	// be set.
	Engine live.Options

	// IsInteractive reports whether board and timeline may take over the
	// terminal. Nil means never.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "opsboard" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "opsboard",
		Short:         "Live project board and timeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Read by main before the App is built; declared here so cobra accepts it.
	root.PersistentFlags().String("config", "", "Path to a YAML config file (default ~/.opsboard/config.yaml)")

	root.AddCommand(
		newBoardCmd(app),
		newTimelineCmd(app),
		newEntityCmd(app),
		newImportCmd(app),
		newWatchCmd(app),
	)

	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// newEngine builds an engine from the App template. A non-empty scope
// overrides the configured one.
func (a *App) newEngine(scope string) *live.Engine {
	opts := a.Engine
	if scope != "" {
		opts.Scope = scope
	}
	return live.NewEngine(opts)
}

func (a *App) now() time.Time {
	if a.Engine.Now != nil {
		return a.Engine.Now()
	}
	return time.Now()
}
