package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/opsboard/internal/cli"
	"github.com/alexanderramin/opsboard/internal/config"
	"github.com/alexanderramin/opsboard/internal/db"
	"github.com/alexanderramin/opsboard/internal/live"
	"github.com/alexanderramin/opsboard/internal/remote"
	"github.com/alexanderramin/opsboard/internal/repository"
	"github.com/alexanderramin/opsboard/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath(os.Args[1:]))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	pal, err := cfg.BuildPalette()
	if err != nil {
		return err
	}

	// Wire the store for the configured backend
	var (
		tx       service.TxRunner
		repo     repository.EntityRepo
		notifier remote.Notifier
	)
	switch cfg.Backend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		defer pool.Close()

		pg := repository.NewPgEntityRepo(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		repo, tx, notifier = pg, service.Direct(pg), remote.NewPgListener(pool)

	default:
		database, err := db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		repo = repository.NewSQLiteEntityRepo(database)
		tx = service.SQLiteTx(db.NewSQLiteUnitOfWork(database))
		if cfg.DBPath == ":memory:" {
			notifier = remote.NewBus()
		} else {
			notifier = remote.NewSQLiteWatcher(database, cfg.PollInterval())
		}
	}

	// Wire services
	observer := service.NewSlogUseCaseObserver(logger)
	entities := service.NewEntityService(repo, tx, observer)

	app := &cli.App{
		Entities: entities,
		Import:   service.NewImportService(tx, observer),
		Engine: live.Options{
			Remote:       remote.NewStore(entities, notifier),
			Palette:      pal,
			MinWidth:     cfg.MinBarWidth,
			Zoom:         cfg.ZoomMode(),
			Scope:        cfg.Scope,
			Observer:     live.NewSlogObserver(logger),
			WriteTimeout: cfg.WriteTimeout(),
			Debounce:     cfg.Debounce(),
			Backoff: live.Backoff{
				Min:    cfg.BackoffMin(),
				Max:    cfg.BackoffMax(),
				Factor: 2,
			},
		},
	}

	// Board and timeline take over the terminal only when attached to one.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}

// configPath picks --config out of the arguments before cobra parses them,
// since the App has to be wired first.
func configPath(args []string) string {
	fs := pflag.NewFlagSet("opsboard", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	path := fs.String("config", "", "")
	_ = fs.Parse(args)
	return *path
}

// openLogger logs to the configured file, or to stderr when none is set.
// The TUI owns the terminal, so set log_file when running board or timeline
// with a verbose level.
func openLogger(cfg config.Config) (*slog.Logger, func(), error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}
	var w io.Writer = os.Stderr
	closeFn := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeFn, nil
}
