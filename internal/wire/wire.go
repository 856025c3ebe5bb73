// Package wire assembles the scrumban application for one invocation.
// Nothing is global: every command builds its own App and closes it.
package wire

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	cliadapter "github.com/example/scrumban/internal/adapters/cli"
	"github.com/example/scrumban/internal/adapters/mail"
	"github.com/example/scrumban/internal/adapters/sqlite"
	"github.com/example/scrumban/internal/adapters/textfile"
	"github.com/example/scrumban/internal/app"
	"github.com/example/scrumban/internal/config"
	"github.com/example/scrumban/internal/core/board"
	"github.com/example/scrumban/internal/db"
	"github.com/example/scrumban/internal/env"
	"github.com/example/scrumban/internal/logs"
	"github.com/example/scrumban/internal/ports/primary"
	"github.com/example/scrumban/internal/ports/secondary"
)

const logFilename = "scrumban.log"

// Options locate the workdir and the output streams.
type Options struct {
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// App holds everything a command needs.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Service primary.BoardService
	Adapter *cliadapter.BoardAdapter

	logOpts logs.Options
	closers []func() error
}

// Close releases the log file and database.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// NewApp loads the workdir config and builds the service graph.
func NewApp(opts Options) (*App, error) {
	cfg, err := config.LoadConfig(opts.Dir)
	if err != nil {
		return nil, err
	}

	// .env may carry logger settings, so it is loaded before the logger exists.
	env.Init(opts.Dir, logs.New(logs.Options{Terminal: opts.Stderr}))

	a := &App{Config: cfg}
	logOpts, closeLog := logOptions(opts.Dir, opts.Stderr)
	logger := logs.New(logOpts)
	a.Logger = logger
	a.logOpts = logOpts
	a.closers = append(a.closers, closeLog)

	store, closeStore, err := NewStore(opts.Dir, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, closeStore)

	var notifier secondary.Notifier
	if n, err := mail.NewNotifier(mail.ConfigFromEnv()); err != nil {
		logger.Warn("email disabled", "error", err)
	} else {
		notifier = n
	}

	limits := board.Limits{TaskLimit: cfg.TaskLimit, TodoLimit: cfg.TodoLimit}
	a.Service = app.NewBoardService(store, notifier, textfile.EncodeCompleted, limits, logger)
	a.Adapter = cliadapter.NewBoardAdapter(a.Service, opts.Stdout)
	return a, nil
}

// logOptions configures the command logger: text on stderr, JSON appended
// to the state directory log when it exists, and the journal when
// SCRUMBAN_LOG_JOURNAL is set.
func logOptions(dir string, stderr io.Writer) (logs.Options, func() error) {
	opts := logs.Options{
		Terminal: stderr,
		Journal:  env.GetBool("SCRUMBAN_LOG_JOURNAL", false),
	}
	closeFn := func() error { return nil }

	stateDir := config.StateDir(dir)
	if info, err := os.Stat(stateDir); err == nil && info.IsDir() {
		f, err := os.OpenFile(filepath.Join(stateDir, logFilename), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			opts.File = f
			closeFn = f.Close
		}
	}

	return opts, closeFn
}

// NewStore opens the board store selected by cfg.
func NewStore(dir string, cfg *config.Config) (secondary.BoardStore, func() error, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		conn, err := openDB(dir, cfg)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewBoardStore(conn), conn.Close, nil
	default:
		return textfile.NewStore(TextPaths(dir, cfg)), func() error { return nil }, nil
	}
}

// TextPaths resolves the text store files for cfg.
func TextPaths(dir string, cfg *config.Config) textfile.Paths {
	return textfile.Paths{
		Backlog:   config.ResolvePath(dir, cfg.BacklogPath),
		Members:   config.ResolvePath(dir, cfg.MembersPath),
		Todo:      config.ResolvePath(dir, cfg.TodoPath),
		Completed: config.ResolvePath(dir, cfg.CompletedPath),
		StateDir:  config.StateDir(dir),
		NotesDir:  dir,
	}
}

// ImportProject seeds a sqlite store from the imported backlog and members
// files. Text stores read those files directly and need no import.
func ImportProject(ctx context.Context, dir string, cfg *config.Config) error {
	if cfg.Store != config.StoreSQLite {
		return nil
	}

	imports := textfile.NewStore(textfile.Paths{
		Backlog: config.ResolvePath(dir, cfg.BacklogPath),
		Members: config.ResolvePath(dir, cfg.MembersPath),
	})
	snap, err := imports.Load(ctx)
	if err != nil {
		return err
	}

	conn, err := openDB(dir, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := sqlite.NewBoardStore(conn).Save(ctx, snap); err != nil {
		return fmt.Errorf("failed to import project: %w", err)
	}
	return nil
}

func openDB(dir string, cfg *config.Config) (*sql.DB, error) {
	path := db.Path(config.StateDir(dir))
	if cfg.DBPath != "" {
		path = config.ResolvePath(dir, cfg.DBPath)
	}
	return db.Open(path)
}
