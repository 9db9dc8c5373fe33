package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayboard/internal/board"
	"github.com/javiermolinar/dayboard/internal/config"
	"github.com/javiermolinar/dayboard/internal/dateutil"
	"github.com/javiermolinar/dayboard/internal/logger"
	"github.com/javiermolinar/dayboard/internal/sessionlog"
	"github.com/javiermolinar/dayboard/internal/snapshot"
	"github.com/javiermolinar/dayboard/internal/task"
	"github.com/javiermolinar/dayboard/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// Stores bundles the storage backends the CLI works against.
type Stores struct {
	Tasks     task.Repository
	Snapshots snapshot.Store
	Sessions  sessionlog.Store
}

func (s Stores) validate() error {
	switch {
	case s.Tasks == nil:
		return errors.New("task repository is required")
	case s.Snapshots == nil:
		return errors.New("snapshot store is required")
	case s.Sessions == nil:
		return errors.New("session log store is required")
	}
	return nil
}

// App holds the CLI application state.
type App struct {
	stores Stores
	config *config.Config
	root   *cobra.Command
	debug  bool // Mirror logs to stderr
	now    func() time.Time
}

// NewApp creates a new CLI application with the given stores and config.
func NewApp(stores Stores, cfg *config.Config) (*App, error) {
	if err := stores.validate(); err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{stores: stores, config: cfg, now: time.Now}

	a.root = &cobra.Command{
		Use:   "dayboard",
		Short: "Plan your day on a half-hour grid",
		Long: `Dayboard lays your day out as 48 half-hour slots.

Book tasks onto the grid, move and resize them, and commit the finished
plan to your session log. Without a subcommand it opens the interactive board.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if !a.debug {
				return nil
			}
			return logger.Init(logger.Config{
				Debug: true,
				Dir:   config.DataDir(),
				File:  a.config.Log.File,
			})
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBoard(cmd.Context())
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (also mirrored to stderr)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.taskCmd())
	a.root.AddCommand(a.scheduleCmd())
	a.root.AddCommand(a.focusCmd())

	return a, nil
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dayboard %s (commit: %s)\n", Version, Commit)
		},
	}
}

// runBoard opens today's board and hands it to the interactive view.
func (a *App) runBoard(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	notifier := tui.NewNotifier()
	b, err := a.openBoard(ctx, dateutil.Today(a.now()), notifier)
	if err != nil {
		return err
	}
	return tui.Run(ctx, tui.Options{
		Board:       b,
		Tasks:       a.stores.Tasks,
		Notifier:    notifier,
		Theme:       a.config.UI.Theme,
		DefaultView: a.config.UI.DefaultView,
	})
}

// openBoard builds a board configured from the app config and loads day.
func (a *App) openBoard(ctx context.Context, day string, notifier board.Notifier) (*board.Board, error) {
	b, err := board.New(a.stores.Snapshots, a.stores.Sessions, board.Options{
		UserID:           a.config.User,
		SnapshotInterval: a.config.Schedule.SnapshotInterval.Duration,
		EndOfDayCheck:    a.config.Schedule.EndOfDayCheck.Duration,
		EndOfDay:         a.config.Schedule.EndOfDay,
		Notifier:         notifier,
		Now:              a.now,
	})
	if err != nil {
		return nil, fmt.Errorf("creating board: %w", err)
	}
	if err := b.Open(ctx, day); err != nil {
		return nil, fmt.Errorf("opening %s: %w", day, err)
	}
	return b, nil
}

// resolveDay turns a --date flag value into a day key.
func (a *App) resolveDay(s string) (string, error) {
	day, err := dateutil.ParseRelativeDay(s, a.now())
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return day, nil
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// ExecuteContext runs the CLI application with ctx.
func (a *App) ExecuteContext(ctx context.Context) error {
	return a.root.ExecuteContext(ctx)
}
