package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/javiermolinar/dayboard/internal/config"
	"github.com/javiermolinar/dayboard/internal/db"
	"github.com/javiermolinar/dayboard/internal/logger"
	"github.com/javiermolinar/dayboard/internal/sessionlog"
	"github.com/javiermolinar/dayboard/internal/snapshot"
	"github.com/javiermolinar/dayboard/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := logger.Init(logger.Config{
		Dir:   config.DataDir(),
		File:  cfg.Log.File,
		Level: cfg.Log.Level,
	}); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	stores, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	app, err := ui.NewApp(stores, cfg)
	if err != nil {
		return err
	}
	return app.ExecuteContext(ctx)
}

// openStores opens the local database and the configured snapshot and
// session log backends. A remote backend that cannot be reached falls back
// to the local database with a warning.
func openStores(ctx context.Context, cfg *config.Config) (ui.Stores, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0o755); err != nil {
		return ui.Stores{}, nil, fmt.Errorf("creating data directory: %w", err)
	}
	local, err := db.New(cfg.Storage.DBPath)
	if err != nil {
		return ui.Stores{}, nil, fmt.Errorf("initializing database: %w", err)
	}

	closers := []io.Closer{local}
	stores := ui.Stores{Tasks: local, Snapshots: local, Sessions: local}

	if cfg.Storage.SnapshotBackend == config.BackendRedis {
		r := cfg.Storage.Redis
		rs, err := snapshot.NewRedis(ctx, snapshot.RedisOptions{
			Addr:     r.Addr,
			Password: r.Password,
			DB:       r.DB,
			TTL:      r.TTL.Duration,
		})
		if err != nil {
			warnFallback("snapshot", err)
		} else {
			stores.Snapshots = rs
			closers = append(closers, rs)
		}
	}

	if cfg.Storage.SessionLogBackend == config.BackendPostgres {
		pg, err := openPostgres(ctx, cfg)
		if err != nil {
			warnFallback("session log", err)
		} else {
			stores.Sessions = pg
			closers = append(closers, pg)
		}
	}

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
	}
	return stores, closeAll, nil
}

func openPostgres(ctx context.Context, cfg *config.Config) (*sessionlog.Postgres, error) {
	p := &cfg.Storage.Postgres
	if p.Password == "" && p.UseKeyring {
		user := p.User
		if user == "" {
			user = cfg.User
		}
		pw, err := sessionlog.PasswordFromKeyring(user)
		switch {
		case errors.Is(err, sessionlog.ErrNoCredentials):
			logger.Warn("no session log password in keyring", "user", user)
		case err != nil:
			return nil, err
		default:
			p.Password = pw
		}
	}
	return sessionlog.OpenPostgres(ctx, cfg.PostgresDSN())
}

func warnFallback(store string, err error) {
	logger.Error("remote backend unavailable, using local database", "store", store, "err", err)
	fmt.Fprintf(os.Stderr, "warning: %s backend unavailable, using local database: %v\n", store, err)
}
