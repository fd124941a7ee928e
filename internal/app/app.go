package app

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"focustimer/internal/alert"
	"focustimer/internal/config"
	"focustimer/internal/db"
	"focustimer/internal/repository"
	"focustimer/internal/service"
	"focustimer/internal/timer"
	"focustimer/migrations"
)

// Store is the persistence surface the services and the storage report use.
type Store interface {
	service.KeyValueStore
	Entries(ctx context.Context) ([]repository.Entry, error)
}

type Options struct {
	// Notifier and Audio override the back-ends chosen from the config.
	Notifier alert.Notifier
	Audio    alert.AudioPlayer
	Ticker   timer.TickSource
	Now      func() time.Time
	// SkipTimer leaves the timer unloaded, for commands that only read or
	// edit stored data.
	SkipTimer bool
}

// App holds every long-lived component of a running process.
type App struct {
	Config config.Config
	Logger *slog.Logger

	Store     Store
	Ephemeral bool
	database  *sql.DB

	Settings   *service.SettingsService
	Sessions   *service.SessionLog
	Statistics *service.StatisticsService
	Data       *service.DataService
	Timer      *service.TimerService
	Auth       *service.AuthService
	Alerts     *alert.Dispatcher
}

// Open wires storage, services and alerts, then restores persisted state.
// When the database cannot be opened the app runs on an in-memory store.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger, opts Options) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	store, database, err := openStore(cfg)
	if err != nil {
		logger.Warn("storage unavailable, running in memory", "driver", cfg.DBDriver, "path", cfg.DBPath, "error", err)
		store = repository.NewMemoryStore()
	}
	a.Store = store
	a.database = database
	a.Ephemeral = database == nil

	notifier := opts.Notifier
	if notifier == nil && cfg.NotifyCommand != "" {
		cmd, err := alert.NewCommandNotifier(cfg.NotifyCommand)
		if err != nil {
			a.Close()
			return nil, err
		}
		notifier = cmd
	}
	dispatcher, err := alert.NewDispatcher(alert.Options{
		Notifier:  notifier,
		Audio:     opts.Audio,
		Logger:    logger,
		Templates: templates(cfg.Messages),
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("notification templates: %w", err)
	}
	a.Alerts = dispatcher

	a.Settings = service.NewSettingsService(store, logger)
	a.Settings.Load(ctx)
	if cfg.PresetsPath != "" {
		if err := a.Settings.LoadPresets(cfg.PresetsPath); err != nil {
			logger.Warn("load presets", "path", cfg.PresetsPath, "error", err)
		}
	}

	a.Sessions = service.NewSessionLog(store, logger, cfg.SessionRetention)
	a.Sessions.Load(ctx)
	a.Statistics = service.NewStatisticsService(store, a.Sessions, logger)
	if opts.Now != nil {
		a.Statistics.SetClock(opts.Now, time.Local)
	}
	a.Statistics.Load(ctx)
	a.Data = service.NewDataService(a.Settings, a.Sessions, a.Statistics)

	if cfg.AuthEnabled {
		a.Auth = service.NewAuthService(store, cfg.JWTSecret, cfg.TokenTTL)
	}
	if opts.SkipTimer {
		return a, nil
	}

	ticker := opts.Ticker
	if ticker == nil {
		ticker = timer.NewTicker(cfg.TickInterval)
	}
	a.Timer = service.NewTimerService(service.TimerServiceDeps{
		Store:          store,
		Settings:       a.Settings,
		Sessions:       a.Sessions,
		Statistics:     a.Statistics,
		Alerts:         dispatcher,
		Ticker:         ticker,
		Logger:         logger,
		Now:            opts.Now,
		MaxSnapshotAge: cfg.SnapshotMaxAge,
	})
	a.Timer.Load(ctx)
	return a, nil
}

// Close stops the timer loop, flushes alerts and closes the database.
func (a *App) Close() {
	if a.Timer != nil {
		a.Timer.Close()
	}
	if a.Alerts != nil {
		a.Alerts.Close()
	}
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			a.Logger.Warn("close database", "error", err)
		}
		a.database = nil
	}
}

func openStore(cfg config.Config) (Store, *sql.DB, error) {
	if cfg.DBDriver == config.DriverMemory {
		return repository.NewMemoryStore(), nil, nil
	}

	database, err := db.OpenSQLite(cfg.DBDriver, cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if _, err := db.RunMigrations(database, MigrationsFS(cfg.MigrationsDir)); err != nil {
		_ = database.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	return repository.NewKVRepository(database), database, nil
}

// MigrationsFS returns dir as a file system, or the embedded migrations when
// dir is empty.
func MigrationsFS(dir string) fs.FS {
	if dir == "" {
		return migrations.FS
	}
	return os.DirFS(dir)
}

func templates(messages map[string]config.MessageTemplate) map[alert.Event]alert.Template {
	out := make(map[alert.Event]alert.Template, len(messages))
	for event, message := range messages {
		out[alert.Event(event)] = alert.Template{Title: message.Title, Body: message.Body}
	}
	return out
}
