package main

import (
	"log/slog"
	"os"

	"focustimer/internal/app"
	"focustimer/internal/config"
	"focustimer/internal/db"
	"focustimer/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	if cfg.DBDriver == config.DriverMemory {
		logger.Info("memory driver configured, nothing to migrate")
		return
	}

	database, err := db.OpenSQLite(cfg.DBDriver, cfg.DBPath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	applied, err := db.RunMigrations(database, app.MigrationsFS(cfg.MigrationsDir))
	for _, name := range applied {
		logger.Info("migration applied", "name", name)
	}
	if err != nil {
		logger.Error("run migrations", "error", err)
		os.Exit(1)
	}

	logger.Info("database up to date", "path", cfg.DBPath, "driver", cfg.DBDriver, "applied", len(applied))
}
