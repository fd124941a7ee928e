package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"focustimer/internal/app"
	"focustimer/internal/config"
	"focustimer/internal/logging"
)

var (
	dbPath      string
	dbDriver    string
	logLevel    string
	versionInfo string
)

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "focustimer",
	Short: "Pomodoro focus timer",
	Long: `focustimer - a Pomodoro timer for the terminal

Runs focus sessions and breaks on a configurable schedule, keeps a history
of finished sessions and derives daily statistics and streaks from it.

Without a subcommand the interactive timer starts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tuiCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (default from DB_PATH or config file)")
	rootCmd.PersistentFlags().StringVar(&dbDriver, "driver", "", "Storage driver: sqlite3, sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// loadConfig applies command-line overrides on top of config.Load.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if dbDriver != "" {
		cfg.DBDriver = dbDriver
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, cfg.Validate()
}

// openApp wires the application for a one-shot command. Logs go to stderr
// at warn level unless --log-level says otherwise.
func openApp(ctx context.Context, opts app.Options) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if logLevel == "" && level == "info" {
		level = "warn"
	}
	logger := logging.New(level, cfg.LogFormat, os.Stderr)
	return app.Open(ctx, cfg, logger, opts)
}

// openLogFile returns a log destination beside the database so the
// full-screen timer keeps the terminal to itself.
func openLogFile(cfg config.Config) (io.WriteCloser, error) {
	dir := filepath.Dir(cfg.DBPath)
	if cfg.DBDriver == config.DriverMemory || cfg.DBPath == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "focustimer.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
}
