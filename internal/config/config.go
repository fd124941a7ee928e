package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Storage drivers accepted by DB_DRIVER. "memory" keeps everything in
// process and is lost on exit.
const (
	DriverSQLite3 = "sqlite3"
	DriverSQLite  = "sqlite"
	DriverMemory  = "memory"
)

type MessageTemplate struct {
	Title string `toml:"title"`
	Body  string `toml:"body"`
}

type Config struct {
	Port          string
	DBPath        string
	DBDriver      string
	JWTSecret     string
	TokenTTL      time.Duration
	CORSOrigins   []string
	MigrationsDir string
	AuthEnabled   bool

	LogLevel  string
	LogFormat string

	SnapshotMaxAge   time.Duration
	SessionRetention int
	TickInterval     time.Duration

	PresetsPath   string
	NotifyCommand string
	Messages      map[string]MessageTemplate

	// ConfigFile is the TOML file that was applied, if any.
	ConfigFile string
}

// fileConfig mirrors config.toml. It is pre-filled with defaults so keys
// missing from the file keep them.
type fileConfig struct {
	Port                string                     `toml:"port"`
	DBPath              string                     `toml:"db_path"`
	DBDriver            string                     `toml:"db_driver"`
	JWTSecret           string                     `toml:"jwt_secret"`
	TokenTTLHours       int                        `toml:"token_ttl_hours"`
	CORSOrigins         []string                   `toml:"cors_origins"`
	MigrationsDir       string                     `toml:"migrations_dir"`
	AuthEnabled         bool                       `toml:"auth_enabled"`
	LogLevel            string                     `toml:"log_level"`
	LogFormat           string                     `toml:"log_format"`
	SnapshotMaxAgeHours int                        `toml:"snapshot_max_age_hours"`
	SessionRetention    int                        `toml:"session_retention"`
	TickIntervalMS      int                        `toml:"tick_interval_ms"`
	PresetsPath         string                     `toml:"presets_path"`
	NotifyCommand       string                     `toml:"notify_command"`
	Messages            map[string]MessageTemplate `toml:"messages"`
}

func defaults() fileConfig {
	return fileConfig{
		Port:                "8080",
		DBPath:              defaultDataPath("focustimer.db"),
		DBDriver:            DriverSQLite3,
		JWTSecret:           "change-this-secret",
		TokenTTLHours:       72,
		CORSOrigins:         []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		AuthEnabled:         true,
		LogLevel:            "info",
		LogFormat:           "text",
		SnapshotMaxAgeHours: 24,
		SessionRetention:    1000,
		TickIntervalMS:      1000,
	}
}

// Load builds the configuration from defaults, then the TOML file named by
// CONFIG_FILE (or ~/.config/focustimer/config.toml when present), then
// environment variables.
func Load() (Config, error) {
	fc := defaults()

	path, explicit := configFilePath()
	applied := ""
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &fc); err != nil {
				return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
			}
			applied = path
		} else if explicit {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	cfg := Config{
		Port:             getEnv("PORT", fc.Port),
		DBPath:           getEnv("DB_PATH", fc.DBPath),
		DBDriver:         getEnv("DB_DRIVER", fc.DBDriver),
		JWTSecret:        getEnv("JWT_SECRET", fc.JWTSecret),
		TokenTTL:         time.Duration(getEnvInt("TOKEN_TTL_HOURS", fc.TokenTTLHours)) * time.Hour,
		CORSOrigins:      getEnvList("CORS_ORIGINS", fc.CORSOrigins),
		MigrationsDir:    getEnv("MIGRATIONS_DIR", fc.MigrationsDir),
		AuthEnabled:      getEnvBool("AUTH_ENABLED", fc.AuthEnabled),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", fc.LogLevel)),
		LogFormat:        strings.ToLower(getEnv("LOG_FORMAT", fc.LogFormat)),
		SnapshotMaxAge:   time.Duration(getEnvInt("SNAPSHOT_MAX_AGE_HOURS", fc.SnapshotMaxAgeHours)) * time.Hour,
		SessionRetention: getEnvInt("SESSION_RETENTION", fc.SessionRetention),
		TickInterval:     time.Duration(getEnvInt("TICK_INTERVAL_MS", fc.TickIntervalMS)) * time.Millisecond,
		PresetsPath:      getEnv("PRESETS_PATH", fc.PresetsPath),
		NotifyCommand:    getEnv("NOTIFY_COMMAND", fc.NotifyCommand),
		Messages:         fc.Messages,
		ConfigFile:       applied,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Validate checks ranges and enumerations after every source is applied.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %q", c.Port)
	}
	switch c.DBDriver {
	case DriverSQLite3, DriverSQLite:
		if c.DBPath == "" {
			return errors.New("DB_PATH must not be empty")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("DB_DRIVER must be one of sqlite3, sqlite, memory, got %q", c.DBDriver)
	}
	if c.AuthEnabled && c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty when auth is enabled")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL_HOURS must be positive, got %s", c.TokenTTL)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.SnapshotMaxAge <= 0 {
		return fmt.Errorf("SNAPSHOT_MAX_AGE_HOURS must be positive, got %s", c.SnapshotMaxAge)
	}
	if c.SessionRetention < 1 {
		return fmt.Errorf("SESSION_RETENTION must be positive, got %d", c.SessionRetention)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("TICK_INTERVAL_MS must be positive, got %s", c.TickInterval)
	}
	return nil
}

func configFilePath() (path string, explicit bool) {
	if value := os.Getenv("CONFIG_FILE"); value != "" {
		return value, true
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, ".config", "focustimer", "config.toml"), false
}

func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "data", name)
	}
	return filepath.Join(home, ".local", "share", "focustimer", name)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
