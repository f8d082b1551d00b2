package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backend names accepted by LEADERBOARD_STORAGE
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Config is the server configuration read from the environment
type Config struct {
	HTTPAddr        string        `env:"LEADERBOARD_HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"LEADERBOARD_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"LEADERBOARD_WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"LEADERBOARD_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	Storage     string `env:"LEADERBOARD_STORAGE" envDefault:"memory"`
	SQLitePath  string `env:"LEADERBOARD_SQLITE_PATH" envDefault:"leaderboard.db"`
	PostgresDSN string `env:"LEADERBOARD_POSTGRES_DSN"`
	RedisURL    string `env:"LEADERBOARD_REDIS_URL" envDefault:"redis://localhost:6379"`
	RedisPrefix string `env:"LEADERBOARD_REDIS_PREFIX" envDefault:"leaderboard"`

	LogLevel string `env:"LEADERBOARD_LOG_LEVEL" envDefault:"info"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the server configuration.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the selected storage backend has what it needs.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageMemory:
	case StorageSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("LEADERBOARD_SQLITE_PATH is required for storage %q", c.Storage)
		}
	case StoragePostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return fmt.Errorf("LEADERBOARD_POSTGRES_DSN is required for storage %q", c.Storage)
		}
	case StorageRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("LEADERBOARD_REDIS_URL is required for storage %q", c.Storage)
		}
	default:
		return fmt.Errorf("invalid storage %q: must be one of memory, sqlite, postgres, redis", c.Storage)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel (debug, info, warn, error).
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
