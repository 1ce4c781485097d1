package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends selectable with STORAGE_BACKEND.
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	Port           string        `env:"PORT" envDefault:"8080"`
	Environment    string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelName   string        `env:"LOG_LEVEL" envDefault:"info"`
	StorageBackend string        `env:"STORAGE_BACKEND" envDefault:"redis"`
	RedisURL       string        `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	SQLitePath     string        `env:"SQLITE_PATH" envDefault:"./guining.db"`
	DataDir        string        `env:"DATA_DIR"`
	SaveTTL        time.Duration `env:"SAVE_TTL" envDefault:"0s"`

	LogLevel slog.Level
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads configuration from environment variables only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("PORT is required")
	}
	switch c.StorageBackend {
	case BackendRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return errors.New("REDIS_URL is required for the redis backend")
		}
	case BackendSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.SaveTTL < 0 {
		return fmt.Errorf("SAVE_TTL must not be negative, got %s", c.SaveTTL)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
