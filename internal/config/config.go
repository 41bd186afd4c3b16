// Package config reads runtime settings from the environment, optionally seeded
// from a .env file in the working directory.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/eshaffer321/bigcapital-go/internal/store"
	"github.com/eshaffer321/bigcapital-go/internal/types"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	redislib "github.com/redis/go-redis/v9"
)

// Store backends
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreBolt   = "bolt"
)

// Config aggregates all runtime settings
type Config struct {
	Environment string
	APIURL      string
	Email       string
	Password    string
	Token       string
	Timeout     time.Duration
	RetryMax    int
	SentryDSN   string
	Store       StoreConfig
	Logger      LoggerConfig
}

type StoreConfig struct {
	Kind     string
	Path     string
	RedisURL string
	Scope    string
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// Load reads configuration from environment variables (optionally .env)
// and applies defaults.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getString("APP_ENV", "development"),
		APIURL:      strings.TrimRight(getString("BIGCAPITAL_API_URL", types.DefaultBaseURL), "/"),
		Email:       os.Getenv("BIGCAPITAL_EMAIL"),
		Password:    os.Getenv("BIGCAPITAL_PASSWORD"),
		Token:       os.Getenv("BIGCAPITAL_TOKEN"),
		Timeout:     getDuration("BIGCAPITAL_TIMEOUT", types.DefaultTimeout),
		RetryMax:    getInt("BIGCAPITAL_RETRY_MAX", 0),
		SentryDSN:   os.Getenv("SENTRY_DSN"),
		Store: StoreConfig{
			Kind:     strings.ToLower(getString("BIGCAPITAL_STORE", StoreFile)),
			Path:     os.Getenv("BIGCAPITAL_STORE_PATH"),
			RedisURL: getString("BIGCAPITAL_REDIS_URL", "redis://localhost:6379"),
			Scope:    getString("BIGCAPITAL_STORE_SCOPE", "default"),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "console"),
		},
	}

	switch cfg.Store.Kind {
	case StoreMemory, StoreFile, StoreRedis, StoreBolt:
	default:
		return nil, fmt.Errorf("unknown BIGCAPITAL_STORE %q (want memory, file, redis or bolt)", cfg.Store.Kind)
	}

	return cfg, nil
}

// HasCredentials reports whether email and password are both configured
func (c *Config) HasCredentials() bool {
	return c.Email != "" && c.Password != ""
}

// OpenStore builds and opens the configured credential store
func OpenStore(ctx context.Context, cfg StoreConfig, logger types.Logger) (store.CredentialStore, error) {
	var s store.CredentialStore

	switch cfg.Kind {
	case StoreMemory:
		s = store.NewMemoryStore(logger)
	case StoreFile, "":
		path := cfg.Path
		if path == "" {
			path = defaultPath("session.json")
		}
		s = store.NewFileStore(path, logger)
	case StoreBolt:
		path := cfg.Path
		if path == "" {
			path = defaultPath("session.db")
		}
		s = store.NewBoltStore(path, cfg.Scope, logger)
	case StoreRedis:
		opts, err := redislib.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, errors.Wrap(err, "invalid redis url")
		}
		s = store.NewRedisStore(redislib.NewClient(opts), cfg.Scope, types.RecordMaxAge, logger)
	default:
		return nil, fmt.Errorf("unknown credential store %q", cfg.Kind)
	}

	if err := s.Open(ctx); err != nil {
		_ = s.Close()
		return nil, errors.Wrapf(err, "failed to open %s credential store", cfg.Kind)
	}
	return s, nil
}

func defaultPath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "bigcapital", name)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
