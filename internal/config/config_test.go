package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eshaffer321/bigcapital-go/internal/store"
	"github.com/eshaffer321/bigcapital-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "BIGCAPITAL_API_URL", "BIGCAPITAL_EMAIL", "BIGCAPITAL_PASSWORD", "BIGCAPITAL_TOKEN",
		"BIGCAPITAL_TIMEOUT", "BIGCAPITAL_RETRY_MAX", "SENTRY_DSN", "BIGCAPITAL_STORE",
		"BIGCAPITAL_STORE_PATH", "BIGCAPITAL_REDIS_URL", "BIGCAPITAL_STORE_SCOPE", "LOG_LEVEL", "LOG_ENCODING",
	} {
		t.Setenv(key, "")
	}
	// keep a developer's .env out of the test
	chdir(t, t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, types.DefaultBaseURL, cfg.APIURL)
	assert.Equal(t, types.DefaultTimeout, cfg.Timeout)
	assert.Equal(t, StoreFile, cfg.Store.Kind)
	assert.Equal(t, "default", cfg.Store.Scope)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.False(t, cfg.HasCredentials())
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("BIGCAPITAL_API_URL", "https://books.example.com/")
	t.Setenv("BIGCAPITAL_EMAIL", "a@x.com")
	t.Setenv("BIGCAPITAL_PASSWORD", "pw")
	t.Setenv("BIGCAPITAL_TIMEOUT", "45")
	t.Setenv("BIGCAPITAL_RETRY_MAX", "2")
	t.Setenv("BIGCAPITAL_STORE", "Bolt")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://books.example.com", cfg.APIURL)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.RetryMax)
	assert.Equal(t, StoreBolt, cfg.Store.Kind)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, cfg.HasCredentials())
	assert.Equal(t, "production", cfg.Environment)
}

func TestLoad_UnknownStore(t *testing.T) {
	clearEnv(t)
	t.Setenv("BIGCAPITAL_STORE", "etcd")

	_, err := Load()
	assert.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	tests := []struct {
		cfg      StoreConfig
		expected interface{}
	}{
		{StoreConfig{Kind: StoreMemory}, &store.MemoryStore{}},
		{StoreConfig{Kind: StoreFile, Path: filepath.Join(dir, "a", "session.json")}, &store.FileStore{}},
		{StoreConfig{Kind: StoreBolt, Path: filepath.Join(dir, "b", "session.db"), Scope: "x"}, &store.BoltStore{}},
	}

	for _, tt := range tests {
		t.Run(tt.cfg.Kind, func(t *testing.T) {
			s, err := OpenStore(ctx, tt.cfg, nil)
			require.NoError(t, err)
			defer s.Close()

			assert.IsType(t, tt.expected, s)
			require.NoError(t, s.Save(ctx, &store.Record{Token: "T1"}))
			record, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, "T1", record.Token)
		})
	}
}

func TestOpenStore_InvalidRedisURL(t *testing.T) {
	_, err := OpenStore(context.Background(), StoreConfig{Kind: StoreRedis, RedisURL: "not a url"}, nil)
	assert.Error(t, err)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
