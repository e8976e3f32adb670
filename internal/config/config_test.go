package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tildaslashalef/scalpel/internal/chunker"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, chunker.DefaultMaxChars, cfg.Chunking.MaxChars)
	assert.Equal(t, 4, cfg.Indexing.Concurrency)
	assert.True(t, cfg.Indexing.SkipHidden)
	assert.Equal(t, "WAL", cfg.Database.JournalMode)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("SCALPEL_MAX_CHARS", "2000")
	t.Setenv("SCALPEL_INDEX_CONCURRENCY", "8")
	t.Setenv("SCALPEL_LOG_LEVEL", "debug")
	t.Setenv("SCALPEL_DB_QUERY_TIMEOUT", "10s")

	cfg, err := LoadFromEnv(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, 2000, cfg.Chunking.MaxChars)
	assert.Equal(t, 8, cfg.Indexing.Concurrency)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 10*time.Second, cfg.Database.QueryTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "zero max chars",
			mutate:  func(c *Config) { c.Chunking.MaxChars = 0 },
			wantErr: "chunking config",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Indexing.Concurrency = 0 },
			wantErr: "indexing config",
		},
		{
			name:    "empty db path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database config",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging config",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFromEnv(t.TempDir(), "")
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("bogus"))
}

func TestGlobalConfig(t *testing.T) {
	Set(nil)
	_, err := Get()
	assert.Error(t, err)

	cfg, err := LoadFromEnv(t.TempDir(), "")
	require.NoError(t, err)

	Set(cfg)
	got, err := Get()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
