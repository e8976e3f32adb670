package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tildaslashalef/scalpel/internal/chunker"
)

// LoadFromEnv loads configuration from environment variables
// Parameters:
// - configDir: Directory containing config files (or empty for default)
// - configFilePath: Path to .env file (or empty for default)
func LoadFromEnv(configDir string, configFilePath string) (*Config, error) {
	cfg := New()

	// If configDir is empty, use the default
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".scalpel")

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	cfg.configDir = configDir

	// Use provided config file path or default
	if configFilePath == "" {
		configFilePath = filepath.Join(configDir, ".env")
	}

	// ENV_FILE_PATH overrides the .env location entirely
	envFilePath := getEnvString("ENV_FILE_PATH", "")
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			return nil, fmt.Errorf("failed to load env file from %s: %w", envFilePath, err)
		}
	} else {
		// Try the config directory first, then the current directory;
		// a missing .env file is not an error
		if err := godotenv.Load(configFilePath); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	// Chunking settings
	cfg.Chunking.MaxChars = getEnvInt("SCALPEL_MAX_CHARS", chunker.DefaultMaxChars)

	// Indexing settings
	cfg.Indexing.Concurrency = getEnvInt("SCALPEL_INDEX_CONCURRENCY", 4)
	cfg.Indexing.SkipHidden = getEnvBool("SCALPEL_INDEX_SKIP_HIDDEN", true)

	// Database settings
	cfg.Database.Path = getEnvString("SCALPEL_DB_PATH", filepath.Join(configDir, "scalpel.db"))
	cfg.Database.JournalMode = getEnvString("SCALPEL_DB_JOURNAL_MODE", "WAL")
	cfg.Database.SynchronousMode = getEnvString("SCALPEL_DB_SYNCHRONOUS", "NORMAL")
	cfg.Database.BusyTimeout = getEnvInt("SCALPEL_DB_BUSY_TIMEOUT", 5000)
	cfg.Database.CacheSize = getEnvInt("SCALPEL_DB_CACHE_SIZE", -8000)
	cfg.Database.ForeignKeys = getEnvBool("SCALPEL_DB_FOREIGN_KEYS", true)
	cfg.Database.ConnMaxLife = getEnvDuration("SCALPEL_DB_CONN_MAX_LIFE", time.Hour)
	cfg.Database.QueryTimeout = getEnvDuration("SCALPEL_DB_QUERY_TIMEOUT", 30*time.Second)

	// Logging settings
	cfg.Logging.Level = getEnvString("SCALPEL_LOG_LEVEL", "info")
	cfg.Logging.Format = getEnvString("SCALPEL_LOG_FORMAT", "text")
	cfg.Logging.Output = getEnvString("SCALPEL_LOG_OUTPUT", filepath.Join(configDir, "scalpel.log"))
	cfg.Logging.AddSource = getEnvBool("SCALPEL_LOG_ADD_SOURCE", false)
	cfg.Logging.TimeFormat = getEnvString("SCALPEL_LOG_TIME_FORMAT", time.RFC3339)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "1", "t", "true", "yes", "y", "on":
			return true
		case "0", "f", "false", "no", "n", "off":
			return false
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
