// Package config provides application configuration for Scalpel
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

var (
	// Global configuration instance
	globalConfig *Config
	configMutex  sync.RWMutex
)

// Get returns the global configuration instance
// If the configuration has not been initialized, it will return an error
func Get() (*Config, error) {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if globalConfig == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}

	return globalConfig, nil
}

// Set sets the global configuration instance
func Set(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()

	globalConfig = cfg
}

// Config represents the complete application configuration
type Config struct {
	Chunking ChunkingConfig
	Indexing IndexingConfig
	Database DatabaseConfig
	Logging  LoggingConfig

	configDir string // Internal: Directory where config was loaded from
}

// ChunkingConfig represents chunking behaviour configuration
type ChunkingConfig struct {
	MaxChars int // Size budget for a single chunk in bytes
}

// IndexingConfig represents directory indexing configuration
type IndexingConfig struct {
	Concurrency int  // Number of files chunked in parallel
	SkipHidden  bool // Whether to skip dot-directories when walking
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Path            string        // Path to the SQLite database file
	JournalMode     string        // Journal mode (WAL recommended)
	SynchronousMode string        // Synchronous mode
	BusyTimeout     int           // Busy timeout in milliseconds
	CacheSize       int           // Cache size in KiB
	ForeignKeys     bool          // Whether to enforce foreign key constraints
	ConnMaxLife     time.Duration // Maximum connection lifetime
	QueryTimeout    time.Duration // Query timeout
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string // debug, info, warn, error
	Format     string // text or json
	Output     string // stdout, stderr, or file path
	AddSource  bool   // Include source code position in logs
	TimeFormat string // Time format for logs (empty uses RFC3339)
}

// New returns a new empty Config
func New() *Config {
	return &Config{
		Chunking: ChunkingConfig{},
		Indexing: IndexingConfig{},
		Database: DatabaseConfig{},
		Logging:  LoggingConfig{},
	}
}

// ConfigDir returns the directory the configuration was loaded from
func (c *Config) ConfigDir() string {
	return c.configDir
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.validateChunking(); err != nil {
		return fmt.Errorf("chunking config: %w", err)
	}

	if err := c.validateIndexing(); err != nil {
		return fmt.Errorf("indexing config: %w", err)
	}

	if err := c.validateDatabase(); err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	if err := c.validateLogging(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// ParseLogLevel parses a log level string to a slog.Level
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none":
		// Set to a very high level that won't be triggered
		return slog.Level(9999)
	default:
		return slog.LevelInfo
	}
}

func (c *Config) validateChunking() error {
	if c.Chunking.MaxChars <= 0 {
		return fmt.Errorf("max chars must be positive")
	}
	return nil
}

func (c *Config) validateIndexing() error {
	if c.Indexing.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("busy timeout cannot be negative")
	}

	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error", "none":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}
