// Package database provides SQLite database management for Scalpel
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tildaslashalef/scalpel/internal/config"
	"github.com/tildaslashalef/scalpel/internal/loggy"
	"github.com/tildaslashalef/scalpel/internal/migrations"
)

// ErrNotInitialized is returned when the database has not been initialized
var ErrNotInitialized = errors.New("database not initialized")

var (
	db     *sql.DB
	dbLock sync.Mutex
)

// DB returns the database connection
func DB() (*sql.DB, error) {
	if db == nil {
		return nil, ErrNotInitialized
	}
	return db, nil
}

// InitDB initializes the database connection
func InitDB(cfg *config.Config) error {
	dbLock.Lock()
	defer dbLock.Unlock()

	if db != nil {
		// Database already initialized
		return nil
	}

	loggy.Info("Initializing database", "path", cfg.Database.Path)

	connStr := buildSQLiteDSN(&cfg.Database)

	var err error
	db, err = sql.Open("sqlite3", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	// SQLite supports only one writer at a time
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLife)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		db = nil
		return fmt.Errorf("failed to ping database: %w", err)
	}

	loggy.Info("Database initialized successfully")
	return nil
}

// Close closes the database connection
func Close() error {
	dbLock.Lock()
	defer dbLock.Unlock()

	if db == nil {
		return nil
	}

	err := db.Close()
	db = nil
	return err
}

// buildSQLiteDSN builds the SQLite connection string with pragmas
func buildSQLiteDSN(cfg *config.DatabaseConfig) string {
	params := url.Values{}
	params.Set("_journal_mode", cfg.JournalMode)
	params.Set("_synchronous", cfg.SynchronousMode)
	params.Set("_busy_timeout", strconv.Itoa(cfg.BusyTimeout))
	params.Set("_cache_size", strconv.Itoa(cfg.CacheSize))
	if cfg.ForeignKeys {
		params.Set("_foreign_keys", "on")
	}

	return fmt.Sprintf("file:%s?%s", cfg.Path, params.Encode())
}

// newMigrator creates a migrate instance over the embedded migrations
func newMigrator() (*migrate.Migrate, error) {
	if db == nil {
		return nil, ErrNotInitialized
	}

	source, err := migrations.GetSource()
	if err != nil {
		return nil, fmt.Errorf("getting migration source: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return nil, fmt.Errorf("creating migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %w", err)
	}

	return m, nil
}

// MigrateUp applies all pending migrations
func MigrateUp() error {
	m, err := newMigrator()
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}

	loggy.Info("Database migrations applied")
	return nil
}

// MigrateDown rolls back all migrations
func MigrateDown() error {
	m, err := newMigrator()
	if err != nil {
		return err
	}

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rolling back migrations: %w", err)
	}

	loggy.Info("Database migrations rolled back")
	return nil
}

// MigrationVersion returns the current migration version
func MigrationVersion() (uint, bool, error) {
	m, err := newMigrator()
	if err != nil {
		return 0, false, err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading migration version: %w", err)
	}

	return version, dirty, nil
}
