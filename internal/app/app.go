// Package app provides the application initialization and lifecycle management
package app

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/scalpel/internal/config"
	"github.com/tildaslashalef/scalpel/internal/database"
	"github.com/tildaslashalef/scalpel/internal/loggy"
	"github.com/tildaslashalef/scalpel/internal/workspace"
)

// App represents the application instance with its dependencies
type App struct {
	Config    *config.Config
	Workspace *workspace.Service
}

// New initializes a new application instance with all its dependencies
func New() (*App, error) {
	cfg, err := initConfig()
	if err != nil {
		return nil, err
	}

	if err := initLogger(cfg); err != nil {
		return nil, err
	}

	loggy.Info("Application initializing",
		"version", os.Getenv("VERSION"),
		"log_level", cfg.Logging.Level,
	)

	if err := database.InitDB(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := database.MigrateUp(); err != nil {
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	db, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	logger := loggy.GetGlobalLogger()
	workspaceService := workspace.NewService(db, cfg, logger)

	loggy.Info("Application initialized successfully")
	return &App{
		Config:    cfg,
		Workspace: workspaceService,
	}, nil
}

// initConfig loads and sets up the application configuration
func initConfig() (*config.Config, error) {
	cfg, err := config.LoadFromEnv("", "")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	config.Set(cfg)
	return cfg, nil
}

// initLogger initializes the logging system
func initLogger(cfg *config.Config) error {
	err := loggy.Init(loggy.Config{
		Level:      config.ParseLogLevel(cfg.Logging.Level),
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the application
func (app *App) Shutdown() error {
	loggy.Info("Shutting down application")

	if err := database.Close(); err != nil {
		loggy.Error("Error closing database connection", "error", err)
	}

	return nil
}

// FromContext retrieves the App instance from the CLI context
func FromContext(c *cli.Context) (*App, error) {
	if c.App.Metadata == nil {
		return nil, fmt.Errorf("app metadata not found in context")
	}

	app, ok := c.App.Metadata["app"].(*App)
	if !ok {
		return nil, fmt.Errorf("app instance not found in context")
	}

	return app, nil
}
