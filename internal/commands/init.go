// Package commands implements the CLI commands
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/scalpel/internal/config"
	"github.com/tildaslashalef/scalpel/internal/database"
	"github.com/tildaslashalef/scalpel/internal/utils"
)

// InitCommand returns the CLI command for initializing Scalpel
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize or update Scalpel environment",
		Description: "Sets up the Scalpel environment including configuration directory " +
			"and database with necessary tables. Use this command for first-time setup " +
			"or to update your database schema after upgrading Scalpel to a new version.",
		Action: func(c *cli.Context) error {
			utils.PrintHeading("Initializing Scalpel")

			homeDir, err := os.UserHomeDir()
			if err != nil {
				utils.PrintError(fmt.Sprintf("Failed to get user home directory: %s", err))
				return fmt.Errorf("failed to get user home directory: %w", err)
			}

			configDir := filepath.Join(homeDir, ".scalpel")
			utils.PrintInfo("Configuration directory: " + color.YellowString("%s", configDir))

			if err := os.MkdirAll(configDir, 0755); err != nil {
				utils.PrintError(fmt.Sprintf("Failed to create config directory: %s", err))
				return fmt.Errorf("failed to create config directory: %w", err)
			}

			configFilePath := filepath.Join(configDir, ".env")
			cfg, err := config.LoadFromEnv(configDir, configFilePath)
			if err != nil {
				utils.PrintError(fmt.Sprintf("Failed to load configuration: %s", err))
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			utils.PrintInfo("Initializing database...")
			if err := database.InitDB(cfg); err != nil {
				utils.PrintError(fmt.Sprintf("Failed to initialize database: %s", err))
				return fmt.Errorf("failed to initialize database: %w", err)
			}

			utils.PrintInfo("Applying database migrations...")
			if err := database.MigrateUp(); err != nil {
				utils.PrintError(fmt.Sprintf("Failed to apply migrations: %s", err))
				return fmt.Errorf("failed to apply migrations: %w", err)
			}

			utils.PrintSuccess("Scalpel initialized successfully!")
			utils.PrintInfo("Configuration file: " + color.YellowString("%s", configFilePath))
			utils.PrintInfo("Database location: " + color.YellowString("%s", cfg.Database.Path))
			utils.PrintInfo("Log file location: " + color.YellowString("%s", cfg.Logging.Output))
			fmt.Println("")
			utils.PrintInfo("You can now use " + color.CyanString("scalpel") + " to chunk your code.")

			return nil
		},
	}
}
