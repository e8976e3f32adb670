package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/scalpel/internal/database"
	"github.com/tildaslashalef/scalpel/internal/utils"
)

// MigrateCommand returns the CLI command for database migrations
func MigrateCommand() *cli.Command {
	return &cli.Command{
		Name:   "migrate",
		Usage:  "Manage database migrations",
		Hidden: true,
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: func(c *cli.Context) error {
					utils.PrintInfo("Applying embedded migrations")

					if err := database.MigrateUp(); err != nil {
						utils.PrintError(fmt.Sprintf("Failed to apply migrations: %s", err))
						return fmt.Errorf("failed to apply migrations: %w", err)
					}

					utils.PrintSuccess("Database schema is up-to-date")
					return nil
				},
			},
			{
				Name:  "down",
				Usage: "Roll back all migrations",
				Action: func(c *cli.Context) error {
					utils.PrintWarning("Rolling back all migrations")

					if err := database.MigrateDown(); err != nil {
						utils.PrintError(fmt.Sprintf("Failed to roll back migrations: %s", err))
						return fmt.Errorf("failed to roll back migrations: %w", err)
					}

					utils.PrintSuccess("Migrations rolled back successfully")
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "Show the current migration version",
				Action: func(c *cli.Context) error {
					version, dirty, err := database.MigrationVersion()
					if err != nil {
						utils.PrintError(fmt.Sprintf("Failed to read migration version: %s", err))
						return fmt.Errorf("failed to read migration version: %w", err)
					}

					if version == 0 {
						utils.PrintInfo("No migrations applied yet")
						return nil
					}

					utils.PrintKeyValue("Version", fmt.Sprintf("%d", version))
					utils.PrintKeyValue("Dirty", fmt.Sprintf("%t", dirty))
					return nil
				},
			},
		},
	}
}
