package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/scalpel/internal/app"
	"github.com/tildaslashalef/scalpel/internal/commands"
)

// Version information - populated at build time
var (
	Version    = "dev"
	BuildTime  = "unknown"
	CommitHash = "unknown"
)

func main() {
	cliApp := &cli.App{
		Name:  "scalpel",
		Usage: "Structural source code chunker",
		Description: "Scalpel splits source files into semantic chunks along the boundaries\n" +
			"of their syntax tree: functions, methods, classes and types, each carrying\n" +
			"its leading doc-comment.\n\n" +
			"When run without subcommands, Scalpel chunks the given files (default action).\n" +
			"Additional subcommands index whole directories into a workspace database.",
		Version: Version,
		Compiled: func() time.Time {
			t, err := time.Parse(time.RFC3339, BuildTime)
			if err != nil {
				return time.Now()
			}
			return t
		}(),
		Before: func(c *cli.Context) error {
			application, err := app.New()
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			// Store the app instance in the context for later use
			c.App.Metadata = map[string]interface{}{
				"app": application,
			}

			return nil
		},
		After: func(c *cli.Context) error {
			if app, ok := c.App.Metadata["app"].(*app.App); ok {
				return app.Shutdown()
			}
			return nil
		},
		Commands: []*cli.Command{
			commands.InitCommand(),
			commands.ChunkCommand(),
			commands.IndexCommand(),
			commands.WorkspaceCommand(),
			commands.MigrateCommand(),
		},
		Action: func(c *cli.Context) error {
			// Default action is to chunk the given files
			return commands.ChunkCommand().Action(c)
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
