package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/scalpel/internal/app"
	"github.com/tildaslashalef/scalpel/internal/utils"
)

// IndexCommand returns the CLI command for indexing a directory
func IndexCommand() *cli.Command {
	return &cli.Command{
		Name:      "index",
		Usage:     "Chunk every supported source file under a directory and persist the result",
		ArgsUsage: "[<directory>]",
		Action:    indexAction,
	}
}

func indexAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	dir := c.Args().First()
	if dir == "" {
		dir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	utils.PrintHeading("Indexing " + color.YellowString("%s", dir))

	result, err := application.Workspace.IndexDirectory(context.Background(), dir)
	if err != nil {
		utils.PrintError(fmt.Sprintf("Indexing failed: %s", err))
		return fmt.Errorf("indexing %s: %w", dir, err)
	}

	utils.PrintSuccess(fmt.Sprintf("Indexed workspace %q in %s",
		result.Workspace.Name, result.Duration.Round(time.Millisecond)))
	utils.PrintKeyValue("Files indexed", fmt.Sprintf("%d", result.FilesIndexed))
	utils.PrintKeyValue("Files skipped", fmt.Sprintf("%d", result.FilesSkipped))
	utils.PrintKeyValue("Chunks created", fmt.Sprintf("%d", result.ChunksCreated))

	return nil
}
