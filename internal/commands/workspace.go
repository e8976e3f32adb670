package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/scalpel/internal/app"
	"github.com/tildaslashalef/scalpel/internal/utils"
	"github.com/tildaslashalef/scalpel/internal/workspace"
)

// WorkspaceCommand returns the workspace command
func WorkspaceCommand() *cli.Command {
	return &cli.Command{
		Name:    "workspace",
		Aliases: []string{"ws"},
		Usage:   "Show workspace details",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Name of the workspace to show (defaults to workspace in current directory)",
			},
			&cli.BoolFlag{
				Name:    "list",
				Aliases: []string{"l"},
				Usage:   "List all known workspaces",
			},
		},
		Action: workspaceShowAction,
	}
}

func workspaceShowAction(c *cli.Context) error {
	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	ctx := context.Background()

	if c.Bool("list") {
		return listWorkspaces(ctx, application)
	}

	ws, err := resolveWorkspace(ctx, application, c.String("name"))
	if err != nil {
		return err
	}

	chunks, err := application.Workspace.Repo().CountChunksByWorkspaceID(ctx, ws.ID)
	if err != nil {
		return fmt.Errorf("failed to count chunks: %w", err)
	}

	utils.PrintHeading("Workspace " + ws.Name)
	utils.PrintKeyValue("ID", ws.ID)
	utils.PrintKeyValue("Path", ws.Path)
	utils.PrintKeyValue("Chunks", fmt.Sprintf("%d", chunks))
	utils.PrintKeyValue("Created", ws.CreatedAt.Format("2006-01-02 15:04:05"))
	utils.PrintKeyValue("Updated", ws.UpdatedAt.Format("2006-01-02 15:04:05"))

	return nil
}

// resolveWorkspace finds a workspace by name (exact match wins over a
// partial one) or falls back to the workspace rooted at the current
// directory
func resolveWorkspace(ctx context.Context, application *app.App, name string) (*workspace.Workspace, error) {
	if name == "" {
		currentDir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}

		ws, err := application.Workspace.GetWorkspaceByPath(ctx, currentDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get workspace for current directory: %w", err)
		}
		return ws, nil
	}

	workspaces, err := application.Workspace.ListWorkspaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	var partial *workspace.Workspace
	for _, w := range workspaces {
		if w.Name == name {
			return w, nil
		}
		if partial == nil && strings.Contains(strings.ToLower(w.Name), strings.ToLower(name)) {
			partial = w
		}
	}

	if partial == nil {
		return nil, fmt.Errorf("no workspace found with name: %s", name)
	}
	return partial, nil
}

func listWorkspaces(ctx context.Context, application *app.App) error {
	workspaces, err := application.Workspace.ListWorkspaces(ctx)
	if err != nil {
		return fmt.Errorf("failed to list workspaces: %w", err)
	}

	if len(workspaces) == 0 {
		utils.PrintInfo("No workspaces found. Run 'scalpel index <dir>' to create one.")
		return nil
	}

	rows := make([][]string, 0, len(workspaces))
	for _, ws := range workspaces {
		chunks, err := application.Workspace.Repo().CountChunksByWorkspaceID(ctx, ws.ID)
		if err != nil {
			return fmt.Errorf("failed to count chunks: %w", err)
		}
		rows = append(rows, []string{
			ws.Name,
			ws.Path,
			fmt.Sprintf("%d", chunks),
			ws.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	utils.PrintTable(
		[]string{"Name", "Path", "Chunks", "Updated"},
		rows,
		utils.TableOptions{Title: "Workspaces"},
	)
	return nil
}
