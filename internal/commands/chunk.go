package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/scalpel/internal/app"
	"github.com/tildaslashalef/scalpel/internal/chunker"
	"github.com/tildaslashalef/scalpel/internal/loggy"
	"github.com/tildaslashalef/scalpel/internal/parser"
	"github.com/tildaslashalef/scalpel/internal/utils"
)

// ChunkCommand returns the CLI command for chunking source files
func ChunkCommand() *cli.Command {
	return &cli.Command{
		Name:      "chunk",
		Usage:     "Split source files into semantic chunks and print them",
		ArgsUsage: "<file> [<file>...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "max-chars",
				Aliases: []string{"m"},
				Usage:   "Maximum chunk size in characters (overrides configuration)",
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Emit chunks as JSON instead of formatted output",
			},
		},
		Action: chunkAction,
	}
}

func chunkAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("no files specified")
	}

	application, err := app.FromContext(c)
	if err != nil {
		return fmt.Errorf("failed to get application from context: %w", err)
	}

	cfg := chunker.DefaultConfig()
	cfg.MaxChars = application.Config.Chunking.MaxChars
	if c.Int("max-chars") > 0 {
		cfg.MaxChars = c.Int("max-chars")
	}

	logger := loggy.GetGlobalLogger()
	detector := parser.NewLanguageDetector(logger)
	chk := chunker.NewChunker(cfg, logger)

	ctx := context.Background()
	asJSON := c.Bool("json")

	for _, path := range c.Args().Slice() {
		chunks, lang, err := chunkFile(ctx, detector, chk, path)
		if err != nil {
			utils.PrintError(fmt.Sprintf("Failed to chunk %s: %s", path, err))
			return err
		}
		if lang == "" {
			utils.PrintWarning(fmt.Sprintf("Skipping %s: no supported language detected", path))
			continue
		}

		if asJSON {
			if err := printChunksJSON(path, lang, chunks); err != nil {
				return err
			}
			continue
		}

		printChunks(path, lang, chunks)
	}

	return nil
}

func chunkFile(ctx context.Context, detector *parser.LanguageDetector, chk *chunker.Chunker, path string) ([]chunker.Chunk, parser.Language, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading file: %w", err)
	}

	lang, ok := detector.DetectLanguage(path, content)
	if !ok {
		return nil, "", nil
	}

	return chk.ChunkSource(ctx, content, lang), lang, nil
}

func printChunks(path string, lang parser.Language, chunks []chunker.Chunk) {
	utils.PrintHeading(path)
	utils.PrintKeyValue("Language", string(lang))
	utils.PrintKeyValue("Chunks", fmt.Sprintf("%d", len(chunks)))

	for i, chunk := range chunks {
		fmt.Println("")
		header := fmt.Sprintf("[%d] %s (lines %d-%d, %d chars)",
			i+1, chunk.Kind, chunk.StartLine, chunk.EndLine, len(chunk.Text))
		fmt.Println(color.CyanString(header))
		fmt.Println(utils.CodeBlock(chunk.Text))
	}
	utils.PrintDivider()
}

func printChunksJSON(path string, lang parser.Language, chunks []chunker.Chunk) error {
	out := struct {
		Path     string          `json:"path"`
		Language parser.Language `json:"language,omitempty"`
		Chunks   []chunker.Chunk `json:"chunks"`
	}{Path: path, Language: lang, Chunks: chunks}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding chunks: %w", err)
	}
	return nil
}
