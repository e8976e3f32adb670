package workspace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tildaslashalef/scalpel/internal/chunker"
	"github.com/tildaslashalef/scalpel/internal/config"
	"github.com/tildaslashalef/scalpel/internal/loggy"
	"github.com/tildaslashalef/scalpel/internal/parser"
)

// Service provides workspace indexing operations
type Service struct {
	repo        Repository
	logger      *loggy.Logger
	detector    *parser.LanguageDetector
	chunker     *chunker.Chunker
	concurrency int
	skipHidden  bool
}

// NewService creates a new workspace service
func NewService(db *sql.DB, cfg *config.Config, logger *loggy.Logger) *Service {
	chunkerCfg := chunker.DefaultConfig()
	chunkerCfg.MaxChars = cfg.Chunking.MaxChars

	return &Service{
		repo:        NewSQLRepository(db, logger),
		logger:      logger,
		detector:    parser.NewLanguageDetector(logger),
		chunker:     chunker.NewChunker(chunkerCfg, logger),
		concurrency: cfg.Indexing.Concurrency,
		skipHidden:  cfg.Indexing.SkipHidden,
	}
}

// Repo returns the underlying repository
func (s *Service) Repo() Repository {
	return s.repo
}

// ListWorkspaces returns all known workspaces
func (s *Service) ListWorkspaces(ctx context.Context) ([]*Workspace, error) {
	return s.repo.ListWorkspaces(ctx)
}

// GetWorkspaceByPath returns the workspace rooted at the given path
func (s *Service) GetWorkspaceByPath(ctx context.Context, path string) (*Workspace, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	return s.repo.GetWorkspaceByPath(ctx, abs)
}

// ChunkFile reads a file, detects its language and splits it into
// semantic chunks. Files in no supported language yield no chunks and
// an ok=false language result.
func (s *Service) ChunkFile(ctx context.Context, path string) ([]chunker.Chunk, parser.Language, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading file: %w", err)
	}

	if s.detector.IsBinaryFile(content) {
		return nil, "", fmt.Errorf("binary file: %s", path)
	}

	lang, ok := s.detector.DetectLanguage(path, content)
	if !ok {
		s.logger.Debug("No supported language for file", "path", path)
		return nil, "", nil
	}

	return s.chunker.ChunkSource(ctx, content, lang), lang, nil
}

// IndexResult summarises a directory indexing run
type IndexResult struct {
	Workspace     *Workspace
	FilesIndexed  int
	FilesSkipped  int
	ChunksCreated int
	Duration      time.Duration
}

// IndexDirectory walks a directory tree, chunks every supported source
// file and persists the results. Re-indexing a known workspace replaces
// each file's chunks. Files are chunked in parallel; each chunking call
// is independent and side-effect-free.
func (s *Service) IndexDirectory(ctx context.Context, dirPath string) (*IndexResult, error) {
	started := time.Now()

	ws, err := s.findOrCreateWorkspace(ctx, dirPath)
	if err != nil {
		return nil, err
	}

	paths, err := s.collectFiles(ws.Path)
	if err != nil {
		return nil, fmt.Errorf("collecting files: %w", err)
	}

	result := &IndexResult{Workspace: ws}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, path := range paths {
		path := path
		g.Go(func() error {
			indexed, chunkCount, err := s.indexFile(gctx, ws, path)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if indexed {
				result.FilesIndexed++
				result.ChunksCreated += chunkCount
			} else {
				result.FilesSkipped++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("indexing directory: %w", err)
	}

	result.Duration = time.Since(started)
	s.logger.Info("Directory indexed",
		"workspace", ws.Name,
		"files", result.FilesIndexed,
		"skipped", result.FilesSkipped,
		"chunks", result.ChunksCreated,
		"duration", result.Duration,
	)

	return result, nil
}

// findOrCreateWorkspace looks up a workspace by path, creating one when
// none exists
func (s *Service) findOrCreateWorkspace(ctx context.Context, dirPath string) (*Workspace, error) {
	absPath, err := filepath.Abs(dirPath)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}

	ws, err := s.repo.GetWorkspaceByPath(ctx, absPath)
	if err == nil {
		return ws, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("looking up workspace: %w", err)
	}

	ws, err = New(absPath, "")
	if err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}

	if err := s.repo.SaveWorkspace(ctx, ws); err != nil {
		return nil, fmt.Errorf("saving workspace: %w", err)
	}

	s.logger.Info("Workspace created", "name", ws.Name, "path", ws.Path)
	return ws, nil
}

// collectFiles walks the workspace root and returns candidate file paths
func (s *Service) collectFiles(root string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			if path != root && s.skipHidden && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if name == "vendor" || name == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}

		if s.detector.IsVendorFile(path) {
			return nil
		}

		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return paths, nil
}

// indexFile chunks a single file and persists the result. The boolean
// result reports whether the file produced chunks.
func (s *Service) indexFile(ctx context.Context, ws *Workspace, path string) (bool, int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		// Unreadable files are skipped, not fatal to the batch
		s.logger.Warn("Skipping unreadable file", "path", path, "error", err)
		return false, 0, nil
	}

	if s.detector.IsBinaryFile(content) || s.detector.IsGeneratedFile(path, content) {
		return false, 0, nil
	}

	lang, ok := s.detector.DetectLanguage(path, content)
	if !ok {
		return false, 0, nil
	}

	chunks := s.chunker.ChunkSource(ctx, content, lang)
	if len(chunks) == 0 {
		return false, 0, nil
	}

	relPath, err := filepath.Rel(ws.Path, path)
	if err != nil {
		relPath = path
	}

	file, err := s.repo.GetFileByPath(ctx, ws.ID, relPath)
	if errors.Is(err, ErrNotFound) {
		file = NewFile(ws.ID, relPath, lang)
	} else if err != nil {
		return false, 0, fmt.Errorf("looking up file %s: %w", relPath, err)
	}

	file.Language = string(lang)
	file.UpdateLastParsed()
	if err := s.repo.SaveFile(ctx, file); err != nil {
		return false, 0, fmt.Errorf("saving file %s: %w", relPath, err)
	}

	if err := s.repo.DeleteChunksByFileID(ctx, file.ID); err != nil {
		return false, 0, fmt.Errorf("clearing chunks for %s: %w", relPath, err)
	}

	records := make([]*Chunk, 0, len(chunks))
	for _, c := range chunks {
		records = append(records, NewChunk(ws.ID, file.ID, c))
	}

	if err := s.repo.SaveChunks(ctx, records); err != nil {
		return false, 0, fmt.Errorf("saving chunks for %s: %w", relPath, err)
	}

	return true, len(records), nil
}
