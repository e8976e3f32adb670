// Package workspace provides indexed-workspace management for the Scalpel application
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goombaio/namegenerator"

	"github.com/tildaslashalef/scalpel/internal/chunker"
	"github.com/tildaslashalef/scalpel/internal/parser"
	"github.com/tildaslashalef/scalpel/internal/ulid"
)

// Workspace represents a directory of source code that has been indexed
type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates a new workspace rooted at path. An empty name gets a
// generated one.
func New(path string, name string) (*Workspace, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}

	if _, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("checking workspace path: %w", err)
	}

	if name == "" {
		name = generateName()
	}

	now := time.Now()
	return &Workspace{
		ID:        ulid.WorkspaceID(),
		Name:      name,
		Path:      absPath,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// generateName creates a random, memorable workspace name
func generateName() string {
	seed := time.Now().UTC().UnixNano()
	return namegenerator.NewNameGenerator(seed).Generate()
}

// File represents a source file in an indexed workspace
type File struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspace_id"`
	Path        string     `json:"path"`     // Relative to the workspace root
	Language    string     `json:"language"` // Detected language identifier
	LastParsed  *time.Time `json:"last_parsed,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewFile creates a new file record
func NewFile(workspaceID, path string, language parser.Language) *File {
	now := time.Now()
	return &File{
		ID:          ulid.FileID(),
		WorkspaceID: workspaceID,
		Path:        path,
		Language:    string(language),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UpdateLastParsed updates the LastParsed timestamp to the current time
func (f *File) UpdateLastParsed() {
	now := time.Now()
	f.LastParsed = &now
	f.UpdatedAt = now
}

// Chunk represents a stored semantic chunk of a file
type Chunk struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	FileID      string    `json:"file_id"`
	Kind        string    `json:"kind"`
	Content     string    `json:"content"`
	StartLine   int       `json:"start_line"`
	EndLine     int       `json:"end_line"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewChunk creates a stored chunk from a chunker result
func NewChunk(workspaceID, fileID string, c chunker.Chunk) *Chunk {
	now := time.Now()
	return &Chunk{
		ID:          ulid.ChunkID(),
		WorkspaceID: workspaceID,
		FileID:      fileID,
		Kind:        c.Kind,
		Content:     c.Text,
		StartLine:   c.StartLine,
		EndLine:     c.EndLine,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
