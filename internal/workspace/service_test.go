package workspace

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tildaslashalef/scalpel/internal/chunker"
	"github.com/tildaslashalef/scalpel/internal/loggy"
	"github.com/tildaslashalef/scalpel/internal/parser"
)

// memRepository implements Repository in memory for service tests
type memRepository struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace // keyed by path
	files      map[string]*File      // keyed by workspaceID + path
	chunks     map[string][]*Chunk   // keyed by fileID
}

func newMemRepository() *memRepository {
	return &memRepository{
		workspaces: make(map[string]*Workspace),
		files:      make(map[string]*File),
		chunks:     make(map[string][]*Chunk),
	}
}

func (m *memRepository) SaveWorkspace(ctx context.Context, ws *Workspace) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workspaces[ws.Path] = ws
	return nil
}

func (m *memRepository) GetWorkspaceByID(ctx context.Context, id string) (*Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ws := range m.workspaces {
		if ws.ID == id {
			return ws, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepository) GetWorkspaceByPath(ctx context.Context, path string) (*Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ws, ok := m.workspaces[path]; ok {
		return ws, nil
	}
	return nil, ErrNotFound
}

func (m *memRepository) ListWorkspaces(ctx context.Context) ([]*Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Workspace
	for _, ws := range m.workspaces {
		out = append(out, ws)
	}
	return out, nil
}

func (m *memRepository) SaveFile(ctx context.Context, file *File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[file.WorkspaceID+"/"+file.Path] = file
	return nil
}

func (m *memRepository) GetFileByPath(ctx context.Context, workspaceID, path string) (*File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.files[workspaceID+"/"+path]; ok {
		return f, nil
	}
	return nil, ErrNotFound
}

func (m *memRepository) SaveChunks(ctx context.Context, chunks []*Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range chunks {
		m.chunks[c.FileID] = append(m.chunks[c.FileID], c)
	}
	return nil
}

func (m *memRepository) GetChunksByFileID(ctx context.Context, fileID string) ([]*Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chunks[fileID], nil
}

func (m *memRepository) DeleteChunksByFileID(ctx context.Context, fileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.chunks, fileID)
	return nil
}

func (m *memRepository) CountChunksByWorkspaceID(ctx context.Context, workspaceID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, chunks := range m.chunks {
		for _, c := range chunks {
			if c.WorkspaceID == workspaceID {
				count++
			}
		}
	}
	return count, nil
}

func newTestService(repo Repository) *Service {
	logger := loggy.NewNoopLogger()
	return &Service{
		repo:        repo,
		logger:      logger,
		detector:    parser.NewLanguageDetector(logger),
		chunker:     chunker.NewChunker(chunker.DefaultConfig(), logger),
		concurrency: 2,
		skipHidden:  true,
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestChunkFile(t *testing.T) {
	s := newTestService(newMemRepository())
	dir := t.TempDir()

	path := writeFile(t, dir, "sample.py", "def f():\n    return 1\n\nclass C:\n    pass\n")

	chunks, lang, err := s.ChunkFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, parser.LanguagePython, lang)
	require.Len(t, chunks, 2)
	assert.Equal(t, "function_definition", chunks[0].Kind)
	assert.Equal(t, "class_definition", chunks[1].Kind)
}

func TestChunkFile_UnsupportedLanguage(t *testing.T) {
	s := newTestService(newMemRepository())
	dir := t.TempDir()

	path := writeFile(t, dir, "notes.txt", "just some notes\n")

	chunks, lang, err := s.ChunkFile(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, chunks)
	assert.Empty(t, lang)
}

func TestChunkFile_Missing(t *testing.T) {
	s := newTestService(newMemRepository())

	_, _, err := s.ChunkFile(context.Background(), filepath.Join(t.TempDir(), "nope.go"))
	assert.Error(t, err)
}

func TestIndexDirectory(t *testing.T) {
	repo := newMemRepository()
	s := newTestService(repo)
	dir := t.TempDir()

	writeFile(t, dir, "a.py", "def a():\n    return 1\n")
	writeFile(t, dir, "pkg/b.go", "package pkg\n\nfunc B() int { return 2 }\n")
	writeFile(t, dir, "README.txt", "nothing to chunk here")
	writeFile(t, dir, ".hidden/c.py", "def c():\n    return 3\n")
	writeFile(t, dir, "vendor/dep.go", "package dep\n\nfunc D() {}\n")

	result, err := s.IndexDirectory(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 2, result.FilesIndexed)
	assert.Equal(t, 1, result.FilesSkipped) // README; hidden and vendor dirs never walked
	assert.Equal(t, 2, result.ChunksCreated)
	assert.NotNil(t, result.Workspace)
	assert.NotEmpty(t, result.Workspace.Name)

	count, err := repo.CountChunksByWorkspaceID(context.Background(), result.Workspace.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIndexDirectory_ReindexReplacesChunks(t *testing.T) {
	repo := newMemRepository()
	s := newTestService(repo)
	dir := t.TempDir()

	writeFile(t, dir, "a.py", "def a():\n    return 1\n")

	first, err := s.IndexDirectory(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ChunksCreated)

	// Same file grows a second function; chunks are replaced, not appended
	writeFile(t, dir, "a.py", "def a():\n    return 1\n\ndef b():\n    return 2\n")

	second, err := s.IndexDirectory(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, second.Workspace.ID, first.Workspace.ID)

	count, err := repo.CountChunksByWorkspaceID(context.Background(), first.Workspace.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNewWorkspace(t *testing.T) {
	dir := t.TempDir()

	ws, err := New(dir, "")
	require.NoError(t, err)
	assert.NotEmpty(t, ws.ID)
	assert.NotEmpty(t, ws.Name)
	assert.Equal(t, dir, ws.Path)

	_, err = New(filepath.Join(dir, "does-not-exist"), "x")
	assert.Error(t, err)
}
