package workspace

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tildaslashalef/scalpel/internal/chunker"
	"github.com/tildaslashalef/scalpel/internal/loggy"
)

func newTestRepository(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewSQLRepository(db, loggy.NewNoopLogger()), mock
}

func TestSaveWorkspace(t *testing.T) {
	repo, mock := newTestRepository(t)

	ws, err := New(t.TempDir(), "test-ws")
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO workspaces").
		WithArgs(ws.ID, ws.Name, ws.Path, ws.CreatedAt, ws.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.SaveWorkspace(context.Background(), ws)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetWorkspaceByPath(t *testing.T) {
	repo, mock := newTestRepository(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "name", "path", "created_at", "updated_at"}).
		AddRow("ws-123", "alpha", "/code/alpha", now, now)

	mock.ExpectQuery("SELECT id, name, path, created_at, updated_at FROM workspaces").
		WithArgs("/code/alpha").
		WillReturnRows(rows)

	ws, err := repo.GetWorkspaceByPath(context.Background(), "/code/alpha")
	require.NoError(t, err)
	assert.Equal(t, "ws-123", ws.ID)
	assert.Equal(t, "alpha", ws.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetWorkspaceByPath_NotFound(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("SELECT id, name, path, created_at, updated_at FROM workspaces").
		WithArgs("/missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "path", "created_at", "updated_at"}))

	_, err := repo.GetWorkspaceByPath(context.Background(), "/missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveFile(t *testing.T) {
	repo, mock := newTestRepository(t)

	file := NewFile("ws-123", "internal/app/app.go", "go")

	mock.ExpectExec("INSERT INTO files").
		WithArgs(file.ID, file.WorkspaceID, file.Path, file.Language, file.LastParsed, file.CreatedAt, file.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.SaveFile(context.Background(), file)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveChunks(t *testing.T) {
	repo, mock := newTestRepository(t)

	chunks := []*Chunk{
		NewChunk("ws-123", "file-456", chunker.Chunk{
			Kind:      "function_definition",
			Text:      "def f():\n    return 1",
			StartLine: 0,
			EndLine:   1,
		}),
		NewChunk("ws-123", "file-456", chunker.Chunk{
			Kind:      "class_definition",
			Text:      "class C:\n    pass",
			StartLine: 3,
			EndLine:   4,
		}),
	}

	mock.ExpectExec("INSERT INTO chunks").
		WillReturnResult(sqlmock.NewResult(2, 2))

	err := repo.SaveChunks(context.Background(), chunks)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveChunks_Empty(t *testing.T) {
	repo, mock := newTestRepository(t)

	err := repo.SaveChunks(context.Background(), nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetChunksByFileID(t *testing.T) {
	repo, mock := newTestRepository(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "workspace_id", "file_id", "kind", "content", "start_line", "end_line", "created_at", "updated_at"}).
		AddRow("chunk-1", "ws-123", "file-456", "function_definition", "def f(): pass", 0, 0, now, now).
		AddRow("chunk-2", "ws-123", "file-456", "class_definition", "class C: pass", 2, 2, now, now)

	mock.ExpectQuery("SELECT .+ FROM chunks").
		WithArgs("file-456").
		WillReturnRows(rows)

	chunks, err := repo.GetChunksByFileID(context.Background(), "file-456")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "function_definition", chunks[0].Kind)
	assert.Equal(t, "class_definition", chunks[1].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteChunksByFileID(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec("DELETE FROM chunks").
		WithArgs("file-456").
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := repo.DeleteChunksByFileID(context.Background(), "file-456")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountChunksByWorkspaceID(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("ws-123").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.CountChunksByWorkspaceID(context.Background(), "ws-123")
	require.NoError(t, err)
	assert.Equal(t, 42, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
