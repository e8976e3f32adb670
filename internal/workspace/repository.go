package workspace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/tildaslashalef/scalpel/internal/loggy"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// Repository defines the storage operations for workspaces, files and chunks
type Repository interface {
	SaveWorkspace(ctx context.Context, ws *Workspace) error
	GetWorkspaceByID(ctx context.Context, id string) (*Workspace, error)
	GetWorkspaceByPath(ctx context.Context, path string) (*Workspace, error)
	ListWorkspaces(ctx context.Context) ([]*Workspace, error)

	SaveFile(ctx context.Context, file *File) error
	GetFileByPath(ctx context.Context, workspaceID, path string) (*File, error)

	SaveChunks(ctx context.Context, chunks []*Chunk) error
	GetChunksByFileID(ctx context.Context, fileID string) ([]*Chunk, error)
	DeleteChunksByFileID(ctx context.Context, fileID string) error
	CountChunksByWorkspaceID(ctx context.Context, workspaceID string) (int, error)
}

// SQLRepository is the SQLite-backed repository
type SQLRepository struct {
	db     *sql.DB
	logger *loggy.Logger
}

// NewSQLRepository creates a new SQL repository
func NewSQLRepository(db *sql.DB, logger *loggy.Logger) *SQLRepository {
	return &SQLRepository{
		db:     db,
		logger: logger,
	}
}

// SaveWorkspace inserts or updates a workspace
func (r *SQLRepository) SaveWorkspace(ctx context.Context, ws *Workspace) error {
	query := sq.Insert("workspaces").
		Columns("id", "name", "path", "created_at", "updated_at").
		Values(ws.ID, ws.Name, ws.Path, ws.CreatedAt, ws.UpdatedAt).
		Suffix("ON CONFLICT(id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("generating SQL: %w", err)
	}

	if _, err = r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("executing query: %w", err)
	}

	return nil
}

// GetWorkspaceByID retrieves a workspace by its ID
func (r *SQLRepository) GetWorkspaceByID(ctx context.Context, id string) (*Workspace, error) {
	return r.getWorkspace(ctx, sq.Eq{"id": id})
}

// GetWorkspaceByPath retrieves a workspace by its root path
func (r *SQLRepository) GetWorkspaceByPath(ctx context.Context, path string) (*Workspace, error) {
	return r.getWorkspace(ctx, sq.Eq{"path": path})
}

func (r *SQLRepository) getWorkspace(ctx context.Context, pred any) (*Workspace, error) {
	query := sq.Select("id", "name", "path", "created_at", "updated_at").
		From("workspaces").
		Where(pred)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("generating SQL: %w", err)
	}

	var ws Workspace
	row := r.db.QueryRowContext(ctx, sqlStr, args...)
	err = row.Scan(&ws.ID, &ws.Name, &ws.Path, &ws.CreatedAt, &ws.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning workspace: %w", err)
	}

	return &ws, nil
}

// ListWorkspaces retrieves all workspaces ordered by creation time
func (r *SQLRepository) ListWorkspaces(ctx context.Context) ([]*Workspace, error) {
	query := sq.Select("id", "name", "path", "created_at", "updated_at").
		From("workspaces").
		OrderBy("created_at ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("generating SQL: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	var workspaces []*Workspace
	for rows.Next() {
		var ws Workspace
		if err := rows.Scan(&ws.ID, &ws.Name, &ws.Path, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning workspace: %w", err)
		}
		workspaces = append(workspaces, &ws)
	}

	return workspaces, rows.Err()
}

// SaveFile inserts or updates a file record
func (r *SQLRepository) SaveFile(ctx context.Context, file *File) error {
	query := sq.Insert("files").
		Columns("id", "workspace_id", "path", "language", "last_parsed", "created_at", "updated_at").
		Values(file.ID, file.WorkspaceID, file.Path, file.Language, file.LastParsed, file.CreatedAt, file.UpdatedAt).
		Suffix("ON CONFLICT(workspace_id, path) DO UPDATE SET language = excluded.language, last_parsed = excluded.last_parsed, updated_at = excluded.updated_at")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("generating SQL: %w", err)
	}

	if _, err = r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("executing query: %w", err)
	}

	return nil
}

// GetFileByPath retrieves a file by its workspace-relative path
func (r *SQLRepository) GetFileByPath(ctx context.Context, workspaceID, path string) (*File, error) {
	query := sq.Select("id", "workspace_id", "path", "language", "last_parsed", "created_at", "updated_at").
		From("files").
		Where(sq.Eq{"workspace_id": workspaceID, "path": path})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("generating SQL: %w", err)
	}

	var file File
	row := r.db.QueryRowContext(ctx, sqlStr, args...)
	err = row.Scan(&file.ID, &file.WorkspaceID, &file.Path, &file.Language, &file.LastParsed, &file.CreatedAt, &file.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning file: %w", err)
	}

	return &file, nil
}

// SaveChunks inserts a batch of chunks
func (r *SQLRepository) SaveChunks(ctx context.Context, chunks []*Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	query := sq.Insert("chunks").
		Columns("id", "workspace_id", "file_id", "kind", "content", "start_line", "end_line", "created_at", "updated_at")

	for _, chunk := range chunks {
		query = query.Values(
			chunk.ID,
			chunk.WorkspaceID,
			chunk.FileID,
			chunk.Kind,
			chunk.Content,
			chunk.StartLine,
			chunk.EndLine,
			chunk.CreatedAt,
			chunk.UpdatedAt,
		)
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("generating SQL: %w", err)
	}

	if _, err = r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("executing query: %w", err)
	}

	return nil
}

// GetChunksByFileID retrieves all chunks for a file in document order
func (r *SQLRepository) GetChunksByFileID(ctx context.Context, fileID string) ([]*Chunk, error) {
	query := sq.Select("id", "workspace_id", "file_id", "kind", "content", "start_line", "end_line", "created_at", "updated_at").
		From("chunks").
		Where(sq.Eq{"file_id": fileID}).
		OrderBy("start_line ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("generating SQL: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	var chunks []*Chunk
	for rows.Next() {
		var chunk Chunk
		err := rows.Scan(
			&chunk.ID,
			&chunk.WorkspaceID,
			&chunk.FileID,
			&chunk.Kind,
			&chunk.Content,
			&chunk.StartLine,
			&chunk.EndLine,
			&chunk.CreatedAt,
			&chunk.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, &chunk)
	}

	return chunks, rows.Err()
}

// DeleteChunksByFileID removes all chunks for a file, used on re-index
func (r *SQLRepository) DeleteChunksByFileID(ctx context.Context, fileID string) error {
	query := sq.Delete("chunks").Where(sq.Eq{"file_id": fileID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("generating SQL: %w", err)
	}

	if _, err = r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("executing query: %w", err)
	}

	return nil
}

// CountChunksByWorkspaceID returns the number of chunks stored for a workspace
func (r *SQLRepository) CountChunksByWorkspaceID(ctx context.Context, workspaceID string) (int, error) {
	query := sq.Select("COUNT(*)").
		From("chunks").
		Where(sq.Eq{"workspace_id": workspaceID})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("generating SQL: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scanning count: %w", err)
	}

	return count, nil
}
