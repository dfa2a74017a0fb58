// package store provides the durable local blob store for attached audio files.
//
// Records are keyed uniquely by remote track ID and survive process restart;
// this is what makes attachments offline-durable rather than session-scoped.
// Keys are independent, so no cross-key locking or transactions span records.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Cazrath/Heart/internal/models"
	"github.com/Cazrath/Heart/internal/shared"
)

// LocalFileStore persists [models.LocalFile] records in SQLite.
type LocalFileStore struct {
	db *sql.DB
}

// NewLocalFileStore creates a LocalFileStore with the given database connection.
func NewLocalFileStore(db *sql.DB) *LocalFileStore {
	return &LocalFileStore{db: db}
}

// Put stores bytes for the given track, overwriting any existing record for
// that key. The upsert is a single statement, so a concurrent Get never
// observes a partial record. Write failures wrap [shared.ErrStorageWrite] and
// are always surfaced; silently losing an attachment would break offline
// playback much later, which is the worse failure.
func (s *LocalFileStore) Put(ctx context.Context, trackID, filename, mime string, data []byte) error {
	file := models.NewLocalFile(trackID, filename, mime, data)
	if err := file.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO local_files (track_id, filename, mime, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(track_id) DO UPDATE SET
			filename = excluded.filename,
			mime = excluded.mime,
			data = excluded.data,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		file.TrackID(),
		file.Filename(),
		file.Mime(),
		file.Data(),
		file.CreatedAt(),
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorageWrite, err)
	}

	return nil
}

// Get retrieves the record for the given track, or (nil, nil) when no file is
// attached. Absence is a normal outcome, not an error.
func (s *LocalFileStore) Get(ctx context.Context, trackID string) (*models.LocalFile, error) {
	query := `
		SELECT track_id, filename, mime, data, created_at, updated_at
		FROM local_files
		WHERE track_id = ?
	`

	file, err := scanLocalFile(s.db.QueryRowContext(ctx, query, trackID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read local file: %w", err)
	}

	return file, nil
}

// List returns all attached records. Ordering is unspecified; this exists for
// diagnostics and saved indicators, not playback.
func (s *LocalFileStore) List(ctx context.Context) ([]*models.LocalFile, error) {
	query := `
		SELECT track_id, filename, mime, data, created_at, updated_at
		FROM local_files
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query local files: %w", err)
	}
	defer rows.Close()

	var files []*models.LocalFile
	for rows.Next() {
		file, err := scanLocalFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan local file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return files, nil
}

// ListIDs returns the set of track IDs that have an attachment, without
// loading blob payloads. Used for saved badges in listings.
func (s *LocalFileStore) ListIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT track_id FROM local_files")
	if err != nil {
		return nil, fmt.Errorf("failed to query track IDs: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan track ID: %w", err)
		}
		ids[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// Delete removes the record for the given track. Deleting an absent key is
// not an error.
func (s *LocalFileStore) Delete(ctx context.Context, trackID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM local_files WHERE track_id = ?", trackID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorageWrite, err)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for shared scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanLocalFile(row scanner) (*models.LocalFile, error) {
	var (
		trackID   string
		filename  string
		mime      string
		data      []byte
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&trackID, &filename, &mime, &data, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return models.RestoreLocalFile(trackID, filename, mime, data, createdAt, updatedAt), nil
}
