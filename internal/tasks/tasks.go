// package tasks implements batch attachment of local audio files to playlist tracks.
//
// The core abstraction is AttachEngine, which orchestrates playlist fetches, directory scans,
// tag reads, matching, and blob saves. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cazrath/Heart/internal/match"
	"github.com/Cazrath/Heart/internal/models"
	"github.com/Cazrath/Heart/internal/services"
	"github.com/Cazrath/Heart/internal/shared"
	"github.com/Cazrath/Heart/internal/tags"
)

// AttachFailure records a per-track save failure during a batch run.
type AttachFailure struct {
	Track    models.Track
	Filename string
	Err      error
}

// AttachRunResult contains all data from a batch attach operation.
type AttachRunResult struct {
	RunID       string                 // Unique identifier for this run
	Playlist    *models.PlaylistExport // Playlist with tracks, as fetched
	Assignment  *match.Assignment      // Track to file pairing
	SavedCount  int                    // Files written to local storage
	FailedCount int                    // Matched pairs whose save failed
	Failures    []AttachFailure        // Individual save failures
	TaggedCount int                    // Scanned files with readable tags
	FileCount   int                    // Audio files found in the directory
}

// BlobStore is the subset of local storage the engine writes through.
type BlobStore interface {
	Put(ctx context.Context, trackID, filename, mime string, data []byte) error
}

// AttachEngine defines bulk operations wiring local files to playlist tracks.
type AttachEngine interface {
	// Run fetches a playlist, scans a directory, matches files to tracks, and saves matched pairs.
	Run(ctx context.Context, playlistID, dir string, mode match.Mode, progress chan<- ProgressUpdate) (*AttachRunResult, error)

	// AttachFile attaches a single file to a specific track, bypassing matching.
	AttachFile(ctx context.Context, trackID, path string) error
}

// FileEngine implements AttachEngine against a catalog service, a tag extractor, and local storage.
type FileEngine struct {
	catalog services.Service
	reader  tags.Extractor
	store   BlobStore
}

// NewFileEngine creates a new FileEngine with the provided dependencies.
func NewFileEngine(catalog services.Service, reader tags.Extractor, store BlobStore) *FileEngine {
	return &FileEngine{
		catalog: catalog,
		reader:  reader,
		store:   store,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *FileEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run performs a full batch attach: fetch tracks, scan files, read tags, match, save.
//
// The playlist argument may be an ID or an exact playlist name. Save failures do not
// abort the run; they are collected in the result so one bad file cannot sink a batch.
func (e *FileEngine) Run(ctx context.Context, playlistID, dir string, mode match.Mode, progress chan<- ProgressUpdate) (*AttachRunResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}
	if e.store == nil {
		return nil, fmt.Errorf("%w: local storage not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchTracksUpdate(1, 1))

	export, err := e.exportByIDOrName(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, foundPlaylistUpdate(1, 1, export))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.sendProgress(progress, scanFilesUpdate(1, 1, dir))

	paths, err := e.scanDir(dir)
	if err != nil {
		return nil, err
	}

	candidates := make([]match.Candidate, 0, len(paths))
	tagged := 0
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e.sendProgress(progress, readTagsUpdate(i+1, len(paths), filepath.Base(path)))

		// Missing or unreadable tags leave the candidate filename-only.
		var t tags.Tags
		if e.reader != nil {
			if read, err := e.reader.Read(path); err == nil {
				t = read
				if t != (tags.Tags{}) {
					tagged++
				}
			}
		}
		candidates = append(candidates, match.NewCandidate(path, t))
	}

	e.sendProgress(progress, matchFilesUpdate(1, 1))

	assignment, err := match.Match(export.Tracks, candidates, mode)
	if err != nil {
		return nil, err
	}

	result := &AttachRunResult{
		RunID:       shared.GenerateID(),
		Playlist:    export,
		Assignment:  assignment,
		FileCount:   len(paths),
		TaggedCount: tagged,
	}

	total := len(assignment.Entries)
	for i, entry := range assignment.Entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := e.AttachFile(ctx, entry.Track.ID, entry.Candidate.Path); err != nil {
			result.FailedCount++
			result.Failures = append(result.Failures, AttachFailure{
				Track:    entry.Track,
				Filename: entry.Candidate.Filename,
				Err:      err,
			})
			e.sendProgress(progress, saveFailedUpdate(i+1, total, entry.Track, err))
			continue
		}

		result.SavedCount++
		e.sendProgress(progress, saveFileUpdate(i+1, total, entry.Track, entry.Candidate.Filename))
	}

	return result, nil
}

// AttachFile reads a single file and stores it as the attachment for trackID.
func (e *FileEngine) AttachFile(ctx context.Context, trackID, path string) error {
	if e.store == nil {
		return fmt.Errorf("%w: local storage not initialized", shared.ErrServiceUnavailable)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	filename := filepath.Base(path)
	return e.store.Put(ctx, trackID, filename, mimeForPath(path), data)
}

// exportByIDOrName resolves the argument as a playlist ID first, then as an exact name.
func (e *FileEngine) exportByIDOrName(ctx context.Context, idOrName string) (*models.PlaylistExport, error) {
	export, err := e.catalog.ExportPlaylist(ctx, idOrName)
	if err == nil {
		return export, nil
	}

	playlists, listErr := e.catalog.GetPlaylists(ctx)
	if listErr != nil {
		return nil, fmt.Errorf("%w: failed to get playlists: %v", shared.ErrAPIRequest, listErr)
	}

	for _, pl := range playlists {
		if pl.Name == idOrName {
			return e.catalog.ExportPlaylist(ctx, pl.ID)
		}
	}

	return nil, fmt.Errorf("%w: no playlist with ID or name '%s'", shared.ErrPlaylistNotFound, idOrName)
}

// scanDir lists audio files in dir, non-recursive, in name order.
func (e *FileEngine) scanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if e.reader != nil && !e.reader.CanRead(path) {
			continue
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// mimeTypes maps audio extensions to content types. The system mime database
// is not consulted so stored types stay consistent across hosts.
var mimeTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".opus": "audio/opus",
	".wav":  "audio/wav",
	".aac":  "audio/aac",
}

func mimeForPath(path string) string {
	if t, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return t
	}
	return "application/octet-stream"
}
