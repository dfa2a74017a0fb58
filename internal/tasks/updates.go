package tasks

import (
	"fmt"

	"github.com/Cazrath/Heart/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchTracks Phase = iota
	ScanFiles
	ReadTags
	MatchFiles
	SaveFiles
)

func (p Phase) String() string {
	switch p {
	case FetchTracks:
		return "fetch_tracks"
	case ScanFiles:
		return "scan_files"
	case ReadTags:
		return "read_tags"
	case MatchFiles:
		return "match_files"
	case SaveFiles:
		return "save_files"
	default:
		return ""
	}
}

func fetchTracksUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    step,
		Total:   total,
		Message: "Fetching playlist tracks...",
	}
}

func foundPlaylistUpdate(step, total int, export *models.PlaylistExport) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Found playlist: %s (%d tracks)", export.Playlist.Name, len(export.Tracks)),
		Data:    export,
	}
}

func scanFilesUpdate(step, total int, dir string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanFiles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Scanning %s for audio files...", dir),
	}
}

func readTagsUpdate(step, total int, filename string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReadTags,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Reading tags: %s", step, total, filename),
	}
}

func matchFilesUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchFiles,
		Step:    step,
		Total:   total,
		Message: "Matching files against tracks...",
	}
}

func saveFileUpdate(step, total int, track models.Track, filename string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveFiles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s ← %s", step, total, track.Name, filename),
	}
}

func saveFailedUpdate(step, total int, track models.Track, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveFiles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, track.Name, err),
	}
}
