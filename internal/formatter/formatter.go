// package formatter renders playlists and match reports to CSV, Markdown, and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/Cazrath/Heart/internal/match"
	"github.com/Cazrath/Heart/internal/models"
	"github.com/Cazrath/Heart/internal/shared"
)

// ExportToCSV converts a PlaylistExport to CSV with columns: ID, Name, Artists, DurationMS, ISRC
func ExportToCSV(export *models.PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Artists", "DurationMS", "ISRC"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range export.Tracks {
		record := []string{
			track.ID,
			track.Name,
			track.Artists,
			strconv.Itoa(track.DurationMS),
			track.ISRC,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a PlaylistExport to Markdown
func ExportToMarkdown(export *models.PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Playlist.Name))

	if export.Playlist.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", export.Playlist.Description))
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", len(export.Tracks)))
	buf.WriteString(fmt.Sprintf("**Visibility**: %s\n\n", shared.VisibilityString(export.Playlist.Public)))

	buf.WriteString("## Tracks\n\n")
	for i, track := range export.Tracks {
		duration := shared.FormatDuration(track.DurationMS / 1000)
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n", i+1, track.Artists, track.Name, duration))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a PlaylistExport to plain text
func ExportToText(export *models.PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", export.Playlist.Name))
	if export.Playlist.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", export.Playlist.Description))
	}
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(export.Tracks)))

	for i, track := range export.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artists, track.Name))
	}

	return buf.Bytes(), nil
}

// ReportToCSV renders a match assignment as CSV with one row per track.
//
// Unmatched tracks get an empty File column; leftover files appear at the
// end with an empty TrackID column.
func ReportToCSV(assignment *match.Assignment) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"TrackID", "Track", "Artists", "File"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range assignment.Entries {
		record := []string{entry.Track.ID, entry.Track.Name, entry.Track.Artists, entry.Candidate.Filename}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	for _, track := range assignment.UnmatchedTracks {
		record := []string{track.ID, track.Name, track.Artists, ""}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	for _, candidate := range assignment.Residual {
		record := []string{"", "", "", candidate.Filename}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ReportToMarkdown renders a match assignment as a Markdown report.
func ReportToMarkdown(assignment *match.Assignment) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Match Report\n\n")
	buf.WriteString(fmt.Sprintf("**Matched**: %d\n", len(assignment.Entries)))
	buf.WriteString(fmt.Sprintf("**Unmatched tracks**: %d\n", len(assignment.UnmatchedTracks)))
	buf.WriteString(fmt.Sprintf("**Leftover files**: %d\n\n", len(assignment.Residual)))

	if len(assignment.Entries) > 0 {
		buf.WriteString("## Matched\n\n")
		for _, entry := range assignment.Entries {
			buf.WriteString(fmt.Sprintf("- %s - %s ← `%s`\n", entry.Track.Artists, entry.Track.Name, entry.Candidate.Filename))
		}
		buf.WriteString("\n")
	}

	if len(assignment.UnmatchedTracks) > 0 {
		buf.WriteString("## Unmatched Tracks\n\n")
		for _, track := range assignment.UnmatchedTracks {
			buf.WriteString(fmt.Sprintf("- %s - %s\n", track.Artists, track.Name))
		}
		buf.WriteString("\n")
	}

	if len(assignment.Residual) > 0 {
		buf.WriteString("## Leftover Files\n\n")
		for _, candidate := range assignment.Residual {
			buf.WriteString(fmt.Sprintf("- `%s`\n", candidate.Filename))
		}
	}

	return buf.Bytes(), nil
}
