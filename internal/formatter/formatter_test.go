package formatter

import (
	"strings"
	"testing"

	"github.com/Cazrath/Heart/internal/match"
	"github.com/Cazrath/Heart/internal/models"
	"github.com/Cazrath/Heart/internal/tags"
)

func testPlaylistExport() *models.PlaylistExport {
	return &models.PlaylistExport{
		Playlist: models.Playlist{
			ID:          "test123",
			Name:        "Test Playlist",
			Description: "A test playlist",
			TrackCount:  2,
			Public:      true,
		},
		Tracks: []models.Track{
			{ID: "track1", Name: "Song One", Artists: "Artist One", DurationMS: 180000, ISRC: "USRC12345678"},
			{ID: "track2", Name: "Song Two", Artists: "Artist Two, Artist Three", DurationMS: 240000},
		},
	}
}

func testAssignment() *match.Assignment {
	matched := match.NewCandidate("/music/song one.mp3", tags.Tags{})
	leftover := match.NewCandidate("/music/other.mp3", tags.Tags{})

	return &match.Assignment{
		Entries: []match.Entry{
			{
				Track:     models.Track{ID: "track1", Name: "Song One", Artists: "Artist One"},
				Candidate: matched,
			},
		},
		UnmatchedTracks: []models.Track{
			{ID: "track2", Name: "Song Two", Artists: "Artist Two"},
		},
		Residual: []match.Candidate{leftover},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testPlaylistExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,Name,Artists,DurationMS,ISRC") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "track1") {
			t.Error("CSV missing track1 ID")
		}
		if !strings.Contains(output, "\"Artist Two, Artist Three\"") {
			t.Error("CSV should quote joined artists")
		}
		if !strings.Contains(output, "USRC12345678") {
			t.Error("CSV missing ISRC")
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testPlaylistExport())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "# Test Playlist") {
			t.Error("Markdown missing title")
		}
		if !strings.Contains(output, "**Visibility**: Public") {
			t.Error("Markdown missing visibility")
		}
		if !strings.Contains(output, "[3:00]") {
			t.Errorf("Markdown missing formatted duration, got: %s", output)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testPlaylistExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Playlist: Test Playlist") {
			t.Error("text missing playlist name")
		}
		if !strings.Contains(output, "1. Artist One - Song One") {
			t.Errorf("text missing numbered track, got: %s", output)
		}
	})
}

func TestReports(t *testing.T) {
	t.Run("ReportToCSV", func(t *testing.T) {
		data, err := ReportToCSV(testAssignment())
		if err != nil {
			t.Fatalf("ReportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "TrackID,Track,Artists,File") {
			t.Errorf("report missing headers, got: %s", output)
		}
		if !strings.Contains(output, "track1,Song One,Artist One,song one.mp3") {
			t.Errorf("report missing matched row, got: %s", output)
		}
		if !strings.Contains(output, "track2,Song Two,Artist Two,\n") {
			t.Errorf("report missing unmatched row, got: %s", output)
		}
		if !strings.Contains(output, ",,,other.mp3") {
			t.Errorf("report missing leftover row, got: %s", output)
		}
	})

	t.Run("ReportToMarkdown", func(t *testing.T) {
		data, err := ReportToMarkdown(testAssignment())
		if err != nil {
			t.Fatalf("ReportToMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "**Matched**: 1") {
			t.Error("report missing matched count")
		}
		if !strings.Contains(output, "## Unmatched Tracks") {
			t.Error("report missing unmatched section")
		}
		if !strings.Contains(output, "`other.mp3`") {
			t.Errorf("report missing leftover file, got: %s", output)
		}
	})
}
