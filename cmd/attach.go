package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cazrath/Heart/internal/formatter"
	"github.com/Cazrath/Heart/internal/match"
	"github.com/Cazrath/Heart/internal/shared"
	"github.com/Cazrath/Heart/internal/tasks"
	"github.com/urfave/cli/v3"
)

// discardStore accepts writes without persisting anything, used for dry runs.
type discardStore struct{}

func (discardStore) Put(ctx context.Context, trackID, filename, mime string, data []byte) error {
	return nil
}

// AttachRun scans a directory, matches files against a playlist, and saves the pairs.
func (r *Runner) AttachRun(ctx context.Context, cmd *cli.Command) error {
	playlist := cmd.String("playlist")
	dir := cmd.String("dir")
	modeToken := cmd.String("mode")
	reportFile := cmd.String("report")
	dryRun := cmd.Bool("dry-run")

	mode, err := match.ParseMode(modeToken)
	if err != nil {
		return err
	}

	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	var engine *tasks.FileEngine
	if dryRun {
		engine = tasks.NewFileEngine(r.spotify, r.reader, discardStore{})
	} else {
		st, closeStore, err := r.openStore()
		if err != nil {
			return err
		}
		defer closeStore()
		engine = tasks.NewFileEngine(r.spotify, r.reader, st)
	}

	r.logger.Info("starting attach run", "playlist", playlist, "dir", dir, "mode", mode)
	r.writePlain("Attaching local files...\n")
	r.writePlain("Playlist: %s\n", playlist)
	r.writePlain("Directory: %s\n", dir)
	r.writePlain("Mode: %s\n", mode)
	if dryRun {
		r.writePlain("Dry run: files will not be saved\n")
	}
	r.writePlain("\n")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchTracks:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ScanFiles:
				r.writePlain("📂 %s\n", update.Message)
			case tasks.ReadTags:
				r.writePlain("   %s\n", update.Message)
			case tasks.MatchFiles:
				r.writePlain("\n🔗 %s\n", update.Message)
			case tasks.SaveFiles:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Run(ctx, playlist, dir, mode, progressCh)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Attach Complete!")
	r.writePlain("Run: %s\n", result.RunID)
	r.writePlain("Playlist: %s (%d tracks)\n", result.Playlist.Playlist.Name, len(result.Playlist.Tracks))
	r.writePlain("Audio files found: %d (%d with readable tags)\n", result.FileCount, result.TaggedCount)
	r.writePlain("Matched: %d tracks\n", len(result.Assignment.Entries))
	if dryRun {
		r.writePlain("Would save: %d files\n", len(result.Assignment.Entries))
	} else {
		r.writePlain("Saved: %d files\n", result.SavedCount)
	}

	if result.FailedCount > 0 {
		r.writePlain("\nFailed to save %d files:\n", result.FailedCount)
		for _, failure := range result.Failures {
			r.writePlain("  - %s - %s: %v\n", failure.Track.Artists, failure.Track.Name, failure.Err)
		}
	}

	if len(result.Assignment.UnmatchedTracks) > 0 {
		r.writePlain("\nUnmatched tracks:\n")
		for i, track := range result.Assignment.UnmatchedTracks {
			r.writePlain("  %d. %s - %s\n", i+1, track.Artists, track.Name)
		}
	}

	if len(result.Assignment.Residual) > 0 {
		r.writePlain("\nLeftover files:\n")
		for i, candidate := range result.Assignment.Residual {
			r.writePlain("  %d. %s\n", i+1, candidate.Filename)
		}
	}

	if reportFile != "" {
		if err := r.writeReport(reportFile, result); err != nil {
			return err
		}
		r.writePlain("\n✓ Report written to %s\n", reportFile)
	}

	return nil
}

// AttachFile attaches a single audio file to a single track.
func (r *Runner) AttachFile(ctx context.Context, cmd *cli.Command) error {
	trackID := cmd.String("track")
	path := cmd.String("file")

	st, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	engine := tasks.NewFileEngine(r.spotify, r.reader, st)

	r.logger.Info("attaching file", "track", trackID, "file", path)

	if err := engine.AttachFile(ctx, trackID, path); err != nil {
		return err
	}

	return r.writePlain("✓ %s ← %s\n", trackID, filepath.Base(path))
}

// writeReport writes the match report in the format implied by the file extension.
func (r *Runner) writeReport(path string, result *tasks.AttachRunResult) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		data, err = formatter.ReportToCSV(result.Assignment)
	case ".md", ".markdown":
		data, err = formatter.ReportToMarkdown(result.Assignment)
	default:
		return fmt.Errorf("%w: report file must end in .csv or .md", shared.ErrInvalidArgument)
	}
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
