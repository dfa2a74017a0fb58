package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Cazrath/Heart/internal/formatter"
	"github.com/Cazrath/Heart/internal/models"
	"github.com/Cazrath/Heart/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistList lists Spotify playlists with optional limit.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("listing spotify playlists with limit %v", limit)

	playlists, err := r.spotify.GetPlaylists(ctx)
	if err != nil {
		if reauthed, authErr := r.handleAuthError(ctx, err, cmd); reauthed {
			if authErr != nil {
				return authErr
			}
			if playlists, err = r.spotify.GetPlaylists(ctx); err != nil {
				return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
			}
		} else {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	if limit > 0 && limit < len(playlists) {
		playlists = playlists[:limit]
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Tracks: %d\n", p.TrackCount)
		r.writePlain("   Visibility: %s\n", shared.VisibilityString(p.Public))
		r.writePlain("\n")
	}

	return nil
}

// PlaylistTracks lists a playlist's tracks and marks the ones with a stored local file.
func (r *Runner) PlaylistTracks(ctx context.Context, cmd *cli.Command) error {
	idOrName := cmd.StringArg("playlist")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if idOrName == "" {
		return fmt.Errorf("%w: playlist name or ID is required", shared.ErrMissingArgument)
	}

	export, err := r.exportPlaylist(ctx, cmd, idOrName)
	if err != nil {
		return err
	}

	savedIDs := map[string]bool{}
	if st, closeStore, err := r.openStore(); err == nil {
		defer closeStore()
		if ids, err := st.ListIDs(ctx); err == nil {
			savedIDs = ids
		} else {
			r.logger.Warnf("failed to read stored file index %v", err)
		}
	} else {
		r.logger.Warnf("local storage unavailable %v", err)
	}

	if useJSON {
		return r.writeJSON(export, pretty)
	}

	savedCount := 0
	for _, track := range export.Tracks {
		if savedIDs[track.ID] {
			savedCount++
		}
	}

	r.writePlain("Playlist: %s\n", export.Playlist.Name)
	if export.Playlist.Description != "" {
		r.writePlain("Description: %s\n", export.Playlist.Description)
	}
	r.writePlain("Tracks: %d (%d offline)\n\n", len(export.Tracks), savedCount)

	for i, track := range export.Tracks {
		marker := " "
		if savedIDs[track.ID] {
			marker = "✓"
		}
		r.writePlain("%s %d. %s - %s [%s]\n", marker, i+1, track.Artists, track.Name, shared.FormatDuration(track.DurationMS/1000))
	}

	return nil
}

// PlaylistExport writes a playlist's track listing to a file or stdout.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	idOrName := cmd.StringArg("playlist")
	format := cmd.String("format")
	outputFile := cmd.String("output")

	if idOrName == "" {
		return fmt.Errorf("%w: playlist name or ID is required", shared.ErrMissingArgument)
	}

	export, err := r.exportPlaylist(ctx, cmd, idOrName)
	if err != nil {
		return err
	}

	var data []byte
	switch strings.ToLower(format) {
	case "json":
		data, err = shared.MarshalJSON(export, true)
	case "csv":
		data, err = formatter.ExportToCSV(export)
	case "markdown", "md":
		data, err = formatter.ExportToMarkdown(export)
	case "text", "txt":
		data, err = formatter.ExportToText(export)
	default:
		return fmt.Errorf("%w: unknown format %q (must be json, csv, markdown, or text)", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return fmt.Errorf("failed to format export: %w", err)
	}

	if outputFile == "" {
		return r.writePlain("%s", string(data))
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	r.logger.Infof("playlist exported to %v with %v tracks", outputFile, len(export.Tracks))

	r.writePlain("✓ Playlist exported to %s\n", outputFile)
	r.writePlain("  Playlist: %s\n", export.Playlist.Name)
	r.writePlain("  Tracks: %d\n", len(export.Tracks))

	return nil
}

// exportPlaylist fetches a full playlist export by ID, falling back to an
// exact name lookup, with automatic reauthorization on expired tokens.
func (r *Runner) exportPlaylist(ctx context.Context, cmd *cli.Command, idOrName string) (*models.PlaylistExport, error) {
	if r.spotify == nil {
		return nil, fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("exporting spotify playlist %v", idOrName)

	export, err := r.resolveExport(ctx, idOrName)
	if err != nil {
		if reauthed, authErr := r.handleAuthError(ctx, err, cmd); reauthed {
			if authErr != nil {
				return nil, authErr
			}
			if export, err = r.resolveExport(ctx, idOrName); err != nil {
				return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
			}
		} else if errors.Is(err, shared.ErrPlaylistNotFound) {
			return nil, err
		} else {
			return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	return export, nil
}

func (r *Runner) resolveExport(ctx context.Context, idOrName string) (*models.PlaylistExport, error) {
	export, err := r.spotify.ExportPlaylist(ctx, idOrName)
	if err == nil {
		return export, nil
	}
	if !errors.Is(err, shared.ErrPlaylistNotFound) {
		return nil, err
	}

	playlists, listErr := r.spotify.GetPlaylists(ctx)
	if listErr != nil {
		return nil, listErr
	}

	for _, p := range playlists {
		if p.Name == idOrName {
			return r.spotify.ExportPlaylist(ctx, p.ID)
		}
	}

	return nil, fmt.Errorf("%w: %q", shared.ErrPlaylistNotFound, idOrName)
}
