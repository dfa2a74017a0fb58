package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Cazrath/Heart/internal/models"
	"github.com/Cazrath/Heart/internal/shared"
	"github.com/urfave/cli/v3"
)

// localFileInfo is the display projection of a stored file, payload omitted.
type localFileInfo struct {
	TrackID   string    `json:"track_id"`
	Filename  string    `json:"filename"`
	Mime      string    `json:"mime"`
	SizeBytes int       `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func fileInfo(f *models.LocalFile) localFileInfo {
	return localFileInfo{
		TrackID:   f.TrackID(),
		Filename:  f.Filename(),
		Mime:      f.Mime(),
		SizeBytes: f.Size(),
		CreatedAt: f.CreatedAt(),
		UpdatedAt: f.UpdatedAt(),
	}
}

// FilesList lists all locally stored audio files.
func (r *Runner) FilesList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")

	st, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	files, err := st.List(ctx)
	if err != nil {
		return err
	}

	if useJSON {
		infos := make([]localFileInfo, 0, len(files))
		for _, f := range files {
			infos = append(infos, fileInfo(f))
		}
		return r.writeJSON(infos, true)
	}

	if len(files) == 0 {
		return r.writePlain("No stored files.\n")
	}

	r.writePlain("Found %d stored files:\n\n", len(files))
	for i, f := range files {
		r.writePlain("%d. %s\n", i+1, f.Filename())
		r.writePlain("   Track: %s\n", f.TrackID())
		r.writePlain("   Type: %s (%d bytes)\n", f.Mime(), f.Size())
		r.writePlain("\n")
	}

	return nil
}

// FilesInfo shows details for a single stored file.
func (r *Runner) FilesInfo(ctx context.Context, cmd *cli.Command) error {
	trackID := cmd.StringArg("track")
	if trackID == "" {
		return fmt.Errorf("%w: track ID is required", shared.ErrMissingArgument)
	}

	st, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	file, err := st.Get(ctx, trackID)
	if err != nil {
		return err
	}
	if file == nil {
		return fmt.Errorf("%w: track %s", shared.ErrMissingLocalFile, trackID)
	}

	return r.writeJSON(fileInfo(file), true)
}

// FilesRemove deletes a stored file.
func (r *Runner) FilesRemove(ctx context.Context, cmd *cli.Command) error {
	trackID := cmd.StringArg("track")
	if trackID == "" {
		return fmt.Errorf("%w: track ID is required", shared.ErrMissingArgument)
	}

	st, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.Delete(ctx, trackID); err != nil {
		return err
	}

	r.logger.Info("stored file removed", "track", trackID)

	return r.writePlain("✓ Removed stored file for track %s\n", trackID)
}
