package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/Cazrath/Heart/internal/player"
	"github.com/Cazrath/Heart/internal/shared"
	"github.com/urfave/cli/v3"
)

// Play plays a single stored track and blocks until it ends or the user interrupts.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	trackID := cmd.StringArg("track")
	volume := cmd.Float("volume")

	if trackID == "" {
		return fmt.Errorf("%w: track ID is required", shared.ErrMissingArgument)
	}

	st, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	engine := player.NewFFPlayEngine(r.config.Player.EngineCommand, r.config.Player.ProbeCommand, r.logger)
	if !engine.Available() {
		return fmt.Errorf("%w: ffplay not found in PATH", shared.ErrNoMediaEngine)
	}

	controller := player.NewController(st, engine)
	if err := controller.SetVolume(ctx, volume); err != nil {
		return err
	}

	if err := controller.Play(ctx, trackID); err != nil {
		return err
	}
	defer controller.Stop(context.Background())

	r.writePlain("▶ Playing %s\n", trackID)
	r.writePlain("Press Ctrl+C to stop\n\n")

	playCtx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-playCtx.Done():
			r.writePlain("\n⏹ Stopped\n")
			return nil
		case <-ticker.C:
			session := controller.Session()
			if session.State == player.StatusIdle {
				r.writePlain("\n✓ Finished\n")
				return nil
			}
			if session.DurationSeconds > 0 {
				r.writePlain("\r%s / %s",
					shared.FormatDuration(int(session.PositionSeconds)),
					shared.FormatDuration(int(session.DurationSeconds)))
			}
		}
	}
}
