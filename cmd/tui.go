package main

import (
	"context"
	"fmt"

	"github.com/Cazrath/Heart/internal/player"
	"github.com/Cazrath/Heart/internal/shared"
	"github.com/Cazrath/Heart/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing and offline playback.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	st, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/heart-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine := player.NewFFPlayEngine(r.config.Player.EngineCommand, r.config.Player.ProbeCommand, fileLogger)
	if !engine.Available() {
		return fmt.Errorf("%w: ffplay not found in PATH", shared.ErrNoMediaEngine)
	}

	controller := player.NewController(st, engine)
	defer controller.Stop(context.Background())

	model := ui.NewModel(ctx, r.spotify, st, controller)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
