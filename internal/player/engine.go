// package player drives playback of locally attached audio through a host media engine.
package player

import (
	"context"

	"github.com/Cazrath/Heart/internal/models"
)

// Events carries asynchronous notifications from a media engine.
//
// Callbacks may be invoked from engine-owned goroutines. A nil callback is skipped.
type Events struct {
	// TimeChanged reports the current playback position in seconds.
	TimeChanged func(seconds float64)

	// DurationChanged reports the total duration in seconds, once known.
	DurationChanged func(seconds float64)

	// Ended reports that playback ran to completion.
	Ended func()
}

// MediaEngine defines the interface for host audio playback.
//
// Engines play one attachment at a time; Load replaces any previous one.
type MediaEngine interface {
	// Load prepares the attachment for playback and registers event callbacks.
	Load(ctx context.Context, file *models.LocalFile, events Events) error

	// Play begins playback of the loaded attachment.
	Play(ctx context.Context) error

	// Pause suspends playback, keeping position.
	Pause(ctx context.Context) error

	// Resume continues paused playback.
	Resume(ctx context.Context) error

	// Stop ends playback and releases the loaded attachment.
	Stop(ctx context.Context) error

	// Seek jumps to an absolute position in seconds.
	Seek(ctx context.Context, seconds float64) error

	// SetVolume sets playback volume in [0, 1].
	SetVolume(ctx context.Context, volume float64) error
}
