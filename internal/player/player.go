package player

import (
	"context"
	"fmt"
	"sync"

	"github.com/Cazrath/Heart/internal/models"
	"github.com/Cazrath/Heart/internal/shared"
)

// Status of a playback session.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusPlaying Status = "playing"
	StatusPaused  Status = "paused"
)

// Session is a snapshot of playback state. Not persisted.
type Session struct {
	CurrentTrackID  string
	State           Status
	PositionSeconds float64
	DurationSeconds float64
	Volume          float64
}

// Progress returns position over duration in [0, 1], or 0 when duration is unknown.
func (s Session) Progress() float64 {
	if s.DurationSeconds <= 0 {
		return 0
	}
	p := s.PositionSeconds / s.DurationSeconds
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// BlobSource is the subset of local storage the controller reads through.
type BlobSource interface {
	Get(ctx context.Context, trackID string) (*models.LocalFile, error)
}

// Controller is the playback state machine.
//
// It resolves track IDs to stored attachments and drives a MediaEngine.
// Transport operations are serialized; a new Play supersedes any in-flight
// load, and stale loads never overwrite session state.
type Controller struct {
	mu      sync.Mutex
	store   BlobSource
	engine  MediaEngine
	session Session
	tracks  []models.Track

	// generation increments on every Play and Stop so superseded loads
	// can detect they lost the race.
	generation uint64
}

// NewController creates a controller over the given storage and engine.
func NewController(store BlobSource, engine MediaEngine) *Controller {
	return &Controller{
		store:  store,
		engine: engine,
		session: Session{
			State:  StatusIdle,
			Volume: 1.0,
		},
	}
}

// Session returns a snapshot of the current playback state.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// SetTracklist sets the track list Next and Prev navigate.
func (c *Controller) SetTracklist(tracks []models.Track) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracks = make([]models.Track, len(tracks))
	copy(c.tracks, tracks)
}

// Play resolves trackID against local storage and starts playback.
//
// A missing attachment is recoverable: the session returns to Idle and
// [shared.ErrMissingLocalFile] is returned so the caller can prompt the user.
func (c *Controller) Play(ctx context.Context, trackID string) error {
	c.mu.Lock()
	if c.engine == nil {
		c.mu.Unlock()
		return shared.ErrNoMediaEngine
	}

	c.generation++
	gen := c.generation
	c.session.CurrentTrackID = trackID
	c.session.State = StatusLoading
	c.session.PositionSeconds = 0
	c.session.DurationSeconds = 0
	c.mu.Unlock()

	file, err := c.store.Get(ctx, trackID)

	c.mu.Lock()
	if c.generation != gen {
		// A newer request took over while we were resolving.
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		c.resetLocked()
		c.mu.Unlock()
		return err
	}
	if file == nil {
		c.resetLocked()
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", shared.ErrMissingLocalFile, trackID)
	}
	volume := c.session.Volume
	c.mu.Unlock()

	events := Events{
		TimeChanged:     func(s float64) { c.onTime(gen, s) },
		DurationChanged: func(s float64) { c.onDuration(gen, s) },
		Ended:           func() { c.onEnded(gen) },
	}

	if err := c.engine.Load(ctx, file, events); err != nil {
		c.failLoad(gen)
		return err
	}
	if err := c.engine.SetVolume(ctx, volume); err != nil {
		c.failLoad(gen)
		return err
	}
	if err := c.engine.Play(ctx); err != nil {
		c.failLoad(gen)
		return err
	}

	c.mu.Lock()
	if c.generation == gen {
		c.session.State = StatusPlaying
	}
	c.mu.Unlock()
	return nil
}

// Toggle flips Playing and Paused. No-op when no track is loaded.
func (c *Controller) Toggle(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.session.State {
	case StatusPlaying:
		if err := c.engine.Pause(ctx); err != nil {
			return err
		}
		c.session.State = StatusPaused
	case StatusPaused:
		if err := c.engine.Resume(ctx); err != nil {
			return err
		}
		c.session.State = StatusPlaying
	}
	return nil
}

// Seek jumps to fraction of the track duration. Out-of-range fractions are
// clamped. No-op while the duration is still unknown.
func (c *Controller) Seek(ctx context.Context, fraction float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.DurationSeconds <= 0 {
		return nil
	}

	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	position := fraction * c.session.DurationSeconds
	if err := c.engine.Seek(ctx, position); err != nil {
		return err
	}
	c.session.PositionSeconds = position
	return nil
}

// SetVolume clamps v into [0, 1] and forwards it to the engine.
// Out-of-range input is clamped, never rejected.
func (c *Controller) SetVolume(ctx context.Context, v float64) error {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	c.mu.Lock()
	c.session.Volume = v
	engine := c.engine
	c.mu.Unlock()

	if engine == nil {
		return nil
	}
	return engine.SetVolume(ctx, v)
}

// Next plays the track after the current one in the track list.
// Clamps at the end; no-op if the current track left the list.
func (c *Controller) Next(ctx context.Context) error {
	return c.step(ctx, 1)
}

// Prev plays the track before the current one in the track list.
// Clamps at the start; no-op if the current track left the list.
func (c *Controller) Prev(ctx context.Context) error {
	return c.step(ctx, -1)
}

func (c *Controller) step(ctx context.Context, delta int) error {
	c.mu.Lock()
	idx := -1
	for i, t := range c.tracks {
		if t.ID == c.session.CurrentTrackID {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return nil
	}

	next := idx + delta
	if next < 0 {
		next = 0
	}
	if next > len(c.tracks)-1 {
		next = len(c.tracks) - 1
	}
	if next == idx {
		c.mu.Unlock()
		return nil
	}
	trackID := c.tracks[next].ID
	c.mu.Unlock()

	return c.Play(ctx, trackID)
}

// Stop ends playback and returns the session to Idle. Volume is kept.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	state := c.session.State
	c.resetLocked()
	engine := c.engine
	c.mu.Unlock()

	if engine == nil || state == StatusIdle {
		return nil
	}
	return engine.Stop(ctx)
}

// resetLocked returns the session to Idle, preserving volume. Caller holds mu.
func (c *Controller) resetLocked() {
	c.session.CurrentTrackID = ""
	c.session.State = StatusIdle
	c.session.PositionSeconds = 0
	c.session.DurationSeconds = 0
}

// failLoad resets to Idle unless a newer request superseded gen.
func (c *Controller) failLoad(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == gen {
		c.resetLocked()
	}
}

func (c *Controller) onTime(gen uint64, seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == gen {
		c.session.PositionSeconds = seconds
	}
}

func (c *Controller) onDuration(gen uint64, seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == gen {
		c.session.DurationSeconds = seconds
	}
}

func (c *Controller) onEnded(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return
	}
	c.session.PositionSeconds = c.session.DurationSeconds
	c.session.State = StatusIdle
}
