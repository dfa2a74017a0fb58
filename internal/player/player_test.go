package player

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Cazrath/Heart/internal/models"
	"github.com/Cazrath/Heart/internal/shared"
)

type fakeStore struct {
	mu    sync.Mutex
	files map[string]*models.LocalFile
	gates map[string]chan struct{}
}

func newFakeStore(trackIDs ...string) *fakeStore {
	s := &fakeStore{files: map[string]*models.LocalFile{}, gates: map[string]chan struct{}{}}
	for _, id := range trackIDs {
		s.files[id] = models.NewLocalFile(id, id+".mp3", "audio/mpeg", []byte("audio"))
	}
	return s
}

func (s *fakeStore) Get(ctx context.Context, trackID string) (*models.LocalFile, error) {
	s.mu.Lock()
	gate := s.gates[trackID]
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files[trackID], nil
}

type fakeEngine struct {
	mu      sync.Mutex
	loaded  *models.LocalFile
	events  Events
	calls   []string
	volume  float64
	loadErr error
	playErr error
}

func (e *fakeEngine) record(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, name)
}

func (e *fakeEngine) Load(ctx context.Context, file *models.LocalFile, events Events) error {
	e.record("load")
	if e.loadErr != nil {
		return e.loadErr
	}
	e.mu.Lock()
	e.loaded = file
	e.events = events
	e.mu.Unlock()
	return nil
}

func (e *fakeEngine) Play(ctx context.Context) error {
	e.record("play")
	return e.playErr
}

func (e *fakeEngine) Pause(ctx context.Context) error  { e.record("pause"); return nil }
func (e *fakeEngine) Resume(ctx context.Context) error { e.record("resume"); return nil }
func (e *fakeEngine) Stop(ctx context.Context) error   { e.record("stop"); return nil }

func (e *fakeEngine) Seek(ctx context.Context, seconds float64) error {
	e.record("seek")
	return nil
}

func (e *fakeEngine) SetVolume(ctx context.Context, volume float64) error {
	e.record("volume")
	e.mu.Lock()
	e.volume = volume
	e.mu.Unlock()
	return nil
}

func (e *fakeEngine) callCount(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, c := range e.calls {
		if c == name {
			n++
		}
	}
	return n
}

func tracklist(ids ...string) []models.Track {
	tracks := make([]models.Track, len(ids))
	for i, id := range ids {
		tracks[i] = models.Track{ID: id, Name: "Track " + id}
	}
	return tracks
}

func TestController(t *testing.T) {
	ctx := context.Background()

	t.Run("Play", func(t *testing.T) {
		engine := &fakeEngine{}
		c := NewController(newFakeStore("t1"), engine)

		if err := c.Play(ctx, "t1"); err != nil {
			t.Fatalf("play failed: %v", err)
		}

		session := c.Session()
		if session.State != StatusPlaying {
			t.Errorf("expected playing, got %s", session.State)
		}
		if session.CurrentTrackID != "t1" {
			t.Errorf("expected current track t1, got %s", session.CurrentTrackID)
		}
		if engine.loaded == nil || engine.loaded.Filename() != "t1.mp3" {
			t.Error("expected attachment handed to engine")
		}
	})

	t.Run("Missing Blob", func(t *testing.T) {
		engine := &fakeEngine{}
		c := NewController(newFakeStore(), engine)

		err := c.Play(ctx, "unknown-id")
		if !errors.Is(err, shared.ErrMissingLocalFile) {
			t.Fatalf("expected ErrMissingLocalFile, got %v", err)
		}

		session := c.Session()
		if session.State != StatusIdle {
			t.Errorf("expected session to remain idle, got %s", session.State)
		}
		if session.CurrentTrackID != "" {
			t.Errorf("expected no current track, got %s", session.CurrentTrackID)
		}
		if engine.callCount("load") != 0 {
			t.Error("engine must not be touched when the blob is missing")
		}
	})

	t.Run("No Engine", func(t *testing.T) {
		c := NewController(newFakeStore("t1"), nil)

		if err := c.Play(ctx, "t1"); !errors.Is(err, shared.ErrNoMediaEngine) {
			t.Errorf("expected ErrNoMediaEngine, got %v", err)
		}
	})

	t.Run("Load Failure Returns To Idle", func(t *testing.T) {
		engine := &fakeEngine{loadErr: errors.New("bad codec")}
		c := NewController(newFakeStore("t1"), engine)

		if err := c.Play(ctx, "t1"); err == nil {
			t.Fatal("expected load error")
		}
		if state := c.Session().State; state != StatusIdle {
			t.Errorf("expected idle after load failure, got %s", state)
		}
	})

	t.Run("Toggle", func(t *testing.T) {
		engine := &fakeEngine{}
		c := NewController(newFakeStore("t1"), engine)

		// Without a loaded track, toggle is a no-op.
		if err := c.Toggle(ctx); err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
		if engine.callCount("pause")+engine.callCount("resume") != 0 {
			t.Error("expected no transport calls while idle")
		}

		if err := c.Play(ctx, "t1"); err != nil {
			t.Fatalf("play failed: %v", err)
		}

		if err := c.Toggle(ctx); err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
		if state := c.Session().State; state != StatusPaused {
			t.Errorf("expected paused, got %s", state)
		}

		if err := c.Toggle(ctx); err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
		if state := c.Session().State; state != StatusPlaying {
			t.Errorf("expected playing, got %s", state)
		}
	})

	t.Run("Seek", func(t *testing.T) {
		engine := &fakeEngine{}
		c := NewController(newFakeStore("t1"), engine)

		if err := c.Play(ctx, "t1"); err != nil {
			t.Fatalf("play failed: %v", err)
		}

		// Duration unknown: seek is a no-op.
		if err := c.Seek(ctx, 0.5); err != nil {
			t.Fatalf("seek failed: %v", err)
		}
		if engine.callCount("seek") != 0 {
			t.Error("expected no seek before duration is known")
		}

		engine.events.DurationChanged(200)

		if err := c.Seek(ctx, 0.25); err != nil {
			t.Fatalf("seek failed: %v", err)
		}
		if pos := c.Session().PositionSeconds; pos != 50 {
			t.Errorf("expected position 50, got %f", pos)
		}

		// Out of range fractions clamp.
		if err := c.Seek(ctx, 1.5); err != nil {
			t.Fatalf("seek failed: %v", err)
		}
		if pos := c.Session().PositionSeconds; pos != 200 {
			t.Errorf("expected position clamped to 200, got %f", pos)
		}
	})

	t.Run("SetVolume Clamps", func(t *testing.T) {
		engine := &fakeEngine{}
		c := NewController(newFakeStore("t1"), engine)

		if err := c.SetVolume(ctx, 1.7); err != nil {
			t.Fatalf("set volume failed: %v", err)
		}
		if v := c.Session().Volume; v != 1 {
			t.Errorf("expected volume clamped to 1, got %f", v)
		}

		if err := c.SetVolume(ctx, -0.3); err != nil {
			t.Fatalf("set volume failed: %v", err)
		}
		if v := c.Session().Volume; v != 0 {
			t.Errorf("expected volume clamped to 0, got %f", v)
		}
		if engine.volume != 0 {
			t.Errorf("expected volume forwarded to engine, got %f", engine.volume)
		}
	})

	t.Run("Next And Prev Clamp", func(t *testing.T) {
		engine := &fakeEngine{}
		c := NewController(newFakeStore("t1", "t2", "t3"), engine)
		c.SetTracklist(tracklist("t1", "t2", "t3"))

		if err := c.Play(ctx, "t1"); err != nil {
			t.Fatalf("play failed: %v", err)
		}

		// No wraparound at the start.
		if err := c.Prev(ctx); err != nil {
			t.Fatalf("prev failed: %v", err)
		}
		if id := c.Session().CurrentTrackID; id != "t1" {
			t.Errorf("expected to stay on t1, got %s", id)
		}

		if err := c.Next(ctx); err != nil {
			t.Fatalf("next failed: %v", err)
		}
		if id := c.Session().CurrentTrackID; id != "t2" {
			t.Errorf("expected t2, got %s", id)
		}

		if err := c.Next(ctx); err != nil {
			t.Fatalf("next failed: %v", err)
		}
		// No wraparound at the end.
		if err := c.Next(ctx); err != nil {
			t.Fatalf("next failed: %v", err)
		}
		if id := c.Session().CurrentTrackID; id != "t3" {
			t.Errorf("expected to stay on t3, got %s", id)
		}
	})

	t.Run("Next Ignores Unknown Current", func(t *testing.T) {
		engine := &fakeEngine{}
		c := NewController(newFakeStore("t1", "t9"), engine)
		c.SetTracklist(tracklist("t1", "t2"))

		if err := c.Play(ctx, "t9"); err != nil {
			t.Fatalf("play failed: %v", err)
		}
		if err := c.Next(ctx); err != nil {
			t.Fatalf("next failed: %v", err)
		}
		if id := c.Session().CurrentTrackID; id != "t9" {
			t.Errorf("expected no navigation for off-list track, got %s", id)
		}
	})

	t.Run("Stop", func(t *testing.T) {
		engine := &fakeEngine{}
		c := NewController(newFakeStore("t1"), engine)

		if err := c.Play(ctx, "t1"); err != nil {
			t.Fatalf("play failed: %v", err)
		}
		if err := c.SetVolume(ctx, 0.4); err != nil {
			t.Fatalf("set volume failed: %v", err)
		}
		if err := c.Stop(ctx); err != nil {
			t.Fatalf("stop failed: %v", err)
		}

		session := c.Session()
		if session.State != StatusIdle || session.CurrentTrackID != "" {
			t.Errorf("expected idle empty session, got %+v", session)
		}
		if session.Volume != 0.4 {
			t.Errorf("expected volume to survive stop, got %f", session.Volume)
		}
	})

	t.Run("Latest Play Wins", func(t *testing.T) {
		store := newFakeStore("t1", "t2")
		gate := make(chan struct{})
		store.gates["t1"] = gate

		engine := &fakeEngine{}
		c := NewController(store, engine)

		firstDone := make(chan error, 1)
		go func() { firstDone <- c.Play(ctx, "t1") }()

		// Supersede the stalled load, then release it.
		if err := c.Play(ctx, "t2"); err != nil {
			t.Fatalf("play failed: %v", err)
		}
		close(gate)

		if err := <-firstDone; err != nil {
			t.Fatalf("superseded play should return nil, got %v", err)
		}

		session := c.Session()
		if session.CurrentTrackID != "t2" || session.State != StatusPlaying {
			t.Errorf("stale load overwrote session: %+v", session)
		}
	})

	t.Run("Stale Events Dropped", func(t *testing.T) {
		engine := &fakeEngine{}
		c := NewController(newFakeStore("t1", "t2"), engine)

		if err := c.Play(ctx, "t1"); err != nil {
			t.Fatalf("play failed: %v", err)
		}
		stale := engine.events

		if err := c.Play(ctx, "t2"); err != nil {
			t.Fatalf("play failed: %v", err)
		}

		stale.DurationChanged(500)
		stale.TimeChanged(250)
		stale.Ended()

		session := c.Session()
		if session.DurationSeconds != 0 || session.PositionSeconds != 0 {
			t.Errorf("stale events mutated session: %+v", session)
		}
		if session.State != StatusPlaying {
			t.Errorf("stale end changed state: %s", session.State)
		}
	})

	t.Run("Ended", func(t *testing.T) {
		engine := &fakeEngine{}
		c := NewController(newFakeStore("t1"), engine)

		if err := c.Play(ctx, "t1"); err != nil {
			t.Fatalf("play failed: %v", err)
		}

		engine.events.DurationChanged(120)
		engine.events.Ended()

		session := c.Session()
		if session.State != StatusIdle {
			t.Errorf("expected idle after natural end, got %s", session.State)
		}
		if session.PositionSeconds != 120 {
			t.Errorf("expected position at duration, got %f", session.PositionSeconds)
		}
	})
}

func TestSessionProgress(t *testing.T) {
	cases := []struct {
		name     string
		position float64
		duration float64
		want     float64
	}{
		{"Unknown Duration", 30, 0, 0},
		{"Halfway", 60, 120, 0.5},
		{"Past End", 150, 120, 1},
		{"Start", 0, 120, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Session{PositionSeconds: tc.position, DurationSeconds: tc.duration}
			if got := s.Progress(); got != tc.want {
				t.Errorf("expected %f, got %f", tc.want, got)
			}
		})
	}
}
