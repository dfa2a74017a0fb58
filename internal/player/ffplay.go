package player

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/Cazrath/Heart/internal/models"
	"github.com/Cazrath/Heart/internal/shared"
	"github.com/charmbracelet/log"
)

// FFPlayEngine implements MediaEngine by shelling out to ffplay.
//
// Attachments are spooled to a temp file since ffplay reads from disk.
// Pause and resume use SIGSTOP/SIGCONT on the child process. Seeking and
// volume changes restart ffplay at the target position; ffplay has no
// control channel for a running process.
type FFPlayEngine struct {
	mu       sync.Mutex
	playCmd  string
	probeCmd string
	logger   *log.Logger

	tmpPath  string
	events   Events
	cmd      *exec.Cmd
	paused   bool
	volume   float64
	offset   float64 // position ffplay was last started at
	started  time.Time
	pausedAt time.Time
	duration float64
	done     chan struct{}
}

// NewFFPlayEngine creates an engine using the given player and probe binaries.
// Empty commands default to ffplay and ffprobe on PATH.
func NewFFPlayEngine(playCmd, probeCmd string, logger *log.Logger) *FFPlayEngine {
	if playCmd == "" {
		playCmd = "ffplay"
	}
	if probeCmd == "" {
		probeCmd = "ffprobe"
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &FFPlayEngine{
		playCmd:  playCmd,
		probeCmd: probeCmd,
		logger:   logger,
		volume:   1.0,
	}
}

// Available reports whether the player binary can be found.
func (e *FFPlayEngine) Available() bool {
	_, err := exec.LookPath(e.playCmd)
	return err == nil
}

// Load spools the attachment to disk, probes its duration, and registers events.
func (e *FFPlayEngine) Load(ctx context.Context, file *models.LocalFile, events Events) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
	if e.tmpPath != "" {
		os.Remove(e.tmpPath)
		e.tmpPath = ""
	}

	tmp, err := os.CreateTemp("", "heart-*"+filepath.Ext(file.Filename()))
	if err != nil {
		return fmt.Errorf("failed to spool attachment: %w", err)
	}
	if _, err := tmp.Write(file.Data()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to spool attachment: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to spool attachment: %w", err)
	}

	e.tmpPath = tmp.Name()
	e.events = events
	e.offset = 0
	e.duration = 0

	if d, err := e.probeDuration(ctx, e.tmpPath); err != nil {
		e.logger.Debug("duration probe failed", "file", file.Filename(), "error", err)
	} else {
		e.duration = d
		if events.DurationChanged != nil {
			events.DurationChanged(d)
		}
	}

	return nil
}

// Play starts ffplay on the spooled attachment.
func (e *FFPlayEngine) Play(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked(ctx, 0)
}

// Pause suspends the ffplay process.
func (e *FFPlayEngine) Pause(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pauseLocked()
}

// pauseLocked suspends the running process. Caller holds mu.
func (e *FFPlayEngine) pauseLocked() error {
	if e.cmd == nil || e.paused {
		return nil
	}
	if err := e.cmd.Process.Signal(syscall.SIGSTOP); err != nil {
		return fmt.Errorf("failed to pause: %w", err)
	}
	e.paused = true
	e.pausedAt = time.Now()
	return nil
}

// Resume continues a paused ffplay process.
func (e *FFPlayEngine) Resume(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cmd == nil || !e.paused {
		return nil
	}
	if err := e.cmd.Process.Signal(syscall.SIGCONT); err != nil {
		return fmt.Errorf("failed to resume: %w", err)
	}
	// Shift the start time so elapsed position excludes the paused gap.
	e.started = e.started.Add(time.Since(e.pausedAt))
	e.paused = false
	return nil
}

// Seek restarts playback at the given position. A paused track stays paused.
func (e *FFPlayEngine) Seek(ctx context.Context, seconds float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tmpPath == "" {
		return nil
	}

	wasPaused := e.paused
	if err := e.startLocked(ctx, seconds); err != nil {
		return err
	}
	if wasPaused {
		return e.pauseLocked()
	}
	return nil
}

// SetVolume stores the volume and applies it by restarting playback in place.
// A paused track stays paused at the new position.
func (e *FFPlayEngine) SetVolume(ctx context.Context, volume float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.volume = volume
	if e.cmd == nil {
		return nil
	}

	wasPaused := e.paused
	pos := e.positionLocked()
	if err := e.startLocked(ctx, pos); err != nil {
		return err
	}
	if wasPaused {
		return e.pauseLocked()
	}
	return nil
}

// Stop kills the player process and removes the spooled file.
func (e *FFPlayEngine) Stop(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
	if e.tmpPath != "" {
		os.Remove(e.tmpPath)
		e.tmpPath = ""
	}
	return nil
}

// startLocked launches ffplay at offset, replacing any running process. Caller holds mu.
func (e *FFPlayEngine) startLocked(ctx context.Context, offset float64) error {
	e.stopLocked()

	args := []string{
		"-nodisp",
		"-autoexit",
		"-loglevel", "quiet",
		"-volume", strconv.Itoa(int(e.volume * 100)),
	}
	if offset > 0 {
		args = append(args, "-ss", strconv.FormatFloat(offset, 'f', 3, 64))
	}
	args = append(args, e.tmpPath)

	cmd := exec.Command(e.playCmd, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNoMediaEngine, err)
	}

	e.cmd = cmd
	e.paused = false
	e.offset = offset
	e.started = time.Now()
	e.done = make(chan struct{})

	go e.watch(cmd, e.done)
	go e.tick(e.done)
	return nil
}

// stopLocked kills any running process and its watchers. Caller holds mu.
func (e *FFPlayEngine) stopLocked() {
	if e.cmd == nil {
		return
	}
	if e.paused {
		e.cmd.Process.Signal(syscall.SIGCONT)
	}
	e.cmd.Process.Kill()
	close(e.done)
	e.done = nil
	e.cmd = nil
	e.paused = false
}

// watch waits for the process and reports a natural end.
func (e *FFPlayEngine) watch(cmd *exec.Cmd, done chan struct{}) {
	err := cmd.Wait()

	select {
	case <-done:
		// Killed by stopLocked, not a natural end.
		return
	default:
	}

	e.mu.Lock()
	ended := e.cmd == cmd
	events := e.events
	if ended {
		// Natural end tears down the ticker the same way stopLocked does.
		close(e.done)
		e.done = nil
		e.cmd = nil
		e.paused = false
	}
	e.mu.Unlock()

	if ended && err == nil && events.Ended != nil {
		events.Ended()
	}
}

// tick emits position updates until playback stops.
func (e *FFPlayEngine) tick(done chan struct{}) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			e.mu.Lock()
			pos := e.positionLocked()
			events := e.events
			e.mu.Unlock()

			if events.TimeChanged != nil {
				events.TimeChanged(pos)
			}
		}
	}
}

// positionLocked derives the playback position from wall time. Caller holds mu.
func (e *FFPlayEngine) positionLocked() float64 {
	if e.cmd == nil {
		return e.offset
	}

	elapsed := time.Since(e.started)
	if e.paused {
		elapsed = e.pausedAt.Sub(e.started)
	}

	pos := e.offset + elapsed.Seconds()
	if e.duration > 0 && pos > e.duration {
		pos = e.duration
	}
	return pos
}

// probeDuration asks ffprobe for the container duration in seconds.
func (e *FFPlayEngine) probeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, e.probeCmd,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var result struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(output, &result); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	if result.Format.Duration == "" {
		return 0, fmt.Errorf("no duration in probe output")
	}

	seconds, err := strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return seconds, nil
}
