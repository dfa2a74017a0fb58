package models

import (
	"fmt"
	"strings"
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Playlist represents a remote playlist's display metadata.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TrackCount  int    `json:"track_count"`
	Public      bool   `json:"public"`
}

// PlaylistExport represents a playlist with its complete ordered track listing.
//
// Treated as an immutable snapshot for the duration of a match run.
type PlaylistExport struct {
	Playlist Playlist `json:"playlist"`
	Tracks   []Track  `json:"tracks"`
}

// Track represents a remote playlist entry. Identity is ID; uniqueness is
// guaranteed by the playlist source and not re-validated here.
type Track struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Artists    string `json:"artists"` // display string, names joined by ", "
	DurationMS int    `json:"duration_ms"`
	ISRC       string `json:"isrc,omitempty"`
}

// Duration returns the track length as a [time.Duration].
func (t Track) Duration() time.Duration {
	return time.Duration(t.DurationMS) * time.Millisecond
}

// LocalFile is the durable unit stored by the blob store: a user-supplied
// audio file attached to a remote track identity. At most one record exists
// per track; a new write for the same track overwrites in place.
type LocalFile struct {
	trackID   string
	filename  string
	mime      string
	data      []byte
	createdAt time.Time
	updatedAt time.Time
}

// NewLocalFile creates a LocalFile record for the given track identity.
func NewLocalFile(trackID, filename, mime string, data []byte) *LocalFile {
	now := time.Now()
	return &LocalFile{
		trackID:   trackID,
		filename:  filename,
		mime:      mime,
		data:      data,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreLocalFile reconstructs a LocalFile from persisted columns.
func RestoreLocalFile(trackID, filename, mime string, data []byte, createdAt, updatedAt time.Time) *LocalFile {
	return &LocalFile{
		trackID:   trackID,
		filename:  filename,
		mime:      mime,
		data:      data,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (f *LocalFile) ID() string           { return f.trackID }
func (f *LocalFile) TrackID() string      { return f.trackID }
func (f *LocalFile) Filename() string     { return f.filename }
func (f *LocalFile) Mime() string         { return f.mime }
func (f *LocalFile) Data() []byte         { return f.data }
func (f *LocalFile) Size() int            { return len(f.data) }
func (f *LocalFile) CreatedAt() time.Time { return f.createdAt }
func (f *LocalFile) UpdatedAt() time.Time { return f.updatedAt }

// SetUpdatedAt records the time of the most recent overwrite.
func (f *LocalFile) SetUpdatedAt(t time.Time) { f.updatedAt = t }

var _ Model = (*LocalFile)(nil)

// Validate checks that the record carries a key and payload.
func (f *LocalFile) Validate() error {
	if strings.TrimSpace(f.trackID) == "" {
		return fmt.Errorf("track ID is required")
	}
	if f.filename == "" {
		return fmt.Errorf("filename is required")
	}
	if len(f.data) == 0 {
		return fmt.Errorf("file data is empty")
	}
	return nil
}
