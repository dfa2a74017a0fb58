package ui

import (
	"fmt"

	"github.com/Cazrath/Heart/internal/models"
	"github.com/Cazrath/Heart/internal/shared"
	"github.com/charmbracelet/bubbles/list"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = trackItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d tracks", i.playlist.TrackCount)
	if i.playlist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.playlist.Description)
	}
	return desc
}

// trackItem wraps [models.Track] with its offline status to implement [list.Item].
type trackItem struct {
	track models.Track
	saved bool
}

func (i trackItem) FilterValue() string { return i.track.Name }

func (i trackItem) Title() string {
	if i.saved {
		return fmt.Sprintf("%s ✓", i.track.Name)
	}
	return i.track.Name
}

func (i trackItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.track.Artists, shared.FormatDuration(i.track.DurationMS/1000))
	if i.saved {
		return fmt.Sprintf("%s • offline", desc)
	}
	return desc
}
