// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for offline playback:
//  1. [PlaylistListView] : Browse playlists from the catalog
//  2. [TrackListView] : Tracks with offline badges for attached files
//  3. [PlayerView] : Transport controls over the playback controller
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Session state is polled on a short tick while the player view is active, so
// position and duration reported by the media engine stay current on screen.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, space, n/p, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
