package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Cazrath/Heart/internal/models"
	"github.com/Cazrath/Heart/internal/player"
	"github.com/Cazrath/Heart/internal/services"
	"github.com/Cazrath/Heart/internal/shared"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	TrackListView
	PlayerView
)

// BlobIndex is the subset of local storage the TUI reads offline badges from.
type BlobIndex interface {
	ListIDs(ctx context.Context) (map[string]bool, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx              context.Context
	view             ViewState
	catalog          services.Service
	store            BlobIndex
	controller       *player.Controller
	width            int
	height           int
	playlistList     list.Model
	playlists        []models.Playlist
	trackList        list.Model
	selectedPlaylist *models.PlaylistExport
	savedIDs         map[string]bool
	session          player.Session
	notice           string
	err              error
	help             help.Model
	keys             keyMap
}

type playlistsFetchedMsg struct {
	playlists []models.Playlist
	err       error
}

type tracksFetchedMsg struct {
	playlist *models.PlaylistExport
	savedIDs map[string]bool
	err      error
}

type playbackMsg struct {
	err error
}

type tickMsg time.Time

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, catalog services.Service, store BlobIndex, controller *player.Controller) *Model {
	return &Model{
		ctx:        ctx,
		view:       PlaylistListView,
		catalog:    catalog,
		store:      store,
		controller: controller,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init initializes the TUI by fetching playlists.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.playlistList.Width() == 0 {
			m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.trackList.Width() == 0 {
			m.trackList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case PlayerView:
			return m.handlePlayerKeys(msg)
		}

	case playlistsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.playlists = msg.playlists
		items := make([]list.Item, len(msg.playlists))
		for i, pl := range msg.playlists {
			items[i] = playlistItem{playlist: pl}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "Playlists"
		m.playlistList.SetSize(m.width-4, m.height-8)
		return m, nil

	case tracksFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = PlaylistListView
			return m, nil
		}
		m.selectedPlaylist = msg.playlist
		m.savedIDs = msg.savedIDs
		m.controller.SetTracklist(msg.playlist.Tracks)
		items := make([]list.Item, len(msg.playlist.Tracks))
		for i, track := range msg.playlist.Tracks {
			items[i] = trackItem{track: track, saved: msg.savedIDs[track.ID]}
		}
		m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.trackList.Title = fmt.Sprintf("Tracks in '%s'", msg.playlist.Playlist.Name)
		m.trackList.SetSize(m.width-4, m.height-8)
		m.view = TrackListView
		return m, nil

	case playbackMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
			m.view = TrackListView
			return m, nil
		}
		m.notice = ""
		m.session = m.controller.Session()
		m.view = PlayerView
		return m, m.tick()

	case tickMsg:
		if m.view != PlayerView {
			return m, nil
		}
		m.session = m.controller.Session()
		return m, m.tick()
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlaylistListView:
		return m.renderPlaylistList()
	case TrackListView:
		return m.renderTrackList()
	case PlayerView:
		return m.renderPlayer()
	default:
		return ""
	}
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.playlistList.SelectedItem()
		if selected != nil {
			if pl, ok := selected.(playlistItem); ok {
				return m, m.fetchTracks(pl.playlist.ID)
			}
		}
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistListView
		m.notice = ""
		return m, nil
	case "enter":
		selected := m.trackList.SelectedItem()
		if selected != nil {
			if tr, ok := selected.(trackItem); ok {
				return m, m.playTrack(tr.track.ID)
			}
		}
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handlePlayerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.controller.Stop(m.ctx)
		return m, tea.Quit
	case "esc":
		m.view = TrackListView
		return m, nil
	case " ":
		m.controller.Toggle(m.ctx)
	case "n":
		return m, m.transport(m.controller.Next)
	case "p":
		return m, m.transport(m.controller.Prev)
	case "right", "l":
		m.controller.Seek(m.ctx, m.session.Progress()+0.05)
	case "left", "h":
		m.controller.Seek(m.ctx, m.session.Progress()-0.05)
	case "+", "=":
		m.controller.SetVolume(m.ctx, m.session.Volume+0.05)
	case "-":
		m.controller.SetVolume(m.ctx, m.session.Volume-0.05)
	}

	m.session = m.controller.Session()
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.catalog.GetPlaylists(m.ctx)
		return playlistsFetchedMsg{playlists: playlists, err: err}
	}
}

func (m *Model) fetchTracks(playlistID string) tea.Cmd {
	return func() tea.Msg {
		playlist, err := m.catalog.ExportPlaylist(m.ctx, playlistID)
		if err != nil {
			return tracksFetchedMsg{err: err}
		}

		savedIDs, err := m.store.ListIDs(m.ctx)
		if err != nil {
			return tracksFetchedMsg{err: err}
		}
		return tracksFetchedMsg{playlist: playlist, savedIDs: savedIDs}
	}
}

func (m *Model) playTrack(trackID string) tea.Cmd {
	return func() tea.Msg {
		return playbackMsg{err: m.controller.Play(m.ctx, trackID)}
	}
}

func (m *Model) transport(op func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return playbackMsg{err: op(m.ctx)}
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderTrackList() string {
	playKey := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "play"),
	)
	helpKeys := []key.Binding{playKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	notice := ""
	if m.notice != "" {
		notice = "\n" + styles.warn.Render(m.notice)
	}
	return fmt.Sprintf("%s%s\n\n%s", m.trackList.View(), notice, helpView)
}

func (m *Model) renderPlayer() string {
	track := m.currentTrack()
	title := styles.title.Render("Now Playing")

	name := "—"
	artists := ""
	if track != nil {
		name = track.Name
		artists = track.Artists
	}

	state := string(m.session.State)
	position := shared.FormatDuration(int(m.session.PositionSeconds))
	duration := shared.FormatDuration(int(m.session.DurationSeconds))

	info := fmt.Sprintf("%s\n%s\n\n%s  %s / %s  •  vol %d%%  •  %s",
		styles.ok.Render(name),
		styles.dim.Render(artists),
		renderBar(m.session.Progress(), 30),
		position,
		duration,
		int(m.session.Volume*100),
		state,
	)

	helpKeys := []key.Binding{m.keys.toggle, m.keys.next, m.keys.prev, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}

// renderBar draws a textual progress bar of the given width.
func renderBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	filled := int(progress * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return styles.accent.Render(bar)
}

func (m *Model) currentTrack() *models.Track {
	if m.selectedPlaylist == nil {
		return nil
	}
	for i := range m.selectedPlaylist.Tracks {
		if m.selectedPlaylist.Tracks[i].ID == m.session.CurrentTrackID {
			return &m.selectedPlaylist.Tracks[i]
		}
	}
	return nil
}
