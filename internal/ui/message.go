package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/playlistctl/internal/browse"
	"github.com/desertthunder/playlistctl/internal/models"
	"github.com/desertthunder/playlistctl/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPlaylistsLoaded MsgKind = iota
	MsgPlaylistDeleted
	MsgPlaylistCreated
	MsgDetailLoaded
	MsgSongAppended
	MsgProgressUpdate
	MsgProgressDone
	MsgFlashExpired
)

type loadedData struct {
	playlists []models.Playlist
	err       error
}

type deletedData struct {
	name     string
	snapshot browse.Snapshot
	err      error
}

type createdData struct {
	playlist *models.Playlist
	err      error
}

type detailData struct {
	view *tasks.DetailView
	err  error
}

type appendedData struct {
	view     *tasks.DetailView
	playlist *models.Playlist
	err      error
}

// playlistsLoadedMsg is the constructor for [MsgPlaylistsLoaded].
func playlistsLoadedMsg(playlists []models.Playlist, err error) Msg {
	return Msg{kind: MsgPlaylistsLoaded, data: loadedData{playlists, err}}
}

// playlistDeletedMsg is the constructor for [MsgPlaylistDeleted].
func playlistDeletedMsg(name string, snap browse.Snapshot, err error) Msg {
	return Msg{kind: MsgPlaylistDeleted, data: deletedData{name, snap, err}}
}

// playlistCreatedMsg is the constructor for [MsgPlaylistCreated].
func playlistCreatedMsg(playlist *models.Playlist, err error) Msg {
	return Msg{kind: MsgPlaylistCreated, data: createdData{playlist, err}}
}

// detailLoadedMsg is the constructor for [MsgDetailLoaded].
func detailLoadedMsg(view *tasks.DetailView, err error) Msg {
	return Msg{kind: MsgDetailLoaded, data: detailData{view, err}}
}

// songAppendedMsg is the constructor for [MsgSongAppended].
func songAppendedMsg(view *tasks.DetailView, playlist *models.Playlist, err error) Msg {
	return Msg{kind: MsgSongAppended, data: appendedData{view, playlist, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate].
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// progressDoneMsg is the constructor for [MsgProgressDone].
func progressDoneMsg() Msg {
	return Msg{kind: MsgProgressDone}
}

// flashExpiredMsg is the constructor for [MsgFlashExpired].
func flashExpiredMsg(seq int) Msg {
	return Msg{kind: MsgFlashExpired, data: seq}
}

func loadErrorMessage(err error) string {
	return fmt.Sprintf("Error loading playlists: %v", err)
}

func deletedMessage(name string) string {
	return fmt.Sprintf("Playlist %q deleted successfully", name)
}

func detailNotLoadedMessage(name string) string {
	return fmt.Sprintf("Playlist %q is not loaded", name)
}

func deleteErrorMessage(err error) string {
	return fmt.Sprintf("Error deleting playlist: %v", err)
}
