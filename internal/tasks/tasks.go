package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playlistctl/internal/forms"
	"github.com/desertthunder/playlistctl/internal/models"
	"github.com/desertthunder/playlistctl/internal/services"
	"github.com/desertthunder/playlistctl/internal/shared"
)

// SongAddedMessage is shown after a successful append.
const SongAddedMessage = "Song added successfully"

// SnapshotStore records a playlist before it is deleted and marks the record once the playlist is back.
//
// Implemented by [repositories.SnapshotRepository].
type SnapshotStore interface {
	Create(snapshot *models.Snapshot) error
	Resolve(id string) error
}

// AppendError reports which step of an append failed.
//
// When the create step fails the playlist has already been deleted on the server; ReloadErr holds the
// outcome of fetching it again, and Reloaded what came back if that worked.
type AppendError struct {
	Phase     Phase
	Name      string
	Err       error
	ReloadErr error
	Reloaded  *models.Playlist
	Snapshot  *models.Snapshot
}

func (e *AppendError) Error() string {
	switch e.Phase {
	case CreatePlaylist:
		msg := fmt.Sprintf("Error adding song: %v", e.Err)
		if e.ReloadErr != nil {
			msg += fmt.Sprintf(" (reload: %v)", e.ReloadErr)
		}
		return msg
	default:
		return fmt.Sprintf("Error updating playlist: %v", e.Err)
	}
}

func (e *AppendError) Unwrap() error {
	return e.Err
}

// Lost reports whether the playlist is gone from the server after the failure.
func (e *AppendError) Lost() bool {
	return e.Phase == CreatePlaylist && e.Reloaded == nil
}

// PlaylistEngine runs playlist operations that span several API calls.
type PlaylistEngine struct {
	svc       services.PlaylistService
	snapshots SnapshotStore
	logger    *log.Logger
}

// NewPlaylistEngine creates a new PlaylistEngine. snapshots and logger may be nil.
func NewPlaylistEngine(svc services.PlaylistService, snapshots SnapshotStore, logger *log.Logger) *PlaylistEngine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &PlaylistEngine{svc: svc, snapshots: snapshots, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Fetch loads one playlist by name.
func (e *PlaylistEngine) Fetch(ctx context.Context, name string, progress chan<- ProgressUpdate) (*models.Playlist, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: playlist service not initialized", shared.ErrServiceUnavailable)
	}
	sendProgress(progress, fetchPlaylistUpdate(name))
	return e.svc.FindByName(ctx, name)
}

// AppendSong adds song to the end of current by deleting the playlist and creating it again.
//
// The song is validated first and nothing is sent when it is invalid. Failures are returned as [*AppendError].
// current is not modified; the recreated playlist is returned.
func (e *PlaylistEngine) AppendSong(ctx context.Context, current models.Playlist, song forms.SongForm, progress chan<- ProgressUpdate) (*models.Playlist, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: playlist service not initialized", shared.ErrServiceUnavailable)
	}
	if err := song.Validate(); err != nil {
		return nil, err
	}

	name := current.Name
	updated := current.WithSong(song.Song())
	total := 2
	if e.snapshots != nil {
		total = 3
	}
	step := 0

	var snapshot *models.Snapshot
	if e.snapshots != nil {
		step++
		sendProgress(progress, snapshotUpdate(step, total, name))
		snapshot = models.NewSnapshot(current, "append")
		if err := e.snapshots.Create(snapshot); err != nil {
			e.logger.Error("snapshot failed, playlist left untouched", "playlist", name, "error", err)
			return nil, &AppendError{Phase: SnapshotPlaylist, Name: name, Err: err}
		}
	}

	step++
	sendProgress(progress, deleteUpdate(step, total, name))
	if err := e.svc.DeleteByName(ctx, name); err != nil {
		e.logger.Warn("delete failed", "playlist", name, "error", err)
		e.resolve(snapshot)
		return nil, &AppendError{Phase: DeletePlaylist, Name: name, Err: err}
	}

	step++
	sendProgress(progress, recreateUpdate(step, total, updated))
	created, err := e.svc.Create(ctx, updated)
	if err != nil {
		appendErr := &AppendError{Phase: CreatePlaylist, Name: name, Err: err, Snapshot: snapshot}

		sendProgress(progress, reloadUpdate(name))
		reloaded, reloadErr := e.svc.FindByName(ctx, name)
		if reloadErr != nil {
			appendErr.ReloadErr = reloadErr
		} else {
			appendErr.Reloaded = reloaded
		}

		e.logger.Error("recreate failed after delete", "playlist", name, "error", err, "reload_error", reloadErr, "lost", appendErr.Lost())
		return nil, appendErr
	}

	e.resolve(snapshot)
	e.logger.Info("song appended", "playlist", name, "songs", created.SongCount())
	return created, nil
}

// resolve marks a snapshot done. Storage failures are logged, never returned.
func (e *PlaylistEngine) resolve(snapshot *models.Snapshot) {
	if snapshot == nil || e.snapshots == nil {
		return
	}
	if err := e.snapshots.Resolve(snapshot.ID); err != nil {
		e.logger.Warn("failed to resolve snapshot", "id", snapshot.ID, "error", err)
	}
}

// Restore creates playlist on the server. It refuses when a playlist with the same name already exists.
func (e *PlaylistEngine) Restore(ctx context.Context, playlist models.Playlist, progress chan<- ProgressUpdate) (*models.Playlist, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: playlist service not initialized", shared.ErrServiceUnavailable)
	}
	if playlist.Name == "" {
		return nil, fmt.Errorf("%w: playlist has no name", shared.ErrInvalidInput)
	}

	sendProgress(progress, restoreUpdate(1, 2, playlist.Name))
	_, err := e.svc.FindByName(ctx, playlist.Name)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistExists, playlist.Name)
	case !services.IsNotFound(err):
		return nil, err
	}

	sendProgress(progress, restoreUpdate(2, 2, playlist.Name))
	return e.svc.Create(ctx, playlist)
}

// DetailView holds one playlist, loaded by name, and appends songs to it.
type DetailView struct {
	engine   *PlaylistEngine
	name     string
	playlist *models.Playlist
}

// NewDetailView creates a view for the playlist called name. Nothing is fetched until [DetailView.Load].
func NewDetailView(engine *PlaylistEngine, name string) *DetailView {
	return &DetailView{engine: engine, name: name}
}

// Name is the playlist name the view was opened for.
func (v *DetailView) Name() string { return v.name }

// Playlist returns the held playlist, if one is loaded.
func (v *DetailView) Playlist() (models.Playlist, bool) {
	if v.playlist == nil {
		return models.Playlist{}, false
	}
	return v.playlist.Clone(), true
}

// Load fetches the playlist by name and holds it.
func (v *DetailView) Load(ctx context.Context) (*models.Playlist, error) {
	p, err := v.engine.Fetch(ctx, v.name, nil)
	if err != nil {
		return nil, err
	}
	v.playlist = p
	return p, nil
}

// AppendSong appends song to the held playlist. See [PlaylistEngine.AppendSong].
//
// After a failed recreate the view holds whatever the reload returned, which is nothing when the playlist is lost.
func (v *DetailView) AppendSong(ctx context.Context, song forms.SongForm, progress chan<- ProgressUpdate) (*models.Playlist, error) {
	if v.playlist == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotLoaded, v.name)
	}

	created, err := v.engine.AppendSong(ctx, *v.playlist, song, progress)
	if err != nil {
		var appendErr *AppendError
		if errors.As(err, &appendErr) && appendErr.Phase == CreatePlaylist {
			v.playlist = appendErr.Reloaded
		}
		return nil, err
	}

	v.playlist = created
	return created, nil
}
