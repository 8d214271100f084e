package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/playlistctl/internal/forms"
	"github.com/desertthunder/playlistctl/internal/models"
	"github.com/desertthunder/playlistctl/internal/shared"
	tu "github.com/desertthunder/playlistctl/internal/testing"
)

type memorySnapshots struct {
	created   []*models.Snapshot
	resolved  []string
	createErr error
}

func (m *memorySnapshots) Create(s *models.Snapshot) error {
	if m.createErr != nil {
		return m.createErr
	}
	s.ID = "snap-" + s.Name
	m.created = append(m.created, s)
	return nil
}

func (m *memorySnapshots) Resolve(id string) error {
	m.resolved = append(m.resolved, id)
	return nil
}

func roadTrip() models.Playlist {
	return models.Playlist{
		Name:        "Road Trip",
		Description: "driving",
		Songs:       []models.Song{{Title: "Africa", Artist: "Toto"}},
	}
}

var newSong = forms.SongForm{Title: " Yellow ", Artist: "Coldplay", Year: "2000"}

func drain(ch chan ProgressUpdate) []ProgressUpdate {
	var out []ProgressUpdate
	for {
		select {
		case u := <-ch:
			out = append(out, u)
		default:
			return out
		}
	}
}

func TestPhase(t *testing.T) {
	if DeletePlaylist.String() != "delete_playlist" {
		t.Errorf("unexpected phase name %s", DeletePlaylist)
	}
	if Phase(99).String() != "" {
		t.Error("unknown phase should be empty")
	}
}

func TestSendProgress(t *testing.T) {
	t.Run("Nil Channel", func(t *testing.T) {
		sendProgress(nil, fetchPlaylistsUpdate())
	})

	t.Run("Full Channel Does Not Block", func(t *testing.T) {
		ch := make(chan ProgressUpdate, 1)
		sendProgress(ch, fetchPlaylistsUpdate())
		sendProgress(ch, fetchPlaylistsUpdate())
		if len(ch) != 1 {
			t.Errorf("expected 1 buffered update, got %d", len(ch))
		}
	})
}

func TestAppendSong(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := tu.NewFakeService(roadTrip())
		snaps := &memorySnapshots{}
		engine := NewPlaylistEngine(svc, snaps, nil)
		progress := make(chan ProgressUpdate, 10)

		updated, err := engine.AppendSong(context.Background(), roadTrip(), newSong, progress)
		if err != nil {
			t.Fatalf("AppendSong failed: %v", err)
		}

		if updated.SongCount() != 2 || updated.Songs[1].Title != "Yellow" {
			t.Errorf("expected Yellow appended last, got %+v", updated.Songs)
		}
		if updated.Description != "driving" {
			t.Errorf("description should be kept, got %q", updated.Description)
		}

		want := []string{"delete:Road Trip", "create:Road Trip"}
		if got := svc.Calls(); strings.Join(got, ",") != strings.Join(want, ",") {
			t.Errorf("expected calls %v, got %v", want, got)
		}

		if len(snaps.created) != 1 || snaps.created[0].Playlist.SongCount() != 1 {
			t.Errorf("expected snapshot of the original playlist, got %+v", snaps.created)
		}
		if len(snaps.resolved) != 1 {
			t.Errorf("expected snapshot resolved, got %v", snaps.resolved)
		}

		phases := []Phase{}
		for _, u := range drain(progress) {
			phases = append(phases, u.Phase)
		}
		if len(phases) != 3 || phases[0] != SnapshotPlaylist || phases[1] != DeletePlaylist || phases[2] != CreatePlaylist {
			t.Errorf("unexpected phases %v", phases)
		}
	})

	t.Run("Invalid Song Sends Nothing", func(t *testing.T) {
		svc := tu.NewFakeService(roadTrip())
		engine := NewPlaylistEngine(svc, nil, nil)

		_, err := engine.AppendSong(context.Background(), roadTrip(), forms.SongForm{Title: "No artist"}, nil)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if len(svc.Calls()) != 0 {
			t.Errorf("expected no requests, got %v", svc.Calls())
		}
	})

	t.Run("Delete Fails", func(t *testing.T) {
		svc := tu.NewFakeService(roadTrip())
		svc.DeleteErr = errors.New("Forbidden - insufficient permissions")
		snaps := &memorySnapshots{}
		engine := NewPlaylistEngine(svc, snaps, nil)

		_, err := engine.AppendSong(context.Background(), roadTrip(), newSong, nil)

		var appendErr *AppendError
		if !errors.As(err, &appendErr) {
			t.Fatalf("expected *AppendError, got %v", err)
		}
		if appendErr.Phase != DeletePlaylist {
			t.Errorf("expected delete phase, got %s", appendErr.Phase)
		}
		if err.Error() != "Error updating playlist: Forbidden - insufficient permissions" {
			t.Errorf("unexpected message %q", err.Error())
		}
		if svc.CountCalls("create:Road Trip") != 0 {
			t.Error("create must not run after a failed delete")
		}
		if appendErr.Lost() {
			t.Error("playlist is not lost when delete fails")
		}
		if stored, ok := svc.Stored("Road Trip"); !ok || stored.SongCount() != 1 {
			t.Error("playlist should be untouched")
		}
	})

	t.Run("Create Fails After Delete", func(t *testing.T) {
		svc := tu.NewFakeService(roadTrip())
		svc.CreateErr = errors.New("Server error")
		snaps := &memorySnapshots{}
		engine := NewPlaylistEngine(svc, snaps, nil)

		_, err := engine.AppendSong(context.Background(), roadTrip(), newSong, nil)

		var appendErr *AppendError
		if !errors.As(err, &appendErr) {
			t.Fatalf("expected *AppendError, got %v", err)
		}
		if appendErr.Phase != CreatePlaylist {
			t.Errorf("expected create phase, got %s", appendErr.Phase)
		}
		if appendErr.ReloadErr == nil || appendErr.ReloadErr.Error() != "Resource not found" {
			t.Errorf("expected reload to answer not found, got %v", appendErr.ReloadErr)
		}
		if !appendErr.Lost() {
			t.Error("playlist should be reported lost")
		}
		if err.Error() != "Error adding song: Server error (reload: Resource not found)" {
			t.Errorf("unexpected message %q", err.Error())
		}
		if svc.CountCalls("find:Road Trip") != 1 {
			t.Errorf("expected one reload, got calls %v", svc.Calls())
		}
		if len(snaps.resolved) != 0 {
			t.Error("snapshot must stay unresolved when the playlist is lost")
		}
		if appendErr.Snapshot == nil || appendErr.Snapshot.Playlist.SongCount() != 1 {
			t.Errorf("expected snapshot of the original, got %+v", appendErr.Snapshot)
		}
	})

	t.Run("Create Fails But Playlist Comes Back", func(t *testing.T) {
		svc := tu.NewFakeService(roadTrip())
		other := roadTrip()
		other.Description = "recreated elsewhere"
		svc.AfterDelete = func(string) { svc.Put(other) }
		snaps := &memorySnapshots{}
		engine := NewPlaylistEngine(svc, snaps, nil)

		_, err := engine.AppendSong(context.Background(), roadTrip(), newSong, nil)

		var appendErr *AppendError
		if !errors.As(err, &appendErr) || appendErr.Phase != CreatePlaylist {
			t.Fatalf("expected create phase error, got %v", err)
		}
		if appendErr.Lost() || appendErr.ReloadErr != nil {
			t.Errorf("playlist should not be lost, reload error %v", appendErr.ReloadErr)
		}
		if appendErr.Reloaded == nil || appendErr.Reloaded.Description != "recreated elsewhere" {
			t.Errorf("expected the server copy, got %+v", appendErr.Reloaded)
		}
		if err.Error() != "Error adding song: Resource already exists" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("Snapshot Failure Aborts", func(t *testing.T) {
		svc := tu.NewFakeService(roadTrip())
		snaps := &memorySnapshots{createErr: shared.ErrStorage}
		engine := NewPlaylistEngine(svc, snaps, nil)

		_, err := engine.AppendSong(context.Background(), roadTrip(), newSong, nil)
		if !errors.Is(err, shared.ErrStorage) {
			t.Fatalf("expected storage error, got %v", err)
		}
		if len(svc.Calls()) != 0 {
			t.Errorf("expected no requests, got %v", svc.Calls())
		}
	})

	t.Run("No Service", func(t *testing.T) {
		_, err := NewPlaylistEngine(nil, nil, nil).AppendSong(context.Background(), roadTrip(), newSong, nil)
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestDetailView(t *testing.T) {
	t.Run("Load", func(t *testing.T) {
		svc := tu.NewFakeService(roadTrip())
		view := NewDetailView(NewPlaylistEngine(svc, nil, nil), "Road Trip")

		if _, ok := view.Playlist(); ok {
			t.Error("nothing should be held before Load")
		}
		if _, err := view.Load(context.Background()); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		p, ok := view.Playlist()
		if !ok || p.SongCount() != 1 {
			t.Errorf("unexpected playlist %+v", p)
		}
	})

	t.Run("Load Missing", func(t *testing.T) {
		view := NewDetailView(NewPlaylistEngine(tu.NewFakeService(), nil, nil), "ghost")
		if _, err := view.Load(context.Background()); err == nil || err.Error() != "Resource not found" {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("Append Before Load", func(t *testing.T) {
		view := NewDetailView(NewPlaylistEngine(tu.NewFakeService(roadTrip()), nil, nil), "Road Trip")
		if _, err := view.AppendSong(context.Background(), newSong, nil); !errors.Is(err, shared.ErrPlaylistNotLoaded) {
			t.Errorf("expected ErrPlaylistNotLoaded, got %v", err)
		}
	})

	t.Run("Append Replaces Held Playlist", func(t *testing.T) {
		svc := tu.NewFakeService(roadTrip())
		view := NewDetailView(NewPlaylistEngine(svc, nil, nil), "Road Trip")
		if _, err := view.Load(context.Background()); err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		if _, err := view.AppendSong(context.Background(), newSong, nil); err != nil {
			t.Fatalf("AppendSong failed: %v", err)
		}
		p, _ := view.Playlist()
		if p.SongCount() != 2 {
			t.Errorf("expected 2 songs held, got %d", p.SongCount())
		}
		if stored, _ := svc.Stored("Road Trip"); stored.SongCount() != 2 {
			t.Errorf("expected 2 songs stored, got %d", stored.SongCount())
		}
	})

	t.Run("Append Loses Playlist", func(t *testing.T) {
		svc := tu.NewFakeService(roadTrip())
		view := NewDetailView(NewPlaylistEngine(svc, nil, nil), "Road Trip")
		if _, err := view.Load(context.Background()); err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		svc.CreateErr = errors.New("Server error")
		if _, err := view.AppendSong(context.Background(), newSong, nil); err == nil {
			t.Fatal("expected error")
		}
		if _, ok := view.Playlist(); ok {
			t.Error("view should hold nothing once the playlist is gone")
		}
	})
}

func TestRestore(t *testing.T) {
	t.Run("Creates Missing Playlist", func(t *testing.T) {
		svc := tu.NewFakeService()
		engine := NewPlaylistEngine(svc, nil, nil)

		created, err := engine.Restore(context.Background(), roadTrip(), nil)
		if err != nil {
			t.Fatalf("Restore failed: %v", err)
		}
		if created.Name != "Road Trip" || svc.Len() != 1 {
			t.Errorf("unexpected restore result %+v", created)
		}
	})

	t.Run("Refuses Existing Playlist", func(t *testing.T) {
		svc := tu.NewFakeService(roadTrip())
		engine := NewPlaylistEngine(svc, nil, nil)

		_, err := engine.Restore(context.Background(), roadTrip(), nil)
		if !errors.Is(err, shared.ErrPlaylistExists) {
			t.Errorf("expected ErrPlaylistExists, got %v", err)
		}
		if svc.CountCalls("create:Road Trip") != 0 {
			t.Error("create must not be sent")
		}
	})

	t.Run("Lookup Failure", func(t *testing.T) {
		svc := tu.NewFakeService()
		svc.FindErr = errors.New("Server error")
		_, err := NewPlaylistEngine(svc, nil, nil).Restore(context.Background(), roadTrip(), nil)
		if err == nil || err.Error() != "Server error" {
			t.Errorf("expected lookup error, got %v", err)
		}
	})

	t.Run("Nameless Playlist", func(t *testing.T) {
		_, err := NewPlaylistEngine(tu.NewFakeService(), nil, nil).Restore(context.Background(), models.Playlist{}, nil)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}
