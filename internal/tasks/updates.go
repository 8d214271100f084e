package tasks

import (
	"fmt"

	"github.com/desertthunder/playlistctl/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchPlaylists Phase = iota
	FetchPlaylist
	SnapshotPlaylist
	DeletePlaylist
	CreatePlaylist
	ReloadPlaylist
	ExportPlaylist
	WriteManifest
	RestorePlaylist
)

func (p Phase) String() string {
	switch p {
	case FetchPlaylists:
		return "fetch_playlists"
	case FetchPlaylist:
		return "fetch_playlist"
	case SnapshotPlaylist:
		return "snapshot_playlist"
	case DeletePlaylist:
		return "delete_playlist"
	case CreatePlaylist:
		return "create_playlist"
	case ReloadPlaylist:
		return "reload_playlist"
	case ExportPlaylist:
		return "export_playlist"
	case WriteManifest:
		return "write_manifest"
	case RestorePlaylist:
		return "restore_playlist"
	default:
		return ""
	}
}

func fetchPlaylistsUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: FetchPlaylists, Step: 1, Total: 1, Message: "Fetching playlists..."}
}

func foundPlaylistsUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylists,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d playlists", count),
		Data:    count,
	}
}

func fetchPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{Phase: FetchPlaylist, Step: 1, Total: 1, Message: fmt.Sprintf("Fetching playlist %q...", name)}
}

func snapshotUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SnapshotPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Saving local snapshot of %q...", name),
	}
}

func deleteUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DeletePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Deleting %q...", name),
	}
}

func recreateUpdate(step, total int, pl models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Recreating %q with %d songs...", pl.Name, pl.SongCount()),
	}
}

func reloadUpdate(name string) ProgressUpdate {
	return ProgressUpdate{Phase: ReloadPlaylist, Step: 1, Total: 1, Message: fmt.Sprintf("Reloading %q...", name)}
}

func exportingPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name, file string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, name, file),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{Phase: WriteManifest, Step: 1, Total: 1, Message: fmt.Sprintf("Writing manifest %s...", path)}
}

func restoreUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RestorePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Restoring %q...", name),
	}
}
