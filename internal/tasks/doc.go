// Package tasks runs playlist operations that take more than one API call, with progress reporting.
//
// # Append
//
// The API has no partial update, so [PlaylistEngine.AppendSong] adds a song in up to three steps:
//
//  1. snapshot the current playlist locally (only when a [SnapshotStore] is configured)
//  2. delete the playlist by name
//  3. create it again with the new song appended
//
// The sequence is not atomic. If step 3 fails the playlist has already been deleted; the engine then fetches it
// by name once more and reports both outcomes in an [AppendError]. The snapshot stays unresolved so the
// playlist can be put back with [PlaylistEngine.Restore].
//
// [DetailView] wraps the engine for a single playlist and keeps the most recent server copy.
//
// # Backup
//
// [PlaylistEngine.Backup] lists every playlist, fetches each one through a rate limited worker pool and writes
// one file per playlist plus a manifest.
//
// # Progress Reporting
//
// All operations accept a channel of [ProgressUpdate]. Sends use select with default so a slow or absent
// reader never blocks the operation.
package tasks
