// Package repositories implements SQLite persistence for [models.Snapshot].
//
// A snapshot is written before the append flow deletes a playlist on the server and is resolved once the
// playlist has been recreated. Unresolved snapshots therefore mark playlists that may have been lost and
// can be fed back to the API with the restore command.
//
// Sequence numbers give snapshots a stable, human-readable order (snapshot #3) independent of their UUIDs.
// [NextSequence] increments the per-table counter in a dedicated sequence table.
package repositories
