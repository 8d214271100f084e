// Package forms validates user input for new playlists and new songs before anything is sent to the API.
//
// [PlaylistForm] keeps a submitting flag so the shell can disable submit while a create is in flight.
// [SongForm] is shared with the append flow in package tasks.
package forms
