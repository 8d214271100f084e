// Package models defines the domain entities exchanged with the playlist API.
//
//   - [Song] : a title/artist entry with optional album, year and genre
//   - [Playlist] : a named, ordered collection of songs; the name is the only identifier
//   - [Snapshot] : a local copy of a playlist taken before a destructive update
//
// JSON tags follow the API's wire format (nombre, descripcion, canciones, titulo, artista, album, anno, genero).
package models
