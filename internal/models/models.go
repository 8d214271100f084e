package models

import (
	"encoding/json"
	"time"
)

// Song is a single entry in a playlist. Songs have no identity of their own;
// two songs are the same only by position within a playlist.
type Song struct {
	Title  string `json:"titulo"`
	Artist string `json:"artista"`
	Album  string `json:"album,omitempty"`
	Year   string `json:"anno,omitempty"`
	Genre  string `json:"genero,omitempty"`
}

// Playlist is a named collection of songs. Name is the resource identifier on the API.
type Playlist struct {
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Songs       []Song `json:"canciones"`
}

// SongCount returns the number of songs in the playlist.
func (p Playlist) SongCount() int {
	return len(p.Songs)
}

// Clone returns a deep copy so callers can mutate songs without aliasing.
func (p Playlist) Clone() Playlist {
	songs := make([]Song, len(p.Songs))
	copy(songs, p.Songs)
	p.Songs = songs
	return p
}

// WithSong returns a copy of the playlist with song appended after the existing songs.
func (p Playlist) WithSong(song Song) Playlist {
	c := p.Clone()
	c.Songs = append(c.Songs, song)
	return c
}

// MarshalJSON always emits canciones as an array, never null.
func (p Playlist) MarshalJSON() ([]byte, error) {
	type alias Playlist
	a := alias(p)
	if a.Songs == nil {
		a.Songs = []Song{}
	}
	return json.Marshal(a)
}

// Snapshot is a local copy of a playlist recorded before it was deleted for recreation.
type Snapshot struct {
	ID         string     `json:"id"`
	Sequence   int        `json:"sequence"`
	Name       string     `json:"name"`
	Playlist   Playlist   `json:"playlist"`
	Reason     string     `json:"reason"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// NewSnapshot creates an unsaved snapshot of playlist.
func NewSnapshot(playlist Playlist, reason string) *Snapshot {
	return &Snapshot{
		Name:      playlist.Name,
		Playlist:  playlist.Clone(),
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
}

// Resolved reports whether the update this snapshot guarded completed.
func (s *Snapshot) Resolved() bool {
	return s.ResolvedAt != nil
}
