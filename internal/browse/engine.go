package browse

import (
	"cmp"
	"slices"
	"strings"

	"github.com/desertthunder/playlistctl/internal/models"
)

// Filter keeps the playlists whose name or description contains term, ignoring case.
// A blank or whitespace-only term keeps everything; any other term is matched as typed, surrounding spaces included. Input order is preserved and the input is not modified.
func Filter(playlists []models.Playlist, term string) []models.Playlist {
	blank := strings.TrimSpace(term) == ""
	term = strings.ToLower(term)
	out := make([]models.Playlist, 0, len(playlists))
	for _, p := range playlists {
		if blank || matches(p, term) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p models.Playlist, term string) bool {
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}

// SortPlaylists returns a stably sorted copy of playlists.
func SortPlaylists(playlists []models.Playlist, s Sort) []models.Playlist {
	out := slices.Clone(playlists)
	if out == nil {
		out = []models.Playlist{}
	}

	var compare func(a, b models.Playlist) int
	switch s.Field {
	case FieldName:
		compare = func(a, b models.Playlist) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case FieldDescription:
		compare = func(a, b models.Playlist) int {
			return strings.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description))
		}
	case FieldSongs:
		compare = func(a, b models.Playlist) int {
			return cmp.Compare(a.SongCount(), b.SongCount())
		}
	default:
		return out
	}

	if s.Direction == Desc {
		asc := compare
		compare = func(a, b models.Playlist) int { return asc(b, a) }
	}

	slices.SortStableFunc(out, compare)
	return out
}

// PageCount is ceil(n/size). A non-positive size yields 0.
func PageCount(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// PageSlice returns items [(page-1)*size, page*size) clipped to the list bounds.
func PageSlice(playlists []models.Playlist, page, size int) []models.Playlist {
	if size <= 0 || page < 1 {
		return []models.Playlist{}
	}
	start := (page - 1) * size
	if start >= len(playlists) {
		return []models.Playlist{}
	}
	end := min(start+size, len(playlists))
	return playlists[start:end]
}
