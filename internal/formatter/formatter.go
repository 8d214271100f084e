// package formatter renders playlists as text, Markdown, CSV or JSON and writes them to disk
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/playlistctl/internal/models"
	"github.com/desertthunder/playlistctl/internal/shared"
)

// Supported output formats.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
)

// Formats lists every format [Render] accepts.
var Formats = []string{FormatJSON, FormatCSV, FormatMarkdown, FormatText}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Render converts playlist to the given format. An empty format means JSON.
func Render(playlist models.Playlist, format string) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return shared.MarshalJSON(playlist, true)
	case FormatCSV:
		return ToCSV(playlist)
	case FormatMarkdown, "md":
		return ToMarkdown(playlist), nil
	case FormatText, "text":
		return ToText(playlist), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q (want one of %s)", shared.ErrInvalidFlag, format, strings.Join(Formats, ", "))
	}
}

// Extension returns the file extension used for format.
func Extension(format string) string {
	switch format {
	case FormatCSV:
		return ".csv"
	case FormatMarkdown, "md":
		return ".md"
	case FormatText, "text":
		return ".txt"
	default:
		return ".json"
	}
}

// ToCSV writes one row per song with columns: Position, Title, Artist, Album, Year, Genre
func ToCSV(playlist models.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Title", "Artist", "Album", "Year", "Genre"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, song := range playlist.Songs {
		record := []string{strconv.Itoa(i + 1), song.Title, song.Artist, song.Album, song.Year, song.Genre}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ToMarkdown renders a heading, the description and a numbered song list.
func ToMarkdown(playlist models.Playlist) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", playlist.Name)
	if playlist.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", playlist.Description)
	}
	fmt.Fprintf(&buf, "**Songs**: %d\n\n", playlist.SongCount())

	buf.WriteString("## Songs\n\n")
	for i, song := range playlist.Songs {
		fmt.Fprintf(&buf, "%d. %s - %s%s\n", i+1, song.Artist, song.Title, songDetails(song))
	}
	return buf.Bytes()
}

// ToText renders a plain listing.
func ToText(playlist models.Playlist) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", playlist.Name)
	if playlist.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", playlist.Description)
	}
	fmt.Fprintf(&buf, "Songs: %d\n\n", playlist.SongCount())

	for i, song := range playlist.Songs {
		fmt.Fprintf(&buf, "%d. %s - %s%s\n", i+1, song.Artist, song.Title, songDetails(song))
	}
	return buf.Bytes()
}

// songDetails formats the optional fields as " (Album, 2008, rock)", or "" when none are set.
func songDetails(song models.Song) string {
	parts := []string{}
	for _, v := range []string{song.Album, song.Year, song.Genre} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// Slug turns a playlist name into a file-safe lowercase stem. Names with no usable characters become "playlist".
func Slug(name string) string {
	slug := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		return "playlist"
	}
	return slug
}

// WriteExport renders playlist into dir as <stem><ext> and returns the written path.
func WriteExport(playlist models.Playlist, dir, stem, format string) (string, error) {
	data, err := Render(playlist, format)
	if err != nil {
		return "", err
	}
	if stem == "" {
		stem = Slug(playlist.Name)
	}

	path := filepath.Join(dir, stem+Extension(format))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// WriteManifest writes v as indented JSON to path.
func WriteManifest(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// ListTable renders a summary table of playlists (name, description, song count).
func ListTable(playlists []models.Playlist) string {
	rows := make([][]string, len(playlists))
	for i, p := range playlists {
		rows[i] = []string{p.Name, p.Description, strconv.Itoa(p.SongCount())}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "DESCRIPTION", "SONGS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

// SongTable renders the songs of one playlist with their position.
func SongTable(playlist models.Playlist) string {
	rows := make([][]string, len(playlist.Songs))
	for i, s := range playlist.Songs {
		rows[i] = []string{strconv.Itoa(i + 1), s.Title, s.Artist, s.Album, s.Year, s.Genre}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "TITLE", "ARTIST", "ALBUM", "YEAR", "GENRE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

// SnapshotTable renders local snapshots with their sequence number, which restore accepts.
func SnapshotTable(snapshots []*models.Snapshot) string {
	rows := make([][]string, len(snapshots))
	for i, s := range snapshots {
		status := "pending"
		if s.Resolved() {
			status = "resolved"
		}
		rows[i] = []string{
			strconv.Itoa(s.Sequence),
			s.Name,
			strconv.Itoa(s.Playlist.SongCount()),
			s.Reason,
			s.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			status,
		}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "NAME", "SONGS", "REASON", "TAKEN", "STATUS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}
