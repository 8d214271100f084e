package formatter

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/playlistctl/internal/models"
	"github.com/desertthunder/playlistctl/internal/shared"
	th "github.com/desertthunder/playlistctl/internal/testing"
)

func testPlaylist() models.Playlist {
	return models.Playlist{
		Name:        "Road Trip",
		Description: "Songs for driving",
		Songs: []models.Song{
			{Title: "Viva la Vida", Artist: "Coldplay", Album: "Viva la Vida", Year: "2008", Genre: "rock"},
			{Title: "Africa", Artist: "Toto"},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ToCSV", func(t *testing.T) {
		data, err := ToCSV(testPlaylist())
		if err != nil {
			t.Fatalf("ToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Position,Title,Artist,Album,Year,Genre") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "1,Viva la Vida,Coldplay,Viva la Vida,2008,rock") {
			t.Errorf("CSV missing first song, got: %s", output)
		}
		if !strings.Contains(output, "2,Africa,Toto,,,") {
			t.Errorf("CSV missing second song, got: %s", output)
		}
	})

	t.Run("ToMarkdown", func(t *testing.T) {
		output := string(ToMarkdown(testPlaylist()))

		for _, want := range []string{
			"# Road Trip",
			"**Description**: Songs for driving",
			"**Songs**: 2",
			"1. Coldplay - Viva la Vida (Viva la Vida, 2008, rock)",
			"2. Toto - Africa\n",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ToMarkdown Without Description", func(t *testing.T) {
		p := testPlaylist()
		p.Description = ""
		if strings.Contains(string(ToMarkdown(p)), "Description") {
			t.Error("expected no description line")
		}
	})

	t.Run("ToText", func(t *testing.T) {
		output := string(ToText(testPlaylist()))
		if !strings.HasPrefix(output, "Playlist: Road Trip\n") {
			t.Errorf("unexpected text header: %s", output)
		}
		if !strings.Contains(output, "Songs: 2") {
			t.Errorf("text missing song count: %s", output)
		}
	})

	t.Run("Render", func(t *testing.T) {
		data, err := Render(testPlaylist(), "")
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}

		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			t.Fatalf("expected JSON output: %v", err)
		}
		if raw["nombre"] != "Road Trip" {
			t.Errorf("expected wire field names, got %v", raw)
		}

		if _, err := Render(testPlaylist(), "xml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestSlug(t *testing.T) {
	tc := []struct {
		name string
		want string
	}{
		{name: "Road Trip", want: "road-trip"},
		{name: "Rock & Roll/80s", want: "rock-roll-80s"},
		{name: "  --Chill--  ", want: "chill"},
		{name: "¡¿!?", want: "playlist"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.name); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestWriters(t *testing.T) {
	t.Run("WriteExport", func(t *testing.T) {
		dir := t.TempDir()
		for _, format := range Formats {
			path, err := WriteExport(testPlaylist(), dir, "", format)
			if err != nil {
				t.Fatalf("WriteExport(%s) failed: %v", format, err)
			}
			if filepath.Base(path) != "road-trip"+Extension(format) {
				t.Errorf("unexpected file name %s", path)
			}
			th.AssertFileExists(t, path)
		}
	})

	t.Run("WriteExport Custom Stem", func(t *testing.T) {
		dir := t.TempDir()
		path, err := WriteExport(testPlaylist(), dir, "001-road-trip", FormatText)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if !strings.Contains(th.MustReadFile(t, path), "Playlist: Road Trip") {
			t.Error("unexpected file contents")
		}
	})

	t.Run("WriteExport Missing Directory", func(t *testing.T) {
		if _, err := WriteExport(testPlaylist(), filepath.Join(t.TempDir(), "nope"), "", FormatJSON); err == nil {
			t.Error("expected error writing into a missing directory")
		}
	})

	t.Run("WriteManifest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.json")
		if err := WriteManifest(map[string]int{"total": 2}, path); err != nil {
			t.Fatalf("WriteManifest failed: %v", err)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read manifest: %v", err)
		}
		if !strings.Contains(string(content), `"total": 2`) {
			t.Errorf("unexpected manifest %s", content)
		}
	})
}

func TestTables(t *testing.T) {
	t.Run("ListTable", func(t *testing.T) {
		out := ListTable([]models.Playlist{testPlaylist(), {Name: "Empty"}})
		for _, want := range []string{"NAME", "SONGS", "Road Trip", "Songs for driving", "Empty"} {
			if !strings.Contains(out, want) {
				t.Errorf("table missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("SongTable", func(t *testing.T) {
		out := SongTable(testPlaylist())
		for _, want := range []string{"TITLE", "Coldplay", "Africa", "2008"} {
			if !strings.Contains(out, want) {
				t.Errorf("table missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("SnapshotTable", func(t *testing.T) {
		resolved := models.NewSnapshot(testPlaylist(), "append")
		resolved.Sequence = 1
		now := resolved.CreatedAt
		resolved.ResolvedAt = &now
		pending := models.NewSnapshot(models.Playlist{Name: "Focus"}, "append")
		pending.Sequence = 2

		out := SnapshotTable([]*models.Snapshot{resolved, pending})
		for _, want := range []string{"STATUS", "Road Trip", "Focus", "resolved", "pending", "append"} {
			if !strings.Contains(out, want) {
				t.Errorf("table missing %q:\n%s", want, out)
			}
		}
	})
}
