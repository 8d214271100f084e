package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/playlistctl/internal/formatter"
	"github.com/desertthunder/playlistctl/internal/models"
	"github.com/desertthunder/playlistctl/internal/shared"
)

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, 2)
	for _, t := range []Tab{ListTab, CreateTab} {
		if t == m.tab {
			tabs = append(tabs, styles.activeTab.Render(t.String()))
		} else {
			tabs = append(tabs, styles.tab.Render(t.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderList() string {
	var b strings.Builder

	if m.mode == searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
	}

	page := m.browser.Page()
	switch {
	case m.loading && m.browser.Len() == 0:
		b.WriteString(styles.help.Render("Loading playlists..."))
		return b.String()
	case m.browser.Len() == 0:
		b.WriteString(styles.help.Render("No playlists yet. Press c to create one."))
		return b.String()
	case len(page) == 0:
		b.WriteString(styles.help.Render(fmt.Sprintf("No playlists match %q.", m.browser.State().SearchTerm)))
	default:
		b.WriteString(m.renderTable(page))
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	if m.mode == confirmingDelete {
		b.WriteString("\n\n")
		b.WriteString(styles.warn.Render(fmt.Sprintf("Delete playlist %q? (y/n)", m.deleting)))
	}

	if p, ok := m.browser.Expanded(); ok {
		b.WriteString("\n\n")
		b.WriteString(m.renderDetail(p.Name))
	}
	return b.String()
}

// renderTable draws the current page with the cursor row highlighted.
func (m *Model) renderTable(page []models.Playlist) string {
	expanded := m.browser.ExpandedName()
	rows := make([][]string, len(page))
	for i, p := range page {
		marker := "  "
		if p.Name == expanded {
			marker = "▾ "
		}
		rows[i] = []string{marker + p.Name, p.Description, strconv.Itoa(p.SongCount())}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("NAME", "DESCRIPTION", "SONGS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styles.header
			case row == m.cursor:
				return styles.selected
			default:
				return styles.cell
			}
		}).
		String()
}

func (m *Model) renderStatus() string {
	state := m.browser.State()
	n := len(m.browser.Filtered())
	status := fmt.Sprintf(
		"Page %d of %d • %d %s • sort: %s • %d per page",
		m.browser.CurrentPage(),
		max(m.browser.TotalPages(), 1),
		n,
		shared.Plural(n, "playlist", "playlists"),
		state.Sort,
		state.PageSize,
	)
	if m.loading {
		status += " • reloading..."
	}
	return styles.help.Render(status)
}

// renderDetail shows the playlist as fetched by name, never the list row.
func (m *Model) renderDetail(name string) string {
	var b strings.Builder
	b.WriteString(styles.title.Render(name))
	b.WriteString("\n")

	switch {
	case m.detail == nil || m.detail.Name() != name:
		b.WriteString(styles.help.Render("Loading playlist..."))
	default:
		p, ok := m.detail.Playlist()
		switch {
		case !ok:
			b.WriteString(styles.help.Render("Playlist could not be loaded."))
		case p.SongCount() == 0:
			b.WriteString(describe(p))
			b.WriteString(styles.help.Render("This playlist has no songs."))
		default:
			b.WriteString(describe(p))
			b.WriteString(formatter.SongTable(p))
		}
	}

	if m.mode != addingSong {
		return b.String()
	}

	b.WriteString("\n\n")
	b.WriteString(styles.header.Render("Add song"))
	b.WriteString("\n")
	for i, label := range songLabels {
		fmt.Fprintf(&b, "  %s %s\n", styles.label.Render(label), m.song[i].View())
	}
	if m.appending && m.progress.Message != "" {
		b.WriteString(styles.help.Render(m.progress.Message))
	}
	return b.String()
}

func describe(p models.Playlist) string {
	if p.Description == "" {
		return ""
	}
	return p.Description + "\n"
}
