package browse

import (
	"context"
	"fmt"
	"slices"

	"github.com/desertthunder/playlistctl/internal/models"
	"github.com/desertthunder/playlistctl/internal/shared"
)

// DefaultPageSize is used when a view state carries no page size.
const DefaultPageSize = 10

// PageSizes are the sizes the shell offers.
var PageSizes = []int{5, 10, 25, 50}

// NextPageSize returns the page size after size in [PageSizes], wrapping around.
func NextPageSize(size int) int {
	i := slices.Index(PageSizes, size)
	return PageSizes[(i+1)%len(PageSizes)]
}

// ViewState is the part of the list view that survives a reload.
type ViewState struct {
	SearchTerm  string `json:"search_term"`
	Sort        Sort   `json:"sort"`
	PageSize    int    `json:"page_size"`
	CurrentPage int    `json:"-"`
}

// Deleter removes a playlist by name on the server.
type Deleter interface {
	DeleteByName(ctx context.Context, name string) error
}

// Snapshot holds the list state from before an optimistic removal.
type Snapshot struct {
	playlists []models.Playlist
}

// Browser holds the full playlist set and derives the filtered, sorted, paginated view from it.
//
// The view is recomputed on every change. There is no incremental update.
type Browser struct {
	all      []models.Playlist
	filtered []models.Playlist
	state    ViewState
	total    int
	expanded string
}

// NewBrowser creates an empty Browser starting from state.
func NewBrowser(state ViewState) *Browser {
	if state.PageSize <= 0 {
		state.PageSize = DefaultPageSize
	}
	if state.CurrentPage < 1 {
		state.CurrentPage = 1
	}
	b := &Browser{state: state}
	b.recompute()
	return b
}

func (b *Browser) recompute() {
	b.filtered = SortPlaylists(Filter(b.all, b.state.SearchTerm), b.state.Sort)
	b.total = PageCount(len(b.filtered), b.state.PageSize)
	if b.state.CurrentPage > b.total && b.total > 0 {
		b.state.CurrentPage = 1
	}
	if b.state.CurrentPage < 1 {
		b.state.CurrentPage = 1
	}
}

// SetPlaylists replaces the full set, as after a load or reload.
func (b *Browser) SetPlaylists(playlists []models.Playlist) {
	b.all = slices.Clone(playlists)
	b.recompute()
}

// SetSearchTerm changes the filter and returns to page 1.
func (b *Browser) SetSearchTerm(term string) {
	b.state.SearchTerm = term
	b.state.CurrentPage = 1
	b.recompute()
}

// SetSort changes the ordering and returns to page 1.
func (b *Browser) SetSort(s Sort) {
	b.state.Sort = s
	b.state.CurrentPage = 1
	b.recompute()
}

// ToggleSort applies a column header click. See [Sort.Toggle].
func (b *Browser) ToggleSort(field SortField) {
	b.SetSort(b.state.Sort.Toggle(field))
}

// SetPageSize changes the page size. Search and sort are kept; the page resets to 1 only if it no longer exists.
func (b *Browser) SetPageSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: page size must be positive, got %d", shared.ErrInvalidArgument, size)
	}
	b.state.PageSize = size
	b.recompute()
	return nil
}

// GoToPage moves to page when it is within 1..TotalPages and collapses the expanded detail.
// Out of range pages are ignored and reported as false.
func (b *Browser) GoToPage(page int) bool {
	if page < 1 || page > b.total {
		return false
	}
	b.state.CurrentPage = page
	b.expanded = ""
	return true
}

func (b *Browser) NextPage() bool { return b.GoToPage(b.state.CurrentPage + 1) }
func (b *Browser) PrevPage() bool { return b.GoToPage(b.state.CurrentPage - 1) }

// State returns the current view state.
func (b *Browser) State() ViewState { return b.state }

// Len is the size of the full set.
func (b *Browser) Len() int { return len(b.all) }

// TotalPages is ceil(len(Filtered)/PageSize).
func (b *Browser) TotalPages() int { return b.total }

// CurrentPage is the 1-based page being viewed.
func (b *Browser) CurrentPage() int { return b.state.CurrentPage }

// All returns a copy of the full set.
func (b *Browser) All() []models.Playlist { return slices.Clone(b.all) }

// Filtered returns the filtered and sorted list before pagination.
func (b *Browser) Filtered() []models.Playlist { return slices.Clone(b.filtered) }

// Page returns the playlists on the current page.
func (b *Browser) Page() []models.Playlist {
	return slices.Clone(PageSlice(b.filtered, b.state.CurrentPage, b.state.PageSize))
}

// ToggleExpanded opens the inline detail for name, or closes it when it is already open.
func (b *Browser) ToggleExpanded(name string) {
	if b.expanded == name {
		b.expanded = ""
		return
	}
	b.expanded = name
}

// Collapse closes the inline detail.
func (b *Browser) Collapse() { b.expanded = "" }

// ExpandedName is the name whose detail is open, or "".
func (b *Browser) ExpandedName() string { return b.expanded }

// Expanded returns the expanded playlist when it is on the current page.
func (b *Browser) Expanded() (models.Playlist, bool) {
	if b.expanded == "" {
		return models.Playlist{}, false
	}
	for _, p := range b.Page() {
		if p.Name == b.expanded {
			return p, true
		}
	}
	return models.Playlist{}, false
}

// Replace swaps in an updated copy of the playlist with the same name, as after a song was appended.
func (b *Browser) Replace(playlist models.Playlist) bool {
	i := b.index(playlist.Name)
	if i < 0 {
		return false
	}
	b.all[i] = playlist.Clone()
	b.recompute()
	return true
}

func (b *Browser) index(name string) int {
	return slices.IndexFunc(b.all, func(p models.Playlist) bool { return p.Name == name })
}

// Remove drops name from the set before the server has confirmed it and collapses its detail.
// The returned snapshot undoes the removal through [Browser.Restore].
func (b *Browser) Remove(name string) (Snapshot, bool) {
	snap := Snapshot{playlists: slices.Clone(b.all)}
	if b.index(name) < 0 {
		return snap, false
	}

	b.all = slices.DeleteFunc(slices.Clone(b.all), func(p models.Playlist) bool { return p.Name == name })
	if b.expanded == name {
		b.expanded = ""
	}
	b.recompute()
	return snap, true
}

// Restore returns the set to the snapshot taken by [Browser.Remove].
// The expanded detail stays collapsed.
func (b *Browser) Restore(snap Snapshot) {
	b.all = slices.Clone(snap.playlists)
	b.recompute()
}

// Delete removes name optimistically, asks the server to delete it and rolls back when the server refuses.
func (b *Browser) Delete(ctx context.Context, d Deleter, name string) error {
	snap, ok := b.Remove(name)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, name)
	}
	if err := d.DeleteByName(ctx, name); err != nil {
		b.Restore(snap)
		return err
	}
	return nil
}
