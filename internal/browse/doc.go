// Package browse derives the visible playlist list from the full set held in memory.
//
// The pipeline is [Filter], then [SortPlaylists], then [PageSlice]. All three are pure.
// [Browser] holds the full set plus a [ViewState] and recomputes the pipeline on every change.
// It also implements optimistic deletion: [Browser.Remove] drops a playlist at once and
// [Browser.Restore] puts it back when the server rejects the delete.
package browse
