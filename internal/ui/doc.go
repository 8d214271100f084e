// Package ui implements the interactive playlist shell using bubbletea's Elm architecture.
//
// The shell has two tabs:
//  1. [ListTab] : browse playlists with search, sort, page size and paging; expand one to see its songs,
//     append a song to it or delete it
//  2. [CreateTab] : fill in a new playlist with any number of song rows and submit it
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving results via the Msg union type.
// Every network call runs as a [tea.Cmd]; deletes are applied to the list first and rolled back when the server refuses.
// Appends stream [tasks.ProgressUpdate] values through a channel while the playlist is deleted and recreated.
//
// Success and error messages disappear after a configurable delay. Search, sort and page size are saved through [Prefs].
package ui
