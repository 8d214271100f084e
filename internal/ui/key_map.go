package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

var _ help.KeyMap = listKeyMap{}

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	prevPage key.Binding
	nextPage key.Binding
	enter    key.Binding
	back     key.Binding
	search   key.Binding
	sort     key.Binding
	byName   key.Binding
	byDesc   key.Binding
	bySongs  key.Binding
	pageSize key.Binding
	reload   key.Binding
	remove   key.Binding
	addSong  key.Binding
	yes      key.Binding
	no       key.Binding
	listTab  key.Binding
	newTab   key.Binding
	help     key.Binding
	quit     key.Binding

	nextField key.Binding
	prevField key.Binding
	addRow    key.Binding
	insertRow key.Binding
	removeRow key.Binding
	submit    key.Binding
	forceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		prevPage: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
		nextPage: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle sort")),
		byName:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "sort name")),
		byDesc:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "sort description")),
		bySongs:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "sort songs")),
		pageSize: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "page size")),
		reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		remove:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		addSong:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add song")),
		yes:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:       key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		listTab:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "list")),
		newTab:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new playlist")),
		help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		nextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		addRow:    key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "add song")),
		insertRow: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "insert song")),
		removeRow: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "remove song")),
		submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		forceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// listKeyMap is the help view of the list tab.
type listKeyMap struct{ keyMap }

func (k listKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.search, k.sort, k.remove, k.newTab, k.help, k.quit}
}

func (k listKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.prevPage, k.nextPage},
		{k.enter, k.addSong, k.remove, k.reload},
		{k.search, k.sort, k.byName, k.byDesc, k.bySongs, k.pageSize},
		{k.newTab, k.help, k.quit},
	}
}

// formKeyMap is the help view of the create tab.
type formKeyMap struct{ keyMap }

func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.nextField, k.addRow, k.removeRow, k.submit, k.listTab}
}

func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.nextField, k.prevField},
		{k.addRow, k.insertRow, k.removeRow},
		{k.submit, k.listTab, k.forceQuit},
	}
}
