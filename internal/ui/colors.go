package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title     lipgloss.Style
	ok        lipgloss.Style
	err       lipgloss.Style
	warn      lipgloss.Style
	help      lipgloss.Style
	tab       lipgloss.Style
	activeTab lipgloss.Style
	header    lipgloss.Style
	cell      lipgloss.Style
	selected  lipgloss.Style
	label     lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:     NewBold(t).MarginBottom(1),
		ok:        NewBold(s),
		err:       NewBold(e),
		warn:      NewStyle(w),
		help:      NewEm(h),
		tab:       NewStyle(h).Padding(0, 2),
		activeTab: NewBold(t).Padding(0, 2).Underline(true),
		header:    NewBold(t).Padding(0, 1),
		cell:      lipgloss.NewStyle().Padding(0, 1),
		selected:  lipgloss.NewStyle().Padding(0, 1).Bold(true).Background(lipgloss.Color(t)).Foreground(lipgloss.Color("#FFFFFF")),
		label:     NewStyle(h).Width(14),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
