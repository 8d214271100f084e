package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/playlistctl/internal/forms"
	"github.com/desertthunder/playlistctl/internal/models"
)

const songFieldCount = 5

var (
	songLabels = [songFieldCount]string{"Title*", "Artist*", "Album", "Year", "Genre"}
	songKeys   = [songFieldCount]string{"title", "artist", "album", "year", "genre"}
)

func newTextInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func songInputs() []textinput.Model {
	inputs := make([]textinput.Model, songFieldCount)
	for i, label := range songLabels {
		inputs[i] = newTextInput(label, 100)
	}
	inputs[3].CharLimit = 4
	return inputs
}

func songFromInputs(inputs []textinput.Model) forms.SongForm {
	return forms.SongForm{
		Title:  inputs[0].Value(),
		Artist: inputs[1].Value(),
		Album:  inputs[2].Value(),
		Year:   inputs[3].Value(),
		Genre:  inputs[4].Value(),
	}
}

func setSongInputs(inputs []textinput.Model, s forms.SongForm) {
	for i, v := range []string{s.Title, s.Artist, s.Album, s.Year, s.Genre} {
		inputs[i].SetValue(v)
	}
}

// focusInput focuses inputs[i] and blurs the rest.
func focusInput(inputs []textinput.Model, i int) {
	for j := range inputs {
		if j == i {
			inputs[j].Focus()
		} else {
			inputs[j].Blur()
		}
	}
}

// createForm binds a row of text inputs to each field of a [forms.PlaylistForm].
//
// inputs[0] is the name, inputs[1] the description, then five inputs per song row.
type createForm struct {
	form    *forms.PlaylistForm
	inputs  []textinput.Model
	focus   int
	confirm int
	errs    *forms.ValidationError
}

func newCreateForm() *createForm {
	c := &createForm{form: forms.NewPlaylistForm(), confirm: -1}
	c.rebuild()
	return c
}

// rebuild recreates the inputs from the form after rows were added or removed.
func (c *createForm) rebuild() {
	inputs := []textinput.Model{newTextInput("Playlist name", 100), newTextInput("Description", 255)}
	inputs[0].SetValue(c.form.Name)
	inputs[1].SetValue(c.form.Description)

	for _, s := range c.form.Songs {
		row := songInputs()
		setSongInputs(row, s)
		inputs = append(inputs, row...)
	}

	c.inputs = inputs
	c.focus = min(max(c.focus, 0), len(inputs)-1)
	focusInput(c.inputs, c.focus)
}

// sync copies the input values into the form.
func (c *createForm) sync() {
	c.form.Name = c.inputs[0].Value()
	c.form.Description = c.inputs[1].Value()
	for i := range c.form.Songs {
		base := 2 + i*songFieldCount
		c.form.Songs[i] = songFromInputs(c.inputs[base : base+songFieldCount])
	}
}

// songRow is the song index the focused input belongs to, or -1 for the playlist fields.
func (c *createForm) songRow() int {
	if c.focus < 2 {
		return -1
	}
	return (c.focus - 2) / songFieldCount
}

func fieldKey(i int) string {
	switch i {
	case 0:
		return "name"
	case 1:
		return "description"
	default:
		row, col := (i-2)/songFieldCount, (i-2)%songFieldCount
		return fmt.Sprintf("songs[%d].%s", row, songKeys[col])
	}
}

func (c *createForm) move(delta int) {
	n := len(c.inputs)
	c.focus = (c.focus + delta + n) % n
	focusInput(c.inputs, c.focus)
}

func (c *createForm) addRow() {
	c.sync()
	i := c.form.AddSong()
	c.focus = 2 + i*songFieldCount
	c.rebuild()
}

// insertRow puts a blank row above the focused one, or first when a playlist field has focus.
func (c *createForm) insertRow() {
	c.sync()
	i := max(c.songRow(), 0)
	if err := c.form.InsertSong(i); err != nil {
		return
	}
	c.focus = 2 + i*songFieldCount
	c.rebuild()
}

// askRemove marks the focused song row for removal. Every removal waits for a y/n answer, blank rows included.
func (c *createForm) askRemove() {
	row := c.songRow()
	if row < 0 {
		return
	}
	c.sync()
	c.confirm = row
}

// answerRemove removes the row waiting for confirmation when ok is true.
func (c *createForm) answerRemove(ok bool) {
	row := c.confirm
	c.confirm = -1
	err := c.form.RemoveSong(row, func(forms.SongForm) bool { return ok })
	if err != nil {
		return
	}
	c.errs = nil
	c.rebuild()
}

func (c *createForm) reset() {
	c.form.Reset()
	c.errs = nil
	c.confirm = -1
	c.focus = 0
	c.rebuild()
}

// begin syncs and validates the form. Field errors are kept for rendering.
func (c *createForm) begin() (models.Playlist, error) {
	c.sync()
	dto, err := c.form.Begin()
	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		c.errs = verr
		return models.Playlist{}, err
	}
	if err != nil {
		return models.Playlist{}, err
	}
	c.errs = nil
	return dto, nil
}

func (c *createForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.inputs[c.focus], cmd = c.inputs[c.focus].Update(msg)
	return cmd
}

func (c *createForm) view() string {
	var b strings.Builder

	label := func(i int, text string) string {
		if c.errs != nil && c.errs.Has(fieldKey(i)) {
			return styles.err.Width(14).Render(text)
		}
		return styles.label.Render(text)
	}

	fmt.Fprintf(&b, "%s %s\n", label(0, "Name*"), c.inputs[0].View())
	fmt.Fprintf(&b, "%s %s\n", label(1, "Description"), c.inputs[1].View())

	for row := range c.form.Songs {
		heading := fmt.Sprintf("\nSong %d", row+1)
		switch {
		case row == c.confirm && c.form.Songs[row].IsBlank():
			heading += styles.warn.Render("  remove this empty song? (y/n)")
		case row == c.confirm:
			heading += styles.warn.Render("  remove this song? (y/n)")
		}
		fmt.Fprintln(&b, styles.header.Render(heading))

		base := 2 + row*songFieldCount
		for col, text := range songLabels {
			fmt.Fprintf(&b, "  %s %s\n", label(base+col, text), c.inputs[base+col].View())
		}
	}

	if c.errs != nil {
		b.WriteString("\n")
		for _, f := range c.errs.Fields {
			fmt.Fprintln(&b, styles.err.Render(fmt.Sprintf("%s %s", f.Field, f.Message)))
		}
	}

	if c.form.Submitting() {
		b.WriteString("\n" + styles.help.Render("Saving..."))
	}
	return b.String()
}
