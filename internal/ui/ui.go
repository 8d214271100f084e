package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/playlistctl/internal/browse"
	"github.com/desertthunder/playlistctl/internal/forms"
	"github.com/desertthunder/playlistctl/internal/models"
	"github.com/desertthunder/playlistctl/internal/services"
	"github.com/desertthunder/playlistctl/internal/shared"
	"github.com/desertthunder/playlistctl/internal/tasks"
)

// Tab is one of the top level screens.
type Tab int

const (
	ListTab Tab = iota
	CreateTab
)

func (t Tab) String() string {
	switch t {
	case ListTab:
		return "Playlists"
	case CreateTab:
		return "New playlist"
	default:
		return "Unknown"
	}
}

// listMode decides where key presses on the list tab go.
type listMode int

const (
	browsing listMode = iota
	searching
	confirmingDelete
	addingSong
)

// Prefs persists the list view between sessions. Implemented by [storage.PrefsStore].
type Prefs interface {
	SaveViewState(state browse.ViewState) error
	LoadViewState() (browse.ViewState, bool, error)
}

// Options are the dependencies of a [Model]. Only Service is required.
type Options struct {
	Service    services.PlaylistService
	Engine     *tasks.PlaylistEngine
	Prefs      Prefs
	Logger     *log.Logger
	PageSize   int
	MessageTTL time.Duration
}

type flash struct {
	text  string
	isErr bool
	seq   int
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	svc    services.PlaylistService
	engine *tasks.PlaylistEngine
	prefs  Prefs
	logger *log.Logger
	ttl    time.Duration

	tab     Tab
	mode    listMode
	width   int
	height  int
	browser *browse.Browser
	cursor  int
	loading bool
	search  textinput.Model

	deleting string
	detail   *tasks.DetailView

	song         []textinput.Model
	songFocus    int
	appending    bool
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate

	create *createForm
	flash  flash
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model. The saved view state is restored from opts.Prefs when present.
func NewModel(ctx context.Context, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	engine := opts.Engine
	if engine == nil {
		engine = tasks.NewPlaylistEngine(opts.Service, nil, logger)
	}
	ttl := opts.MessageTTL
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	state := browse.ViewState{PageSize: opts.PageSize}
	if opts.Prefs != nil {
		saved, found, err := opts.Prefs.LoadViewState()
		switch {
		case err != nil:
			logger.Warn("could not load saved view state", "error", err)
		case found:
			state = saved
		}
	}

	search := newTextInput("name or description", 100)
	search.Prompt = "Search: "
	search.SetValue(state.SearchTerm)

	return &Model{
		ctx:     ctx,
		svc:     opts.Service,
		engine:  engine,
		prefs:   opts.Prefs,
		logger:  logger,
		ttl:     ttl,
		browser: browse.NewBrowser(state),
		search:  search,
		song:    songInputs(),
		create:  newCreateForm(),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init loads the playlists.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case Msg:
		return m.handleMsg(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.forceQuit) {
			m.savePrefs()
			return m, tea.Quit
		}
		if m.tab == CreateTab {
			return m.handleFormKeys(msg)
		}
		return m.handleListKeys(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPlaylistsLoaded:
		data := msg.data.(loadedData)
		m.loading = false
		if data.err != nil {
			m.logger.Error("failed to load playlists", "error", data.err)
			return m, m.setFlash(loadErrorMessage(data.err), true)
		}
		m.browser.SetPlaylists(data.playlists)
		m.clampCursor()
		return m, nil

	case MsgPlaylistDeleted:
		data := msg.data.(deletedData)
		if data.err != nil {
			m.logger.Error("failed to delete playlist", "name", data.name, "error", data.err)
			m.browser.Restore(data.snapshot)
			m.clampCursor()
			return m, m.setFlash(deleteErrorMessage(data.err), true)
		}
		return m, m.setFlash(deletedMessage(data.name), false)

	case MsgPlaylistCreated:
		data := msg.data.(createdData)
		m.create.form.Finish(data.err)
		if data.err != nil {
			m.logger.Error("failed to create playlist", "error", data.err)
			return m, m.setFlash(forms.CreateErrorMessage(data.err), true)
		}
		name := m.create.inputs[0].Value()
		if data.playlist != nil {
			name = data.playlist.Name
		}
		m.create.reset()
		m.tab = ListTab
		return m, tea.Batch(m.setFlash(forms.CreatedMessage(name), false), m.load())

	case MsgDetailLoaded:
		return m.handleDetailLoaded(msg.data.(detailData))

	case MsgSongAppended:
		return m.handleAppended(msg.data.(appendedData))

	case MsgProgressUpdate:
		// Updates still buffered after the append finished are dropped.
		if m.progressChan == nil {
			return m, nil
		}
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, waitForProgress(m.progressChan)

	case MsgProgressDone:
		return m, nil

	case MsgFlashExpired:
		if msg.data.(int) == m.flash.seq {
			m.flash.text = ""
		}
		return m, nil
	}
	return m, nil
}

// handleDetailLoaded keeps the fetched view when its playlist is still the expanded one.
func (m *Model) handleDetailLoaded(data detailData) (tea.Model, tea.Cmd) {
	name := data.view.Name()
	if name != m.browser.ExpandedName() {
		return m, nil
	}
	m.detail = data.view
	if data.err != nil {
		m.logger.Error("failed to load playlist", "name", name, "error", data.err)
		return m, m.setFlash(data.err.Error(), true)
	}
	if p, ok := data.view.Playlist(); ok {
		m.browser.Replace(p)
	}
	return m, nil
}

func (m *Model) handleAppended(data appendedData) (tea.Model, tea.Cmd) {
	name := data.view.Name()
	m.appending = false
	m.progressChan = nil
	m.progress = tasks.ProgressUpdate{}
	if m.detail != nil && m.detail.Name() == name {
		m.detail = data.view
	}
	if data.err != nil {
		m.logger.Error("failed to append song", "name", name, "error", data.err)
		var appendErr *tasks.AppendError
		if errors.As(data.err, &appendErr) && appendErr.Phase == tasks.CreatePlaylist {
			if appendErr.Reloaded != nil {
				m.browser.Replace(*appendErr.Reloaded)
			} else {
				m.browser.Remove(name)
				m.mode = browsing
				m.clampCursor()
			}
		}
		return m, m.setFlash(data.err.Error(), true)
	}

	if data.playlist != nil {
		m.browser.Replace(*data.playlist)
	}
	m.mode = browsing
	setSongInputs(m.song, forms.SongForm{})
	focusInput(m.song, -1)
	return m, m.setFlash(tasks.SongAddedMessage, false)
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case searching:
		return m.handleSearchKeys(msg)
	case confirmingDelete:
		return m.handleConfirmKeys(msg)
	case addingSong:
		return m.handleSongKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.savePrefs()
		return m, tea.Quit
	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.cursor < len(m.browser.Page())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.prevPage):
		if m.browser.PrevPage() {
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.nextPage):
		if m.browser.NextPage() {
			m.cursor = 0
		}
	case key.Matches(msg, m.keys.enter):
		if p, ok := m.selected(); ok {
			m.browser.ToggleExpanded(p.Name)
			if m.browser.ExpandedName() == p.Name {
				return m, m.loadDetail(p.Name)
			}
		}
	case key.Matches(msg, m.keys.back):
		m.browser.Collapse()
	case key.Matches(msg, m.keys.search):
		m.mode = searching
		m.search.Focus()
	case key.Matches(msg, m.keys.sort):
		m.changeView(func() { m.browser.SetSort(m.browser.State().Sort.Next()) })
	case key.Matches(msg, m.keys.byName):
		m.changeView(func() { m.browser.ToggleSort(browse.FieldName) })
	case key.Matches(msg, m.keys.byDesc):
		m.changeView(func() { m.browser.ToggleSort(browse.FieldDescription) })
	case key.Matches(msg, m.keys.bySongs):
		m.changeView(func() { m.browser.ToggleSort(browse.FieldSongs) })
	case key.Matches(msg, m.keys.pageSize):
		m.changeView(func() { _ = m.browser.SetPageSize(browse.NextPageSize(m.browser.State().PageSize)) })
	case key.Matches(msg, m.keys.reload):
		if !m.loading {
			return m, m.load()
		}
	case key.Matches(msg, m.keys.remove):
		if p, ok := m.selected(); ok {
			m.deleting = p.Name
			m.mode = confirmingDelete
		}
	case key.Matches(msg, m.keys.addSong):
		if p, ok := m.selected(); ok && !m.appending {
			var cmd tea.Cmd
			if m.browser.ExpandedName() != p.Name {
				m.browser.ToggleExpanded(p.Name)
				cmd = m.loadDetail(p.Name)
			}
			m.mode = addingSong
			m.songFocus = 0
			focusInput(m.song, 0)
			return m, cmd
		}
	case key.Matches(msg, m.keys.newTab):
		m.tab = CreateTab
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// changeView applies a sort or page size change, returns the cursor to the top and saves the view.
func (m *Model) changeView(change func()) {
	change()
	m.cursor = 0
	m.savePrefs()
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.enter) || key.Matches(msg, m.keys.back) {
		m.mode = browsing
		m.search.Blur()
		m.savePrefs()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if term := m.search.Value(); term != m.browser.State().SearchTerm {
		m.browser.SetSearchTerm(term)
		m.cursor = 0
	}
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		name := m.deleting
		m.deleting = ""
		m.mode = browsing
		return m, m.startDelete(name)
	case key.Matches(msg, m.keys.no):
		m.deleting = ""
		m.mode = browsing
	}
	return m, nil
}

func (m *Model) handleSongKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.mode = browsing
		focusInput(m.song, -1)
		return m, nil
	case key.Matches(msg, m.keys.nextField):
		m.songFocus = (m.songFocus + 1) % len(m.song)
		focusInput(m.song, m.songFocus)
		return m, nil
	case key.Matches(msg, m.keys.prevField):
		m.songFocus = (m.songFocus + len(m.song) - 1) % len(m.song)
		focusInput(m.song, m.songFocus)
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if m.appending {
			return m, nil
		}
		song := songFromInputs(m.song)
		if err := song.Validate(); err != nil {
			return m, m.setFlash(forms.IncompleteMessage, true)
		}
		if _, ok := m.browser.Expanded(); !ok {
			m.mode = browsing
			return m, nil
		}
		view, ok := m.loadedDetail()
		if !ok {
			return m, m.setFlash(detailNotLoadedMessage(m.browser.ExpandedName()), true)
		}
		return m, m.startAppend(view, song)
	}

	var cmd tea.Cmd
	m.song[m.songFocus], cmd = m.song[m.songFocus].Update(msg)
	return m, cmd
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.create
	if c.confirm >= 0 {
		switch {
		case key.Matches(msg, m.keys.yes):
			c.answerRemove(true)
		case key.Matches(msg, m.keys.no):
			c.answerRemove(false)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.listTab):
		m.tab = ListTab
	case key.Matches(msg, m.keys.nextField):
		c.move(1)
	case key.Matches(msg, m.keys.prevField):
		c.move(-1)
	case key.Matches(msg, m.keys.addRow):
		c.addRow()
	case key.Matches(msg, m.keys.insertRow):
		c.insertRow()
	case key.Matches(msg, m.keys.removeRow):
		c.askRemove()
	case key.Matches(msg, m.keys.submit):
		return m, m.submitCreate()
	default:
		return m, c.update(msg)
	}
	return m, nil
}

func (m *Model) selected() (models.Playlist, bool) {
	page := m.browser.Page()
	if m.cursor < 0 || m.cursor >= len(page) {
		return models.Playlist{}, false
	}
	return page[m.cursor], true
}

// loadedDetail returns the fetched view of the expanded playlist, if the fetch has returned it.
func (m *Model) loadedDetail() (*tasks.DetailView, bool) {
	if m.detail == nil || m.detail.Name() != m.browser.ExpandedName() {
		return nil, false
	}
	if _, ok := m.detail.Playlist(); !ok {
		return nil, false
	}
	return m.detail, true
}

func (m *Model) clampCursor() {
	if n := len(m.browser.Page()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m *Model) savePrefs() {
	if m.prefs == nil {
		return
	}
	if err := m.prefs.SaveViewState(m.browser.State()); err != nil {
		m.logger.Warn("could not save view state", "error", err)
	}
}

// setFlash shows text until the TTL passes or another message replaces it.
func (m *Model) setFlash(text string, isErr bool) tea.Cmd {
	seq := m.flash.seq + 1
	m.flash = flash{text: text, isErr: isErr, seq: seq}
	return tea.Tick(m.ttl, func(time.Time) tea.Msg {
		return flashExpiredMsg(seq)
	})
}

func (m *Model) load() tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		playlists, err := m.svc.FindAll(m.ctx)
		return playlistsLoadedMsg(playlists, err)
	}
}

// loadDetail fetches name for the inline detail. The view is built by the command and handed back in the reply.
func (m *Model) loadDetail(name string) tea.Cmd {
	m.detail = nil
	return func() tea.Msg {
		view := tasks.NewDetailView(m.engine, name)
		_, err := view.Load(m.ctx)
		return detailLoadedMsg(view, err)
	}
}

// startDelete removes name from the list right away; the reply restores it on failure.
func (m *Model) startDelete(name string) tea.Cmd {
	snap, ok := m.browser.Remove(name)
	if !ok {
		return nil
	}
	m.clampCursor()

	return func() tea.Msg {
		err := m.svc.DeleteByName(m.ctx, name)
		return playlistDeletedMsg(name, snap, err)
	}
}

func (m *Model) submitCreate() tea.Cmd {
	dto, err := m.create.begin()
	switch {
	case errors.Is(err, shared.ErrSubmitInProgress):
		return nil
	case err != nil:
		return m.setFlash(forms.IncompleteMessage, true)
	}

	return func() tea.Msg {
		created, err := m.svc.Create(m.ctx, dto)
		return playlistCreatedMsg(created, err)
	}
}

// startAppend runs the append in the background and streams its progress.
// The command works on a copy of view and returns it with the result.
func (m *Model) startAppend(view *tasks.DetailView, song forms.SongForm) tea.Cmd {
	ch := make(chan tasks.ProgressUpdate, 8)
	m.progressChan = ch
	m.appending = true
	work := *view

	run := func() tea.Msg {
		defer close(ch)
		created, err := work.AppendSong(m.ctx, song, ch)
		return songAppendedMsg(&work, created, err)
	}
	return tea.Batch(run, waitForProgress(ch))
}

func waitForProgress(ch <-chan tasks.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return progressDoneMsg()
		}
		return progressUpdateMsg(update)
	}
}

// View renders the active tab, the flash message and the help line.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	var keys help.KeyMap
	switch m.tab {
	case CreateTab:
		b.WriteString(styles.title.Render("New playlist"))
		b.WriteString("\n")
		b.WriteString(m.create.view())
		keys = formKeyMap{m.keys}
	default:
		b.WriteString(m.renderList())
		keys = listKeyMap{m.keys}
	}

	if m.flash.text != "" {
		style := styles.ok
		if m.flash.isErr {
			style = styles.err
		}
		fmt.Fprintf(&b, "\n\n%s", style.Render(m.flash.text))
	}

	fmt.Fprintf(&b, "\n\n%s", m.help.View(keys))
	return b.String()
}
