package tui

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/folio/internal/domain"
	"github.com/mmcdole/folio/internal/library"
	"github.com/mmcdole/folio/internal/session"
	"github.com/mmcdole/folio/internal/viewer"
)

// viewState selects which page shell is rendered
type viewState int

const (
	viewLibrary viewState = iota
	viewReader
)

// inputMode tracks what the shared text input is collecting
type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputUploadPath
	inputGoToPage
	inputPageCount
	inputConfirmDelete
)

// Model is the main Bubble Tea model for the application
type Model struct {
	store    *library.Store
	gateway  domain.Gateway
	syncer   *session.Syncer
	launcher *viewer.Launcher
	logger   *slog.Logger
	keys     KeyMap

	view viewState
	sess *session.Session

	// Library view state
	cursor       int
	searchQuery  string
	statusFilter domain.ReadingStatus
	input        textinput.Model
	mode         inputMode
	pendingID    string // book awaiting delete confirmation

	// UI state
	statusMsg    string
	statusIsErr  bool
	loading      bool
	spinnerFrame int
	width        int
	height       int
}

// NewModel creates the application model
func NewModel(
	store *library.Store,
	gateway domain.Gateway,
	syncer *session.Syncer,
	launcher *viewer.Launcher,
	logger *slog.Logger,
) Model {
	if logger == nil {
		logger = slog.Default()
	}

	ti := textinput.New()
	ti.CharLimit = 256

	return Model{
		store:    store,
		gateway:  gateway,
		syncer:   syncer,
		launcher: launcher,
		logger:   logger,
		keys:     DefaultKeyMap(),
		input:    ti,
	}
}

// Init starts the initial library fetch
func (m Model) Init() tea.Cmd {
	m.store.Restore()
	return tea.Batch(
		FetchBooksCmd(m.store, domain.ListParams{}),
		TickCmd(),
	)
}

// Update routes messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TickMsg:
		if m.loading {
			m.spinnerFrame++
			return m, TickCmd()
		}
		return m, nil

	case BooksFetchedMsg:
		m.loading = false
		m.clampCursor()
		return m, nil

	case BookOpenedMsg:
		m.loading = false
		m.view = viewReader
		return m, nil

	case OpenFailedMsg:
		m.loading = false
		// Session is terminal in its Error state; the reader view shows
		// the failure with a back-to-library affordance.
		m.view = viewReader
		return m, nil

	case BookDeletedMsg:
		m.setStatus("Deleted "+msg.Title, false)
		m.clampCursor()
		return m, nil

	case BookUploadedMsg:
		m.setStatus("Uploaded "+msg.Book.Title, false)
		return m, nil

	case ViewerLaunchedMsg:
		m.setStatus("Opened "+msg.Title+" in external viewer", false)
		return m, nil

	case SessionClosedMsg:
		return m, nil

	case ErrMsg:
		m.loading = false
		m.setStatus(msg.Error(), true)
		return m, nil

	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.updateInput(msg)
		}
		if m.view == viewReader {
			return m.updateReader(msg)
		}
		return m.updateLibrary(msg)
	}

	return m, nil
}

// updateInput handles keys while the shared text input is active
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = inputNone
		m.input.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = inputNone
		m.input.Blur()
		m.input.SetValue("")
		return m.commitInput(mode, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == inputSearch {
		// Filter as the user types
		m.searchQuery = m.input.Value()
		m.clampCursor()
	}
	return m, cmd
}

// commitInput applies a finished input value
func (m Model) commitInput(mode inputMode, value string) (tea.Model, tea.Cmd) {
	switch mode {
	case inputSearch:
		m.searchQuery = value
		m.clampCursor()

	case inputUploadPath:
		if value != "" {
			m.loading = true
			return m, tea.Batch(UploadBookCmd(m.store, value, ""), TickCmd())
		}

	case inputGoToPage:
		if m.sess != nil {
			if page, err := strconv.Atoi(value); err == nil {
				m.sess.GoTo(page)
			}
		}

	case inputPageCount:
		if m.sess != nil {
			if n, err := strconv.Atoi(value); err == nil {
				m.sess.ReportPageCount(n)
			}
		}

	case inputConfirmDelete:
		id := m.pendingID
		m.pendingID = ""
		if strings.EqualFold(value, "y") || strings.EqualFold(value, "yes") {
			if book, ok := m.store.Get(id); ok {
				return m, DeleteBookCmd(m.store, id, book.Title)
			}
		}
	}
	return m, nil
}

// prompt activates the shared input
func (m *Model) prompt(mode inputMode, placeholder string) tea.Cmd {
	m.mode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	return m.input.Focus()
}

// visibleBooks applies search then status filter, the same composition the
// library view has always used
func (m Model) visibleBooks() []domain.Book {
	books := m.filterSearch()
	if m.statusFilter == "" {
		return books
	}
	out := make([]domain.Book, 0, len(books))
	for _, b := range books {
		if b.Status == m.statusFilter {
			out = append(out, b)
		}
	}
	return out
}

func (m *Model) clampCursor() {
	n := len(m.visibleBooks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusIsErr = isErr
}

// cycleStatusFilter rotates all → reading → completed → not-started → all
func (m *Model) cycleStatusFilter() {
	switch m.statusFilter {
	case "":
		m.statusFilter = domain.StatusReading
	case domain.StatusReading:
		m.statusFilter = domain.StatusCompleted
	case domain.StatusCompleted:
		m.statusFilter = domain.StatusNotStarted
	default:
		m.statusFilter = ""
	}
	m.clampCursor()
}

// updateLibrary handles keys on the library page
func (m Model) updateLibrary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	books := m.visibleBooks()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, ShutdownCmd(nil, m.syncer)

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(books)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Open):
		if m.cursor < len(books) {
			sess := session.New(m.store, m.gateway, m.syncer, m.logger)
			m.sess = sess
			m.loading = true
			return m, tea.Batch(OpenBookCmd(sess, books[m.cursor].ID), TickCmd())
		}

	case key.Matches(msg, m.keys.Search):
		cmd := m.prompt(inputSearch, "search titles")
		return m, cmd

	case key.Matches(msg, m.keys.Filter):
		m.cycleStatusFilter()

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, tea.Batch(FetchBooksCmd(m.store, domain.ListParams{}), TickCmd())

	case key.Matches(msg, m.keys.Upload):
		cmd := m.prompt(inputUploadPath, "path to .pdf or .epub")
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		if m.cursor < len(books) {
			m.pendingID = books[m.cursor].ID
			cmd := m.prompt(inputConfirmDelete, "delete "+books[m.cursor].Title+"? (y/n)")
			return m, cmd
		}

	case key.Matches(msg, m.keys.Back):
		if m.searchQuery != "" {
			m.searchQuery = ""
			m.clampCursor()
		}
	}

	return m, nil
}

// updateReader handles keys on the reader page
func (m Model) updateReader(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.sess == nil {
		m.view = viewLibrary
		return m, nil
	}

	// Error state only offers the way back
	if m.sess.State() == session.StateError {
		switch {
		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
			m.sess.Abort()
			m.sess = nil
			m.view = viewLibrary
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		// Return to the library right away; the flush runs as a command
		sess := m.sess
		m.sess = nil
		m.view = viewLibrary
		return m, CloseSessionCmd(sess)

	case key.Matches(msg, m.keys.Quit):
		return m, ShutdownCmd(m.sess, m.syncer)

	case key.Matches(msg, m.keys.NextPage):
		m.sess.Next()

	case key.Matches(msg, m.keys.PrevPage):
		m.sess.Prev()

	case key.Matches(msg, m.keys.GoToPage):
		cmd := m.prompt(inputGoToPage, "page number")
		return m, cmd

	case key.Matches(msg, m.keys.SetPages):
		cmd := m.prompt(inputPageCount, "total pages")
		return m, cmd

	case key.Matches(msg, m.keys.ViewMode):
		m.sess.ToggleViewMode()

	case key.Matches(msg, m.keys.Bookmark):
		m.store.ToggleBookmark(m.sess.Book().ID, m.sess.Page())

	case key.Matches(msg, m.keys.OpenViewer):
		return m, OpenViewerCmd(m.launcher, m.gateway, m.sess.Book())
	}

	return m, nil
}

// View renders the active page shell
func (m Model) View() string {
	if m.view == viewReader {
		return m.readerView()
	}
	return m.libraryView()
}
