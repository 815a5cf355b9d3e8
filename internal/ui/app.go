package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"

	"github.com/five82/marquee/internal/browse"
	"github.com/five82/marquee/internal/favorites"
	"github.com/five82/marquee/internal/paging"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/storage"
	"github.com/five82/marquee/internal/tmdb"
)

// View represents the current active view.
type View int

const (
	ViewPopular View = iota
	ViewSearch
	ViewFavorites
	ViewDetail
)

// listViewCount is the number of list views; ViewDetail is not one of them.
const listViewCount = 3

func (v View) String() string {
	switch v {
	case ViewPopular:
		return "popular"
	case ViewSearch:
		return "search"
	case ViewFavorites:
		return "favorites"
	case ViewDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	API       tmdb.MovieAPI
	Favorites *favorites.Store
	// Session backs the popular listing cache. Nil disables it.
	Session   storage.Store
	Logger    *slog.Logger
	ThemeName string
	Sort      browse.SortOrder
	PrefsPath string
	// Language is the TMDB language code used for title collation.
	Language     string
	ImageURL     func(path, size string) string
	FetchTimeout time.Duration
	BatchLimit   int
}

// pendingRestore re-selects a movie once the list it came from holds it
// again. It gives up after RestoreMaxAttempts tries.
type pendingRestore struct {
	active   bool
	view     View
	movieID  int
	attempts int
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx          context.Context
	favs         *favorites.Store
	logger       *slog.Logger
	prefsPath    string
	lang         language.Tag
	imageURL     func(path, size string) string
	fetchTimeout time.Duration

	// Data
	popular   *browse.Popular
	search    *browse.Search
	favorited *browse.Favorited
	details   *browse.Details

	// UI state
	keys         keyMap
	theme        Theme
	sortOrder    browse.SortOrder
	currentView  View
	previousView View
	width        int
	height       int
	ready        bool

	// Selection per list view
	selected [listViewCount]int
	restore  pendingRestore

	// Widgets
	searchInput    textinput.Model
	searchFocused  bool
	spinner        spinner.Model
	detailViewport viewport.Model

	// Help overlay
	showHelp bool

	// Status line
	statusMsg  string
	saveWarned bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	favs := opts.Favorites
	if favs == nil {
		favs = favorites.Load(nil, logger)
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Defaults().Theme
	}

	sortOrder := opts.Sort
	if sortOrder == "" {
		sortOrder = browse.DefaultSort
	}

	fetchTimeout := opts.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}

	imageURL := opts.ImageURL
	if imageURL == nil {
		imageURL = tmdb.ImageURL
	}

	limit := opts.BatchLimit
	if limit <= 0 {
		limit = browse.DefaultBatchLimit
	}

	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "Search movies..."
	input.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:          ctx,
		favs:         favs,
		logger:       logger,
		prefsPath:    opts.PrefsPath,
		lang:         browse.LanguageTag(opts.Language),
		imageURL:     imageURL,
		fetchTimeout: fetchTimeout,
		popular:      browse.NewPopular(opts.API, opts.Session, logger),
		search:       browse.NewSearch(opts.API),
		favorited:    browse.NewFavorited(opts.API, limit),
		details:      browse.NewDetails(opts.API),
		keys:         DefaultKeyMap(),
		theme:        GetTheme(themeName),
		sortOrder:    sortOrder,
		currentView:  ViewPopular,
		searchInput:  input,
		spinner:      sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.spinner.Tick,
		m.openPopular(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.detailViewport = viewport.New(0, 0)
		}
		m.ready = true
		m.resizeDetailViewport()
		m.updateDetailViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pageMsg:
		return m.handlePage(msg)

	case detailsMsg:
		m.handleDetails(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.searchFocused {
		return m.handleSearchInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.updateDetailViewport()
		return m, nil

	case key.Matches(msg, m.keys.CycleSort):
		m.sortOrder = m.sortOrder.Next()
		m.selected[ViewFavorites] = 0
		m.statusMsg = "Sort: " + m.sortOrder.Label()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ViewPopular):
		cmd := m.switchView(ViewPopular)
		return m, cmd

	case key.Matches(msg, m.keys.ViewSearch):
		cmd := m.switchView(ViewSearch)
		focus := m.focusSearch()
		return m, tea.Batch(cmd, focus)

	case key.Matches(msg, m.keys.ViewFavorites):
		cmd := m.switchView(ViewFavorites)
		return m, cmd

	case key.Matches(msg, m.keys.Search):
		cmd := m.switchView(ViewSearch)
		focus := m.focusSearch()
		return m, tea.Batch(cmd, focus)

	case key.Matches(msg, m.keys.Tab):
		cmd := m.switchView((m.listView() + 1) % listViewCount)
		return m, cmd

	case key.Matches(msg, m.keys.ShiftTab):
		cmd := m.switchView((m.listView() + listViewCount - 1) % listViewCount)
		return m, cmd
	}

	if m.currentView == ViewDetail {
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

// handleListKey processes keyboard input for the list views.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.currentView

	switch {
	case key.Matches(msg, m.keys.Retry):
		cmd := m.retry(view)
		return m, cmd
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(view, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(view, 1)
	case key.Matches(msg, m.keys.Top):
		m.selected[view] = 0
	case key.Matches(msg, m.keys.Bottom):
		m.moveSelection(view, len(m.visibleMovies(view)))
	case key.Matches(msg, m.keys.HalfPageUp):
		m.moveSelection(view, -m.halfPage())
	case key.Matches(msg, m.keys.HalfPageDown):
		m.moveSelection(view, m.halfPage())
	case key.Matches(msg, m.keys.Open):
		cmd := m.openDetail()
		return m, cmd
	case key.Matches(msg, m.keys.ToggleFavorite):
		if movie, ok := m.selectedMovie(); ok {
			m.toggleFavorite(movie.ID, movie.Title)
			m.clampSelection(view)
		}
		return m, nil
	default:
		return m, nil
	}

	cmd := m.maybeLoadMore(view)
	return m, cmd
}

// handleDetailKey processes keyboard input for the detail view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.details.Snapshot()

	switch {
	case key.Matches(msg, m.keys.Back):
		cmd := m.leaveDetail()
		return m, cmd
	case key.Matches(msg, m.keys.Retry):
		if snap.Phase == paging.PhaseFailed {
			cmd := m.loadDetails(snap.ID)
			return m, cmd
		}
		return m, nil
	case key.Matches(msg, m.keys.ToggleFavorite):
		if snap.Movie != nil {
			m.toggleFavorite(snap.Movie.ID, snap.Movie.Title)
			m.updateDetailViewport()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

// switchView activates a list view, triggering the fetch it needs.
func (m *Model) switchView(v View) tea.Cmd {
	m.currentView = v
	m.statusMsg = ""
	switch v {
	case ViewPopular:
		return m.openPopular()
	case ViewFavorites:
		return m.syncFavorites()
	}
	return nil
}

// listView returns the list view currently shown, or the one the detail
// view was opened from.
func (m Model) listView() View {
	if m.currentView == ViewDetail {
		return m.previousView
	}
	return m.currentView
}

func (m *Model) openPopular() tea.Cmd {
	if req, ok := m.popular.Open(); ok {
		return m.fetchPage(ViewPopular, req)
	}
	return nil
}

func (m *Model) syncFavorites() tea.Cmd {
	req, ok := m.favorited.Sync(m.favs.List())
	m.clampSelection(ViewFavorites)
	if ok {
		return m.fetchPage(ViewFavorites, req)
	}
	return nil
}

// retry re-requests a failed page, or refreshes the popular listing.
func (m *Model) retry(view View) tea.Cmd {
	switch view {
	case ViewPopular:
		if req, ok := m.popular.Retry(); ok {
			return m.fetchPage(view, req)
		}
		m.selected[view] = 0
		m.statusMsg = "Refreshing popular movies"
		return m.fetchPage(view, m.popular.Refresh())
	case ViewSearch:
		if req, ok := m.search.Retry(); ok {
			return m.fetchPage(view, req)
		}
	case ViewFavorites:
		if req, ok := m.favorited.Retry(); ok {
			return m.fetchPage(view, req)
		}
	}
	return nil
}

// toggleFavorite flips membership and reports the outcome on the status line.
func (m *Model) toggleFavorite(id int, title string) {
	added := m.favs.Toggle(id)
	m.statusMsg = ternary(added, "Added ", "Removed ") + truncate(title, 40) + ternary(added, " to favorites", " from favorites")
	if err := m.favs.LastSaveError(); err != nil && !m.saveWarned {
		m.saveWarned = true
		m.statusMsg = "Warning: favorites may not be saved"
	}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, Sort: string(m.sortOrder)}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save preferences failed", slog.String("error", err.Error()))
	}
}

func (m Model) halfPage() int {
	return max((m.height-4)/2, 1)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + view tabs + status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar or search box
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	if m.currentView == ViewDetail {
		return m.renderDetail()
	}
	return m.renderList(m.currentView)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
