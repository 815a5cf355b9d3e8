package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/browse"
	"github.com/five82/marquee/internal/paging"
	"github.com/five82/marquee/internal/tmdb"
)

// listState returns the snapshot a list view renders. The favorites view is
// filtered to current members and put in the chosen sort order.
func (m Model) listState(view View) paging.Snapshot[tmdb.Movie] {
	switch view {
	case ViewPopular:
		return m.popular.Snapshot()
	case ViewSearch:
		return m.search.Snapshot()
	case ViewFavorites:
		snap := m.favorited.Snapshot()
		members := make([]tmdb.Movie, 0, len(snap.Items))
		for _, movie := range snap.Items {
			if m.favs.Contains(movie.ID) {
				members = append(members, movie)
			}
		}
		snap.Items = browse.SortMovies(members, m.sortOrder, m.lang)
		return snap
	default:
		return paging.Snapshot[tmdb.Movie]{}
	}
}

func (m Model) visibleMovies(view View) []tmdb.Movie {
	return m.listState(view).Items
}

// selectedMovie returns the highlighted movie of the current list view.
func (m Model) selectedMovie() (tmdb.Movie, bool) {
	view := m.listView()
	items := m.visibleMovies(view)
	idx := m.selected[view]
	if idx < 0 || idx >= len(items) {
		return tmdb.Movie{}, false
	}
	return items[idx], true
}

// moveSelection moves the cursor by delta, clamped to the list.
func (m *Model) moveSelection(view View, delta int) {
	count := len(m.visibleMovies(view))
	if count == 0 {
		m.selected[view] = 0
		return
	}
	m.selected[view] = min(max(m.selected[view]+delta, 0), count-1)
}

// clampSelection keeps the cursor inside the list after it changes.
func (m *Model) clampSelection(view View) {
	m.moveSelection(view, 0)
}

// maybeLoadMore requests the next page once the cursor is close to the end
// of a paginated list.
func (m *Model) maybeLoadMore(view View) tea.Cmd {
	count := len(m.visibleMovies(view))
	if count-m.selected[view] > LoadMoreThreshold {
		return nil
	}
	var (
		req paging.Request
		ok  bool
	)
	switch view {
	case ViewPopular:
		req, ok = m.popular.LoadMore()
	case ViewSearch:
		req, ok = m.search.LoadMore()
	}
	if !ok {
		return nil
	}
	return m.fetchPage(view, req)
}

// openDetail shows the highlighted movie.
func (m *Model) openDetail() tea.Cmd {
	movie, ok := m.selectedMovie()
	if !ok {
		return nil
	}
	m.previousView = m.currentView
	m.currentView = ViewDetail
	m.restore = pendingRestore{}
	m.detailViewport.GotoTop()
	return m.loadDetails(movie.ID)
}

// leaveDetail returns to the list the detail view was opened from and
// re-selects the movie that was shown.
func (m *Model) leaveDetail() tea.Cmd {
	view := m.previousView
	m.currentView = view
	snap := m.details.Snapshot()
	if snap.ID > 0 {
		m.restore = pendingRestore{active: true, view: view, movieID: snap.ID}
	}
	var cmd tea.Cmd
	if view == ViewFavorites {
		cmd = m.syncFavorites()
	}
	m.tryRestore(view)
	return cmd
}

// tryRestore looks for the pending movie in view. Every miss counts as an
// attempt.
func (m *Model) tryRestore(view View) bool {
	r := &m.restore
	if !r.active || r.view != view {
		return false
	}
	for i, movie := range m.visibleMovies(view) {
		if movie.ID == r.movieID {
			m.selected[view] = i
			*r = pendingRestore{}
			return true
		}
	}
	r.attempts++
	if r.attempts >= RestoreMaxAttempts {
		*r = pendingRestore{}
	}
	return false
}

// continueRestore retries a pending restore after new items arrive and
// pages further while the movie is still missing.
func (m *Model) continueRestore(view View) tea.Cmd {
	if !m.restore.active || m.restore.view != view {
		return nil
	}
	if m.tryRestore(view) || !m.restore.active {
		return nil
	}
	switch view {
	case ViewPopular:
		if req, ok := m.popular.LoadMore(); ok {
			return m.fetchPage(view, req)
		}
	case ViewSearch:
		if req, ok := m.search.LoadMore(); ok {
			return m.fetchPage(view, req)
		}
	}
	return nil
}
