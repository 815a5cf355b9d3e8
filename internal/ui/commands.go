package ui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/paging"
	"github.com/five82/marquee/internal/tmdb"
)

// Messages

// pageMsg carries the outcome of one list page fetch back to Update.
type pageMsg struct {
	view View
	req  paging.Request
	res  paging.Result[tmdb.Movie]
	err  error
}

type detailsMsg struct {
	req paging.Request
	res paging.Result[tmdb.MovieDetails]
	err error
}

type pageFetcher func(context.Context, paging.Request) (paging.Result[tmdb.Movie], error)

// Commands

// fetchPage runs req for a list view off the update loop. The collection is
// only touched again when the resulting pageMsg is applied.
func (m Model) fetchPage(view View, req paging.Request) tea.Cmd {
	var fetch pageFetcher
	switch view {
	case ViewPopular:
		fetch = m.popular.Fetch
	case ViewSearch:
		fetch = m.search.Fetch
	case ViewFavorites:
		fetch = m.favorited.Fetch
	default:
		return nil
	}
	parent, timeout := m.ctx, m.fetchTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		res, err := fetch(ctx, req)
		return pageMsg{view: view, req: req, res: res, err: err}
	}
}

func (m Model) fetchDetails(req paging.Request) tea.Cmd {
	details, parent, timeout := m.details, m.ctx, m.fetchTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		res, err := details.Fetch(ctx, req)
		return detailsMsg{req: req, res: res, err: err}
	}
}

// loadDetails requests a movie's detail record unless it is already loaded.
func (m *Model) loadDetails(id int) tea.Cmd {
	req, ok := m.details.Load(id)
	m.updateDetailViewport()
	if !ok {
		return nil
	}
	return m.fetchDetails(req)
}

// handlePage applies a page outcome to its collection.
func (m Model) handlePage(msg pageMsg) (tea.Model, tea.Cmd) {
	var applied bool
	switch msg.view {
	case ViewPopular:
		applied = m.popular.Apply(msg.req, msg.res, msg.err)
	case ViewSearch:
		applied = m.search.Apply(msg.req, msg.res, msg.err)
	case ViewFavorites:
		applied = m.favorited.Apply(msg.req, msg.res, msg.err)
	}
	if !applied {
		m.logger.Debug("dropped stale page",
			slog.String("view", msg.view.String()),
			slog.Int("page", msg.req.Page),
		)
		return m, nil
	}
	if msg.err != nil {
		m.logger.Warn("page fetch failed",
			slog.String("view", msg.view.String()),
			slog.Int("page", msg.req.Page),
			slog.String("error", msg.err.Error()),
		)
		return m, nil
	}

	m.clampSelection(msg.view)
	m.logger.Debug("page applied",
		slog.String("view", msg.view.String()),
		slog.Int("page", msg.req.Page),
		slog.Int("items", len(msg.res.Items)),
	)
	cmd := m.continueRestore(msg.view)
	return m, cmd
}

func (m *Model) handleDetails(msg detailsMsg) {
	if !m.details.Apply(msg.req, msg.res, msg.err) {
		return
	}
	if msg.err != nil {
		m.logger.Warn("details fetch failed",
			slog.String("movie", msg.req.Query),
			slog.String("error", msg.err.Error()),
		)
	}
	m.detailViewport.GotoTop()
	m.updateDetailViewport()
}
