package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/five82/marquee/internal/browse"
	"github.com/five82/marquee/internal/metrics"
	"github.com/five82/marquee/internal/paging"
	"github.com/five82/marquee/internal/slug"
	"github.com/five82/marquee/internal/tmdb"
)

// movieJSON is a list entry enriched with browser fields.
type movieJSON struct {
	tmdb.Movie
	Rating    float64 `json:"rating"`
	URL       string  `json:"url"`
	PosterURL string  `json:"poster_url"`
	Favorite  bool    `json:"favorite"`
}

type movieDetailsJSON struct {
	tmdb.MovieDetails
	Rating      float64 `json:"rating"`
	URL         string  `json:"url"`
	PosterURL   string  `json:"poster_url"`
	BackdropURL string  `json:"backdrop_url,omitempty"`
	Favorite    bool    `json:"favorite"`
}

type pageJSON struct {
	Page         int         `json:"page"`
	Results      []movieJSON `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

type favoritesJSON struct {
	IDs   []int `json:"ids"`
	Count int   `json:"count"`
}

type toggleJSON struct {
	ID       int  `json:"id"`
	Favorite bool `json:"favorite"`
	favoritesJSON
}

type favoriteMoviesJSON struct {
	Sort    browse.SortOrder `json:"sort"`
	Results []movieJSON      `json:"results"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(w, r)
	if !ok {
		return
	}
	result, err := s.api.ListPopular(r.Context(), page)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.page(result))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(w, r)
	if !ok {
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusOK, pageJSON{Page: 1, Results: []movieJSON{}})
		return
	}
	result, err := s.api.Search(r.Context(), query, page)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.page(result))
}

func (s *Server) handleMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := slug.ExtractMovieID(chi.URLParam(r, "slug"))
	if !ok {
		writeError(w, http.StatusNotFound, "movie not found")
		return
	}
	details, err := s.api.Details(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	body := movieDetailsJSON{
		MovieDetails: details,
		Rating:       details.Rating(),
		URL:          slug.MovieURL(details.ID, details.Title),
		PosterURL:    s.imageURL(details.PosterPath, "w500"),
		Favorite:     s.favs.Contains(details.ID),
	}
	if details.BackdropPath != "" {
		body.BackdropURL = s.imageURL(details.BackdropPath, "original")
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleListFavorites(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.favoritesBody())
}

func (s *Server) handleClearFavorites(w http.ResponseWriter, _ *http.Request) {
	s.favs.Clear()
	metrics.FavoritesCount.Set(0)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	s.favs.Add(id)
	writeJSON(w, http.StatusOK, s.favoritesBody())
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	s.favs.Remove(id)
	writeJSON(w, http.StatusOK, s.favoritesBody())
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	now := s.favs.Toggle(id)
	writeJSON(w, http.StatusOK, toggleJSON{ID: id, Favorite: now, favoritesJSON: s.favoritesBody()})
}

// handleFavoriteMovies loads the detail record of every favorite in one
// batch. Any failed lookup fails the whole response.
func (s *Server) handleFavoriteMovies(w http.ResponseWriter, r *http.Request) {
	order := browse.DefaultSort
	if raw := r.URL.Query().Get("sort"); raw != "" {
		parsed, ok := browse.ParseSortOrder(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid sort "+strconv.Quote(raw))
			return
		}
		order = parsed
	}

	batch := browse.NewFavorited(s.api, s.batchLimit)
	if req, ok := batch.Sync(s.favs.List()); ok {
		batch.Run(r.Context(), req)
	}
	snap := batch.Snapshot()
	if snap.Phase == paging.PhaseFailed {
		writeUpstreamError(w, snap.Err)
		return
	}

	sorted := browse.SortMovies(snap.Items, order, s.lang)
	writeJSON(w, http.StatusOK, favoriteMoviesJSON{Sort: order, Results: s.movies(sorted)})
}

func (s *Server) favoritesBody() favoritesJSON {
	ids := s.favs.List()
	metrics.FavoritesCount.Set(float64(len(ids)))
	return favoritesJSON{IDs: ids, Count: len(ids)}
}

func (s *Server) page(p tmdb.Page[tmdb.Movie]) pageJSON {
	return pageJSON{
		Page:         p.Page,
		Results:      s.movies(p.Results),
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
	}
}

func (s *Server) movies(in []tmdb.Movie) []movieJSON {
	out := make([]movieJSON, 0, len(in))
	for _, m := range in {
		out = append(out, movieJSON{
			Movie:     m,
			Rating:    m.Rating(),
			URL:       slug.MovieURL(m.ID, m.Title),
			PosterURL: s.imageURL(m.PosterPath, "w500"),
			Favorite:  s.favs.Contains(m.ID),
		})
	}
	return out
}

// pageParam reads ?page=, defaulting to 1. It writes a 400 and returns false
// for anything outside 1..500.
func pageParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 || page > defaultMaxPage {
		writeError(w, http.StatusBadRequest, "invalid page "+strconv.Quote(raw))
		return 0, false
	}
	return page, true
}

func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid movie id "+strconv.Quote(raw))
		return 0, false
	}
	return id, true
}
