package browse

import (
	"context"
	"strings"

	"github.com/five82/marquee/internal/paging"
	"github.com/five82/marquee/internal/tmdb"
)

// Search is the paginated search listing. A new query replaces the listing
// wholesale; pages are appended without deduplication.
type Search struct {
	api  tmdb.MovieAPI
	coll *paging.Collection[tmdb.Movie]
}

// NewSearch builds an idle search listing.
func NewSearch(api tmdb.MovieAPI) *Search {
	return &Search{api: api, coll: paging.New[tmdb.Movie]()}
}

// Submit sets the query. A blank query empties the listing without a
// request. Resubmitting the current query is a no-op unless it failed.
func (s *Search) Submit(query string) (paging.Request, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		s.coll.Reset()
		return paging.Request{}, false
	}
	snap := s.coll.Snapshot()
	if snap.Query == query && snap.Phase != paging.PhaseIdle && snap.Phase != paging.PhaseFailed {
		return paging.Request{}, false
	}
	return s.coll.Start(query), true
}

// LoadMore requests the next page of the current query.
func (s *Search) LoadMore() (paging.Request, bool) {
	return s.coll.LoadMore()
}

// Retry re-requests a failed page.
func (s *Search) Retry() (paging.Request, bool) {
	return s.coll.Retry()
}

// Fetch performs req against the API.
func (s *Search) Fetch(ctx context.Context, req paging.Request) (paging.Result[tmdb.Movie], error) {
	page, err := s.api.Search(ctx, req.Query, req.Page)
	if err != nil {
		return paging.Result[tmdb.Movie]{}, err
	}
	return paging.ResultFor(req, page.Results, page.TotalPages, page.TotalResults), nil
}

// Apply merges the outcome of a Fetch.
func (s *Search) Apply(req paging.Request, res paging.Result[tmdb.Movie], err error) bool {
	if err != nil {
		return s.coll.Fail(req.Gen, err)
	}
	return s.coll.Resolve(res)
}

// Run fetches req and applies the outcome.
func (s *Search) Run(ctx context.Context, req paging.Request) bool {
	res, err := s.Fetch(ctx, req)
	return s.Apply(req, res, err)
}

// Snapshot returns the current state.
func (s *Search) Snapshot() paging.Snapshot[tmdb.Movie] {
	return s.coll.Snapshot()
}
