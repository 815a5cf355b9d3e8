package browse

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/five82/marquee/internal/paging"
	"github.com/five82/marquee/internal/storage"
	"github.com/five82/marquee/internal/tmdb"
)

// Session cache keys for the popular listing.
const (
	CacheKeyMovies       = "home_movies_cache"
	CacheKeyPage         = "home_movies_page"
	CacheKeyTotalPages   = "home_movies_total_pages"
	CacheKeyTotalResults = "home_movies_total_results"
)

// Popular is the infinite-scroll popular listing. Appended pages are
// deduplicated by movie id and every settled state is mirrored to the
// session store so reopening the view resumes where it left off.
type Popular struct {
	api     tmdb.MovieAPI
	session storage.Store
	logger  *slog.Logger
	coll    *paging.Collection[tmdb.Movie]
}

// NewPopular builds the listing. session may be nil.
func NewPopular(api tmdb.MovieAPI, session storage.Store, logger *slog.Logger) *Popular {
	if logger == nil {
		logger = slog.Default()
	}
	return &Popular{
		api:     api,
		session: session,
		logger:  logger,
		coll:    paging.NewDeduped(movieID),
	}
}

// Open restores the cached listing when one exists. Otherwise, or when the
// listing is empty, it requests page 1.
func (p *Popular) Open() (paging.Request, bool) {
	if p.coll.Phase() != paging.PhaseIdle {
		return paging.Request{}, false
	}
	if p.restore() {
		return paging.Request{}, false
	}
	return p.coll.Start(""), true
}

// Refresh drops the accumulated listing and requests page 1.
func (p *Popular) Refresh() paging.Request {
	return p.coll.Start("")
}

// LoadMore requests the next page when one exists and nothing is in flight.
func (p *Popular) LoadMore() (paging.Request, bool) {
	return p.coll.LoadMore()
}

// Retry re-requests a failed page.
func (p *Popular) Retry() (paging.Request, bool) {
	return p.coll.Retry()
}

// Fetch performs req against the API. It does not touch the listing.
func (p *Popular) Fetch(ctx context.Context, req paging.Request) (paging.Result[tmdb.Movie], error) {
	page, err := p.api.ListPopular(ctx, req.Page)
	if err != nil {
		return paging.Result[tmdb.Movie]{}, err
	}
	return paging.ResultFor(req, page.Results, page.TotalPages, page.TotalResults), nil
}

// Apply merges the outcome of a Fetch. Stale outcomes are ignored and
// reported as false.
func (p *Popular) Apply(req paging.Request, res paging.Result[tmdb.Movie], err error) bool {
	if err != nil {
		return p.coll.Fail(req.Gen, err)
	}
	if !p.coll.Resolve(res) {
		return false
	}
	p.saveCache()
	return true
}

// Run fetches req and applies the outcome.
func (p *Popular) Run(ctx context.Context, req paging.Request) bool {
	res, err := p.Fetch(ctx, req)
	return p.Apply(req, res, err)
}

// Snapshot returns the current state.
func (p *Popular) Snapshot() paging.Snapshot[tmdb.Movie] {
	return p.coll.Snapshot()
}

func (p *Popular) restore() bool {
	if p.session == nil {
		return false
	}
	raw, ok, err := p.session.Read(CacheKeyMovies)
	if err != nil || !ok {
		return false
	}
	var movies []tmdb.Movie
	if err := json.Unmarshal(raw, &movies); err != nil {
		p.logger.Warn("popular cache is corrupt", slog.String("error", err.Error()))
		return false
	}
	if len(movies) == 0 {
		return false
	}
	page := p.readInt(CacheKeyPage, 1)
	totalPages := p.readInt(CacheKeyTotalPages, page)
	totalResults := p.readInt(CacheKeyTotalResults, len(movies))
	p.coll.Restore("", movies, page, totalPages, totalResults)
	p.logger.Debug("popular restored from session cache",
		slog.Int("movies", len(movies)),
		slog.Int("page", page),
	)
	return true
}

func (p *Popular) saveCache() {
	if p.session == nil {
		return
	}
	snap := p.coll.Snapshot()
	payload, err := json.Marshal(snap.Items)
	if err == nil {
		err = p.session.Write(CacheKeyMovies, payload)
	}
	if err == nil {
		err = p.session.Write(CacheKeyPage, []byte(strconv.Itoa(snap.Page)))
	}
	if err == nil {
		err = p.session.Write(CacheKeyTotalPages, []byte(strconv.Itoa(snap.TotalPages)))
	}
	if err == nil {
		err = p.session.Write(CacheKeyTotalResults, []byte(strconv.Itoa(snap.TotalResults)))
	}
	if err != nil {
		p.logger.Warn("save popular cache failed", slog.String("error", err.Error()))
	}
}

func (p *Popular) readInt(key string, fallback int) int {
	raw, ok, err := p.session.Read(key)
	if err != nil || !ok {
		return fallback
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func movieID(m tmdb.Movie) int { return m.ID }
