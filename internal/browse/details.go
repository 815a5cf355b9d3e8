package browse

import (
	"context"
	"strconv"

	"github.com/five82/marquee/internal/paging"
	"github.com/five82/marquee/internal/tmdb"
)

// DetailsSnapshot is the state of the single-movie loader.
type DetailsSnapshot struct {
	Phase paging.Phase
	ID    int
	Movie *tmdb.MovieDetails
	Err   error
}

// Details loads one movie's detail record. A late response for a previously
// requested id is dropped.
type Details struct {
	api  tmdb.MovieAPI
	coll *paging.Collection[tmdb.MovieDetails]
}

// NewDetails builds an idle loader.
func NewDetails(api tmdb.MovieAPI) *Details {
	return &Details{api: api, coll: paging.New[tmdb.MovieDetails]()}
}

// Load requests id, unless it is already loaded or loading.
func (d *Details) Load(id int) (paging.Request, bool) {
	snap := d.coll.Snapshot()
	if snap.Query == strconv.Itoa(id) && (snap.Phase == paging.PhaseReady || snap.Phase == paging.PhaseLoading) {
		return paging.Request{}, false
	}
	return d.coll.Start(strconv.Itoa(id)), true
}

// Fetch performs req against the API.
func (d *Details) Fetch(ctx context.Context, req paging.Request) (paging.Result[tmdb.MovieDetails], error) {
	id, err := strconv.Atoi(req.Query)
	if err != nil {
		return paging.Result[tmdb.MovieDetails]{}, err
	}
	movie, err := d.api.Details(ctx, id)
	if err != nil {
		return paging.Result[tmdb.MovieDetails]{}, err
	}
	return paging.ResultFor(req, []tmdb.MovieDetails{movie}, 1, 1), nil
}

// Apply merges the outcome of a Fetch.
func (d *Details) Apply(req paging.Request, res paging.Result[tmdb.MovieDetails], err error) bool {
	if err != nil {
		return d.coll.Fail(req.Gen, err)
	}
	return d.coll.Resolve(res)
}

// Run fetches req and applies the outcome.
func (d *Details) Run(ctx context.Context, req paging.Request) bool {
	res, err := d.Fetch(ctx, req)
	return d.Apply(req, res, err)
}

// Snapshot returns the current state.
func (d *Details) Snapshot() DetailsSnapshot {
	snap := d.coll.Snapshot()
	out := DetailsSnapshot{Phase: snap.Phase, Err: snap.Err}
	if id, err := strconv.Atoi(snap.Query); err == nil {
		out.ID = id
	}
	if len(snap.Items) > 0 {
		movie := snap.Items[0]
		out.Movie = &movie
	}
	return out
}
