package browse

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/five82/marquee/internal/favorites"
	"github.com/five82/marquee/internal/paging"
	"github.com/five82/marquee/internal/tmdb"
)

// DefaultBatchLimit bounds concurrent detail requests in a favorited batch.
const DefaultBatchLimit = 8

// Favorited resolves the favorite id list into movies. The whole list is one
// batch identified by its comma-joined ids; the batch is refetched only when
// that identity changes.
type Favorited struct {
	api   tmdb.MovieAPI
	limit int
	coll  *paging.Collection[tmdb.Movie]
}

// NewFavorited builds an idle batch loader. limit <= 0 uses
// DefaultBatchLimit.
func NewFavorited(api tmdb.MovieAPI, limit int) *Favorited {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	return &Favorited{api: api, limit: limit, coll: paging.New[tmdb.Movie]()}
}

// Sync points the batch at ids. An empty list settles immediately with no
// items. It returns a request only when the id list changed or the previous
// batch failed.
func (f *Favorited) Sync(ids []int) (paging.Request, bool) {
	key := favorites.Key(ids)
	snap := f.coll.Snapshot()
	if snap.Query == key && (snap.Phase == paging.PhaseReady || snap.Phase == paging.PhaseLoading) {
		return paging.Request{}, false
	}
	if len(ids) == 0 {
		f.coll.Restore("", nil, 1, 1, 0)
		return paging.Request{}, false
	}
	return f.coll.Start(key), true
}

// Fetch loads the details of every id in req concurrently. The first error
// fails the batch at once; requests already in flight run to completion and
// their results are discarded, and no further requests are started.
func (f *Favorited) Fetch(ctx context.Context, req paging.Request) (paging.Result[tmdb.Movie], error) {
	ids, err := parseKey(req.Query)
	if err != nil {
		return paging.Result[tmdb.Movie]{}, err
	}
	movies := make([]tmdb.Movie, len(ids))

	var failed atomic.Bool
	errc := make(chan error, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		var g errgroup.Group
		g.SetLimit(f.limit)
		for i, id := range ids {
			if failed.Load() {
				break
			}
			g.Go(func() error {
				if failed.Load() {
					return nil
				}
				details, err := f.api.Details(ctx, id)
				if err != nil {
					err = fmt.Errorf("movie %d: %w", id, err)
					if failed.CompareAndSwap(false, true) {
						errc <- err
					}
					return err
				}
				movies[i] = details.AsMovie()
				return nil
			})
		}
		_ = g.Wait()
	}()

	select {
	case err := <-errc:
		return paging.Result[tmdb.Movie]{}, err
	case <-ctx.Done():
		return paging.Result[tmdb.Movie]{}, ctx.Err()
	case <-done:
	}
	select {
	case err := <-errc:
		return paging.Result[tmdb.Movie]{}, err
	default:
	}
	return paging.ResultFor(req, movies, 1, len(movies)), nil
}

// Apply merges the outcome of a Fetch. A failed batch holds no items.
func (f *Favorited) Apply(req paging.Request, res paging.Result[tmdb.Movie], err error) bool {
	if err != nil {
		return f.coll.Fail(req.Gen, err)
	}
	return f.coll.Resolve(res)
}

// Run fetches req and applies the outcome.
func (f *Favorited) Run(ctx context.Context, req paging.Request) bool {
	res, err := f.Fetch(ctx, req)
	return f.Apply(req, res, err)
}

// Retry refetches a failed batch.
func (f *Favorited) Retry() (paging.Request, bool) {
	return f.coll.Retry()
}

// Snapshot returns the current state.
func (f *Favorited) Snapshot() paging.Snapshot[tmdb.Movie] {
	return f.coll.Snapshot()
}

func parseKey(key string) ([]int, error) {
	if key == "" {
		return nil, nil
	}
	parts := strings.Split(key, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("parse favorite id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
