// Package paging holds the fetch/accumulate state machine shared by every
// paginated movie listing.
//
// A Collection never performs I/O. Start, LoadMore and Retry hand back a
// Request describing the page to fetch; the caller executes it wherever it
// likes (a tea.Cmd, an HTTP handler, a test) and reports the outcome through
// Resolve or Fail. Each Start bumps a generation counter, so outcomes that
// belong to an earlier query are dropped.
package paging

import (
	"slices"
	"sync"
)

// Phase is the lifecycle state of a Collection.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Request identifies one page fetch.
type Request struct {
	Gen   uint64
	Page  int
	Query string
}

// Result is a successful page fetch.
type Result[T any] struct {
	Gen          uint64
	Page         int
	Items        []T
	TotalPages   int
	TotalResults int
}

// ResultFor builds a Result answering req.
func ResultFor[T any](req Request, items []T, totalPages, totalResults int) Result[T] {
	return Result[T]{
		Gen:          req.Gen,
		Page:         req.Page,
		Items:        items,
		TotalPages:   totalPages,
		TotalResults: totalResults,
	}
}

// Snapshot is a point-in-time copy of a Collection.
type Snapshot[T any] struct {
	Phase        Phase
	Query        string
	Items        []T
	Page         int
	TotalPages   int
	TotalResults int
	// Err is set only in PhaseFailed.
	Err error
}

// HasMore reports whether another page exists beyond Page.
func (s Snapshot[T]) HasMore() bool {
	return s.Page < s.TotalPages
}

// Empty reports whether a settled collection holds no items.
func (s Snapshot[T]) Empty() bool {
	return s.Phase == PhaseReady && len(s.Items) == 0
}

// Collection accumulates pages of T. All methods are safe for concurrent use.
type Collection[T any] struct {
	key func(T) int

	mu           sync.Mutex
	gen          uint64
	query        string
	phase        Phase
	items        []T
	page         int
	loaded       int
	totalPages   int
	totalResults int
	err          error
}

// New returns an idle collection that appends pages verbatim.
func New[T any]() *Collection[T] {
	return &Collection[T]{}
}

// NewDeduped returns an idle collection that drops appended items whose key
// is already present.
func NewDeduped[T any](key func(T) int) *Collection[T] {
	return &Collection[T]{key: key}
}

// Start discards everything and requests page 1 of query.
func (c *Collection[T]) Start(query string) Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.query = query
	c.items = nil
	c.page = 1
	c.loaded = 0
	c.totalPages = 0
	c.totalResults = 0
	c.err = nil
	c.phase = PhaseLoading
	return Request{Gen: c.gen, Page: 1, Query: query}
}

// Reset returns the collection to idle with no items. In-flight requests
// become stale.
func (c *Collection[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.query = ""
	c.items = nil
	c.page = 0
	c.loaded = 0
	c.totalPages = 0
	c.totalResults = 0
	c.err = nil
	c.phase = PhaseIdle
}

// LoadMore requests the next page. It returns false, and changes nothing,
// while a fetch is in flight or when the last page has been loaded.
func (c *Collection[T]) LoadMore() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseLoading || c.phase == PhaseIdle || c.page >= c.totalPages {
		return Request{}, false
	}
	c.page++
	c.err = nil
	c.phase = PhaseLoading
	return Request{Gen: c.gen, Page: c.page, Query: c.query}, true
}

// Retry re-requests the page whose fetch failed.
func (c *Collection[T]) Retry() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseFailed {
		return Request{}, false
	}
	c.page = c.loaded + 1
	c.err = nil
	c.phase = PhaseLoading
	return Request{Gen: c.gen, Page: c.page, Query: c.query}, true
}

// Resolve merges a fetched page. Page 1 replaces the items; later pages
// append. It reports false when res is stale or unexpected.
func (c *Collection[T]) Resolve(res Result[T]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if res.Gen != c.gen || c.phase != PhaseLoading || res.Page != c.page {
		return false
	}
	if res.Page <= 1 {
		c.items = c.appendItems(nil, res.Items)
	} else {
		c.items = c.appendItems(c.items, res.Items)
	}
	c.loaded = res.Page
	c.totalPages = res.TotalPages
	c.totalResults = res.TotalResults
	c.err = nil
	c.phase = PhaseReady
	return true
}

// Fail records err for the in-flight request of generation gen. Items are
// kept and the page cursor returns to the last loaded page so LoadMore or
// Retry fetches the failed page again.
func (c *Collection[T]) Fail(gen uint64, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.phase != PhaseLoading {
		return false
	}
	if c.loaded > 0 {
		c.page = c.loaded
	}
	c.err = err
	c.phase = PhaseFailed
	return true
}

// Restore seeds a settled state, for example from a session cache. page is
// clamped to 1..totalPages.
func (c *Collection[T]) Restore(query string, items []T, page, totalPages, totalResults int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.query = query
	c.items = c.appendItems(nil, items)
	c.page = min(max(page, 1), max(totalPages, 1))
	c.loaded = c.page
	c.totalPages = totalPages
	c.totalResults = totalResults
	c.err = nil
	c.phase = PhaseReady
}

// HasMore reports whether another page exists.
func (c *Collection[T]) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page < c.totalPages
}

// Phase returns the current phase.
func (c *Collection[T]) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Snapshot returns a copy of the current state.
func (c *Collection[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot[T]{
		Phase:        c.phase,
		Query:        c.query,
		Items:        slices.Clone(c.items),
		Page:         c.page,
		TotalPages:   c.totalPages,
		TotalResults: c.totalResults,
		Err:          c.err,
	}
}

func (c *Collection[T]) appendItems(dst, src []T) []T {
	if c.key == nil {
		return append(slices.Clip(dst), src...)
	}
	seen := make(map[int]struct{}, len(dst)+len(src))
	for _, item := range dst {
		seen[c.key(item)] = struct{}{}
	}
	out := slices.Clip(dst)
	for _, item := range src {
		k := c.key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}
