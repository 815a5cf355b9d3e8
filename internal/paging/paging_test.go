package paging

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
)

type item struct {
	ID int
}

func ids(items []item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func pageOf(start, n int) []item {
	out := make([]item, n)
	for i := range out {
		out[i] = item{ID: start + i}
	}
	return out
}

func TestCollection_PopularScenarioWalksAllPages(t *testing.T) {
	c := NewDeduped(func(it item) int { return it.ID })

	req := c.Start("")
	if req.Page != 1 || c.Phase() != PhaseLoading {
		t.Fatalf("Start = %+v phase %v, want page 1 loading", req, c.Phase())
	}
	if !c.Resolve(ResultFor(req, pageOf(1, 20), 5, 100)) {
		t.Fatalf("Resolve page 1 rejected")
	}

	for want := 2; want <= 5; want++ {
		next, ok := c.LoadMore()
		if !ok {
			t.Fatalf("LoadMore for page %d returned false", want)
		}
		if next.Page != want || next.Gen != req.Gen {
			t.Fatalf("LoadMore = %+v, want page %d gen %d", next, want, req.Gen)
		}
		if !c.Resolve(ResultFor(next, pageOf((want-1)*20+1, 20), 5, 100)) {
			t.Fatalf("Resolve page %d rejected", want)
		}
	}

	snap := c.Snapshot()
	if snap.Page != 5 || len(snap.Items) != 100 || snap.Phase != PhaseReady || snap.HasMore() {
		t.Fatalf("final snapshot page=%d items=%d phase=%v hasMore=%v", snap.Page, len(snap.Items), snap.Phase, snap.HasMore())
	}
	if _, ok := c.LoadMore(); ok {
		t.Fatalf("LoadMore past last page returned true")
	}
	if after := c.Snapshot(); after.Page != 5 || after.Phase != PhaseReady {
		t.Fatalf("LoadMore past last page changed state: %+v", after)
	}
}

func TestCollection_LoadMoreIsNoopWhileLoading(t *testing.T) {
	c := New[item]()
	req := c.Start("q")
	if _, ok := c.LoadMore(); ok {
		t.Fatalf("LoadMore during initial load returned true")
	}
	c.Resolve(ResultFor(req, pageOf(1, 3), 3, 9))

	if _, ok := c.LoadMore(); !ok {
		t.Fatalf("LoadMore returned false with pages remaining")
	}
	if _, ok := c.LoadMore(); ok {
		t.Fatalf("second LoadMore while loading returned true")
	}
	if snap := c.Snapshot(); snap.Page != 2 {
		t.Fatalf("page = %d, want 2", snap.Page)
	}
}

func TestCollection_LoadMoreIdleIsNoop(t *testing.T) {
	c := New[item]()
	if _, ok := c.LoadMore(); ok {
		t.Fatalf("LoadMore on idle collection returned true")
	}
	if c.Phase() != PhaseIdle {
		t.Fatalf("phase = %v, want idle", c.Phase())
	}
}

func TestCollection_StaleResultsAreDropped(t *testing.T) {
	c := New[item]()
	old := c.Start("matrix")
	fresh := c.Start("alien")

	if c.Resolve(ResultFor(old, pageOf(1, 2), 1, 2)) {
		t.Fatalf("stale Resolve accepted")
	}
	if c.Fail(old.Gen, errors.New("late failure")) {
		t.Fatalf("stale Fail accepted")
	}
	if snap := c.Snapshot(); snap.Phase != PhaseLoading || len(snap.Items) != 0 || snap.Query != "alien" {
		t.Fatalf("stale result leaked into state: %+v", snap)
	}

	if !c.Resolve(ResultFor(fresh, pageOf(10, 2), 1, 2)) {
		t.Fatalf("fresh Resolve rejected")
	}
	if got := ids(c.Snapshot().Items); !slices.Equal(got, []int{10, 11}) {
		t.Fatalf("items = %v, want [10 11]", got)
	}
}

func TestCollection_ResetDropsInFlightRequest(t *testing.T) {
	c := New[item]()
	req := c.Start("x")
	c.Reset()
	if c.Resolve(ResultFor(req, pageOf(1, 1), 1, 1)) {
		t.Fatalf("Resolve after Reset accepted")
	}
	snap := c.Snapshot()
	if snap.Phase != PhaseIdle || len(snap.Items) != 0 || snap.HasMore() {
		t.Fatalf("snapshot after Reset = %+v, want idle and empty", snap)
	}
}

func TestCollection_FailureKeepsItemsAndNextSuccessClearsError(t *testing.T) {
	c := New[item]()
	req := c.Start("")
	c.Resolve(ResultFor(req, pageOf(1, 2), 3, 6))

	next, _ := c.LoadMore()
	boom := errors.New("upstream exploded")
	if !c.Fail(next.Gen, boom) {
		t.Fatalf("Fail rejected")
	}
	snap := c.Snapshot()
	if snap.Phase != PhaseFailed || !errors.Is(snap.Err, boom) {
		t.Fatalf("snapshot after Fail = %+v, want failed with error", snap)
	}
	if got := ids(snap.Items); !slices.Equal(got, []int{1, 2}) {
		t.Fatalf("items after Fail = %v, want [1 2]", got)
	}
	if snap.Page != 1 {
		t.Fatalf("page after Fail = %d, want 1", snap.Page)
	}

	retry, ok := c.LoadMore()
	if !ok || retry.Page != 2 {
		t.Fatalf("LoadMore after failure = %+v %v, want page 2", retry, ok)
	}
	if c.Snapshot().Err != nil {
		t.Fatalf("error not cleared when loading resumed")
	}
	c.Resolve(ResultFor(retry, pageOf(3, 2), 3, 6))
	snap = c.Snapshot()
	if snap.Err != nil || snap.Phase != PhaseReady {
		t.Fatalf("snapshot after success = %+v, want ready without error", snap)
	}
	if got := ids(snap.Items); !slices.Equal(got, []int{1, 2, 3, 4}) {
		t.Fatalf("items = %v, want [1 2 3 4]", got)
	}
}

func TestCollection_RetryAfterFirstPageFailure(t *testing.T) {
	c := New[item]()
	req := c.Start("q")
	c.Fail(req.Gen, errors.New("offline"))

	if _, ok := c.LoadMore(); ok {
		t.Fatalf("LoadMore after failed first page returned true")
	}
	retry, ok := c.Retry()
	if !ok || retry.Page != 1 || retry.Query != "q" {
		t.Fatalf("Retry = %+v %v, want page 1 of q", retry, ok)
	}
	if _, ok := c.Retry(); ok {
		t.Fatalf("Retry while loading returned true")
	}
}

func TestCollection_DedupeOnlyWhenKeyed(t *testing.T) {
	deduped := NewDeduped(func(it item) int { return it.ID })
	plain := New[item]()

	for _, c := range []*Collection[item]{deduped, plain} {
		req := c.Start("")
		c.Resolve(ResultFor(req, []item{{1}, {2}}, 2, 4))
		next, _ := c.LoadMore()
		c.Resolve(ResultFor(next, []item{{2}, {3}, {3}}, 2, 4))
	}

	if got := ids(deduped.Snapshot().Items); !slices.Equal(got, []int{1, 2, 3}) {
		t.Fatalf("deduped items = %v, want [1 2 3]", got)
	}
	if got := ids(plain.Snapshot().Items); !slices.Equal(got, []int{1, 2, 2, 3, 3}) {
		t.Fatalf("plain items = %v, want [1 2 2 3 3]", got)
	}
}

func TestCollection_PageOneReplaces(t *testing.T) {
	c := New[item]()
	c.Restore("", pageOf(1, 4), 2, 3, 12)
	req := c.Start("")
	c.Resolve(ResultFor(req, pageOf(50, 2), 3, 12))
	if got := ids(c.Snapshot().Items); !slices.Equal(got, []int{50, 51}) {
		t.Fatalf("items = %v, want [50 51]", got)
	}
}

func TestCollection_RestoreSeedsReadyState(t *testing.T) {
	c := NewDeduped(func(it item) int { return it.ID })
	c.Restore("", pageOf(1, 40), 2, 5, 100)
	snap := c.Snapshot()
	if snap.Phase != PhaseReady || snap.Page != 2 || snap.TotalPages != 5 || len(snap.Items) != 40 {
		t.Fatalf("restored snapshot = %+v", snap)
	}
	next, ok := c.LoadMore()
	if !ok || next.Page != 3 {
		t.Fatalf("LoadMore after Restore = %+v %v, want page 3", next, ok)
	}
}

func TestCollection_RestoreClampsPage(t *testing.T) {
	c := New[item]()
	c.Restore("", pageOf(1, 10), 5, 3, 30)
	snap := c.Snapshot()
	if snap.Page != 3 || snap.HasMore() {
		t.Fatalf("restored page = %d hasMore = %v, want 3 and false", snap.Page, snap.HasMore())
	}
	if _, ok := c.LoadMore(); ok {
		t.Fatal("LoadMore past the last page issued a request")
	}

	c.Restore("", nil, 0, 0, 0)
	if got := c.Snapshot().Page; got != 1 {
		t.Fatalf("page = %d, want 1", got)
	}
}

func TestCollection_SnapshotIsACopy(t *testing.T) {
	c := New[item]()
	c.Restore("", pageOf(1, 2), 1, 1, 2)
	snap := c.Snapshot()
	snap.Items[0].ID = 99
	if c.Snapshot().Items[0].ID != 1 {
		t.Fatalf("Snapshot exposed internal items")
	}
}

func TestCollection_ConcurrentLoadMoreIssuesOneRequest(t *testing.T) {
	for round := 0; round < 50; round++ {
		c := New[item]()
		req := c.Start("")
		c.Resolve(ResultFor(req, pageOf(1, 1), 10, 10))

		var issued atomic.Int32
		var wg sync.WaitGroup
		start := make(chan struct{})
		for range 32 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if _, ok := c.LoadMore(); ok {
					issued.Add(1)
				}
			}()
		}
		close(start)
		wg.Wait()

		if got := issued.Load(); got != 1 {
			t.Fatalf("round %d: LoadMore issued %d requests, want 1", round, got)
		}
		if snap := c.Snapshot(); snap.Page != 2 {
			t.Fatalf("round %d: page = %d, want 2", round, snap.Page)
		}
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseFailed.String() != "failed" || Phase(42).String() != "unknown" {
		t.Fatalf("Phase.String mismatch")
	}
}
