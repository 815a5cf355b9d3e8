package favorites

import (
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/five82/marquee/internal/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingStore records writes and can be told to fail them.
type countingStore struct {
	*storage.Memory
	mu       sync.Mutex
	writes   int
	failWith error
}

func newCountingStore() *countingStore {
	return &countingStore{Memory: storage.NewMemory()}
}

func (c *countingStore) Write(key string, value []byte) error {
	c.mu.Lock()
	c.writes++
	fail := c.failWith
	c.mu.Unlock()
	if fail != nil {
		return fail
	}
	return c.Memory.Write(key, value)
}

func (c *countingStore) writeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

func TestAdd_IsIdempotent(t *testing.T) {
	s := Load(storage.NewMemory(), quietLogger())
	s.Add(1)
	s.Add(1)

	if got := s.List(); !slices.Equal(got, []int{1}) {
		t.Fatalf("List = %v, want [1]", got)
	}
}

func TestToggle_TwiceRestoresOriginal(t *testing.T) {
	s := Load(storage.NewMemory(), quietLogger())
	s.Add(3)
	s.Add(5)
	before := s.List()

	if got := s.Toggle(7); !got {
		t.Fatalf("Toggle(7) = false, want true")
	}
	if got := s.Toggle(7); got {
		t.Fatalf("second Toggle(7) = true, want false")
	}
	if got := s.List(); !slices.Equal(got, before) {
		t.Fatalf("List after double toggle = %v, want %v", got, before)
	}

	s.Toggle(3)
	s.Toggle(3)
	if !s.Contains(3) {
		t.Fatalf("Contains(3) = false after double toggle of existing id")
	}
}

func TestRemove_AbsentIsNoop(t *testing.T) {
	cs := newCountingStore()
	s := Load(cs, quietLogger())
	s.Remove(42)
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0", s.Len())
	}
	if cs.writeCount() != 0 {
		t.Fatalf("writes = %d, want 0 for a no-op remove", cs.writeCount())
	}
}

func TestInsertionOrderPreserved(t *testing.T) {
	s := Load(nil, quietLogger())
	for _, id := range []int{9, 2, 7, 2, 4} {
		s.Add(id)
	}
	s.Remove(7)
	if got := s.List(); !slices.Equal(got, []int{9, 2, 4}) {
		t.Fatalf("List = %v, want [9 2 4]", got)
	}
	if s.Key() != "9,2,4" {
		t.Fatalf("Key = %q, want 9,2,4", s.Key())
	}
}

func TestContainsMatchesLastOperation(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	s := Load(storage.NewMemory(), quietLogger())
	model := map[int]bool{}

	for range 2000 {
		id := rng.IntN(20)
		switch rng.IntN(3) {
		case 0:
			s.Add(id)
			model[id] = true
		case 1:
			s.Remove(id)
			model[id] = false
		default:
			model[id] = s.Toggle(id)
			if model[id] != s.Contains(id) {
				t.Fatalf("Toggle(%d) result disagrees with Contains", id)
			}
		}
	}
	for id := range 20 {
		if s.Contains(id) != model[id] {
			t.Fatalf("Contains(%d) = %v, want %v", id, s.Contains(id), model[id])
		}
	}
	if s.Len() != len(dedupe(s.List())) {
		t.Fatalf("list contains duplicates: %v", s.List())
	}
}

func TestPersistence_RoundTripsThroughFreshStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.json")
	s := Load(storage.NewFile(path), quietLogger())
	s.Add(550)
	s.Add(13)
	s.Add(680)
	s.Remove(13)

	fresh := Load(storage.NewFile(path), quietLogger())
	got := fresh.List()
	slices.Sort(got)
	if !slices.Equal(got, []int{550, 680}) {
		t.Fatalf("reloaded ids = %v, want [550 680]", got)
	}
}

func TestLoad_DoesNotWrite(t *testing.T) {
	cs := newCountingStore()
	if err := cs.Memory.Write(StorageKey, []byte(`[1,2]`)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s := Load(cs, quietLogger())
	if cs.writeCount() != 0 {
		t.Fatalf("writes during Load = %d, want 0", cs.writeCount())
	}
	if got := s.List(); !slices.Equal(got, []int{1, 2}) {
		t.Fatalf("List = %v, want [1 2]", got)
	}

	s.Add(3)
	if cs.writeCount() != 1 {
		t.Fatalf("writes after Add = %d, want 1", cs.writeCount())
	}
}

func TestLoad_CorruptOrDuplicatePayload(t *testing.T) {
	mem := storage.NewMemory()
	_ = mem.Write(StorageKey, []byte(`{"oops":true}`))
	if s := Load(mem, quietLogger()); s.Len() != 0 {
		t.Fatalf("corrupt payload loaded %v, want empty", s.List())
	}

	_ = mem.Write(StorageKey, []byte(`[4,4,5]`))
	if got := Load(mem, quietLogger()).List(); !slices.Equal(got, []int{4, 5}) {
		t.Fatalf("duplicate payload loaded %v, want [4 5]", got)
	}
}

func TestLoad_ReadFailureDegradesToEmpty(t *testing.T) {
	mem := storage.NewMemory()
	_ = mem.Close()
	s := Load(mem, quietLogger())
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0", s.Len())
	}
}

func TestWriteFailure_KeepsMemoryStateAndRecordsError(t *testing.T) {
	cs := newCountingStore()
	cs.failWith = errors.New("quota exceeded")
	s := Load(cs, quietLogger())

	s.Add(8)
	if !s.Contains(8) {
		t.Fatalf("Contains(8) = false after failed save")
	}
	if err := s.LastSaveError(); err == nil {
		t.Fatalf("LastSaveError = nil, want error")
	}
	if cs.writeCount() != 1 {
		t.Fatalf("writes = %d, want 1 (no retry)", cs.writeCount())
	}

	cs.failWith = nil
	s.Add(9)
	if err := s.LastSaveError(); err != nil {
		t.Fatalf("LastSaveError after success = %v, want nil", err)
	}
}

func TestClear_PersistsEmptyList(t *testing.T) {
	mem := storage.NewMemory()
	s := Load(mem, quietLogger())
	s.Add(1)
	s.Clear()

	raw, ok, _ := mem.Read(StorageKey)
	if !ok || string(raw) != "[]" {
		t.Fatalf("stored payload = %q (ok %v), want []", raw, ok)
	}
}

func TestToggle_ConcurrentCallersStayConsistent(t *testing.T) {
	s := Load(storage.NewMemory(), quietLogger())
	const workers = 64

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Toggle(99)
		}()
	}
	wg.Wait()

	if s.Contains(99) {
		t.Fatalf("Contains(99) = true after an even number of toggles")
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0", s.Len())
	}
}

func TestListReturnsCopy(t *testing.T) {
	s := Load(nil, quietLogger())
	s.Add(1)
	got := s.List()
	got[0] = 100
	if !s.Contains(1) || s.Contains(100) {
		t.Fatalf("List exposed internal storage")
	}
}
