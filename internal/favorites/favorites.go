// Package favorites keeps the user's favorite movie ids and mirrors them to
// durable storage.
package favorites

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/five82/marquee/internal/storage"
)

// StorageKey is the durable storage key holding the JSON array of ids.
const StorageKey = "tmdb_favorites"

type actionKind int

const (
	actionAdd actionKind = iota
	actionRemove
	actionToggle
	actionReplace
)

type action struct {
	kind actionKind
	id   int
	ids  []int
}

// reduce applies a to ids and returns the next list and whether it changed.
// ids is never modified in place.
func reduce(ids []int, a action) ([]int, bool) {
	switch a.kind {
	case actionAdd:
		if slices.Contains(ids, a.id) {
			return ids, false
		}
		return append(slices.Clip(ids), a.id), true
	case actionRemove:
		idx := slices.Index(ids, a.id)
		if idx < 0 {
			return ids, false
		}
		return slices.Delete(slices.Clone(ids), idx, idx+1), true
	case actionToggle:
		if slices.Contains(ids, a.id) {
			return reduce(ids, action{kind: actionRemove, id: a.id})
		}
		return reduce(ids, action{kind: actionAdd, id: a.id})
	case actionReplace:
		return dedupe(a.ids), true
	default:
		return ids, false
	}
}

// Store is the single owner of the favorite set. Every mutation goes through
// one dispatcher holding the write lock, so a toggle's contains-check and its
// mutation are atomic with respect to other callers.
type Store struct {
	storage storage.Store
	logger  *slog.Logger

	mu      sync.RWMutex
	ids     []int
	saveErr error
}

// Load builds a store from the persisted list. Missing or unreadable state
// degrades to an empty set; nothing is written during load.
func Load(st storage.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{storage: st, logger: logger}
	if st == nil {
		return s
	}

	raw, ok, err := st.Read(StorageKey)
	if err != nil {
		logger.Warn("load favorites failed, starting empty", slog.String("error", err.Error()))
		return s
	}
	if !ok {
		return s
	}
	var ids []int
	if err := json.Unmarshal(raw, &ids); err != nil {
		logger.Warn("favorites payload is corrupt, starting empty", slog.String("error", err.Error()))
		return s
	}
	s.ids = dedupe(ids)
	return s
}

// Add marks id as a favorite. Adding an existing id is a no-op.
func (s *Store) Add(id int) {
	s.dispatch(action{kind: actionAdd, id: id})
}

// Remove unmarks id. Removing an absent id is a no-op.
func (s *Store) Remove(id int) {
	s.dispatch(action{kind: actionRemove, id: id})
}

// Toggle flips id and reports whether it is a favorite afterwards.
func (s *Store) Toggle(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(action{kind: actionToggle, id: id})
	return slices.Contains(s.ids, id)
}

// Clear removes every favorite.
func (s *Store) Clear() {
	s.dispatch(action{kind: actionReplace})
}

// Contains reports whether id is a favorite.
func (s *Store) Contains(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.ids, id)
}

// List returns a copy of the ids in insertion order.
func (s *Store) List() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ids)
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Key identifies the current content of the set: the ids joined by commas.
// Two lists with the same ids in the same order share a key.
func (s *Store) Key() string {
	return Key(s.List())
}

// LastSaveError returns the error from the most recent persistence attempt,
// or nil when it succeeded.
func (s *Store) LastSaveError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveErr
}

// Key joins ids with commas.
func Key(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func (s *Store) dispatch(a action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(a)
}

func (s *Store) applyLocked(a action) {
	next, changed := reduce(s.ids, a)
	if !changed {
		return
	}
	s.ids = next
	s.persistLocked()
}

// persistLocked writes the full set. Failures are logged and remembered but
// never returned; the in-memory set stays authoritative.
func (s *Store) persistLocked() {
	if s.storage == nil {
		return
	}
	payload, err := json.Marshal(nonNil(s.ids))
	if err == nil {
		err = s.storage.Write(StorageKey, payload)
	}
	if err != nil {
		s.logger.Warn("save favorites failed", slog.String("error", err.Error()), slog.Int("count", len(s.ids)))
	}
	s.saveErr = err
}

func dedupe(ids []int) []int {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func nonNil(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}
