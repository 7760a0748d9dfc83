package reactor

import (
	"sync"

	"github.com/zclconf/go-cty/cty"
)

// valueStore caches the last-known value per node name alongside the
// changed-this-batch flags that drive memoization. Writes happen only on
// the session goroutine; the lock exists so snapshot readers never observe
// torn state.
type valueStore struct {
	mu      sync.RWMutex
	values  map[string]cty.Value
	changed map[string]bool
}

func newValueStore() *valueStore {
	return &valueStore{
		values:  make(map[string]cty.Value),
		changed: make(map[string]bool),
	}
}

// value returns the cached value for name and whether one was ever set.
func (s *valueStore) value(name string) (cty.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	return v, ok
}

// set stores a new value for name and marks it changed for the current
// batch.
func (s *valueStore) set(name string, v cty.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = v
	s.changed[name] = true
}

// markUnchanged records that name settled this batch without changing. The
// cached value, set or unset, stays as it was.
func (s *valueStore) markUnchanged(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changed[name] = false
}

// isChanged reports whether name changed in the current batch. Names that
// did not settle this batch report false.
func (s *valueStore) isChanged(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.changed[name]
}

// resetChanged clears all change flags. Called once at the start of each
// batch.
func (s *valueStore) resetChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.changed)
}

// snapshot returns a copy of every cached value.
func (s *valueStore) snapshot() map[string]cty.Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]cty.Value, len(s.values))
	for name, v := range s.values {
		out[name] = v
	}
	return out
}
