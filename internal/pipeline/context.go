package pipeline

import "sync"

// ContextStore carries stage outputs forward through a run. Keys are
// unique; re-running a stage overwrites its entry. The orchestrator
// itself is single-threaded per run, but UI consumers may snapshot
// concurrently and batch mode runs many stores in parallel process-wide,
// so access is guarded.
type ContextStore struct {
	mu     sync.RWMutex
	values map[StageKey]string
}

// NewContextStore creates an empty store.
func NewContextStore() *ContextStore {
	return &ContextStore{values: make(map[StageKey]string)}
}

// Put inserts or overwrites a value.
func (s *ContextStore) Put(key StageKey, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Get looks up a value with a presence flag.
func (s *ContextStore) Get(key StageKey) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

// Value looks up a value, returning the empty string when absent.
// Prompt interpolation treats missing upstream context as empty, never
// as an error.
func (s *ContextStore) Value(key StageKey) string {
	value, _ := s.Get(key)
	return value
}

// Snapshot returns a copy of the store contents. Callers may mutate it
// freely without affecting the store.
func (s *ContextStore) Snapshot() map[StageKey]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make(map[StageKey]string, len(s.values))
	for key, value := range s.values {
		snapshot[key] = value
	}
	return snapshot
}

// Len returns the number of stored entries.
func (s *ContextStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
