package script

import "sync"

// Store is the scratch key/value space shared by all Runners of a run,
// including background ones. Values are opaque to the store.
type Store struct {
	mu     sync.Mutex
	values map[string]any
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{values: make(map[string]any)}
}

// Set stores a value under key, replacing any previous value.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Get returns the value stored under key, if any.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}
