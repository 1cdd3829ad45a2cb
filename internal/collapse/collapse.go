// Package collapse tracks which board groups and sections the user
// has folded away, surviving restarts through a pluggable backend.
package collapse

import "sync"

// Store holds the set of collapsed keys. Keys are opaque strings
// chosen by the caller (e.g. "section:12", "group:status-completed").
// Every mutation is written through to the backend.
type Store struct {
	mu      sync.Mutex
	keys    map[string]bool
	backend Backend
}

// NewStore loads the persisted collapsed set from backend. A missing
// or unreadable state defaults to nothing collapsed; a broken backend
// must never block rendering.
func NewStore(backend Backend) *Store {
	s := &Store{
		keys:    make(map[string]bool),
		backend: backend,
	}
	if loaded, err := backend.Load(); err == nil {
		for _, k := range loaded {
			s.keys[k] = true
		}
	}
	return s
}

// IsCollapsed reports whether key is currently collapsed.
func (s *Store) IsCollapsed(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key]
}

// Toggle flips the collapsed state of key and persists the set.
func (s *Store) Toggle(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys[key] {
		delete(s.keys, key)
	} else {
		s.keys[key] = true
	}
	return s.persist()
}

// ExpandAll clears the collapsed set and persists it.
func (s *Store) ExpandAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = make(map[string]bool)
	return s.persist()
}

// CollapseAll replaces the collapsed set with exactly keys.
func (s *Store) CollapseAll(keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = make(map[string]bool, len(keys))
	for _, k := range keys {
		s.keys[k] = true
	}
	return s.persist()
}

// persist writes the current set through the backend. Callers hold mu.
func (s *Store) persist() error {
	keys := make([]string, 0, len(s.keys))
	for k := range s.keys {
		keys = append(keys, k)
	}
	return s.backend.Save(keys)
}
