package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the configured catalogs and hands them out per media kind in
// priority order.
type Registry struct {
	mu         sync.RWMutex
	searchers  map[string]Searcher
	priorities map[string]int
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		searchers:  make(map[string]Searcher),
		priorities: make(map[string]int),
	}
}

// Register adds a catalog. Higher priority catalogs are consulted first.
func (r *Registry) Register(s Searcher, priority int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.searchers[name]; exists {
		return fmt.Errorf("provider %s already registered", name)
	}
	if len(s.Kinds()) == 0 {
		return fmt.Errorf("provider %s must support at least one media kind", name)
	}

	r.searchers[name] = s
	r.priorities[name] = priority
	return nil
}

// Get returns a catalog by name
func (r *Registry) Get(name string) (Searcher, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.searchers[name]
	return s, ok
}

// List returns all registered names, highest priority first
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.searchers))
	for name := range r.searchers {
		names = append(names, name)
	}
	r.sortLocked(names)
	return names
}

// For returns the catalogs able to search kind, highest priority first.
func (r *Registry) For(kind Kind) []Searcher {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name, s := range r.searchers {
		for _, k := range s.Kinds() {
			if k == kind {
				names = append(names, name)
				break
			}
		}
	}
	r.sortLocked(names)

	out := make([]Searcher, 0, len(names))
	for _, name := range names {
		out = append(out, r.searchers[name])
	}
	return out
}

// Len reports how many catalogs are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.searchers)
}

func (r *Registry) sortLocked(names []string) {
	sort.Slice(names, func(i, j int) bool {
		pi, pj := r.priorities[names[i]], r.priorities[names[j]]
		if pi != pj {
			return pi > pj
		}
		return names[i] < names[j]
	})
}
