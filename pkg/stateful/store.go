package stateful

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Store is the container for every mock collection.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*Collection
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		collections: make(map[string]*Collection),
	}
}

// NewDefaultStore creates a Store holding the default languages and
// conversions collections.
func NewDefaultStore() *Store {
	s := NewStore()
	for _, cfg := range DefaultCollections() {
		// The built-in seed is known to be valid.
		_ = s.Register(cfg)
	}
	return s
}

// Register adds a collection and loads its seed.
func (s *Store) Register(config *CollectionConfig) error {
	if config == nil {
		return errors.New("config cannot be nil")
	}
	if config.Name == "" {
		return errors.New("collection name cannot be empty")
	}
	if strings.Contains(config.Name, "/") {
		return errors.New("collection name cannot contain /")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.collections[config.Name]; exists {
		return fmt.Errorf("collection %q already registered", config.Name)
	}

	c, err := NewCollection(config)
	if err != nil {
		return fmt.Errorf("failed to load seed data for %q: %w", config.Name, err)
	}
	s.collections[config.Name] = c
	return nil
}

// Get returns a collection by name, or nil.
func (s *Store) Get(name string) *Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collections[name]
}

// Names returns all collection names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset restores seed data. An empty name resets every collection.
func (s *Store) Reset(name string) (*ResetResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var reset []string
	if name == "" {
		for n, c := range s.collections {
			c.Reset()
			reset = append(reset, n)
		}
		sort.Strings(reset)
	} else {
		c, ok := s.collections[name]
		if !ok {
			return nil, &NotFoundError{Collection: name}
		}
		c.Reset()
		reset = []string{name}
	}

	return &ResetResponse{
		Reset:       true,
		Collections: reset,
		Message:     "State reset to seed data",
	}, nil
}

// Overview describes every collection, sorted by name.
func (s *Store) Overview() *Overview {
	names := s.Names()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ov := &Overview{Collections: make([]CollectionInfo, 0, len(names))}
	for _, name := range names {
		c, ok := s.collections[name]
		if !ok {
			continue
		}
		info := c.Info()
		ov.Collections = append(ov.Collections, info)
		ov.TotalItems += info.ItemCount
	}
	return ov
}
