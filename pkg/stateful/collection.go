package stateful

import (
	"fmt"
	"sync"
)

// Collection is a named, ordered set of records with integer ids.
type Collection struct {
	mu    sync.RWMutex
	name  string
	items []*Item
	seed  []map[string]any
}

// NewCollection creates a collection from config and loads its seed.
func NewCollection(config *CollectionConfig) (*Collection, error) {
	c := &Collection{
		name: config.Name,
		seed: config.Seed,
	}
	if err := c.loadSeed(); err != nil {
		return nil, err
	}
	return c, nil
}

// loadSeed replaces the items with the seed records.
func (c *Collection) loadSeed() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]*Item, 0, len(c.seed))
	seen := make(map[int]bool, len(c.seed))
	for i, data := range c.seed {
		item, hasID, err := fromJSON(data)
		if err != nil {
			return fmt.Errorf("seed record %d: %w", i, err)
		}
		if !hasID {
			item.ID = GenerateID(items)
		}
		if seen[item.ID] {
			return fmt.Errorf("duplicate ID %d in seed data at index %d", item.ID, i)
		}
		seen[item.ID] = true
		items = append(items, item)
	}
	c.items = items
	return nil
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// List returns copies of all items in insertion order.
func (c *Collection) List() []*Item {
	return c.Filter(nil)
}

// Filter returns copies of the items matching q, in insertion order.
// A nil or empty q matches everything.
func (c *Collection) Filter(q Query) []*Item {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Item, 0, len(c.items))
	for _, item := range c.items {
		if q.Matches(item) {
			out = append(out, item.clone())
		}
	}
	return out
}

// Get returns a copy of the item with id, or nil.
func (c *Collection) Get(id int) *Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.items[i].clone()
	}
	return nil
}

// Create stores a new record. A missing or non-positive id is replaced by
// GenerateID; an id already in use is a ConflictError.
func (c *Collection) Create(data map[string]any) (*Item, error) {
	item, hasID, err := fromJSON(data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !hasID {
		item.ID = GenerateID(c.items)
	} else if c.indexOf(item.ID) >= 0 {
		return nil, &ConflictError{Collection: c.name, ID: item.ID}
	}
	c.items = append(c.items, item)
	return item.clone(), nil
}

// Update replaces every field of the record whose id data names. The id
// itself never changes.
func (c *Collection) Update(data map[string]any) (*Item, error) {
	item, hasID, err := fromJSON(data)
	if err != nil {
		return nil, err
	}
	if !hasID {
		return nil, &ValidationError{Field: "id", Message: "update requires the record id"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(item.ID)
	if i < 0 {
		return nil, &NotFoundError{Collection: c.name, ID: item.ID}
	}
	c.items[i] = item
	return item.clone(), nil
}

// Delete removes the record with id and returns it.
func (c *Collection) Delete(id int) (*Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return nil, &NotFoundError{Collection: c.name, ID: id}
	}
	removed := c.items[i]
	c.items = append(c.items[:i], c.items[i+1:]...)
	return removed, nil
}

// Reset restores the seed records.
func (c *Collection) Reset() {
	// The seed was validated when the collection was built.
	_ = c.loadSeed()
}

// Count returns the number of records.
func (c *Collection) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// NextID returns the id the next create without an id would receive.
func (c *Collection) NextID() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return GenerateID(c.items)
}

// Info returns information about this collection.
func (c *Collection) Info() CollectionInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CollectionInfo{
		Name:      c.name,
		ItemCount: len(c.items),
		SeedCount: len(c.seed),
		NextID:    GenerateID(c.items),
	}
}

// indexOf must be called with c.mu held.
func (c *Collection) indexOf(id int) int {
	for i, item := range c.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
