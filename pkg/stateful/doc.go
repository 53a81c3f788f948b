// Package stateful holds the in-memory collections behind the mock backend.
//
// A Store owns named collections ("languages", "conversions"). Each
// Collection keeps its records in insertion order, seeds itself from fixed
// initial data and can be reset back to that data at any time. Nothing is
// persisted: every process start begins from the seed.
//
// Identifiers are integers assigned by GenerateID: 11 for an empty
// collection, otherwise one more than the largest id present. Ids therefore
// grow monotonically as long as nobody supplies their own. A create request
// that carries an explicit, unused id is honoured as-is, so a caller can
// still jump the sequence; that is accepted.
//
// Usage:
//
//	store := stateful.NewStore()
//	_ = store.Register(&stateful.CollectionConfig{
//	    Name: "languages",
//	    Seed: stateful.DefaultLanguages(),
//	})
//
//	c := store.Get("languages")
//	item, err := c.Create(map[string]any{"name": "Zed"}) // item.ID == 21
//	matches := c.Filter(stateful.Query{"name": "ma"})
//	_, err = c.Delete(15)
//
//	store.Reset("") // every collection back to its seed
//
// All operations are safe for concurrent use.
package stateful
