package stateful

// BaselineID is the id given to the first record of an empty collection.
const BaselineID = 11

// Item is a single record. ID is kept apart from the user fields in Data.
type Item struct {
	ID   int
	Data map[string]any
}

// ToJSON flattens the item into a JSON-ready map with "id" at the root.
func (item *Item) ToJSON() map[string]any {
	out := make(map[string]any, len(item.Data)+1)
	for k, v := range item.Data {
		out[k] = v
	}
	out["id"] = item.ID
	return out
}

func (item *Item) clone() *Item {
	data := make(map[string]any, len(item.Data))
	for k, v := range item.Data {
		data[k] = v
	}
	return &Item{ID: item.ID, Data: data}
}

// CollectionConfig describes a collection and its seed records.
type CollectionConfig struct {
	// Name is the collection name, also its URL segment.
	Name string `yaml:"name" json:"name"`
	// Seed holds the initial records. Each must carry an "id".
	Seed []map[string]any `yaml:"seed" json:"seed"`
}

// CollectionInfo describes the current state of one collection.
type CollectionInfo struct {
	Name      string `json:"name"`
	ItemCount int    `json:"itemCount"`
	SeedCount int    `json:"seedCount"`
	NextID    int    `json:"nextId"`
}

// Overview describes every registered collection.
type Overview struct {
	Collections []CollectionInfo `json:"collections"`
	TotalItems  int              `json:"totalItems"`
}

// ResetResponse is returned after a reset.
type ResetResponse struct {
	Reset       bool     `json:"reset"`
	Collections []string `json:"collections"`
	Message     string   `json:"message"`
}
