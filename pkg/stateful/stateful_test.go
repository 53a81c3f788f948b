package stateful

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// GenerateID
// =============================================================================

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name string
		ids  []int
		want int
	}{
		{"empty collection", nil, BaselineID},
		{"single", []int{11}, 12},
		{"seeded", []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, 21},
		{"unordered", []int{30, 12, 17}, 31},
		{"gap after delete", []int{11, 12, 14}, 15},
		{"below baseline", []int{1, 2}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]*Item, len(tt.ids))
			for i, id := range tt.ids {
				items[i] = &Item{ID: id}
			}
			got := GenerateID(items)
			assert.Equal(t, tt.want, got)
			for _, id := range tt.ids {
				assert.Greater(t, got, id)
			}
		})
	}
}

// =============================================================================
// Store
// =============================================================================

func TestStore_Register(t *testing.T) {
	tests := []struct {
		name    string
		config  *CollectionConfig
		wantErr string
	}{
		{name: "valid", config: &CollectionConfig{Name: "languages"}},
		{name: "nil config", config: nil, wantErr: "config cannot be nil"},
		{name: "empty name", config: &CollectionConfig{}, wantErr: "collection name cannot be empty"},
		{name: "slash in name", config: &CollectionConfig{Name: "a/b"}, wantErr: "cannot contain /"},
		{
			name: "duplicate seed ids",
			config: &CollectionConfig{Name: "languages", Seed: []map[string]any{
				{"id": 11, "name": "First"},
				{"id": 11, "name": "Second"},
			}},
			wantErr: "duplicate ID 11",
		},
		{
			name: "non integer seed id",
			config: &CollectionConfig{Name: "languages", Seed: []map[string]any{
				{"id": "eleven", "name": "First"},
			}},
			wantErr: "not an integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewStore().Register(tt.config)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStore_RegisterDuplicate(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Register(&CollectionConfig{Name: "languages"}))
	err := s.Register(&CollectionConfig{Name: "languages"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestNewDefaultStore(t *testing.T) {
	s := NewDefaultStore()
	assert.Equal(t, []string{"conversions", "languages"}, s.Names())

	langs := s.Get("languages")
	require.NotNil(t, langs)
	assert.Equal(t, 10, langs.Count())
	assert.Equal(t, 21, langs.NextID())

	items := langs.List()
	for i, item := range items {
		assert.Equal(t, BaselineID+i, item.ID)
	}
	assert.Equal(t, "Dr Nice", items[0].Data["name"])

	conv := s.Get("conversions")
	require.NotNil(t, conv)
	assert.Equal(t, 0, conv.Count())
	assert.Equal(t, BaselineID, conv.NextID())

	assert.Nil(t, s.Get("heroes"))
}

func TestStore_ResetAll(t *testing.T) {
	s := NewDefaultStore()
	langs := s.Get("languages")
	_, err := langs.Delete(15)
	require.NoError(t, err)
	_, err = s.Get("conversions").Create(map[string]any{"name": "csv"})
	require.NoError(t, err)

	resp, err := s.Reset("")
	require.NoError(t, err)
	assert.True(t, resp.Reset)
	assert.Equal(t, []string{"conversions", "languages"}, resp.Collections)

	assert.Equal(t, 10, langs.Count())
	assert.NotNil(t, langs.Get(15))
	assert.Equal(t, 0, s.Get("conversions").Count())
}

func TestStore_ResetOne(t *testing.T) {
	s := NewDefaultStore()
	_, err := s.Get("languages").Delete(11)
	require.NoError(t, err)

	resp, err := s.Reset("languages")
	require.NoError(t, err)
	assert.Equal(t, []string{"languages"}, resp.Collections)
	assert.Equal(t, 10, s.Get("languages").Count())

	_, err = s.Reset("heroes")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "heroes", nf.Collection)
}

func TestStore_Overview(t *testing.T) {
	ov := NewDefaultStore().Overview()
	require.Len(t, ov.Collections, 2)
	assert.Equal(t, 10, ov.TotalItems)
	assert.Equal(t, CollectionInfo{Name: "conversions", ItemCount: 0, SeedCount: 0, NextID: 11}, ov.Collections[0])
	assert.Equal(t, CollectionInfo{Name: "languages", ItemCount: 10, SeedCount: 10, NextID: 21}, ov.Collections[1])
}

// =============================================================================
// Collection
// =============================================================================

func newLanguages(t *testing.T) *Collection {
	t.Helper()
	c, err := NewCollection(&CollectionConfig{Name: "languages", Seed: DefaultLanguages()})
	require.NoError(t, err)
	return c
}

func TestCollection_CreateAssignsNextID(t *testing.T) {
	c := newLanguages(t)

	item, err := c.Create(map[string]any{"name": "Zed"})
	require.NoError(t, err)
	assert.Equal(t, 21, item.ID)
	assert.Equal(t, "Zed", item.Data["name"])
	assert.Equal(t, 11, c.Count())

	item, err = c.Create(map[string]any{"id": 0, "name": "Zero"})
	require.NoError(t, err)
	assert.Equal(t, 22, item.ID, "zero id means unassigned")
}

func TestCollection_CreateInEmptyCollection(t *testing.T) {
	c, err := NewCollection(&CollectionConfig{Name: "conversions"})
	require.NoError(t, err)

	item, err := c.Create(map[string]any{"name": "csv to json"})
	require.NoError(t, err)
	assert.Equal(t, BaselineID, item.ID)
}

func TestCollection_CreateWithExplicitID(t *testing.T) {
	c := newLanguages(t)

	// Out-of-band ids are accepted; the sequence continues from them.
	item, err := c.Create(map[string]any{"id": float64(100), "name": "Far"})
	require.NoError(t, err)
	assert.Equal(t, 100, item.ID)
	assert.Equal(t, 101, c.NextID())

	_, err = c.Create(map[string]any{"id": 12, "name": "Taken"})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 12, conflict.ID)
}

func TestCollection_CreateRejectsBadID(t *testing.T) {
	c := newLanguages(t)
	_, err := c.Create(map[string]any{"id": 1.5, "name": "Half"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "id", ve.Field)
}

func TestCollection_CreateAcceptsJSONNumbers(t *testing.T) {
	c := newLanguages(t)
	var body map[string]any
	dec := json.NewDecoder(strings.NewReader(`{"id": 50, "name": "Num"}`))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&body))

	item, err := c.Create(body)
	require.NoError(t, err)
	assert.Equal(t, 50, item.ID)
}

func TestCollection_Get(t *testing.T) {
	c := newLanguages(t)
	item := c.Get(13)
	require.NotNil(t, item)
	assert.Equal(t, "Bombasto", item.Data["name"])
	assert.Nil(t, c.Get(99))
}

func TestCollection_GetReturnsCopy(t *testing.T) {
	c := newLanguages(t)
	item := c.Get(13)
	item.Data["name"] = "changed"
	assert.Equal(t, "Bombasto", c.Get(13).Data["name"])
}

func TestCollection_Update(t *testing.T) {
	c := newLanguages(t)

	item, err := c.Update(map[string]any{"id": 14, "name": "Celeritas II", "description": "faster"})
	require.NoError(t, err)
	assert.Equal(t, 14, item.ID)

	got := c.Get(14)
	assert.Equal(t, "Celeritas II", got.Data["name"])
	assert.Equal(t, "faster", got.Data["description"])
	assert.Equal(t, 10, c.Count())

	// position is preserved
	assert.Equal(t, 14, c.List()[3].ID)
}

func TestCollection_UpdateMissing(t *testing.T) {
	c := newLanguages(t)

	_, err := c.Update(map[string]any{"id": 99, "name": "Ghost"})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, 99, nf.ID)

	_, err = c.Update(map[string]any{"name": "No id"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestCollection_Delete(t *testing.T) {
	c := newLanguages(t)

	removed, err := c.Delete(15)
	require.NoError(t, err)
	assert.Equal(t, 15, removed.ID)
	assert.Equal(t, "Magneta", removed.Data["name"])
	assert.Equal(t, 9, c.Count())
	for _, item := range c.List() {
		assert.NotEqual(t, 15, item.ID)
	}

	_, err = c.Delete(15)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestCollection_DeleteThenCreateDoesNotReuseMax(t *testing.T) {
	c := newLanguages(t)
	_, err := c.Delete(15)
	require.NoError(t, err)

	item, err := c.Create(map[string]any{"name": "New"})
	require.NoError(t, err)
	assert.Equal(t, 21, item.ID)
}

func TestCollection_Filter(t *testing.T) {
	c := newLanguages(t)
	_, err := c.Update(map[string]any{"id": 16, "name": "RubberMan", "description": "stretchy MAGic"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		query Query
		want  []int
	}{
		{"no query", nil, []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}},
		{"id exact", Query{"id": "13"}, []int{13}},
		{"id missing", Query{"id": "99"}, []int{}},
		{"id not a number", Query{"id": "x"}, []int{}},
		{"name substring case-insensitive", Query{"name": "ma"}, []int{15, 16, 17, 19}},
		{"name prefix", Query{"name": "dr"}, []int{11, 18}},
		{"searchText covers description", Query{SearchTextField: "magic"}, []int{16}},
		{"searchText covers name", Query{SearchTextField: "torn"}, []int{20}},
		{"unknown field matches nothing", Query{"color": "red"}, []int{}},
		{"combined", Query{"name": "ma", "id": "19"}, []int{19}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []int{}
			for _, item := range c.Filter(tt.query) {
				got = append(got, item.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCollection_Reset(t *testing.T) {
	c := newLanguages(t)
	_, _ = c.Create(map[string]any{"name": "Zed"})
	_, _ = c.Delete(11)

	c.Reset()
	assert.Equal(t, 10, c.Count())
	assert.Equal(t, 21, c.NextID())
}

func TestCollection_SeedWithoutIDs(t *testing.T) {
	c, err := NewCollection(&CollectionConfig{Name: "conversions", Seed: []map[string]any{
		{"name": "a"}, {"name": "b"},
	}})
	require.NoError(t, err)
	ids := []int{}
	for _, item := range c.List() {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []int{11, 12}, ids)
}

func TestCollection_ConcurrentCreatesKeepIDsUnique(t *testing.T) {
	c := newLanguages(t)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := c.Create(map[string]any{"name": fmt.Sprintf("lang-%d", n)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	seen := map[int]bool{}
	for _, item := range c.List() {
		assert.False(t, seen[item.ID], "duplicate id %d", item.ID)
		seen[item.ID] = true
	}
	assert.Len(t, seen, 50)
}

func TestItem_ToJSON(t *testing.T) {
	item := &Item{ID: 11, Data: map[string]any{"name": "Dr Nice", "id": 999}}
	out := item.ToJSON()
	assert.Equal(t, 11, out["id"], "system id wins")
	assert.Equal(t, "Dr Nice", out["name"])
}

// =============================================================================
// Seed files
// =============================================================================

func TestParseSeed(t *testing.T) {
	configs, err := ParseSeed([]byte(`
collections:
  - name: languages
    seed:
      - {id: 1, name: Go, description: compiled}
      - {id: 2, name: Python}
  - name: conversions
`))
	require.NoError(t, err)
	require.Len(t, configs, 2)

	s, err := NewStoreFromConfigs(configs)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Get("languages").Count())
	assert.Equal(t, 3, s.Get("languages").NextID())
	assert.Equal(t, "compiled", s.Get("languages").Get(1).Data["description"])
	assert.Equal(t, 0, s.Get("conversions").Count())
}

func TestParseSeed_Errors(t *testing.T) {
	_, err := ParseSeed([]byte(`collections: [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse seed file")

	_, err = ParseSeed([]byte(`collections: []`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no collections")
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("collections:\n  - name: conversions\n    seed:\n      - {name: csv}\n"), 0o600))

	configs, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, "conversions", configs[0].Name)

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadStore(t *testing.T) {
	s, err := LoadStore("")
	require.NoError(t, err)
	assert.Equal(t, []string{"conversions", "languages"}, s.Names())

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("collections:\n  - name: languages\n    seed:\n      - {id: 3, name: Go}\n      - {id: 3, name: Dup}\n"), 0o600))
	_, err = LoadStore(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate ID 3")
}
