package stateful

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultLanguages returns the fixed language seed: ten records, ids 11-20.
func DefaultLanguages() []map[string]any {
	names := []string{
		"Dr Nice", "Narco", "Bombasto", "Celeritas", "Magneta",
		"RubberMan", "Dynama", "Dr IQ", "Magma", "Tornado",
	}
	seed := make([]map[string]any, len(names))
	for i, name := range names {
		seed[i] = map[string]any{"id": BaselineID + i, "name": name}
	}
	return seed
}

// DefaultCollections returns the built-in collections: the seeded
// languages and an empty conversions collection.
func DefaultCollections() []*CollectionConfig {
	return []*CollectionConfig{
		{Name: "languages", Seed: DefaultLanguages()},
		{Name: "conversions"},
	}
}

// SeedFile is the YAML layout of a seed file.
//
//	collections:
//	  - name: languages
//	    seed:
//	      - {id: 11, name: Go, description: compiled}
//	  - name: conversions
type SeedFile struct {
	Collections []*CollectionConfig `yaml:"collections"`
}

// LoadSeedFile reads collection definitions from a YAML file.
func LoadSeedFile(path string) ([]*CollectionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed parses collection definitions from YAML.
func ParseSeed(data []byte) ([]*CollectionConfig, error) {
	var f SeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(f.Collections) == 0 {
		return nil, fmt.Errorf("seed file defines no collections")
	}
	return f.Collections, nil
}

// NewStoreFromConfigs registers every config in a fresh Store.
func NewStoreFromConfigs(configs []*CollectionConfig) (*Store, error) {
	s := NewStore()
	for _, cfg := range configs {
		if err := s.Register(cfg); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// LoadStore builds a Store from the seed file at path, or the default
// collections when path is empty.
func LoadStore(path string) (*Store, error) {
	if path == "" {
		return NewDefaultStore(), nil
	}
	configs, err := LoadSeedFile(path)
	if err != nil {
		return nil, err
	}
	return NewStoreFromConfigs(configs)
}
