package model

import "strconv"

// Identifiable is anything that names a single record by its integer id.
type Identifiable interface {
	RecordID() int
}

// ID is a raw record id.
type ID int

// RecordID returns the id itself.
func (id ID) RecordID() int { return int(id) }

// String implements fmt.Stringer.
func (id ID) String() string { return strconv.Itoa(int(id)) }

// Language is a language record.
type Language struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// RecordID returns the language id.
func (l Language) RecordID() int { return l.ID }

// Conversion is a conversion record.
type Conversion struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// RecordID returns the conversion id.
func (c Conversion) RecordID() int { return c.ID }

var (
	_ Identifiable = ID(0)
	_ Identifiable = Language{}
	_ Identifiable = Conversion{}
)
