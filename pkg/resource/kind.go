package resource

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind names a record type and says where its collection lives.
type Kind struct {
	// Singular is the record name used in messages ("language").
	Singular string
	// Plural is the collection name used in messages ("languages").
	Plural string
	// BaseURL is the collection endpoint, e.g. http://localhost:4280/api/languages.
	BaseURL string
	// SearchParam is the query parameter carrying search terms.
	// Defaults to "name".
	SearchParam string
	// Source prefixes every sink message. Defaults to e.g. "LanguageService".
	Source string
}

// labels are the operation names reported on failure.
type labels struct {
	source string
	list   string
	get    string
	search string
	add    string
	delete string
	update string
}

func newLabels(k Kind) labels {
	title := cases.Title(language.English, cases.NoLower)
	one := title.String(k.Singular)
	many := title.String(k.Plural)
	source := k.Source
	if source == "" {
		source = one + "Service"
	}
	return labels{
		source: source,
		list:   "get" + many,
		get:    "get" + one,
		search: "search" + many,
		add:    "add" + one,
		delete: "delete" + one,
		update: "update" + one,
	}
}

func (k Kind) normalize() Kind {
	k.BaseURL = strings.TrimRight(k.BaseURL, "/")
	if k.SearchParam == "" {
		k.SearchParam = "name"
	}
	if k.Plural == "" {
		k.Plural = k.Singular + "s"
	}
	return k
}
