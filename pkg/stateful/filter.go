package stateful

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// SearchTextField matches a term against every string field of a record.
const SearchTextField = "searchText"

// Query filters a collection. Every entry must match:
//   - "id" matches the item id exactly;
//   - "searchText" matches when any string field contains the value;
//   - any other key matches when that field exists and contains the value.
//
// Containment is case-insensitive.
type Query map[string]string

// QueryFromValues builds a Query from URL query parameters, keeping the
// first value of each key.
func QueryFromValues(values url.Values) Query {
	q := make(Query, len(values))
	for k, v := range values {
		if len(v) > 0 {
			q[k] = v[0]
		}
	}
	return q
}

// Matches reports whether item satisfies every entry of q.
func (q Query) Matches(item *Item) bool {
	for field, value := range q {
		if !matchField(item, field, value) {
			return false
		}
	}
	return true
}

func matchField(item *Item, field, value string) bool {
	switch field {
	case "id":
		id, err := strconv.Atoi(strings.TrimSpace(value))
		return err == nil && id == item.ID
	case SearchTextField:
		for _, v := range item.Data {
			if s, ok := v.(string); ok && containsFold(s, value) {
				return true
			}
		}
		return false
	default:
		v, ok := item.Data[field]
		if !ok || v == nil {
			return false
		}
		return containsFold(fmt.Sprint(v), value)
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
