package stateful

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// GenerateID returns the id for the next record of items: BaselineID when
// items is empty, otherwise the largest id plus one.
func GenerateID(items []*Item) int {
	if len(items) == 0 {
		return BaselineID
	}
	maxID := items[0].ID
	for _, item := range items[1:] {
		if item.ID > maxID {
			maxID = item.ID
		}
	}
	return maxID + 1
}

// parseID converts a decoded JSON or YAML id into an int. A missing id
// yields (0, false, nil).
func parseID(v any) (int, bool, error) {
	switch id := v.(type) {
	case nil:
		return 0, false, nil
	case int:
		return id, true, nil
	case int64:
		return int(id), true, nil
	case uint64:
		if id > math.MaxInt {
			return 0, false, fmt.Errorf("id %d out of range", id)
		}
		return int(id), true, nil
	case float64:
		if id != math.Trunc(id) {
			return 0, false, fmt.Errorf("id %v is not an integer", id)
		}
		return int(id), true, nil
	case json.Number:
		n, err := strconv.Atoi(id.String())
		if err != nil {
			return 0, false, fmt.Errorf("id %q is not an integer", id.String())
		}
		return n, true, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(id))
		if err != nil {
			return 0, false, fmt.Errorf("id %q is not an integer", id)
		}
		return n, true, nil
	default:
		return 0, false, fmt.Errorf("id has unsupported type %T", v)
	}
}

// fromJSON splits a record into its id and its remaining fields.
func fromJSON(data map[string]any) (*Item, bool, error) {
	id, ok, err := parseID(data["id"])
	if err != nil {
		return nil, false, &ValidationError{Field: "id", Message: err.Error()}
	}
	item := &Item{ID: id, Data: make(map[string]any, len(data))}
	for k, v := range data {
		if k == "id" {
			continue
		}
		item.Data[k] = v
	}
	return item, ok && id > 0, nil
}
