// Package luggage holds the luggage tracker core: the Item entity, the
// Repository that owns its persisted collection, and the Synchronizer that
// keeps an observable in-memory copy of it for a presentation layer.
package luggage

import (
	"encoding/json"
	"strings"
	"time"
)

// Item is a tracked piece of luggage. Items are immutable once created.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Destination string    `json:"destination"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ValidateInput reports ErrInvalidInput if name or destination is blank.
// Repository.Create and Synchronizer.Add do not call it; consumers do.
func ValidateInput(name, destination string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(destination) == "" {
		return ErrInvalidInput
	}
	return nil
}

// Diagnostic describes stored data that could not be decoded. Index is the
// position of the unreadable record, or -1 when the payload as a whole is
// not a JSON array.
type Diagnostic struct {
	Key   string
	Index int
	Err   error
}

// decode parses a stored collection. A payload that is not a JSON array
// yields no items. Within an array, a record that does not decode (for
// example a createdAt that is not an RFC 3339 timestamp) is left out and
// reported; the other records are kept.
func decode(key string, raw []byte) ([]Item, []Diagnostic) {
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return []Item{}, []Diagnostic{{Key: key, Index: -1, Err: err}}
	}

	items := make([]Item, 0, len(records))
	var diags []Diagnostic
	for i, rec := range records {
		var it Item
		if err := json.Unmarshal(rec, &it); err != nil {
			diags = append(diags, Diagnostic{Key: key, Index: i, Err: err})
			continue
		}
		items = append(items, it)
	}
	return items, diags
}

// encode serializes the full collection. createdAt is written in UTC.
func encode(items []Item) ([]byte, error) {
	out := make([]Item, len(items))
	for i, it := range items {
		it.CreatedAt = it.CreatedAt.UTC()
		out[i] = it
	}
	return json.Marshal(out)
}
