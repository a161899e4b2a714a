package form

import (
	"fmt"
	"strings"
)

// Record is one JSON object as exchanged with the backend.
type Record map[string]any

// Clone returns a shallow copy.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ID returns the record's "id" as text, or "" when absent.
func (r Record) ID() string {
	switch v := r["id"].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprint(v)
	}
}

// Lookup resolves a dotted path ("part.name") through nested objects.
func (r Record) Lookup(path string) (any, bool) {
	var current any = map[string]any(r)
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[segment]; !ok {
			return nil, false
		}
	}
	return current, true
}

// PathColumn builds a display column reading a dotted path.
func PathColumn(path, label string) Column {
	return Column{
		Key:   path,
		Label: label,
		Render: func(item Record) string {
			value, ok := item.Lookup(path)
			if !ok || value == nil {
				return ""
			}
			return fmt.Sprint(value)
		},
	}
}
