package apiclient

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Collection returns the collection route for base, normalised to a single
// leading slash and no trailing slash.
func Collection(base string) string {
	base = strings.TrimSpace(base)
	base = strings.Trim(base, "/")
	if base == "" {
		return "/"
	}
	return "/" + base
}

// Item returns the route of a single resource: {base}/{id}.
func Item(base, id string) string {
	return join(Collection(base), url.PathEscape(strings.TrimSpace(id)))
}

// Nested returns the route of a sub-collection: {base}/{parentID}/{sub}.
func Nested(base, parentID, sub string) string {
	return join(Item(base, parentID), strings.Trim(strings.TrimSpace(sub), "/"))
}

// ParseID validates a resource identifier. Backend records are keyed by
// UUIDs; anything else is rejected before a request is built.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("apiclient: invalid id %q: %w", raw, err)
	}
	return id, nil
}

func join(parent, child string) string {
	if child == "" {
		return parent
	}
	if parent == "/" {
		return "/" + child
	}
	return parent + "/" + child
}
