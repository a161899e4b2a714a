package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"unicode/utf8"
)

const (
	// MinQueryLength is the shortest query sent to the backend.
	MinQueryLength = 2
	// DefaultKind is the entity searched when none is given.
	DefaultKind = "locations"
)

// Getter is the subset of the API client the Searcher needs.
// *apiclient.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, path string, out any) error
}

// Hit is one search result.
type Hit struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ParentID    string  `json:"parent_id"`
	CreatedAt   float64 `json:"created_at"`
}

// UnmarshalJSON accepts both bare hits and hits wrapped in the search
// engine's {"document": {...}} envelope.
func (h *Hit) UnmarshalJSON(data []byte) error {
	type plain Hit
	var envelope struct {
		Document *plain `json:"document"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Document != nil {
		*h = Hit(*envelope.Document)
		return nil
	}
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*h = Hit(p)
	return nil
}

type response struct {
	Hits []Hit `json:"hits"`
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithErrorHook registers a callback invoked with every failed search.
func WithErrorHook(hook func(query, kind string, err error)) Option {
	return func(s *Searcher) {
		s.onError = hook
	}
}

// Searcher queries /api/search/{kind}. It is safe for concurrent use.
type Searcher struct {
	client  Getter
	onError func(query, kind string, err error)

	mu      sync.RWMutex
	query   string
	results []Hit
	loading bool
}

// New constructs a Searcher backed by client.
func New(client Getter, options ...Option) *Searcher {
	s := &Searcher{client: client}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Search runs query against kind (DefaultKind when empty). Short queries
// clear the state and return nil. On failure results become empty and the
// error is returned.
func (s *Searcher) Search(ctx context.Context, query, kind string) error {
	if utf8.RuneCountInString(query) < MinQueryLength {
		s.Clear()
		return nil
	}
	if kind == "" {
		kind = DefaultKind
	}

	s.mu.Lock()
	s.query = query
	s.loading = true
	s.mu.Unlock()

	var resp response
	err := s.fetch(ctx, Path(kind, query), &resp)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.results = []Hit{}
	} else {
		s.results = resp.Hits
		if s.results == nil {
			s.results = []Hit{}
		}
	}
	s.mu.Unlock()

	if err != nil {
		if s.onError != nil {
			s.onError(query, kind, err)
		}
		return fmt.Errorf("search: %s %q: %w", kind, query, err)
	}
	return nil
}

func (s *Searcher) fetch(ctx context.Context, path string, out *response) error {
	if s.client == nil {
		return fmt.Errorf("search: client is nil")
	}
	return s.client.Get(ctx, path, out)
}

// Clear resets the query and results.
func (s *Searcher) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = ""
	s.results = []Hit{}
}

// Results returns a copy of the current hits.
func (s *Searcher) Results() []Hit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Hit{}, s.results...)
}

// Query returns the last query that reached the backend.
func (s *Searcher) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// Loading reports whether a search is in flight.
func (s *Searcher) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Path builds the request path for a search.
func Path(kind, query string) string {
	return "/api/search/" + url.PathEscape(kind) + "?q=" + url.QueryEscape(query)
}
