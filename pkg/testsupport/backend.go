package testsupport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Call is a request observed by the Backend.
type Call struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// JSON decodes the request body into a generic map. Non-object bodies yield
// nil.
func (c Call) JSON() map[string]any {
	if len(c.Body) == 0 {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(c.Body, &out); err != nil {
		return nil
	}
	return out
}

// canned is a fixed answer registered with Fail or Respond.
type canned struct {
	status int
	body   any
}

// Backend is an in-memory stand-in for the MakerDB REST API. Collections are
// registered by path via Seed; items live at {collection}/{id}. Search
// requests under {base}/api/search/{kind} match seeded hits by substring.
// Every request is recorded so tests can assert on exact calls.
type Backend struct {
	mu          sync.Mutex
	basePath    string
	collections map[string][]map[string]any
	hits        map[string][]map[string]any
	canned      map[string]canned
	calls       []Call
	router      chi.Router
}

// NewBackend builds a backend mounted under basePath (e.g. "/db").
func NewBackend(basePath string) *Backend {
	basePath = "/" + strings.Trim(strings.TrimSpace(basePath), "/")
	if basePath == "/" {
		basePath = ""
	}
	b := &Backend{
		basePath:    basePath,
		collections: make(map[string][]map[string]any),
		hits:        make(map[string][]map[string]any),
		canned:      make(map[string]canned),
	}

	r := chi.NewRouter()
	r.Use(b.record)
	r.Get(basePath+"/api/search/{kind}", b.search)
	r.HandleFunc(basePath+"/*", b.resource)
	b.router = r
	return b
}

// Start serves the backend on an httptest server closed with the test.
func (b *Backend) Start(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return srv
}

// ServeHTTP implements http.Handler.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

// Seed registers a collection (path relative to the base path) and its
// records. Records without an "id" receive a fresh UUID.
func (b *Backend) Seed(collection string, records ...map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := cleanPath(collection)
	items := b.collections[key]
	for _, rec := range records {
		clone := cloneRecord(rec)
		if _, ok := clone["id"]; !ok {
			clone["id"] = uuid.NewString()
		}
		items = append(items, clone)
	}
	if items == nil {
		items = []map[string]any{}
	}
	b.collections[key] = items
}

// SeedHits registers search hits for an entity kind.
func (b *Backend) SeedHits(kind string, hits ...map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, hit := range hits {
		b.hits[kind] = append(b.hits[kind], cloneRecord(hit))
	}
}

// Fail makes every request for method+path (relative to the base path)
// answer with status and a {"detail": detail} body until Recover is called.
func (b *Backend) Fail(method, path string, status int, detail any) {
	b.Respond(method, path, status, map[string]any{"detail": detail})
}

// Respond makes every request for method+path answer with status and body
// as JSON, or with no body when body is nil, until Recover is called. The
// request is recorded but never reaches the collections.
func (b *Backend) Respond(method, path string, status int, body any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.canned[cannedKey(method, cleanPath(path))] = canned{status: status, body: body}
}

// Recover clears an answer registered with Fail or Respond.
func (b *Backend) Recover(method, path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.canned, cannedKey(method, cleanPath(path)))
}

// Records returns a copy of the collection's current records.
func (b *Backend) Records(collection string) []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := b.collections[cleanPath(collection)]
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, cloneRecord(item))
	}
	return out
}

// Calls returns every recorded request in arrival order.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// CallsTo returns recorded requests matching method and path (relative to
// the base path, query excluded).
func (b *Backend) CallsTo(method, path string) []Call {
	want := b.basePath + cleanPath(path)
	var out []Call
	for _, call := range b.Calls() {
		if call.Method == method && call.Path == want {
			out = append(out, call)
		}
	}
	return out
}

// Reset forgets recorded calls.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			_ = r.Body.Close()
		}
		b.mu.Lock()
		b.calls = append(b.calls, Call{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		answer, fixed := b.canned[cannedKey(r.Method, strings.TrimPrefix(r.URL.Path, b.basePath))]
		b.mu.Unlock()

		if fixed {
			if answer.body == nil {
				w.WriteHeader(answer.status)
				return
			}
			writeJSON(w, answer.status, answer.body)
			return
		}
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) search(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	b.mu.Lock()
	var hits []map[string]any
	for _, hit := range b.hits[kind] {
		name, _ := hit["name"].(string)
		desc, _ := hit["description"].(string)
		if strings.Contains(strings.ToLower(name), query) || strings.Contains(strings.ToLower(desc), query) {
			hits = append(hits, map[string]any{"document": cloneRecord(hit)})
		}
	}
	b.mu.Unlock()

	if hits == nil {
		hits = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"hits": hits})
}

func (b *Backend) resource(w http.ResponseWriter, r *http.Request) {
	path := cleanPath(strings.TrimPrefix(r.URL.Path, b.basePath))

	b.mu.Lock()
	defer b.mu.Unlock()

	if items, ok := b.collections[path]; ok {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, items)
		case http.MethodPost:
			rec, ok := decodeRecord(w, r)
			if !ok {
				return
			}
			if _, has := rec["id"]; !has {
				rec["id"] = uuid.NewString()
			}
			b.collections[path] = append(items, rec)
			writeJSON(w, http.StatusCreated, rec)
		default:
			writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"detail": "Method Not Allowed"})
		}
		return
	}

	idx := strings.LastIndex(path, "/")
	parent, id := path[:idx], path[idx+1:]
	if parent == "" {
		parent = "/"
	}
	items, ok := b.collections[parent]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Not Found"})
		return
	}
	pos := indexOfID(items, id)
	if pos < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Not found"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, items[pos])
	case http.MethodPatch:
		rec, ok := decodeRecord(w, r)
		if !ok {
			return
		}
		for key, value := range rec {
			items[pos][key] = value
		}
		writeJSON(w, http.StatusOK, items[pos])
	case http.MethodPut:
		rec, ok := decodeRecord(w, r)
		if !ok {
			return
		}
		rec["id"] = items[pos]["id"]
		items[pos] = rec
		writeJSON(w, http.StatusOK, rec)
	case http.MethodDelete:
		b.collections[parent] = append(items[:pos:pos], items[pos+1:]...)
		w.WriteHeader(http.StatusNoContent)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"detail": "Method Not Allowed"})
	}
}

// Collections lists registered collection paths, sorted.
func (b *Backend) Collections() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.collections))
	for key := range b.collections {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func decodeRecord(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var rec map[string]any
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil || rec == nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []any{"body"}, "msg": "invalid JSON object"}},
		})
		return nil, false
	}
	return rec, true
}

func indexOfID(items []map[string]any, id string) int {
	for i, item := range items {
		if s, ok := item["id"].(string); ok && s == id {
			return i
		}
	}
	return -1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func cleanPath(path string) string {
	return "/" + strings.Trim(strings.TrimSpace(path), "/")
}

func cannedKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

func cloneRecord(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
