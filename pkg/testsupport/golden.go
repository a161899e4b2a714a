package testsupport

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// GoldenEnv names the variable that makes WriteMaybeGolden refresh
// testdata instead of comparing against it.
const GoldenEnv = "MAKERDB_UPDATE_GOLDEN"

// CompareGolden diffs a decoded golden document against the value a test
// produced. An empty result means they match.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden loads testdata/<path>, stopping the test when it is absent.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("testsupport: golden %s: %v (run with %s=1 to create it)", path, err, GoldenEnv)
	}
	return data
}

// WriteMaybeGolden stores data at path when GoldenEnv is set and reports
// whether it did, so callers can return before comparing.
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if _, ok := os.LookupEnv(GoldenEnv); !ok {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("testsupport: golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("testsupport: golden %s: %v", path, err)
	}
	t.Logf("refreshed %s", path)
	return true
}

// MustJSON decodes data into maps and slices so goldens compare by
// structure rather than by formatting. Empty input decodes to nil.
func MustJSON(t *testing.T, data []byte) any {
	t.Helper()
	if len(data) == 0 {
		return nil
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("testsupport: decode %q: %v", data, err)
	}
	return out
}

// Rows converts typed records, such as form.Record, to the plain maps
// Backend.Seed accepts.
func Rows[T ~map[string]any](records []T) []map[string]any {
	out := make([]map[string]any, len(records))
	for i, rec := range records {
		out[i] = map[string]any(rec)
	}
	return out
}

// Context is the context fixtures pass to gestures and client calls.
func Context() context.Context {
	return context.Background()
}
