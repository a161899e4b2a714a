package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-makerdb/pkg/renderers/tui"
	"github.com/goliatone/go-makerdb/pkg/testsupport"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, baseURL string, driver tui.PromptDriver, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := newApp(&stdout, &stderr)
	a.lookup = func(key string) (string, bool) {
		if key == "MAKERDB_BASE_URL" && baseURL != "" {
			return baseURL, true
		}
		return "", false
	}
	a.driver = driver
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func startBackend(t *testing.T) (*testsupport.Backend, string) {
	t.Helper()
	backend := testsupport.NewBackend("/db")
	srv := backend.Start(t)
	backend.Seed("/companies", map[string]any{
		"id": "c1", "name": "Acme", "website": "https://acme.test", "is_manufacturer": true, "is_vendor": false,
	})
	return backend, srv.URL
}

func TestModels(t *testing.T) {
	res := run(t, "", nil, "models")
	if res.err != nil {
		t.Fatalf("models: %v", res.err)
	}
	for _, want := range []string{"companies", "inventory", "/procurement/orders", "/inventory/locations"} {
		if !strings.Contains(res.stdout, want) {
			t.Fatalf("models output missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestShow(t *testing.T) {
	_, url := startBackend(t)
	res := run(t, url, nil, "show", "companies", "c1")
	if res.err != nil {
		t.Fatalf("show: %v", res.err)
	}
	for _, want := range []string{"Company c1", "Name *", "Acme", "Yes", "[idle]"} {
		if !strings.Contains(res.stdout, want) {
			t.Fatalf("show output missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestShow_UnknownModel(t *testing.T) {
	res := run(t, "", nil, "show", "widgets", "1")
	if res.err == nil || !strings.Contains(res.err.Error(), "unknown model") {
		t.Fatalf("expected unknown model error, got %v", res.err)
	}
}

func TestSet(t *testing.T) {
	backend, url := startBackend(t)
	res := run(t, url, nil, "set", "companies", "c1", "name=Globex", "website=ftp://globex")
	if res.err == nil {
		t.Fatalf("expected website validation to fail")
	}

	calls := backend.CallsTo(http.MethodPatch, "/companies/c1")
	if len(calls) != 1 {
		t.Fatalf("expected one PATCH, got %d", len(calls))
	}
	if diff := cmp.Diff(map[string]any{"name": "Globex"}, calls[0].JSON()); diff != "" {
		t.Fatalf("patch body mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(res.stdout, "[success] name = Globex") {
		t.Fatalf("expected success line:\n%s", res.stdout)
	}
	if !strings.Contains(res.stdout, "[error] website") {
		t.Fatalf("expected error line:\n%s", res.stdout)
	}
}

// scriptedDriver answers selects and inputs in order.
type scriptedDriver struct {
	selects []int
	inputs  []string
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", tui.ErrAborted
	}
	next := d.inputs[0]
	d.inputs = d.inputs[1:]
	return next, nil
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return 0, tui.ErrAborted
	}
	next := d.selects[0]
	d.selects = d.selects[1:]
	return next, nil
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	return false, tui.ErrAborted
}

func (d *scriptedDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return "", tui.ErrAborted
}

func (d *scriptedDriver) Info(context.Context, string) error { return nil }

func TestEdit(t *testing.T) {
	backend, url := startBackend(t)
	// name field, then abort: an abort ends the session without an error
	driver := &scriptedDriver{selects: []int{0}, inputs: []string{"Globex"}}
	res := run(t, url, driver, "edit", "companies", "c1")
	if res.err != nil {
		t.Fatalf("edit: %v", res.err)
	}
	calls := backend.CallsTo(http.MethodPatch, "/companies/c1")
	if len(calls) != 1 {
		t.Fatalf("expected one PATCH, got %d", len(calls))
	}
	if got := backend.Records("/companies")[0]["name"]; got != "Globex" {
		t.Fatalf("backend not updated: %v", got)
	}
}

func TestBOMList(t *testing.T) {
	backend, url := startBackend(t)
	backend.Seed("/projects/p1/bom",
		map[string]any{"id": "b1", "quantity": float64(4), "designators": "R1-R4", "part": map[string]any{"name": "10k resistor"}},
	)
	res := run(t, url, nil, "bom", "p1", "--list")
	if res.err != nil {
		t.Fatalf("bom: %v", res.err)
	}
	for _, want := range []string{"BOM Items", "Part", "Quantity *", "10k resistor", "R1-R4"} {
		if !strings.Contains(res.stdout, want) {
			t.Fatalf("bom output missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestSearch(t *testing.T) {
	backend, url := startBackend(t)
	backend.SeedHits("locations", map[string]any{"id": "loc-1", "name": "Shelf A", "description": "top drawer"})

	res := run(t, url, nil, "search", "locations", "shelf")
	if res.err != nil {
		t.Fatalf("search: %v", res.err)
	}
	if !strings.Contains(res.stdout, "Shelf A") || !strings.Contains(res.stdout, "loc-1") {
		t.Fatalf("missing hit:\n%s", res.stdout)
	}

	res = run(t, url, nil, "search", "locations", "x")
	if res.err != nil || !strings.Contains(res.stdout, "at least 2 characters") {
		t.Fatalf("expected short query notice, got %v:\n%s", res.err, res.stdout)
	}
}

func TestRender(t *testing.T) {
	_, url := startBackend(t)
	out := filepath.Join(t.TempDir(), "company.html")
	res := run(t, url, nil, "render", "companies", "c1", "-o", out, "--theme-variant", "dark", "--token", "primary=#ff6600")
	if res.err != nil {
		t.Fatalf("render: %v", res.err)
	}
	page, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	for _, want := range []string{"<!DOCTYPE html>", "<title>Acme</title>", "--primary: #ff6600;", "--background: #0f172a;", `data-variant="dark"`} {
		if !strings.Contains(string(page), want) {
			t.Fatalf("page missing %q", want)
		}
	}
}

func TestRender_UnknownTheme(t *testing.T) {
	_, url := startBackend(t)
	res := run(t, url, nil, "render", "companies", "c1", "--theme", "neon")
	if res.err == nil || !strings.Contains(res.err.Error(), "unknown theme") {
		t.Fatalf("expected unknown theme error, got %v", res.err)
	}
}

func TestUnits(t *testing.T) {
	res := run(t, "", nil, "units", "parse", "4.7k", "2.2M")
	if res.err != nil {
		t.Fatalf("parse: %v", res.err)
	}
	if diff := cmp.Diff("4.7k\t4700\n2.2M\t2.2e+06\n", res.stdout); diff != "" {
		t.Fatalf("parse output mismatch (-want +got):\n%s", diff)
	}

	res = run(t, "", nil, "units", "format", "4700", "abc")
	if res.err == nil {
		t.Fatalf("expected error for non-number")
	}
	if res.stdout != "4700\t4.7k\n" {
		t.Fatalf("unexpected format output %q", res.stdout)
	}
}

func TestSchema(t *testing.T) {
	res := run(t, "", nil, "schema", "--openapi", "../../pkg/schema/testdata/openapi.json", "--component", "PartSchema")
	if res.err != nil {
		t.Fatalf("schema: %v", res.err)
	}
	for _, want := range []string{"key: name", "label: Part Name", "type: checkbox"} {
		if !strings.Contains(res.stdout, want) {
			t.Fatalf("schema output missing %q:\n%s", want, res.stdout)
		}
	}

	res = run(t, "", nil, "schema", "locations")
	if res.err != nil || !strings.Contains(res.stdout, "type: textarea") {
		t.Fatalf("expected locations schema, got %v:\n%s", res.err, res.stdout)
	}
}

func TestLint(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.json")
	doc := `{"openapi": "3.0.3", "info": {"title": "t", "version": "1"}, "paths": {},
  "components": {"schemas": {"Part": {"type": "object", "properties": {"name": {"type": "string", "x-makerdb-widget": "x"}}}}}}`
	if err := os.WriteFile(bad, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	res := run(t, "", nil, "lint", bad)
	if res.err == nil {
		t.Fatalf("expected lint failure")
	}
	if !strings.Contains(res.stderr, `unsupported extension "x-makerdb-widget"`) {
		t.Fatalf("missing violation:\n%s", res.stderr)
	}

	res = run(t, "", nil, "lint", "../../pkg/schema/testdata/openapi.json")
	if res.err != nil {
		t.Fatalf("clean document failed lint: %v\n%s", res.err, res.stderr)
	}
}

func TestVerboseLogsRequests(t *testing.T) {
	_, url := startBackend(t)
	res := run(t, url, nil, "show", "companies", "c1", "--verbose")
	if res.err != nil {
		t.Fatalf("show: %v", res.err)
	}
	if !strings.Contains(res.stderr, "makerdb: GET /db/companies/c1 -> 200") {
		t.Fatalf("expected request log:\n%s", res.stderr)
	}
}
