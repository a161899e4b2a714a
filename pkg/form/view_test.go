package form_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-makerdb/pkg/apiclient"
	"github.com/goliatone/go-makerdb/pkg/field"
	"github.com/goliatone/go-makerdb/pkg/form"
	"github.com/goliatone/go-makerdb/pkg/schema"
	"github.com/goliatone/go-makerdb/pkg/testsupport"
)

var ctx = context.Background()

var itemSchema = []schema.Field{
	{Key: "name", Label: "Name", Type: schema.FieldTypeText, Required: true},
	{Key: "description", Label: "Description", Type: schema.FieldTypeTextarea, Span: 2},
	{Key: "count", Label: "Count", Type: schema.FieldTypeNumber},
	{Key: "active", Label: "Active", Type: schema.FieldTypeCheckbox},
}

func itemRecord() form.Record {
	return form.Record{"id": "123", "name": "Test Item", "description": "A test description", "count": float64(3), "active": true}
}

type clock struct {
	fns []func()
}

func (c *clock) AfterFunc(_ time.Duration, fn func()) func() bool {
	idx := len(c.fns)
	c.fns = append(c.fns, fn)
	return func() bool {
		ok := c.fns[idx] != nil
		c.fns[idx] = nil
		return ok
	}
}

func (c *clock) Advance() {
	for i, fn := range c.fns {
		if fn != nil {
			c.fns[i] = nil
			fn()
		}
	}
}

func setup(t *testing.T) (*apiclient.Client, *testsupport.Backend) {
	t.Helper()
	backend := testsupport.NewBackend("/db")
	srv := backend.Start(t)
	return apiclient.New(apiclient.WithBaseURL(srv.URL)), backend
}

func TestView_PatchSendsOnlyChangedKey(t *testing.T) {
	client, backend := setup(t)
	backend.Seed("/items", itemRecord())
	c := &clock{}

	view, err := form.NewView(client, itemSchema, itemRecord(),
		form.WithEndpoint("/items", "123"),
		form.WithFieldOptions(field.WithAfterFunc(c.AfterFunc)),
	)
	if err != nil {
		t.Fatalf("new view: %v", err)
	}

	if err := view.Edit(ctx, "count", "5"); err != nil {
		t.Fatalf("edit: %v", err)
	}

	calls := backend.CallsTo(http.MethodPatch, "/items/123")
	if len(calls) != 1 {
		t.Fatalf("expected one PATCH, got %d", len(calls))
	}
	if diff := cmp.Diff(map[string]any{"count": float64(5)}, calls[0].JSON()); diff != "" {
		t.Fatalf("patch body mismatch (-want +got):\n%s", diff)
	}

	count, _ := view.Field("count")
	if count.State() != field.StateSuccess {
		t.Fatalf("expected success, got %s", count.State())
	}
	c.Advance()
	if count.State() != field.StateIdle {
		t.Fatalf("expected idle after display delay, got %s", count.State())
	}
	if got := view.Record()["count"]; got != int64(5) {
		t.Fatalf("expected record updated to 5, got %#v", got)
	}
	if got := backend.Records("/items")[0]["count"]; got != float64(5) {
		t.Fatalf("backend not updated: %#v", got)
	}
}

func TestView_PutSendsWholeRecord(t *testing.T) {
	client, backend := setup(t)
	backend.Seed("/items", itemRecord())

	view, err := form.NewView(client, itemSchema, itemRecord(),
		form.WithEndpoint("/items", "123"),
		form.WithSaveMode(form.SaveModePut),
	)
	if err != nil {
		t.Fatalf("new view: %v", err)
	}
	if err := view.Edit(ctx, "name", "Renamed"); err != nil {
		t.Fatalf("edit: %v", err)
	}

	calls := backend.CallsTo(http.MethodPut, "/items/123")
	if len(calls) != 1 {
		t.Fatalf("expected one PUT, got %d", len(calls))
	}
	want := map[string]any{"id": "123", "name": "Renamed", "description": "A test description", "count": float64(3), "active": true}
	if diff := cmp.Diff(want, calls[0].JSON()); diff != "" {
		t.Fatalf("put body mismatch (-want +got):\n%s", diff)
	}
}

func TestView_FailureKeepsLocalValueUntilCancel(t *testing.T) {
	client, backend := setup(t)
	backend.Seed("/items", itemRecord())
	backend.Fail(http.MethodPatch, "/items/123", http.StatusUnprocessableEntity, []map[string]any{
		{"loc": []any{"body", "name"}, "msg": "name already taken"},
	})

	var observed []field.State
	view, err := form.NewView(client, itemSchema, itemRecord(),
		form.WithEndpoint("/items", "123"),
		form.WithObserver(func(ev field.Event, state field.State) {
			if ev.Kind == field.EventSave {
				observed = append(observed, state)
			}
		}),
	)
	if err != nil {
		t.Fatalf("new view: %v", err)
	}

	err = view.Edit(ctx, "name", "Duplicate")
	var statusErr *apiclient.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode() != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 status error, got %v", err)
	}

	name, _ := view.Field("name")
	if name.State() != field.StateError || name.Message() != "name already taken" {
		t.Fatalf("expected error state with field message, got %s %q", name.State(), name.Message())
	}
	if view.Record()["name"] != "Duplicate" {
		t.Fatalf("local value should stay unreverted, got %v", view.Record()["name"])
	}
	if diff := cmp.Diff([]field.State{field.StateError}, observed); diff != "" {
		t.Fatalf("observer mismatch (-want +got):\n%s", diff)
	}

	other, _ := view.Field("count")
	if other.State() != field.StateIdle {
		t.Fatalf("failure leaked into another field: %s", other.State())
	}

	if err := name.Cancel(ctx); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if view.Record()["name"] != "Test Item" {
		t.Fatalf("expected record restored on cancel, got %v", view.Record()["name"])
	}
}

func TestView_ValidationNeverReachesBackend(t *testing.T) {
	client, backend := setup(t)
	backend.Seed("/items", itemRecord())
	view, err := form.NewView(client, itemSchema, itemRecord(), form.WithEndpoint("/items", "123"))
	if err != nil {
		t.Fatalf("new view: %v", err)
	}
	if err := view.Edit(ctx, "name", ""); !errors.Is(err, schema.ErrRequired) {
		t.Fatalf("expected required error, got %v", err)
	}
	if calls := backend.Calls(); len(calls) != 0 {
		t.Fatalf("expected no requests, got %d", len(calls))
	}
}

func TestView_ReadonlyPropagates(t *testing.T) {
	view, err := form.NewView(nil, itemSchema, itemRecord(), form.WithReadonly(true))
	if err != nil {
		t.Fatalf("new view: %v", err)
	}
	for _, def := range view.Schema() {
		f, _ := view.Field(def.Key)
		if !f.Readonly() {
			t.Fatalf("field %s not readonly", def.Key)
		}
	}
	if err := view.Edit(ctx, "name", "x"); !errors.Is(err, field.ErrReadonly) {
		t.Fatalf("expected ErrReadonly, got %v", err)
	}
}

func TestView_EmptyEntityUsesEndpointVerbatim(t *testing.T) {
	client, backend := setup(t)
	backend.Seed("/settings")
	view, err := form.NewView(client, []schema.Field{{Key: "theme"}}, nil, form.WithEndpoint("/settings", ""))
	if err != nil {
		t.Fatalf("new view: %v", err)
	}
	if view.Path() != "/settings" {
		t.Fatalf("unexpected path %q", view.Path())
	}
	_ = view.Edit(ctx, "theme", "dark")
	if calls := backend.CallsTo(http.MethodPatch, "/settings"); len(calls) != 1 {
		t.Fatalf("expected PATCH to endpoint, got %d", len(calls))
	}
}

func TestView_UnknownFieldAndDuplicates(t *testing.T) {
	view, err := form.NewView(nil, itemSchema, nil)
	if err != nil {
		t.Fatalf("new view: %v", err)
	}
	if _, err := view.Field("missing"); !errors.Is(err, form.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if _, err := form.NewView(nil, []schema.Field{{Key: "a"}, {Key: "a"}}, nil); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}

func TestPack(t *testing.T) {
	keys := func(rows []form.Row) [][]string {
		var out [][]string
		for _, row := range rows {
			var ks []string
			for _, f := range row {
				ks = append(ks, f.Key)
			}
			out = append(out, ks)
		}
		return out
	}

	single := form.Pack(itemSchema, form.LayoutSingle)
	if diff := cmp.Diff([][]string{{"name"}, {"description"}, {"count"}, {"active"}}, keys(single)); diff != "" {
		t.Fatalf("single layout mismatch (-want +got):\n%s", diff)
	}

	fields := append([]schema.Field{{Key: "sku"}}, itemSchema...)
	two := form.Pack(fields, form.LayoutTwoColumn)
	want := [][]string{{"sku", "name"}, {"description"}, {"count", "active"}}
	if diff := cmp.Diff(want, keys(two)); diff != "" {
		t.Fatalf("two-column layout mismatch (-want +got):\n%s", diff)
	}

	odd := form.Pack([]schema.Field{{Key: "a"}, {Key: "wide", Span: 2}, {Key: "b"}}, form.LayoutTwoColumn)
	if diff := cmp.Diff([][]string{{"a"}, {"wide"}, {"b"}}, keys(odd)); diff != "" {
		t.Fatalf("full-width flush mismatch (-want +got):\n%s", diff)
	}
}

func TestTabsView(t *testing.T) {
	client, backend := setup(t)
	backend.Seed("/parts", form.Record{"id": "p1", "name": "R", "count": float64(1)})

	tabs := []schema.Tab{
		{Key: "details", Label: "Details", Fields: []schema.Field{{Key: "name", Type: schema.FieldTypeText}}},
		{Key: "stock", Label: "Stock", Fields: []schema.Field{{Key: "count", Type: schema.FieldTypeNumber}}},
	}
	view, err := form.NewTabsView(client, tabs, form.Record{"id": "p1", "name": "R", "count": float64(1)},
		form.WithEndpoint("/parts", "p1"))
	if err != nil {
		t.Fatalf("new tabs view: %v", err)
	}
	if view.Active().Key != "details" {
		t.Fatalf("expected first tab active")
	}
	if got := view.VisibleFields(); len(got) != 1 || got[0].Key != "name" {
		t.Fatalf("unexpected visible fields %+v", got)
	}
	if err := view.SetActive("nope"); !errors.Is(err, form.ErrUnknownTab) {
		t.Fatalf("expected ErrUnknownTab, got %v", err)
	}
	if err := view.SetActive("stock"); err != nil {
		t.Fatalf("set active: %v", err)
	}
	if got := view.VisibleFields(); len(got) != 1 || got[0].Key != "count" {
		t.Fatalf("unexpected visible fields %+v", got)
	}

	if err := view.Edit(ctx, "count", "2.2k"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	calls := backend.CallsTo(http.MethodPatch, "/parts/p1")
	if len(calls) != 1 {
		t.Fatalf("expected shared endpoint PATCH, got %d", len(calls))
	}
	if diff := cmp.Diff(map[string]any{"count": float64(2200)}, calls[0].JSON()); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}

	if _, err := form.NewTabsView(client, nil, nil); err == nil {
		t.Fatalf("expected error for no tabs")
	}
}
