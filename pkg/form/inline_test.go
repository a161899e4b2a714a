package form_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-makerdb/pkg/field"
	"github.com/goliatone/go-makerdb/pkg/form"
	"github.com/goliatone/go-makerdb/pkg/schema"
	"github.com/goliatone/go-makerdb/pkg/testsupport"
)

var bomSchema = []schema.Field{
	{Key: "quantity", Label: "Quantity", Type: schema.FieldTypeNumber, Required: true},
	{Key: "designators", Label: "Designators", Type: schema.FieldTypeText},
}

func bomItems() []form.Record {
	return []form.Record{
		{"id": "1", "quantity": float64(10), "designators": "R1, R2"},
		{"id": "2", "quantity": float64(5), "designators": "C1"},
	}
}

func answer(ok bool) form.ConfirmFunc {
	return func(context.Context, string) (bool, error) { return ok, nil }
}

func TestInlineView_Defaults(t *testing.T) {
	view := form.NewInlineView(nil, "/projects/123/bom", bomSchema, nil, form.WithTitle("BOM Items"))
	if view.Title() != "BOM Items" || view.AddLabel() != "Add Item" || view.EmptyMessage() != form.DefaultEmptyMessage {
		t.Fatalf("unexpected labels %q %q %q", view.Title(), view.AddLabel(), view.EmptyMessage())
	}
	if !view.Empty() {
		t.Fatalf("expected empty view")
	}
	view.SetLoading(true)
	if !view.Loading() {
		t.Fatalf("expected loading flag")
	}
	if diff := cmp.Diff(form.Controls{Add: true, Edit: true, Delete: true}, view.Controls()); diff != "" {
		t.Fatalf("controls mismatch (-want +got):\n%s", diff)
	}
}

func TestInlineView_DeleteConfirmed(t *testing.T) {
	client, backend := setup(t)
	backend.Seed("/projects/123/bom", testsupport.Rows(bomItems())...)

	var prompts []string
	view := form.NewInlineView(client, "/projects/123/bom", bomSchema, bomItems(),
		form.WithConfirmer(form.ConfirmFunc(func(_ context.Context, msg string) (bool, error) {
			prompts = append(prompts, msg)
			return true, nil
		})),
	)

	deleted, err := view.Delete(ctx, "1")
	if err != nil || !deleted {
		t.Fatalf("delete: %v %v", deleted, err)
	}
	if calls := backend.CallsTo(http.MethodDelete, "/projects/123/bom/1"); len(calls) != 1 {
		t.Fatalf("expected exactly one DELETE, got %d", len(calls))
	}
	if len(backend.Calls()) != 1 {
		t.Fatalf("expected no other requests, got %d", len(backend.Calls()))
	}
	if diff := cmp.Diff([]string{form.DeletePrompt}, prompts); diff != "" {
		t.Fatalf("prompt mismatch (-want +got):\n%s", diff)
	}
	items := view.Items()
	if len(items) != 1 || items[0].ID() != "2" {
		t.Fatalf("expected row removed, got %+v", items)
	}
	if _, err := view.RowField("1", "quantity"); !errors.Is(err, form.ErrUnknownItem) {
		t.Fatalf("expected row fields dropped, got %v", err)
	}
}

func TestInlineView_DeleteDeclined(t *testing.T) {
	client, backend := setup(t)
	backend.Seed("/projects/123/bom", testsupport.Rows(bomItems())...)
	view := form.NewInlineView(client, "/projects/123/bom", bomSchema, bomItems(), form.WithConfirmer(answer(false)))

	deleted, err := view.Delete(ctx, "1")
	if err != nil || deleted {
		t.Fatalf("expected declined delete, got %v %v", deleted, err)
	}
	if calls := backend.Calls(); len(calls) != 0 {
		t.Fatalf("expected no requests, got %d", len(calls))
	}
	if len(view.Items()) != 2 {
		t.Fatalf("rows changed on decline")
	}
}

func TestInlineView_DeleteNeedsConfirmer(t *testing.T) {
	client, backend := setup(t)
	backend.Seed("/projects/123/bom", testsupport.Rows(bomItems())...)
	view := form.NewInlineView(client, "/projects/123/bom", bomSchema, bomItems())

	deleted, err := view.Delete(ctx, "1")
	if deleted || !errors.Is(err, form.ErrNoConfirmer) {
		t.Fatalf("expected ErrNoConfirmer, got %v %v", deleted, err)
	}
	if calls := backend.Calls(); len(calls) != 0 {
		t.Fatalf("expected no requests, got %d", len(calls))
	}
	if len(view.Items()) != 2 || len(backend.Records("/projects/123/bom")) != 2 {
		t.Fatalf("rows changed without confirmation")
	}
}

func TestInlineView_CreatedWithoutID(t *testing.T) {
	client, backend := setup(t)
	backend.Seed("/projects/123/bom", testsupport.Rows(bomItems())...)
	view := form.NewInlineView(client, "/projects/123/bom", bomSchema, bomItems(), form.WithConfirmer(answer(true)))

	bodies := []any{nil, map[string]any{"quantity": 4}}
	for _, body := range bodies {
		backend.Respond(http.MethodPost, "/projects/123/bom", http.StatusCreated, body)
		if err := view.OpenAdd(ctx); err != nil {
			t.Fatalf("open add: %v", err)
		}
		_ = view.SetDraft("quantity", "4")
		if _, err := view.SubmitAdd(ctx); !errors.Is(err, form.ErrMissingID) {
			t.Fatalf("expected ErrMissingID for %v, got %v", body, err)
		}
		if !view.DraftOpen() || view.DraftError() == "" {
			t.Fatalf("expected draft kept open with an error")
		}
		view.CancelAdd()
	}
	if len(view.Items()) != 2 {
		t.Fatalf("id-less records were appended: %+v", view.Items())
	}

	if err := view.EditRow(ctx, "", "quantity", "9"); !errors.Is(err, form.ErrMissingID) {
		t.Fatalf("expected ErrMissingID on edit, got %v", err)
	}
	if _, err := view.Delete(ctx, ""); !errors.Is(err, form.ErrMissingID) {
		t.Fatalf("expected ErrMissingID on delete, got %v", err)
	}
	if calls := backend.CallsTo(http.MethodPost, "/projects/123/bom"); len(calls) != 2 {
		t.Fatalf("expected two POSTs, got %d", len(calls))
	}
	if len(backend.Calls()) != 2 {
		t.Fatalf("expected no PATCH or DELETE, got %d requests", len(backend.Calls()))
	}
	if got := view.Items()[0]["quantity"]; got != float64(10) {
		t.Fatalf("first row mutated: %#v", got)
	}
}

func TestInlineView_RowsWithoutIDAreNotEditable(t *testing.T) {
	items := []form.Record{{"quantity": float64(1)}, {"id": "7", "quantity": float64(2)}, {"id": "7", "quantity": float64(3)}}
	view := form.NewInlineView(nil, "/projects/123/bom", bomSchema, items)

	if len(view.Items()) != 3 {
		t.Fatalf("expected every record listed, got %d", len(view.Items()))
	}
	if _, err := view.RowField("", "quantity"); !errors.Is(err, form.ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
	f, err := view.RowField("7", "quantity")
	if err != nil {
		t.Fatalf("row field: %v", err)
	}
	if f.Value() != float64(2) {
		t.Fatalf("expected the first row with id 7 to own the fields, got %v", f.Value())
	}
}

func TestInlineView_PermissionsSuppressActions(t *testing.T) {
	client, backend := setup(t)
	view := form.NewInlineView(client, "/projects/123/bom", bomSchema, bomItems(), form.WithPermissions(false, false))

	if diff := cmp.Diff(form.Controls{}, view.Controls()); diff != "" {
		t.Fatalf("controls mismatch (-want +got):\n%s", diff)
	}
	if _, err := view.Delete(ctx, "1"); !errors.Is(err, form.ErrNotPermitted) {
		t.Fatalf("expected ErrNotPermitted on delete, got %v", err)
	}
	if err := view.OpenAdd(ctx); !errors.Is(err, form.ErrNotPermitted) {
		t.Fatalf("expected ErrNotPermitted on add, got %v", err)
	}
	if err := view.EditRow(ctx, "1", "quantity", "3"); !errors.Is(err, field.ErrReadonly) {
		t.Fatalf("expected readonly rows, got %v", err)
	}
	if len(backend.Calls()) != 0 {
		t.Fatalf("expected no requests")
	}
}

func TestInlineView_AddPostsDraft(t *testing.T) {
	client, backend := setup(t)
	backend.Seed("/projects/123/bom", testsupport.Rows(bomItems())...)
	view := form.NewInlineView(client, "/projects/123/bom", bomSchema, bomItems())

	if err := view.OpenAdd(ctx); err != nil {
		t.Fatalf("open add: %v", err)
	}
	q, _ := view.DraftField("quantity")
	if q.State() != field.StateEditing {
		t.Fatalf("expected draft fields editing, got %s", q.State())
	}
	if err := view.SetDraft("quantity", "25"); err != nil {
		t.Fatalf("set draft: %v", err)
	}
	if err := view.SetDraft("designators", "R5-R10"); err != nil {
		t.Fatalf("set draft: %v", err)
	}

	created, err := view.SubmitAdd(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	calls := backend.CallsTo(http.MethodPost, "/projects/123/bom")
	if len(calls) != 1 {
		t.Fatalf("expected one POST, got %d", len(calls))
	}
	if diff := cmp.Diff(map[string]any{"quantity": float64(25), "designators": "R5-R10"}, calls[0].JSON()); diff != "" {
		t.Fatalf("post body mismatch (-want +got):\n%s", diff)
	}
	if created.ID() == "" {
		t.Fatalf("expected server-assigned id")
	}
	if view.DraftOpen() {
		t.Fatalf("expected draft closed")
	}
	items := view.Items()
	if len(items) != 3 || items[2].ID() != created.ID() {
		t.Fatalf("expected created record appended, got %+v", items)
	}
}

func TestInlineView_AddFailureKeepsDraft(t *testing.T) {
	client, backend := setup(t)
	backend.Seed("/projects/123/bom")
	view := form.NewInlineView(client, "/projects/123/bom", bomSchema, nil)

	_ = view.OpenAdd(ctx)
	if _, err := view.SubmitAdd(ctx); !errors.Is(err, schema.ErrRequired) {
		t.Fatalf("expected required error, got %v", err)
	}
	if view.DraftError() != "Quantity: field is required" {
		t.Fatalf("unexpected draft error %q", view.DraftError())
	}
	if len(backend.Calls()) != 0 {
		t.Fatalf("validation failure reached backend")
	}

	backend.Fail(http.MethodPost, "/projects/123/bom", http.StatusConflict, "part already on BOM")
	_ = view.SetDraft("quantity", "1")
	if _, err := view.SubmitAdd(ctx); err == nil {
		t.Fatalf("expected POST failure")
	}
	if !view.DraftOpen() || view.DraftError() != "part already on BOM" {
		t.Fatalf("expected open draft with server message, got %v %q", view.DraftOpen(), view.DraftError())
	}
	if !view.Empty() {
		t.Fatalf("failed add appended a row")
	}

	view.CancelAdd()
	if view.DraftOpen() {
		t.Fatalf("expected draft closed after cancel")
	}
	if _, err := view.SubmitAdd(ctx); !errors.Is(err, form.ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft, got %v", err)
	}
}

func TestInlineView_RowEditPatchesOneRow(t *testing.T) {
	client, backend := setup(t)
	backend.Seed("/projects/123/bom", testsupport.Rows(bomItems())...)
	view := form.NewInlineView(client, "/projects/123/bom", bomSchema, bomItems())

	if err := view.EditRow(ctx, "2", "quantity", "7"); err != nil {
		t.Fatalf("edit row: %v", err)
	}
	calls := backend.CallsTo(http.MethodPatch, "/projects/123/bom/2")
	if len(calls) != 1 {
		t.Fatalf("expected one PATCH, got %d", len(calls))
	}
	if diff := cmp.Diff(map[string]any{"quantity": float64(7)}, calls[0].JSON()); diff != "" {
		t.Fatalf("patch body mismatch (-want +got):\n%s", diff)
	}
	if got := view.Items()[1]["quantity"]; got != int64(7) {
		t.Fatalf("row not updated: %#v", got)
	}

	backend.Fail(http.MethodPatch, "/projects/123/bom/1", http.StatusInternalServerError, "boom")
	if err := view.EditRow(ctx, "1", "quantity", "8"); err == nil {
		t.Fatalf("expected row failure")
	}
	failed, _ := view.RowField("1", "quantity")
	other, _ := view.RowField("2", "quantity")
	if failed.State() != field.StateError || other.State() == field.StateError {
		t.Fatalf("row isolation broken: %s / %s", failed.State(), other.State())
	}
}

func TestPathColumn(t *testing.T) {
	col := form.PathColumn("part.name", "Part")
	item := form.Record{"id": "1", "part": map[string]any{"name": "10k resistor"}}
	if got := col.Render(item); got != "10k resistor" {
		t.Fatalf("expected nested value, got %q", got)
	}
	if got := col.Render(form.Record{"id": "2"}); got != "" {
		t.Fatalf("expected empty for missing path, got %q", got)
	}
	if form.Record(map[string]any{"id": float64(7)}).ID() != "7" {
		t.Fatalf("expected numeric id rendered without decimals")
	}
}
