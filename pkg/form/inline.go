package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-makerdb/pkg/apiclient"
	"github.com/goliatone/go-makerdb/pkg/field"
	"github.com/goliatone/go-makerdb/pkg/schema"
)

const (
	DefaultAddLabel     = "Add Item"
	DefaultDraftTitle   = "Add New Item"
	DefaultEmptyMessage = "No items"
	DeletePrompt        = "Are you sure you want to delete this item?"
)

// Column is a read-only column shown before the schema columns.
type Column struct {
	Key    string
	Label  string
	Render func(item Record) string
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

// Confirm implements Confirmer.
func (fn ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return fn(ctx, message)
}

// Controls reports which affordances a renderer should show.
type Controls struct {
	Add    bool
	Edit   bool
	Delete bool
}

// InlineOption configures an InlineView.
type InlineOption func(*InlineView)

// WithTitle sets the section title.
func WithTitle(title string) InlineOption {
	return func(v *InlineView) { v.title = title }
}

// WithAddLabel overrides the add button label.
func WithAddLabel(label string) InlineOption {
	return func(v *InlineView) {
		if label != "" {
			v.addLabel = label
		}
	}
}

// WithEmptyMessage overrides the empty-state text.
func WithEmptyMessage(msg string) InlineOption {
	return func(v *InlineView) {
		if msg != "" {
			v.emptyMessage = msg
		}
	}
}

// WithColumns sets the read-only display columns.
func WithColumns(cols ...Column) InlineOption {
	return func(v *InlineView) { v.columns = append(v.columns, cols...) }
}

// WithPermissions toggles add/inline edit and delete.
func WithPermissions(canEdit, canDelete bool) InlineOption {
	return func(v *InlineView) {
		v.canEdit = canEdit
		v.canDelete = canDelete
	}
}

// WithConfirmer sets the delete confirmation prompt. Delete refuses to run
// without one.
func WithConfirmer(c Confirmer) InlineOption {
	return func(v *InlineView) { v.confirmer = c }
}

// WithInlineFieldOptions forwards options to every row and draft field.
func WithInlineFieldOptions(opts ...field.Option) InlineOption {
	return func(v *InlineView) { v.fieldOpts = append(v.fieldOpts, opts...) }
}

// InlineView manages a list of child records sharing one item schema.
type InlineView struct {
	client       Persister
	baseEndpoint string
	defs         []schema.Field
	columns      []Column
	title        string
	addLabel     string
	emptyMessage string
	canEdit      bool
	canDelete    bool
	confirmer    Confirmer
	fieldOpts    []field.Option

	mu       sync.Mutex
	items    []Record
	rows     map[string]map[string]*field.Field
	loading  bool
	draft    map[string]*field.Field
	draftErr string
}

// NewInlineView builds a list editor over items rooted at baseEndpoint
// (e.g. "/projects/{id}/bom").
func NewInlineView(client Persister, baseEndpoint string, defs []schema.Field, items []Record, opts ...InlineOption) *InlineView {
	v := &InlineView{
		client:       client,
		baseEndpoint: baseEndpoint,
		defs:         append([]schema.Field(nil), defs...),
		addLabel:     DefaultAddLabel,
		emptyMessage: DefaultEmptyMessage,
		canEdit:      true,
		canDelete:    true,
		rows:         make(map[string]map[string]*field.Field),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(v)
	}
	v.SetItems(items)
	return v
}

// Title returns the section title.
func (v *InlineView) Title() string { return v.title }

// AddLabel returns the add button label.
func (v *InlineView) AddLabel() string { return v.addLabel }

// EmptyMessage returns the text shown when the list is empty.
func (v *InlineView) EmptyMessage() string { return v.emptyMessage }

// Columns returns the read-only display columns.
func (v *InlineView) Columns() []Column { return append([]Column(nil), v.columns...) }

// Schema returns the item schema.
func (v *InlineView) Schema() []schema.Field { return append([]schema.Field(nil), v.defs...) }

// BaseEndpoint returns the collection route of the items.
func (v *InlineView) BaseEndpoint() string { return v.baseEndpoint }

// Controls reports the enabled affordances.
func (v *InlineView) Controls() Controls {
	return Controls{Add: v.canEdit, Edit: v.canEdit, Delete: v.canDelete}
}

// SetLoading toggles the loading flag shown while items are fetched.
func (v *InlineView) SetLoading(loading bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = loading
}

// Loading reports the loading flag.
func (v *InlineView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// SetItems replaces the list and rebuilds row fields.
func (v *InlineView) SetItems(items []Record) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = make([]Record, 0, len(items))
	v.rows = make(map[string]map[string]*field.Field, len(items))
	for _, item := range items {
		v.appendLocked(item.Clone())
	}
}

// Items returns copies of the current records.
func (v *InlineView) Items() []Record {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Record, len(v.items))
	for i, item := range v.items {
		out[i] = item.Clone()
	}
	return out
}

// Empty reports whether the list has no records.
func (v *InlineView) Empty() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.items) == 0
}

// RowField returns the inline field for column key of row id. Rows without
// an id have no fields.
func (v *InlineView) RowField(id, key string) (*field.Field, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	row, ok := v.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	f, ok := row[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	return f, nil
}

// EditRow activates, fills and commits one row field.
func (v *InlineView) EditRow(ctx context.Context, id, key, raw string) error {
	f, err := v.RowField(id, key)
	if err != nil {
		return err
	}
	if err := f.Activate(ctx); err != nil {
		return err
	}
	if err := f.Input(raw); err != nil {
		return err
	}
	return f.Confirm(ctx)
}

// appendLocked adds item to the list. Only the first row with a given id
// gets editable fields, since edits and deletes are addressed by id.
func (v *InlineView) appendLocked(item Record) {
	v.items = append(v.items, item)
	id := item.ID()
	if _, dup := v.rows[id]; dup || id == "" {
		return
	}
	row := make(map[string]*field.Field, len(v.defs))
	for _, def := range v.defs {
		key := def.Key
		opts := append([]field.Option{
			field.WithValue(item[key]),
			field.WithReadonly(!v.canEdit),
			field.WithHandler(func(ctx context.Context, ev field.Event) error {
				return v.handleRow(ctx, id, ev)
			}),
		}, v.fieldOpts...)
		row[key] = field.New(def, opts...)
	}
	v.rows[id] = row
}

func (v *InlineView) handleRow(ctx context.Context, id string, ev field.Event) error {
	if ev.Kind != field.EventSave {
		return nil
	}
	if id == "" {
		return ErrMissingID
	}
	f, err := v.RowField(id, ev.Key)
	if err != nil {
		return err
	}
	body := map[string]any{ev.Key: ev.Value}
	if err := v.client.Patch(ctx, apiclient.Item(v.baseEndpoint, id), body, nil); err != nil {
		_ = f.Fail(messageFor(ev.Key, err))
		return wrap("update row", id, err)
	}

	v.mu.Lock()
	if pos := v.indexLocked(id); pos >= 0 {
		v.items[pos][ev.Key] = ev.Value
	}
	v.mu.Unlock()
	return f.Succeed()
}

// OpenAdd opens a blank draft whose fields are all editing.
func (v *InlineView) OpenAdd(ctx context.Context) error {
	if !v.canEdit {
		return ErrNotPermitted
	}
	draft := make(map[string]*field.Field, len(v.defs))
	for _, def := range v.defs {
		f := field.New(def, v.fieldOpts...)
		if err := f.SetState(field.StateEditing, ""); err != nil {
			return err
		}
		draft[def.Key] = f
	}
	v.mu.Lock()
	v.draft = draft
	v.draftErr = ""
	v.mu.Unlock()
	return nil
}

// DraftOpen reports whether the add draft is shown.
func (v *InlineView) DraftOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.draft != nil
}

// DraftField returns the draft field for key.
func (v *InlineView) DraftField(key string) (*field.Field, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.draft == nil {
		return nil, ErrNoDraft
	}
	f, ok := v.draft[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	return f, nil
}

// SetDraft assigns raw input to a draft field, coerced to its type.
func (v *InlineView) SetDraft(key, raw string) error {
	f, err := v.DraftField(key)
	if err != nil {
		return err
	}
	return f.Input(raw)
}

// SetDraftValue assigns an already typed value to a draft field.
func (v *InlineView) SetDraftValue(key string, value any) error {
	f, err := v.DraftField(key)
	if err != nil {
		return err
	}
	return f.SetBuffer(value)
}

// DraftError returns the message of the last failed submit.
func (v *InlineView) DraftError() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.draftErr
}

// CancelAdd discards the draft.
func (v *InlineView) CancelAdd() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft = nil
	v.draftErr = ""
}

// SubmitAdd validates the draft, POSTs it to the base endpoint and appends
// the created record, which must carry an id. On failure the draft stays
// open with the error.
func (v *InlineView) SubmitAdd(ctx context.Context) (Record, error) {
	v.mu.Lock()
	draft := v.draft
	v.mu.Unlock()
	if draft == nil {
		return nil, ErrNoDraft
	}

	body := make(Record, len(v.defs))
	for _, def := range v.defs {
		f := draft[def.Key]
		if invalid := f.ValidationError(); invalid != nil {
			return nil, v.failDraft(invalid)
		}
		value := f.Buffer()
		if err := schema.Validate(def, value); err != nil {
			return nil, v.failDraft(err)
		}
		if !schema.IsEmpty(value) {
			body[def.Key] = value
		}
	}

	var created Record
	if err := v.client.Post(ctx, apiclient.Collection(v.baseEndpoint), body, &created); err != nil {
		msg := err.Error()
		var statusErr *apiclient.StatusError
		if errors.As(err, &statusErr) && statusErr.Message != "" {
			msg = statusErr.Message
		}
		v.mu.Lock()
		v.draftErr = msg
		v.mu.Unlock()
		return nil, wrap("add", v.baseEndpoint, err)
	}
	if created.ID() == "" {
		v.mu.Lock()
		v.draftErr = "Created item has no id; reload the list"
		v.mu.Unlock()
		return nil, wrap("add", v.baseEndpoint, ErrMissingID)
	}

	v.mu.Lock()
	v.appendLocked(created.Clone())
	v.draft = nil
	v.draftErr = ""
	v.mu.Unlock()
	return created, nil
}

func (v *InlineView) failDraft(err error) error {
	var verr *schema.ValidationError
	msg := err.Error()
	if errors.As(err, &verr) {
		if def, ok := schema.Lookup(v.defs, verr.Key); ok {
			msg = def.DisplayLabel() + ": " + msg
		}
	}
	v.mu.Lock()
	v.draftErr = msg
	v.mu.Unlock()
	return err
}

// Delete asks for confirmation and removes row id. A declined prompt
// issues no request and returns (false, nil).
func (v *InlineView) Delete(ctx context.Context, id string) (bool, error) {
	if !v.canDelete {
		return false, ErrNotPermitted
	}
	if v.confirmer == nil {
		return false, ErrNoConfirmer
	}
	if id == "" {
		return false, ErrMissingID
	}
	v.mu.Lock()
	known := v.indexLocked(id) >= 0
	v.mu.Unlock()
	if !known {
		return false, fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}

	ok, err := v.confirmer.Confirm(ctx, DeletePrompt)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if err := v.client.Delete(ctx, apiclient.Item(v.baseEndpoint, id)); err != nil {
		return false, wrap("delete", id, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if pos := v.indexLocked(id); pos >= 0 {
		v.items = append(v.items[:pos:pos], v.items[pos+1:]...)
	}
	delete(v.rows, id)
	return true, nil
}

func (v *InlineView) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range v.items {
		if item.ID() == id {
			return i
		}
	}
	return -1
}
