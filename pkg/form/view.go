package form

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-makerdb/pkg/apiclient"
	"github.com/goliatone/go-makerdb/pkg/field"
	"github.com/goliatone/go-makerdb/pkg/schema"
)

// View edits one record. Each schema entry gets a field.Field whose save
// event is persisted through the Persister.
type View struct {
	client    Persister
	endpoint  string
	entityID  string
	mode      SaveMode
	layout    Layout
	readonly  bool
	fieldOpts []field.Option
	observer  Observer

	defs   []schema.Field
	fields map[string]*field.Field

	mu     sync.Mutex
	record Record
}

// NewView builds a view over record. The record is copied; read it back
// with Record.
func NewView(client Persister, defs []schema.Field, record Record, opts ...Option) (*View, error) {
	v := &View{
		client: client,
		mode:   SaveModePatch,
		layout: LayoutSingle,
		record: record.Clone(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(v)
	}
	if err := v.bind(defs); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *View) bind(defs []schema.Field) error {
	v.defs = append([]schema.Field(nil), defs...)
	v.fields = make(map[string]*field.Field, len(defs))
	for _, def := range v.defs {
		if def.Key == "" {
			return fmt.Errorf("form: field with empty key")
		}
		if _, dup := v.fields[def.Key]; dup {
			return fmt.Errorf("form: duplicate field %q", def.Key)
		}
		opts := append([]field.Option{
			field.WithValue(v.record[def.Key]),
			field.WithReadonly(v.readonly),
			field.WithHandler(v.handle),
		}, v.fieldOpts...)
		v.fields[def.Key] = field.New(def, opts...)
	}
	return nil
}

// Schema returns the field definitions in order.
func (v *View) Schema() []schema.Field {
	return append([]schema.Field(nil), v.defs...)
}

// Field returns the field bound to key.
func (v *View) Field(key string) (*field.Field, error) {
	f, ok := v.fields[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	return f, nil
}

// Record returns a copy of the current record, including optimistic
// values of saves in flight or failed.
func (v *View) Record() Record {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.record.Clone()
}

// Readonly reports whether editing is disabled for the whole view.
func (v *View) Readonly() bool {
	return v.readonly
}

// Layout returns the configured layout.
func (v *View) Layout() Layout {
	return v.layout
}

// SaveMode returns the configured save mode.
func (v *View) SaveMode() SaveMode {
	return v.mode
}

// Path returns the route saves are sent to.
func (v *View) Path() string {
	if v.entityID == "" {
		return v.endpoint
	}
	return apiclient.Item(v.endpoint, v.entityID)
}

// Rows packs the schema according to the layout.
func (v *View) Rows() []Row {
	return Pack(v.defs, v.layout)
}

// States returns the current state of every field.
func (v *View) States() map[string]field.State {
	out := make(map[string]field.State, len(v.fields))
	for key, f := range v.fields {
		out[key] = f.State()
	}
	return out
}

// Edit is a convenience for non-interactive callers: it activates key,
// feeds raw through the field's input coercion and commits.
func (v *View) Edit(ctx context.Context, key, raw string) error {
	f, err := v.Field(key)
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

// Reload replaces the record and resets every field to idle.
func (v *View) Reload(record Record) {
	v.mu.Lock()
	v.record = record.Clone()
	v.mu.Unlock()
	for key, f := range v.fields {
		f.Reset(record[key])
	}
}

func (v *View) handle(ctx context.Context, ev field.Event) error {
	f := v.fields[ev.Key]
	var err error
	switch ev.Kind {
	case field.EventSave:
		err = v.save(ctx, f, ev.Key, ev.Value)
	case field.EventCancel:
		v.mu.Lock()
		v.record[ev.Key] = f.Value()
		v.mu.Unlock()
	}
	if v.observer != nil {
		v.observer(ev, f.State())
	}
	return err
}

func (v *View) save(ctx context.Context, f *field.Field, key string, value any) error {
	v.mu.Lock()
	v.record[key] = value
	full := v.record.Clone()
	v.mu.Unlock()

	var err error
	path := v.Path()
	if v.client == nil {
		err = fmt.Errorf("form: no client configured")
	} else if v.mode == SaveModePut {
		err = v.client.Put(ctx, path, full, nil)
	} else {
		err = v.client.Patch(ctx, path, map[string]any{key: value}, nil)
	}

	if err != nil {
		_ = f.Fail(messageFor(key, err))
		return wrap("save", key, err)
	}
	return f.Succeed()
}
