package form

import (
	"context"

	"github.com/goliatone/go-makerdb/pkg/field"
)

// Persister issues the REST calls views need. *apiclient.Client satisfies
// it.
type Persister interface {
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// SaveMode selects how a committed field is sent.
type SaveMode string

const (
	// SaveModePatch sends only the changed key.
	SaveModePatch SaveMode = "patch"
	// SaveModePut sends the whole record.
	SaveModePut SaveMode = "put"
)

// Layout selects how fields are packed into rows.
type Layout string

const (
	LayoutSingle    Layout = "single"
	LayoutTwoColumn Layout = "two-column"
)

// Observer is notified after every field event a view has handled.
type Observer func(ev field.Event, state field.State)

// Option configures View and TabsView.
type Option func(*View)

// WithEndpoint sets the collection route and the record id. An empty id
// targets the endpoint itself.
func WithEndpoint(endpoint, entityID string) Option {
	return func(v *View) {
		v.endpoint = endpoint
		v.entityID = entityID
	}
}

// WithSaveMode selects patch (default) or put.
func WithSaveMode(mode SaveMode) Option {
	return func(v *View) {
		if mode == SaveModePut || mode == SaveModePatch {
			v.mode = mode
		}
	}
}

// WithLayout selects single (default) or two-column.
func WithLayout(layout Layout) Option {
	return func(v *View) {
		if layout == LayoutSingle || layout == LayoutTwoColumn {
			v.layout = layout
		}
	}
}

// WithReadonly disables editing on every field.
func WithReadonly(readonly bool) Option {
	return func(v *View) {
		v.readonly = readonly
	}
}

// WithFieldOptions forwards options (display delay, timers, display
// collaborators) to every field the view creates.
func WithFieldOptions(opts ...field.Option) Option {
	return func(v *View) {
		v.fieldOpts = append(v.fieldOpts, opts...)
	}
}

// WithObserver registers a callback for handled field events.
func WithObserver(fn Observer) Option {
	return func(v *View) {
		v.observer = fn
	}
}
