package field

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-makerdb/pkg/schema"
)

// Field is the edit lifecycle of one schema entry. It is safe for
// concurrent use; the event handler is never called with the lock held.
type Field struct {
	schema schema.Field

	handler  EventHandler
	readonly bool
	delay    time.Duration
	after    AfterFunc
	display  Display

	mu         sync.Mutex
	state      State
	value      any
	buffer     any
	text       string
	invalid    error
	message    string
	stopRevert func() bool
	generation uint64
}

// Snapshot is a consistent read of a Field for renderers.
type Snapshot struct {
	Key        string
	State      State
	Value      any
	Buffer     any
	Text       string
	Display    string
	Message    string
	Validation string
	Readonly   bool
}

// New constructs an idle Field for def.
func New(def schema.Field, options ...Option) *Field {
	f := &Field{
		schema: def,
		state:  StateIdle,
		delay:  DefaultDisplayDelay,
		after:  timeAfterFunc,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// Schema returns the field definition.
func (f *Field) Schema() schema.Field {
	return f.schema
}

// Key returns the schema key.
func (f *Field) Key() string {
	return f.schema.Key
}

// Readonly reports whether gestures are suppressed, either globally or by
// the schema.
func (f *Field) Readonly() bool {
	return f.readonly || f.schema.Readonly
}

// State returns the current lifecycle state.
func (f *Field) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Value returns the last committed value.
func (f *Field) Value() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Buffer returns the candidate value while editing, otherwise the committed
// value.
func (f *Field) Buffer() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateIdle || f.state == StateSuccess {
		return f.value
	}
	return f.buffer
}

// Message returns the error message set by the owner.
func (f *Field) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// ValidationError returns the local validation failure, if any.
func (f *Field) ValidationError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invalid
}

// Snapshot returns the current state in one read.
func (f *Field) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := Snapshot{
		Key:      f.schema.Key,
		State:    f.state,
		Value:    f.value,
		Buffer:   f.value,
		Display:  f.display.Text(f.schema, f.value),
		Message:  f.message,
		Readonly: f.Readonly(),
	}
	if f.state.Editable() || f.state == StateSaving {
		snap.Buffer = f.buffer
		snap.Text = f.text
	}
	if f.invalid != nil {
		snap.Validation = f.invalid.Error()
	}
	return snap
}

// Display returns the idle text of the committed value.
func (f *Field) Display() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.display.Text(f.schema, f.value)
}

// Activate opens the edit buffer. Readonly fields stay idle and emit
// nothing. Activating an open buffer is a no-op.
func (f *Field) Activate(ctx context.Context) error {
	if f.Readonly() {
		return ErrReadonly
	}
	f.mu.Lock()
	switch f.state {
	case StateIdle, StateSuccess:
	default:
		f.mu.Unlock()
		return nil
	}
	f.cancelRevertLocked()
	f.state = StateEditing
	f.buffer = f.value
	f.text = EditText(f.schema, f.value)
	f.invalid = nil
	f.message = ""
	f.mu.Unlock()

	return f.emit(ctx, Event{Kind: EventFocus, Key: f.schema.Key})
}

// Input replaces the edit buffer with raw text, coerced to the field type.
// Coercion failures are recorded as validation errors and block the next
// commit.
func (f *Field) Input(raw string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.state.Editable() {
		return ErrNotEditing
	}
	f.text = raw
	value, err := schema.ParseInput(f.schema, raw)
	if err != nil {
		f.invalid = &schema.ValidationError{Key: f.schema.Key, Err: err}
		return nil
	}
	f.buffer = value
	f.invalid = nil
	return nil
}

// SetBuffer assigns an already typed candidate value, as produced by a
// toggle, a token editor or a search selection.
func (f *Field) SetBuffer(value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.state.Editable() {
		return ErrNotEditing
	}
	f.setBufferLocked(value)
	return nil
}

func (f *Field) setBufferLocked(value any) {
	f.buffer = value
	f.text = EditText(f.schema, value)
	f.invalid = nil
}

// Toggle flips a checkbox buffer.
func (f *Field) Toggle() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.state.Editable() {
		return ErrNotEditing
	}
	f.setBufferLocked(!truthy(f.buffer))
	return nil
}

// Press handles a key signal. Enter commits every type except textarea,
// where it inserts a line break; Escape cancels.
func (f *Field) Press(ctx context.Context, key Key) error {
	switch key {
	case KeyEscape:
		return f.Cancel(ctx)
	case KeyEnter:
		if f.schema.Type.Multiline() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if !f.state.Editable() {
				return ErrNotEditing
			}
			f.text += "\n"
			f.buffer = f.text
			return nil
		}
		return f.Confirm(ctx)
	}
	return fmt.Errorf("field: unsupported key %q", key)
}

// Confirm validates the buffer and, when valid, moves to saving and emits
// save. It also retries a failed save. A validation failure keeps the field
// editing and is returned as a *schema.ValidationError.
func (f *Field) Confirm(ctx context.Context) error {
	f.mu.Lock()
	if !f.state.Editable() {
		f.mu.Unlock()
		return ErrNotEditing
	}
	if f.invalid != nil {
		err := f.invalid
		f.state = StateEditing
		f.mu.Unlock()
		return err
	}
	if err := schema.Validate(f.schema, f.buffer); err != nil {
		f.invalid = err
		f.state = StateEditing
		f.mu.Unlock()
		return err
	}
	f.state = StateSaving
	f.message = ""
	f.generation++
	gen := f.generation
	value := f.buffer
	f.mu.Unlock()

	if f.handler == nil {
		f.resolve(gen, nil)
		return nil
	}
	err := f.handler(ctx, Event{Kind: EventSave, Key: f.schema.Key, Value: value})
	if err != nil {
		f.resolve(gen, err)
	}
	return err
}

// Cancel discards the buffer and reverts to the committed value, from
// editing or error.
func (f *Field) Cancel(ctx context.Context) error {
	f.mu.Lock()
	if !f.state.Editable() {
		f.mu.Unlock()
		return ErrNotEditing
	}
	f.state = StateIdle
	f.buffer = f.value
	f.text = ""
	f.invalid = nil
	f.message = ""
	f.mu.Unlock()

	return f.emit(ctx, Event{Kind: EventCancel, Key: f.schema.Key})
}

// Succeed resolves an in-flight save: the buffer becomes the committed
// value and the field shows success until the display delay elapses.
func (f *Field) Succeed() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateSaving {
		return ErrNotSaving
	}
	f.succeedLocked()
	return nil
}

// Fail resolves an in-flight save with an error message. The buffer is
// kept for a retry.
func (f *Field) Fail(message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateSaving {
		return ErrNotSaving
	}
	f.state = StateError
	f.message = message
	return nil
}

// SetState forces a state chosen by the owner. Entering success commits the
// buffer and schedules the revert; entering idle discards the buffer.
func (f *Field) SetState(state State, message string) error {
	if !state.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidState, state)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	switch state {
	case StateSuccess:
		f.succeedLocked()
		return nil
	case StateIdle:
		f.cancelRevertLocked()
		f.buffer = f.value
		f.text = ""
		f.invalid = nil
		f.message = ""
	case StateEditing:
		f.cancelRevertLocked()
		if !f.state.Editable() && f.state != StateSaving {
			f.buffer = f.value
			f.text = EditText(f.schema, f.value)
		}
	case StateError:
		f.message = message
	}
	f.state = state
	return nil
}

// Reset replaces the committed value, e.g. after the record was reloaded.
// An open buffer is discarded.
func (f *Field) Reset(value any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelRevertLocked()
	f.value = value
	f.buffer = value
	f.text = ""
	f.invalid = nil
	f.message = ""
	f.state = StateIdle
}

func (f *Field) succeedLocked() {
	f.value = f.buffer
	f.state = StateSuccess
	f.message = ""
	f.invalid = nil
	f.cancelRevertLocked()
	gen := f.generation
	f.stopRevert = f.after(f.delay, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.state == StateSuccess && f.generation == gen {
			f.state = StateIdle
			f.text = ""
			f.stopRevert = nil
		}
	})
}

func (f *Field) resolve(gen uint64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateSaving || f.generation != gen {
		return
	}
	if err == nil {
		f.succeedLocked()
		return
	}
	f.state = StateError
	f.message = err.Error()
}

func (f *Field) cancelRevertLocked() {
	if f.stopRevert != nil {
		f.stopRevert()
		f.stopRevert = nil
	}
}

func (f *Field) emit(ctx context.Context, ev Event) error {
	if f.handler == nil {
		return nil
	}
	return f.handler(ctx, ev)
}
