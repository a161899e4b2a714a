package field

import "context"

// State is the edit lifecycle position of a Field.
type State string

const (
	StateIdle    State = "idle"
	StateEditing State = "editing"
	StateSaving  State = "saving"
	StateSuccess State = "success"
	StateError   State = "error"
)

func (s State) String() string {
	return string(s)
}

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	switch s {
	case StateIdle, StateEditing, StateSaving, StateSuccess, StateError:
		return true
	}
	return false
}

// Editable reports whether the edit buffer is live in s.
func (s State) Editable() bool {
	return s == StateEditing || s == StateError
}

// EventKind names the notifications a Field emits.
type EventKind string

const (
	EventFocus  EventKind = "focus"
	EventSave   EventKind = "save"
	EventCancel EventKind = "cancel"
)

// Event is delivered to the owner of a Field. Value is set for save events.
type Event struct {
	Kind  EventKind
	Key   string
	Value any
}

// EventHandler receives field events. Its error is returned from the
// gesture that produced the event.
type EventHandler func(ctx context.Context, ev Event) error

// Key is a keyboard signal understood by Press.
type Key string

const (
	KeyEnter  Key = "enter"
	KeyEscape Key = "escape"
)
