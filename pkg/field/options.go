package field

import "time"

// DefaultDisplayDelay is how long the success state is shown.
const DefaultDisplayDelay = 2 * time.Second

// AfterFunc schedules f after d and returns a function that cancels it.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

func timeAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Option configures a Field.
type Option func(*Field)

// WithValue sets the initial committed value.
func WithValue(value any) Option {
	return func(f *Field) {
		f.value = value
	}
}

// WithHandler registers the owner's event handler.
func WithHandler(handler EventHandler) Option {
	return func(f *Field) {
		f.handler = handler
	}
}

// WithReadonly disables editing regardless of the schema.
func WithReadonly(readonly bool) Option {
	return func(f *Field) {
		f.readonly = readonly
	}
}

// WithDisplayDelay sets how long success is shown before reverting to idle.
func WithDisplayDelay(d time.Duration) Option {
	return func(f *Field) {
		if d > 0 {
			f.delay = d
		}
	}
}

// WithAfterFunc replaces the timer used for the success revert.
func WithAfterFunc(fn AfterFunc) Option {
	return func(f *Field) {
		if fn != nil {
			f.after = fn
		}
	}
}

// WithDisplay configures idle text rendering.
func WithDisplay(d Display) Option {
	return func(f *Field) {
		f.display = d
	}
}
