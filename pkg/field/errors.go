package field

import "errors"

var (
	// ErrReadonly is returned when a gesture targets a readonly field.
	ErrReadonly = errors.New("field: readonly")
	// ErrNotEditing is returned when a gesture requires an open edit buffer.
	ErrNotEditing = errors.New("field: not editing")
	// ErrNotSaving is returned when the owner resolves a save that is not in
	// flight.
	ErrNotSaving = errors.New("field: not saving")
	// ErrInvalidState is returned by SetState for unknown states.
	ErrInvalidState = errors.New("field: invalid state")
)
