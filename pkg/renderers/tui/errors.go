package tui

import "errors"

var (
	// ErrAborted signals the user interrupted a prompt (Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoResults is returned when a search prompt found nothing to pick.
	ErrNoResults = errors.New("tui: no search results")
)
