package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-makerdb/pkg/apiclient"
)

var (
	// ErrUnknownField is returned when a key is not part of the schema.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrUnknownTab is returned when activating a tab that does not exist.
	ErrUnknownTab = errors.New("form: unknown tab")
	// ErrUnknownItem is returned when an inline row id is not in the list.
	ErrUnknownItem = errors.New("form: unknown item")
	// ErrNotPermitted is returned when an inline action is disabled.
	ErrNotPermitted = errors.New("form: action not permitted")
	// ErrNoDraft is returned when no add draft is open.
	ErrNoDraft = errors.New("form: no draft open")
	// ErrNoConfirmer is returned by deletes on a view built without a
	// Confirmer.
	ErrNoConfirmer = errors.New("form: delete requires a confirmer")
	// ErrMissingID is returned for rows the server gave no id.
	ErrMissingID = errors.New("form: record has no id")
)

// messageFor picks the text shown next to field key for a failed request:
// validation messages attached to the key win over the overall message.
func messageFor(key string, err error) string {
	var statusErr *apiclient.StatusError
	if errors.As(err, &statusErr) {
		if msgs := statusErr.FieldErrors(key); len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
		if statusErr.Message != "" {
			return statusErr.Message
		}
	}
	return err.Error()
}

func wrap(op, key string, err error) error {
	return fmt.Errorf("form: %s %s: %w", op, key, err)
}
