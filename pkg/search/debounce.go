package search

import (
	"context"
	"sync"
	"time"
)

// DefaultDelay is the quiet period Debounced waits for.
const DefaultDelay = 300 * time.Millisecond

// AfterFunc schedules f after d and returns a function that cancels it.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

func timeAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// DebounceOption configures a Debounced searcher.
type DebounceOption func(*Debounced)

// WithDelay sets the quiet period.
func WithDelay(d time.Duration) DebounceOption {
	return func(db *Debounced) {
		if d > 0 {
			db.delay = d
		}
	}
}

// WithAfterFunc replaces the timer source.
func WithAfterFunc(fn AfterFunc) DebounceOption {
	return func(db *Debounced) {
		if fn != nil {
			db.after = fn
		}
	}
}

// WithDone registers a callback receiving the result of each search the
// debouncer actually runs.
func WithDone(fn func(error)) DebounceOption {
	return func(db *Debounced) {
		db.done = fn
	}
}

// Debounced delays searches until input has been quiet for the configured
// delay, so only the last keystroke of a burst reaches the backend.
type Debounced struct {
	searcher *Searcher
	delay    time.Duration
	after    AfterFunc
	done     func(error)

	mu   sync.Mutex
	stop func() bool
}

// NewDebounced wraps searcher.
func NewDebounced(searcher *Searcher, options ...DebounceOption) *Debounced {
	db := &Debounced{
		searcher: searcher,
		delay:    DefaultDelay,
		after:    timeAfterFunc,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(db)
	}
	return db
}

// Input schedules a search for query, replacing any pending one.
func (db *Debounced) Input(ctx context.Context, query, kind string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.stop != nil {
		db.stop()
	}
	db.stop = db.after(db.delay, func() {
		err := db.searcher.Search(ctx, query, kind)
		if db.done != nil {
			db.done(err)
		}
	})
}

// Cancel drops a pending search.
func (db *Debounced) Cancel() {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.stop != nil {
		db.stop()
		db.stop = nil
	}
}

// Searcher returns the wrapped searcher.
func (db *Debounced) Searcher() *Searcher {
	return db.searcher
}
