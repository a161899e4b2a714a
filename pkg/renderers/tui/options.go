package tui

import (
	"io"

	"github.com/goliatone/go-makerdb/pkg/search"
)

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver replaces the interactive survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithOutput sets where the survey driver prints messages.
func WithOutput(out io.Writer) Option {
	return func(s *Session) {
		s.out = out
	}
}

// WithSearcher enables remote lookup for search fields.
func WithSearcher(searcher *search.Searcher) Option {
	return func(s *Session) {
		s.searcher = searcher
	}
}

// WithStyles overrides the summary and badge styles.
func WithStyles(styles Styles) Option {
	return func(s *Session) {
		s.styles = styles
	}
}
