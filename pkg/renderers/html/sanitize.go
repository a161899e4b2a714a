package html

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicy      *bluemonday.Policy
	textPolicyOnce  sync.Once
	componentPolicy *bluemonday.Policy
	componentOnce   sync.Once
)

// sanitizeText strips all markup from user text and keeps its line breaks.
func sanitizeText(text string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	clean := textPolicy.Sanitize(text)
	return strings.ReplaceAll(clean, "\n", "<br>\n")
}

// sanitizeComponent keeps the formatting and link markup a component may
// produce and drops scripts, handlers and styles.
func sanitizeComponent(markup string) string {
	componentOnce.Do(func() {
		componentPolicy = bluemonday.UGCPolicy()
		componentPolicy.AllowAttrs("class").Globally()
		componentPolicy.AllowAttrs("data-value", "data-state").Globally()
	})
	return componentPolicy.Sanitize(markup)
}
