package html

import (
	"strings"
)

func missingDefault(_, _, fallback string, _ error) string {
	return fallback
}

// translate resolves key in the renderer's locale, falling back through the
// missing-translation handler.
func (r *Renderer) translate(key, fallback string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	t := r.display.Translator
	if t == nil {
		return fallback
	}
	msg, err := t.Translate(r.display.Locale, key)
	if err != nil || strings.TrimSpace(msg) == "" {
		return r.onMissing(r.display.Locale, key, fallback, err)
	}
	return msg
}

// templateFuncs exposes translate(key, fallback) and current_locale() to
// templates.
func (r *Renderer) templateFuncs() map[string]any {
	return map[string]any{
		"translate": func(key, fallback string) string {
			return r.translate(key, fallback)
		},
		"current_locale": func() string {
			return r.display.Locale
		},
	}
}
