package html

import (
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-makerdb/pkg/field"
	rendertemplate "github.com/goliatone/go-makerdb/pkg/render/template"
	"github.com/goliatone/go-makerdb/pkg/renderers/html/components"
)

// Option configures a Renderer.
type Option func(*Renderer)

// MissingTranslation returns the text used when a key cannot be translated.
type MissingTranslation func(locale, key, fallback string, err error) string

// WithTemplateDir layers templates from dir over the built-in set.
func WithTemplateDir(dir string) Option {
	return func(r *Renderer) {
		r.templateDir = strings.TrimSpace(dir)
	}
}

// WithTemplateRenderer replaces the template engine entirely.
func WithTemplateRenderer(engine rendertemplate.TemplateRenderer) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithComponents sets the registry used for custom fields.
func WithComponents(registry *components.Registry) Option {
	return func(r *Renderer) {
		if registry != nil {
			r.components = registry
		}
	}
}

// WithTranslator localises labels and the checkbox Yes/No text.
func WithTranslator(t field.Translator, locale string) Option {
	return func(r *Renderer) {
		r.display.Translator = t
		r.display.Locale = locale
	}
}

// WithMissingTranslation overrides the fallback used for untranslated keys.
func WithMissingTranslation(fn MissingTranslation) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.onMissing = fn
		}
	}
}

// WithFieldRenderers registers idle-text renderers for custom components
// that have no HTML component.
func WithFieldRenderers(renderers map[string]field.Renderer) Option {
	return func(r *Renderer) {
		if r.display.Renderers == nil {
			r.display.Renderers = make(map[string]field.Renderer, len(renderers))
		}
		for name, fn := range renderers {
			r.display.Renderers[name] = fn
		}
	}
}

// WithTheme selects a theme and variant once, at construction.
func WithTheme(selector theme.ThemeSelector, name, variant string) Option {
	return func(r *Renderer) {
		r.selector = selector
		r.themeName = name
		r.themeVariant = variant
	}
}

// WithThemeFallbacks overrides the partial templates used when the theme
// does not provide one.
func WithThemeFallbacks(partials map[string]string) Option {
	return func(r *Renderer) {
		for key, value := range partials {
			r.fallbacks[key] = value
		}
	}
}
