package main

import (
	"maps"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-makerdb/pkg/renderers/html"
)

// builtinThemes returns the shipped themes with overrides applied on top of
// every variant.
func builtinThemes(overrides map[string]string) (*html.ThemeSelector, error) {
	withOverrides := func(tokens map[string]string) map[string]string {
		out := maps.Clone(tokens)
		maps.Copy(out, overrides)
		return out
	}

	workshop := &theme.Manifest{
		Name:    "default",
		Version: "1.0.0",
		Tokens: withOverrides(map[string]string{
			"font-sans":   "ui-sans-serif, system-ui, sans-serif",
			"radius":      "0.5rem",
			"primary":     "#2563eb",
			"destructive": "#dc2626",
		}),
		Variants: map[string]theme.Variant{
			"light": {Tokens: withOverrides(map[string]string{
				"background": "#ffffff",
				"foreground": "#0f172a",
				"muted":      "#64748b",
			})},
			"dark": {Tokens: withOverrides(map[string]string{
				"background": "#0f172a",
				"foreground": "#f8fafc",
				"muted":      "#94a3b8",
			})},
		},
	}
	return html.NewThemeSelector(workshop)
}
