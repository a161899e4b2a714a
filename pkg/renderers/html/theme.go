package html

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-makerdb/pkg/renderers/html/components"
)

// Partial keys resolved through the theme.
const (
	PartialPage   = "makerdb.page"
	PartialView   = "makerdb.view"
	PartialTabs   = "makerdb.tabs"
	PartialInline = "makerdb.inline"

	// AssetStylesheet is the theme asset linked from rendered pages.
	AssetStylesheet = "makerdb.stylesheet"
)

// ErrUnknownTheme reports a theme or variant missing from a ThemeSelector.
var ErrUnknownTheme = errors.New("html: unknown theme")

func defaultFallbacks() map[string]string {
	return map[string]string{
		PartialPage:             "page.tmpl",
		PartialView:             "view.tmpl",
		PartialTabs:             "tabs.tmpl",
		PartialInline:           "inline.tmpl",
		components.PartialBadge: "component_badge.tmpl",
	}
}

// ThemeSelector serves manifests registered in memory. The first manifest
// registered is the default when no name is requested.
type ThemeSelector struct {
	mu        sync.RWMutex
	manifests map[string]*theme.Manifest
	fallback  string
}

var _ theme.ThemeSelector = (*ThemeSelector)(nil)

// NewThemeSelector registers manifests in order.
func NewThemeSelector(manifests ...*theme.Manifest) (*ThemeSelector, error) {
	s := &ThemeSelector{manifests: make(map[string]*theme.Manifest)}
	for _, m := range manifests {
		if err := s.Register(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds or replaces a manifest.
func (s *ThemeSelector) Register(m *theme.Manifest) error {
	if m == nil || strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("html: theme manifest name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifests[m.Name] = m
	if s.fallback == "" {
		s.fallback = m.Name
	}
	return nil
}

// Select implements theme.ThemeSelector.
func (s *ThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if name = strings.TrimSpace(name); name == "" {
		name = s.fallback
	}
	m, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	if variant != "" {
		if _, ok := m.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q has no variant %q", ErrUnknownTheme, name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: m}, nil
}

// RendererConfig flattens a selection: variant tokens, templates and asset
// files override the manifest's, and the manifest's templates override
// fallbacks. Each token also becomes a "--token" CSS variable.
func RendererConfig(sel *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Partials: maps.Clone(fallbacks),
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}
	if cfg.Partials == nil {
		cfg.Partials = map[string]string{}
	}
	if sel == nil || sel.Manifest == nil {
		cfg.AssetURL = func(string) string { return "" }
		return cfg
	}
	cfg.Theme = sel.Theme
	cfg.Variant = sel.Variant

	m := sel.Manifest
	variant := m.Variants[sel.Variant]

	maps.Copy(cfg.Tokens, m.Tokens)
	maps.Copy(cfg.Tokens, variant.Tokens)
	maps.Copy(cfg.Partials, m.Templates)
	maps.Copy(cfg.Partials, variant.Templates)
	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+key] = value
	}

	prefix := strings.TrimRight(m.Assets.Prefix, "/")
	if p := strings.TrimRight(variant.Assets.Prefix, "/"); p != "" {
		prefix = p
	}
	files := maps.Clone(m.Assets.Files)
	if files == nil {
		files = map[string]string{}
	}
	maps.Copy(files, variant.Assets.Files)
	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if strings.Contains(file, "://") || strings.HasPrefix(file, "/") || prefix == "" {
			return file
		}
		return prefix + "/" + file
	}
	return cfg
}

// cssVarsStyle renders the CSS variables as a :root rule, sorted by name.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		fmt.Fprintf(&b, "%s: %s;\n", name, vars[name])
	}
	b.WriteString("}")
	return b.String()
}
