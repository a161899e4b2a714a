package html

import (
	"context"
	"errors"
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-makerdb/pkg/field"
	"github.com/goliatone/go-makerdb/pkg/form"
	rendertemplate "github.com/goliatone/go-makerdb/pkg/render/template"
	"github.com/goliatone/go-makerdb/pkg/render/template/pongo"
	"github.com/goliatone/go-makerdb/pkg/renderers/html/components"
)

// ErrUnsupportedSection reports a page section that is not a view.
var ErrUnsupportedSection = errors.New("html: unsupported section")

// Renderer turns views into markup. It holds no per-render state and may be
// shared between goroutines.
type Renderer struct {
	engine      rendertemplate.TemplateRenderer
	templateDir string
	components  *components.Registry
	display     field.Display
	onMissing   MissingTranslation

	selector     theme.ThemeSelector
	themeName    string
	themeVariant string
	fallbacks    map[string]string
	theme        *theme.RendererConfig
}

// Page is a full document made of view sections.
type Page struct {
	Title       string
	Description string
	// Sections holds *form.View, *form.TabsView or *form.InlineView values.
	Sections []any
}

// New builds a Renderer. Without WithTemplateRenderer a pongo2 engine over
// the built-in templates is created.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		components: components.NewDefaultRegistry(),
		onMissing:  missingDefault,
		fallbacks:  defaultFallbacks(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	var sel *theme.Selection
	if r.selector != nil {
		var err error
		sel, err = r.selector.Select(r.themeName, r.themeVariant)
		if err != nil {
			return nil, fmt.Errorf("html: select theme: %w", err)
		}
	}
	r.theme = RendererConfig(sel, r.fallbacks)

	if r.engine == nil {
		opts := []pongo.Option{
			pongo.WithFS(Templates()),
			pongo.WithFuncs(r.templateFuncs()),
		}
		if r.templateDir != "" {
			opts = append(opts, pongo.WithBaseDir(r.templateDir))
		}
		engine, err := pongo.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("html: template engine: %w", err)
		}
		r.engine = engine
	} else if err := r.engine.GlobalContext(r.templateFuncs()); err != nil {
		return nil, fmt.Errorf("html: template globals: %w", err)
	}
	return r, nil
}

// Theme returns the resolved theme configuration.
func (r *Renderer) Theme() *theme.RendererConfig {
	return r.theme
}

// RenderView renders a single-record form.
func (r *Renderer) RenderView(ctx context.Context, v *form.View) ([]byte, error) {
	out, err := r.section(ctx, v, &renderState{})
	return []byte(out), err
}

// RenderTabs renders a tabbed form showing the active tab.
func (r *Renderer) RenderTabs(ctx context.Context, v *form.TabsView) ([]byte, error) {
	out, err := r.section(ctx, v, &renderState{})
	return []byte(out), err
}

// RenderInline renders an inline list editor.
func (r *Renderer) RenderInline(ctx context.Context, v *form.InlineView) ([]byte, error) {
	out, err := r.section(ctx, v, &renderState{})
	return []byte(out), err
}

// RenderPage renders a complete HTML document with theme variables and the
// assets of every component used by its sections.
func (r *Renderer) RenderPage(ctx context.Context, page Page) ([]byte, error) {
	st := &renderState{}
	sections := make([]string, 0, len(page.Sections))
	for _, s := range page.Sections {
		out, err := r.section(ctx, s, st)
		if err != nil {
			return nil, err
		}
		sections = append(sections, out)
	}

	stylesheets, scripts := r.components.Assets(st.components)
	if href := r.theme.AssetURL(AssetStylesheet); href != "" {
		stylesheets = append([]string{href}, stylesheets...)
	}
	scriptData := make([]map[string]any, 0, len(scripts))
	for _, s := range scripts {
		scriptData = append(scriptData, map[string]any{
			"src": s.Src, "inline": s.Inline, "module": s.Module, "defer": s.Defer,
		})
	}

	out, err := r.engine.RenderTemplate(r.partial(PartialPage), map[string]any{
		"title":       page.Title,
		"description": page.Description,
		"locale":      r.display.Locale,
		"theme":       r.themeData(),
		"stylesheets": stylesheets,
		"scripts":     scriptData,
		"sections":    sections,
	})
	if err != nil {
		return nil, fmt.Errorf("html: render page: %w", err)
	}
	return []byte(out), nil
}

func (r *Renderer) section(ctx context.Context, s any, st *renderState) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var (
		name string
		data map[string]any
	)
	switch v := s.(type) {
	case *form.TabsView:
		fd, err := r.formData(v.View, v.Rows(), st)
		if err != nil {
			return "", err
		}
		active := v.Active().Key
		tabs := make([]tabData, 0, len(v.Tabs()))
		for _, tab := range v.Tabs() {
			label := tab.Label
			if label == "" {
				label = tab.Key
			}
			tabs = append(tabs, tabData{
				Key:    tab.Key,
				Label:  r.translate("tab."+tab.Key, label),
				Icon:   tab.Icon,
				Active: tab.Key == active,
			})
		}
		name, data = PartialTabs, map[string]any{"form": fd, "tabs": tabs, "active": active}
	case *form.View:
		fd, err := r.formData(v, v.Rows(), st)
		if err != nil {
			return "", err
		}
		name, data = PartialView, map[string]any{"form": fd}
	case *form.InlineView:
		id, err := r.inlineData(v, st)
		if err != nil {
			return "", err
		}
		name, data = PartialInline, map[string]any{"inline": id}
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedSection, s)
	}

	data["theme"] = r.themeData()
	out, err := r.engine.RenderTemplate(r.partial(name), data)
	if err != nil {
		return "", fmt.Errorf("html: render %s: %w", strings.TrimPrefix(name, "makerdb."), err)
	}
	return out, nil
}

func (r *Renderer) partial(key string) string {
	if name := strings.TrimSpace(r.theme.Partials[key]); name != "" {
		return name
	}
	return r.fallbacks[key]
}

func (r *Renderer) themeData() map[string]any {
	return map[string]any{
		"name":    r.theme.Theme,
		"variant": r.theme.Variant,
		"style":   cssVarsStyle(r.theme.CSSVars),
	}
}
