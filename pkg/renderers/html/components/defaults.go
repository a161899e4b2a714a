package components

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-makerdb/pkg/schema"
	"github.com/goliatone/go-makerdb/pkg/units"
)

// Built-in component names.
const (
	NameUnits = "units"
	NameLink  = "link"
	NameBadge = "badge"
)

// Partial keys a theme can override.
const (
	PartialBadge = "makerdb.badge"
)

const badgeTemplate = "component_badge.tmpl"

// NewDefaultRegistry returns a registry with the built-in components.
func NewDefaultRegistry() *Registry {
	registry := New()
	registry.MustRegister(NameUnits, Descriptor{Renderer: unitsRenderer})
	registry.MustRegister(NameLink, Descriptor{Renderer: linkRenderer})
	registry.MustRegister(NameBadge, Descriptor{Renderer: templateRenderer(PartialBadge, badgeTemplate)})
	return registry
}

// unitsRenderer shows a numeric value with an SI prefix and the "unit"
// prop, e.g. 4700 with unit "Ω" renders "4.7kΩ".
func unitsRenderer(buf *bytes.Buffer, _ schema.Field, value any, data ComponentData) error {
	n, ok := schema.ToFloat(value)
	if !ok {
		buf.WriteString(`<span class="text-muted-foreground">—</span>`)
		return nil
	}
	unit := propString(data.Props, "unit")
	fmt.Fprintf(buf, `<span class="font-mono">%s%s</span>`, html.EscapeString(units.Format(n)), html.EscapeString(unit))
	return nil
}

// linkRenderer links to props "href" with "{value}" substituted. The
// optional "labelKey" prop selects the label out of object values.
func linkRenderer(buf *bytes.Buffer, _ schema.Field, value any, data ComponentData) error {
	label, id := linkParts(value, propString(data.Props, "labelKey"))
	if id == "" {
		buf.WriteString(`<span class="text-muted-foreground">—</span>`)
		return nil
	}
	href := strings.ReplaceAll(propString(data.Props, "href"), "{value}", id)
	if href == "" {
		buf.WriteString(html.EscapeString(label))
		return nil
	}
	fmt.Fprintf(buf, `<a class="underline" href="%s">%s</a>`, html.EscapeString(href), html.EscapeString(label))
	return nil
}

func linkParts(value any, labelKey string) (label, id string) {
	switch v := value.(type) {
	case nil:
		return "", ""
	case map[string]any:
		if labelKey == "" {
			labelKey = "name"
		}
		id = fmt.Sprint(v["id"])
		if v["id"] == nil {
			id = ""
		}
		label = id
		if l, ok := v[labelKey]; ok && l != nil {
			label = fmt.Sprint(l)
		}
		return label, id
	default:
		text := fmt.Sprint(v)
		return text, text
	}
}

func templateRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, f schema.Field, value any, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}
		name := templateName
		if candidate := strings.TrimSpace(data.Partials[partialKey]); candidate != "" {
			name = candidate
		}
		rendered, err := data.Template.RenderTemplate(name, map[string]any{
			"field": map[string]any{"key": f.Key, "label": f.DisplayLabel()},
			"value": value,
			"props": data.Props,
			"state": data.State,
		})
		if err != nil {
			return fmt.Errorf("components: render %q: %w", name, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

func propString(props map[string]any, key string) string {
	if v, ok := props[key]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}
