package field

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-makerdb/pkg/schema"
)

// Placeholder is shown for empty values.
const Placeholder = "—"

const (
	keyYes = "field.yes"
	keyNo  = "field.no"
)

// Translator resolves localisation keys.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// Renderer produces idle text for custom fields using the field's
// component props.
type Renderer func(f schema.Field, value any, props map[string]any) string

// Display holds the collaborators used to turn values into idle text.
type Display struct {
	Translator Translator
	Locale     string
	Renderers  map[string]Renderer
}

// Text returns the idle presentation of value for f.
func (d Display) Text(f schema.Field, value any) string {
	if f.Type == schema.FieldTypeCustom {
		if render, ok := d.Renderers[f.Component]; ok && render != nil {
			return render(f, value, f.ComponentProps)
		}
	}
	if f.Type == schema.FieldTypeCheckbox {
		if truthy(value) {
			return d.translate(keyYes, "Yes")
		}
		return d.translate(keyNo, "No")
	}
	if schema.IsEmpty(value) {
		return Placeholder
	}
	switch f.Type {
	case schema.FieldTypeSelect:
		if label, ok := f.OptionLabel(value); ok {
			return label
		}
	case schema.FieldTypeTags:
		if tokens := Tokens(value); len(tokens) > 0 {
			return strings.Join(tokens, ", ")
		}
		return Placeholder
	case schema.FieldTypeSearch:
		if m, ok := value.(map[string]any); ok {
			if label, ok := m[f.LabelKey()]; ok && !schema.IsEmpty(label) {
				return fmt.Sprint(label)
			}
		}
	}
	return Plain(value)
}

func (d Display) translate(key, fallback string) string {
	if d.Translator == nil {
		return fallback
	}
	msg, err := d.Translator.Translate(d.Locale, key)
	if err != nil || strings.TrimSpace(msg) == "" {
		return fallback
	}
	return msg
}

// EditText returns the text placed in the edit buffer when editing starts.
func EditText(f schema.Field, value any) string {
	if value == nil {
		return ""
	}
	switch f.Type {
	case schema.FieldTypeCheckbox:
		if truthy(value) {
			return "yes"
		}
		return "no"
	case schema.FieldTypeSelect:
		if label, ok := f.OptionLabel(value); ok {
			return label
		}
	case schema.FieldTypeTags:
		return strings.Join(Tokens(value), ", ")
	case schema.FieldTypeSearch:
		if m, ok := value.(map[string]any); ok {
			return fmt.Sprint(m[f.ValueKey()])
		}
	}
	return Plain(value)
}

// Plain formats scalars without locale or unit decoration.
func Plain(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(value)
}

// Tokens converts a tags value into strings.
func Tokens(value any) []string {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		return schema.SplitTags(v)
	}
	return nil
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	if n, ok := schema.ToFloat(value); ok {
		return n != 0 && !math.IsNaN(n)
	}
	return false
}
