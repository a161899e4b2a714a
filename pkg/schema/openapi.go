package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const (
	extensionType  = "x-makerdb-type"
	extensionOrder = "x-order"
)

// serverManaged keys are shown but never edited.
var serverManaged = map[string]struct{}{
	"id":         {},
	"created_at": {},
	"updated_at": {},
}

// longText keys are edited with a multi-line input.
var longText = map[string]struct{}{
	"description": {},
	"notes":       {},
	"comments":    {},
}

// FromOpenAPI loads an OpenAPI 3 document and derives the field list of one
// component schema (e.g. "PartSchema"). Nested objects and arrays of objects
// have no inline editor and are skipped.
func FromOpenAPI(ctx context.Context, data []byte, component string) ([]Field, error) {
	if len(data) == 0 {
		return nil, errors.New("schema: openapi document is empty")
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("schema: load openapi document: %w", err)
	}
	if doc.Components == nil || doc.Components.Schemas == nil {
		return nil, fmt.Errorf("schema: openapi document has no component schemas")
	}
	ref, ok := doc.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("schema: component %q not found", component)
	}
	return FieldsFromOpenAPI(ref.Value)
}

// FieldsFromOpenAPI converts the properties of an object schema into
// fields. Properties are ordered by their x-order extension, then by name.
func FieldsFromOpenAPI(src *openapi3.Schema) ([]Field, error) {
	if src == nil {
		return nil, errors.New("schema: openapi schema is nil")
	}

	required := make(map[string]struct{}, len(src.Required))
	for _, key := range src.Required {
		required[key] = struct{}{}
	}

	type entry struct {
		key   string
		order int
		prop  *openapi3.Schema
	}
	entries := make([]entry, 0, len(src.Properties))
	for key, ref := range src.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		entries = append(entries, entry{key: key, order: orderOf(ref.Value), prop: ref.Value})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].key < entries[j].key
	})

	fields := make([]Field, 0, len(entries))
	for _, e := range entries {
		f, ok := fieldFromProperty(e.key, e.prop)
		if !ok {
			continue
		}
		if _, isRequired := required[e.key]; isRequired && !f.Readonly {
			f.Required = true
		}
		fields = append(fields, f)
	}
	if err := Normalize(fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func fieldFromProperty(key string, prop *openapi3.Schema) (Field, bool) {
	prop = unwrapNullable(prop)
	f := Field{
		Key:         key,
		Label:       labelFor(key, prop.Title),
		Placeholder: prop.Description,
		Readonly:    prop.ReadOnly,
	}
	if _, managed := serverManaged[key]; managed {
		f.Readonly = true
	}

	if override, ok := prop.Extensions[extensionType].(string); ok && FieldType(override).Valid() {
		f.Type = FieldType(override)
	}

	kind := primaryType(prop.Type)
	switch {
	case f.Type != "":
	case len(prop.Enum) > 0:
		f.Type = FieldTypeSelect
		for _, value := range prop.Enum {
			f.Options = append(f.Options, Option{Label: humanize(fmt.Sprint(value)), Value: value})
		}
	case kind == openapi3.TypeBoolean:
		f.Type = FieldTypeCheckbox
	case kind == openapi3.TypeInteger || kind == openapi3.TypeNumber:
		f.Type = FieldTypeNumber
	case kind == openapi3.TypeArray:
		items := prop.Items
		if items == nil || items.Value == nil || primaryType(unwrapNullable(items.Value).Type) != openapi3.TypeString {
			return Field{}, false
		}
		f.Type = FieldTypeTags
		f.Span = 2
	case kind == openapi3.TypeObject:
		return Field{}, false
	case kind == openapi3.TypeString || kind == "":
		f.Type = FieldTypeText
		if _, long := longText[key]; long || prop.Format == "textarea" {
			f.Type = FieldTypeTextarea
			f.Span = 2
		}
	default:
		return Field{}, false
	}

	f.Rules = rulesFor(prop)
	return f, true
}

// unwrapNullable resolves the anyOf [{type: X}, {type: null}] pattern that
// optional properties produce into the non-null branch.
func unwrapNullable(prop *openapi3.Schema) *openapi3.Schema {
	if prop == nil || prop.Type != nil && len(prop.Type.Slice()) > 0 {
		return prop
	}
	for _, branch := range prop.AnyOf {
		if branch == nil || branch.Value == nil {
			continue
		}
		if primaryType(branch.Value.Type) == openapi3.TypeNull {
			continue
		}
		merged := *branch.Value
		if merged.Title == "" {
			merged.Title = prop.Title
		}
		if merged.Description == "" {
			merged.Description = prop.Description
		}
		merged.ReadOnly = merged.ReadOnly || prop.ReadOnly
		if len(merged.Extensions) == 0 {
			merged.Extensions = prop.Extensions
		}
		return &merged
	}
	return prop
}

func primaryType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, t := range types.Slice() {
		if t != openapi3.TypeNull {
			return t
		}
	}
	return ""
}

func rulesFor(prop *openapi3.Schema) []Rule {
	var rules []Rule
	if prop.Min != nil {
		rules = append(rules, Rule{Kind: RuleMin, Value: formatFloat(*prop.Min)})
	}
	if prop.Max != nil {
		rules = append(rules, Rule{Kind: RuleMax, Value: formatFloat(*prop.Max)})
	}
	if prop.MinLength > 0 {
		rules = append(rules, Rule{Kind: RuleMinLength, Value: strconv.FormatUint(prop.MinLength, 10)})
	}
	if prop.MaxLength != nil {
		rules = append(rules, Rule{Kind: RuleMaxLength, Value: strconv.FormatUint(*prop.MaxLength, 10)})
	}
	if prop.Pattern != "" {
		rules = append(rules, Rule{Kind: RulePattern, Value: prop.Pattern})
	}
	return rules
}

func orderOf(prop *openapi3.Schema) int {
	switch v := prop.Extensions[extensionOrder].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 1 << 30
}

func labelFor(key, title string) string {
	if title = strings.TrimSpace(title); title != "" {
		return title
	}
	return humanize(key)
}

// humanize turns snake_case identifiers into "Title case" labels.
func humanize(key string) string {
	words := strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(key))
	for i, w := range words {
		if i == 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
