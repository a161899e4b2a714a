package schema

import "strings"

// FieldType selects the input presentation of a Field.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeNumber   FieldType = "number"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeTags     FieldType = "tags"
	FieldTypeSearch   FieldType = "search"
	FieldTypeCustom   FieldType = "custom"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeNumber, FieldTypeSelect,
		FieldTypeCheckbox, FieldTypeTags, FieldTypeSearch, FieldTypeCustom:
		return true
	default:
		return false
	}
}

// Multiline reports whether the confirm key inserts a line break instead of
// committing the value.
func (t FieldType) Multiline() bool {
	return t == FieldTypeTextarea
}

const (
	RuleMin       = "min"
	RuleMax       = "max"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RulePattern   = "pattern"
)

// Rule is a declarative validation constraint. Value holds the threshold or
// expression as text so YAML and OpenAPI sources share one representation.
type Rule struct {
	Kind    string `json:"kind" yaml:"kind"`
	Value   string `json:"value" yaml:"value"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Option is one choice of a select field.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
}

// Validator inspects a candidate value. A non-nil error blocks the commit and
// its message is shown next to the field.
type Validator func(value any) error

// Field describes one editable attribute of a record.
type Field struct {
	Key         string    `json:"key" yaml:"key"`
	Label       string    `json:"label" yaml:"label"`
	Type        FieldType `json:"type" yaml:"type"`
	Required    bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []Option  `json:"options,omitempty" yaml:"options,omitempty"`
	Readonly    bool      `json:"readonly,omitempty" yaml:"readonly,omitempty"`
	Span        int       `json:"span,omitempty" yaml:"span,omitempty"`
	Rules       []Rule    `json:"rules,omitempty" yaml:"rules,omitempty"`
	Validator   Validator `json:"-" yaml:"-"`

	SearchEndpoint   string `json:"searchEndpoint,omitempty" yaml:"searchEndpoint,omitempty"`
	SearchQueryParam string `json:"searchQueryParam,omitempty" yaml:"searchQueryParam,omitempty"`
	SearchLabelKey   string `json:"searchLabelKey,omitempty" yaml:"searchLabelKey,omitempty"`
	SearchValueKey   string `json:"searchValueKey,omitempty" yaml:"searchValueKey,omitempty"`

	Component      string         `json:"component,omitempty" yaml:"component,omitempty"`
	ComponentProps map[string]any `json:"componentProps,omitempty" yaml:"componentProps,omitempty"`
}

// DisplayLabel returns Label, falling back to Key.
func (f Field) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.Key
}

// FullWidth reports whether the field spans both columns of a two-column
// layout.
func (f Field) FullWidth() bool {
	return f.Span >= 2
}

// QueryParam returns the search query parameter name (default "search").
func (f Field) QueryParam() string {
	if f.SearchQueryParam != "" {
		return f.SearchQueryParam
	}
	return "search"
}

// LabelKey returns the search result key used as a label (default "name").
func (f Field) LabelKey() string {
	if f.SearchLabelKey != "" {
		return f.SearchLabelKey
	}
	return "name"
}

// ValueKey returns the search result key stored as the value (default "id").
func (f Field) ValueKey() string {
	if f.SearchValueKey != "" {
		return f.SearchValueKey
	}
	return "id"
}

// OptionLabel returns the label of the option whose value matches value.
func (f Field) OptionLabel(value any) (string, bool) {
	for _, opt := range f.Options {
		if sameValue(opt.Value, value) {
			return opt.Label, true
		}
	}
	return "", false
}

// Tab groups fields under a named section sharing one record.
type Tab struct {
	Key    string  `json:"key" yaml:"key"`
	Label  string  `json:"label" yaml:"label"`
	Icon   string  `json:"icon,omitempty" yaml:"icon,omitempty"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Flatten returns the fields of every tab in declaration order.
func Flatten(tabs []Tab) []Field {
	var out []Field
	for _, tab := range tabs {
		out = append(out, tab.Fields...)
	}
	return out
}

// Lookup returns the field with the given key.
func Lookup(fields []Field, key string) (Field, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}
