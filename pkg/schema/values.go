package schema

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/goliatone/go-makerdb/pkg/units"
)

// IsEmpty reports whether value should be treated as absent: nil, blank
// strings and empty collections.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	}
	return false
}

// ParseInput converts raw text typed by a user into the value stored for
// the field. Blank input yields nil for every type except text-like fields,
// which keep the empty string.
func ParseInput(f Field, raw string) (any, error) {
	trimmed := strings.TrimSpace(raw)
	switch f.Type {
	case FieldTypeNumber:
		if trimmed == "" {
			return nil, nil
		}
		return parseNumber(trimmed)
	case FieldTypeCheckbox:
		if trimmed == "" {
			return false, nil
		}
		return parseBool(trimmed)
	case FieldTypeSelect:
		if trimmed == "" {
			return nil, nil
		}
		for _, opt := range f.Options {
			if strings.EqualFold(opt.Label, trimmed) || strings.EqualFold(fmt.Sprint(opt.Value), trimmed) {
				return opt.Value, nil
			}
		}
		return nil, fmt.Errorf("%q is not one of the available options", trimmed)
	case FieldTypeTags:
		return SplitTags(raw), nil
	case FieldTypeTextarea:
		return raw, nil
	default:
		return trimmed, nil
	}
}

// SplitTags splits comma separated text into trimmed, non-empty tokens.
func SplitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if token := strings.TrimSpace(part); token != "" {
			out = append(out, token)
		}
	}
	return out
}

// ToFloat converts JSON-compatible numeric values to float64.
func ToFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		if f, ok := units.Parse(strings.TrimSpace(v)); ok {
			return f, true
		}
	}
	return 0, false
}

func parseNumber(text string) (any, error) {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%q is not a finite number", text)
		}
		return f, nil
	}
	if f, ok := units.Parse(text); ok {
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f), nil
		}
		return f, nil
	}
	return nil, fmt.Errorf("%q is not a number", text)
}

func parseBool(text string) (bool, error) {
	switch strings.ToLower(text) {
	case "y", "yes", "on", "x":
		return true, nil
	case "n", "no", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(text)
	if err != nil {
		return false, fmt.Errorf("%q is not yes or no", text)
	}
	return b, nil
}

// sameValue compares option values loosely so that JSON numbers (float64)
// match integer literals from Go or YAML.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if fa, ok := numeric(a); ok {
		if fb, ok := numeric(b); ok {
			return fa == fb
		}
		return false
	}
	if reflect.TypeOf(a).Comparable() && reflect.TypeOf(b).Comparable() && a == b {
		return true
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func numeric(value any) (float64, bool) {
	if _, ok := value.(string); ok {
		return 0, false
	}
	return ToFloat(value)
}
