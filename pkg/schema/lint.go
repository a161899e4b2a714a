package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const extensionNamespace = "x-makerdb"

// Violation is one unsupported or malformed extension in an OpenAPI
// document.
type Violation struct {
	Location string
	Message  string
}

func (v Violation) String() string {
	return v.Location + " -> " + v.Message
}

// LintOpenAPI reports x-makerdb-* and x-order extensions on component
// schemas and their properties that FromOpenAPI would ignore. The result is
// sorted by location.
func LintOpenAPI(ctx context.Context, data []byte) ([]Violation, error) {
	if len(data) == 0 {
		return nil, errors.New("schema: openapi document is empty")
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("schema: load openapi document: %w", err)
	}
	if doc.Components == nil {
		return nil, nil
	}

	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	var result []Violation
	for _, name := range names {
		ref := doc.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		result = append(result, lintSchema([]string{"components", name}, ref.Value, 0)...)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Location == result[j].Location {
			return result[i].Message < result[j].Message
		}
		return result[i].Location < result[j].Location
	})
	return result, nil
}

func lintSchema(path []string, s *openapi3.Schema, depth int) []Violation {
	// component refs may be cyclic
	if s == nil || depth > 8 {
		return nil
	}
	result := lintExtensions(path, s.Extensions)

	keys := make([]string, 0, len(s.Properties))
	for key := range s.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if ref := s.Properties[key]; ref != nil {
			result = append(result, lintSchema(appendPath(path, "properties."+key), ref.Value, depth+1)...)
		}
	}
	if s.Items != nil {
		result = append(result, lintSchema(appendPath(path, "items"), s.Items.Value, depth+1)...)
	}
	for i, branch := range s.AnyOf {
		if branch != nil {
			result = append(result, lintSchema(appendPath(path, fmt.Sprintf("anyOf[%d]", i)), branch.Value, depth+1)...)
		}
	}
	return result
}

func lintExtensions(path []string, extensions map[string]any) []Violation {
	keys := make([]string, 0, len(extensions))
	for key := range extensions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var result []Violation
	at := strings.Join(path, " > ")
	for _, key := range keys {
		value := extensions[key]
		switch {
		case key == extensionOrder:
			switch value.(type) {
			case float64, int:
			default:
				result = append(result, Violation{Location: at, Message: fmt.Sprintf("%s must be a number (got %T)", key, value)})
			}
		case key == extensionType:
			s, ok := value.(string)
			if !ok || !FieldType(s).Valid() {
				result = append(result, Violation{Location: at, Message: fmt.Sprintf("%s %v is not a field type", key, value)})
			}
		case key == extensionNamespace || strings.HasPrefix(key, extensionNamespace+"-"):
			result = append(result, Violation{
				Location: at,
				Message:  fmt.Sprintf("unsupported extension %q (supported: %s, %s)", key, extensionType, extensionOrder),
			})
		}
	}
	return result
}

func appendPath(path []string, segment string) []string {
	next := append([]string(nil), path...)
	return append(next, segment)
}
