package registry

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-makerdb/pkg/apiclient"
	"github.com/goliatone/go-makerdb/pkg/schema"
)

//go:embed registry.yaml
var defaultRegistry []byte

// ErrUnknownModel is returned for keys missing from the registry.
var ErrUnknownModel = errors.New("registry: unknown model")

// Column is a read-only column of a child list.
type Column struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
}

// Child is a list of records nested under a model instance, such as a
// project's BOM at {apiPath}/{id}/bom.
type Child struct {
	Key          string         `yaml:"key"`
	Path         string         `yaml:"path"`
	Title        string         `yaml:"title"`
	AddLabel     string         `yaml:"addLabel,omitempty"`
	EmptyMessage string         `yaml:"emptyMessage,omitempty"`
	Columns      []Column       `yaml:"columns,omitempty"`
	Fields       []schema.Field `yaml:"fields"`
}

// Model is one registry entry.
type Model struct {
	Key             string         `yaml:"-"`
	APIPath         string         `yaml:"apiPath"`
	Label           string         `yaml:"label"`
	LabelPlural     string         `yaml:"labelPlural"`
	DetailRoute     string         `yaml:"detailRoute"`
	Title           string         `yaml:"title"`
	Description     string         `yaml:"description"`
	ClickableColumn string         `yaml:"clickableColumn,omitempty"`
	Fields          []schema.Field `yaml:"fields,omitempty"`
	Tabs            []schema.Tab   `yaml:"tabs,omitempty"`
	Children        []Child        `yaml:"children,omitempty"`
}

// Schema returns every field of the model, flat fields first.
func (m Model) Schema() []schema.Field {
	return schema.Document{Fields: m.Fields, Tabs: m.Tabs}.AllFields()
}

// Child returns the nested list with the given key.
func (m Model) Child(key string) (Child, bool) {
	for _, c := range m.Children {
		if c.Key == key {
			return c, true
		}
	}
	return Child{}, false
}

// ChildEndpoint returns {apiPath}/{id}/{child.Path}.
func (m Model) ChildEndpoint(id string, c Child) string {
	return apiclient.Nested(m.APIPath, id, c.Path)
}

type document struct {
	Models map[string]Model `yaml:"models"`
}

// Registry is an immutable set of models.
type Registry struct {
	models map[string]Model
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the embedded registry. It panics if the embedded document
// is invalid.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := Parse(defaultRegistry)
		if err != nil {
			panic(fmt.Sprintf("registry: embedded document: %v", err))
		}
		defaultReg = reg
	})
	return defaultReg
}

// Parse builds a registry from YAML.
func Parse(data []byte) (*Registry, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("registry: decode: %w", err)
	}
	reg := &Registry{models: make(map[string]Model, len(doc.Models))}
	for key, m := range doc.Models {
		m.Key = key
		if err := validate(&m); err != nil {
			return nil, err
		}
		reg.models[key] = m
	}
	return reg, nil
}

// LoadFile overlays the models of a YAML file onto the embedded defaults.
// Models with the same key replace the default entry.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: read %s: %w", path, err)
	}
	overlay, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("registry: %s: %w", path, err)
	}
	return Default().Merge(overlay), nil
}

// Merge returns a registry holding r's models replaced or extended by
// other's.
func (r *Registry) Merge(other *Registry) *Registry {
	out := &Registry{models: make(map[string]Model, len(r.models))}
	for k, m := range r.models {
		out.models[k] = m
	}
	if other != nil {
		for k, m := range other.models {
			out.models[k] = m
		}
	}
	return out
}

func validate(m *Model) error {
	if strings.TrimSpace(m.APIPath) == "" {
		return fmt.Errorf("registry: model %q has no apiPath", m.Key)
	}
	m.APIPath = apiclient.Collection(m.APIPath)
	if m.Label == "" {
		m.Label = m.Key
	}
	if m.LabelPlural == "" {
		m.LabelPlural = m.Label
	}
	if m.Title == "" {
		m.Title = m.LabelPlural
	}
	doc := schema.Document{Fields: m.Fields, Tabs: m.Tabs}
	if err := doc.Normalize(); err != nil {
		return fmt.Errorf("registry: model %q: %w", m.Key, err)
	}
	for i := range m.Children {
		c := &m.Children[i]
		if c.Key == "" {
			return fmt.Errorf("registry: model %q: child %d has no key", m.Key, i)
		}
		if c.Path == "" {
			c.Path = c.Key
		}
		if err := schema.Normalize(c.Fields); err != nil {
			return fmt.Errorf("registry: model %q child %q: %w", m.Key, c.Key, err)
		}
	}
	return nil
}

// Lookup returns the model registered under key.
func (r *Registry) Lookup(key string) (Model, bool) {
	m, ok := r.models[key]
	return m, ok
}

// MustLookup returns the model or panics.
func (r *Registry) MustLookup(key string) Model {
	m, ok := r.Lookup(key)
	if !ok {
		panic(fmt.Sprintf("%v: %q", ErrUnknownModel, key))
	}
	return m
}

// Keys returns the model keys, sorted.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.models))
	for k := range r.models {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DetailPath returns the UI route of one record: {detailRoute}/{id}.
func (r *Registry) DetailPath(key, id string) (string, error) {
	m, ok := r.Lookup(key)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, key)
	}
	return apiclient.Item(m.DetailRoute, id), nil
}

// ItemEndpoint returns the REST route of one record: {apiPath}/{id}.
func (r *Registry) ItemEndpoint(key, id string) (string, error) {
	m, ok := r.Lookup(key)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, key)
	}
	return apiclient.Item(m.APIPath, id), nil
}

// Lookup resolves key in the default registry.
func Lookup(key string) (Model, bool) { return Default().Lookup(key) }

// MustLookup resolves key in the default registry or panics.
func MustLookup(key string) Model { return Default().MustLookup(key) }

// Keys lists the default registry's keys.
func Keys() []string { return Default().Keys() }

// DetailPath resolves a UI route in the default registry.
func DetailPath(key, id string) (string, error) { return Default().DetailPath(key, id) }

// ItemEndpoint resolves a REST route in the default registry.
func ItemEndpoint(key, id string) (string, error) { return Default().ItemEndpoint(key, id) }
