package schema

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the YAML/JSON layout of a schema file: either a flat field
// list or a set of tabs (or both, in which case Fields precede the tabs).
type Document struct {
	Fields []Field `json:"fields,omitempty" yaml:"fields,omitempty"`
	Tabs   []Tab   `json:"tabs,omitempty" yaml:"tabs,omitempty"`

	// Source is set by the loaders; documents built in Go leave it nil.
	Source Source `json:"-" yaml:"-"`
}

// AllFields returns Fields followed by every tab's fields.
func (d Document) AllFields() []Field {
	out := append([]Field(nil), d.Fields...)
	return append(out, Flatten(d.Tabs)...)
}

// Load decodes a schema document from YAML (JSON is accepted as a YAML
// subset) and normalises it.
func Load(r io.Reader) (Document, error) {
	if r == nil {
		return Document{}, fmt.Errorf("schema: missing reader")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("schema: read: %w", err)
	}
	return Parse(data)
}

// LoadFile loads a schema document from disk.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return parseFrom(data, SourceFromFile(path))
}

// LoadFS loads a schema document from an fs.FS.
func LoadFS(fsys fs.FS, path string) (Document, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Document{}, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return parseFrom(data, SourceFromFS(path))
}

// Parse decodes raw YAML bytes into a normalised Document.
func Parse(data []byte) (Document, error) {
	return parseFrom(data, nil)
}

func parseFrom(data []byte, src Source) (Document, error) {
	doc := Document{Source: src}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return Document{}, fmt.Errorf("schema: decode %s: %w", describe(src), err)
	}
	if err := doc.Normalize(); err != nil {
		if src != nil {
			return Document{}, fmt.Errorf("schema: %s: %w", src.Location(), err)
		}
		return Document{}, err
	}
	return doc, nil
}

// Normalize applies Normalize to the flat fields and every tab, and checks
// that tab keys are present and unique. Empty tab labels default to the key.
func (d *Document) Normalize() error {
	if err := Normalize(d.Fields); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(d.Tabs))
	for i := range d.Tabs {
		tab := &d.Tabs[i]
		tab.Key = strings.TrimSpace(tab.Key)
		if tab.Key == "" {
			return fmt.Errorf("schema: tab %d has an empty key", i)
		}
		if _, dup := seen[tab.Key]; dup {
			return fmt.Errorf("schema: duplicate tab %q", tab.Key)
		}
		seen[tab.Key] = struct{}{}
		if tab.Label == "" {
			tab.Label = tab.Key
		}
		if err := Normalize(tab.Fields); err != nil {
			return fmt.Errorf("schema: tab %q: %w", tab.Key, err)
		}
	}
	return nil
}

// Normalize fills defaults in place (type text, span 1) and rejects empty
// or duplicate keys and unknown types.
func Normalize(fields []Field) error {
	seen := make(map[string]struct{}, len(fields))
	for i := range fields {
		f := &fields[i]
		f.Key = strings.TrimSpace(f.Key)
		if f.Key == "" {
			return fmt.Errorf("schema: field %d has an empty key", i)
		}
		if _, dup := seen[f.Key]; dup {
			return fmt.Errorf("schema: duplicate field %q", f.Key)
		}
		seen[f.Key] = struct{}{}
		if f.Type == "" {
			f.Type = FieldTypeText
		}
		if !f.Type.Valid() {
			return fmt.Errorf("schema: field %q has unknown type %q", f.Key, f.Type)
		}
		if f.Type == FieldTypeSelect && len(f.Options) == 0 {
			return fmt.Errorf("schema: select field %q has no options", f.Key)
		}
		if f.Span <= 0 {
			f.Span = 1
		}
		if f.Span > 2 {
			f.Span = 2
		}
	}
	return nil
}
