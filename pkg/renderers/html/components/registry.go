package components

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"

	rendertemplate "github.com/goliatone/go-makerdb/pkg/render/template"
	"github.com/goliatone/go-makerdb/pkg/schema"
)

// Renderer writes the markup of a custom field into buf. The caller
// sanitises the result before it reaches the page.
type Renderer func(buf *bytes.Buffer, f schema.Field, value any, data ComponentData) error

// ComponentData carries the helpers available to a component renderer.
type ComponentData struct {
	Template rendertemplate.TemplateRenderer
	// Partials maps partial keys to theme template overrides.
	Partials map[string]string
	Props    map[string]any
	State    string
}

// Script is a JavaScript dependency emitted once per page.
type Script struct {
	Src    string
	Inline string
	Module bool
	Defer  bool
}

// Descriptor bundles a renderer with its page assets.
type Descriptor struct {
	Name        string
	Renderer    Renderer
	Stylesheets []string
	Scripts     []Script
}

// Registry maps component names to descriptors.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{components: make(map[string]Descriptor)}
}

// Clone returns an independent copy.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cloned := New()
	for name, d := range r.components {
		cloned.components[name] = cloneDescriptor(d)
	}
	return cloned
}

// Register adds or replaces a component. Names are case-insensitive.
func (r *Registry) Register(name string, d Descriptor) error {
	if name = normalize(name); name == "" {
		return fmt.Errorf("components: component name is required")
	}
	if d.Renderer == nil {
		return fmt.Errorf("components: renderer for %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d.Name = name
	r.components[name] = cloneDescriptor(d)
	return nil
}

// MustRegister is Register that panics.
func (r *Registry) MustRegister(name string, d Descriptor) {
	if err := r.Register(name, d); err != nil {
		panic(err)
	}
}

// Descriptor looks up a component.
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.components[normalize(name)]
	if !ok {
		return Descriptor{}, false
	}
	return cloneDescriptor(d), true
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Assets collects the deduplicated stylesheets and scripts of the named
// components in order of first use.
func (r *Registry) Assets(names []string) (stylesheets []string, scripts []Script) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, name := range names {
		d, ok := r.components[normalize(name)]
		if !ok {
			continue
		}
		for _, href := range d.Stylesheets {
			if _, dup := seen["css:"+href]; href == "" || dup {
				continue
			}
			seen["css:"+href] = struct{}{}
			stylesheets = append(stylesheets, href)
		}
		for _, script := range d.Scripts {
			key := "inline:" + script.Inline
			if script.Src != "" {
				key = "src:" + script.Src
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			scripts = append(scripts, script)
		}
	}
	return stylesheets, scripts
}

func cloneDescriptor(src Descriptor) Descriptor {
	return Descriptor{
		Name:        src.Name,
		Renderer:    src.Renderer,
		Stylesheets: slices.Clone(src.Stylesheets),
		Scripts:     slices.Clone(src.Scripts),
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
