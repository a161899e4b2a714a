package components

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-makerdb/pkg/render/template/pongo"
	"github.com/goliatone/go-makerdb/pkg/schema"
)

func noop(*bytes.Buffer, schema.Field, any, ComponentData) error { return nil }

func TestRegistryDescriptorIsCopied(t *testing.T) {
	reg := New()
	if err := reg.Register(" Footprint ", Descriptor{Renderer: noop, Stylesheets: []string{"/a.css"}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	desc, ok := reg.Descriptor("footprint")
	if !ok {
		t.Fatal("descriptor not found by normalised name")
	}
	desc.Stylesheets = append(desc.Stylesheets, "/mutated.css")

	again, _ := reg.Descriptor("FOOTPRINT")
	if diff := cmp.Diff([]string{"/a.css"}, again.Stylesheets); diff != "" {
		t.Fatalf("registry descriptor mutated (-want +got):\n%s", diff)
	}
	if again.Name != "footprint" {
		t.Fatalf("expected normalised name, got %q", again.Name)
	}
}

func TestRegistryRejectsInvalid(t *testing.T) {
	reg := New()
	if err := reg.Register("", Descriptor{Renderer: noop}); err == nil {
		t.Fatal("expected error for empty name")
	}
	if err := reg.Register("x", Descriptor{}); err == nil {
		t.Fatal("expected error for nil renderer")
	}
}

func TestRegistryAssetsDeduplicates(t *testing.T) {
	reg := New()
	reg.MustRegister("units", Descriptor{
		Renderer:    noop,
		Stylesheets: []string{"/shared.css", "/units.css"},
		Scripts:     []Script{{Src: "/shared.js"}},
	})
	reg.MustRegister("link", Descriptor{
		Renderer:    noop,
		Stylesheets: []string{"/shared.css", "/link.css"},
		Scripts:     []Script{{Src: "/shared.js"}, {Src: "/link.js"}},
	})

	styles, scripts := reg.Assets([]string{"units", "link", "missing"})
	if diff := cmp.Diff([]string{"/shared.css", "/units.css", "/link.css"}, styles); diff != "" {
		t.Fatalf("stylesheets mismatch (-want +got):\n%s", diff)
	}
	if len(scripts) != 2 {
		t.Fatalf("expected 2 unique scripts, got %v", scripts)
	}

	clone := reg.Clone()
	clone.MustRegister("extra", Descriptor{Renderer: noop})
	if diff := cmp.Diff([]string{"link", "units"}, reg.Names()); diff != "" {
		t.Fatalf("clone leaked into original (-want +got):\n%s", diff)
	}
}

func TestDefaultUnitsComponent(t *testing.T) {
	reg := NewDefaultRegistry()
	desc, ok := reg.Descriptor(NameUnits)
	if !ok {
		t.Fatal("units component missing")
	}
	var buf bytes.Buffer
	err := desc.Renderer(&buf, schema.Field{Key: "resistance"}, 4700.0, ComponentData{Props: map[string]any{"unit": "Ω"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := buf.String(); got != `<span class="font-mono">4.7kΩ</span>` {
		t.Fatalf("unexpected markup %q", got)
	}

	buf.Reset()
	_ = desc.Renderer(&buf, schema.Field{Key: "resistance"}, nil, ComponentData{})
	if !strings.Contains(buf.String(), "—") {
		t.Fatalf("expected placeholder for empty value, got %q", buf.String())
	}
}

func TestDefaultLinkComponent(t *testing.T) {
	desc, _ := NewDefaultRegistry().Descriptor(NameLink)
	var buf bytes.Buffer
	value := map[string]any{"id": "p-1", "name": "Resistor <1k>"}
	props := map[string]any{"href": "/parts/{value}"}
	if err := desc.Renderer(&buf, schema.Field{Key: "part"}, value, ComponentData{Props: props}); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<a class="underline" href="/parts/p-1">Resistor &lt;1k&gt;</a>`
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}
}

func TestBadgeComponentHonoursPartialOverride(t *testing.T) {
	engine, err := pongo.New(pongo.WithFS(fstest.MapFS{
		"component_badge.tmpl":   {Data: []byte(`<span class="badge">{{ value }}</span>`)},
		"themes/dark/badge.tmpl": {Data: []byte(`<span class="badge-dark">{{ props.prefix }}{{ value }}</span>`)},
	}))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	desc, _ := NewDefaultRegistry().Descriptor(NameBadge)

	var buf bytes.Buffer
	if err := desc.Renderer(&buf, schema.Field{Key: "status"}, "active", ComponentData{Template: engine}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != `<span class="badge">active</span>` {
		t.Fatalf("unexpected default badge %q", buf.String())
	}

	buf.Reset()
	data := ComponentData{
		Template: engine,
		Partials: map[string]string{PartialBadge: "themes/dark/badge.tmpl"},
		Props:    map[string]any{"prefix": "#"},
	}
	if err := desc.Renderer(&buf, schema.Field{Key: "status"}, "active", data); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != `<span class="badge-dark">#active</span>` {
		t.Fatalf("unexpected themed badge %q", buf.String())
	}

	if err := desc.Renderer(&buf, schema.Field{Key: "status"}, "x", ComponentData{}); err == nil {
		t.Fatal("expected error without template renderer")
	}
}
