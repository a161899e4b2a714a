package pongo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"reflect"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-makerdb/pkg/render/template"
)

// Option configures an Engine.
type Option func(*config)

type config struct {
	dir     string
	files   fs.FS
	ext     string
	funcs   map[string]any
	globals map[string]any
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.dir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from files. Combined with WithBaseDir, the
// directory is searched first.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.files = files
	}
}

// WithExtension sets the suffix appended to template names that lack it
// (default ".tmpl").
func WithExtension(ext string) Option {
	return func(cfg *config) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.ext = ext
	}
}

// WithFuncs exposes callables as template globals. pongo2 filter functions
// are registered as filters instead.
func WithFuncs(funcs map[string]any) Option {
	return func(cfg *config) {
		if cfg.funcs == nil {
			cfg.funcs = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			if name = strings.TrimSpace(name); name != "" && fn != nil {
				cfg.funcs[name] = fn
			}
		}
	}
}

// WithGlobals seeds values visible to every template.
func WithGlobals(data map[string]any) Option {
	return func(cfg *config) {
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globals[strings.TrimSpace(key)] = value
		}
	}
}

// Engine is a pongo2 template set with a compiled-template cache.
type Engine struct {
	mu    sync.RWMutex
	set   *pongo2.TemplateSet
	cache map[string]*pongo2.Template
	ext   string
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an Engine. At least one template source is required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{ext: ".tmpl"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if cfg.dir == "" && cfg.files == nil {
		return nil, errors.New("pongo: a template directory or fs.FS is required")
	}

	var loaders []pongo2.TemplateLoader
	if cfg.dir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.dir)
		if err != nil {
			return nil, fmt.Errorf("pongo: template dir: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.files))
	}

	e := &Engine{
		set:   pongo2.NewSet("makerdb", loaders...),
		cache: make(map[string]*pongo2.Template),
		ext:   cfg.ext,
	}
	registerBuiltinFilters()

	if err := e.GlobalContext(cfg.globals); err != nil {
		return nil, err
	}
	for name, fn := range cfg.funcs {
		if err := e.addFunc(name, fn); err != nil {
			return nil, fmt.Errorf("pongo: func %q: %w", name, err)
		}
	}
	return e, nil
}

// Render treats name as inline template text when it contains template
// delimiters, otherwise as a template name.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if strings.Contains(name, "{{") || strings.Contains(name, "{%") {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate executes a named template.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("pongo: engine is nil")
	}
	if !strings.HasSuffix(name, e.ext) {
		name += e.ext
	}
	tmpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, name, data, out)
}

// RenderString compiles and executes inline template text.
func (e *Engine) RenderString(content string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("pongo: engine is nil")
	}
	tmpl, err := e.set.FromString(content)
	if err != nil {
		return "", fmt.Errorf("pongo: parse inline template: %w", err)
	}
	return e.execute(tmpl, "inline", data, out)
}

// RegisterFilter adds a filter. pongo2 filters are process-wide, so names
// must be unique.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("pongo: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("pongo: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, func(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var p any
		if param != nil {
			p = param.Interface()
		}
		result, err := fn(in.Interface(), p)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

// GlobalContext merges data into the values visible to every template.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.set == nil {
		return errors.New("pongo: engine is nil")
	}
	if data == nil {
		return nil
	}
	ctx, err := toContext(data)
	if err != nil {
		return fmt.Errorf("pongo: global context: %w", err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = make(pongo2.Context)
	}
	e.set.Globals.Update(ctx)
	return nil
}

func (e *Engine) addFunc(name string, fn any) error {
	if filter, ok := fn.(pongo2.FilterFunction); ok {
		if pongo2.FilterExists(name) {
			return nil
		}
		return pongo2.RegisterFilter(name, filter)
	}
	if reflect.ValueOf(fn).Kind() != reflect.Func {
		return fmt.Errorf("not a function: %T", fn)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = make(pongo2.Context)
	}
	e.set.Globals[name] = fn
	return nil
}

func (e *Engine) lookup(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.cache[name]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.cache[name]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("pongo: load template %q: %w", name, err)
	}
	e.cache[name] = tmpl
	return tmpl, nil
}

func (e *Engine) execute(tmpl *pongo2.Template, name string, data any, out []io.Writer) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("pongo: convert data for %q: %w", name, err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(ctx, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("pongo: execute %q: %w", name, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

// toContext normalises data into plain maps and slices. Structs go through
// their JSON encoding so templates see the JSON field names; functions are
// passed through untouched.
func toContext(data any) (pongo2.Context, error) {
	var src map[string]any
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		src = v
	case map[string]any:
		src = v
	default:
		decoded, err := viaJSON(v)
		if err != nil {
			return nil, err
		}
		m, ok := decoded.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("template data must encode to an object, got %T", decoded)
		}
		src = m
	}

	ctx := make(pongo2.Context, len(src))
	for key, value := range src {
		if key = strings.TrimSpace(key); key == "" {
			continue
		}
		converted, err := normalize(value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		ctx[key] = converted
	}
	return ctx, nil
}

func normalize(value any) (any, error) {
	switch v := value.(type) {
	case nil, string, bool, float64, int, int64:
		return v, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			converted, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			converted, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	}
	if reflect.ValueOf(value).Kind() == reflect.Func {
		return value, nil
	}
	decoded, err := viaJSON(value)
	if err != nil {
		return nil, err
	}
	return normalize(decoded)
}

func viaJSON(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func registerBuiltinFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", func(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
			return pongo2.AsValue(strings.TrimSpace(in.String())), nil
		})
	}
}
