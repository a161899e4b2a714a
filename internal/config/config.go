// Package config resolves the makerdb CLI settings from a YAML file,
// MAKERDB_* environment variables and command-line flags, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MAKERDB_"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Theme selects the HTML theme and adds token overrides.
type Theme struct {
	Name    string            `yaml:"name"`
	Variant string            `yaml:"variant"`
	Tokens  map[string]string `yaml:"tokens,omitempty"`
}

// Config holds the CLI settings. Translations names a YAML catalog mapping
// locale to key to text.
type Config struct {
	BaseURL      string        `yaml:"base_url"`
	BasePath     string        `yaml:"base_path"`
	Registry     string        `yaml:"registry,omitempty"`
	Templates    string        `yaml:"templates,omitempty"`
	Translations string        `yaml:"translations,omitempty"`
	Locale       string        `yaml:"locale"`
	Timeout      time.Duration `yaml:"timeout"`
	Verbose      bool          `yaml:"verbose"`
	Theme        Theme         `yaml:"theme"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		BaseURL:  "http://localhost:8000",
		BasePath: "/db",
		Locale:   "en",
		Timeout:  10 * time.Second,
		Theme:    Theme{Name: "default", Variant: "light"},
	}
}

// LookupFunc reads an environment variable.
type LookupFunc func(key string) (string, bool)

// LoadOption customises Load.
type LoadOption func(*loader)

type loader struct {
	lookup   LookupFunc
	readFile func(string) ([]byte, error)
}

// WithLookup replaces os.LookupEnv.
func WithLookup(fn LookupFunc) LoadOption {
	return func(l *loader) {
		if fn != nil {
			l.lookup = fn
		}
	}
}

// Load starts from Default, overlays the YAML file at path when path is
// non-empty, then the environment. The result is validated.
func Load(path string, options ...LoadOption) (Config, error) {
	l := &loader{lookup: os.LookupEnv, readFile: os.ReadFile}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}

	cfg := Default()
	if path != "" {
		data, err := l.readFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(l.lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup LookupFunc) error {
	strs := map[string]*string{
		"BASE_URL":      &c.BaseURL,
		"BASE_PATH":     &c.BasePath,
		"REGISTRY":      &c.Registry,
		"TEMPLATES":     &c.Templates,
		"TRANSLATIONS":  &c.Translations,
		"LOCALE":        &c.Locale,
		"THEME":         &c.Theme.Name,
		"THEME_VARIANT": &c.Theme.Variant,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup(EnvPrefix + "TIMEOUT"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %sTIMEOUT: %v", ErrInvalid, EnvPrefix, err)
		}
		c.Timeout = d
	}
	if v, ok := lookup(EnvPrefix + "VERBOSE"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %sVERBOSE: %v", ErrInvalid, EnvPrefix, err)
		}
		c.Verbose = b
	}
	return nil
}

// Validate checks the base URL and timeout.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: base_url %q must be an absolute URL", ErrInvalid, c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalid)
	}
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("%w: base_path %q must start with /", ErrInvalid, c.BasePath)
	}
	return nil
}
