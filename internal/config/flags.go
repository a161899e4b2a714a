package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	FlagConfig    = "config"
	FlagBaseURL   = "base-url"
	FlagBasePath  = "base-path"
	FlagRegistry  = "registry"
	FlagTemplates = "templates"
	FlagCatalog   = "translations"
	FlagLocale    = "locale"
	FlagTimeout   = "timeout"
	FlagVerbose   = "verbose"
	FlagTheme     = "theme"
	FlagVariant   = "theme-variant"
	FlagToken     = "token"
)

// Flags holds flag values until they are applied over a loaded Config.
// Only flags set on the command line override the file and environment.
type Flags struct {
	fs     *pflag.FlagSet
	path   string
	values Config
	tokens []string
}

// BindFlags registers the configuration flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	def := Default()
	f := &Flags{fs: fs}
	fs.StringVar(&f.path, FlagConfig, "", "path to a YAML config file")
	fs.StringVar(&f.values.BaseURL, FlagBaseURL, def.BaseURL, "backend URL")
	fs.StringVar(&f.values.BasePath, FlagBasePath, def.BasePath, "API base path")
	fs.StringVar(&f.values.Registry, FlagRegistry, "", "YAML file overriding the model registry")
	fs.StringVar(&f.values.Templates, FlagTemplates, "", "directory overriding the HTML templates")
	fs.StringVar(&f.values.Translations, FlagCatalog, "", "YAML translation catalog")
	fs.StringVar(&f.values.Locale, FlagLocale, def.Locale, "locale for labels")
	fs.DurationVar(&f.values.Timeout, FlagTimeout, def.Timeout, "HTTP request timeout")
	fs.BoolVarP(&f.values.Verbose, FlagVerbose, "v", false, "log requests and decisions")
	fs.StringVar(&f.values.Theme.Name, FlagTheme, def.Theme.Name, "HTML theme name")
	fs.StringVar(&f.values.Theme.Variant, FlagVariant, def.Theme.Variant, "HTML theme variant")
	fs.StringArrayVar(&f.tokens, FlagToken, nil, "theme token override as key=value (repeatable)")
	return f
}

// Path returns the --config value.
func (f *Flags) Path() string {
	return f.path
}

// Apply copies every changed flag onto cfg and validates the result.
func (f *Flags) Apply(cfg *Config) error {
	changed := func(name string) bool {
		flag := f.fs.Lookup(name)
		return flag != nil && flag.Changed
	}
	if changed(FlagBaseURL) {
		cfg.BaseURL = f.values.BaseURL
	}
	if changed(FlagBasePath) {
		cfg.BasePath = f.values.BasePath
	}
	if changed(FlagRegistry) {
		cfg.Registry = f.values.Registry
	}
	if changed(FlagTemplates) {
		cfg.Templates = f.values.Templates
	}
	if changed(FlagCatalog) {
		cfg.Translations = f.values.Translations
	}
	if changed(FlagLocale) {
		cfg.Locale = f.values.Locale
	}
	if changed(FlagTimeout) {
		cfg.Timeout = f.values.Timeout
	}
	if changed(FlagVerbose) {
		cfg.Verbose = f.values.Verbose
	}
	if changed(FlagTheme) {
		cfg.Theme.Name = f.values.Theme.Name
	}
	if changed(FlagVariant) {
		cfg.Theme.Variant = f.values.Theme.Variant
	}
	for _, pair := range f.tokens {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("%w: --%s %q must be key=value", ErrInvalid, FlagToken, pair)
		}
		if cfg.Theme.Tokens == nil {
			cfg.Theme.Tokens = make(map[string]string)
		}
		cfg.Theme.Tokens[key] = strings.TrimSpace(value)
	}
	return cfg.Validate()
}
