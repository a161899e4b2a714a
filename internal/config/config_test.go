package config

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
)

func env(values map[string]string) LoadOption {
	return WithLookup(func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	})
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", env(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	cfg, err := Load("testdata/makerdb.yaml", env(map[string]string{
		"MAKERDB_LOCALE":  "fr",
		"MAKERDB_VERBOSE": "true",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		BaseURL:  "https://inventory.example.com",
		BasePath: "/api/db",
		Locale:   "fr",
		Timeout:  3 * time.Second,
		Verbose:  true,
		Theme: Theme{
			Name:    "workshop",
			Variant: "dark",
			Tokens:  map[string]string{"primary": "#ff6600"},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]struct {
		path string
		env  map[string]string
	}{
		"missing file":  {path: "testdata/missing.yaml"},
		"bad timeout":   {env: map[string]string{"MAKERDB_TIMEOUT": "soon"}},
		"bad verbose":   {env: map[string]string{"MAKERDB_VERBOSE": "maybe"}},
		"relative url":  {env: map[string]string{"MAKERDB_BASE_URL": "localhost"}},
		"bad base path": {env: map[string]string{"MAKERDB_BASE_PATH": "db"}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(tc.path, env(tc.env)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	_, err := Load("", env(map[string]string{"MAKERDB_TIMEOUT": "0s"}))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestFlags_OnlyChangedOverride(t *testing.T) {
	fs := pflag.NewFlagSet("makerdb", pflag.ContinueOnError)
	flags := BindFlags(fs)
	if err := fs.Parse([]string{"--config", "testdata/makerdb.yaml", "--theme-variant", "light", "--token", "radius=4px", "-v"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if flags.Path() != "testdata/makerdb.yaml" {
		t.Fatalf("unexpected config path %q", flags.Path())
	}

	cfg, err := Load(flags.Path(), env(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := flags.Apply(&cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.BaseURL != "https://inventory.example.com" {
		t.Fatalf("unchanged flag overrode file: %q", cfg.BaseURL)
	}
	if cfg.Theme.Variant != "light" || !cfg.Verbose {
		t.Fatalf("changed flags not applied: %+v", cfg)
	}
	if diff := cmp.Diff(map[string]string{"primary": "#ff6600", "radius": "4px"}, cfg.Theme.Tokens); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestFlags_BadToken(t *testing.T) {
	fs := pflag.NewFlagSet("makerdb", pflag.ContinueOnError)
	flags := BindFlags(fs)
	if err := fs.Parse([]string{"--token", "novalue"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg := Default()
	if err := flags.Apply(&cfg); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
