package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// catalog is a field.Translator backed by a YAML file of the form
// locale -> key -> text.
type catalog map[string]map[string]string

func loadCatalog(path string) (catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("translations: %w", err)
	}
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("translations: parse %s: %w", path, err)
	}
	return c, nil
}

func (c catalog) Translate(locale, key string, args ...any) (string, error) {
	text, ok := c[locale][key]
	if !ok {
		return "", fmt.Errorf("translations: no %s text for %q", locale, key)
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...), nil
	}
	return text, nil
}
