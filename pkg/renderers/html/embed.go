package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embedded embed.FS

// Templates returns the built-in templates. Callers overriding a template
// can copy from here.
func Templates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
