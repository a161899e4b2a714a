// Package html renders form views as HTML fragments and pages using pongo2
// templates. Themes come from go-theme manifests; custom fields render
// through a components.Registry and their markup is sanitised before it is
// emitted.
package html
