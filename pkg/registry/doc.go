// Package registry describes the MakerDB entities the toolkit knows how to
// list and edit: their REST collection, display labels, routes and default
// field schemas. The defaults are embedded; callers may overlay their own
// YAML.
package registry
