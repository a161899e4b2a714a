// Package template defines the engine contract HTML renderers depend on.
// The pongo subpackage provides the default implementation.
package template
