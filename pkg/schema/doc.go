// Package schema describes editable attributes declaratively. A Field names
// the record key it edits, how it is presented (text, number, select, ...),
// and how candidate values are validated before a save is attempted.
//
// Schemas can be written in Go, loaded from YAML documents, or derived from
// the component schemas of the backend's OpenAPI document.
package schema
