// Package form composes fields over records persisted through the REST
// client.
//
// View edits one record field by field, TabsView partitions the same
// lifecycle into named tabs, and InlineView manages a list of child records
// (a project's BOM lines, an order's line items) with add, delete and
// per-row inline editing. Views own their fields: a field's save event
// becomes one PATCH (or PUT) and the outcome is pushed back into the field's
// state.
package form
