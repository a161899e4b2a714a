// Package field implements the inline edit lifecycle of a single record
// attribute.
//
// A Field moves through idle, editing, saving, success and error. User
// gestures (Activate, Input, Press, Confirm, Cancel) drive the first half of
// the cycle and emit focus, save and cancel events; the owner of the record
// resolves a save with Succeed or Fail. Success reverts to idle after a
// display delay. Local validation happens before a save is emitted and its
// errors stay on the Field.
//
// A Field without an EventHandler owns its own persistence: a commit is
// resolved immediately as a success.
package field
