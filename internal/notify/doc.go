// Package notify implements a synchronous, buffer-scoped publish/subscribe
// channel carrying ChangeEvent values (Insert, Delete, CursorMove).
//
// Listeners registered with Subscribe are invoked in registration order,
// synchronously: Dispatch does not return until every listener has been
// called. This lets a mutation's caller rely on "mutate then notify then
// return" ordering (spec.md §5) without a separate flush step.
//
// Suppress opens a scope during which Dispatch drops events instead of
// delivering them, used by the history stack (internal/history) while
// applying undo/redo so the recorder does not re-record inverse edits.
//
// Grounded on the sibling bethropolis-tide example's internal/event
// package (Manager.Subscribe/Dispatch over a handler slice, guarded by a
// mutex), generalized from tide's global event-type enum to the three
// ChangeEvent variants this spec names.
package notify
