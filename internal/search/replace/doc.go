// Package replace implements the Query-Replace Controller (C9): an
// interactive accept/skip/accept_all/cancel/undo_last loop over a
// Replace Plan built from internal/search/matcher (literal mode) or the
// standard library regexp package (regex mode), with each accepted
// replacement applied through internal/editor inside its own
// internal/history command scope so cancel and undo_last can roll back
// through the ordinary undo stack rather than a separate mechanism.
//
// Grounded on the teacher's internal/dispatcher/handlers/search
// package: replaceInRange's "process in an order that keeps earlier
// positions valid, wrap each edit in a history group" shape becomes
// Controller's per-accept BeginCommand/EndCommand scope, and its
// regex-mode ReplaceAllStringFunc becomes expandTemplate's $n/case-
// escape expansion. Regex mode uses the standard library regexp
// package directly, the same choice the teacher's own handler makes
// over a third-party engine.
package replace
