// Package bridge is the minibuffer's alisp evaluation entry point
// (C11): Evaluate reads one top-level form with internal/alisp/reader,
// evaluates it against a persistent internal/alisp/eval.Ctx, and
// formats the result (or error) into the display string the
// minibuffer echo area shows.
//
// Grounded on the teacher's internal/plugin/lua bridge.go: ToGoValue's
// "convert, or report why not" shape becomes Result's success/error
// split, and state.go's single long-lived State wrapping one Lua
// runtime across many DoString calls becomes Bridge wrapping one
// eval.Ctx across many Evaluate calls, so top-level define forms
// accumulate in the same global environment the way the teacher's
// Lua globals persist across plugin calls.
package bridge
