// Package editor implements the cursor-relative text editing surface (C4
// in the component inventory): insertion, deletion, and movement over a
// gap buffer, kept in sync with a position calculator, a cursor, and a
// change notifier.
//
// # Coalesced input
//
// Consecutive InsertChar/InsertStr calls at a contiguous cursor position
// are accumulated into an in-memory pending run rather than applied to
// the gap buffer one scalar at a time. The run is materialized — one
// GapBuffer.InsertString call, one ChangeEvent — by FlushInputBuffer,
// which every other operation calls first so the buffer is never
// observed in a partially-pending state from outside the editor.
//
// # Safety
//
// SafeExecute snapshots the editor's text and cursor before running an
// operation and restores both if the operation returns an error,
// following the teacher's history.Command execute/undo split: a failed
// operation must leave the buffer exactly as it found it.
//
// # Newline normalization
//
// InsertStr normalizes "\r\n" and lone "\r" to "\n" before the text
// reaches the gap buffer, so the buffer and position calculator only
// ever see "\n"-delimited lines.
package editor
