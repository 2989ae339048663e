// Package history implements the per-buffer undo/redo recorder and stack
// (C5/C6): a Change Notifier listener that groups atomic edits into
// word-bounded HistoryEntry records within a command scope, and a stack
// that applies their inverses through the editor with notification
// suppressed.
//
// # Command scopes
//
// BeginCommand opens a scope; EndCommand commits whatever operations were
// recorded during it as a single HistoryEntry and clears the redo stack
// (a no-op, leaving redo intact, if nothing was recorded). Nested
// BeginCommand calls while
// already in a scope are ignored, mirroring the teacher's group-nesting
// rule.
//
// # Coalescing
//
// Within a scope, consecutive Insert events at contiguous positions are
// merged into one operation unless doing so would cross a
// word-to-non-word character-class boundary; consecutive backward-delete
// events are merged the same way. Forward-delete never coalesces.
//
// # Consistency
//
// Every entry records an FNV-1a hash of the buffer text immediately
// before and after its edits landed. ApplyUndo and ApplyRedo check the
// relevant hash against the buffer's current text before touching it;
// a mismatch is reported as ErrUndoMismatch, a fatal consistency error
// the caller must not silently recover from.
//
// Grounded on the teacher's internal/engine/history package: Operation's
// Range/OldText/NewText/Invert shape, and History's undo/redo stack with
// BeginGroup/EndGroup, generalized from keystorm's byte-offset
// Command-pattern execution to a char-position listener driven by
// internal/notify events instead of explicit Command objects.
package history
