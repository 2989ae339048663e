// Package cursor defines the editor's cursor position types.
package cursor

import "fmt"

// Movement records why a cursor last moved, so vertical-movement column
// memory (PreferredColumn) can be reset on any movement that isn't itself
// vertical.
type Movement int

const (
	// MovementNone means the cursor has not moved yet.
	MovementNone Movement = iota
	// MovementHorizontal is a char/word/line-start/line-end/buffer-bounds move.
	MovementHorizontal
	// MovementVertical is a line-up/line-down move.
	MovementVertical
	// MovementEdit is a move caused by an insert/delete landing the cursor.
	MovementEdit
)

// Cursor is a char-indexed insertion point. CharPos counts Unicode scalar
// values from the start of the text.
type Cursor struct {
	CharPos int
	Line    int
	Column  int // logical column
}

// New returns a cursor at the given char position; Line/Column are left
// at zero until resolved against a buffer snapshot (see ExtendedCursor
// and the editor package, which always keeps them in sync).
func New(charPos int) Cursor {
	if charPos < 0 {
		charPos = 0
	}
	return Cursor{CharPos: charPos}
}

// String implements fmt.Stringer.
func (c Cursor) String() string {
	return fmt.Sprintf("Cursor(%d:%d:%d)", c.Line, c.Column, c.CharPos)
}

// ExtendedCursor adds vertical-movement column memory to Cursor.
type ExtendedCursor struct {
	Cursor
	PreferredColumn int // visual column to restore on line-up/line-down
	LastMovement    Movement
}

// NewExtended returns an ExtendedCursor at the given char position.
func NewExtended(charPos int) ExtendedCursor {
	return ExtendedCursor{Cursor: New(charPos)}
}

// WithMovement returns a copy of c updated to the given cursor value and
// movement kind. If kind is not MovementVertical, PreferredColumn is
// reset to the new cursor's visual column so a later up/down restores
// from here, not from whatever vertical run preceded it.
func (c ExtendedCursor) WithMovement(next Cursor, kind Movement, visualColumn int) ExtendedCursor {
	out := ExtendedCursor{Cursor: next, LastMovement: kind}
	if kind == MovementVertical {
		out.PreferredColumn = c.PreferredColumn
	} else {
		out.PreferredColumn = visualColumn
	}
	return out
}
