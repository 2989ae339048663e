package history

import (
	"errors"

	"github.com/nilsbok/alise/internal/editor"
)

var (
	// ErrNothingToUndo is returned by ApplyUndo when the undo stack is empty.
	ErrNothingToUndo = errors.New("history: nothing to undo")

	// ErrNothingToRedo is returned by ApplyRedo when the redo stack is empty.
	ErrNothingToRedo = errors.New("history: nothing to redo")

	// ErrUndoMismatch is a fatal consistency error: the buffer's text no
	// longer matches the hash witness recorded when the entry being
	// undone or redone was committed. Callers must not retry; the check
	// runs before the entry is popped, so it stays on its stack and the
	// buffer is left untouched. The value carries editor.AsFatal's
	// Fatal() marker.
	ErrUndoMismatch = editor.AsFatal(errors.New("history: buffer text does not match recorded state (undo mismatch)"))
)
