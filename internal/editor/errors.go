package editor

import "errors"

// Errors returned by editor operations. Each corresponds to a kind named
// in spec.md §7's Bounds/boundary taxonomy.
var (
	// ErrAtBufferStart is returned by DeleteBackward/MoveCharBackward-style
	// operations when the cursor is already at char position 0.
	ErrAtBufferStart = errors.New("editor: at buffer start")

	// ErrAtBufferEnd is returned by DeleteForward-style operations when
	// the cursor is already at the last char position.
	ErrAtBufferEnd = errors.New("editor: at buffer end")

	// ErrReentrancy is the value the editor panics with when a change
	// listener attempts to mutate the editor from within its own
	// callback, outside of a suppress scope. It is a fatal consistency
	// error (spec.md §7 Internal kinds).
	ErrReentrancy = errors.New("editor: reentrant mutation from change listener")
)

// Fatal marks errors that must propagate to the outermost event loop
// rather than being displayed and dismissed (spec.md §7).
type fatalError struct{ error }

func (fatalError) Fatal() bool { return true }

// AsFatal wraps err so callers can type-assert `interface{ Fatal() bool }`
// on it.
func AsFatal(err error) error {
	if err == nil {
		return nil
	}
	return fatalError{err}
}
