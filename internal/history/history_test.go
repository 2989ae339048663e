package history

import (
	"errors"
	"testing"

	"github.com/nilsbok/alise/internal/editor"
)

func TestUndoOfWordCoalescesTwoOperations(t *testing.T) {
	ed := editor.New(4)
	h := New(ed, 0)

	h.BeginCommand()
	for _, ch := range "this is" {
		if err := ed.InsertChar(ch); err != nil {
			t.Fatal(err)
		}
		ed.FlushInputBuffer()
	}
	h.EndCommand()

	if got, want := ed.Text(), "this is"; got != want {
		t.Fatalf("text after typing = %q, want %q", got, want)
	}

	if len(h.undo) != 1 {
		t.Fatalf("undo stack depth = %d, want 1", len(h.undo))
	}
	if got := len(h.undo[0].Operations); got != 2 {
		t.Fatalf("coalesced operation count = %d, want 2 (\"this\" and \" is\")", got)
	}
	if h.undo[0].Operations[0].NewText != "this" || h.undo[0].Operations[1].NewText != " is" {
		t.Fatalf("unexpected coalesced operations: %+v", h.undo[0].Operations)
	}

	if err := h.ApplyUndo(); err != nil {
		t.Fatalf("ApplyUndo: %v", err)
	}
	if got := ed.Text(); got != "" {
		t.Fatalf("text after undo = %q, want empty", got)
	}

	if err := h.ApplyRedo(); err != nil {
		t.Fatalf("ApplyRedo: %v", err)
	}
	if got, want := ed.Text(), "this is"; got != want {
		t.Fatalf("text after redo = %q, want %q", got, want)
	}
	if ed.Cursor().CharPos != 7 {
		t.Fatalf("cursor after redo = %d, want 7", ed.Cursor().CharPos)
	}
}

func TestUndoRedoRoundTripArbitraryEdits(t *testing.T) {
	ed := editor.New(4)
	h := New(ed, 0)

	h.BeginCommand()
	_ = ed.InsertStr("hello")
	h.EndCommand()

	h.BeginCommand()
	_ = ed.InsertStr(" world")
	h.EndCommand()

	h.BeginCommand()
	_ = ed.DeleteBackward()
	_ = ed.DeleteBackward()
	h.EndCommand()

	final := ed.Text()

	if err := h.ApplyUndo(); err != nil {
		t.Fatal(err)
	}
	if err := h.ApplyUndo(); err != nil {
		t.Fatal(err)
	}
	if err := h.ApplyUndo(); err != nil {
		t.Fatal(err)
	}
	if got := ed.Text(); got != "" {
		t.Fatalf("text after undoing everything = %q, want empty", got)
	}

	if err := h.ApplyRedo(); err != nil {
		t.Fatal(err)
	}
	if err := h.ApplyRedo(); err != nil {
		t.Fatal(err)
	}
	if err := h.ApplyRedo(); err != nil {
		t.Fatal(err)
	}
	if got := ed.Text(); got != final {
		t.Fatalf("text after redoing everything = %q, want %q", got, final)
	}
}

func TestEditAfterUndoClearsRedo(t *testing.T) {
	ed := editor.New(4)
	h := New(ed, 0)

	h.BeginCommand()
	_ = ed.InsertStr("abc")
	h.EndCommand()

	if err := h.ApplyUndo(); err != nil {
		t.Fatal(err)
	}
	if !h.CanRedo() {
		t.Fatal("expected redo available after undo")
	}

	h.BeginCommand()
	_ = ed.InsertStr("xyz")
	h.EndCommand()

	if h.CanRedo() {
		t.Fatal("redo stack should be cleared by a new edit")
	}
}

func TestForwardDeleteNeverCoalesces(t *testing.T) {
	ed := editor.NewFromString("abcdef", 4)
	h := New(ed, 0)

	h.BeginCommand()
	if err := ed.DeleteForward(); err != nil {
		t.Fatal(err)
	}
	if err := ed.DeleteForward(); err != nil {
		t.Fatal(err)
	}
	h.EndCommand()

	if got := len(h.undo[0].Operations); got != 2 {
		t.Fatalf("forward-delete operation count = %d, want 2 (no coalescing)", got)
	}
}

func TestUndoMismatchDetected(t *testing.T) {
	ed := editor.New(4)
	h := New(ed, 0)

	h.BeginCommand()
	_ = ed.InsertStr("abc")
	h.EndCommand()

	// Mutate the buffer behind history's back, outside any command scope
	// and without going through the recorder's listener semantics, to
	// simulate corruption between commit and undo.
	_ = ed.SafeExecute(func(e *editor.Editor) error {
		return e.ReplaceRange(0, 3, "xyz")
	})

	if err := h.ApplyUndo(); !errors.Is(err, ErrUndoMismatch) {
		t.Fatalf("ApplyUndo after out-of-band mutation = %v, want ErrUndoMismatch", err)
	}
}

func TestNothingToUndoRedo(t *testing.T) {
	ed := editor.New(4)
	h := New(ed, 0)

	if err := h.ApplyUndo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("ApplyUndo on empty stack = %v, want ErrNothingToUndo", err)
	}
	if err := h.ApplyRedo(); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("ApplyRedo on empty stack = %v, want ErrNothingToRedo", err)
	}
}
