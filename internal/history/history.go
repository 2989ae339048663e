package history

import (
	"hash/fnv"
	"sync"
	"unicode/utf8"

	"github.com/nilsbok/alise/internal/cursor"
	"github.com/nilsbok/alise/internal/editor"
	"github.com/nilsbok/alise/internal/notify"
)

// DefaultMaxEntries is the undo stack cap used when History is
// constructed with a non-positive maxEntries.
const DefaultMaxEntries = 1000

// Operation is a single atomic edit recorded for undo/redo: the text
// that occupied [Position, Position+len(OldText)) before the edit, and
// the text that occupies [Position, Position+len(NewText)) after it.
// A pure insertion has an empty OldText; a pure deletion has an empty
// NewText.
type Operation struct {
	Position int
	OldText  string
	NewText  string
}

func (op Operation) isInsert() bool { return op.OldText == "" && op.NewText != "" }

// oldEnd returns the char position one past this operation's pre-edit
// range.
func (op Operation) oldEnd() int { return op.Position + utf8.RuneCountInString(op.OldText) }

// newEnd returns the char position one past this operation's post-edit
// range.
func (op Operation) newEnd() int { return op.Position + utf8.RuneCountInString(op.NewText) }

// invert returns the operation that undoes op.
func (op Operation) invert() Operation {
	return Operation{Position: op.Position, OldText: op.NewText, NewText: op.OldText}
}

// Entry is one coalesced, user-perceived undo unit.
type Entry struct {
	Operations   []Operation
	CursorBefore cursor.Cursor
	CursorAfter  cursor.Cursor

	hashBefore uint64 // text hash at BeginCommand
	hashAfter  uint64 // text hash at EndCommand
}

// History is the per-buffer undo/redo recorder and stack. It subscribes
// itself to ed's Change Notifier and groups the events it observes
// within a command scope into a single Entry.
type History struct {
	mu sync.Mutex

	ed *editor.Editor

	undo []*Entry
	redo []*Entry

	maxEntries int

	inScope        bool
	pending        *Entry
	sawFirstCursor bool
}

// New returns a History recording edits on ed. maxEntries caps the undo
// stack; non-positive uses DefaultMaxEntries.
func New(ed *editor.Editor, maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	h := &History{ed: ed, maxEntries: maxEntries}
	ed.AddChangeListener(h.onEvent)
	return h
}

func textHash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// BeginCommand opens a command scope. Nested calls while already inside
// a scope are ignored.
//
// The text hash is taken before h.mu is acquired: Editor.Text flushes
// any pending coalesced input, which can synchronously dispatch to
// onEvent, which itself locks h.mu. Locking around that call would
// deadlock against the same goroutine.
func (h *History) BeginCommand() {
	before := textHash(h.ed.Text())

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.inScope {
		return
	}
	h.inScope = true
	h.sawFirstCursor = false
	h.pending = &Entry{hashBefore: before}
}

// EndCommand closes the current command scope, committing the entry it
// accumulated (if any) onto the undo stack and, when it commits one,
// clearing the redo stack. It is a no-op if no scope is open.
func (h *History) EndCommand() {
	after := textHash(h.ed.Text())

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.inScope {
		return
	}
	h.inScope = false
	entry := h.pending
	h.pending = nil
	if entry == nil || len(entry.Operations) == 0 {
		return
	}
	entry.hashAfter = after
	h.undo = append(h.undo, entry)
	h.redo = nil
	if len(h.undo) > h.maxEntries {
		excess := len(h.undo) - h.maxEntries
		h.undo = h.undo[excess:]
	}
}

// onEvent is the editor's change listener. Events outside an open
// command scope are ignored: callers are expected to wrap every
// user-perceived edit in BeginCommand/EndCommand.
func (h *History) onEvent(ev notify.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.inScope || h.pending == nil {
		return
	}

	switch ev.Kind {
	case notify.KindInsert:
		h.recordInsert(ev)
	case notify.KindDelete:
		h.recordBackwardDelete(ev)
	case notify.KindDeleteForward:
		h.pending.Operations = append(h.pending.Operations, Operation{Position: ev.Position, OldText: ev.Content})
	case notify.KindCursorMove:
		if !h.sawFirstCursor {
			h.pending.CursorBefore = ev.OldPosition
			h.sawFirstCursor = true
		}
		h.pending.CursorAfter = ev.NewPosition
	}
}

// crossesWordBoundary reports whether, reading prev followed by next in
// logical left-to-right text order, prev ends in a word scalar and next
// begins with a non-word one. Coalescing only terminates on this
// word-to-non-word direction: a word followed by trailing whitespace
// splits into its own operation, but whitespace followed by the next
// word continues to coalesce with it (spec's "this"/" is" example: the
// space groups with the word that follows it, not the one before it).
func crossesWordBoundary(prev, next string) bool {
	if prev == "" || next == "" {
		return false
	}
	prevLast := []rune(prev)
	nextFirst := []rune(next)
	a := prevLast[len(prevLast)-1]
	b := nextFirst[0]
	return editor.IsWordChar(a) && !editor.IsWordChar(b)
}

func (h *History) recordInsert(ev notify.Event) {
	ops := h.pending.Operations
	if n := len(ops); n > 0 {
		last := ops[n-1]
		if last.isInsert() && last.newEnd() == ev.Position && !crossesWordBoundary(last.NewText, ev.Content) {
			ops[n-1].NewText += ev.Content
			h.pending.CursorAfter = cursor.Cursor{CharPos: ev.Position + utf8.RuneCountInString(ev.Content)}
			return
		}
	}
	h.pending.Operations = append(h.pending.Operations, Operation{Position: ev.Position, NewText: ev.Content})
}

// recordBackwardDelete handles KindDelete events, produced by
// DeleteBackward, which arrive with ev.Position equal to one less than
// the previous delete's position on successive backspaces. Coalescing
// prepends the deleted content to the existing operation's OldText and
// walks its Position back to match.
func (h *History) recordBackwardDelete(ev notify.Event) {
	ops := h.pending.Operations
	if n := len(ops); n > 0 {
		last := ops[n-1]
		if last.OldText != "" && last.NewText == "" && last.Position == ev.Position+utf8.RuneCountInString(ev.Content) &&
			!crossesWordBoundary(ev.Content, last.OldText) {
			ops[n-1].OldText = ev.Content + last.OldText
			ops[n-1].Position = ev.Position
			return
		}
	}
	h.pending.Operations = append(h.pending.Operations, Operation{Position: ev.Position, OldText: ev.Content})
}

// apply replaces op's pre-edit range — [op.Position, op.Position+len(op.OldText))
// in the buffer's current text — with op.NewText. Used for both the
// inverted operations ApplyUndo walks and the original operations
// ApplyRedo replays: in both directions, OldText always describes what
// the buffer holds right now at that position.
func (h *History) apply(op Operation) {
	_ = h.ed.SafeExecute(func(ed *editor.Editor) error {
		return ed.ReplaceRange(op.Position, op.oldEnd(), op.NewText)
	})
}

// CanUndo reports whether ApplyUndo would find an entry to apply.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo) > 0
}

// CanRedo reports whether ApplyRedo would find an entry to apply.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo) > 0
}

// ApplyUndo pops the most recent undo entry and applies its operations'
// inverses through the editor, in reverse order, with the editor's
// Change Notifier suppressed so this application is not itself
// recorded. The cursor is restored to CursorBefore and the entry is
// pushed to the redo stack.
func (h *History) ApplyUndo() error {
	h.mu.Lock()
	if len(h.undo) == 0 {
		h.mu.Unlock()
		return ErrNothingToUndo
	}
	entry := h.undo[len(h.undo)-1]
	h.mu.Unlock()

	if textHash(h.ed.Text()) != entry.hashAfter {
		return ErrUndoMismatch
	}

	h.ed.Notifier().Suppress(func() {
		for i := len(entry.Operations) - 1; i >= 0; i-- {
			h.apply(entry.Operations[i].invert())
		}
		h.ed.SetCharPos(entry.CursorBefore.CharPos)
	})

	h.mu.Lock()
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, entry)
	h.mu.Unlock()
	return nil
}

// ApplyRedo pops the most recent redo entry and re-applies its
// operations in forward order, with the Change Notifier suppressed. The
// cursor is restored to CursorAfter and the entry is pushed back to the
// undo stack.
func (h *History) ApplyRedo() error {
	h.mu.Lock()
	if len(h.redo) == 0 {
		h.mu.Unlock()
		return ErrNothingToRedo
	}
	entry := h.redo[len(h.redo)-1]
	h.mu.Unlock()

	if textHash(h.ed.Text()) != entry.hashBefore {
		return ErrUndoMismatch
	}

	h.ed.Notifier().Suppress(func() {
		for _, op := range entry.Operations {
			h.apply(op)
		}
		h.ed.SetCharPos(entry.CursorAfter.CharPos)
	})

	h.mu.Lock()
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, entry)
	h.mu.Unlock()
	return nil
}

// Clear discards all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo = nil
	h.redo = nil
	h.inScope = false
	h.pending = nil
}

// ClearRedo discards the redo stack only, leaving undo history intact.
// A caller that rolls back a span of entries via ApplyUndo (e.g. a
// cancelled query-replace session) uses this to keep the rolled-back
// entries from being available to redo afterward, without disturbing
// any unrelated undo history that predates the rolled-back span.
func (h *History) ClearRedo() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.redo = nil
}

// UndoCount and RedoCount report stack depth, mainly for diagnostics.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo)
}

func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo)
}
