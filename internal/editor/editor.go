package editor

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nilsbok/alise/internal/cursor"
	"github.com/nilsbok/alise/internal/gapbuffer"
	"github.com/nilsbok/alise/internal/notify"
	"github.com/nilsbok/alise/internal/position"
)

// DefaultTabWidth is used by New when no other width is configured.
// spec.md §3 fixes tab width at 4.
const DefaultTabWidth = 4

// Editor composes a GapBuffer, a position Calculator, a Notifier and an
// ExtendedCursor into the spec's per-buffer editing surface. The zero
// value is not usable; construct with New or NewFromString.
type Editor struct {
	buf      *gapbuffer.GapBuffer
	calc     *position.Calculator
	notifier *notify.Notifier
	cur      cursor.ExtendedCursor
	revision uint64
	tabWidth int

	cachedText     string
	cachedRevision uint64
	cacheValid     bool

	pendingInsert string
	pendingAt     int

	inListener bool
}

// New returns an empty Editor.
func New(tabWidth int) *Editor {
	return NewFromString("", tabWidth)
}

// NewFromString returns an Editor seeded with text, cursor at position 0.
func NewFromString(text string, tabWidth int) *Editor {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	e := &Editor{
		buf:      gapbuffer.FromString(text),
		calc:     position.NewCalculator(),
		notifier: notify.New(),
		tabWidth: tabWidth,
	}
	e.cur = e.resolveCursor(0, cursor.MovementNone)
	return e
}

// AddChangeListener registers l to be called for every Insert, Delete and
// CursorMove event this editor produces.
func (e *Editor) AddChangeListener(l notify.Listener) {
	e.notifier.Subscribe(l)
}

// Notifier exposes the underlying change notifier, e.g. so the history
// recorder can wrap applied undo/redo edits in a Suppress scope.
func (e *Editor) Notifier() *notify.Notifier {
	return e.notifier
}

// Cursor returns the editor's current cursor, flushing any pending
// input first so Line/Column reflect the post-insert position.
func (e *Editor) Cursor() cursor.ExtendedCursor {
	e.FlushInputBuffer()
	return e.cur
}

// VisualColumn returns the cursor's current visual (display) column,
// recomputed from its char position rather than read from
// PreferredColumn, which after a vertical move holds the target column
// a shorter line may have clamped away from.
func (e *Editor) VisualColumn() int {
	e.FlushInputBuffer()
	pos, err := e.calc.CharPosToLineCol(e.text(), e.revision, e.cur.CharPos, e.tabWidth)
	if err != nil {
		return 0
	}
	return pos.VisualColumn
}

// Text materializes the full buffer text, flushing any pending input
// first so the result reflects every call made so far.
func (e *Editor) Text() string {
	e.FlushInputBuffer()
	return e.text()
}

// LenChars returns the number of scalars in the buffer, flushing pending
// input first.
func (e *Editor) LenChars() int {
	e.FlushInputBuffer()
	return e.buf.LenChars()
}

// text returns the cached materialization of the buffer, rebuilding it
// only when the revision has advanced since the last call. It does not
// flush pending input; callers that need a consistent view call
// FlushInputBuffer first.
func (e *Editor) text() string {
	if e.cacheValid && e.cachedRevision == e.revision {
		return e.cachedText
	}
	e.cachedText = e.buf.String()
	e.cachedRevision = e.revision
	e.cacheValid = true
	return e.cachedText
}

func (e *Editor) bump() {
	e.revision++
}

// resolveCursor resolves charPos against the current text into a full
// ExtendedCursor, recording kind as the reason it moved.
func (e *Editor) resolveCursor(charPos int, kind cursor.Movement) cursor.ExtendedCursor {
	pos, err := e.calc.CharPosToLineCol(e.text(), e.revision, charPos, e.tabWidth)
	if err != nil {
		// Recompute against a freshly rebuilt index; a mismatch here means
		// the revision counter and the text fell out of sync.
		e.calc.InvalidateCache()
		pos, _ = e.calc.CharPosToLineCol(e.text(), e.revision, charPos, e.tabWidth)
	}
	next := cursor.Cursor{CharPos: pos.CharPos, Line: pos.Line, Column: pos.LogicalColumn}
	return e.cur.WithMovement(next, kind, pos.VisualColumn)
}

func (e *Editor) setCursor(charPos int, kind cursor.Movement) {
	old := e.cur.Cursor
	e.cur = e.resolveCursor(charPos, kind)
	if old != e.cur.Cursor {
		e.dispatch(notify.Event{Kind: notify.KindCursorMove, OldPosition: old, NewPosition: e.cur.Cursor})
	}
}

func (e *Editor) dispatch(ev notify.Event) {
	if e.inListener {
		panic(ErrReentrancy)
	}
	e.inListener = true
	defer func() { e.inListener = false }()
	e.notifier.Dispatch(ev)
}

// normalizeNewlines rewrites "\r\n" and lone "\r" to "\n" so the buffer
// and position calculator only ever observe "\n"-delimited lines.
func normalizeNewlines(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// InsertChar inserts a single scalar at the cursor, coalescing it into
// the pending input run if it is contiguous with one already open.
func (e *Editor) InsertChar(ch rune) error {
	return e.InsertStr(string(ch))
}

// InsertStr inserts s at the cursor, after newline normalization,
// coalescing it into the pending input run when contiguous.
func (e *Editor) InsertStr(s string) error {
	if s == "" {
		return nil
	}
	s = normalizeNewlines(s)
	if e.pendingInsert != "" && e.pendingAt+utf8.RuneCountInString(e.pendingInsert) != e.cur.CharPos {
		e.FlushInputBuffer()
	}
	if e.pendingInsert == "" {
		e.pendingAt = e.cur.CharPos
	}
	e.pendingInsert += s
	// Advance the cursor optimistically so successive InsertStr calls stay
	// contiguous; FlushInputBuffer performs the real insert and re-fires a
	// CursorMove from the pre-flush position only if it differs afterward.
	e.cur.Cursor.CharPos += utf8.RuneCountInString(s)
	return nil
}

// InsertNewline inserts a line break at the cursor.
func (e *Editor) InsertNewline() error {
	return e.InsertStr("\n")
}

// FlushInputBuffer materializes any pending coalesced input into the gap
// buffer as a single edit, firing one Insert ChangeEvent for the whole
// run. It is a no-op if nothing is pending.
func (e *Editor) FlushInputBuffer() {
	if e.pendingInsert == "" {
		return
	}
	text, at := e.pendingInsert, e.pendingAt
	e.pendingInsert = ""

	if err := e.buf.InsertString(at, text); err != nil {
		// The pending run was built from a previously valid cursor
		// position; a failure here indicates the buffer and cursor have
		// fallen out of sync, which is unrecoverable within this call.
		panic(fmt.Errorf("editor: flush pending insert at %d: %w", at, err))
	}
	e.bump()
	e.cacheValid = false
	e.dispatch(notify.Event{Kind: notify.KindInsert, Position: at, Content: text})
	e.setCursor(at+utf8.RuneCountInString(text), cursor.MovementEdit)
}

// DeleteBackward removes the scalar before the cursor, returning
// ErrAtBufferStart if the cursor is already at char position 0.
func (e *Editor) DeleteBackward() error {
	e.FlushInputBuffer()
	if e.cur.CharPos == 0 {
		return ErrAtBufferStart
	}
	pos := e.cur.CharPos - 1
	r, err := e.buf.Delete(pos)
	if err != nil {
		return err
	}
	e.bump()
	e.cacheValid = false
	e.dispatch(notify.Event{Kind: notify.KindDelete, Position: pos, Content: string(r)})
	e.setCursor(pos, cursor.MovementEdit)
	return nil
}

// DeleteForward removes the scalar at the cursor, returning
// ErrAtBufferEnd if the cursor is already at the last char position.
func (e *Editor) DeleteForward() error {
	e.FlushInputBuffer()
	if e.cur.CharPos >= e.buf.LenChars() {
		return ErrAtBufferEnd
	}
	pos := e.cur.CharPos
	r, err := e.buf.Delete(pos)
	if err != nil {
		return err
	}
	e.bump()
	e.cacheValid = false
	e.dispatch(notify.Event{Kind: notify.KindDeleteForward, Position: pos, Content: string(r)})
	e.setCursor(pos, cursor.MovementEdit)
	return nil
}

// ReplaceRange replaces the text in char range [start, end) with text,
// as a single logical edit (one Delete event followed by one Insert
// event, both suppressed from triggering a double cursor move).
func (e *Editor) ReplaceRange(start, end int, text string) error {
	e.FlushInputBuffer()
	text = normalizeNewlines(text)
	removed, err := e.buf.DeleteRange(start, end)
	if err != nil {
		return err
	}
	e.bump()
	e.cacheValid = false
	if removed != "" {
		e.dispatch(notify.Event{Kind: notify.KindDelete, Position: start, Content: removed})
	}
	if text != "" {
		if err := e.buf.InsertString(start, text); err != nil {
			return err
		}
		e.bump()
		e.cacheValid = false
		e.dispatch(notify.Event{Kind: notify.KindInsert, Position: start, Content: text})
	}
	e.setCursor(start+utf8.RuneCountInString(text), cursor.MovementEdit)
	return nil
}

// MoveCharForward advances the cursor one scalar, clamped to buffer end.
func (e *Editor) MoveCharForward() error {
	e.FlushInputBuffer()
	if e.cur.CharPos >= e.buf.LenChars() {
		return ErrAtBufferEnd
	}
	e.setCursor(e.cur.CharPos+1, cursor.MovementHorizontal)
	return nil
}

// MoveCharBackward retreats the cursor one scalar, clamped to buffer start.
func (e *Editor) MoveCharBackward() error {
	e.FlushInputBuffer()
	if e.cur.CharPos == 0 {
		return ErrAtBufferStart
	}
	e.setCursor(e.cur.CharPos-1, cursor.MovementHorizontal)
	return nil
}

// MoveLineStart moves the cursor to the first char of its current line.
func (e *Editor) MoveLineStart() error {
	e.FlushInputBuffer()
	target, err := e.calc.LineColToCharPos(e.text(), e.revision, e.cur.Line, 0)
	if err != nil {
		return err
	}
	e.setCursor(target, cursor.MovementHorizontal)
	return nil
}

// MoveLineEnd moves the cursor to one past the last char of its current
// line (i.e. just before the line's newline, or buffer end on the last
// line).
func (e *Editor) MoveLineEnd() error {
	e.FlushInputBuffer()
	target, err := e.calc.LineColToCharPos(e.text(), e.revision, e.cur.Line, 1<<30)
	if err != nil {
		return err
	}
	e.setCursor(target, cursor.MovementHorizontal)
	return nil
}

// SetCharPos moves the cursor directly to charPos, clamped to the
// buffer's bounds. Used by internal/history to restore a recorded
// cursor position when applying undo/redo.
func (e *Editor) SetCharPos(charPos int) {
	e.FlushInputBuffer()
	if charPos < 0 {
		charPos = 0
	}
	if max := e.buf.LenChars(); charPos > max {
		charPos = max
	}
	e.setCursor(charPos, cursor.MovementEdit)
}

// MoveBufferStart moves the cursor to char position 0.
func (e *Editor) MoveBufferStart() error {
	e.FlushInputBuffer()
	e.setCursor(0, cursor.MovementHorizontal)
	return nil
}

// MoveBufferEnd moves the cursor to the last char position.
func (e *Editor) MoveBufferEnd() error {
	e.FlushInputBuffer()
	e.setCursor(e.buf.LenChars(), cursor.MovementHorizontal)
	return nil
}

// MoveLineUp moves the cursor up one line, restoring PreferredColumn as
// its target visual column, clamped to the line's length.
func (e *Editor) MoveLineUp() error {
	return e.moveVertical(-1)
}

// MoveLineDown moves the cursor down one line, restoring PreferredColumn
// as its target visual column, clamped to the line's length.
func (e *Editor) MoveLineDown() error {
	return e.moveVertical(1)
}

func (e *Editor) moveVertical(delta int) error {
	e.FlushInputBuffer()
	targetLine := e.cur.Line + delta
	lineCount := e.calc.LineCount(e.text(), e.revision)
	if targetLine < 0 || targetLine >= lineCount {
		if delta < 0 {
			return ErrAtBufferStart
		}
		return ErrAtBufferEnd
	}

	lineStart, err := e.calc.LineColToCharPos(e.text(), e.revision, targetLine, 0)
	if err != nil {
		return err
	}
	lineEnd, err := e.calc.LineColToCharPos(e.text(), e.revision, targetLine, 1<<30)
	if err != nil {
		return err
	}
	lineText, _ := e.buf.Substring(lineStart, lineEnd)
	logicalCol := position.VisualToLogicalColumn(lineText, e.cur.PreferredColumn, e.tabWidth)

	next, err := e.calc.LineColToCharPos(e.text(), e.revision, targetLine, logicalCol)
	if err != nil {
		return err
	}

	pos, err := e.calc.CharPosToLineCol(e.text(), e.revision, next, e.tabWidth)
	if err != nil {
		return err
	}
	old := e.cur.Cursor
	nc := cursor.Cursor{CharPos: pos.CharPos, Line: pos.Line, Column: pos.LogicalColumn}
	e.cur = e.cur.WithMovement(nc, cursor.MovementVertical, pos.VisualColumn)
	if old != e.cur.Cursor {
		e.dispatch(notify.Event{Kind: notify.KindCursorMove, OldPosition: old, NewPosition: e.cur.Cursor})
	}
	return nil
}

// IsWordChar reports whether r is part of a word for word-motion and
// history-coalescing purposes: letters, digits and underscore.
func IsWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// isWordChar is the package-local alias used by movement code.
func isWordChar(r rune) bool { return IsWordChar(r) }

// MoveWordForward skips any non-word scalars then any word scalars,
// landing just past the end of the next word (or at buffer end).
func (e *Editor) MoveWordForward() error {
	e.FlushInputBuffer()
	text := []rune(e.text())
	i := e.cur.CharPos
	n := len(text)
	if i >= n {
		return ErrAtBufferEnd
	}
	for i < n && !isWordChar(text[i]) {
		i++
	}
	for i < n && isWordChar(text[i]) {
		i++
	}
	if i == e.cur.CharPos {
		return ErrAtBufferEnd
	}
	e.setCursor(i, cursor.MovementHorizontal)
	return nil
}

// MoveWordBackward skips any non-word scalars then any word scalars,
// moving backward, landing at the start of the previous word (or at
// buffer start).
func (e *Editor) MoveWordBackward() error {
	e.FlushInputBuffer()
	if e.cur.CharPos == 0 {
		return ErrAtBufferStart
	}
	text := []rune(e.text())
	i := e.cur.CharPos
	for i > 0 && !isWordChar(text[i-1]) {
		i--
	}
	for i > 0 && isWordChar(text[i-1]) {
		i--
	}
	e.setCursor(i, cursor.MovementHorizontal)
	return nil
}

// snapshot captures enough state to restore the editor after a failed
// SafeExecute operation.
type snapshot struct {
	text     string
	cur      cursor.ExtendedCursor
	tabWidth int
}

func (e *Editor) snapshot() snapshot {
	e.FlushInputBuffer()
	return snapshot{text: e.text(), cur: e.cur, tabWidth: e.tabWidth}
}

func (e *Editor) restore(s snapshot) {
	e.notifier.Suppress(func() {
		e.buf = gapbuffer.FromString(s.text)
		e.bump()
		e.cacheValid = false
		e.calc.InvalidateCache()
		e.cur = s.cur
		e.tabWidth = s.tabWidth
	})
}

// SafeExecute snapshots the editor's text and cursor, runs op, and
// restores the snapshot if op returns an error, so a failing operation
// never leaves the buffer partially mutated.
func (e *Editor) SafeExecute(op func(*Editor) error) error {
	snap := e.snapshot()
	if err := op(e); err != nil {
		e.restore(snap)
		return err
	}
	return nil
}
