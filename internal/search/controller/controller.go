package controller

import (
	"github.com/nilsbok/alise/internal/cursor"
	"github.com/nilsbok/alise/internal/editor"
	"github.com/nilsbok/alise/internal/search/matcher"
)

// State is the controller's coarse state, per spec.md §4.7. Wrapped and
// Failed are tracked as flags alongside Active rather than as fully
// separate states, since the transition table lets edits recover a
// Failed search back into Active without ever leaving Active's data
// (pattern, direction, start cursor) behind.
type State int

const (
	Idle State = iota
	Active
)

// Controller is the incremental search state machine. The zero value is
// not usable; construct with New.
type Controller struct {
	ed *editor.Editor

	state     State
	pattern   string
	direction matcher.Direction
	opts      matcher.Options

	startCursor cursor.Cursor
	current     matcher.Match
	hasMatch    bool
	failed      bool
	wrapped     bool

	priorPattern string
}

// New returns a Controller searching ed's buffer.
func New(ed *editor.Editor) *Controller {
	return &Controller{ed: ed, opts: matcher.Options{Case: matcher.CaseSmart}}
}

// State reports the controller's current coarse state.
func (c *Controller) State() State { return c.state }

// Pattern returns the pattern accumulated so far.
func (c *Controller) Pattern() string { return c.pattern }

// Failed reports whether the last recompute found no match.
func (c *Controller) Failed() bool { return c.failed }

// Wrapped reports whether the current match was reached by wrapping
// around a buffer boundary.
func (c *Controller) Wrapped() bool { return c.wrapped }

// CurrentMatch returns the controller's current match and whether one
// is selected.
func (c *Controller) CurrentMatch() (matcher.Match, bool) { return c.current, c.hasMatch }

// Start begins (or restarts) an incremental search in dir, snapshotting
// the editor's cursor as the restore point for Cancel. If a prior
// search pattern exists it re-seeds the new search, per spec.md §4.7's
// "re-seed from prior pattern if any" — this is what lets a bare C-s
// immediately after a completed search repeat it.
func (c *Controller) Start(dir matcher.Direction) {
	c.state = Active
	c.direction = dir
	c.failed = false
	c.wrapped = false
	c.hasMatch = false
	c.startCursor = c.ed.Cursor().Cursor
	c.pattern = ""
	if c.priorPattern != "" {
		c.pattern = c.priorPattern
		c.recompute(c.startCursor.CharPos, true)
	}
}

// InputChar appends c to the pattern and recomputes, selecting the
// next match from the current match (or the start cursor, if none yet)
// in the active direction. inclusive search so a still-valid match at
// the same start survives a pattern that only grew longer.
func (c *Controller) InputChar(ch rune) error {
	if c.state != Active {
		return ErrNotActive
	}
	c.pattern += string(ch)
	ref := c.startCursor.CharPos
	if c.hasMatch {
		ref = c.current.Start
	}
	c.recompute(ref, true)
	return nil
}

// DeleteChar shortens the pattern by one scalar. If the pattern becomes
// empty, the controller resets to Idle and clears highlights, per
// spec.md §4.7.
func (c *Controller) DeleteChar() error {
	if c.state != Active {
		return ErrNotActive
	}
	if c.pattern == "" {
		return nil
	}
	r := []rune(c.pattern)
	c.pattern = string(r[:len(r)-1])
	if c.pattern == "" {
		c.state = Idle
		c.hasMatch = false
		c.failed = false
		c.wrapped = false
		return nil
	}
	ref := c.startCursor.CharPos
	if c.hasMatch {
		ref = c.current.Start
	}
	c.recompute(ref, true)
	return nil
}

// Repeat advances to the next (or, on direction reversal, the nearest
// opposite-direction) match, exclusive of the current one, setting
// wrapped if the search had to cross a buffer boundary to find it.
func (c *Controller) Repeat(dir matcher.Direction) error {
	if c.state != Active {
		return ErrNotActive
	}
	c.direction = dir
	if !c.hasMatch {
		c.recompute(c.startCursor.CharPos, true)
		return nil
	}
	var ref int
	if dir == matcher.Forward {
		ref = c.current.End
	} else {
		ref = c.current.Start
	}
	c.recompute(ref, false)
	return nil
}

// Accept commits the search: the cursor stays at the current match,
// the pattern is remembered for the next Start's re-seed, and the
// controller returns to Idle.
func (c *Controller) Accept() {
	if c.pattern != "" {
		c.priorPattern = c.pattern
	}
	c.state = Idle
	c.hasMatch = false
	c.failed = false
	c.wrapped = false
}

// Cancel restores the cursor to the position snapshotted by Start and
// discards the in-progress pattern, returning to Idle.
func (c *Controller) Cancel() {
	c.ed.SetCharPos(c.startCursor.CharPos)
	c.state = Idle
	c.pattern = ""
	c.hasMatch = false
	c.failed = false
	c.wrapped = false
}

// recompute finds every match of the current pattern and selects the
// one nearest ref in the active direction, moving the editor's cursor
// there. inclusive controls whether a match starting exactly at ref is
// an acceptable selection (true for typing, false for Repeat, which
// must advance past the current match).
func (c *Controller) recompute(ref int, inclusive bool) {
	if c.pattern == "" {
		c.hasMatch = false
		c.failed = false
		return
	}
	text := c.ed.Text()
	matches, err := matcher.FindMatches(text, c.pattern, c.opts)
	if err != nil || len(matches) == 0 {
		c.hasMatch = false
		c.failed = true
		return
	}

	m, wrapped := selectMatch(matches, ref, c.direction, inclusive)
	c.current = m
	c.hasMatch = true
	c.failed = false
	if wrapped {
		c.wrapped = true
	}
	c.ed.SetCharPos(m.Start)
}

// selectMatch picks the nearest match to ref in dir from a
// non-overlapping, increasing-Start match list, wrapping to the
// opposite bound if none qualifies.
func selectMatch(matches []matcher.Match, ref int, dir matcher.Direction, inclusive bool) (matcher.Match, bool) {
	if dir == matcher.Forward {
		for _, m := range matches {
			if (inclusive && m.Start >= ref) || (!inclusive && m.Start > ref) {
				return m, false
			}
		}
		return matches[0], true
	}
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		if (inclusive && m.Start <= ref) || (!inclusive && m.Start < ref) {
			return m, false
		}
	}
	return matches[len(matches)-1], true
}

// Status renders an Emacs-style status line for the minibuffer prompt:
// "Failing"/"Wrapped" qualifiers, direction, and the pattern typed so
// far.
func (c *Controller) Status() string {
	prefix := "I-search"
	if c.direction == matcher.Backward {
		prefix = "I-search backward"
	}
	if c.wrapped {
		prefix = "Wrapped " + prefix
	}
	if c.failed {
		prefix = "Failing " + prefix
	}
	return prefix + ": " + c.pattern
}
