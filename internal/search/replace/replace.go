package replace

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nilsbok/alise/internal/cursor"
	"github.com/nilsbok/alise/internal/editor"
	"github.com/nilsbok/alise/internal/history"
	"github.com/nilsbok/alise/internal/search/matcher"
)

// appliedStep records one accepted replacement so UndoLast can reverse
// exactly it: which plan slot it was, and how far it shifted every
// later slot's positions.
type appliedStep struct {
	planIndex int
	shift     int
}

// Controller drives an interactive query-replace over ed's buffer,
// applying each accepted replacement through hist so the ordinary
// undo/redo stack stays authoritative for Cancel and UndoLast.
type Controller struct {
	ed   *editor.Editor
	hist *history.History

	active      bool
	regexMode   bool
	replacement string
	groups      [][]string // regex mode only; groups[i] for plan[i]

	plan        []matcher.Match
	idx         int
	startCursor cursor.Cursor

	replaced int
	skipped  int
	applied  []appliedStep
}

// New returns a Controller operating on ed, applying accepted
// replacements through hist.
func New(ed *editor.Editor, hist *history.History) *Controller {
	return &Controller{ed: ed, hist: hist}
}

// Start builds a literal-mode Replace Plan for pattern, enumerating
// every match from the cursor forward and wrapping once, per spec.
func (c *Controller) Start(pattern, replacement string, opts matcher.Options) error {
	if pattern == "" {
		return ErrPatternEmpty
	}
	text := c.ed.Text()
	matches, err := matcher.FindMatches(text, pattern, opts)
	if err != nil {
		return err
	}
	c.beginPlan(planFrom(matches, c.ed.Cursor().CharPos), nil, replacement, false)
	return nil
}

// StartRegex builds a regex-mode Replace Plan. replacement may
// reference capture groups with $n and apply \u \l \U \L \E case
// transforms to the referenced group text, per spec.md §4.8.
func (c *Controller) StartRegex(pattern, replacement string) error {
	if pattern == "" {
		return ErrPatternEmpty
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	text := c.ed.Text()
	matches, groups := regexMatches(re, text)
	plan, orderedGroups := planFromWithGroups(matches, groups, c.ed.Cursor().CharPos)
	c.beginPlan(plan, orderedGroups, replacement, true)
	return nil
}

func (c *Controller) beginPlan(plan []matcher.Match, groups [][]string, replacement string, regexMode bool) {
	c.active = true
	c.regexMode = regexMode
	c.replacement = replacement
	c.groups = groups
	c.plan = plan
	c.idx = 0
	c.startCursor = c.ed.Cursor().Cursor
	c.replaced = 0
	c.skipped = 0
	c.applied = nil
}

// planFrom reorders matches to start at the first one at or after
// from, wrapping the earlier ones to the end, so the plan walks the
// buffer starting from the cursor and wraps exactly once.
func planFrom(matches []matcher.Match, from int) []matcher.Match {
	var head, tail []matcher.Match
	for _, m := range matches {
		if m.Start >= from {
			head = append(head, m)
		} else {
			tail = append(tail, m)
		}
	}
	return append(head, tail...)
}

// planFromWithGroups reorders matches exactly as planFrom does, moving
// each match's parallel groups entry along with it so regex-mode plan
// slots and their capture groups stay paired after the wrap.
func planFromWithGroups(matches []matcher.Match, groups [][]string, from int) ([]matcher.Match, [][]string) {
	var headM, tailM []matcher.Match
	var headG, tailG [][]string
	for i, m := range matches {
		if m.Start >= from {
			headM = append(headM, m)
			headG = append(headG, groups[i])
		} else {
			tailM = append(tailM, m)
			tailG = append(tailG, groups[i])
		}
	}
	return append(headM, tailM...), append(headG, tailG...)
}

// regexMatches runs re over text and returns every non-overlapping
// match's char-position range alongside its captured group texts
// (group 0 is the whole match), in increasing Start order.
func regexMatches(re *regexp.Regexp, text string) ([]matcher.Match, [][]string) {
	locs := re.FindAllStringSubmatchIndex(text, -1)
	matches := make([]matcher.Match, 0, len(locs))
	groups := make([][]string, 0, len(locs))
	for _, loc := range locs {
		start := utf8.RuneCountInString(text[:loc[0]])
		end := utf8.RuneCountInString(text[:loc[1]])
		matches = append(matches, matcher.Match{Start: start, End: end})

		gs := make([]string, 0, len(loc)/2)
		for g := 0; g*2 < len(loc); g++ {
			gi, gj := loc[g*2], loc[g*2+1]
			if gi < 0 {
				gs = append(gs, "")
				continue
			}
			gs = append(gs, text[gi:gj])
		}
		groups = append(groups, gs)
	}
	return matches, groups
}

// Current returns the plan slot the controller is positioned at, and
// whether one remains.
func (c *Controller) Current() (matcher.Match, bool) {
	if !c.active || c.idx >= len(c.plan) {
		return matcher.Match{}, false
	}
	return c.plan[c.idx], true
}

// Done reports whether every plan slot has been visited.
func (c *Controller) Done() bool {
	return c.active && c.idx >= len(c.plan)
}

func (c *Controller) replacementFor(idx int) string {
	if !c.regexMode {
		return c.replacement
	}
	return expandTemplate(c.replacement, c.groups[idx])
}

// Accept applies the replacement at the current plan slot inside its
// own history command scope, then shifts every later slot's range by
// len(replacement) − (end − start), per spec.md §4.8.
func (c *Controller) Accept() error {
	if !c.active {
		return ErrNotActive
	}
	if c.idx >= len(c.plan) {
		return ErrDone
	}
	m := c.plan[c.idx]
	repl := c.replacementFor(c.idx)

	c.hist.BeginCommand()
	err := c.ed.SafeExecute(func(ed *editor.Editor) error {
		return ed.ReplaceRange(m.Start, m.End, repl)
	})
	c.hist.EndCommand()
	if err != nil {
		return err
	}

	shift := utf8.RuneCountInString(repl) - (m.End - m.Start)
	for i := c.idx + 1; i < len(c.plan); i++ {
		c.plan[i].Start += shift
		c.plan[i].End += shift
	}
	c.applied = append(c.applied, appliedStep{planIndex: c.idx, shift: shift})
	c.replaced++
	c.idx++
	return nil
}

// Skip advances past the current plan slot without modifying the
// buffer.
func (c *Controller) Skip() error {
	if !c.active {
		return ErrNotActive
	}
	if c.idx >= len(c.plan) {
		return ErrDone
	}
	c.skipped++
	c.idx++
	return nil
}

// AcceptAll accepts every remaining plan slot.
func (c *Controller) AcceptAll() error {
	if !c.active {
		return ErrNotActive
	}
	for c.idx < len(c.plan) {
		if err := c.Accept(); err != nil {
			return err
		}
	}
	return nil
}

// Cancel rolls back every accepted replacement in this plan via the
// history undo stack, restores the cursor to the position Start
// snapshotted, and ends the plan. The rolled-back entries are then
// dropped from the redo stack too: they were never a user-requested
// undo, so a later C-. in the buffer must not be able to bring a
// cancelled replacement back.
func (c *Controller) Cancel() error {
	if !c.active {
		return ErrNotActive
	}
	for range c.applied {
		if err := c.hist.ApplyUndo(); err != nil {
			return err
		}
	}
	c.hist.ClearRedo()
	c.ed.SetCharPos(c.startCursor.CharPos)
	c.active = false
	return nil
}

// UndoLast pops the most recently accepted replacement, undoes it
// through the history stack, and rewinds the plan cursor and later
// slots' shifted positions back to where they stood before that
// accept.
func (c *Controller) UndoLast() error {
	if !c.active {
		return ErrNotActive
	}
	if len(c.applied) == 0 {
		return ErrNothingAccepted
	}
	last := c.applied[len(c.applied)-1]
	c.applied = c.applied[:len(c.applied)-1]

	if err := c.hist.ApplyUndo(); err != nil {
		return err
	}
	for i := last.planIndex + 1; i < len(c.plan); i++ {
		c.plan[i].Start -= last.shift
		c.plan[i].End -= last.shift
	}
	c.idx = last.planIndex
	c.replaced--
	return nil
}

// Summary reports the plan's final accept/skip counts. Callers finish
// the loop (accept on Enter after the last slot) by checking Done and
// reading Summary.
func (c *Controller) Summary() (replaced, skipped int) {
	return c.replaced, c.skipped
}

// expandTemplate resolves $n capture references and \u \l \U \L \E
// case-transform escapes against groups (group 0 is the whole match).
// \u/\l upper/lowercase the single next emitted scalar; \U/\L hold
// upper/lowercase until \E or the template ends.
func expandTemplate(tmpl string, groups []string) string {
	var b strings.Builder
	runes := []rune(tmpl)
	var mode rune // 'U', 'L', or 0
	var oneShot rune

	emit := func(s string) {
		for _, r := range s {
			switch {
			case oneShot == 'u':
				r = unicode.ToUpper(r)
				oneShot = 0
			case oneShot == 'l':
				r = unicode.ToLower(r)
				oneShot = 0
			case mode == 'U':
				r = unicode.ToUpper(r)
			case mode == 'L':
				r = unicode.ToLower(r)
			}
			b.WriteRune(r)
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes):
			switch runes[i+1] {
			case 'u':
				oneShot = 'u'
				i++
			case 'l':
				oneShot = 'l'
				i++
			case 'U':
				mode = 'U'
				i++
			case 'L':
				mode = 'L'
				i++
			case 'E':
				mode = 0
				i++
			default:
				emit(string(r))
			}
		case r == '$' && i+1 < len(runes) && unicode.IsDigit(runes[i+1]):
			j := i + 1
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			n, _ := strconv.Atoi(string(runes[i+1 : j]))
			if n < len(groups) {
				emit(groups[n])
			}
			i = j - 1
		default:
			emit(string(r))
		}
	}
	return b.String()
}
