package app

import (
	"fmt"
	"strings"

	"github.com/nilsbok/alise/internal/alisp/bridge"
	"github.com/nilsbok/alise/internal/config"
	"github.com/nilsbok/alise/internal/editor"
	"github.com/nilsbok/alise/internal/history"
	scontroller "github.com/nilsbok/alise/internal/search/controller"
	"github.com/nilsbok/alise/internal/search/matcher"
	sreplace "github.com/nilsbok/alise/internal/search/replace"
)

// mode is Core's own minibuffer state machine, layered above each
// buffer's search/replace controller state per spec.md §6.
type mode int

const (
	modeNormal mode = iota
	modeCPrefix
	modeSearch
	modeReplacePattern
	modeReplaceReplacement
	modeReplaceActive
	modeAlisp
)

// bufferState bundles one buffer with the controllers that operate on
// it, so Core.HandleEvent never has to re-derive which history or
// search controller belongs to which editor.
type bufferState struct {
	id, name string
	ed       *editor.Editor
	hist     *history.History
	search   *scontroller.Controller
	replace  *sreplace.Controller

	// scopeKind names the kind of editing command the buffer's history
	// scope is currently open for ("insert", "delete_back",
	// "delete_fwd"), or "" when no scope is open. Core.setScope uses it
	// to keep one history.BeginCommand/EndCommand scope spanning a run
	// of same-kind edits, so a continuously typed or backspaced run
	// coalesces into one undo entry (spec.md's word-coalescing
	// scenario) instead of one entry per keystroke.
	scopeKind string
}

// Core is the Editor Core / Dispatch composition root: the single
// entry point a frontend drives through HandleEvent and ViewModel,
// never touching an editor.Editor or history.History directly.
type Core struct {
	cfg config.CoreConfig

	buffers  map[string]*bufferState
	order    []string
	activeID string

	alisp *bridge.Bridge

	mode mode

	// promptInput accumulates keystrokes for the modeReplacePattern /
	// modeReplaceReplacement / modeAlisp prompts, which have no
	// controller of their own to hold them.
	promptInput  []rune
	replaceRegex bool
	replacePat   string

	alispOutput []string
}

// New builds a Core with one scratch buffer, wiring each buffer's
// editor, history, search and replace controllers together the way
// the teacher's composition root wires engine/cursors/history/renderer
// once at construction.
func New(cfg config.CoreConfig) *Core {
	c := &Core{
		cfg:     cfg,
		buffers: make(map[string]*bufferState),
		alisp:   bridge.New(),
	}
	c.alisp.SetOutput(func(s string) {
		c.alispOutput = append(c.alispOutput, s)
	})
	c.NewBuffer("*scratch*", "")
	return c
}

// NewBuffer creates a buffer named name seeded with text, makes it the
// active buffer if it is the first one, and returns its id.
func (c *Core) NewBuffer(name, text string) string {
	id := fmt.Sprintf("buf-%d", len(c.order)+1)
	ed := editor.NewFromString(text, c.cfg.TabWidth)
	hist := history.New(ed, c.cfg.UndoLimit)
	bs := &bufferState{
		id:      id,
		name:    name,
		ed:      ed,
		hist:    hist,
		search:  scontroller.New(ed),
		replace: sreplace.New(ed, hist),
	}
	c.buffers[id] = bs
	c.order = append(c.order, id)
	if c.activeID == "" {
		c.activeID = id
	}
	return id
}

func (c *Core) active() *bufferState {
	return c.buffers[c.activeID]
}

// setScope transitions bs's open history scope to kind, closing and
// committing whatever scope was previously open (if any) first. A
// call with the same kind as the one already open is a no-op, which
// is what lets handleNormalKey call setScope on every keystroke
// without splitting a continuous run of same-kind edits into
// separate undo entries: the scope only actually closes at a command
// boundary, i.e. when kind changes. kind == "" closes the current
// scope without opening a new one, for every non-editing command.
func (c *Core) setScope(bs *bufferState, kind string) {
	if bs.scopeKind == kind {
		return
	}
	if bs.scopeKind != "" {
		bs.hist.EndCommand()
	}
	bs.scopeKind = kind
	if kind != "" {
		bs.hist.BeginCommand()
	}
}

// HandleEvent is the CORE's single entry point, per spec.md §6:
// every keystroke the frontend decodes into a KeyPress is dispatched
// here and answered with a fresh Response.
func (c *Core) HandleEvent(ev FrontendEvent) Response {
	switch c.mode {
	case modeCPrefix:
		return c.handleCPrefixKey(ev.Key)
	case modeSearch:
		return c.handleSearchKey(ev.Key)
	case modeReplacePattern, modeReplaceReplacement:
		return c.handleReplacePromptKey(ev.Key)
	case modeReplaceActive:
		return c.handleReplaceActiveKey(ev.Key)
	case modeAlisp:
		return c.handleAlispKey(ev.Key)
	default:
		return c.handleNormalKey(ev.Key)
	}
}

func isPrintable(k KeyPress) bool {
	return k.Special == KeyNone && !k.Ctrl && !k.Alt && k.Code != 0
}

// handleNormalKey implements spec.md §6's canonical key-binding table
// for the default (no minibuffer activity) mode. Any sequence not
// named in the table falls through to silent ignore, per the table's
// own rule for an unmapped C-x suffix generalized to every key.
func (c *Core) handleNormalKey(k KeyPress) Response {
	bs := c.active()

	switch {
	case isPrintable(k):
		c.setScope(bs, "insert")
		err := bs.ed.InsertChar(k.Code)
		bs.ed.FlushInputBuffer()
		return c.respondErr(err)
	case k.Special == KeyEnter:
		c.setScope(bs, "insert")
		err := bs.ed.InsertNewline()
		bs.ed.FlushInputBuffer()
		return c.respondErr(err)
	case k.Special == KeyBackspace || (k.Ctrl && k.Code == 'h'):
		c.setScope(bs, "delete_back")
		return c.respondErr(bs.ed.DeleteBackward())
	case k.Special == KeyDelete || (k.Ctrl && k.Code == 'd'):
		c.setScope(bs, "delete_fwd")
		return c.respondErr(bs.ed.DeleteForward())
	case (k.Ctrl && k.Code == 'f') || k.Special == KeyArrowRight:
		c.setScope(bs, "")
		return c.respondErr(bs.ed.MoveCharForward())
	case (k.Ctrl && k.Code == 'b') || k.Special == KeyArrowLeft:
		c.setScope(bs, "")
		return c.respondErr(bs.ed.MoveCharBackward())
	case (k.Ctrl && k.Code == 'n') || k.Special == KeyArrowDown:
		c.setScope(bs, "")
		return c.respondErr(bs.ed.MoveLineDown())
	case (k.Ctrl && k.Code == 'p') || k.Special == KeyArrowUp:
		c.setScope(bs, "")
		return c.respondErr(bs.ed.MoveLineUp())
	case k.Ctrl && k.Code == 'a':
		c.setScope(bs, "")
		return c.respondErr(bs.ed.MoveLineStart())
	case k.Ctrl && k.Code == 'e':
		c.setScope(bs, "")
		return c.respondErr(bs.ed.MoveLineEnd())
	case k.Alt && k.Code == '<':
		c.setScope(bs, "")
		return c.respondErr(bs.ed.MoveBufferStart())
	case k.Alt && k.Code == '>':
		c.setScope(bs, "")
		return c.respondErr(bs.ed.MoveBufferEnd())
	case k.Alt && k.Code == 'f':
		c.setScope(bs, "")
		return c.respondErr(bs.ed.MoveWordForward())
	case k.Alt && k.Code == 'b':
		c.setScope(bs, "")
		return c.respondErr(bs.ed.MoveWordBackward())
	case k.Ctrl && (k.Code == '/' || k.Code == '_'):
		c.setScope(bs, "")
		return c.respondErr(bs.hist.ApplyUndo())
	case k.Ctrl && k.Code == '.':
		c.setScope(bs, "")
		return c.respondErr(bs.hist.ApplyRedo())
	case k.Ctrl && k.Code == 's':
		c.setScope(bs, "")
		bs.ed.FlushInputBuffer()
		bs.search.Start(matcher.Forward)
		c.mode = modeSearch
		return c.respond(nil)
	case k.Ctrl && k.Code == 'r':
		c.setScope(bs, "")
		bs.ed.FlushInputBuffer()
		bs.search.Start(matcher.Backward)
		c.mode = modeSearch
		return c.respond(nil)
	case k.Ctrl && k.Alt && k.Code == '%':
		c.setScope(bs, "")
		bs.ed.FlushInputBuffer()
		c.beginReplacePrompt(true)
		return c.respond(nil)
	case k.Alt && k.Code == '%':
		c.setScope(bs, "")
		bs.ed.FlushInputBuffer()
		c.beginReplacePrompt(false)
		return c.respond(nil)
	case k.Ctrl && k.Code == 'x':
		c.setScope(bs, "")
		c.mode = modeCPrefix
		return c.respond(nil)
	case k.Alt && k.Code == 'x':
		c.setScope(bs, "")
		return c.respondExternal("execute_named_command")
	case k.Ctrl && k.Code == 'g':
		c.setScope(bs, "")
		return c.respond(nil)
	default:
		c.setScope(bs, "")
		return c.respond(nil)
	}
}

func (c *Core) beginReplacePrompt(regex bool) {
	c.mode = modeReplacePattern
	c.replaceRegex = regex
	c.promptInput = nil
	c.replacePat = ""
}

// handleCPrefixKey dispatches the C-x prefix's two-key sequences.
// find_file/save_buffer/quit are external per spec.md §1's Non-goals:
// Core only flags the request and returns to normal mode. An
// unrecognized suffix is a silent ignore, per spec.md §6.
func (c *Core) handleCPrefixKey(k KeyPress) Response {
	c.mode = modeNormal
	switch {
	case k.Ctrl && k.Code == 'f':
		return c.respondExternal("find_file")
	case k.Ctrl && k.Code == 's':
		return c.respondExternal("save_buffer")
	case k.Ctrl && k.Code == 'c':
		return c.respondExternal("quit")
	default:
		return c.respond(nil)
	}
}

func (c *Core) respondExternal(kind string) Response {
	r := c.respond(nil)
	r.External = &ExternalRequest{Kind: kind}
	return r
}

// handleSearchKey drives the incremental search minibuffer, per
// spec.md §4.7/§6. Any key outside the search's own small alphabet
// (more input, Backspace, repeat, cancel, accept) ends the search and
// re-dispatches the key as an ordinary command, matching the
// Emacs convention that any non-search command exits isearch first.
func (c *Core) handleSearchKey(k KeyPress) Response {
	bs := c.active()
	switch {
	case k.Ctrl && k.Code == 'g':
		bs.search.Cancel()
		c.mode = modeNormal
		return c.respond(nil)
	case k.Special == KeyEnter:
		bs.search.Accept()
		c.mode = modeNormal
		return c.respond(nil)
	case k.Special == KeyBackspace || (k.Ctrl && k.Code == 'h'):
		return c.respondErr(bs.search.DeleteChar())
	case k.Ctrl && k.Code == 's':
		return c.respondErr(bs.search.Repeat(matcher.Forward))
	case k.Ctrl && k.Code == 'r':
		return c.respondErr(bs.search.Repeat(matcher.Backward))
	case isPrintable(k):
		return c.respondErr(bs.search.InputChar(k.Code))
	default:
		bs.search.Accept()
		c.mode = modeNormal
		return c.handleNormalKey(k)
	}
}

// handleReplacePromptKey collects the pattern, then the replacement,
// for query-replace, the way the minibuffer gathers two sequential
// strings before the interactive loop in spec.md §4.8 begins.
func (c *Core) handleReplacePromptKey(k KeyPress) Response {
	bs := c.active()
	switch {
	case k.Ctrl && k.Code == 'g':
		c.mode = modeNormal
		c.promptInput = nil
		return c.respond(nil)
	case k.Special == KeyBackspace || (k.Ctrl && k.Code == 'h'):
		if n := len(c.promptInput); n > 0 {
			c.promptInput = c.promptInput[:n-1]
		}
		return c.respond(nil)
	case k.Special == KeyEnter:
		text := string(c.promptInput)
		c.promptInput = nil
		if c.mode == modeReplacePattern {
			c.replacePat = text
			c.mode = modeReplaceReplacement
			return c.respond(nil)
		}
		var err error
		if c.replaceRegex {
			err = bs.replace.StartRegex(c.replacePat, text)
		} else {
			err = bs.replace.Start(c.replacePat, text, c.cfg.Search.Options())
		}
		if err != nil {
			c.mode = modeNormal
			return c.respond(errorMessage(err.Error()))
		}
		c.mode = modeReplaceActive
		return c.respond(nil)
	case isPrintable(k):
		c.promptInput = append(c.promptInput, k.Code)
		return c.respond(nil)
	default:
		return c.respond(nil)
	}
}

// handleReplaceActiveKey drives the interactive accept/skip loop, per
// spec.md §4.8's y/n/!/^/q convention: y accepts, n skips, ! accepts
// every remaining match, u undoes the last accepted replacement, and
// q or C-g ends the session (rolling back via Cancel for C-g, leaving
// accepted replacements in place for q).
func (c *Core) handleReplaceActiveKey(k KeyPress) Response {
	bs := c.active()
	finish := func(msg *UserMessage) Response {
		c.mode = modeNormal
		return c.respond(msg)
	}

	switch {
	case k.Ctrl && k.Code == 'g':
		if err := bs.replace.Cancel(); err != nil {
			return finish(errorMessage(err.Error()))
		}
		return finish(nil)
	case isPrintable(k) && (k.Code == 'q' || k.Code == '\r'):
		replaced, skipped := bs.replace.Summary()
		return finish(infoMessage(fmt.Sprintf("Replaced %d occurrence(s), skipped %d", replaced, skipped)))
	case isPrintable(k) && (k.Code == 'y' || k.Code == ' '):
		if err := bs.replace.Accept(); err != nil {
			return c.afterReplaceStep(err)
		}
		return c.afterReplaceStep(nil)
	case isPrintable(k) && k.Code == 'n':
		if err := bs.replace.Skip(); err != nil {
			return c.afterReplaceStep(err)
		}
		return c.afterReplaceStep(nil)
	case isPrintable(k) && k.Code == '!':
		if err := bs.replace.AcceptAll(); err != nil {
			return finish(errorMessage(err.Error()))
		}
		replaced, skipped := bs.replace.Summary()
		return finish(infoMessage(fmt.Sprintf("Replaced %d occurrence(s), skipped %d", replaced, skipped)))
	case isPrintable(k) && k.Code == 'u':
		return c.respondErr(bs.replace.UndoLast())
	default:
		return c.respond(nil)
	}
}

// afterReplaceStep checks whether the plan is exhausted after an
// Accept/Skip and, if so, reports the summary and returns to normal
// mode instead of leaving the minibuffer waiting on a finished plan.
func (c *Core) afterReplaceStep(err error) Response {
	bs := c.active()
	if err != nil && err != sreplace.ErrDone {
		c.mode = modeNormal
		return c.respond(errorMessage(err.Error()))
	}
	if bs.replace.Done() {
		replaced, skipped := bs.replace.Summary()
		c.mode = modeNormal
		return c.respond(infoMessage(fmt.Sprintf("Replaced %d occurrence(s), skipped %d", replaced, skipped)))
	}
	return c.respond(nil)
}

// handleAlispKey drives the `alisp-eval-expression` minibuffer prompt
// named in spec.md §6: a single-line expression is gathered and
// handed to the bridge on Enter.
func (c *Core) handleAlispKey(k KeyPress) Response {
	switch {
	case k.Ctrl && k.Code == 'g':
		c.mode = modeNormal
		c.promptInput = nil
		return c.respond(nil)
	case k.Special == KeyBackspace || (k.Ctrl && k.Code == 'h'):
		if n := len(c.promptInput); n > 0 {
			c.promptInput = c.promptInput[:n-1]
		}
		return c.respond(nil)
	case k.Special == KeyEnter:
		expr := string(c.promptInput)
		c.promptInput = nil
		c.mode = modeNormal
		result := c.alisp.Evaluate(expr)
		if !result.Success {
			return c.respond(errorMessage(result.ErrorMessage))
		}
		return c.respond(infoMessage(result.Display))
	case isPrintable(k):
		c.promptInput = append(c.promptInput, k.Code)
		return c.respond(nil)
	default:
		return c.respond(nil)
	}
}

// StartAlispEval enters the alisp-eval-expression minibuffer prompt.
// Named explicitly rather than bound to a key, since spec.md §6 lists
// it as an M-x named command rather than part of the direct key table.
func (c *Core) StartAlispEval() {
	c.mode = modeAlisp
	c.promptInput = nil
}

func (c *Core) respondErr(err error) Response {
	if err == nil {
		return c.respond(nil)
	}
	if f, ok := err.(interface{ Fatal() bool }); ok && f.Fatal() {
		r := c.respond(nil)
		r.Fatal = errorMessage(err.Error())
		return r
	}
	return c.respond(errorMessage(err.Error()))
}

// respond materializes the current state into a Response, per
// spec.md §6's ViewModel shape.
func (c *Core) respond(msg *UserMessage) Response {
	return Response{Model: c.ViewModel(), Message: msg}
}

// ViewModel renders every buffer, the minibuffer, the mode line, and
// (while a search is active) the search status bar from live state,
// per spec.md §6.
func (c *Core) ViewModel() ViewModel {
	vm := ViewModel{ActiveBufferID: c.activeID}
	for _, id := range c.order {
		bs := c.buffers[id]
		cur := bs.ed.Cursor()
		vm.Buffers = append(vm.Buffers, BufferView{
			ID:          bs.id,
			DisplayName: bs.name,
			Lines:       strings.Split(bs.ed.Text(), "\n"),
			CursorLine:  cur.Line,
			CursorCol:   cur.Column,
			Modified:    bs.hist.UndoCount() > 0,
		})
	}

	bs := c.active()
	cur := bs.ed.Cursor()
	vm.ModeLine = ModeLineView{
		FileName: bs.name,
		Modified: bs.hist.UndoCount() > 0,
		Line:     cur.Line,
		Column:   cur.Column,
		Encoding: "UTF-8",
	}

	switch c.mode {
	case modeSearch:
		vm.Minibuffer = MinibufferView{Mode: MinibufferPrompt, Prompt: bs.search.Status()}
		vm.SearchUI = c.searchUIView(bs)
	case modeReplacePattern:
		vm.Minibuffer = MinibufferView{Mode: MinibufferPrompt, Prompt: "Query replace: ", Input: string(c.promptInput)}
	case modeReplaceReplacement:
		vm.Minibuffer = MinibufferView{Mode: MinibufferPrompt, Prompt: "Query replace " + c.replacePat + " with: ", Input: string(c.promptInput)}
	case modeReplaceActive:
		replaced, _ := bs.replace.Summary()
		vm.Minibuffer = MinibufferView{Mode: MinibufferPrompt, Prompt: fmt.Sprintf("Query replacing (y/n/!/u/q)... (%d done)", replaced)}
	case modeAlisp:
		vm.Minibuffer = MinibufferView{Mode: MinibufferPrompt, Prompt: "Eval: ", Input: string(c.promptInput)}
	default:
		vm.Minibuffer = MinibufferView{Mode: MinibufferInactive}
	}
	return vm
}

func (c *Core) searchUIView(bs *bufferState) *SearchUIView {
	label := "I-search"
	if _, ok := bs.search.CurrentMatch(); !ok && bs.search.Failed() {
		label = "Failing I-search"
	}
	status := SearchActive
	switch {
	case bs.search.Failed():
		status = SearchNotFound
	case bs.search.Wrapped():
		status = SearchWrapped
	}
	return &SearchUIView{
		PromptLabel: label,
		Pattern:     bs.search.Pattern(),
		Status:      status,
	}
}
