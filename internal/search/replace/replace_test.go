package replace

import (
	"testing"

	"github.com/nilsbok/alise/internal/editor"
	"github.com/nilsbok/alise/internal/history"
	"github.com/nilsbok/alise/internal/search/matcher"
)

func newHarness(t *testing.T, text string) (*editor.Editor, *history.History, *Controller) {
	t.Helper()
	ed := editor.NewFromString(text, 4)
	h := history.New(ed, 0)
	return ed, h, New(ed, h)
}

func TestQueryReplaceCancelRollsBack(t *testing.T) {
	ed, _, c := newHarness(t, "a b a b a")
	if err := c.Start("a", "X", matcher.Options{Case: matcher.CaseSensitive}); err != nil {
		t.Fatal(err)
	}
	if err := c.Accept(); err != nil {
		t.Fatal(err)
	}
	if err := c.Accept(); err != nil {
		t.Fatal(err)
	}
	if err := c.Cancel(); err != nil {
		t.Fatal(err)
	}
	if got := ed.Text(); got != "a b a b a" {
		t.Fatalf("text after cancel = %q, want original restored", got)
	}
	if got := ed.Cursor().CharPos; got != 0 {
		t.Fatalf("cursor after cancel = %d, want 0", got)
	}
}

func TestQueryReplaceAcceptAllAndSummary(t *testing.T) {
	_, _, c := newHarness(t, "a b a b a")
	if err := c.Start("a", "X", matcher.Options{Case: matcher.CaseSensitive}); err != nil {
		t.Fatal(err)
	}
	if err := c.AcceptAll(); err != nil {
		t.Fatal(err)
	}
	replaced, skipped := c.Summary()
	if replaced != 3 || skipped != 0 {
		t.Fatalf("summary = {%d,%d}, want {3,0}", replaced, skipped)
	}
	if !c.Done() {
		t.Fatal("expected plan done after AcceptAll")
	}
}

func TestQueryReplaceSkipAdvancesWithoutEditing(t *testing.T) {
	ed, _, c := newHarness(t, "a b a")
	if err := c.Start("a", "X", matcher.Options{Case: matcher.CaseSensitive}); err != nil {
		t.Fatal(err)
	}
	if err := c.Skip(); err != nil {
		t.Fatal(err)
	}
	if err := c.Accept(); err != nil {
		t.Fatal(err)
	}
	replaced, skipped := c.Summary()
	if replaced != 1 || skipped != 1 {
		t.Fatalf("summary = {%d,%d}, want {1,1}", replaced, skipped)
	}
	if got := ed.Text(); got != "a b X" {
		t.Fatalf("text = %q, want \"a b X\"", got)
	}
}

func TestQueryReplacePositionAdjustmentAfterAccept(t *testing.T) {
	ed, _, c := newHarness(t, "foo foo foo")
	if err := c.Start("foo", "x", matcher.Options{Case: matcher.CaseSensitive}); err != nil {
		t.Fatal(err)
	}
	if err := c.AcceptAll(); err != nil {
		t.Fatal(err)
	}
	if got := ed.Text(); got != "x x x" {
		t.Fatalf("text = %q, want \"x x x\"", got)
	}
}

func TestQueryReplaceUndoLast(t *testing.T) {
	ed, _, c := newHarness(t, "a a a")
	if err := c.Start("a", "X", matcher.Options{Case: matcher.CaseSensitive}); err != nil {
		t.Fatal(err)
	}
	if err := c.Accept(); err != nil {
		t.Fatal(err)
	}
	if err := c.Accept(); err != nil {
		t.Fatal(err)
	}
	if err := c.UndoLast(); err != nil {
		t.Fatal(err)
	}
	if got := ed.Text(); got != "X a a" {
		t.Fatalf("text after undo_last = %q, want \"X a a\"", got)
	}
	replaced, _ := c.Summary()
	if replaced != 1 {
		t.Fatalf("replaced = %d, want 1 after undoing one of two accepts", replaced)
	}
	if err := c.Accept(); err != nil {
		t.Fatal(err)
	}
	if got := ed.Text(); got != "X X a" {
		t.Fatalf("text after re-accepting = %q, want \"X X a\"", got)
	}
}

func TestQueryReplaceRegexCaptureGroupsAndCase(t *testing.T) {
	ed, _, c := newHarness(t, "hello world")
	if err := c.StartRegex(`(\w+) (\w+)`, `\U$2\E $1`); err != nil {
		t.Fatal(err)
	}
	if err := c.Accept(); err != nil {
		t.Fatal(err)
	}
	if got := ed.Text(); got != "WORLD hello" {
		t.Fatalf("text = %q, want \"WORLD hello\"", got)
	}
}
