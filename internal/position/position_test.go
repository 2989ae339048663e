package position

import "testing"

func TestLogicalToVisualColumnTabs(t *testing.T) {
	line := "a\tb\tc"
	cases := []struct {
		logical int
		want    int
	}{
		{0, 0},
		{1, 1},
		{2, 4},
		{3, 5},
		{4, 8},
	}
	for _, c := range cases {
		got := LogicalToVisualColumn(line, c.logical, 4)
		if got != c.want {
			t.Errorf("LogicalToVisualColumn(%q, %d, 4) = %d, want %d", line, c.logical, got, c.want)
		}
	}
}

func TestVisualToLogicalColumnInverse(t *testing.T) {
	line := "a\tb\tc"
	got := VisualToLogicalColumn(line, 4, 4)
	if got != 2 {
		t.Errorf("VisualToLogicalColumn = %d, want 2", got)
	}
}

func TestVisualColumnWideAndEmoji(t *testing.T) {
	line := "a" + string(rune(0x3042)) + string(rune(0x1F31F)) // a + HIRAGANA A + glowing star
	got := LogicalToVisualColumn(line, 3, 4)
	if got != 5 {
		t.Errorf("VisualColumn = %d, want 5", got)
	}
}

func TestVisualColumnCombiningMark(t *testing.T) {
	// 'e' + combining acute accent (U+0301) + 'x': three scalars, width 2.
	line := "e" + string(rune(0x0301)) + "x"
	got := LogicalToVisualColumn(line, 3, 4)
	if got != 2 {
		t.Errorf("VisualColumn = %d, want 2 (combining mark contributes 0)", got)
	}
}

func TestCharPosToLineCol(t *testing.T) {
	c := NewCalculator()
	text := "hello\nworld\nfoo"
	pos, err := c.CharPosToLineCol(text, 1, 6, 4)
	if err != nil {
		t.Fatal(err)
	}
	if pos.Line != 1 || pos.LogicalColumn != 0 {
		t.Fatalf("pos = %+v, want line 1 col 0", pos)
	}

	pos, err = c.CharPosToLineCol(text, 1, 13, 4)
	if err != nil {
		t.Fatal(err)
	}
	if pos.Line != 2 || pos.LogicalColumn != 1 {
		t.Fatalf("pos = %+v, want line 2 col 1", pos)
	}
}

func TestLineColToCharPosClampsColumn(t *testing.T) {
	c := NewCalculator()
	text := "ab\ncdefgh"
	charPos, err := c.LineColToCharPos(text, 1, 0, 100)
	if err != nil {
		t.Fatal(err)
	}
	if charPos != 2 { // clamped to line length 2
		t.Fatalf("charPos = %d, want 2", charPos)
	}
}

func TestCacheRebuildsOnRevisionChange(t *testing.T) {
	c := NewCalculator()
	text1 := "a\nb"
	if _, err := c.CharPosToLineCol(text1, 1, 2, 4); err != nil {
		t.Fatal(err)
	}
	text2 := "a\nb\nc\nd"
	pos, err := c.CharPosToLineCol(text2, 2, 6, 4)
	if err != nil {
		t.Fatal(err)
	}
	if pos.Line != 3 {
		t.Fatalf("stale cache: pos = %+v", pos)
	}
}

func TestInvalidPosition(t *testing.T) {
	c := NewCalculator()
	if _, err := c.CharPosToLineCol("abc", 1, 10, 4); err == nil {
		t.Fatal("expected error for out-of-range char position")
	}
}

func TestRecoverCache(t *testing.T) {
	c := NewCalculator()
	if err := c.RecoverCache("hello\nworld", 1); err != nil {
		t.Fatalf("RecoverCache: %v", err)
	}
}
