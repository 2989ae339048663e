package position

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/width"
)

// ApproxThreshold is how many scalars of a line are walked exactly before
// the top latency tier (lines of ApproxLineLength chars or more) starts
// extrapolating visual column from the average width of the prefix.
const ApproxThreshold = 100

// ApproxLineLength is the line length, in chars, at which visual-column
// approximation is permitted beyond ApproxThreshold.
const ApproxLineLength = 10000

// Position is a fully resolved location: its char offset from the start
// of the text, its 0-based line, and both column flavors.
type Position struct {
	CharPos        int
	Line           int
	LogicalColumn  int
	VisualColumn   int
}

// Calculator maintains a line-start index over a text snapshot, rebuilt
// whenever the caller's revision advances past what was last indexed.
//
// Calculator is not safe for concurrent use.
type Calculator struct {
	revision   uint64
	built      bool
	lineStarts []int // char index of the first scalar of each line
	totalChars int
}

// NewCalculator returns a Calculator with no cache built yet.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// InvalidateCache discards the line index; it is rebuilt on next use.
func (c *Calculator) InvalidateCache() {
	c.built = false
	c.lineStarts = nil
}

// ensure rebuilds the cache from text if revision differs from what is
// cached, or if the cache was explicitly invalidated.
func (c *Calculator) ensure(text string, revision uint64) {
	if c.built && c.revision == revision {
		return
	}
	c.rebuild(text)
	c.revision = revision
}

func (c *Calculator) rebuild(text string) {
	starts := []int{0}
	charIdx := 0
	for _, r := range text {
		charIdx++
		if r == '\n' {
			starts = append(starts, charIdx)
		}
	}
	c.lineStarts = starts
	c.totalChars = charIdx
	c.built = true
}

// RecoverCache forces a rebuild and verifies the resulting index is
// internally consistent (strictly increasing, starting at 0). It returns
// ErrTextProcessing if the rebuilt index still fails that check, which
// would indicate a bug in rebuild rather than transient corruption.
func (c *Calculator) RecoverCache(text string, revision uint64) error {
	c.InvalidateCache()
	c.ensure(text, revision)
	for i := 1; i < len(c.lineStarts); i++ {
		if c.lineStarts[i] <= c.lineStarts[i-1] {
			return ErrTextProcessing
		}
	}
	if c.lineStarts[0] != 0 {
		return ErrTextProcessing
	}
	return nil
}

// CharPosToLineCol converts a char position into a full Position.
// tabWidth controls visual-column computation for the target line.
func (c *Calculator) CharPosToLineCol(text string, revision uint64, charPos int, tabWidth int) (Position, error) {
	c.ensure(text, revision)
	if charPos < 0 || charPos > c.totalChars {
		return Position{}, &InvalidPositionError{Pos: charPos}
	}

	line := c.lineForChar(charPos)
	lineStart := c.lineStarts[line]
	logicalCol := charPos - lineStart

	lineText := c.lineText(text, line)
	visualCol := LogicalToVisualColumn(lineText, logicalCol, tabWidth)

	return Position{
		CharPos:       charPos,
		Line:          line,
		LogicalColumn: logicalCol,
		VisualColumn:  visualCol,
	}, nil
}

// LineColToCharPos converts (line, logicalColumn) to a char position.
// logicalColumn is clamped to the target line's length.
func (c *Calculator) LineColToCharPos(text string, revision uint64, line, logicalColumn int) (int, error) {
	c.ensure(text, revision)
	if line < 0 || line >= len(c.lineStarts) {
		return 0, &InvalidLineError{Line: line}
	}
	lineStart := c.lineStarts[line]
	lineLen := c.lineCharLen(line)
	if logicalColumn < 0 {
		logicalColumn = 0
	}
	if logicalColumn > lineLen {
		logicalColumn = lineLen
	}
	return lineStart + logicalColumn, nil
}

// LineCount returns the number of lines currently indexed.
func (c *Calculator) LineCount(text string, revision uint64) int {
	c.ensure(text, revision)
	return len(c.lineStarts)
}

// lineForChar binary-searches the line index for the line containing
// charPos.
func (c *Calculator) lineForChar(charPos int) int {
	// Find the last line whose start is <= charPos.
	i := sort.Search(len(c.lineStarts), func(i int) bool {
		return c.lineStarts[i] > charPos
	})
	return i - 1
}

// lineCharLen returns the number of chars in a line, excluding its
// trailing newline.
func (c *Calculator) lineCharLen(line int) int {
	start := c.lineStarts[line]
	var end int
	if line+1 < len(c.lineStarts) {
		end = c.lineStarts[line+1] - 1 // exclude the '\n'
	} else {
		end = c.totalChars
	}
	if end < start {
		end = start
	}
	return end - start
}

// lineText materializes the text of a single line (without its trailing
// newline) by walking char positions to byte offsets.
func (c *Calculator) lineText(text string, line int) string {
	start := c.lineStarts[line]
	length := c.lineCharLen(line)

	startByte := charToByte(text, start)
	endByte := charToByte(text, start+length)
	return text[startByte:endByte]
}

// charToByte converts a char position to a byte offset by walking the
// string. Used only for single-line materialization, so its cost is
// bounded by one line's length.
func charToByte(text string, charPos int) int {
	i := 0
	n := 0
	for n < charPos && i < len(text) {
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
		n++
	}
	return i
}

// LogicalToVisualColumn computes the visual (display) column for a
// logical (scalar-count) column within a single line of text.
func LogicalToVisualColumn(lineText string, logicalCol, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = 1
	}

	totalChars := utf8.RuneCountInString(lineText)
	approximate := totalChars >= ApproxLineLength && logicalCol > ApproxThreshold

	visual := 0
	charsSeen := 0
	prefixVisual := 0

	g := uniseg.NewGraphemes(lineText)
	for g.Next() {
		if charsSeen >= logicalCol {
			break
		}
		cluster := g.Runes()
		clusterChars := len(cluster)

		if charsSeen+clusterChars > logicalCol {
			// logicalCol lands inside a multi-rune cluster; count only
			// the requested prefix of it.
			for i := 0; i < logicalCol-charsSeen; i++ {
				visual += scalarWidth(cluster[i], tabWidth, visual)
			}
			charsSeen = logicalCol
			break
		}

		w := clusterWidth(cluster, tabWidth, visual)
		visual += w
		charsSeen += clusterChars

		if charsSeen == ApproxThreshold && approximate {
			prefixVisual = visual
			break
		}
	}

	if approximate && charsSeen < logicalCol && charsSeen >= ApproxThreshold {
		avg := float64(prefixVisual) / float64(ApproxThreshold)
		remaining := logicalCol - charsSeen
		visual += int(avg * float64(remaining))
		charsSeen = logicalCol
	}

	return visual
}

// VisualToLogicalColumn computes the logical (scalar-count) column whose
// visual column is nearest to (without exceeding) visualCol.
func VisualToLogicalColumn(lineText string, visualCol, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = 1
	}

	visual := 0
	logical := 0

	g := uniseg.NewGraphemes(lineText)
	for g.Next() {
		cluster := g.Runes()
		w := clusterWidth(cluster, tabWidth, visual)
		if visual+w > visualCol {
			break
		}
		visual += w
		logical += len(cluster)
	}
	return logical
}

// clusterWidth returns the visual width of a grapheme cluster. A cluster
// consisting solely of a tab advances to the next tab stop, expressed as
// the delta from the current visual column (so the caller's add is
// simply visual+=w regardless of tabs or not).
func clusterWidth(cluster []rune, tabWidth, currentVisual int) int {
	if len(cluster) == 1 && cluster[0] == '\t' {
		return tabWidth - (currentVisual % tabWidth)
	}
	return runeDisplayWidth(cluster[0])
}

// scalarWidth mirrors clusterWidth for a single scalar taken out of a
// multi-rune cluster (used only when a requested logical column lands
// mid-cluster).
func scalarWidth(r rune, tabWidth, currentVisual int) int {
	if r == '\t' {
		return tabWidth - (currentVisual % tabWidth)
	}
	return runeDisplayWidth(r)
}

// runeDisplayWidth classifies a single scalar per spec: combining marks
// are 0, East-Asian Wide/Fullwidth (and basic emoji) are 2, everything
// else is 1.
func runeDisplayWidth(r rune) int {
	if unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Me, r) {
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	if isBasicEmoji(r) {
		return 2
	}
	return 1
}

// isBasicEmoji reports whether r falls in the common emoji presentation
// ranges (Misc Symbols & Pictographs, Emoticons, Transport & Map,
// Supplemental Symbols & Pictographs, Misc Symbols & Dingbats).
func isBasicEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1F5FF:
		return true
	case r >= 0x1F600 && r <= 0x1F64F:
		return true
	case r >= 0x1F680 && r <= 0x1F6FF:
		return true
	case r >= 0x1F900 && r <= 0x1F9FF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	}
	return false
}
