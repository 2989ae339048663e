// Package gapbuffer implements a mutable, UTF-8-safe text store backed by a
// gap buffer: a contiguous byte array split by an unused "gap" that sits at
// the last edit position.
//
// # Layout
//
// The logical text is buffer[0:gapStart] ++ buffer[gapEnd:len(buffer)]. All
// positions accepted and returned by the public API are char positions
// (counts of Unicode scalar values from the start of the text), never byte
// offsets — byte offsets are an internal detail used only to walk UTF-8
// boundaries and are never exposed.
//
// # Gap motion
//
// Moving the gap to a new char position copies the bytes between the old
// and new gap boundary across the gap; the cost is linear in the number of
// bytes moved, not in the size of the buffer. A small cache of the gap's
// current char position (gapStartChars) makes repeated edits at the same
// cursor position (the common case: typing) O(1) amortized, since the gap
// already sits where the next edit lands.
//
// # Growth
//
// The initial gap is 4 KiB. When an insertion does not fit in the
// remaining gap, the buffer grows: the new gap is sized
// max(2*currentGapBytes, 64*1024), and further enlarged if even that
// would not hold the inserted text (a single large paste must still fit
// in one grow).
//
// # Failure
//
// All operations are non-destructive on failure: if Insert/Delete/etc.
// return an error, the buffer's observable state (text, length) is
// unchanged.
package gapbuffer
