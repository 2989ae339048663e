// Package controller implements the incremental search state machine
// (C8): Idle, Active(direction) and Failed states driven by start,
// input_char, delete_char, repeat, accept and cancel events, built on
// top of internal/search/matcher and internal/editor.
//
// Grounded on the teacher's internal/dispatcher/handlers/search package:
// its SearchState (Pattern/Forward/CaseSensitive) becomes Controller's
// pattern/direction/opts fields, and its findNext/findPrev wrap-then-
// report-"(wrapped)" shape becomes Controller.wrapped and Status.
// Unlike the teacher's handler, which recompiles a regexp.Regexp per
// keystroke and stores state in a generic execution-context map, this
// controller owns its own typed state and recomputes through
// matcher.FindMatches, since spec.md §4.7 requires plain-text search
// backed by the C7 Matcher rather than regexp (regexp mode lives only
// in the Query-Replace Controller's swap-in per spec.md §4.8).
package controller
