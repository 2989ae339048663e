// Package matcher implements the pure, stateless pattern-matching
// algorithm behind interactive search (C7): FindMatches returns every
// non-overlapping occurrence of a pattern in a text; FindNext returns
// the nearest occurrence in a given direction from a char position.
//
// Three algorithm tiers are dispatched by pattern length, per spec: a
// naive rune-by-rune scan for short patterns, Go's standard library
// strings.Index (whose runtime implementation is itself a Two-Way
// string-matching algorithm) for medium patterns, and an explicit
// Boyer-Moore bad-character scan for long ones. All three tiers compare
// the same folded rune sequences, so they agree on every match.
//
// Grounded on the teacher's internal/project/search package: its
// CaseSensitive/WholeWord/UseRegex option fields (here CaseMode/
// WordBoundary), its sentinel errors (here ErrPatternEmpty), and its
// choice of the standard library regexp package over a third-party
// matcher for the one tier (query-replace's regex mode, internal/search/replace)
// that needs full regular expressions.
package matcher
