// Package position translates between char positions, (line, logical
// column) pairs, and (line, visual column) pairs over a text snapshot.
//
// # Line index
//
// Calculator keeps a cache mapping line number to the char index of that
// line's first scalar, built with one linear scan and invalidated
// whenever the caller observes a new buffer revision. Lookups binary-
// search the cache, then walk the target line linearly for column
// arithmetic.
//
// # Visual columns
//
// A tab advances to the next multiple of tabWidth. Other scalars occupy
// the display width of their grapheme cluster: 2 for East-Asian Wide or
// Fullwidth clusters (and basic emoji), 0 for a cluster that is a bare
// combining mark run, 1 otherwise. Clustering (so combining marks and
// joined emoji sequences count once) is done with
// github.com/rivo/uniseg; wide/narrow classification is done with
// golang.org/x/text/width.
//
// # Latency tiers
//
// Lines shorter than 1,000 chars are walked exactly. Lines of 1,000-9,999
// chars are still walked exactly (cache + binary search keeps this fast
// enough). Lines of 10,000+ chars approximate the visual column for any
// logical column beyond a 100-scalar prefix, by extrapolating the
// average width measured over that prefix — see ApproxThreshold.
package position
