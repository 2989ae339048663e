// Package app is the Editor Core / Dispatch composition root (C13): a
// single entry point, core.Core, that owns one or more buffers (each
// its own gap buffer, history stack, search controller and
// query-replace controller) plus one alisp bridge, and satisfies the
// external contract of HandleEvent(FrontendEvent) Response /
// ViewModel() without importing any rendering package.
//
// Grounded on the teacher's dispatcher package shape: a flat key
// dispatch table keyed by a normalized (code, modifiers) tuple, a
// pending-prefix flag for multi-key sequences (the teacher's own
// C-x-style prefix handling), and a composition root that wires
// listeners together once at construction time rather than on every
// event. DumpJSON/ApplyJSONOverride follow the teacher's sjson/gjson
// indirect dependencies into a concrete debug surface.
package app
