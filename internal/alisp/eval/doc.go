// Package eval is the alisp tree-walking evaluator (C10's back end): a
// Value representation, an environment Heap addressed by EnvHandle
// with mark-and-sweep collection, a Ctx tying a current/global
// environment to a primitive table, and Eval, which walks a
// reader.Expr against a Ctx.
//
// As with internal/alisp/reader, no example repo or the teacher embeds
// anything but a borrowed VM (gopher-lua, see DESIGN.md), so there is
// no tree-walker to adapt. The shape followed here is the teacher's
// plugin/lua State: a single owning struct (Ctx, playing State's
// role) gates all mutation and sandboxes what it exposes (only the
// registered primitive table is callable, never raw Go). Evaluation
// failures come back as *Error values; the evaluator does not recover
// Go panics.
package eval
