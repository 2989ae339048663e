package bridge

import (
	"github.com/nilsbok/alise/internal/alisp/eval"
	"github.com/nilsbok/alise/internal/alisp/reader"
)

// Result is the outcome of one minibuffer evaluation: either a
// formatted display string, or an error carrying its kind, message
// and (when available) the source span that caused it.
type Result struct {
	Success bool
	Display string

	ErrorKind    string
	ErrorMessage string
	Pos          *reader.Pos
}

// Bridge is a long-lived alisp evaluation session: every Evaluate call
// shares the same global environment, so a `(define x 1)` entered in
// one minibuffer invocation is visible to the next.
type Bridge struct {
	ctx *eval.Ctx
}

// New returns a Bridge with a fresh global environment and the
// standard primitive table.
func New() *Bridge {
	return &Bridge{ctx: eval.NewCtx(eval.NewHeap(0))}
}

// SetOutput wires the primitive `print` form to w, so plugin or
// scratch-buffer output reaches the host rather than being dropped.
func (b *Bridge) SetOutput(w func(string)) {
	b.ctx.Output = w
}

// Evaluate reads exactly one top-level form from input, evaluates it,
// and formats the result for display in the minibuffer echo area.
func (b *Bridge) Evaluate(input string) Result {
	expr, err := reader.Read(input)
	if err != nil {
		if rerr, ok := err.(*reader.Error); ok {
			pos := rerr.Pos
			return Result{ErrorKind: rerr.Kind.String(), ErrorMessage: rerr.Msg, Pos: &pos}
		}
		return Result{ErrorKind: "reader-error", ErrorMessage: err.Error()}
	}

	v, err := eval.Eval(b.ctx, b.ctx.Global(), expr)
	if err != nil {
		if eerr, ok := err.(*eval.Error); ok {
			return Result{ErrorKind: eerr.Kind.String(), ErrorMessage: eerr.Msg, Pos: eerr.Pos}
		}
		return Result{ErrorKind: "eval-error", ErrorMessage: err.Error()}
	}
	return Result{Success: true, Display: eval.Format(v)}
}
