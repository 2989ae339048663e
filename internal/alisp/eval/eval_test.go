package eval

import (
	"testing"

	"github.com/nilsbok/alise/internal/alisp/reader"
)

func mustRead(t *testing.T, src string) reader.Expr {
	t.Helper()
	e, err := reader.Read(src)
	if err != nil {
		t.Fatalf("reader.Read(%q): %v", src, err)
	}
	return e
}

func evalSrc(t *testing.T, ctx *Ctx, src string) Value {
	t.Helper()
	v, err := Eval(ctx, ctx.Global(), mustRead(t, src))
	if err != nil {
		t.Fatalf("Eval(%q): %v", src, err)
	}
	return v
}

func newCtx() *Ctx {
	return NewCtx(NewHeap(0))
}

func TestArithmeticPrimitives(t *testing.T) {
	ctx := newCtx()
	v := evalSrc(t, ctx, "(+ 1 2 3)")
	if v.Kind != KindInt || v.Int != 6 {
		t.Fatalf("(+ 1 2 3) = %+v, want Int 6", v)
	}
	v = evalSrc(t, ctx, "(- 10 3 2)")
	if v.Kind != KindInt || v.Int != 5 {
		t.Fatalf("(- 10 3 2) = %+v, want Int 5", v)
	}
	v = evalSrc(t, ctx, "(* 2 3.0)")
	if v.Kind != KindFloat || v.Float != 6.0 {
		t.Fatalf("(* 2 3.0) = %+v, want Float 6.0", v)
	}
	v = evalSrc(t, ctx, "(/ 10 2)")
	if v.Kind != KindInt || v.Int != 5 {
		t.Fatalf("(/ 10 2) = %+v, want Int 5", v)
	}
	v = evalSrc(t, ctx, "(/ 10 3)")
	if v.Kind != KindFloat {
		t.Fatalf("(/ 10 3) = %+v, want Float", v)
	}
}

func TestDivisionByZero(t *testing.T) {
	ctx := newCtx()
	_, err := Eval(ctx, ctx.Global(), mustRead(t, "(/ 1 0)"))
	if err == nil {
		t.Fatal("expected division-by-zero error")
	}
	ee, ok := err.(*Error)
	if !ok || ee.Kind != DivisionByZero {
		t.Fatalf("err = %+v, want DivisionByZero", err)
	}
}

func TestComparisons(t *testing.T) {
	ctx := newCtx()
	v := evalSrc(t, ctx, "(< 1 2 3)")
	if v.Kind != KindBool || !v.Bool {
		t.Fatalf("(< 1 2 3) = %+v, want true", v)
	}
	v = evalSrc(t, ctx, "(< 1 3 2)")
	if v.Kind != KindBool || v.Bool {
		t.Fatalf("(< 1 3 2) = %+v, want false", v)
	}
	v = evalSrc(t, ctx, "(= 2 2 2)")
	if v.Kind != KindBool || !v.Bool {
		t.Fatalf("(= 2 2 2) = %+v, want true", v)
	}
}

func TestDefineAndLookup(t *testing.T) {
	ctx := newCtx()
	evalSrc(t, ctx, "(define x 10)")
	v := evalSrc(t, ctx, "x")
	if v.Kind != KindInt || v.Int != 10 {
		t.Fatalf("x = %+v, want Int 10", v)
	}
}

func TestUnboundSymbol(t *testing.T) {
	ctx := newCtx()
	_, err := Eval(ctx, ctx.Global(), mustRead(t, "nope"))
	if err == nil {
		t.Fatal("expected unbound-symbol error")
	}
	ee, ok := err.(*Error)
	if !ok || ee.Kind != UnboundSymbol {
		t.Fatalf("err = %+v, want UnboundSymbol", err)
	}
}

func TestDefineFunctionShorthandAndRecursion(t *testing.T) {
	ctx := newCtx()
	evalSrc(t, ctx, "(define (fact n) (if (<= n 1) 1 (* n (fact (- n 1)))))")
	v := evalSrc(t, ctx, "(fact 5)")
	if v.Kind != KindInt || v.Int != 120 {
		t.Fatalf("(fact 5) = %+v, want Int 120", v)
	}
}

func TestLambdaAndClosureCapture(t *testing.T) {
	ctx := newCtx()
	evalSrc(t, ctx, "(define (make-adder n) (lambda (x) (+ x n)))")
	evalSrc(t, ctx, "(define add5 (make-adder 5))")
	v := evalSrc(t, ctx, "(add5 10)")
	if v.Kind != KindInt || v.Int != 15 {
		t.Fatalf("(add5 10) = %+v, want Int 15", v)
	}
}

func TestLetIntroducesScopedBindings(t *testing.T) {
	ctx := newCtx()
	evalSrc(t, ctx, "(define x 1)")
	v := evalSrc(t, ctx, "(let ((x 2) (y 3)) (+ x y))")
	if v.Kind != KindInt || v.Int != 5 {
		t.Fatalf("let body = %+v, want Int 5", v)
	}
	v = evalSrc(t, ctx, "x")
	if v.Kind != KindInt || v.Int != 1 {
		t.Fatalf("x after let = %+v, want Int 1 (unshadowed)", v)
	}
}

func TestIfAndShortCircuitAndOr(t *testing.T) {
	ctx := newCtx()
	v := evalSrc(t, ctx, "(if (> 2 1) 10 20)")
	if v.Kind != KindInt || v.Int != 10 {
		t.Fatalf("if true branch = %+v, want Int 10", v)
	}
	v = evalSrc(t, ctx, "(if false 10 20)")
	if v.Kind != KindInt || v.Int != 20 {
		t.Fatalf("if false branch = %+v, want Int 20", v)
	}
	v = evalSrc(t, ctx, "(if false 10)")
	if v.Kind != KindUnit {
		t.Fatalf("if false with no alternative = %+v, want unit", v)
	}
	v = evalSrc(t, ctx, "(and 1 2 false 3)")
	if v.Kind != KindBool || v.Bool {
		t.Fatalf("and with a false = %+v, want false", v)
	}
	v = evalSrc(t, ctx, "(or false false 7)")
	if v.Kind != KindInt || v.Int != 7 {
		t.Fatalf("or first truthy = %+v, want Int 7", v)
	}
}

func TestSetBangMutatesEnclosingBinding(t *testing.T) {
	ctx := newCtx()
	evalSrc(t, ctx, "(define counter 0)")
	evalSrc(t, ctx, "(define (bump) (set! counter (+ counter 1)))")
	evalSrc(t, ctx, "(bump)")
	evalSrc(t, ctx, "(bump)")
	v := evalSrc(t, ctx, "counter")
	if v.Kind != KindInt || v.Int != 2 {
		t.Fatalf("counter = %+v, want Int 2", v)
	}
}

func TestSetBangUnboundIsError(t *testing.T) {
	ctx := newCtx()
	_, err := Eval(ctx, ctx.Global(), mustRead(t, "(set! nope 1)"))
	ee, ok := err.(*Error)
	if !ok || ee.Kind != UnboundSymbol {
		t.Fatalf("err = %+v, want UnboundSymbol", err)
	}
}

func TestQuoteAtoms(t *testing.T) {
	ctx := newCtx()
	v := evalSrc(t, ctx, "(quote hello)")
	if v.Kind != KindSymbol || v.Str != "hello" {
		t.Fatalf("(quote hello) = %+v, want Symbol hello", v)
	}
	v = evalSrc(t, ctx, "(quote 42)")
	if v.Kind != KindInt || v.Int != 42 {
		t.Fatalf("(quote 42) = %+v, want Int 42", v)
	}
}

func TestQuoteListIsUnsupported(t *testing.T) {
	ctx := newCtx()
	_, err := Eval(ctx, ctx.Global(), mustRead(t, "(quote (1 2))"))
	ee, ok := err.(*Error)
	if !ok || ee.Kind != TypeMismatch {
		t.Fatalf("err = %+v, want TypeMismatch", err)
	}
}

func TestArityMismatch(t *testing.T) {
	ctx := newCtx()
	evalSrc(t, ctx, "(define (add2 a b) (+ a b))")
	_, err := Eval(ctx, ctx.Global(), mustRead(t, "(add2 1)"))
	ee, ok := err.(*Error)
	if !ok || ee.Kind != ArityMismatch {
		t.Fatalf("err = %+v, want ArityMismatch", err)
	}
}

func TestCallingNonFunctionIsTypeMismatch(t *testing.T) {
	ctx := newCtx()
	evalSrc(t, ctx, "(define x 5)")
	_, err := Eval(ctx, ctx.Global(), mustRead(t, "(x 1)"))
	ee, ok := err.(*Error)
	if !ok || ee.Kind != TypeMismatch {
		t.Fatalf("err = %+v, want TypeMismatch", err)
	}
}

func TestStringPrimitives(t *testing.T) {
	ctx := newCtx()
	v := evalSrc(t, ctx, `(string-append "foo" "bar")`)
	if v.Kind != KindString || v.Str != "foobar" {
		t.Fatalf("string-append = %+v, want String foobar", v)
	}
	v = evalSrc(t, ctx, `(string-length "héllo")`)
	if v.Kind != KindInt || v.Int != 5 {
		t.Fatalf("string-length = %+v, want Int 5", v)
	}
}

func TestTypeOf(t *testing.T) {
	ctx := newCtx()
	v := evalSrc(t, ctx, `(type-of 1)`)
	if v.Str != "integer" {
		t.Fatalf("type-of 1 = %q, want integer", v.Str)
	}
	v = evalSrc(t, ctx, `(type-of "x")`)
	if v.Str != "string" {
		t.Fatalf("type-of string = %q, want string", v.Str)
	}
}

func TestGarbageCollectionReclaimsUnreachableClosures(t *testing.T) {
	ctx := NewCtx(NewHeap(4))
	evalSrc(t, ctx, "(define (make-adder n) (lambda (x) (+ x n)))")
	for i := 0; i < 20; i++ {
		// Each call allocates one frame for make-adder's own call, which
		// the returned lambda captures; nothing retains the lambda, so a
		// collection rooted at global plus the active call stack
		// reclaims those frames.
		evalSrc(t, ctx, "(make-adder 1)")
	}
	if ctx.Heap().LiveFrames() >= 20 {
		t.Fatalf("LiveFrames() = %d, expected collection to have reclaimed unreachable frames", ctx.Heap().LiveFrames())
	}
}

func TestGarbageCollectionKeepsReachableClosureAlive(t *testing.T) {
	ctx := NewCtx(NewHeap(4))
	evalSrc(t, ctx, "(define (make-adder n) (lambda (x) (+ x n)))")
	evalSrc(t, ctx, "(define keep (make-adder 100))")
	for i := 0; i < 20; i++ {
		evalSrc(t, ctx, "(make-adder 1)")
	}
	v := evalSrc(t, ctx, "(keep 1)")
	if v.Kind != KindInt || v.Int != 101 {
		t.Fatalf("(keep 1) after GC pressure = %+v, want Int 101 (closure env must survive collection)", v)
	}
}

func TestGarbageCollectionDuringDeepRecursionKeepsAncestorFramesValid(t *testing.T) {
	// A low threshold forces collections to fire in the middle of
	// fib's recursion, not just between top-level evalSrc calls: every
	// ancestor call's frame (parent == global, so unreachable from any
	// deeper currentEnv alone) must stay rooted via Ctx.stack or a
	// resuming caller reads a swept, recycled frame.
	ctx := NewCtx(NewHeap(8))
	evalSrc(t, ctx, "(define (fib n) (if (< n 2) n (+ (fib (- n 1)) (fib (- n 2)))))")
	v := evalSrc(t, ctx, "(fib 13)")
	if v.Kind != KindInt || v.Int != 233 {
		t.Fatalf("(fib 13) = %+v, want Int 233", v)
	}
}

func TestFormatCanonical(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Value{Kind: KindInt, Int: 42}, "42"},
		{Value{Kind: KindFloat, Float: 3.5}, "3.5"},
		{Value{Kind: KindBool, Bool: true}, "true"},
		{Value{Kind: KindBool, Bool: false}, "false"},
		{Value{Kind: KindString, Str: "hi"}, `"hi"`},
		{Value{Kind: KindUnit}, "()"},
		{Value{Kind: KindFunction, Fn: &Function{Name: "fact"}}, "#<function fact>"},
		{Value{Kind: KindFunction, Fn: &Function{}}, "#<function>"},
	}
	for _, c := range cases {
		if got := Format(c.v); got != c.want {
			t.Errorf("Format(%+v) = %q, want %q", c.v, got, c.want)
		}
	}
}
