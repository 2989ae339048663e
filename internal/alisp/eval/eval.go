package eval

import (
	"strconv"

	"github.com/nilsbok/alise/internal/alisp/reader"
)

// Ctx is the evaluator's context: the heap of environment frames, the
// global environment every top-level definition lands in, and the
// primitive table consulted when a symbol is not bound in any frame.
type Ctx struct {
	heap       *Heap
	global     EnvHandle
	primitives map[string]*Function
	Output     func(string)

	// stack mirrors the chain of environment frames currently in flight
	// on the Go call stack: apply and evalLet push the frame they
	// allocate before recursing into its body and pop it via defer once
	// that body returns. A collection triggered partway through a deep
	// recursive call therefore roots every ancestor call's frame, not
	// just the innermost one, per spec's "values on the evaluation
	// argument stack" rooting rule.
	stack []EnvHandle
}

// NewCtx returns a Ctx with a fresh global environment and the
// standard primitive table registered.
func NewCtx(heap *Heap) *Ctx {
	ctx := &Ctx{heap: heap, global: heap.Alloc(noEnv), primitives: make(map[string]*Function)}
	registerPrimitives(ctx)
	return ctx
}

// Global returns the handle of the global environment, for callers
// (such as the minibuffer bridge) that evaluate top-level forms there.
func (c *Ctx) Global() EnvHandle { return c.global }

// Heap exposes the underlying Heap, mainly for tests asserting on GC
// behavior.
func (c *Ctx) Heap() *Heap { return c.heap }

// pushEnv records env as in flight for the duration of the Go call
// that allocated it, so a collection triggered by a deeper recursive
// call still roots it.
func (c *Ctx) pushEnv(env EnvHandle) {
	c.stack = append(c.stack, env)
}

// popEnv undoes the matching pushEnv once its call returns.
func (c *Ctx) popEnv() {
	c.stack = c.stack[:len(c.stack)-1]
}

// maybeCollect runs a collection if the heap has grown past its
// threshold. roots is global plus every frame pushEnv has recorded for
// an in-flight Go call (the full suspended call chain, not just the
// innermost frame); extra carries values live only in the current
// call's own locals (arguments and the callee) that haven't been
// pushed anywhere.
func (c *Ctx) maybeCollect(extra []Value) {
	if c.heap.ShouldCollect() {
		roots := make([]EnvHandle, 0, len(c.stack)+1)
		roots = append(roots, c.global)
		roots = append(roots, c.stack...)
		c.heap.Collect(roots, extra)
	}
}

// Eval evaluates e in the environment env.
func Eval(ctx *Ctx, env EnvHandle, e reader.Expr) (Value, error) {
	switch ex := e.(type) {
	case reader.NumberExpr:
		if ex.IsFloat {
			return Value{Kind: KindFloat, Float: ex.Float}, nil
		}
		return Value{Kind: KindInt, Int: ex.Int}, nil
	case reader.BooleanExpr:
		return Value{Kind: KindBool, Bool: ex.Value}, nil
	case reader.StringExpr:
		return Value{Kind: KindString, Str: ex.Value}, nil
	case reader.SymbolExpr:
		if v, ok := ctx.heap.Lookup(env, ex.Name); ok {
			return v, nil
		}
		if fn, ok := ctx.primitives[ex.Name]; ok {
			return Value{Kind: KindFunction, Fn: fn}, nil
		}
		return Value{}, unboundErr(ex.Name, ex.Pos)
	case reader.ListExpr:
		return evalList(ctx, env, ex)
	default:
		return Value{}, typeErr("cannot evaluate expression")
	}
}

func evalList(ctx *Ctx, env EnvHandle, list reader.ListExpr) (Value, error) {
	if len(list.Items) == 0 {
		return Value{Kind: KindUnit}, nil
	}
	if head, ok := list.Items[0].(reader.SymbolExpr); ok {
		switch head.Name {
		case "define":
			return evalDefine(ctx, env, list)
		case "lambda":
			return evalLambda(ctx, env, list)
		case "let":
			return evalLet(ctx, env, list)
		case "if":
			return evalIf(ctx, env, list)
		case "and":
			return evalAnd(ctx, env, list)
		case "or":
			return evalOr(ctx, env, list)
		case "begin":
			return evalBegin(ctx, env, list)
		case "set!":
			return evalSetBang(ctx, env, list)
		case "quote":
			return evalQuote(ctx, env, list)
		}
	}

	headVal, err := Eval(ctx, env, list.Items[0])
	if err != nil {
		return Value{}, err
	}
	if headVal.Kind != KindFunction {
		return Value{}, typeErr("attempt to call a non-function value")
	}
	args := make([]Value, 0, len(list.Items)-1)
	for _, a := range list.Items[1:] {
		v, err := Eval(ctx, env, a)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}
	return apply(ctx, headVal.Fn, args)
}

func apply(ctx *Ctx, fn *Function, args []Value) (Value, error) {
	if fn.Primitive != nil {
		return fn.Primitive(ctx, args)
	}
	if len(args) != len(fn.Params) {
		return Value{}, arityErr(fnName(fn) + ": want " + strconv.Itoa(len(fn.Params)) + " argument(s), got " + strconv.Itoa(len(args)))
	}
	newEnv := ctx.heap.Alloc(fn.Env)
	ctx.pushEnv(newEnv)
	defer ctx.popEnv()
	ctx.maybeCollect(append(append([]Value{}, args...), Value{Kind: KindFunction, Fn: fn}))
	for i, p := range fn.Params {
		ctx.heap.Define(newEnv, p, args[i])
	}
	var result Value
	var err error
	for _, bodyExpr := range fn.Body {
		result, err = Eval(ctx, newEnv, bodyExpr)
		if err != nil {
			return Value{}, err
		}
	}
	return result, nil
}

func fnName(fn *Function) string {
	if fn.Name != "" {
		return fn.Name
	}
	return "lambda"
}

func evalDefine(ctx *Ctx, env EnvHandle, list reader.ListExpr) (Value, error) {
	items := list.Items[1:]
	if len(items) < 2 {
		return Value{}, typeErr("define: expected a target and a value")
	}
	switch target := items[0].(type) {
	case reader.SymbolExpr:
		v, err := Eval(ctx, env, items[1])
		if err != nil {
			return Value{}, err
		}
		ctx.heap.Define(env, target.Name, v)
		return v, nil
	case reader.ListExpr:
		if len(target.Items) == 0 {
			return Value{}, typeErr("define: empty function header")
		}
		nameSym, ok := target.Items[0].(reader.SymbolExpr)
		if !ok {
			return Value{}, typeErr("define: function name must be a symbol")
		}
		params := make([]string, 0, len(target.Items)-1)
		for _, p := range target.Items[1:] {
			ps, ok := p.(reader.SymbolExpr)
			if !ok {
				return Value{}, typeErr("define: parameter must be a symbol")
			}
			params = append(params, ps.Name)
		}
		fn := &Function{Name: nameSym.Name, Params: params, Body: items[1:], Env: env}
		v := Value{Kind: KindFunction, Fn: fn}
		// Bind before returning so the function's own body can refer to
		// its name recursively.
		ctx.heap.Define(env, nameSym.Name, v)
		return v, nil
	default:
		return Value{}, typeErr("define: target must be a symbol or a function header")
	}
}

func evalLambda(ctx *Ctx, env EnvHandle, list reader.ListExpr) (Value, error) {
	items := list.Items[1:]
	if len(items) < 1 {
		return Value{}, typeErr("lambda: expected a parameter list")
	}
	paramsList, ok := items[0].(reader.ListExpr)
	if !ok {
		return Value{}, typeErr("lambda: parameter list must be a list")
	}
	params := make([]string, 0, len(paramsList.Items))
	for _, p := range paramsList.Items {
		ps, ok := p.(reader.SymbolExpr)
		if !ok {
			return Value{}, typeErr("lambda: parameter must be a symbol")
		}
		params = append(params, ps.Name)
	}
	fn := &Function{Params: params, Body: items[1:], Env: env}
	return Value{Kind: KindFunction, Fn: fn}, nil
}

func evalLet(ctx *Ctx, env EnvHandle, list reader.ListExpr) (Value, error) {
	items := list.Items[1:]
	if len(items) < 1 {
		return Value{}, typeErr("let: expected a binding list")
	}
	bindings, ok := items[0].(reader.ListExpr)
	if !ok {
		return Value{}, typeErr("let: binding list must be a list")
	}
	newEnv := ctx.heap.Alloc(env)
	ctx.pushEnv(newEnv)
	defer ctx.popEnv()
	ctx.maybeCollect(nil)
	for _, b := range bindings.Items {
		pair, ok := b.(reader.ListExpr)
		if !ok || len(pair.Items) != 2 {
			return Value{}, typeErr("let: each binding must be (name value)")
		}
		nameSym, ok := pair.Items[0].(reader.SymbolExpr)
		if !ok {
			return Value{}, typeErr("let: binding name must be a symbol")
		}
		v, err := Eval(ctx, env, pair.Items[1])
		if err != nil {
			return Value{}, err
		}
		ctx.heap.Define(newEnv, nameSym.Name, v)
	}
	return evalBody(ctx, newEnv, items[1:])
}

func evalBody(ctx *Ctx, env EnvHandle, body []reader.Expr) (Value, error) {
	var result Value = Value{Kind: KindUnit}
	var err error
	for _, e := range body {
		result, err = Eval(ctx, env, e)
		if err != nil {
			return Value{}, err
		}
	}
	return result, nil
}

func evalIf(ctx *Ctx, env EnvHandle, list reader.ListExpr) (Value, error) {
	items := list.Items[1:]
	if len(items) < 2 {
		return Value{}, typeErr("if: expected a test and a consequent")
	}
	test, err := Eval(ctx, env, items[0])
	if err != nil {
		return Value{}, err
	}
	if isTruthy(test) {
		return Eval(ctx, env, items[1])
	}
	if len(items) > 2 {
		return Eval(ctx, env, items[2])
	}
	return Value{Kind: KindUnit}, nil
}

func evalAnd(ctx *Ctx, env EnvHandle, list reader.ListExpr) (Value, error) {
	items := list.Items[1:]
	result := Value{Kind: KindBool, Bool: true}
	for _, e := range items {
		v, err := Eval(ctx, env, e)
		if err != nil {
			return Value{}, err
		}
		if !isTruthy(v) {
			return v, nil
		}
		result = v
	}
	return result, nil
}

func evalOr(ctx *Ctx, env EnvHandle, list reader.ListExpr) (Value, error) {
	items := list.Items[1:]
	var result Value = Value{Kind: KindBool, Bool: false}
	for _, e := range items {
		v, err := Eval(ctx, env, e)
		if err != nil {
			return Value{}, err
		}
		if isTruthy(v) {
			return v, nil
		}
		result = v
	}
	return result, nil
}

func evalBegin(ctx *Ctx, env EnvHandle, list reader.ListExpr) (Value, error) {
	return evalBody(ctx, env, list.Items[1:])
}

func evalSetBang(ctx *Ctx, env EnvHandle, list reader.ListExpr) (Value, error) {
	items := list.Items[1:]
	if len(items) != 2 {
		return Value{}, typeErr("set!: expected a symbol and a value")
	}
	nameSym, ok := items[0].(reader.SymbolExpr)
	if !ok {
		return Value{}, typeErr("set!: target must be a symbol")
	}
	v, err := Eval(ctx, env, items[1])
	if err != nil {
		return Value{}, err
	}
	if !ctx.heap.Set(env, nameSym.Name, v) {
		return Value{}, unboundErr(nameSym.Name, nameSym.Pos)
	}
	return v, nil
}

func evalQuote(ctx *Ctx, env EnvHandle, list reader.ListExpr) (Value, error) {
	items := list.Items[1:]
	if len(items) != 1 {
		return Value{}, typeErr("quote: expected exactly one operand")
	}
	switch e := items[0].(type) {
	case reader.NumberExpr:
		if e.IsFloat {
			return Value{Kind: KindFloat, Float: e.Float}, nil
		}
		return Value{Kind: KindInt, Int: e.Int}, nil
	case reader.BooleanExpr:
		return Value{Kind: KindBool, Bool: e.Value}, nil
	case reader.StringExpr:
		return Value{Kind: KindString, Str: e.Value}, nil
	case reader.SymbolExpr:
		return Value{Kind: KindSymbol, Str: e.Name}, nil
	default:
		return Value{}, typeErr("quote: lists are reserved for a later phase")
	}
}
