package eval

import (
	"strings"
	"unicode/utf8"
)

func registerPrimitives(ctx *Ctx) {
	reg := func(name string, fn PrimitiveFunc) {
		ctx.primitives[name] = &Function{Name: name, Primitive: fn}
	}
	reg("+", primAdd)
	reg("-", primSub)
	reg("*", primMul)
	reg("/", primDiv)
	reg("=", compareFold("=", func(a, b float64) bool { return a == b }))
	reg("<", compareFold("<", func(a, b float64) bool { return a < b }))
	reg(">", compareFold(">", func(a, b float64) bool { return a > b }))
	reg("<=", compareFold("<=", func(a, b float64) bool { return a <= b }))
	reg(">=", compareFold(">=", func(a, b float64) bool { return a >= b }))
	reg("not", primNot)
	reg("string-append", primStringAppend)
	reg("string-length", primStringLength)
	reg("type-of", primTypeOf)
	reg("print", primPrint)
}

func numericFold(name string, args []Value, foldInt func(a, b int64) int64, foldFloat func(a, b float64) float64) (Value, error) {
	if len(args) == 0 {
		return Value{}, arityErr(name + ": requires at least 1 argument")
	}
	allInt := true
	for _, a := range args {
		if !isNumber(a) {
			return Value{}, typeErr(name + ": expected a number")
		}
		if a.Kind == KindFloat {
			allInt = false
		}
	}
	if allInt {
		acc := args[0].Int
		for _, a := range args[1:] {
			acc = foldInt(acc, a.Int)
		}
		return Value{Kind: KindInt, Int: acc}, nil
	}
	acc := toFloat(args[0])
	for _, a := range args[1:] {
		acc = foldFloat(acc, toFloat(a))
	}
	return Value{Kind: KindFloat, Float: acc}, nil
}

func primAdd(ctx *Ctx, args []Value) (Value, error) {
	if len(args) == 0 {
		return Value{Kind: KindInt, Int: 0}, nil
	}
	return numericFold("+", args, func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
}

func primSub(ctx *Ctx, args []Value) (Value, error) {
	if len(args) == 0 {
		return Value{}, arityErr("-: requires at least 1 argument")
	}
	if len(args) == 1 {
		if !isNumber(args[0]) {
			return Value{}, typeErr("-: expected a number")
		}
		if args[0].Kind == KindFloat {
			return Value{Kind: KindFloat, Float: -args[0].Float}, nil
		}
		return Value{Kind: KindInt, Int: -args[0].Int}, nil
	}
	return numericFold("-", args, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
}

func primMul(ctx *Ctx, args []Value) (Value, error) {
	if len(args) == 0 {
		return Value{Kind: KindInt, Int: 1}, nil
	}
	return numericFold("*", args, func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
}

func primDiv(ctx *Ctx, args []Value) (Value, error) {
	if len(args) == 0 {
		return Value{}, arityErr("/: requires at least 1 argument")
	}
	allInt := true
	for _, a := range args {
		if !isNumber(a) {
			return Value{}, typeErr("/: expected a number")
		}
		if a.Kind == KindFloat {
			allInt = false
		}
	}
	var acc float64
	rest := args
	if len(args) == 1 {
		acc = 1
	} else {
		acc = toFloat(args[0])
		rest = args[1:]
	}
	for _, a := range rest {
		d := toFloat(a)
		if d == 0 {
			return Value{}, divZeroErr("/: division by zero")
		}
		acc /= d
	}
	if allInt && acc == float64(int64(acc)) {
		return Value{Kind: KindInt, Int: int64(acc)}, nil
	}
	return Value{Kind: KindFloat, Float: acc}, nil
}

func compareFold(name string, cmp func(a, b float64) bool) PrimitiveFunc {
	return func(ctx *Ctx, args []Value) (Value, error) {
		if len(args) < 2 {
			return Value{}, arityErr(name + ": requires at least 2 arguments")
		}
		for i := 0; i+1 < len(args); i++ {
			a, b := args[i], args[i+1]
			if !isNumber(a) || !isNumber(b) {
				return Value{}, typeErr(name + ": expected numbers")
			}
			if !cmp(toFloat(a), toFloat(b)) {
				return Value{Kind: KindBool, Bool: false}, nil
			}
		}
		return Value{Kind: KindBool, Bool: true}, nil
	}
}

func primNot(ctx *Ctx, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, arityErr("not: requires exactly 1 argument")
	}
	return Value{Kind: KindBool, Bool: !isTruthy(args[0])}, nil
}

func primStringAppend(ctx *Ctx, args []Value) (Value, error) {
	var b strings.Builder
	for _, a := range args {
		if a.Kind != KindString {
			return Value{}, typeErr("string-append: expected a string")
		}
		b.WriteString(a.Str)
	}
	return Value{Kind: KindString, Str: b.String()}, nil
}

func primStringLength(ctx *Ctx, args []Value) (Value, error) {
	if len(args) != 1 || args[0].Kind != KindString {
		return Value{}, typeErr("string-length: requires exactly one string argument")
	}
	return Value{Kind: KindInt, Int: int64(utf8.RuneCountInString(args[0].Str))}, nil
}

func primTypeOf(ctx *Ctx, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, arityErr("type-of: requires exactly 1 argument")
	}
	var tag string
	switch args[0].Kind {
	case KindInt:
		tag = "integer"
	case KindFloat:
		tag = "float"
	case KindBool:
		tag = "boolean"
	case KindString:
		tag = "string"
	case KindSymbol:
		tag = "symbol"
	case KindUnit:
		tag = "unit"
	case KindFunction:
		tag = "function"
	default:
		tag = "unknown"
	}
	return Value{Kind: KindString, Str: tag}, nil
}

func primPrint(ctx *Ctx, args []Value) (Value, error) {
	if ctx.Output != nil {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = Format(a)
		}
		ctx.Output(strings.Join(parts, " "))
	}
	return Value{Kind: KindUnit}, nil
}
