package eval

import "github.com/nilsbok/alise/internal/alisp/reader"

// Kind tags the dynamic type of a Value.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindString
	KindSymbol
	KindUnit
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindUnit:
		return "unit"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Value is the evaluator's tagged union. Only the field matching Kind
// is meaningful. Str carries both string literals and symbol names
// (KindSymbol is only produced by quote; Kind is what tells them
// apart).
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Bool  bool
	Str   string
	Fn    *Function
}

// Function is either a closure (Body/Env set) or a primitive
// (Primitive set). A Function value never has both set.
type Function struct {
	Name      string
	Params    []string
	Body      []reader.Expr
	Env       EnvHandle
	Primitive PrimitiveFunc
}

// PrimitiveFunc implements a built-in procedure over already-evaluated
// arguments.
type PrimitiveFunc func(ctx *Ctx, args []Value) (Value, error)

func isTruthy(v Value) bool {
	if v.Kind == KindUnit {
		return false
	}
	if v.Kind == KindBool {
		return v.Bool
	}
	return true
}

func toFloat(v Value) float64 {
	if v.Kind == KindFloat {
		return v.Float
	}
	return float64(v.Int)
}

func isNumber(v Value) bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}
