package eval

import "strconv"

// Format renders a Value in its canonical display form: numbers in
// their shortest round-tripping form, strings double-quoted, booleans
// as true/false, unit as (), and functions as #<function> (or
// #<function NAME> when named by define).
func Format(v Value) string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindString:
		return strconv.Quote(v.Str)
	case KindSymbol:
		return v.Str
	case KindUnit:
		return "()"
	case KindFunction:
		if v.Fn != nil && v.Fn.Name != "" {
			return "#<function " + v.Fn.Name + ">"
		}
		return "#<function>"
	default:
		return "#<unknown>"
	}
}
