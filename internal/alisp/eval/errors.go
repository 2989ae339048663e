package eval

import (
	"fmt"

	"github.com/nilsbok/alise/internal/alisp/reader"
)

// ErrorKind enumerates the evaluator's own error taxonomy. Reader
// errors (reader.Error) are surfaced unwrapped, since they already
// carry a {Kind, Pos, Msg} shape the minibuffer bridge formats the
// same way.
type ErrorKind int

const (
	UnboundSymbol ErrorKind = iota
	TypeMismatch
	ArityMismatch
	DivisionByZero
)

func (k ErrorKind) String() string {
	switch k {
	case UnboundSymbol:
		return "unbound-symbol"
	case TypeMismatch:
		return "type-mismatch"
	case ArityMismatch:
		return "arity-mismatch"
	case DivisionByZero:
		return "division-by-zero"
	default:
		return "unknown-error"
	}
}

// Error is the evaluator's error type. Pos is nil when the error
// originates inside a primitive, which has no source span of its own.
type Error struct {
	Kind ErrorKind
	Pos  *reader.Pos
	Msg  string
}

func (e *Error) Error() string {
	if e.Pos != nil {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func unboundErr(name string, pos reader.Pos) error {
	return &Error{Kind: UnboundSymbol, Pos: &pos, Msg: "unbound symbol " + name}
}

func typeErr(msg string) error {
	return &Error{Kind: TypeMismatch, Msg: msg}
}

func arityErr(msg string) error {
	return &Error{Kind: ArityMismatch, Msg: msg}
}

func divZeroErr(msg string) error {
	return &Error{Kind: DivisionByZero, Msg: msg}
}
