package reader

import "testing"

func TestReadIntegerAndFloat(t *testing.T) {
	e, err := Read("42")
	if err != nil {
		t.Fatal(err)
	}
	n, ok := e.(NumberExpr)
	if !ok || n.IsFloat || n.Int != 42 {
		t.Fatalf("got %+v, want NumberExpr{Int:42}", e)
	}

	e, err = Read("-3.5")
	if err != nil {
		t.Fatal(err)
	}
	f, ok := e.(NumberExpr)
	if !ok || !f.IsFloat || f.Float != -3.5 {
		t.Fatalf("got %+v, want NumberExpr{IsFloat:true,Float:-3.5}", e)
	}
}

func TestReadBooleans(t *testing.T) {
	e, err := Read("true")
	if err != nil {
		t.Fatal(err)
	}
	if b, ok := e.(BooleanExpr); !ok || !b.Value {
		t.Fatalf("got %+v, want BooleanExpr{true}", e)
	}

	e, err = Read("false")
	if err != nil {
		t.Fatal(err)
	}
	if b, ok := e.(BooleanExpr); !ok || b.Value {
		t.Fatalf("got %+v, want BooleanExpr{false}", e)
	}
}

func TestReadStringEscapes(t *testing.T) {
	e, err := Read(`"hi\nthere"`)
	if err != nil {
		t.Fatal(err)
	}
	s, ok := e.(StringExpr)
	if !ok || s.Value != "hi\nthere" {
		t.Fatalf("got %+v, want StringExpr{\"hi\\nthere\"}", e)
	}
}

func TestReadSymbolWithExtraChars(t *testing.T) {
	e, err := Read("foo-bar?")
	if err != nil {
		t.Fatal(err)
	}
	sym, ok := e.(SymbolExpr)
	if !ok || sym.Name != "foo-bar?" {
		t.Fatalf("got %+v, want SymbolExpr{\"foo-bar?\"}", e)
	}
}

func TestReadListNested(t *testing.T) {
	e, err := Read("(define (fib n) (if (<= n 1) n (+ 1 2)))")
	if err != nil {
		t.Fatal(err)
	}
	list, ok := e.(ListExpr)
	if !ok {
		t.Fatalf("top-level expr is %T, want ListExpr", e)
	}
	if len(list.Items) != 3 {
		t.Fatalf("len(Items) = %d, want 3", len(list.Items))
	}
	head, ok := list.Items[0].(SymbolExpr)
	if !ok || head.Name != "define" {
		t.Fatalf("head = %+v, want symbol \"define\"", list.Items[0])
	}
}

func TestUnmatchedParenError(t *testing.T) {
	_, err := Read("(+ 1 2")
	var rerr *Error
	if err == nil {
		t.Fatal("expected an error")
	}
	if e, ok := err.(*Error); ok {
		rerr = e
	} else {
		t.Fatalf("err is %T, want *Error", err)
	}
	if rerr.Kind != UnmatchedParen {
		t.Fatalf("Kind = %v, want UnmatchedParen", rerr.Kind)
	}
}

func TestUnexpectedClosingParenError(t *testing.T) {
	_, err := Read(")")
	rerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("err is %T, want *Error", err)
	}
	if rerr.Kind != UnmatchedParen {
		t.Fatalf("Kind = %v, want UnmatchedParen", rerr.Kind)
	}
}

func TestInvalidNumericLiteralError(t *testing.T) {
	_, err := Read("1abc")
	rerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("err is %T, want *Error", err)
	}
	if rerr.Kind != InvalidLiteral {
		t.Fatalf("Kind = %v, want InvalidLiteral", rerr.Kind)
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	e, err := Read("; a comment\n42 ; trailing")
	if err != nil {
		t.Fatal(err)
	}
	n, ok := e.(NumberExpr)
	if !ok || n.Int != 42 {
		t.Fatalf("got %+v, want NumberExpr{Int:42}", e)
	}
}

func TestReadAllMultipleForms(t *testing.T) {
	exprs, err := ReadAll("(define x 1) (define y 2)")
	if err != nil {
		t.Fatal(err)
	}
	if len(exprs) != 2 {
		t.Fatalf("len(exprs) = %d, want 2", len(exprs))
	}
}
