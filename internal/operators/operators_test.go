package operators

import (
	"testing"

	"github.com/itmoscript/itmoscript/internal/errors"
	"github.com/itmoscript/itmoscript/internal/value"
	"github.com/itmoscript/itmoscript/pkg/token"
)

func mustBinary(t *testing.T, r *Registry, op string, l, rgt value.Value) value.Value {
	t.Helper()
	v, err := r.EvalBinary(op, l, rgt, token.Position{}, nil)
	if err != nil {
		t.Fatalf("EvalBinary(%s) returned error: %v", op, err)
	}
	return v
}

func TestArithmeticIntAndFloat(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		op   string
		l, r value.Value
		want value.Value
	}{
		{"+", value.Int{Value: 2}, value.Int{Value: 3}, value.Int{Value: 5}},
		{"-", value.Int{Value: 5}, value.Int{Value: 2}, value.Int{Value: 3}},
		{"*", value.Int{Value: 4}, value.Int{Value: 3}, value.Int{Value: 12}},
		{"/", value.Int{Value: 7}, value.Int{Value: 2}, value.Int{Value: 3}},
		{"%", value.Int{Value: 7}, value.Int{Value: 2}, value.Int{Value: 1}},
		{"^", value.Int{Value: 2}, value.Int{Value: 10}, value.Int{Value: 1024}},
		{"+", value.Float{Value: 1.5}, value.Float{Value: 2.5}, value.Float{Value: 4}},
	}
	for _, tt := range tests {
		got := mustBinary(t, r, tt.op, tt.l, tt.r)
		if !value.Equal(got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.op, got.Repr(), tt.want.Repr())
		}
	}
}

func TestCommonTypePromotion(t *testing.T) {
	r := NewRegistry()
	got := mustBinary(t, r, "+", value.Int{Value: 1}, value.Float{Value: 0.5})
	want := value.Float{Value: 1.5}
	if !value.Equal(got, want) {
		t.Errorf("expected Int+Float to promote to Float, got %v", got.Repr())
	}
}

func TestDivisionByZero(t *testing.T) {
	r := NewRegistry()
	_, err := r.EvalBinary("/", value.Int{Value: 1}, value.Int{Value: 0}, token.Position{}, nil)
	if err == nil {
		t.Fatalf("expected an error for division by zero")
	}
	rerr, ok := err.(*errors.RuntimeError)
	if !ok || rerr.Kind != errors.ZeroDivision {
		t.Fatalf("expected a ZeroDivision error, got %v", err)
	}
}

func TestOperatorTypeMismatch(t *testing.T) {
	r := NewRegistry()
	_, err := r.EvalBinary("+", value.NewString("a"), value.Int{Value: 1}, token.Position{}, nil)
	if err == nil {
		t.Fatalf("expected an error for incompatible operand types")
	}
	rerr, ok := err.(*errors.RuntimeError)
	if !ok || rerr.Kind != errors.OperatorType {
		t.Fatalf("expected an OperatorType error, got %v", err)
	}
}

func TestStringConcatAndSuffixSubtraction(t *testing.T) {
	r := NewRegistry()
	got := mustBinary(t, r, "+", value.NewString("foo"), value.NewString("bar"))
	if got.(value.String).Value() != "foobar" {
		t.Errorf("expected concatenation, got %q", got.(value.String).Value())
	}
	got = mustBinary(t, r, "-", value.NewString("foobar"), value.NewString("bar"))
	if got.(value.String).Value() != "foo" {
		t.Errorf("expected suffix trimmed, got %q", got.(value.String).Value())
	}
}

func TestStringRepetition(t *testing.T) {
	r := NewRegistry()
	got := mustBinary(t, r, "*", value.NewString("ab"), value.Int{Value: 3})
	if got.(value.String).Value() != "ababab" {
		t.Errorf("expected ababab, got %q", got.(value.String).Value())
	}
}

func TestListRepetitionAndNegativeFactorError(t *testing.T) {
	r := NewRegistry()
	list := value.NewList([]value.Value{value.Int{Value: 1}, value.Int{Value: 2}})
	got := mustBinary(t, r, "*", list, value.Int{Value: 2})
	out := got.(value.List)
	if out.Len() != 4 {
		t.Fatalf("expected 4 elements, got %d", out.Len())
	}

	_, err := r.EvalBinary("*", list, value.Int{Value: -1}, token.Position{}, nil)
	if err == nil {
		t.Fatalf("expected an error for negative repetition factor")
	}
	rerr, ok := err.(*errors.RuntimeError)
	if !ok || rerr.Kind != errors.SequenceMultiplication {
		t.Fatalf("expected a SequenceMultiplication error, got %v", err)
	}
}

func TestComparisons(t *testing.T) {
	r := NewRegistry()
	got := mustBinary(t, r, "<", value.Int{Value: 1}, value.Int{Value: 2})
	if !got.(value.Bool).Value {
		t.Errorf("expected 1 < 2 to be true")
	}
	got = mustBinary(t, r, ">=", value.Float{Value: 3}, value.Int{Value: 3})
	if !got.(value.Bool).Value {
		t.Errorf("expected 3.0 >= 3 to be true")
	}
}

func TestNilEquality(t *testing.T) {
	r := NewRegistry()
	got := mustBinary(t, r, "==", value.NilValue, value.NilValue)
	if !got.(value.Bool).Value {
		t.Errorf("expected nil == nil to be true")
	}
	got = mustBinary(t, r, "==", value.NilValue, value.Int{Value: 0})
	if got.(value.Bool).Value {
		t.Errorf("expected nil == 0 to be false")
	}
}

func TestBoolNumericEqualityIsAlwaysFalse(t *testing.T) {
	r := NewRegistry()
	got := mustBinary(t, r, "==", value.Bool{Value: true}, value.Int{Value: 1})
	if got.(value.Bool).Value {
		t.Errorf("expected Bool == Int to be false regardless of value")
	}
}

func TestListComparisonLexicographic(t *testing.T) {
	r := NewRegistry()
	a := value.NewList([]value.Value{value.Int{Value: 1}, value.Int{Value: 2}})
	b := value.NewList([]value.Value{value.Int{Value: 1}, value.Int{Value: 3}})
	got := mustBinary(t, r, "<", a, b)
	if !got.(value.Bool).Value {
		t.Errorf("expected [1,2] < [1,3] to be true")
	}

	shorter := value.NewList([]value.Value{value.Int{Value: 1}})
	got = mustBinary(t, r, "<", shorter, a)
	if !got.(value.Bool).Value {
		t.Errorf("expected a length-prefix list to compare as less")
	}
}

func TestUnaryNegationAndLogicalNot(t *testing.T) {
	r := NewRegistry()
	got, err := r.EvalUnary("-", value.Int{Value: 5}, token.Position{}, nil)
	if err != nil || got.(value.Int).Value != -5 {
		t.Fatalf("expected -5, got %v, err %v", got, err)
	}
	got, err = r.EvalUnary("not", value.Bool{Value: false}, token.Position{}, nil)
	if err != nil || !got.(value.Bool).Value {
		t.Fatalf("expected not false == true, got %v, err %v", got, err)
	}
}
