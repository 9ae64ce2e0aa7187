package evaluator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/itmoscript/itmoscript/internal/errors"
	"github.com/itmoscript/itmoscript/internal/lexer"
	"github.com/itmoscript/itmoscript/internal/parser"
	"github.com/itmoscript/itmoscript/internal/value"
)

func run(t *testing.T, input string) (value.Value, error) {
	t.Helper()
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parser errors for %q: %v", input, p.Errors())
	}
	eval := New(strings.NewReader(""), &bytes.Buffer{})
	return eval.Interpret(program)
}

func runWithOutput(t *testing.T, input string) string {
	t.Helper()
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parser errors for %q: %v", input, p.Errors())
	}
	var out bytes.Buffer
	eval := New(strings.NewReader(""), &out)
	if _, err := eval.Interpret(program); err != nil {
		t.Fatalf("unexpected evaluation error for %q: %v", input, err)
	}
	return out.String()
}

func TestArithmeticAndAssignment(t *testing.T) {
	tests := []struct {
		input string
		want  value.Value
	}{
		{"x = 1 + 2 * 3", value.Int{Value: 7}},
		{"x = 2 ^ 3 ^ 2", value.Int{Value: 512}},
		{"x = (1 + 2) * 3", value.Int{Value: 9}},
		{"x = 10 / 4", value.Int{Value: 2}},
		{"x = 10.0 / 4", value.Float{Value: 2.5}},
	}
	for _, tt := range tests {
		got, err := run(t, tt.input)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.input, err)
		}
		if !value.Equal(got, tt.want) {
			t.Errorf("%q: got %s, want %s", tt.input, got.Repr(), tt.want.Repr())
		}
	}
}

func TestIfElseifElse(t *testing.T) {
	input := `
x = 5
if x < 0 then
  y = "neg"
elseif x == 0 then
  y = "zero"
else
  y = "pos"
end if
y
`
	got, err := run(t, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(value.String).Value() != "pos" {
		t.Errorf("got %q, want %q", got.(value.String).Value(), "pos")
	}
}

func TestWhileLoopWithBreakAndContinue(t *testing.T) {
	input := `
sum = 0
i = 0
while i < 10
  i += 1
  if i == 3 then
    continue
  end if
  if i == 7 then
    break
  end if
  sum += i
end while
sum
`
	got, err := run(t, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := int64(1 + 2 + 4 + 5 + 6)
	if got.(value.Int).Value != want {
		t.Errorf("got %d, want %d", got.(value.Int).Value, want)
	}
}

func TestForOverListAndString(t *testing.T) {
	got, err := run(t, `
total = 0
for n in [1, 2, 3]
  total += n
end for
total
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(value.Int).Value != 6 {
		t.Errorf("got %d, want 6", got.(value.Int).Value)
	}

	got, err = run(t, `
out = ""
for c in "abc"
  out += c
end for
out
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(value.String).Value() != "abc" {
		t.Errorf("got %q, want %q", got.(value.String).Value(), "abc")
	}
}

func TestShortCircuitAndOr(t *testing.T) {
	got, err := run(t, `0 and (1 / 0)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(value.Int).Value != 0 {
		t.Errorf("expected and to short-circuit and return the left operand, got %v", got)
	}

	got, err = run(t, `5 or (1 / 0)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(value.Int).Value != 5 {
		t.Errorf("expected or to short-circuit and return the left operand, got %v", got)
	}
}

func TestFunctionCallAndRecursion(t *testing.T) {
	input := `
fact = function(n)
  if n <= 1 then
    return 1
  end if
  return n * fact(n - 1)
end function
fact(5)
`
	got, err := run(t, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(value.Int).Value != 120 {
		t.Errorf("got %d, want 120", got.(value.Int).Value)
	}
}

func TestReturnFromInsideLoopPropagatesValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{
			name: "for",
			input: `
find_first_even = function(items)
  for x in items
    if x % 2 == 0 then
      return x
    end if
  end for
  return -1
end function
find_first_even([1, 3, 4, 5])
`,
			want: 4,
		},
		{
			name: "while",
			input: `
first_square_over = function(limit)
  n = 1
  while true
    if n * n > limit then
      return n * n
    end if
    n = n + 1
  end while
end function
first_square_over(10)
`,
			want: 16,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.(value.Int).Value != tt.want {
				t.Errorf("got %d, want %d", got.(value.Int).Value, tt.want)
			}
		})
	}
}

func TestClosureCapturesPerIterationBinding(t *testing.T) {
	input := `
fns = []
for i in [1, 2, 3]
  push(fns, function()
    return i
  end function)
end for
results = []
for f in fns
  push(results, f())
end for
results
`
	got, err := run(t, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list := got.(value.List)
	elems := *list.Elements()
	want := []int64{1, 2, 3}
	if len(elems) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(elems))
	}
	for i, w := range want {
		if elems[i].(value.Int).Value != w {
			t.Errorf("element %d: got %d, want %d", i, elems[i].(value.Int).Value, w)
		}
	}
}

func TestOperatorAssignOnIdentifier(t *testing.T) {
	got, err := run(t, `
x = 10
x += 5
x -= 2
x *= 2
x
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(value.Int).Value != 26 {
		t.Errorf("got %d, want 26", got.(value.Int).Value)
	}
}

func TestIndexingAndSlicing(t *testing.T) {
	got, err := run(t, `
a = [10, 20, 30, 40]
a[-1]
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(value.Int).Value != 40 {
		t.Errorf("got %d, want 40", got.(value.Int).Value)
	}

	got, err = run(t, `
a = [10, 20, 30, 40]
a[1:3]
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	elems := *got.(value.List).Elements()
	if len(elems) != 2 || elems[0].(value.Int).Value != 20 || elems[1].(value.Int).Value != 30 {
		t.Errorf("got %v, want [20, 30]", got.Repr())
	}
}

func TestIndexOutOfRangeIsRuntimeError(t *testing.T) {
	_, err := run(t, `a = [1, 2]
a[5]
`)
	if err == nil {
		t.Fatalf("expected an error")
	}
	rerr, ok := err.(*errors.RuntimeError)
	if !ok || rerr.Kind != errors.IndexOutOfRange {
		t.Fatalf("expected an IndexOutOfRange error, got %v", err)
	}
}

func TestUndefinedNameIsRuntimeError(t *testing.T) {
	_, err := run(t, `y`)
	if err == nil {
		t.Fatalf("expected an error")
	}
	rerr, ok := err.(*errors.RuntimeError)
	if !ok || rerr.Kind != errors.UndefinedName {
		t.Fatalf("expected an UndefinedName error, got %v", err)
	}
}

func TestBreakOutsideLoopInFunctionIsControlFlowError(t *testing.T) {
	_, err := run(t, `
f = function()
  break
end function
f()
`)
	if err == nil {
		t.Fatalf("expected an error")
	}
	rerr, ok := err.(*errors.RuntimeError)
	if !ok || rerr.Kind != errors.ControlFlow {
		t.Fatalf("expected a ControlFlow error, got %v", err)
	}
}

func TestWrongArgumentCountIsRuntimeError(t *testing.T) {
	_, err := run(t, `
f = function(a, b)
  return a + b
end function
f(1)
`)
	if err == nil {
		t.Fatalf("expected an error")
	}
	rerr, ok := err.(*errors.RuntimeError)
	if !ok || rerr.Kind != errors.ParametersCount {
		t.Fatalf("expected a ParametersCount error, got %v", err)
	}
}

func TestNestedBuiltinCall(t *testing.T) {
	output := runWithOutput(t, `print(len([1, 2, 3]))`)
	if strings.TrimSpace(output) != "3" {
		t.Errorf("got %q, want %q", output, "3")
	}
}

func TestAssignToBuiltinNameIsRejected(t *testing.T) {
	_, err := run(t, `len = 5`)
	if err == nil {
		t.Fatalf("expected an error")
	}
	rerr, ok := err.(*errors.RuntimeError)
	if !ok || rerr.Kind != errors.StandardOverride {
		t.Fatalf("expected a StandardOverride error, got %v", err)
	}
}

func TestListMutationIsObservedThroughAliases(t *testing.T) {
	got, err := run(t, `
a = [1, 2, 3]
b = a
push(b, 4)
a
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	elems := *got.(value.List).Elements()
	if len(elems) != 4 {
		t.Fatalf("expected aliasing to observe the mutation, got %v", got.Repr())
	}
}
