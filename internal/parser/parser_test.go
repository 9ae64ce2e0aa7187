package parser

import (
	"fmt"
	"testing"

	"github.com/itmoscript/itmoscript/internal/ast"
	"github.com/itmoscript/itmoscript/internal/lexer"
)

func parseInput(t *testing.T, input string) *ast.Program {
	t.Helper()
	l := lexer.New(input)
	p := New(l)
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parser errors for %q: %v", input, p.Errors())
	}
	return program
}

func TestAssignAndOperatorAssign(t *testing.T) {
	program := parseInput(t, "x = 5\nx += 3\n")
	if len(program.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(program.Statements))
	}
	assign, ok := program.Statements[0].(*ast.Assign)
	if !ok {
		t.Fatalf("expected *ast.Assign, got %T", program.Statements[0])
	}
	if assign.Name.Value != "x" {
		t.Fatalf("expected name x, got %s", assign.Name.Value)
	}
	opAssign, ok := program.Statements[1].(*ast.OperatorAssign)
	if !ok {
		t.Fatalf("expected *ast.OperatorAssign, got %T", program.Statements[1])
	}
	if opAssign.Operator != "+" {
		t.Fatalf("expected operator +, got %s", opAssign.Operator)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"2 ^ 3 ^ 2", "(2 ^ (3 ^ 2))"},
		{"-1 + 2", "((- 1) + 2)"},
		{"1 < 2 and 2 < 3", "(((1 < 2) and 2) < 3)"},
		{"a[0] + 1", "(a[0] + 1)"},
	}

	for _, tt := range tests {
		program := parseInput(t, tt.input)
		stmt, ok := program.Statements[0].(*ast.ExpressionStatement)
		if !ok {
			t.Fatalf("expected ExpressionStatement for %q, got %T", tt.input, program.Statements[0])
		}
		got := stmt.Expression.String()
		if got != tt.expected {
			t.Errorf("for %q: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestFunctionLiteralParsing(t *testing.T) {
	program := parseInput(t, "f = function(a, b)\n  return a + b\nend function\n")
	assign := program.Statements[0].(*ast.Assign)
	fn, ok := assign.Value.(*ast.FunctionLiteral)
	if !ok {
		t.Fatalf("expected *ast.FunctionLiteral, got %T", assign.Value)
	}
	if len(fn.Parameters) != 2 || fn.Parameters[0].Value != "a" || fn.Parameters[1].Value != "b" {
		t.Fatalf("unexpected parameters: %v", fn.Parameters)
	}
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body.Statements))
	}
}

func TestDuplicateParameterIsParseError(t *testing.T) {
	l := lexer.New("f = function(a, a)\nend function\n")
	p := New(l)
	p.ParseProgram()
	if len(p.Errors()) != 1 || p.Errors()[0].Kind != DuplicateParameter {
		t.Fatalf("expected one DuplicateParameter error, got %v", p.Errors())
	}
}

func TestTrailingCommaInCallIsRejected(t *testing.T) {
	l := lexer.New("f(1, 2,)\n")
	p := New(l)
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatalf("expected a parse error for trailing comma")
	}
}

func TestIfElseifElseEquivalence(t *testing.T) {
	a := parseInput(t, "if x then\n  y = 1\nelseif z then\n  y = 2\nelse\n  y = 3\nend if\n")
	b := parseInput(t, "if x then\n  y = 1\nelse if z then\n  y = 2\nelse\n  y = 3\nend if\n")

	ifA := a.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.If)
	ifB := b.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.If)
	if len(ifA.Branches) != len(ifB.Branches) {
		t.Fatalf("expected equivalent branch counts, got %d vs %d", len(ifA.Branches), len(ifB.Branches))
	}
}

func TestWhileAndForParsing(t *testing.T) {
	program := parseInput(t, "while x < 10\n  x += 1\nend while\n")
	if _, ok := program.Statements[0].(*ast.While); !ok {
		t.Fatalf("expected *ast.While, got %T", program.Statements[0])
	}

	program = parseInput(t, "for item in items\n  print(item)\nend for\n")
	forStmt, ok := program.Statements[0].(*ast.For)
	if !ok {
		t.Fatalf("expected *ast.For, got %T", program.Statements[0])
	}
	if forStmt.IterName.Value != "item" {
		t.Fatalf("expected iter name item, got %s", forStmt.IterName.Value)
	}
}

func TestSliceExpressionParsing(t *testing.T) {
	tests := []string{"a[1:2]", "a[:2]", "a[1:]", "a[:]"}
	for _, input := range tests {
		program := parseInput(t, input)
		stmt := program.Statements[0].(*ast.ExpressionStatement)
		ix, ok := stmt.Expression.(*ast.Index)
		if !ok || !ix.IsSlice {
			t.Errorf("expected a slice Index for %q, got %T", input, stmt.Expression)
		}
	}
}

func TestUnterminatedBlockIsParseError(t *testing.T) {
	l := lexer.New("if true then\n  x = 1\n")
	p := New(l)
	p.ParseProgram()
	found := false
	for _, e := range p.Errors() {
		if e.Kind == UnterminatedBlock {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an UnterminatedBlock error, got %v", p.Errors())
	}
}

func TestStringEscapeResolution(t *testing.T) {
	program := parseInput(t, `"a\nb\t\"c\""`)
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	str := stmt.Expression.(*ast.StringLiteral)
	want := "a\nb\t\"c\""
	if str.Value != want {
		t.Fatalf("expected %q, got %q", want, str.Value)
	}
}

func TestMalformedEscapeIsParseError(t *testing.T) {
	l := lexer.New(`"bad \q escape"`)
	p := New(l)
	p.ParseProgram()
	if len(p.Errors()) == 0 || p.Errors()[0].Kind != MalformedEscape {
		t.Fatalf("expected a MalformedEscape error, got %v", p.Errors())
	}
}

func TestListLiteralParsing(t *testing.T) {
	program := parseInput(t, "[1, 2, 3]")
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	list, ok := stmt.Expression.(*ast.ListLiteral)
	if !ok || len(list.Elements) != 3 {
		t.Fatalf("expected a 3-element ListLiteral, got %v", fmt.Sprintf("%T", stmt.Expression))
	}
}
