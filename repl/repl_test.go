package repl

import (
	"bytes"
	"strings"
	"testing"
)

func TestEvalModeEvaluatesAndPersistsState(t *testing.T) {
	in := strings.NewReader("x = 5\nprintln(x + 1)\n")
	var out bytes.Buffer
	if err := Start(ModeEval, in, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "6") {
		t.Errorf("expected output to contain 6, got %q", out.String())
	}
}

func TestLexModePrintsTokens(t *testing.T) {
	in := strings.NewReader("x = 1\n")
	var out bytes.Buffer
	if err := Start(ModeLex, in, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "IDENT") {
		t.Errorf("expected token output to mention IDENT, got %q", out.String())
	}
}

func TestParseModePrintsAST(t *testing.T) {
	in := strings.NewReader("x = 1 + 2\n")
	var out bytes.Buffer
	if err := Start(ModeParse, in, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "(1 + 2)") {
		t.Errorf("expected AST output to contain (1 + 2), got %q", out.String())
	}
}

func TestBlankLinesAreIgnored(t *testing.T) {
	in := strings.NewReader("\n\nprintln(1)\n")
	var out bytes.Buffer
	if err := Start(ModeEval, in, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(out.String(), "1") != 1 {
		t.Errorf("expected exactly one printed 1, got %q", out.String())
	}
}

func TestParseErrorIsReportedWithoutStoppingTheLoop(t *testing.T) {
	in := strings.NewReader("x = \nprintln(2)\n")
	var out bytes.Buffer
	if err := Start(ModeEval, in, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "2") {
		t.Errorf("expected the loop to continue past the parse error, got %q", out.String())
	}
}
