// Package repl implements ItmoScript's interactive Read-Eval-Print Loop in
// its three modes: tokenizing, parsing, and evaluating, one line at a time
// against a session that persists across inputs.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/itmoscript/itmoscript/internal/ast"
	"github.com/itmoscript/itmoscript/internal/evaluator"
	"github.com/itmoscript/itmoscript/internal/lexer"
	"github.com/itmoscript/itmoscript/internal/parser"
	"github.com/itmoscript/itmoscript/internal/value"
	"github.com/itmoscript/itmoscript/pkg/token"
)

// Mode selects what a line of input is run through before the loop prints
// the result: tokens only, the parsed AST only, or full evaluation.
type Mode int

const (
	ModeLex Mode = iota
	ModeParse
	ModeEval
)

const prompt = ">> "

// Start runs the REPL in mode, reading lines from in and writing prompts
// and results to out. It returns when in is exhausted.
func Start(mode Mode, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	eval := evaluator.New(in, out)

	fmt.Fprintf(out, "ItmoScript REPL (%s mode). Press Ctrl-D to exit.\n", modeName(mode))

	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch mode {
		case ModeLex:
			printTokens(out, line)
		case ModeParse:
			printAST(out, line)
		default:
			printEval(out, eval, line)
		}
	}
}

func modeName(m Mode) string {
	switch m {
	case ModeLex:
		return "lex"
	case ModeParse:
		return "parse"
	default:
		return "eval"
	}
}

func printTokens(out io.Writer, line string) {
	l := lexer.New(line)
	for {
		tok := l.NextToken()
		fmt.Fprintf(out, "%-10s %q @%d:%d\n", tok.Type, tok.Literal, tok.Pos.Line, tok.Pos.Column)
		if tok.Type == token.EOF {
			break
		}
	}
	for _, e := range l.Errors() {
		fmt.Fprintln(out, e.Error())
	}
}

func printAST(out io.Writer, line string) {
	program, errs := parseLine(line)
	if len(errs) > 0 {
		printParseErrors(out, errs)
		return
	}
	fmt.Fprintln(out, program.String())
}

func printEval(out io.Writer, eval *evaluator.Evaluator, line string) {
	program, errs := parseLine(line)
	if len(errs) > 0 {
		printParseErrors(out, errs)
		return
	}

	result, err := eval.Interpret(program)
	if err != nil {
		fmt.Fprintln(out, err.Error())
		return
	}
	if result == nil || result.Tag() == value.NilTag {
		return
	}
	fmt.Fprintln(out, result.Repr())
}

func parseLine(line string) (*ast.Program, []*parser.Error) {
	l := lexer.New(line)
	p := parser.New(l)
	program := p.ParseProgram()
	return program, p.Errors()
}

func printParseErrors(out io.Writer, errs []*parser.Error) {
	for _, e := range errs {
		fmt.Fprintln(out, e.Error())
	}
}
