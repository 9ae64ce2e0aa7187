package evaluator

import (
	"bufio"
	"io"

	"github.com/itmoscript/itmoscript/internal/ast"
	"github.com/itmoscript/itmoscript/internal/builtins"
	"github.com/itmoscript/itmoscript/internal/errors"
	"github.com/itmoscript/itmoscript/internal/operators"
	"github.com/itmoscript/itmoscript/internal/value"
	"github.com/itmoscript/itmoscript/pkg/token"
)

// Evaluator is the tree-walking interpreter: it owns the operator and
// built-in registries (initialized once and treated as immutable during
// execution), the global environment frame, the call stack used for
// diagnostics, and the I/O streams built-ins read and write.
type Evaluator struct {
	operators *operators.Registry
	builtins  *builtins.Registry

	global    *Environment
	callStack []errors.Frame

	out io.Writer
	in  *bufio.Reader

	// Last is the value of the last top-level statement evaluated,
	// surfaced by the REPL's eval mode.
	Last value.Value
}

// New creates an Evaluator with a fresh global environment and a freshly
// constructed standard library, reading from in and writing to out.
func New(in io.Reader, out io.Writer) *Evaluator {
	return &Evaluator{
		operators: operators.NewRegistry(),
		builtins:  builtins.NewRegistry(),
		global:    NewEnvironment(),
		out:       out,
		in:        bufio.NewReader(in),
	}
}

// RegisterBuiltin adds or overrides a built-in value-callable by name,
// implementing the `register_builtin` embedding contract for the "value"
// kind. RegisterOutBuiltin and RegisterInBuiltin cover the stream kinds.
func (e *Evaluator) RegisterBuiltin(name string, fn builtins.ValueFn) {
	e.builtins.RegisterValue(name, fn)
}

// RegisterOutBuiltin implements the `register_builtin(name, out_stream,
// fn)` contract: fn additionally receives the evaluator's output stream.
func (e *Evaluator) RegisterOutBuiltin(name string, fn builtins.OutFn) {
	e.builtins.RegisterOut(name, fn)
}

// RegisterInBuiltin implements the `register_builtin(name, in_stream,
// fn)` contract: fn additionally receives the evaluator's input stream.
func (e *Evaluator) RegisterInBuiltin(name string, fn builtins.InFn) {
	e.builtins.RegisterIn(name, fn)
}

// Interpret runs program to completion, returning the final statement
// value or the first error encountered. Lexical/parse errors are the
// caller's responsibility (they abort before Interpret is ever called);
// everything Interpret returns is a *errors.RuntimeError.
func (e *Evaluator) Interpret(program *ast.Program) (value.Value, error) {
	var result value.Value = value.NilValue
	for _, stmt := range program.Statements {
		v, flow, err := e.evalStatement(stmt, e.global)
		if err != nil {
			return nil, err
		}
		switch flow {
		case Return:
			return nil, errors.New(errors.UnexpectedReturn, stmt.Pos(), e.callStack, "return statement outside of a function")
		case Break, Continue:
			return nil, errors.New(errors.ControlFlow, stmt.Pos(), e.callStack, "%s statement outside of a loop", flowName(flow))
		}
		result = v
		e.Last = v
	}
	return result, nil
}

func flowName(f Flow) string {
	if f == Break {
		return "break"
	}
	return "continue"
}

func (e *Evaluator) pushFrame(name string, line int) {
	e.callStack = append(e.callStack, errors.Frame{FunctionName: name, Line: line})
}

func (e *Evaluator) popFrame() {
	e.callStack = e.callStack[:len(e.callStack)-1]
}

func (e *Evaluator) runtimeErr(kind errors.Kind, pos token.Position, format string, args ...interface{}) error {
	return errors.New(kind, pos, e.callStack, format, args...)
}
