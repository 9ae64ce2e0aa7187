// Package builtins implements ItmoScript's standard library: the named
// callables registered against the evaluator, split into three parallel
// maps (pure value callables, output-stream callables, input-stream
// callables) per the built-in registry contract.
package builtins

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/itmoscript/itmoscript/internal/errors"
	"github.com/itmoscript/itmoscript/internal/value"
	"github.com/itmoscript/itmoscript/pkg/token"
)

// ValueFn is a pure built-in: it only sees its arguments, the call-site
// token, and the call stack active at the point of the call.
type ValueFn func(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error)

// OutFn additionally receives the program's output stream (print, println).
type OutFn func(args []value.Value, pos token.Position, stack []errors.Frame, out io.Writer) (value.Value, error)

// InFn additionally receives the program's input stream (read).
type InFn func(args []value.Value, pos token.Position, stack []errors.Frame, in *bufio.Reader) (value.Value, error)

type arity struct {
	min, max int // max == -1 means unbounded
}

// Registry is the standard library's three parallel name→callable maps.
type Registry struct {
	value   map[string]ValueFn
	out     map[string]OutFn
	in      map[string]InFn
	arities map[string]arity

	rng *rand.Rand
}

// NewRegistry builds a Registry with every standard name bundled by
// default. The registry is treated as immutable once Interpret begins.
func NewRegistry() *Registry {
	r := &Registry{
		value:   map[string]ValueFn{},
		out:     map[string]OutFn{},
		in:      map[string]InFn{},
		arities: map[string]arity{},
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	r.registerMath()
	r.registerSequence()
	r.registerIO()
	r.registerIntrospection()
	return r
}

func (r *Registry) registerValue(name string, min, max int, fn ValueFn) {
	r.value[name] = fn
	r.arities[name] = arity{min, max}
}

func (r *Registry) registerOut(name string, min, max int, fn OutFn) {
	r.out[name] = fn
	r.arities[name] = arity{min, max}
}

func (r *Registry) registerIn(name string, min, max int, fn InFn) {
	r.in[name] = fn
	r.arities[name] = arity{min, max}
}

// RegisterValue adds or overrides a pure value built-in under name with
// unchecked arity, implementing the `register_builtin(name, value, fn)`
// embedding contract: embedders validate their own argument counts.
func (r *Registry) RegisterValue(name string, fn ValueFn) {
	r.value[name] = fn
	r.arities[name] = arity{0, -1}
}

// RegisterOut adds or overrides an output-stream built-in under name,
// implementing the `register_builtin(name, out_stream, fn)` contract.
func (r *Registry) RegisterOut(name string, fn OutFn) {
	r.out[name] = fn
	r.arities[name] = arity{0, -1}
}

// RegisterIn adds or overrides an input-stream built-in under name,
// implementing the `register_builtin(name, in_stream, fn)` contract.
func (r *Registry) RegisterIn(name string, fn InFn) {
	r.in[name] = fn
	r.arities[name] = arity{0, -1}
}

// Has reports whether name is a registered built-in.
func (r *Registry) Has(name string) bool {
	if _, ok := r.value[name]; ok {
		return true
	}
	if _, ok := r.out[name]; ok {
		return true
	}
	_, ok := r.in[name]
	return ok
}

// Call validates the argument count against the registered arity and
// invokes the built-in, threading through whichever stream it declared.
func (r *Registry) Call(name string, args []value.Value, pos token.Position, stack []errors.Frame, out io.Writer, in *bufio.Reader) (value.Value, error) {
	if a, ok := r.arities[name]; ok {
		if len(args) < a.min || (a.max >= 0 && len(args) > a.max) {
			return nil, errors.New(errors.ParametersCount, pos, stack, "%s expects %s, got %d", name, describeArity(a), len(args))
		}
	}
	if fn, ok := r.value[name]; ok {
		return fn(args, pos, stack)
	}
	if fn, ok := r.out[name]; ok {
		return fn(args, pos, stack, out)
	}
	if fn, ok := r.in[name]; ok {
		return fn(args, pos, stack, in)
	}
	return nil, errors.New(errors.UndefinedName, pos, stack, "undefined built-in: %s", name)
}

func describeArity(a arity) string {
	switch {
	case a.max < 0:
		return fmt.Sprintf("%d or more arguments", a.min)
	case a.min == a.max:
		return fmt.Sprintf("%d argument(s)", a.min)
	default:
		return fmt.Sprintf("%d-%d arguments", a.min, a.max)
	}
}

func argTypeError(name string, idx int, got value.Value, expected string, pos token.Position, stack []errors.Frame) error {
	return errors.New(errors.ArgumentType, pos, stack, "%s: argument %d must be %s, got %s", name, idx+1, expected, value.TypeName(got))
}
