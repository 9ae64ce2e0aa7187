package builtins

import (
	"github.com/itmoscript/itmoscript/internal/errors"
	"github.com/itmoscript/itmoscript/internal/value"
	"github.com/itmoscript/itmoscript/pkg/token"
)

func (r *Registry) registerIntrospection() {
	r.registerValue("stacktrace", 0, 0, builtinStacktrace)
}

// builtinStacktrace returns the call stack active at the point of the
// call, as a list of [name, line] pairs, most recent call last.
func builtinStacktrace(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	elems := make([]value.Value, len(stack))
	for i, f := range stack {
		elems[i] = value.NewList([]value.Value{
			value.NewString(f.FunctionName),
			value.Int{Value: int64(f.Line)},
		})
	}
	return value.NewList(elems), nil
}
