package evaluator

import (
	"github.com/itmoscript/itmoscript/internal/ast"
	"github.com/itmoscript/itmoscript/internal/errors"
	"github.com/itmoscript/itmoscript/internal/value"
	"github.com/itmoscript/itmoscript/pkg/token"
)

// maxCallDepth guards against unbounded recursion exhausting the Go stack;
// the language itself imposes no call-depth limit.
const maxCallDepth = 4096

func (e *Evaluator) evalCall(c *ast.Call, env *Environment) (value.Value, Flow, error) {
	name, isBuiltinCall := calleeName(c.Callee)
	if isBuiltinCall && e.builtins.Has(name) {
		if _, bound := env.Get(name); !bound {
			args, flow, err := e.evalArgs(c.Args, env)
			if err != nil || flow != Normal {
				return nil, flow, err
			}
			result, err := e.builtins.Call(name, args, c.Pos(), e.callStack, e.out, e.in)
			if err != nil {
				return nil, Normal, err
			}
			return result, Normal, nil
		}
	}

	callee, flow, err := e.evalExpression(c.Callee, env)
	if err != nil {
		return nil, Normal, err
	}
	if flow != Normal {
		return callee, flow, nil
	}

	fn, ok := callee.(*value.Function)
	if !ok {
		return nil, Normal, e.runtimeErr(errors.UncallableObject, c.Pos(), "cannot call value of type %s", value.TypeName(callee))
	}

	args, flow, err := e.evalArgs(c.Args, env)
	if err != nil || flow != Normal {
		return nil, flow, err
	}

	return e.callFunction(fn, args, c.Pos())
}

// calleeName reports the plain identifier name a Call's callee refers to,
// used to route a bare `name(...)` call to the built-in registry when no
// user binding shadows it.
func calleeName(expr ast.Expression) (string, bool) {
	if id, ok := expr.(*ast.Identifier); ok {
		return id.Value, true
	}
	return "", false
}

func (e *Evaluator) evalArgs(exprs []ast.Expression, env *Environment) ([]value.Value, Flow, error) {
	args := make([]value.Value, 0, len(exprs))
	for _, expr := range exprs {
		v, flow, err := e.evalExpression(expr, env)
		if err != nil {
			return nil, Normal, err
		}
		if flow != Normal {
			return nil, flow, nil
		}
		args = append(args, v)
	}
	return args, Normal, nil
}

// callFunction invokes a user-defined closure: it binds parameters into a
// fresh scope nested in the function's captured environment, pushes a call
// frame for diagnostics, and unwraps the body's control-flow signal into a
// plain return value (Return becomes the function's result; a bare
// break/continue escaping the body is a ControlFlow error; Normal falls
// through to nil, matching a function with no explicit return).
func (e *Evaluator) callFunction(fn *value.Function, args []value.Value, pos token.Position) (value.Value, Flow, error) {
	if len(args) != len(fn.Parameters) {
		return nil, Normal, e.runtimeErr(errors.ParametersCount, pos, "%s expects %d argument(s), got %d", callName(fn), len(fn.Parameters), len(args))
	}
	if len(e.callStack) >= maxCallDepth {
		return nil, Normal, e.runtimeErr(errors.UncallableObject, pos, "maximum call depth exceeded")
	}

	closureEnv, _ := fn.Env.(*Environment)
	callEnv := NewEnclosedEnvironment(closureEnv)
	for i, param := range fn.Parameters {
		callEnv.Define(param, args[i])
	}

	body, _ := fn.Body.(*ast.BlockStatement)

	e.pushFrame(callName(fn), pos.Line)
	result, flow, err := e.evalBlock(body, callEnv)
	e.popFrame()
	if err != nil {
		return nil, Normal, err
	}

	switch flow {
	case Return:
		return result, Normal, nil
	case Break, Continue:
		return nil, Normal, e.runtimeErr(errors.ControlFlow, pos, "%s statement outside of a loop", flowName(flow))
	default:
		return value.NilValue, Normal, nil
	}
}

func callName(fn *value.Function) string {
	if fn.Name == "" {
		return "<anonymous>"
	}
	return fn.Name
}
