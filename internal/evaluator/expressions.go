package evaluator

import (
	"github.com/itmoscript/itmoscript/internal/ast"
	"github.com/itmoscript/itmoscript/internal/errors"
	"github.com/itmoscript/itmoscript/internal/value"
)

// evalExpression dispatches on the expression's concrete type. Per §4.5,
// a plain expression always yields Normal flow; If is the exception, since
// its branches execute statements that may bubble return/break/continue up
// through it, and an expression containing an If passes that signal on. A
// Call consumes its own body's signals (see callFunction).
func (e *Evaluator) evalExpression(expr ast.Expression, env *Environment) (value.Value, Flow, error) {
	switch ex := expr.(type) {
	case *ast.Identifier:
		return e.evalIdentifier(ex, env)
	case *ast.IntLiteral:
		return value.Int{Value: ex.Value}, Normal, nil
	case *ast.FloatLiteral:
		return value.Float{Value: ex.Value}, Normal, nil
	case *ast.StringLiteral:
		return value.NewString(ex.Value), Normal, nil
	case *ast.BoolLiteral:
		return value.Bool{Value: ex.Value}, Normal, nil
	case *ast.NilLiteral:
		return value.NilValue, Normal, nil
	case *ast.ListLiteral:
		return e.evalListLiteral(ex, env)
	case *ast.FunctionLiteral:
		return e.evalFunctionLiteral(ex, env), Normal, nil
	case *ast.Prefix:
		return e.evalPrefix(ex, env)
	case *ast.Infix:
		return e.evalInfix(ex, env)
	case *ast.Index:
		return e.evalIndex(ex, env)
	case *ast.Call:
		return e.evalCall(ex, env)
	case *ast.If:
		return e.evalIf(ex, env)
	default:
		return nil, Normal, e.runtimeErr(errors.UnsupportedType, expr.Pos(), "unsupported expression type %T", expr)
	}
}

// evalIdentifier resolves a name in a non-call position: the environment
// chain, then the built-in registry (whose names are callable only from a
// Call expression — referencing one otherwise is an error), then
// undefined.
func (e *Evaluator) evalIdentifier(id *ast.Identifier, env *Environment) (value.Value, Flow, error) {
	if v, ok := env.Get(id.Value); ok {
		return v, Normal, nil
	}
	if e.builtins.Has(id.Value) {
		return nil, Normal, e.runtimeErr(errors.StandardFunctionNoCall, id.Pos(), "built-in %q must be called, not referenced", id.Value)
	}
	return nil, Normal, e.runtimeErr(errors.UndefinedName, id.Pos(), "undefined name: %s", id.Value)
}

func (e *Evaluator) evalListLiteral(l *ast.ListLiteral, env *Environment) (value.Value, Flow, error) {
	elems := make([]value.Value, 0, len(l.Elements))
	for _, expr := range l.Elements {
		v, flow, err := e.evalExpression(expr, env)
		if err != nil {
			return nil, Normal, err
		}
		if flow != Normal {
			return v, flow, nil
		}
		elems = append(elems, v)
	}
	return value.NewList(elems), Normal, nil
}

// evalFunctionLiteral captures env (the environment active at the point
// of evaluation) as the function's closure, per the language's lexical
// capture rule.
func (e *Evaluator) evalFunctionLiteral(l *ast.FunctionLiteral, env *Environment) value.Value {
	params := make([]string, len(l.Parameters))
	for i, p := range l.Parameters {
		params[i] = p.Value
	}
	return &value.Function{Parameters: params, Body: l.Body, Env: env}
}

func (e *Evaluator) evalPrefix(p *ast.Prefix, env *Environment) (value.Value, Flow, error) {
	right, flow, err := e.evalExpression(p.Right, env)
	if err != nil {
		return nil, Normal, err
	}
	if flow != Normal {
		return right, flow, nil
	}
	result, err := e.operators.EvalUnary(p.Operator, right, p.Pos(), e.callStack)
	if err != nil {
		return nil, Normal, err
	}
	return result, Normal, nil
}

func (e *Evaluator) evalInfix(inf *ast.Infix, env *Environment) (value.Value, Flow, error) {
	if inf.Operator == "and" || inf.Operator == "or" {
		return e.evalLogical(inf, env)
	}

	left, flow, err := e.evalExpression(inf.Left, env)
	if err != nil {
		return nil, Normal, err
	}
	if flow != Normal {
		return left, flow, nil
	}
	right, flow, err := e.evalExpression(inf.Right, env)
	if err != nil {
		return nil, Normal, err
	}
	if flow != Normal {
		return right, flow, nil
	}
	result, err := e.operators.EvalBinary(inf.Operator, left, right, inf.Pos(), e.callStack)
	if err != nil {
		return nil, Normal, err
	}
	return result, Normal, nil
}

// evalLogical implements short-circuit `and`/`or`: the result is the
// deciding operand's own value, not a coerced bool.
func (e *Evaluator) evalLogical(inf *ast.Infix, env *Environment) (value.Value, Flow, error) {
	left, flow, err := e.evalExpression(inf.Left, env)
	if err != nil {
		return nil, Normal, err
	}
	if flow != Normal {
		return left, flow, nil
	}

	if inf.Operator == "and" {
		if !left.Truthy() {
			return left, Normal, nil
		}
		return e.evalExpression(inf.Right, env)
	}
	if left.Truthy() {
		return left, Normal, nil
	}
	return e.evalExpression(inf.Right, env)
}

func (e *Evaluator) evalIf(f *ast.If, env *Environment) (value.Value, Flow, error) {
	for _, branch := range f.Branches {
		if branch.Condition == nil {
			return e.evalBlock(branch.Consequence, env)
		}
		cond, flow, err := e.evalExpression(branch.Condition, env)
		if err != nil {
			return nil, Normal, err
		}
		if flow != Normal {
			return cond, flow, nil
		}
		if cond.Truthy() {
			return e.evalBlock(branch.Consequence, env)
		}
	}
	return value.NilValue, Normal, nil
}
