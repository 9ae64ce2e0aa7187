package evaluator

import (
	"github.com/itmoscript/itmoscript/internal/ast"
	"github.com/itmoscript/itmoscript/internal/errors"
	"github.com/itmoscript/itmoscript/internal/value"
	"github.com/itmoscript/itmoscript/pkg/token"
)

// evalStatement dispatches on the statement's concrete type. It returns
// the statement's value (nil/ignored for most statement kinds), the
// control-flow signal it produced, and any runtime error.
func (e *Evaluator) evalStatement(stmt ast.Statement, env *Environment) (value.Value, Flow, error) {
	switch s := stmt.(type) {
	case *ast.Assign:
		return e.evalAssign(s, env)
	case *ast.OperatorAssign:
		return e.evalOperatorAssign(s, env)
	case *ast.Return:
		return e.evalReturn(s, env)
	case *ast.Break:
		return value.NilValue, Break, nil
	case *ast.Continue:
		return value.NilValue, Continue, nil
	case *ast.While:
		return e.evalWhile(s, env)
	case *ast.For:
		return e.evalFor(s, env)
	case *ast.ExpressionStatement:
		return e.evalExpression(s.Expression, env)
	default:
		return nil, Normal, e.runtimeErr(errors.UnsupportedType, stmt.Pos(), "unsupported statement type %T", stmt)
	}
}

// evalBlock executes a fresh-scoped block's statements in order, bubbling
// the first non-Normal flow signal and the block's last value.
func (e *Evaluator) evalBlock(block *ast.BlockStatement, env *Environment) (value.Value, Flow, error) {
	var result value.Value = value.NilValue
	for _, stmt := range block.Statements {
		v, flow, err := e.evalStatement(stmt, env)
		if err != nil {
			return nil, Normal, err
		}
		result = v
		if flow != Normal {
			return result, flow, nil
		}
	}
	return result, Normal, nil
}

const standardOverrideMsg = "cannot assign to built-in name %q"

func (e *Evaluator) evalAssign(s *ast.Assign, env *Environment) (value.Value, Flow, error) {
	if e.builtins.Has(s.Name.Value) {
		return nil, Normal, e.runtimeErr(errors.StandardOverride, s.Pos(), standardOverrideMsg, s.Name.Value)
	}
	v, flow, err := e.evalExpression(s.Value, env)
	if err != nil || flow != Normal {
		return v, flow, err
	}
	if fn, ok := v.(*value.Function); ok && fn.Name == "" {
		fn.Name = s.Name.Value
	}
	env.Assign(s.Name.Value, v)
	return v, Normal, nil
}

func (e *Evaluator) evalOperatorAssign(s *ast.OperatorAssign, env *Environment) (value.Value, Flow, error) {
	if e.builtins.Has(s.Name.Value) {
		return nil, Normal, e.runtimeErr(errors.StandardOverride, s.Pos(), standardOverrideMsg, s.Name.Value)
	}
	current, flow, err := e.evalIdentifier(s.Name, env)
	if err != nil {
		return nil, Normal, err
	}
	if flow != Normal {
		return current, flow, nil
	}
	rhs, flow, err := e.evalExpression(s.Value, env)
	if err != nil || flow != Normal {
		return rhs, flow, err
	}
	result, err := e.operators.EvalBinary(s.Operator, current, rhs, s.Pos(), e.callStack)
	if err != nil {
		return nil, Normal, err
	}
	env.Assign(s.Name.Value, result)
	return result, Normal, nil
}

func (e *Evaluator) evalReturn(s *ast.Return, env *Environment) (value.Value, Flow, error) {
	if s.Value == nil {
		return value.NilValue, Return, nil
	}
	v, flow, err := e.evalExpression(s.Value, env)
	if err != nil {
		return nil, Normal, err
	}
	if flow != Normal {
		return v, flow, nil
	}
	return v, Return, nil
}

func (e *Evaluator) evalWhile(s *ast.While, env *Environment) (value.Value, Flow, error) {
	for {
		cond, flow, err := e.evalExpression(s.Condition, env)
		if err != nil {
			return nil, Normal, err
		}
		if flow != Normal {
			return cond, flow, nil
		}
		if !cond.Truthy() {
			return value.NilValue, Normal, nil
		}

		bodyEnv := NewEnclosedEnvironment(env)
		bodyVal, flow, err := e.evalBlock(s.Body, bodyEnv)
		if err != nil {
			return nil, Normal, err
		}
		switch flow {
		case Break:
			return value.NilValue, Normal, nil
		case Return:
			return bodyVal, Return, nil
		case Continue, Normal:
			// fall through to re-check the condition
		}
	}
}

func (e *Evaluator) evalFor(s *ast.For, env *Environment) (value.Value, Flow, error) {
	iterable, flow, err := e.evalExpression(s.Iterable, env)
	if err != nil {
		return nil, Normal, err
	}
	if flow != Normal {
		return iterable, flow, nil
	}

	items, err := e.iterationItems(iterable, s.Pos())
	if err != nil {
		return nil, Normal, err
	}

	for _, item := range items {
		// Each iteration gets a fresh scope so closures created in the
		// body capture a distinct binding per iteration.
		iterEnv := NewEnclosedEnvironment(env)
		iterEnv.Define(s.IterName.Value, item)

		bodyVal, flow, err := e.evalBlock(s.Body, iterEnv)
		if err != nil {
			return nil, Normal, err
		}
		switch flow {
		case Break:
			return value.NilValue, Normal, nil
		case Return:
			return bodyVal, Return, nil
		case Continue, Normal:
			continue
		}
	}
	return value.NilValue, Normal, nil
}

// iterationItems produces the sequence a `for` loop walks: a List's
// elements directly, or a String's one-character substrings per step.
func (e *Evaluator) iterationItems(v value.Value, pos token.Position) ([]value.Value, error) {
	switch it := v.(type) {
	case value.List:
		elems := *it.Elements()
		out := make([]value.Value, len(elems))
		copy(out, elems)
		return out, nil
	case value.String:
		s := it.Value()
		out := make([]value.Value, 0, len(s))
		for i := 0; i < len(s); i++ {
			out = append(out, value.NewString(string(s[i])))
		}
		return out, nil
	default:
		return nil, e.runtimeErr(errors.ArgumentType, pos, "for-in requires a List or String, got %s", value.TypeName(v))
	}
}
