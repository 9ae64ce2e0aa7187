package evaluator

import (
	"github.com/itmoscript/itmoscript/internal/ast"
	"github.com/itmoscript/itmoscript/internal/errors"
	"github.com/itmoscript/itmoscript/internal/value"
)

func (e *Evaluator) evalIndex(ix *ast.Index, env *Environment) (value.Value, Flow, error) {
	operand, flow, err := e.evalExpression(ix.Operand, env)
	if err != nil {
		return nil, Normal, err
	}
	if flow != Normal {
		return operand, flow, nil
	}

	if ix.IsSlice {
		return e.evalSlice(ix, operand, env)
	}

	idxVal, flow, err := e.evalExpression(ix.Index, env)
	if err != nil {
		return nil, Normal, err
	}
	if flow != Normal {
		return idxVal, flow, nil
	}
	idxInt, ok := idxVal.(value.Int)
	if !ok {
		return nil, Normal, e.runtimeErr(errors.IndexType, ix.Pos(), "index must be Int, got %s", value.TypeName(idxVal))
	}

	switch v := operand.(type) {
	case value.List:
		elems := *v.Elements()
		i, ok := resolveIndex(idxInt.Value, len(elems))
		if !ok {
			return nil, Normal, e.runtimeErr(errors.IndexOutOfRange, ix.Pos(), "index %d out of range for list of length %d", idxInt.Value, len(elems))
		}
		return elems[i], Normal, nil
	case value.String:
		s := v.Value()
		i, ok := resolveIndex(idxInt.Value, len(s))
		if !ok {
			return nil, Normal, e.runtimeErr(errors.IndexOutOfRange, ix.Pos(), "index %d out of range for string of length %d", idxInt.Value, len(s))
		}
		return value.NewString(string(s[i])), Normal, nil
	default:
		return nil, Normal, e.runtimeErr(errors.IndexOperandType, ix.Pos(), "cannot index value of type %s", value.TypeName(operand))
	}
}

// resolveIndex resolves a (possibly negative) index against length,
// reporting whether the result falls in [0, length).
func resolveIndex(i int64, length int) (int, bool) {
	if i < 0 {
		i += int64(length)
	}
	if i < 0 || i >= int64(length) {
		return 0, false
	}
	return int(i), true
}

func (e *Evaluator) evalSlice(ix *ast.Index, operand value.Value, env *Environment) (value.Value, Flow, error) {
	var length int
	switch v := operand.(type) {
	case value.List:
		length = v.Len()
	case value.String:
		length = len(v.Value())
	default:
		return nil, Normal, e.runtimeErr(errors.IndexOperandType, ix.Pos(), "cannot slice value of type %s", value.TypeName(operand))
	}

	start, end := 0, length
	if ix.Index != nil {
		b, flow, err := e.evalSliceBound(ix.Index, env, length)
		if err != nil || flow != Normal {
			return nil, flow, err
		}
		start = b
	}
	if ix.SecondIndex != nil {
		b, flow, err := e.evalSliceBound(ix.SecondIndex, env, length)
		if err != nil || flow != Normal {
			return nil, flow, err
		}
		end = b
	}

	switch v := operand.(type) {
	case value.List:
		if start >= end {
			return value.NewList(nil), Normal, nil
		}
		elems := *v.Elements()
		out := make([]value.Value, end-start)
		copy(out, elems[start:end])
		return value.NewList(out), Normal, nil
	case value.String:
		if start >= end {
			return value.NewString(""), Normal, nil
		}
		return value.NewString(v.Value()[start:end]), Normal, nil
	}
	return value.NilValue, Normal, nil
}

// evalSliceBound evaluates a slice bound expression and clamps it into
// [0, length], resolving a negative bound relative to length.
func (e *Evaluator) evalSliceBound(expr ast.Expression, env *Environment, length int) (int, Flow, error) {
	v, flow, err := e.evalExpression(expr, env)
	if err != nil {
		return 0, Normal, err
	}
	if flow != Normal {
		return 0, flow, nil
	}
	n, ok := v.(value.Int)
	if !ok {
		return 0, Normal, e.runtimeErr(errors.IndexType, expr.Pos(), "slice bound must be Int, got %s", value.TypeName(v))
	}
	i := n.Value
	if i < 0 {
		i += int64(length)
	}
	if i < 0 {
		i = 0
	}
	if i > int64(length) {
		i = int64(length)
	}
	return int(i), Normal, nil
}
