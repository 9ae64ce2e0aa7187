package builtins

import (
	"math"
	"strconv"

	"github.com/itmoscript/itmoscript/internal/errors"
	"github.com/itmoscript/itmoscript/internal/value"
	"github.com/itmoscript/itmoscript/pkg/token"
)

func (r *Registry) registerMath() {
	r.registerValue("abs", 1, 1, builtinAbs)
	r.registerValue("ceil", 1, 1, func(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return roundLike("ceil", args[0], pos, stack, math.Ceil)
	})
	r.registerValue("floor", 1, 1, func(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return roundLike("floor", args[0], pos, stack, math.Floor)
	})
	r.registerValue("round", 1, 1, func(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return roundLike("round", args[0], pos, stack, math.Round)
	})
	r.registerValue("sqrt", 1, 1, builtinSqrt)
	r.registerValue("rnd", 1, 1, r.builtinRnd)
	r.registerValue("parse_num", 1, 1, builtinParseNum)
	r.registerValue("to_string", 1, 1, builtinToString)
}

func asFloat(v value.Value) (float64, bool) {
	switch t := v.(type) {
	case value.Int:
		return float64(t.Value), true
	case value.Float:
		return t.Value, true
	}
	return 0, false
}

func builtinAbs(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	switch v := args[0].(type) {
	case value.Int:
		if v.Value < 0 {
			return value.Int{Value: -v.Value}, nil
		}
		return v, nil
	case value.Float:
		return value.Float{Value: math.Abs(v.Value)}, nil
	default:
		return nil, argTypeError("abs", 0, args[0], "Int or Float", pos, stack)
	}
}

// roundLike passes an Int argument through unchanged and applies fn to a
// Float argument, returning a Float — matching the reference library's
// behavior of never narrowing a Float result back to Int.
func roundLike(name string, v value.Value, pos token.Position, stack []errors.Frame, fn func(float64) float64) (value.Value, error) {
	switch t := v.(type) {
	case value.Int:
		return t, nil
	case value.Float:
		return value.Float{Value: fn(t.Value)}, nil
	default:
		return nil, argTypeError(name, 0, v, "Int or Float", pos, stack)
	}
}

func builtinSqrt(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	f, ok := asFloat(args[0])
	if !ok {
		return nil, argTypeError("sqrt", 0, args[0], "Int or Float", pos, stack)
	}
	if f < 0 {
		return nil, errors.New(errors.SqrtFromNegative, pos, stack, "sqrt of negative value: %v", value.Display(args[0]))
	}
	return value.Float{Value: math.Sqrt(f)}, nil
}

func (r *Registry) builtinRnd(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	n, ok := args[0].(value.Int)
	if !ok {
		return nil, argTypeError("rnd", 0, args[0], "Int", pos, stack)
	}
	if n.Value <= 0 {
		return nil, errors.New(errors.InvalidArgument, pos, stack, "rnd: argument 1 must be positive, got %d", n.Value)
	}
	return value.Int{Value: r.rng.Int63n(n.Value)}, nil
}

// builtinParseNum tries a float parse first (preferring Int when the
// parsed value round-trips exactly through int64), falls back to an
// integer parse, and returns nil — not an error — if both fail.
func builtinParseNum(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	s, ok := args[0].(value.String)
	if !ok {
		return nil, argTypeError("parse_num", 0, args[0], "String", pos, stack)
	}
	text := s.Value()

	if f, err := strconv.ParseFloat(text, 64); err == nil {
		if i := int64(f); float64(i) == f {
			return value.Int{Value: i}, nil
		}
		return value.Float{Value: f}, nil
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return value.Int{Value: i}, nil
	}
	return value.NilValue, nil
}

func builtinToString(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	switch v := args[0].(type) {
	case value.Int:
		return value.NewString(strconv.FormatInt(v.Value, 10)), nil
	case value.Float:
		return value.NewString(strconv.FormatFloat(v.Value, 'g', -1, 64)), nil
	default:
		return nil, argTypeError("to_string", 0, args[0], "Int or Float", pos, stack)
	}
}
