// Package operators implements the operator and type-conversion
// registries: lookup tables keyed by operator symbol and operand type
// tags, plus the normative common-type promotion algorithm used when no
// exact-tag handler exists.
package operators

import (
	"math"
	"strings"

	"github.com/itmoscript/itmoscript/internal/errors"
	"github.com/itmoscript/itmoscript/internal/value"
	"github.com/itmoscript/itmoscript/pkg/token"
)

// BinaryHandler implements one `(op, leftTag, rightTag)` binary operator.
type BinaryHandler func(left, right value.Value, pos token.Position, stack []errors.Frame) (value.Value, error)

// UnaryHandler implements one `(op, tag)` unary operator.
type UnaryHandler func(operand value.Value, pos token.Position, stack []errors.Frame) (value.Value, error)

// Converter converts a Value from one tag to another; registered
// conversions are total over their declared source tag.
type Converter func(value.Value) value.Value

type binaryKey struct {
	op          string
	left, right value.Tag
}

type unaryKey struct {
	op  string
	tag value.Tag
}

type conversionKey struct {
	from, to value.Tag
}

// Registry owns the unary/binary operator tables and the conversion
// table, and implements the binary dispatch algorithm.
type Registry struct {
	binary      map[binaryKey]BinaryHandler
	unary       map[unaryKey]UnaryHandler
	conversions map[conversionKey]Converter
}

// commonTypePriority is walked in order; the first tag both operands can
// convert to is the common type for promotion.
var commonTypePriority = []value.Tag{value.FloatTag, value.IntTag}

// NewRegistry builds a Registry with every built-in operator and
// conversion registered.
func NewRegistry() *Registry {
	r := &Registry{
		binary:      map[binaryKey]BinaryHandler{},
		unary:       map[unaryKey]UnaryHandler{},
		conversions: map[conversionKey]Converter{},
	}
	r.registerConversions()
	r.registerUnary()
	r.registerBinary()
	return r
}

func (r *Registry) registerConversions() {
	r.conversions[conversionKey{value.IntTag, value.FloatTag}] = func(v value.Value) value.Value {
		return value.Float{Value: float64(v.(value.Int).Value)}
	}
	r.conversions[conversionKey{value.FloatTag, value.IntTag}] = func(v value.Value) value.Value {
		return value.Int{Value: int64(v.(value.Float).Value)}
	}
}

func (r *Registry) convertible(from, to value.Tag) bool {
	if from == to {
		return true
	}
	_, ok := r.conversions[conversionKey{from, to}]
	return ok
}

func (r *Registry) convert(v value.Value, to value.Tag) value.Value {
	if v.Tag() == to {
		return v
	}
	if conv, ok := r.conversions[conversionKey{v.Tag(), to}]; ok {
		return conv(v)
	}
	return v
}

// commonType implements §4.4's rule: same tag, else the first tag in
// commonTypePriority both operands convert to.
func (r *Registry) commonType(a, b value.Tag) (value.Tag, bool) {
	if a == b {
		return a, true
	}
	for _, t := range commonTypePriority {
		if r.convertible(a, t) && r.convertible(b, t) {
			return t, true
		}
	}
	return 0, false
}

// EvalBinary implements the normative binary dispatch algorithm: exact
// match, else promote to a common type and retry, else OperatorTypeError.
func (r *Registry) EvalBinary(op string, left, right value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	if h, ok := r.binary[binaryKey{op, left.Tag(), right.Tag()}]; ok {
		return h(left, right, pos, stack)
	}

	common, ok := r.commonType(left.Tag(), right.Tag())
	if !ok {
		return nil, operatorTypeError(op, left, right, pos, stack)
	}

	cl, cr := r.convert(left, common), r.convert(right, common)
	if h, ok := r.binary[binaryKey{op, cl.Tag(), cr.Tag()}]; ok {
		return h(cl, cr, pos, stack)
	}
	return nil, operatorTypeError(op, left, right, pos, stack)
}

// EvalUnary looks up and invokes the unary handler for (op, operand.Tag()).
func (r *Registry) EvalUnary(op string, operand value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	if h, ok := r.unary[unaryKey{op, operand.Tag()}]; ok {
		return h(operand, pos, stack)
	}
	return nil, errors.New(errors.OperatorType, pos, stack, "unsupported operand type for unary %s: %s", op, value.TypeName(operand))
}

func operatorTypeError(op string, left, right value.Value, pos token.Position, stack []errors.Frame) error {
	return errors.New(errors.OperatorType, pos, stack, "unsupported operand types for %s: %s and %s", op, value.TypeName(left), value.TypeName(right))
}

func (r *Registry) setBinary(op string, left, right value.Tag, h BinaryHandler) {
	r.binary[binaryKey{op, left, right}] = h
}

func (r *Registry) setUnary(op string, tag value.Tag, h UnaryHandler) {
	r.unary[unaryKey{op, tag}] = h
}

func (r *Registry) registerUnary() {
	r.setUnary("-", value.IntTag, func(v value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return value.Int{Value: -v.(value.Int).Value}, nil
	})
	r.setUnary("-", value.FloatTag, func(v value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return value.Float{Value: -v.(value.Float).Value}, nil
	})
	r.setUnary("+", value.IntTag, func(v value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return v, nil
	})
	r.setUnary("+", value.FloatTag, func(v value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return v, nil
	})

	negate := func(v value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return value.Bool{Value: !v.Truthy()}, nil
	}
	for _, tag := range []value.Tag{value.NilTag, value.IntTag, value.FloatTag, value.BoolTag, value.StringTag, value.ListTag, value.FunctionTag} {
		r.setUnary("!", tag, negate)
		r.setUnary("not", tag, negate)
	}
}

func (r *Registry) registerBinary() {
	r.registerArithmetic()
	r.registerComparisons()
	r.registerNilEquality()
	r.registerBoolNumericEquality()
	r.registerStringOps()
	r.registerListOps()
}

func (r *Registry) registerArithmetic() {
	r.setBinary("+", value.IntTag, value.IntTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return value.Int{Value: l.(value.Int).Value + rgt.(value.Int).Value}, nil
	})
	r.setBinary("-", value.IntTag, value.IntTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return value.Int{Value: l.(value.Int).Value - rgt.(value.Int).Value}, nil
	})
	r.setBinary("*", value.IntTag, value.IntTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return value.Int{Value: l.(value.Int).Value * rgt.(value.Int).Value}, nil
	})
	r.setBinary("/", value.IntTag, value.IntTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		rv := rgt.(value.Int).Value
		if rv == 0 {
			return nil, errors.New(errors.ZeroDivision, pos, stack, "division by zero")
		}
		return value.Int{Value: l.(value.Int).Value / rv}, nil
	})
	r.setBinary("%", value.IntTag, value.IntTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		rv := rgt.(value.Int).Value
		if rv == 0 {
			return nil, errors.New(errors.ZeroDivision, pos, stack, "division by zero")
		}
		return value.Int{Value: l.(value.Int).Value % rv}, nil
	})
	r.setBinary("^", value.IntTag, value.IntTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		base, exp := l.(value.Int).Value, rgt.(value.Int).Value
		if exp < 0 {
			return value.Float{Value: math.Pow(float64(base), float64(exp))}, nil
		}
		return value.Int{Value: intPow(base, exp)}, nil
	})

	r.setBinary("+", value.FloatTag, value.FloatTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return value.Float{Value: l.(value.Float).Value + rgt.(value.Float).Value}, nil
	})
	r.setBinary("-", value.FloatTag, value.FloatTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return value.Float{Value: l.(value.Float).Value - rgt.(value.Float).Value}, nil
	})
	r.setBinary("*", value.FloatTag, value.FloatTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return value.Float{Value: l.(value.Float).Value * rgt.(value.Float).Value}, nil
	})
	r.setBinary("/", value.FloatTag, value.FloatTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		rv := rgt.(value.Float).Value
		if rv == 0 {
			return nil, errors.New(errors.ZeroDivision, pos, stack, "division by zero")
		}
		return value.Float{Value: l.(value.Float).Value / rv}, nil
	})
	r.setBinary("^", value.FloatTag, value.FloatTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return value.Float{Value: math.Pow(l.(value.Float).Value, rgt.(value.Float).Value)}, nil
	})
}

// intPow computes base^exp for exp >= 0 by fast exponentiation.
func intPow(base, exp int64) int64 {
	var result int64 = 1
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func (r *Registry) registerComparisons() {
	cmpInt := func(l, rgt int64) int {
		switch {
		case l < rgt:
			return -1
		case l > rgt:
			return 1
		default:
			return 0
		}
	}
	cmpFloat := func(l, rgt float64) int {
		switch {
		case l < rgt:
			return -1
		case l > rgt:
			return 1
		default:
			return 0
		}
	}

	r.registerOrderedComparisons(value.IntTag, value.IntTag, func(l, rgt value.Value) int {
		return cmpInt(l.(value.Int).Value, rgt.(value.Int).Value)
	})
	r.registerOrderedComparisons(value.FloatTag, value.FloatTag, func(l, rgt value.Value) int {
		return cmpFloat(l.(value.Float).Value, rgt.(value.Float).Value)
	})
	r.registerOrderedComparisons(value.StringTag, value.StringTag, func(l, rgt value.Value) int {
		return strings.Compare(l.(value.String).Value(), rgt.(value.String).Value())
	})
	r.registerOrderedComparisons(value.ListTag, value.ListTag, func(l, rgt value.Value) int {
		return CompareLists(r, l.(value.List), rgt.(value.List))
	})

	r.setBinary("==", value.BoolTag, value.BoolTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return value.Bool{Value: l.(value.Bool).Value == rgt.(value.Bool).Value}, nil
	})
	r.setBinary("!=", value.BoolTag, value.BoolTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return value.Bool{Value: l.(value.Bool).Value != rgt.(value.Bool).Value}, nil
	})
}

func (r *Registry) registerOrderedComparisons(left, right value.Tag, cmp func(l, rgt value.Value) int) {
	r.setBinary("==", left, right, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		if left == value.ListTag {
			return value.Bool{Value: value.Equal(l, rgt)}, nil
		}
		return value.Bool{Value: cmp(l, rgt) == 0}, nil
	})
	r.setBinary("!=", left, right, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		if left == value.ListTag {
			return value.Bool{Value: !value.Equal(l, rgt)}, nil
		}
		return value.Bool{Value: cmp(l, rgt) != 0}, nil
	})
	r.setBinary("<", left, right, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return value.Bool{Value: cmp(l, rgt) < 0}, nil
	})
	r.setBinary(">", left, right, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return value.Bool{Value: cmp(l, rgt) > 0}, nil
	})
	r.setBinary("<=", left, right, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return value.Bool{Value: cmp(l, rgt) <= 0}, nil
	})
	r.setBinary(">=", left, right, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return value.Bool{Value: cmp(l, rgt) >= 0}, nil
	})
}

// CompareLists orders two lists element-wise, falling back to length
// comparison once the shorter list's elements are exhausted. Cross-tag
// elements compare via the total order used by the `sort` built-in.
func CompareLists(r *Registry, a, b value.List) int {
	ae, be := *a.Elements(), *b.Elements()
	n := len(ae)
	if len(be) < n {
		n = len(be)
	}
	for i := 0; i < n; i++ {
		if c := compareAny(r, ae[i], be[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(ae) < len(be):
		return -1
	case len(ae) > len(be):
		return 1
	default:
		return 0
	}
}

// tagOrder pins the total order used to compare values of different tags,
// per the `sort` built-in's contract: Bool < Int < Float < String <
// Function < List < Nil.
var tagOrder = map[value.Tag]int{
	value.BoolTag:     0,
	value.IntTag:      1,
	value.FloatTag:    2,
	value.StringTag:   3,
	value.FunctionTag: 4,
	value.ListTag:     5,
	value.NilTag:      6,
}

func compareAny(r *Registry, a, b value.Value) int {
	if a.Tag() == b.Tag() {
		switch av := a.(type) {
		case value.Int:
			bv := b.(value.Int)
			if av.Value < bv.Value {
				return -1
			} else if av.Value > bv.Value {
				return 1
			}
			return 0
		case value.Float:
			bv := b.(value.Float)
			if av.Value < bv.Value {
				return -1
			} else if av.Value > bv.Value {
				return 1
			}
			return 0
		case value.String:
			return strings.Compare(av.Value(), b.(value.String).Value())
		case value.Bool:
			bv := b.(value.Bool)
			if av.Value == bv.Value {
				return 0
			}
			if !av.Value {
				return -1
			}
			return 1
		case value.List:
			return CompareLists(r, av, b.(value.List))
		default:
			return 0
		}
	}
	if common, ok := r.commonType(a.Tag(), b.Tag()); ok && (common == value.IntTag || common == value.FloatTag) {
		ca, cb := r.convert(a, common), r.convert(b, common)
		return compareAny(r, ca, cb)
	}
	return tagOrder[a.Tag()] - tagOrder[b.Tag()]
}

func (r *Registry) registerNilEquality() {
	for _, tag := range []value.Tag{value.NilTag, value.IntTag, value.FloatTag, value.BoolTag, value.StringTag, value.ListTag, value.FunctionTag} {
		tag := tag
		r.setBinary("==", value.NilTag, tag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
			return value.Bool{Value: tag == value.NilTag}, nil
		})
		r.setBinary("!=", value.NilTag, tag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
			return value.Bool{Value: tag != value.NilTag}, nil
		})
		if tag != value.NilTag {
			r.setBinary("==", tag, value.NilTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
				return value.Bool{Value: false}, nil
			})
			r.setBinary("!=", tag, value.NilTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
				return value.Bool{Value: true}, nil
			})
		}
	}
}

// registerBoolNumericEquality resolves Bool⇄numeric `==`/`!=` to false
// without error, per the open question in the language notes.
func (r *Registry) registerBoolNumericEquality() {
	falseHandler := func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return value.Bool{Value: false}, nil
	}
	trueHandler := func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return value.Bool{Value: true}, nil
	}
	for _, tag := range []value.Tag{value.IntTag, value.FloatTag} {
		r.setBinary("==", value.BoolTag, tag, falseHandler)
		r.setBinary("==", tag, value.BoolTag, falseHandler)
		r.setBinary("!=", value.BoolTag, tag, trueHandler)
		r.setBinary("!=", tag, value.BoolTag, trueHandler)
	}
}

func (r *Registry) registerStringOps() {
	r.setBinary("+", value.StringTag, value.StringTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return value.NewString(l.(value.String).Value() + rgt.(value.String).Value()), nil
	})
	r.setBinary("-", value.StringTag, value.StringTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		base, suffix := l.(value.String).Value(), rgt.(value.String).Value()
		if strings.HasSuffix(base, suffix) && suffix != "" {
			return value.NewString(base[:len(base)-len(suffix)]), nil
		}
		return value.NewString(base), nil
	})

	r.setBinary("*", value.StringTag, value.IntTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return repeatStringByFactor(l.(value.String).Value(), float64(rgt.(value.Int).Value), pos, stack)
	})
	r.setBinary("*", value.IntTag, value.StringTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return repeatStringByFactor(rgt.(value.String).Value(), float64(l.(value.Int).Value), pos, stack)
	})
	r.setBinary("*", value.StringTag, value.FloatTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return repeatStringByFactor(l.(value.String).Value(), rgt.(value.Float).Value, pos, stack)
	})
	r.setBinary("*", value.FloatTag, value.StringTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return repeatStringByFactor(rgt.(value.String).Value(), l.(value.Float).Value, pos, stack)
	})
}

// repeatStringByFactor implements `String * Number`: the result has
// floor(len(s) * factor) characters, built by repeating s and truncating
// (never rounding).
func repeatStringByFactor(s string, factor float64, pos token.Position, stack []errors.Frame) (value.Value, error) {
	if factor < 0 {
		return nil, errors.New(errors.SequenceMultiplication, pos, stack, "cannot repeat a sequence a negative number of times")
	}
	if len(s) == 0 {
		return value.NewString(""), nil
	}
	total := int(float64(len(s)) * factor)
	var sb strings.Builder
	for sb.Len() < total {
		sb.WriteString(s)
	}
	out := sb.String()
	if len(out) > total {
		out = out[:total]
	}
	return value.NewString(out), nil
}

func (r *Registry) registerListOps() {
	r.setBinary("*", value.ListTag, value.IntTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return repeatListByFactor(l.(value.List), float64(rgt.(value.Int).Value), pos, stack)
	})
	r.setBinary("*", value.IntTag, value.ListTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return repeatListByFactor(rgt.(value.List), float64(l.(value.Int).Value), pos, stack)
	})
	r.setBinary("*", value.ListTag, value.FloatTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return repeatListByFactor(l.(value.List), rgt.(value.Float).Value, pos, stack)
	})
	r.setBinary("*", value.FloatTag, value.ListTag, func(l, rgt value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
		return repeatListByFactor(rgt.(value.List), l.(value.Float).Value, pos, stack)
	})
}

func repeatListByFactor(l value.List, factor float64, pos token.Position, stack []errors.Frame) (value.Value, error) {
	if factor < 0 {
		return nil, errors.New(errors.SequenceMultiplication, pos, stack, "cannot repeat a sequence a negative number of times")
	}
	elems := *l.Elements()
	total := int(float64(len(elems)) * factor)
	out := make([]value.Value, 0, total)
	for len(out) < total {
		remaining := total - len(out)
		if remaining >= len(elems) && len(elems) > 0 {
			out = append(out, elems...)
		} else {
			out = append(out, elems[:remaining]...)
		}
	}
	return value.NewList(out), nil
}

