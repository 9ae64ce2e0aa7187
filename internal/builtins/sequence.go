package builtins

import (
	"sort"
	"strings"

	"github.com/itmoscript/itmoscript/internal/errors"
	"github.com/itmoscript/itmoscript/internal/value"
	"github.com/itmoscript/itmoscript/pkg/token"
)

func (r *Registry) registerSequence() {
	r.registerValue("len", 1, 1, builtinLen)
	r.registerValue("push", 2, 2, builtinPush)
	r.registerValue("pop", 1, 1, builtinPop)
	r.registerValue("insert", 3, 3, builtinInsert)
	r.registerValue("remove", 2, 2, builtinRemove)
	r.registerValue("set", 3, 3, builtinSet)
	r.registerValue("sort", 1, 1, builtinSort)
	r.registerValue("range", 0, -1, builtinRange)
	r.registerValue("lower", 1, 1, builtinLower)
	r.registerValue("upper", 1, 1, builtinUpper)
	r.registerValue("split", 2, 2, builtinSplit)
	r.registerValue("join", 2, 2, builtinJoin)
	r.registerValue("replace", 3, 3, builtinReplace)
}

func builtinLen(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	switch v := args[0].(type) {
	case value.List:
		return value.Int{Value: int64(v.Len())}, nil
	case value.String:
		return value.Int{Value: int64(len(v.Value()))}, nil
	default:
		return nil, argTypeError("len", 0, args[0], "List or String", pos, stack)
	}
}

func builtinPush(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	l, ok := args[0].(value.List)
	if !ok {
		return nil, argTypeError("push", 0, args[0], "List", pos, stack)
	}
	elems := l.Elements()
	*elems = append(*elems, args[1])
	return l, nil
}

func builtinPop(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	l, ok := args[0].(value.List)
	if !ok {
		return nil, argTypeError("pop", 0, args[0], "List", pos, stack)
	}
	elems := l.Elements()
	if len(*elems) == 0 {
		return nil, errors.New(errors.EmptyListPop, pos, stack, "pop: list is empty")
	}
	*elems = (*elems)[:len(*elems)-1]
	return l, nil
}

func builtinInsert(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	l, ok := args[0].(value.List)
	if !ok {
		return nil, argTypeError("insert", 0, args[0], "List", pos, stack)
	}
	idxVal, ok := args[1].(value.Int)
	if !ok {
		return nil, argTypeError("insert", 1, args[1], "Int", pos, stack)
	}
	elems := l.Elements()
	idx := int(idxVal.Value)
	if idx < 0 || idx > len(*elems) {
		return nil, errors.New(errors.IndexOutOfRange, pos, stack, "insert: index %d out of range for list of length %d", idx, len(*elems))
	}
	*elems = append(*elems, value.NilValue)
	copy((*elems)[idx+1:], (*elems)[idx:])
	(*elems)[idx] = args[2]
	return l, nil
}

func builtinRemove(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	l, ok := args[0].(value.List)
	if !ok {
		return nil, argTypeError("remove", 0, args[0], "List", pos, stack)
	}
	idxVal, ok := args[1].(value.Int)
	if !ok {
		return nil, argTypeError("remove", 1, args[1], "Int", pos, stack)
	}
	elems := l.Elements()
	idx := int(idxVal.Value)
	if idx < 0 || idx >= len(*elems) {
		return nil, errors.New(errors.IndexOutOfRange, pos, stack, "remove: index %d out of range for list of length %d", idx, len(*elems))
	}
	*elems = append((*elems)[:idx], (*elems)[idx+1:]...)
	return l, nil
}

func builtinSet(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	l, ok := args[0].(value.List)
	if !ok {
		return nil, argTypeError("set", 0, args[0], "List", pos, stack)
	}
	idxVal, ok := args[1].(value.Int)
	if !ok {
		return nil, argTypeError("set", 1, args[1], "Int", pos, stack)
	}
	elems := l.Elements()
	idx := int(idxVal.Value)
	if idx < 0 || idx >= len(*elems) {
		return nil, errors.New(errors.IndexOutOfRange, pos, stack, "set: index %d out of range for list of length %d", idx, len(*elems))
	}
	(*elems)[idx] = args[2]
	return l, nil
}

func builtinSort(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	l, ok := args[0].(value.List)
	if !ok {
		return nil, argTypeError("sort", 0, args[0], "List", pos, stack)
	}
	elems := *l.Elements()
	sort.SliceStable(elems, func(i, j int) bool {
		return compareAny(elems[i], elems[j]) < 0
	})
	return l, nil
}

// builtinRange validates its own arity manually: it is variadic over 1-3
// Int-only arguments, a shape the registry's uniform min/max check can't
// express precisely enough to name the right error.
func builtinRange(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	if len(args) < 1 || len(args) > 3 {
		return nil, errors.New(errors.ParametersCount, pos, stack, "range expects 1-3 arguments, got %d", len(args))
	}
	ints := make([]int64, len(args))
	for i, a := range args {
		n, ok := a.(value.Int)
		if !ok {
			return nil, argTypeError("range", i, a, "Int", pos, stack)
		}
		ints[i] = n.Value
	}

	var start, stop, step int64
	switch len(ints) {
	case 1:
		start, stop, step = 0, ints[0], 1
	case 2:
		start, stop, step = ints[0], ints[1], 1
	case 3:
		start, stop, step = ints[0], ints[1], ints[2]
	}
	if step == 0 {
		return nil, errors.New(errors.InvalidArgument, pos, stack, "range: step must not be 0")
	}

	var elems []value.Value
	if step > 0 {
		for i := start; i < stop; i += step {
			elems = append(elems, value.Int{Value: i})
		}
	} else {
		for i := start; i > stop; i += step {
			elems = append(elems, value.Int{Value: i})
		}
	}
	return value.NewList(elems), nil
}

func builtinLower(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	s, ok := args[0].(value.String)
	if !ok {
		return nil, argTypeError("lower", 0, args[0], "String", pos, stack)
	}
	return value.NewString(strings.ToLower(s.Value())), nil
}

func builtinUpper(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	s, ok := args[0].(value.String)
	if !ok {
		return nil, argTypeError("upper", 0, args[0], "String", pos, stack)
	}
	return value.NewString(strings.ToUpper(s.Value())), nil
}

// builtinSplit returns a single-element list when delim is empty, matching
// the original's behavior of treating an empty delimiter as "no split".
func builtinSplit(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	s, ok := args[0].(value.String)
	if !ok {
		return nil, argTypeError("split", 0, args[0], "String", pos, stack)
	}
	delim, ok := args[1].(value.String)
	if !ok {
		return nil, argTypeError("split", 1, args[1], "String", pos, stack)
	}
	if delim.Value() == "" {
		return value.NewList([]value.Value{s}), nil
	}
	parts := strings.Split(s.Value(), delim.Value())
	elems := make([]value.Value, len(parts))
	for i, p := range parts {
		elems[i] = value.NewString(p)
	}
	return value.NewList(elems), nil
}

// builtinJoin joins each element's display form (strings unquoted),
// matching the original's to-string-then-join behavior.
func builtinJoin(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	l, ok := args[0].(value.List)
	if !ok {
		return nil, argTypeError("join", 0, args[0], "List", pos, stack)
	}
	delim, ok := args[1].(value.String)
	if !ok {
		return nil, argTypeError("join", 1, args[1], "String", pos, stack)
	}
	elems := *l.Elements()
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = value.Display(e)
	}
	return value.NewString(strings.Join(parts, delim.Value())), nil
}

func builtinReplace(args []value.Value, pos token.Position, stack []errors.Frame) (value.Value, error) {
	s, ok := args[0].(value.String)
	if !ok {
		return nil, argTypeError("replace", 0, args[0], "String", pos, stack)
	}
	old, ok := args[1].(value.String)
	if !ok {
		return nil, argTypeError("replace", 1, args[1], "String", pos, stack)
	}
	new, ok := args[2].(value.String)
	if !ok {
		return nil, argTypeError("replace", 2, args[2], "String", pos, stack)
	}
	return value.NewString(strings.ReplaceAll(s.Value(), old.Value(), new.Value())), nil
}

// compareAny orders values per the pinned cross-tag total order (see
// operators.tagOrder): within a tag, by the natural ordering; an Int and a
// Float numerically, as Floats; other tag pairs by tag rank. Mirrors the
// ordering operators.CompareLists already applies to list comparisons,
// reused here for the sort built-in.
func compareAny(a, b value.Value) int {
	ra, rb := tagRank(a), tagRank(b)
	if (ra == 1 && rb == 2) || (ra == 2 && rb == 1) {
		fa, _ := asFloat(a)
		fb, _ := asFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch av := a.(type) {
	case value.Bool:
		bv := b.(value.Bool)
		if av.Value == bv.Value {
			return 0
		}
		if !av.Value {
			return -1
		}
		return 1
	case value.Int:
		bv := b.(value.Int)
		switch {
		case av.Value < bv.Value:
			return -1
		case av.Value > bv.Value:
			return 1
		default:
			return 0
		}
	case value.Float:
		bv := b.(value.Float)
		switch {
		case av.Value < bv.Value:
			return -1
		case av.Value > bv.Value:
			return 1
		default:
			return 0
		}
	case value.String:
		return strings.Compare(av.Value(), b.(value.String).Value())
	case value.List:
		return compareLists(av, b.(value.List))
	default:
		return 0
	}
}

// compareLists orders two lists element-wise by compareAny, falling back to
// length once the shorter list's elements are exhausted. Mirrors
// operators.CompareLists, reused here so sort orders nested lists instead of
// treating them as equal.
func compareLists(a, b value.List) int {
	ae, be := *a.Elements(), *b.Elements()
	n := len(ae)
	if len(be) < n {
		n = len(be)
	}
	for i := 0; i < n; i++ {
		if c := compareAny(ae[i], be[i]); c != 0 {
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

func tagRank(v value.Value) int {
	switch v.(type) {
	case value.Bool:
		return 0
	case value.Int:
		return 1
	case value.Float:
		return 2
	case value.String:
		return 3
	case *value.Function:
		return 4
	case value.List:
		return 5
	default:
		return 6 // Nil
	}
}
