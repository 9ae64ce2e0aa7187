// Package value implements ItmoScript's tagged-union runtime value model:
// seven value kinds with reference semantics for List/String/Function and
// by-value semantics for Nil/Int/Float/Bool.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag identifies a Value's kind.
type Tag int

const (
	NilTag Tag = iota
	IntTag
	FloatTag
	BoolTag
	StringTag
	ListTag
	FunctionTag
)

func (t Tag) String() string {
	switch t {
	case NilTag:
		return "Nil"
	case IntTag:
		return "Int"
	case FloatTag:
		return "Float"
	case BoolTag:
		return "Bool"
	case StringTag:
		return "String"
	case ListTag:
		return "List"
	case FunctionTag:
		return "Function"
	default:
		return "Unknown"
	}
}

// Value is any runtime value ItmoScript can hold.
type Value interface {
	Tag() Tag
	// Truthy reports this value's truthiness per the language rules.
	Truthy() bool
	// Repr renders the value the way it appears as a list element (strings
	// are quoted). Display (below) renders the unquoted top-level form.
	Repr() string
}

// Nil is the nil singleton value.
type Nil struct{}

func (Nil) Tag() Tag        { return NilTag }
func (Nil) Truthy() bool    { return false }
func (Nil) Repr() string    { return "nil" }

// NilValue is the shared nil singleton.
var NilValue Value = Nil{}

// Int is a 64-bit signed integer, held by value.
type Int struct{ Value int64 }

func (i Int) Tag() Tag     { return IntTag }
func (i Int) Truthy() bool { return i.Value != 0 }
func (i Int) Repr() string { return strconv.FormatInt(i.Value, 10) }

// Float is a 64-bit IEEE-754 float, held by value.
type Float struct{ Value float64 }

func (f Float) Tag() Tag     { return FloatTag }
func (f Float) Truthy() bool { return f.Value != 0 }
func (f Float) Repr() string { return strconv.FormatFloat(f.Value, 'g', -1, 64) }

// Bool is a boolean, held by value.
type Bool struct{ Value bool }

func (b Bool) Tag() Tag     { return BoolTag }
func (b Bool) Truthy() bool { return b.Value }
func (b Bool) Repr() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// String is an immutable string held by a shared handle: copying the
// handle aliases the same backing data, but no operation ever mutates it
// in place, so aliasing is unobservable other than through identity
// comparisons the language doesn't expose for strings.
type String struct {
	handle *string
}

// NewString wraps s in a fresh handle.
func NewString(s string) String {
	return String{handle: &s}
}

func (s String) Tag() Tag     { return StringTag }
func (s String) Truthy() bool { return len(*s.handle) > 0 }
func (s String) Repr() string { return "\"" + *s.handle + "\"" }

// Value returns the underlying Go string.
func (s String) Value() string { return *s.handle }

// List is a mutable ordered sequence held by a shared handle: aliased
// lists observe each other's mutations, matching the language's reference
// semantics for lists.
type List struct {
	handle *[]Value
}

// NewList wraps elems (taking ownership of the slice) in a fresh handle.
func NewList(elems []Value) List {
	return List{handle: &elems}
}

func (l List) Tag() Tag     { return ListTag }
func (l List) Truthy() bool { return len(*l.handle) > 0 }
func (l List) Repr() string {
	elems := *l.handle
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.Repr()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Elements returns the backing slice directly; callers that mutate it
// observe the mutation through every alias of this List.
func (l List) Elements() *[]Value { return l.handle }

// Len returns the number of elements.
func (l List) Len() int { return len(*l.handle) }

// Identity returns an identity key for the list's backing storage: two
// Lists alias each other exactly when their Identity values are equal.
func (l List) Identity() *[]Value { return l.handle }

// Display renders v the way `print` and `to_string` show it: unquoted for
// top-level strings, otherwise identical to Repr.
func Display(v Value) string {
	if s, ok := v.(String); ok {
		return s.Value()
	}
	return v.Repr()
}

// TypeName returns the value's tag name, used in error messages.
func TypeName(v Value) string {
	if v == nil {
		return "Nil"
	}
	return v.Tag().String()
}

// Equal implements the structural/identity equality rules of §4.3: nil
// equals only nil; Int/Float/Bool/String/List compare structurally
// (after the caller has applied any needed numeric promotion); Function
// compares by identity. Cross-tag comparisons other than through numeric
// promotion return false. This function assumes a/b already share a tag
// or are both numeric after promotion by the operator dispatcher.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Int:
		bv, ok := b.(Int)
		return ok && av.Value == bv.Value
	case Float:
		bv, ok := b.(Float)
		return ok && av.Value == bv.Value
	case Bool:
		bv, ok := b.(Bool)
		return ok && av.Value == bv.Value
	case String:
		bv, ok := b.(String)
		return ok && av.Value() == bv.Value()
	case List:
		bv, ok := b.(List)
		if !ok {
			return false
		}
		ae, be := *av.handle, *bv.handle
		if len(ae) != len(be) {
			return false
		}
		for i := range ae {
			if !deepEqual(ae[i], be[i]) {
				return false
			}
		}
		return true
	case *Function:
		bv, ok := b.(*Function)
		return ok && av == bv
	default:
		return false
	}
}

// deepEqual compares two values across tags for list element comparison,
// where no promotion has been applied by a caller.
func deepEqual(a, b Value) bool {
	if a.Tag() != b.Tag() {
		if isNumeric(a) && isNumeric(b) {
			return numericValue(a) == numericValue(b)
		}
		return false
	}
	return Equal(a, b)
}

func isNumeric(v Value) bool {
	switch v.(type) {
	case Int, Float:
		return true
	}
	return false
}

func numericValue(v Value) float64 {
	switch t := v.(type) {
	case Int:
		return float64(t.Value)
	case Float:
		return t.Value
	}
	return 0
}

// Function is a closure: a parameter list, a body, and the environment
// captured at the point the function literal was evaluated. Equality is by
// pointer identity, matching the language's rule that two separately
// evaluated function literals never compare equal.
type Function struct {
	Parameters []string
	Body       interface{} // *ast.BlockStatement; interface{} avoids an import cycle
	Env        interface{} // *evaluator.Environment; same reason
	Name       string      // best-effort name for stack traces; "" if anonymous
}

func (f *Function) Tag() Tag     { return FunctionTag }
func (f *Function) Truthy() bool { return true }
func (f *Function) Repr() string {
	params := strings.Join(f.Parameters, ", ")
	return fmt.Sprintf("<Function object>(%s)", params)
}
