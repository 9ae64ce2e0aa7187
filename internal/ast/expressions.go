package ast

import (
	"bytes"
	"strings"
)

// Identifier is a name reference: a variable, function, or built-in.
type Identifier struct {
	BaseNode
	Value string
}

func (i *Identifier) expressionNode() {}
func (i *Identifier) String() string  { return i.Value }

// IntLiteral is a 64-bit signed integer literal.
type IntLiteral struct {
	BaseNode
	Value int64
}

func (l *IntLiteral) expressionNode() {}
func (l *IntLiteral) String() string  { return l.Token.Literal }

// FloatLiteral is a 64-bit IEEE-754 float literal.
type FloatLiteral struct {
	BaseNode
	Value float64
}

func (l *FloatLiteral) expressionNode() {}
func (l *FloatLiteral) String() string  { return l.Token.Literal }

// StringLiteral is a string literal with escapes already resolved.
type StringLiteral struct {
	BaseNode
	Value string
}

func (l *StringLiteral) expressionNode() {}
func (l *StringLiteral) String() string  { return "\"" + l.Value + "\"" }

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	BaseNode
	Value bool
}

func (l *BoolLiteral) expressionNode() {}
func (l *BoolLiteral) String() string  { return l.Token.Literal }

// NilLiteral is the `nil` literal.
type NilLiteral struct {
	BaseNode
}

func (l *NilLiteral) expressionNode() {}
func (l *NilLiteral) String() string  { return "nil" }

// ListLiteral is a `[e1, e2, ...]` expression.
type ListLiteral struct {
	BaseNode
	Elements []Expression
}

func (l *ListLiteral) expressionNode() {}
func (l *ListLiteral) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FunctionLiteral is `function(params) ... end function`.
type FunctionLiteral struct {
	BaseNode
	Parameters []*Identifier
	Body       *BlockStatement
}

func (l *FunctionLiteral) expressionNode() {}
func (l *FunctionLiteral) String() string {
	params := make([]string, len(l.Parameters))
	for i, p := range l.Parameters {
		params[i] = p.String()
	}
	var out bytes.Buffer
	out.WriteString("function(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(")\n")
	out.WriteString(l.Body.String())
	out.WriteString("end function")
	return out.String()
}

// Prefix is a unary expression: `-x`, `+x`, `!x`, `not x`.
type Prefix struct {
	BaseNode
	Operator string
	Right    Expression
}

func (p *Prefix) expressionNode() {}
func (p *Prefix) String() string {
	return "(" + p.Operator + " " + p.Right.String() + ")"
}

// Infix is a binary expression.
type Infix struct {
	BaseNode
	Operator string
	Left     Expression
	Right    Expression
}

func (i *Infix) expressionNode() {}
func (i *Infix) String() string {
	return "(" + i.Left.String() + " " + i.Operator + " " + i.Right.String() + ")"
}

// Index covers both single-element indexing (`a[i]`, IsSlice == false) and
// slicing (`a[lo:hi]`, with either bound possibly nil, IsSlice == true).
type Index struct {
	BaseNode
	Operand     Expression
	Index       Expression // non-slice index, or slice start (may be nil)
	SecondIndex Expression // slice end (may be nil)
	IsSlice     bool
}

func (ix *Index) expressionNode() {}
func (ix *Index) String() string {
	var out bytes.Buffer
	out.WriteString(ix.Operand.String())
	out.WriteString("[")
	if ix.IsSlice {
		if ix.Index != nil {
			out.WriteString(ix.Index.String())
		}
		out.WriteString(":")
		if ix.SecondIndex != nil {
			out.WriteString(ix.SecondIndex.String())
		}
	} else {
		out.WriteString(ix.Index.String())
	}
	out.WriteString("]")
	return out.String()
}

// Call is a function call expression: `callee(args...)`.
type Call struct {
	BaseNode
	Callee Expression
	Args   []Expression
}

func (c *Call) expressionNode() {}
func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}

// IfBranch is one arm of an If expression: Condition is nil for the
// trailing `else` branch, of which there may be at most one.
type IfBranch struct {
	Condition   Expression
	Consequence *BlockStatement
}

// If is an if/elseif/.../else expression. It yields the value of the
// executed branch's last statement, or nil if no branch matched.
type If struct {
	BaseNode
	Branches []IfBranch
}

func (f *If) expressionNode() {}
func (f *If) String() string {
	var out bytes.Buffer
	for i, b := range f.Branches {
		switch {
		case i == 0:
			out.WriteString("if ")
			out.WriteString(b.Condition.String())
			out.WriteString(" then\n")
		case b.Condition != nil:
			out.WriteString("elseif ")
			out.WriteString(b.Condition.String())
			out.WriteString(" then\n")
		default:
			out.WriteString("else\n")
		}
		out.WriteString(b.Consequence.String())
	}
	out.WriteString("end if")
	return out.String()
}
