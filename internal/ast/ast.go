// Package ast defines the abstract syntax tree produced by the parser.
//
// Every node carries the token that originated it (BaseNode), matching the
// reference interpreter's convention of attaching position information to
// each node for diagnostics rather than threading positions separately.
package ast

import (
	"bytes"

	"github.com/itmoscript/itmoscript/pkg/token"
)

// Node is the common interface implemented by every AST node.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Position
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is a node that performs an action.
type Statement interface {
	Node
	statementNode()
}

// BaseNode embeds the originating token in every concrete node.
type BaseNode struct {
	Token token.Token
}

func (n BaseNode) TokenLiteral() string  { return n.Token.Literal }
func (n BaseNode) Pos() token.Position   { return n.Token.Pos }

// Program is the root node: an ordered sequence of statements.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}
