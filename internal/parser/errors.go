package parser

import (
	"fmt"

	"github.com/itmoscript/itmoscript/pkg/token"
)

// Kind identifies the specific parse failure.
type Kind int

const (
	UnexpectedToken Kind = iota
	UnterminatedBlock
	DuplicateParameter
	MalformedEscape
	MalformedIndex
)

func (k Kind) String() string {
	switch k {
	case UnexpectedToken:
		return "UnexpectedToken"
	case UnterminatedBlock:
		return "UnterminatedBlock"
	case DuplicateParameter:
		return "DuplicateParameter"
	case MalformedEscape:
		return "MalformedEscape"
	case MalformedIndex:
		return "MalformedIndex"
	default:
		return "Unknown"
	}
}

// Error is a single ParseError occurrence, carrying the offending
// position for §6-format rendering.
type Error struct {
	Kind    Kind
	Message string
	Pos     token.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("ParseError at line %d, column %d:\n    %s", e.Pos.Line, e.Pos.Column, e.Message)
}

func newError(kind Kind, pos token.Position, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}
