package lexer

import (
	"fmt"

	"github.com/itmoscript/itmoscript/pkg/token"
)

// Kind enumerates the lexical failure categories named by the language
// specification.
type Kind int

const (
	IllegalCharacter Kind = iota
	UnterminatedString
	MalformedNumber
)

// Error is a lexical error: an illegal character, an unterminated string
// literal, or a number literal immediately followed by an identifier
// character.
type Error struct {
	Kind    Kind
	Message string
	Pos     token.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("LexicalError at line %d, column %d:\n    %s", e.Pos.Line, e.Pos.Column, e.Message)
}

func newError(kind Kind, pos token.Position, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}
