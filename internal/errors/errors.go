// Package errors defines ItmoScript's RuntimeError family: the error kinds
// raised by the evaluator and the built-in registry, each carrying a
// source position and a snapshot of the call stack active when the error
// was raised.
package errors

import (
	"fmt"
	"strings"

	"github.com/itmoscript/itmoscript/pkg/token"
)

// Kind identifies the specific runtime failure.
type Kind int

const (
	ZeroDivision Kind = iota
	OperatorType
	IndexType
	IndexOperandType
	IndexOutOfRange
	NegativeIndex
	UndefinedName
	UncallableObject
	ParametersCount
	ArgumentType
	InvalidArgument
	SequenceMultiplication
	SqrtFromNegative
	EmptyListPop
	FileAccess
	StandardOverride
	StandardFunctionNoCall
	ControlFlow
	UnexpectedReturn
	DuplicateParameter
	ImmutableAssignment
	UnsupportedType
)

var kindNames = map[Kind]string{
	ZeroDivision:           "ZeroDivision",
	OperatorType:           "OperatorType",
	IndexType:              "IndexType",
	IndexOperandType:       "IndexOperandType",
	IndexOutOfRange:        "IndexOutOfRange",
	NegativeIndex:          "NegativeIndex",
	UndefinedName:          "UndefinedName",
	UncallableObject:       "UncallableObject",
	ParametersCount:        "ParametersCount",
	ArgumentType:           "ArgumentType",
	InvalidArgument:        "InvalidArgument",
	SequenceMultiplication: "SequenceMultiplication",
	SqrtFromNegative:       "SqrtFromNegative",
	EmptyListPop:           "EmptyListPop",
	FileAccess:             "FileAccess",
	StandardOverride:       "StandardOverride",
	StandardFunctionNoCall: "StandardFunctionNoCall",
	ControlFlow:            "ControlFlow",
	UnexpectedReturn:       "UnexpectedReturn",
	DuplicateParameter:     "DuplicateParameter",
	ImmutableAssignment:    "ImmutableAssignment",
	UnsupportedType:        "UnsupportedType",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Frame is a single call-stack entry: the callee's name ("<anonymous>"
// for a function literal with no binding) and the line of the call site.
type Frame struct {
	FunctionName string
	Line         int
}

// RuntimeError is raised by the evaluator or a built-in during execution.
type RuntimeError struct {
	Kind    Kind
	Message string
	Pos     token.Position
	Stack   []Frame
}

// Error renders the §6 diagnostic format: the error line, the message,
// and (runtime errors only) a traceback, most recent call last.
func (e *RuntimeError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%sError at line %d, column %d:\n    %s", e.Kind, e.Pos.Line, e.Pos.Column, e.Message)
	if len(e.Stack) > 0 {
		sb.WriteString("\nTraceback (most recent call last):")
		for _, f := range e.Stack {
			fmt.Fprintf(&sb, "\n    %s, on line %d", f.FunctionName, f.Line)
		}
	}
	return sb.String()
}

// New constructs a RuntimeError, copying stack so later mutation of the
// caller's live call stack can't retroactively change a raised error.
func New(kind Kind, pos token.Position, stack []Frame, format string, args ...interface{}) *RuntimeError {
	snapshot := make([]Frame, len(stack))
	copy(snapshot, stack)
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos, Stack: snapshot}
}
