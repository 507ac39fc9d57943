package types

import (
	"errors"
	"fmt"

	"github.com/sandrolain/goparsec/pkg/text"
)

// ErrorCode identifies a class of error.
type ErrorCode string

// Error codes.
const (
	// S0xxx: Parser/Syntax errors
	ErrSyntaxError ErrorCode = "S0201"

	// T0xxx: Type errors
	ErrArgumentCountMismatch ErrorCode = "T0410"

	// D0xxx: Evaluation errors
	ErrFunctionFailed ErrorCode = "D1004"
	ErrStackOverflow  ErrorCode = "D3020"

	// U0xxx: Unresolved references
	ErrUndefinedVariable ErrorCode = "U1001"
	ErrUndefinedFunction ErrorCode = "U1002"
	ErrUndefinedExternal ErrorCode = "U1003"
)

// ErrMissingBinding is wrapped by every error raised when the evaluator
// cannot resolve a variable, external reference or function name.
var ErrMissingBinding = errors.New("missing binding")

// Error represents a structured error.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int // code point index, -1 when unknown
	Line     int
	Column   int
	Token    string // observed token, for syntax errors
	Expected string // expected token, for syntax errors
	Err      error
}

// NewError creates a new error.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// NewSyntaxError converts a text parse failure into an Error.
func NewSyntaxError(perr text.Error) *Error {
	return &Error{
		Code:     ErrSyntaxError,
		Message:  perr.Describe(),
		Position: perr.Offset.Index,
		Line:     perr.Offset.Row,
		Column:   perr.Offset.Column,
		Token:    perr.Actual,
		Expected: perr.Expected,
		Err:      perr,
	}
}

// NewMissingBinding creates an error for an unresolved reference.
func NewMissingBinding(code ErrorCode, message string, pos text.Offset) *Error {
	return NewError(code, message, pos.Index).
		WithLocation(pos).
		WithCause(ErrMissingBinding)
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s at %d:%d: %s", e.Code, e.Line, e.Column, e.Message)
	case e.Position >= 0:
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds token information to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithLocation adds row and column information to the error.
func (e *Error) WithLocation(pos text.Offset) *Error {
	e.Line = pos.Row
	e.Column = pos.Column
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// IsMissingBinding reports whether err was caused by an unresolved
// reference.
func IsMissingBinding(err error) bool {
	return errors.Is(err, ErrMissingBinding)
}
