// internal/errors/errors.go
package errors

import (
	"fmt"
	"strings"
)

// Kind represents the class of a filter-expression error.
type Kind string

const (
	SyntaxError Kind = "SyntaxError"
	NameError   Kind = "NameError"
	TypeError   Kind = "TypeError"
	ArityError  Kind = "ArityError"
)

// Location pinpoints an offset within the original expression text.
type Location struct {
	Expr   string
	Offset int
}

// FilterError is returned by Compile, and by Evaluate as a TypeError for
// an operator applied to operands it does not accept or as an ArityError
// when handed a malformed program.
type FilterError struct {
	Kind     Kind
	Message  string
	Location Location
}

// Error implements the error interface.
func (e *FilterError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s\n", e.Kind, e.Message))

	if e.Location.Expr != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n  ", e.Location.Expr))
		if e.Location.Offset > 0 {
			sb.WriteString(strings.Repeat(" ", e.Location.Offset))
		}
		sb.WriteString("^\n")
	}

	return sb.String()
}

// NewSyntaxError creates a syntax error at the given offset.
func NewSyntaxError(message, expr string, offset int) *FilterError {
	return &FilterError{
		Kind:     SyntaxError,
		Message:  message,
		Location: Location{Expr: expr, Offset: offset},
	}
}

// NewNameError creates a name-resolution error (unknown tag, bad arity).
func NewNameError(message, expr string, offset int) *FilterError {
	return &FilterError{
		Kind:     NameError,
		Message:  message,
		Location: Location{Expr: expr, Offset: offset},
	}
}

// NewTypeError creates a type error (string vs numeric, bad vector shape).
func NewTypeError(message string) *FilterError {
	return &FilterError{Kind: TypeError, Message: message}
}

// NewArityError creates an evaluation-stack underflow/overflow error,
// signalling a malformed RPN program rather than bad input data.
func NewArityError(message string) *FilterError {
	return &FilterError{Kind: ArityError, Message: message}
}
