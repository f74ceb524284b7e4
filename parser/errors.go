package parser

import (
	"fmt"
	"strings"
)

// Position represents a location in the rule source text.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // byte offset into the source
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ErrorKind categorizes the type of parse error.
type ErrorKind int

const (
	ErrorSyntax ErrorKind = iota
	ErrorInvalidState
	ErrorInvalidDirection
	ErrorInvalidRepeat
	ErrorInvalidRotation
	ErrorNegationPosition
	ErrorOrientPosition
)

// Error represents a parse error with position information.
type Error struct {
	Pos     Position
	Message string
	Context string // the rule text where the error occurred
	Kind    ErrorKind
}

func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s: error: %s", e.Pos, e.Message))

	if e.Context != "" {
		sb.WriteString(fmt.Sprintf("\n    %s", e.Context))
	}

	return sb.String()
}

// NewError creates a new parser error.
func NewError(pos Position, kind ErrorKind, message string) *Error {
	return &Error{
		Pos:     pos,
		Message: message,
		Kind:    kind,
	}
}

// NewErrorWithContext creates a new parser error carrying the offending rule text.
func NewErrorWithContext(pos Position, kind ErrorKind, message, context string) *Error {
	return &Error{
		Pos:     pos,
		Message: message,
		Context: context,
		Kind:    kind,
	}
}

// ErrorList collects multiple parse errors.
type ErrorList struct {
	Errors []*Error
}

// AddError adds an error to the list.
func (el *ErrorList) AddError(err *Error) {
	el.Errors = append(el.Errors, err)
}

// HasErrors returns true if there are any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Error implements the error interface.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}

	parts := make([]string, len(el.Errors))
	for i, err := range el.Errors {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "\n")
}
