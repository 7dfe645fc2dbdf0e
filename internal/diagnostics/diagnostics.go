// Package diagnostics defines the coded errors collected by the pipeline.
package diagnostics

import "fmt"

type Code string

const (
	ErrL001 Code = "L001" // illegal token
	ErrP001 Code = "P001" // parse error
	ErrC001 Code = "C001" // unbound identifier
	ErrC002 Code = "C002" // duplicate parameter
	ErrR001 Code = "R001" // runtime fault
)

// DiagnosticError is one positioned, coded error.
type DiagnosticError struct {
	Code    Code
	Line    int
	Column  int
	Message string
}

func (e *DiagnosticError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] %d:%d: %s", e.Code, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func NewError(code Code, line, column int, format string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{
		Code:    code,
		Line:    line,
		Column:  column,
		Message: fmt.Sprintf(format, args...),
	}
}
