package evaluator

import "fmt"

type ErrKind string

const (
	ErrTypeMismatch  ErrKind = "TypeMismatch"
	ErrArityMismatch ErrKind = "ArityMismatch"
	ErrUnbound       ErrKind = "UnboundIdentifier"
	ErrHostBridge    ErrKind = "HostBridgeFailure"
)

// RuntimeError aborts the whole run; the language has no catch construct.
type RuntimeError struct {
	Kind    ErrKind
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind ErrKind, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
