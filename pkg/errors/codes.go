package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a failure so flows can decide whether to re-prompt,
// degrade or abort.
type Kind string

const (
	// KindExecution means the external tool could not be launched at all.
	KindExecution Kind = "ExecutionError"
	// KindCommandFailed means the tool ran and exited non-zero.
	KindCommandFailed Kind = "CommandFailed"

	// Validation kinds. These never propagate past the controller.
	KindInsufficientBricks Kind = "InsufficientBricks"
	KindUnknownPeer        Kind = "UnknownPeer"
	KindUnknownUser        Kind = "UnknownUser"
	KindMalformedBrickSpec Kind = "MalformedBrickSpec"
	KindProtectedPath      Kind = "ProtectedPath"
	KindInvalidInput       Kind = "InvalidInput"

	// KindAborted means the operator declined a confirmation or closed input.
	KindAborted Kind = "Aborted"
)

// IsValidation reports whether k is a locally handled validation kind.
func (k Kind) IsValidation() bool {
	switch k {
	case KindInsufficientBricks, KindUnknownPeer, KindUnknownUser,
		KindMalformedBrickSpec, KindProtectedPath, KindInvalidInput:
		return true
	}
	return false
}

// Error represents a structured error with a kind and context
type Error struct {
	Kind    Kind
	Message string
	Details map[string]interface{}
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so callers can compare against a
// bare &Error{Kind: ...} target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// WithDetail adds a detail to the error and returns it
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates an error of the given kind
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates an error of the given kind around cause
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return KindOf(err).IsValidation()
}
