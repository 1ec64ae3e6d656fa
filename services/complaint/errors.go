package complaint

import (
	"errors"
	"fmt"
)

// Stable error codes surfaced to the HTTP boundary.
const (
	CodeInvalidArgument = "invalidArgument"
	CodeNotFound        = "notFound"
	CodeBusinessRule    = "businessRule"
	CodeConflict        = "conflict"
	CodeTransient       = "transient"
)

// Error is a typed domain failure with a stable code and a human-readable
// message. Validation errors are raised before any storage I/O.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// DomainCode returns the stable error code.
func (e *Error) DomainCode() string { return e.Code }

func NewInvalidArgument(msg string) error {
	return &Error{Code: CodeInvalidArgument, Message: msg}
}

func NewNotFound(msg string) error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func NewBusinessRule(msg string) error {
	return &Error{Code: CodeBusinessRule, Message: msg}
}

func NewConflict(msg string) error {
	return &Error{Code: CodeConflict, Message: msg}
}

func NewTransient(msg string) error {
	return &Error{Code: CodeTransient, Message: msg}
}

// CodeOf extracts the domain code from err, or empty when err carries none.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
