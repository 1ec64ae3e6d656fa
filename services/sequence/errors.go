package sequence

import "fmt"

// AllocError is a typed allocation failure carrying a stable code the HTTP
// boundary can translate.
type AllocError struct {
	Code    string
	Message string
}

func (e *AllocError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// DomainCode returns the stable error code.
func (e *AllocError) DomainCode() string { return e.Code }

func newInvalidArgument(msg string) error {
	return &AllocError{Code: "invalidArgument", Message: msg}
}

func newTransient(msg string) error {
	return &AllocError{Code: "transient", Message: msg}
}
