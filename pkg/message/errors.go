package message

import (
	"errors"
	"fmt"
)

// ErrInvalidField is the sentinel wrapped by every validation failure:
// a negative or out-of-range msgid, or a non-string method name.
var ErrInvalidField = errors.New("message: invalid field")

type invalidFieldError struct {
	field string
	cause error
}

func (e *invalidFieldError) Error() string {
	return fmt.Sprintf("message: invalid %s: %v", e.field, e.cause)
}

func (e *invalidFieldError) Unwrap() []error { return []error{ErrInvalidField, e.cause} }

func newInvalidField(field string, cause error) error {
	return &invalidFieldError{field: field, cause: cause}
}
