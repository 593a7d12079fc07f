package inventory

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a query target (currently only groups) has no
// rows in the inventory table. It is user-correctable; callers should report
// it and exit non-zero rather than treat it as a storage failure.
type NotFoundError struct {
	Kind string // "group"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s matching %q", e.Kind, e.Name)
}

// ValidationError reports bad input to an add operation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsNotFound reports whether err is (or wraps) a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
