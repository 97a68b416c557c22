package collector

import (
	"fmt"
)

// FetchError is returned when a SHOW command fails or its result can't be read.
type FetchError struct {
	Command string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Err)
}

// Cause returns the underlying error.
func (e *FetchError) Cause() error { return e.Err }

func (e *FetchError) Unwrap() error { return e.Err }

// MissingFieldError is returned by single-row collectors when an expected
// field is absent from an otherwise successful result.
// It usually means the PgBouncer version does not report that field.
type MissingFieldError struct {
	Command string
	Field   string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: field %q is missing", e.Command, e.Field)
}
