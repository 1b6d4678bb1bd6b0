package core

import "github.com/pkg/errors"

// FieldError ties an error message to one struct field, keyed by the
// field's JSON tag so the API can echo it back under that name.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a business-rule rejection. With Fields set the API
// renders a field-to-message map; without, a single error string.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

type shutdown struct {
	message string
}

// NewShutdownError returns an error that signals the app to shut down gracefully.
func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
