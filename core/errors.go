package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error {
	return err.Err
}

// shutdown is a failure the current operation cannot carry on after (eg. the store went away mid-import).
type shutdown struct {
	message string
	cause   error
}

func NewShutdownError(cause error, msg string) error {
	return &shutdown{message: msg, cause: cause}
}

func (s shutdown) Error() string {
	if s.cause == nil {
		return s.message
	}
	return s.message + ": " + s.cause.Error()
}

func (s shutdown) Unwrap() error {
	return s.cause
}

func IsShutdown(err error) bool {
	var s *shutdown
	return errors.As(err, &s)
}
