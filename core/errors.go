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
		return ""
	}
	return err.Err.Error()
}

// NotFoundError wraps a domain "not found" sentinel so the transport maps it to 404.
type NotFoundError struct {
	Err error
}

func NewNotFoundError(err error) error {
	return &NotFoundError{Err: err}
}

func (err NotFoundError) Error() string { return err.Err.Error() }

// ConflictError reports a uniqueness violation (409).
type ConflictError struct {
	Err error
}

func NewConflictError(err error) error {
	return &ConflictError{Err: err}
}

func (err ConflictError) Error() string { return err.Err.Error() }

// ForbiddenError reports an authenticated caller lacking access to a resource (403).
type ForbiddenError struct {
	Err error
}

func NewForbiddenError(err error) error {
	return &ForbiddenError{Err: err}
}

func (err ForbiddenError) Error() string { return err.Err.Error() }

type shutdown struct {
	message string
}

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
