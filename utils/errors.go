package utils

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every NotFoundError through errors.Is.
	ErrNotFound = errors.New("not found")
	// ErrValidation is matched by every ValidationError through errors.Is.
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports a missing field, an out-of-range number or a
// malformed enum on an owner-initiated write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError is returned when a resource does not exist or belongs to
// another tenant. Both cases look the same to the caller.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// TransientError wraps a storage or network failure. The caller may retry by
// re-triggering the action; nothing retries automatically.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a TransientError unless it is nil or already
// classified.
func Transient(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		ve *ValidationError
		nf *NotFoundError
		te *TransientError
	)
	if errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &te) {
		return err
	}
	return &TransientError{Op: op, Err: err}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
