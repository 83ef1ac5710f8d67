// Package apperrors defines the error taxonomy shared across services and
// the HTTP layer.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrMissingToken       = errors.New("authorization token is missing")
	ErrTokenExpired       = errors.New("token has expired")
	ErrInvalidToken       = errors.New("invalid token")
)

// ValidationError reports a bad or missing input field. User-correctable,
// mapped to 400 at the HTTP layer.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Reason)
}

// IngestError wraps a failure that occurred while processing a specific row
// of an upload.
type IngestError struct {
	Row int
	Err error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}
