// Package shared holds the error taxonomy common to all CareHub services.
// Every fallible operation returns one of these typed values; nothing in the
// core panics across a component boundary and nothing retries internally.
package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated means the operation requires a resolved,
	// authenticated session.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrPermissionDenied means the operation targets a resource not owned
	// by the caller.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrRoleUnresolved marks a terminal session state: the role lookup
	// itself failed, which is distinct from "no role assigned".
	ErrRoleUnresolved = errors.New("role could not be resolved")

	// ErrNotFound is returned by the document store when a document does
	// not exist in the collection.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned by the identity provider for a
	// failed sign-in.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAlreadyExists is returned when a credential is registered for an
	// email that already has one.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidToken is returned for a bearer token that fails
	// verification.
	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError reports a client-supplied field that failed a
// required-field check. Raised before any I/O, so a validation failure never
// leaves a partial write behind.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q is required", e.Field)
}

// Validation builds a ValidationError for the named field.
func Validation(field string) error {
	return &ValidationError{Field: field}
}

// IsValidation reports whether err is a ValidationError, returning the
// offending field name when it is.
func IsValidation(err error) (string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Field, true
	}
	return "", false
}

// RemoteError wraps an I/O or transport failure from the external store or
// identity provider. Callers decide whether to resubmit; the core never
// retries on its own.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Remote wraps err as a RemoteError for the named operation. A nil err
// returns nil.
func Remote(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RemoteError{Op: op, Err: err}
}

// IsRemote reports whether err is (or wraps) a RemoteError.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}
