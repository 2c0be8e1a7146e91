package studyshare

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrResourceNotFound indicates a resource was not found
	ErrResourceNotFound = errors.New("resource not found")

	// ErrUserNotFound indicates a user was not found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken indicates the username is already registered
	ErrUsernameTaken = errors.New("username already exists")

	// ErrMalformedLocator indicates a stored locator is not addressed
	// under the blob store's base URL, so no object key can be recovered
	ErrMalformedLocator = errors.New("malformed storage locator")
)

// ValidationError reports user-correctable input problems.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError represents a blob backend or transport failure. It may be
// transient.
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// PersistenceError represents a metadata-store failure after the blob was
// already written. ObjectKey identifies the possibly orphaned blob; the
// service never deletes it automatically.
type PersistenceError struct {
	Op        string
	ObjectKey string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence operation %s failed (blob %s may be orphaned): %v", e.Op, e.ObjectKey, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
