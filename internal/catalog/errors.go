package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Delete when no record matches the id.
var ErrNotFound = errors.New("image not found")

// ErrPayloadTooLarge is returned by Create when the binary payload
// exceeds the configured ceiling. It is raised before any blob write.
var ErrPayloadTooLarge = errors.New("payload exceeds the upload size limit")

// ValidationError reports a missing required field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return e.Field + " is required"
}

// StorageError wraps a blob or metadata I/O failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
