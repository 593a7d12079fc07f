package storage

import (
	"errors"
	"fmt"
)

// StorageError wraps a driver failure with the operation that hit it. The
// underlying error is kept verbatim and never retried; callers report it and
// exit non-zero.
type StorageError struct {
	Op  string // "select", "insert", "ping", "exec"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// WrapErr returns err wrapped as a *StorageError, or nil. Errors that are
// already StorageErrors pass through unchanged.
func WrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorage reports whether err is (or wraps) a *StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
