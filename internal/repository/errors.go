package repository

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a field row references a session that
// has not been persisted yet, or when a lookup misses.
var ErrSessionNotFound = errors.New("session not found")

// StorageError wraps a driver-level failure. Callers treat the whole
// ingestion as failed; there is no partial retry at this layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
