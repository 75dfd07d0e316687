package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for tags API operations.
var (
	ErrUnexpectedStatus = errors.New("tags api: unexpected status")
	ErrDecode           = errors.New("tags api: malformed response")
	ErrRequest          = errors.New("tags api: request failed")
	ErrInvalidTag       = errors.New("invalid tag")
)

// FetchError wraps an underlying error with operation context.
type FetchError struct {
	Op  string // "fetchPage", "createTag"
	Key string // Query key or tag title, if applicable
	Err error
}

func (e *FetchError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("tags %s [%s]: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("tags %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func wrapError(op, key string, err error) error {
	return &FetchError{Op: op, Key: key, Err: err}
}
