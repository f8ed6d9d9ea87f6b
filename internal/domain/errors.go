package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuery signals a malformed query parameter.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidSchema signals an invalid field table or schema definition.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrUnknownSortField signals a sort field the surface does not support.
	ErrUnknownSortField = errors.New("unknown sort field")
	// ErrUnknownCollection signals a collection name that is not configured.
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrSnapshotNotFound signals that no snapshot was pushed for a collection.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrSnapshotCorrupt signals a snapshot payload that cannot be decoded.
	ErrSnapshotCorrupt = errors.New("snapshot corrupt")
)

// InvalidParamError wraps ErrInvalidQuery with the offending parameter name.
type InvalidParamError struct {
	Param  string
	Reason string
}

func (e *InvalidParamError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidQuery.Error(), e.Param, e.Reason)
}

func (e *InvalidParamError) Unwrap() error { return ErrInvalidQuery }

// NewInvalidParam creates an invalid parameter error.
func NewInvalidParam(param, reason string) error {
	return &InvalidParamError{Param: param, Reason: reason}
}
