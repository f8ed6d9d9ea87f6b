package sdk

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors. Use errors.Is() on errors returned by Client.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrInvalidQuery      = errors.New("invalid query")
	ErrUnknownSortField  = errors.New("unknown sort field")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrSnapshotNotFound  = errors.New("snapshot not found")
	ErrUnavailable       = errors.New("service unavailable")
)

// Error codes sent by the server.
const (
	CodeNotFound          = "not_found"
	CodeUnauthorized      = "unauthorized"
	CodeInvalidQuery      = "invalid_query"
	CodeUnknownSortField  = "unknown_sort_field"
	CodeUnknownCollection = "unknown_collection"
	CodeSnapshotNotFound  = "snapshot_not_found"
	CodeSnapshotCorrupt   = "snapshot_corrupt"
	CodeStoreUnavailable  = "store_unavailable"
	CodeInternalError     = "internal_error"
)

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("assetq: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("assetq: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Is matches the sentinel for the response status and code.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrInvalidQuery:
		return e.StatusCode == http.StatusBadRequest
	case ErrUnknownSortField:
		return e.Code == CodeUnknownSortField
	case ErrUnknownCollection:
		return e.Code == CodeUnknownCollection
	case ErrSnapshotNotFound:
		return e.Code == CodeSnapshotNotFound
	case ErrUnavailable:
		return e.StatusCode == http.StatusServiceUnavailable
	}
	return false
}
