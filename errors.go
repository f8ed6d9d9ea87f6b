package assetq

import "github.com/kailas-cloud/assetq/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound          = domain.ErrNotFound
	ErrInvalidQuery      = domain.ErrInvalidQuery
	ErrInvalidSchema     = domain.ErrInvalidSchema
	ErrUnknownSortField  = domain.ErrUnknownSortField
	ErrUnknownCollection = domain.ErrUnknownCollection
	ErrSnapshotNotFound  = domain.ErrSnapshotNotFound
	ErrSnapshotCorrupt   = domain.ErrSnapshotCorrupt
)
