package certs

import (
	"context"

	domsnap "github.com/kailas-cloud/assetq/internal/domain/snapshot"
)

// Source reads the latest document snapshot.
type Source interface {
	Load(ctx context.Context, collection string) (domsnap.Snapshot, error)
}
