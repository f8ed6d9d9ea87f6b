package activity

import (
	"context"

	domsnap "github.com/kailas-cloud/assetq/internal/domain/snapshot"
)

// Source reads the latest snapshot of an event collection.
type Source interface {
	Load(ctx context.Context, collection string) (domsnap.Snapshot, error)
}
