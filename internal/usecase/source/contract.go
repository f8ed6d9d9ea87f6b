// Package source provides snapshot sources for the query use cases.
package source

import (
	"context"

	domsnap "github.com/kailas-cloud/assetq/internal/domain/snapshot"
)

// Loader reads the latest snapshot of a collection.
type Loader interface {
	Load(ctx context.Context, collection string) (domsnap.Snapshot, error)
}
