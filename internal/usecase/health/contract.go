package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// SnapshotLister lists the collections holding a snapshot.
type SnapshotLister interface {
	List(ctx context.Context) ([]string, error)
}
