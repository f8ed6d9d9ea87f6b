package source

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/assetq/internal/domain"
	domsnap "github.com/kailas-cloud/assetq/internal/domain/snapshot"
)

// Static serves snapshots held in memory, keyed by collection.
// Put replaces a snapshot atomically; concurrent loads see either the old or the new one.
type Static struct {
	mu    sync.RWMutex
	snaps map[string]domsnap.Snapshot
}

// NewStatic creates a Static source holding snaps.
func NewStatic(snaps ...domsnap.Snapshot) *Static {
	s := &Static{snaps: make(map[string]domsnap.Snapshot, len(snaps))}
	for _, snap := range snaps {
		s.snaps[snap.Collection()] = snap
	}
	return s
}

// Put stores snap under its collection name.
func (s *Static) Put(snap domsnap.Snapshot) {
	s.mu.Lock()
	s.snaps[snap.Collection()] = snap
	s.mu.Unlock()
}

// Load returns the snapshot of collection.
func (s *Static) Load(_ context.Context, collection string) (domsnap.Snapshot, error) {
	s.mu.RLock()
	snap, ok := s.snaps[collection]
	s.mu.RUnlock()
	if !ok {
		return domsnap.Snapshot{}, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, collection)
	}
	return snap, nil
}
