package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/assetq/internal/domain"
	domsnap "github.com/kailas-cloud/assetq/internal/domain/snapshot"
	"github.com/kailas-cloud/assetq/internal/logger"
	"github.com/kailas-cloud/assetq/internal/metrics"
)

// Instrumented wraps a Loader with load metrics and logging.
type Instrumented struct {
	inner Loader
}

// NewInstrumented wraps inner.
func NewInstrumented(inner Loader) *Instrumented {
	return &Instrumented{inner: inner}
}

// Load delegates to the inner loader and records the outcome.
func (s *Instrumented) Load(ctx context.Context, collection string) (domsnap.Snapshot, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	snap, err := s.inner.Load(ctx, collection)
	duration := time.Since(start)

	switch {
	case errors.Is(err, domain.ErrSnapshotNotFound):
		metrics.SnapshotLoadsTotal.WithLabelValues(collection, "missing").Inc()
		log.Warn("Snapshot missing",
			zap.String("collection", collection),
			zap.Duration("duration", duration),
		)
		return domsnap.Snapshot{}, fmt.Errorf("load %s: %w", collection, err)
	case err != nil:
		metrics.SnapshotLoadsTotal.WithLabelValues(collection, "error").Inc()
		log.Error("Snapshot load failed",
			zap.String("collection", collection),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domsnap.Snapshot{}, fmt.Errorf("load %s: %w", collection, err)
	}

	metrics.SnapshotLoadsTotal.WithLabelValues(collection, "ok").Inc()
	log.Debug("Snapshot loaded",
		zap.String("collection", collection),
		zap.String("revision", snap.Revision()),
		zap.Int("records", snap.Len()),
		zap.Duration("duration", duration),
	)
	return snap, nil
}
