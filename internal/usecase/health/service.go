package health

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/kailas-cloud/assetq/internal/logger"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckMissing indicates a configured collection without a pushed snapshot.
	CheckMissing CheckResult = "missing"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db          DBPinger
	snapshots   SnapshotLister
	collections []string
}

// New creates a Service. snapshots can be nil, in which case only the store is pinged.
func New(db DBPinger, snapshots SnapshotLister, collections ...string) *Service {
	return &Service{db: db, snapshots: snapshots, collections: collections}
}

// Check pings the store and looks up a snapshot for every configured collection.
// A dead store is an error; a missing snapshot only degrades the service.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		logger.FromContext(ctx).Warn("Store ping failed", zap.Error(err))
		checks["database"] = CheckError
		return Report{Status: Unhealthy, Checks: checks}
	}
	checks["database"] = CheckOK

	status := Healthy
	if s.snapshots != nil && len(s.collections) > 0 {
		present, err := s.snapshots.List(ctx)
		if err != nil {
			logger.FromContext(ctx).Warn("Snapshot listing failed", zap.Error(err))
			checks["snapshots"] = CheckError
			return Report{Status: Degraded, Checks: checks}
		}
		for _, name := range s.collections {
			if slices.Contains(present, name) {
				checks["snapshot:"+name] = CheckOK
				continue
			}
			checks["snapshot:"+name] = CheckMissing
			status = Degraded
		}
	}

	return Report{Status: status, Checks: checks}
}
