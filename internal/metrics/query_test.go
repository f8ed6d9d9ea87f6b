package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/assetq/internal/engine"
)

func TestRegisterQueryMetrics_Idempotent(t *testing.T) {
	RegisterQueryMetrics()
	RegisterQueryMetrics()
}

func TestQueryObserver_ObserveRun(t *testing.T) {
	o := QueryObserver{Surface: "observer-test"}
	o.ObserveRun(engine.Stats{Input: 10, Matched: 4, Total: 3, Returned: 3, Took: 2 * time.Millisecond})
	o.ObserveRun(engine.Stats{Total: 0, Took: time.Millisecond})

	if n := testutil.CollectAndCount(QueryDuration); n == 0 {
		t.Error("expected query_duration_seconds series")
	}
	if n := testutil.CollectAndCount(QueryResults); n == 0 {
		t.Error("expected query_results series")
	}
}

func TestSnapshotLoadsTotal_Labels(t *testing.T) {
	SnapshotLoadsTotal.WithLabelValues("assets", "ok").Inc()
	if v := testutil.ToFloat64(SnapshotLoadsTotal.WithLabelValues("assets", "ok")); v < 1 {
		t.Errorf("expected snapshot_loads_total >= 1, got %f", v)
	}
}
