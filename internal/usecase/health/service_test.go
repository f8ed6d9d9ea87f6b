package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockSnapshotLister struct {
	names []string
	err   error
}

func (m *mockSnapshotLister) List(_ context.Context) ([]string, error) { return m.names, m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockSnapshotLister{names: []string{"assets", "asset_documents"}},
		"assets", "asset_documents")
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["database"] != CheckOK {
		t.Errorf("expected database %q, got %q", CheckOK, r.Checks["database"])
	}
	if r.Checks["snapshot:assets"] != CheckOK {
		t.Errorf("expected snapshot:assets %q, got %q", CheckOK, r.Checks["snapshot:assets"])
	}
}

func TestCheck_DBError(t *testing.T) {
	lister := &mockSnapshotLister{names: []string{"assets"}}
	svc := New(&mockDBPinger{err: errors.New("conn refused")}, lister, "assets")
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
	if _, ok := r.Checks["snapshot:assets"]; ok {
		t.Error("snapshots must not be checked without a store")
	}
}

func TestCheck_MissingSnapshot(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockSnapshotLister{names: []string{"assets"}}, "assets", "asset_actions")
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["snapshot:asset_actions"] != CheckMissing {
		t.Errorf("expected snapshot:asset_actions %q, got %q", CheckMissing, r.Checks["snapshot:asset_actions"])
	}
	if r.Checks["snapshot:assets"] != CheckOK {
		t.Errorf("expected snapshot:assets %q, got %q", CheckOK, r.Checks["snapshot:assets"])
	}
}

func TestCheck_ListError(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockSnapshotLister{err: errors.New("scan failed")}, "assets")
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["snapshots"] != CheckError {
		t.Errorf("expected snapshots %q, got %q", CheckError, r.Checks["snapshots"])
	}
}

func TestCheck_StoreOnly(t *testing.T) {
	svc := New(&mockDBPinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if len(r.Checks) != 1 {
		t.Errorf("expected 1 check, got %d", len(r.Checks))
	}
}
