package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/assetq/internal/db"
	"github.com/kailas-cloud/assetq/internal/domain/record"
	domsnap "github.com/kailas-cloud/assetq/internal/domain/snapshot"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	data       map[string][]byte
	ttls       map[string]time.Duration
	counters   map[string]int64
	getErr     error
	setErr     error
	incrErr    error
	scanResult []string
}

func newMockStore() *mockStore {
	return &mockStore{
		data:     map[string][]byte{},
		ttls:     map[string]time.Duration{},
		counters: map[string]int64{},
	}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.ttls[key] = ttl
	return m.Set(ctx, key, value)
}

func (m *mockStore) IncrBy(_ context.Context, key string, val int64) (int64, error) {
	if m.incrErr != nil {
		return 0, m.incrErr
	}
	m.counters[key] += val
	return m.counters[key], nil
}

func (m *mockStore) Del(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockStore) Scan(_ context.Context, _ string) ([]string, error) {
	return m.scanResult, nil
}

func newTestRepo(t *testing.T, codec Codec) (*Repo, *mockStore) {
	t.Helper()
	ms := newMockStore()
	repo := New(ms, "", codec)
	n := 0
	repo.newID = func() string {
		n++
		return "rev-" + string(rune('0'+n))
	}
	return repo, ms
}

func testSnapshot(t *testing.T) domsnap.Snapshot {
	t.Helper()
	s, err := domsnap.New("assets", []record.Record{
		{"id": "A-1", "name": "Field Camera", "fields": map[string]any{"serial_number": "SN-1"}},
		{"id": "A-2", "name": "Field Laptop", "count": 3},
	}, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("testSnapshot: %v", err)
	}
	return s
}
