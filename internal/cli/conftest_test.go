package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/assetq/internal/config"
	"github.com/kailas-cloud/assetq/internal/db"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// memStore is an in-memory Store.
type memStore struct {
	mu       sync.Mutex
	data     map[string][]byte
	counters map[string]int64
	closed   bool
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, counters: map[string]int64{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStore) SetWithTTL(ctx context.Context, key string, value []byte, _ time.Duration) error {
	return m.Set(ctx, key, value)
}

func (m *memStore) IncrBy(_ context.Context, key string, val int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key] += val
	m.data[key] = []byte("counter")
	return m.counters[key], nil
}

func (m *memStore) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memStore) Scan(_ context.Context, pattern string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memStore) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

func testConfig(string) (config.Config, error) {
	var cfg config.Config
	cfg.ApplyDefaults()
	return cfg, nil
}

// execute runs a fresh command tree off-terminal with a fixed clock.
func execute(t *testing.T, store *memStore, args ...string) (string, error) {
	t.Helper()
	if store == nil {
		store = newMemStore()
	}
	root := NewRootCmd(
		WithClock(func() time.Time { return testNow }),
		WithTerminal(func(io.Writer) bool { return false }),
		WithConfigLoader(testConfig),
		WithStoreOpener(func(context.Context, config.DatabaseConfig) (Store, error) { return store, nil }),
	)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(append([]string{"--env", "test"}, args...))
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const assetsJSON = `[
  {"id": "A-1", "name": "Field Camera", "status": "available", "asset_type": "Camera",
   "updated_at": "2024-03-01", "users": {"useremail": "dana@example.com"}},
  {"id": "A-2", "name": "Field Laptop", "status": "repair", "asset_type": "Laptop", "updated_at": "2024-03-05"},
  {"id": "A-3", "name": "Drone", "status": "retired", "updated_at": "2024-03-09"}
]`

const documentsJSON = `[
  {"id": "d1", "asset_id": "A-1", "title": "Calibration", "related_date": "2024-06-01",
   "created_at": "2024-01-01", "asset": {"assigned_email": "dana@example.com"}},
  {"id": "d2", "asset_id": "A-2", "title": "Insurance", "related_date": "2024-03-01", "created_at": "2024-01-01"}
]`
