package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/assetq/internal/domain"
)

type parquetUser struct {
	Email string `parquet:"useremail"`
}

type parquetAsset struct {
	ID        string      `parquet:"id"`
	Name      string      `parquet:"name"`
	Cost      float64     `parquet:"cost"`
	Quantity  int64       `parquet:"quantity"`
	Active    bool        `parquet:"active"`
	Location  *string     `parquet:"location,optional"`
	Purchased int32       `parquet:"purchased,date"`
	Users     parquetUser `parquet:"users"`
	Tags      []string    `parquet:"tags,list"`
}

func daysSinceEpoch(t *testing.T, date string) int32 {
	t.Helper()
	d, err := time.Parse(time.DateOnly, date)
	require.NoError(t, err)
	return int32(d.Unix() / 86400)
}

func TestLoadFile_Parquet(t *testing.T) {
	loc := "Depot 2"
	rows := []parquetAsset{
		{
			ID: "A-1", Name: "Field Camera", Cost: 1299.5, Quantity: 3, Active: true,
			Location: &loc, Purchased: daysSinceEpoch(t, "2024-03-01"),
			Users: parquetUser{Email: "dana@example.com"}, Tags: []string{"field", "4k"},
		},
		{ID: "A-2", Name: "Tripod", Purchased: daysSinceEpoch(t, "2023-11-20")},
	}
	path := filepath.Join(t.TempDir(), "assets.parquet")
	require.NoError(t, parquet.WriteFile(path, rows))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "assets", s.Collection())
	require.Equal(t, 2, s.Len())

	first := s.Records()[0]
	assert.Equal(t, "A-1", first["id"])
	assert.Equal(t, "Field Camera", first["name"])
	assert.Equal(t, 1299.5, first["cost"])
	assert.Equal(t, float64(3), first["quantity"])
	assert.Equal(t, true, first["active"])
	assert.Equal(t, "Depot 2", first["location"])
	assert.Equal(t, "2024-03-01", first["purchased"])
	assert.Equal(t, map[string]any{"useremail": "dana@example.com"}, first["users"])
	assert.Equal(t, []any{"field", "4k"}, first["tags"])

	second := s.Records()[1]
	assert.Equal(t, "2023-11-20", second["purchased"])
	assert.NotContains(t, second, "location")
	assert.NotContains(t, second, "tags")
}

func TestLoadFile_ParquetCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.parquet")
	require.NoError(t, os.WriteFile(path, []byte("not a parquet file"), 0o600))

	_, err := LoadFile(path)
	assert.ErrorIs(t, err, domain.ErrSnapshotCorrupt)
}

func TestListPath(t *testing.T) {
	assert.Equal(t, []string{"tags"}, listPath([]string{"tags", "list", "element"}))
	assert.Equal(t, []string{"users", "email"}, listPath([]string{"users", "email"}))
	assert.Equal(t, []string{"list"}, listPath([]string{"list"}))
}
