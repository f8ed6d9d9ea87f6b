package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kailas-cloud/assetq/internal/domain"
	"github.com/kailas-cloud/assetq/internal/domain/record"
	domsnap "github.com/kailas-cloud/assetq/internal/domain/snapshot"
)

// LoadFile reads a snapshot from disk. Accepted contents: a packed snapshot, a JSON
// snapshot object, a bare JSON array of records, or a .parquet table export. Arrays and
// tables take their collection name from the file name and their fetch time from the
// file modification time.
func LoadFile(path string) (domsnap.Snapshot, error) {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return loadParquet(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domsnap.Snapshot{}, fmt.Errorf("read %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return domsnap.Snapshot{}, fmt.Errorf("stat %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return parseFile(data, name, info.ModTime())
}

func parseFile(data []byte, name string, modTime time.Time) (domsnap.Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		s, err := Decode(data)
		if err != nil {
			return domsnap.Snapshot{}, err
		}
		if s.Collection() == "" {
			return domsnap.Reconstruct(name, s.Revision(), s.Sequence(), s.FetchedAt(), s.Records()), nil
		}
		return s, nil
	}

	var recs []map[string]any
	if err := json.Unmarshal(trimmed, &recs); err != nil {
		return domsnap.Snapshot{}, fmt.Errorf("%w: %w", domain.ErrSnapshotCorrupt, err)
	}
	out := make([]record.Record, 0, len(recs))
	for _, r := range recs {
		if r != nil {
			out = append(out, record.Record(r))
		}
	}
	return domsnap.Reconstruct(name, "", 0, modTime.UTC(), out), nil
}
