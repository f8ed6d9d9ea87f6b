package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/assetq/internal/domain"
	"github.com/kailas-cloud/assetq/internal/domain/record"
	domsnap "github.com/kailas-cloud/assetq/internal/domain/snapshot"
)

const parquetBatch = 1000

// parquetColumn describes how one leaf column lands in a record.
type parquetColumn struct {
	path     []string
	repeated bool
	date     bool
	tsUnit   time.Duration // 0 when not a timestamp
}

// loadParquet reads every row of a table export as a record. Nested groups become
// nested objects, repeated columns become arrays and nulls are left out. Integers are
// widened to float64 and DATE/TIMESTAMP columns rendered as text, so records look the
// same as the JSON exports.
func loadParquet(path string) (domsnap.Snapshot, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return domsnap.Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return domsnap.Snapshot{}, fmt.Errorf("stat %s: %w", path, err)
	}
	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return domsnap.Snapshot{}, fmt.Errorf("%w: open parquet %s: %w", domain.ErrSnapshotCorrupt, path, err)
	}

	cols := parquetColumns(pf.Schema())
	recs := make([]record.Record, 0, pf.NumRows())
	for _, rg := range pf.RowGroups() {
		rows := parquet.NewRowGroupReader(rg)
		buf := make([]parquet.Row, parquetBatch)
		for {
			n, readErr := rows.ReadRows(buf)
			for i := 0; i < n; i++ {
				recs = append(recs, rowToRecord(buf[i], cols))
			}
			if readErr != nil {
				if errors.Is(readErr, io.EOF) {
					break
				}
				return domsnap.Snapshot{}, fmt.Errorf("%w: read %s: %w", domain.ErrSnapshotCorrupt, path, readErr)
			}
		}
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return domsnap.Reconstruct(name, "", 0, info.ModTime().UTC(), recs), nil
}

// parquetColumns resolves leaf columns by index.
func parquetColumns(schema *parquet.Schema) []parquetColumn {
	paths := schema.Columns()
	cols := make([]parquetColumn, len(paths))
	for i, p := range paths {
		col := parquetColumn{path: listPath(p)}
		if leaf, ok := schema.Lookup(p...); ok {
			col.repeated = leaf.MaxRepetitionLevel > 0
			if lt := leaf.Node.Type().LogicalType(); lt != nil {
				switch {
				case lt.Date != nil:
					col.date = true
				case lt.Timestamp != nil:
					col.tsUnit = timestampUnit(lt.Timestamp.Unit.Millis != nil, lt.Timestamp.Unit.Micros != nil)
				}
			}
		}
		cols[i] = col
	}
	return cols
}

// listPath drops the LIST wrapper groups ("list"/"element") from a column path.
func listPath(p []string) []string {
	if n := len(p); n >= 3 && p[n-2] == "list" && (p[n-1] == "element" || p[n-1] == "item") {
		return p[:n-2]
	}
	return p
}

func timestampUnit(millis, micros bool) time.Duration {
	switch {
	case millis:
		return time.Millisecond
	case micros:
		return time.Microsecond
	default:
		return time.Nanosecond
	}
}

func rowToRecord(row parquet.Row, cols []parquetColumn) record.Record {
	r := record.Record{}
	for _, v := range row {
		idx := v.Column()
		if v.IsNull() || idx < 0 || idx >= len(cols) {
			continue
		}
		col := cols[idx]
		setPath(r, col.path, parquetValue(v, col), col.repeated)
	}
	return r
}

func parquetValue(v parquet.Value, col parquetColumn) any {
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		if col.date {
			return time.Unix(0, 0).UTC().AddDate(0, 0, int(v.Int32())).Format(time.DateOnly)
		}
		return float64(v.Int32())
	case parquet.Int64:
		if col.tsUnit > 0 {
			return time.Unix(0, v.Int64()*int64(col.tsUnit)).UTC().Format(time.RFC3339Nano)
		}
		return float64(v.Int64())
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	default:
		return v.String()
	}
}

func setPath(r record.Record, path []string, v any, repeated bool) {
	if len(path) == 0 {
		return
	}
	m := map[string]any(r)
	for _, p := range path[:len(path)-1] {
		child, ok := m[p].(map[string]any)
		if !ok {
			child = map[string]any{}
			m[p] = child
		}
		m = child
	}
	key := path[len(path)-1]
	if repeated {
		list, _ := m[key].([]any)
		m[key] = append(list, v)
		return
	}
	m[key] = v
}
