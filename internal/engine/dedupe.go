package engine

import (
	"github.com/kailas-cloud/assetq/internal/domain/query"
	"github.com/kailas-cloud/assetq/internal/domain/record"
)

// Dedupe keeps one representative per identity key in a single pass. A candidate replaces
// the current representative only when better(candidate, current) > 0, so among equals the
// first seen wins. Records without a key pass through unchanged. Output follows the
// position of each key's first appearance.
func Dedupe(records []record.Record, key query.KeyFunc, better query.BetterFunc) []record.Record {
	if key == nil {
		return records
	}
	out := make([]record.Record, 0, len(records))
	slot := make(map[string]int, len(records))
	for _, r := range records {
		k, ok := key(r)
		if !ok {
			out = append(out, r)
			continue
		}
		i, seen := slot[k]
		if !seen {
			slot[k] = len(out)
			out = append(out, r)
			continue
		}
		if better != nil && better(r, out[i]) > 0 {
			out[i] = r
		}
	}
	return out
}
