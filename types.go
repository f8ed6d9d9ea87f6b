package assetq

import (
	"time"

	"github.com/kailas-cloud/assetq/internal/domain/query/result"
	domsnap "github.com/kailas-cloud/assetq/internal/domain/snapshot"
)

// Record is one exported row: an asset, an activity event or a document.
// Nested objects are map[string]any, numbers float64.
type Record map[string]any

// Result is one page of query results.
type Result struct {
	Items []Record
	// Total counts every match after filtering and deduplication.
	Total    int
	Page     int
	PageSize int
	Pages    int
	HasMore  bool
	Took     time.Duration
	// Revision identifies the snapshot the page was computed from.
	Revision  string
	FetchedAt time.Time
}

// SnapshotInfo describes a stored snapshot.
type SnapshotInfo struct {
	Collection string
	Records    int
	Revision   string
	Sequence   int64
	FetchedAt  time.Time
}

func toResult(l result.Listing) *Result {
	src := l.Page.Items()
	items := make([]Record, len(src))
	for i, r := range src {
		items[i] = Record(r)
	}
	return &Result{
		Items:     items,
		Total:     l.Page.TotalAfterFilter(),
		Page:      l.Page.Index(),
		PageSize:  l.Page.Size(),
		Pages:     l.Page.Pages(),
		HasMore:   l.Page.HasMore(),
		Took:      l.Page.Took(),
		Revision:  l.Revision,
		FetchedAt: l.FetchedAt,
	}
}

func snapshotInfo(s domsnap.Snapshot) SnapshotInfo {
	return SnapshotInfo{
		Collection: s.Collection(),
		Records:    s.Len(),
		Revision:   s.Revision(),
		Sequence:   s.Sequence(),
		FetchedAt:  s.FetchedAt(),
	}
}
