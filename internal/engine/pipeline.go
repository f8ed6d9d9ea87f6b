package engine

import (
	"slices"

	"github.com/kailas-cloud/assetq/internal/domain/query"
	"github.com/kailas-cloud/assetq/internal/domain/query/result"
	"github.com/kailas-cloud/assetq/internal/domain/record"
)

// Run filters, deduplicates, sorts and slices records. records is never modified.
func (e *Engine) Run(records []record.Record, cfg query.Config) result.Page {
	start := e.clock()
	now := e.now(cfg)

	match := e.matcher(cfg)
	filtered := make([]record.Record, 0, len(records))
	for _, r := range records {
		if match(r) {
			filtered = append(filtered, r)
		}
	}
	matched := len(filtered)

	if cfg.DedupeKey != nil {
		filtered = Dedupe(filtered, cfg.DedupeKey, cfg.Better)
	}

	cmp := e.Comparator(cfg.Sort, query.Tokens(cfg.Keyword), now)
	slices.SortStableFunc(filtered, cmp)

	total := len(filtered)
	page := cfg.Page.Normalize(query.DefaultPageSize)
	items := window(filtered, page)

	took := e.clock().Sub(start)
	if e.observer != nil {
		e.observer.ObserveRun(Stats{
			Input:    len(records),
			Matched:  matched,
			Deduped:  cfg.DedupeKey != nil,
			Total:    total,
			Returned: len(items),
			Took:     took,
		})
	}
	return result.New(items, total, page.Index, page.Size, page.All, took)
}

// window slices the sorted sequence without re-ordering it.
func window(sorted []record.Record, p query.Page) []record.Record {
	if p.All {
		return sorted
	}
	if p.Index-1 > len(sorted)/p.Size {
		return []record.Record{}
	}
	from := (p.Index - 1) * p.Size
	if from >= len(sorted) {
		return []record.Record{}
	}
	to := min(from+p.Size, len(sorted))
	return sorted[from:to]
}
