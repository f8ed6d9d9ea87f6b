package result

import (
	"time"

	"github.com/kailas-cloud/assetq/internal/domain/record"
)

// Page is one window of a filtered, deduplicated and sorted collection.
type Page struct {
	items []record.Record
	total int
	index int
	size  int
	all   bool
	took  time.Duration
}

// New creates a result page. total is the length of the full sequence before slicing.
func New(items []record.Record, total, index, size int, all bool, took time.Duration) Page {
	return Page{items: items, total: total, index: index, size: size, all: all, took: took}
}

// Items returns the records in the window.
func (p *Page) Items() []record.Record { return p.items }

// TotalAfterFilter returns the length of the filtered sequence.
func (p *Page) TotalAfterFilter() int { return p.total }

// Index returns the 1-based page index.
func (p *Page) Index() int { return p.index }

// Size returns the page size. For "all" pages it equals the total.
func (p *Page) Size() int {
	if p.all {
		return p.total
	}
	return p.size
}

// Pages returns the number of pages at this size, at least 1.
func (p *Page) Pages() int {
	if p.all || p.size <= 0 || p.total == 0 {
		return 1
	}
	return (p.total + p.size - 1) / p.size
}

// HasMore reports whether a later page holds records.
func (p *Page) HasMore() bool {
	return !p.all && p.index < p.Pages()
}

// Took returns the engine-internal elapsed time.
func (p *Page) Took() time.Duration { return p.took }

// WithItems returns a copy of the page holding items instead, for callers that decorate
// the window after the engine run. Totals and paging are kept.
func (p Page) WithItems(items []record.Record) Page {
	p.items = items
	return p
}

// Listing is a result page tagged with the snapshot it was computed from.
type Listing struct {
	Page      Page
	Revision  string
	FetchedAt time.Time
}
