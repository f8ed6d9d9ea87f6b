package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/assetq/internal/domain/query"
	"github.com/kailas-cloud/assetq/internal/domain/query/direction"
	"github.com/kailas-cloud/assetq/internal/domain/record"
)

type recordingObserver struct {
	runs []Stats
}

func (o *recordingObserver) ObserveRun(s Stats) { o.runs = append(o.runs, s) }

func fixture(n int) []record.Record {
	recs := make([]record.Record, 0, n)
	for i := 0; i < n; i++ {
		r := record.Record{
			"id":   fmt.Sprintf("A-%03d", i),
			"name": fmt.Sprintf("Asset %02d", (i*7)%n),
		}
		if i%4 != 0 {
			r["updated_at"] = time.Date(2024, 1, 1+i%9, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
		}
		recs = append(recs, r)
	}
	return recs
}

func TestRun_EmptyCollection(t *testing.T) {
	e := newTestEngine(t)

	page := e.Run(nil, query.Config{Keyword: "anything"})

	assert.Empty(t, page.Items())
	assert.Equal(t, 0, page.TotalAfterFilter())
	assert.Equal(t, 1, page.Pages())
}

func TestRun_Deterministic(t *testing.T) {
	e := newTestEngine(t)
	recs := fixture(37)
	cfg := query.Config{Sort: query.Sort{Field: "updated_at", Direction: direction.Desc}, Page: query.Page{Index: 2, Size: 10}}

	first := e.Run(recs, cfg)
	second := e.Run(recs, cfg)

	assert.Equal(t, first.Items(), second.Items())
	assert.Equal(t, first.TotalAfterFilter(), second.TotalAfterFilter())
}

func TestRun_PagesConcatenateToFullSequence(t *testing.T) {
	e := newTestEngine(t)
	recs := fixture(23)
	sortBy := query.Sort{Field: "updated_at", Direction: direction.Asc}

	full := e.Run(recs, query.Config{Sort: sortBy, Page: query.Page{All: true}})
	require.Len(t, full.Items(), 23)

	for size := 1; size <= 25; size++ {
		var joined []record.Record
		first := e.Run(recs, query.Config{Sort: sortBy, Page: query.Page{Index: 1, Size: size}})
		for idx := 1; idx <= first.Pages(); idx++ {
			p := e.Run(recs, query.Config{Sort: sortBy, Page: query.Page{Index: idx, Size: size}})
			assert.Equal(t, 23, p.TotalAfterFilter())
			joined = append(joined, p.Items()...)
		}
		assert.Equal(t, full.Items(), joined, "size=%d", size)
	}
}

func TestRun_PageBeyondRange(t *testing.T) {
	e := newTestEngine(t)

	page := e.Run(fixture(5), query.Config{Page: query.Page{Index: 9, Size: 2}})

	assert.Empty(t, page.Items())
	assert.Equal(t, 5, page.TotalAfterFilter())
	assert.False(t, page.HasMore())
}

func TestRun_AllForcesFirstPage(t *testing.T) {
	e := newTestEngine(t)

	page := e.Run(fixture(30), query.Config{Page: query.Page{Index: 3, Size: 10, All: true}})

	assert.Len(t, page.Items(), 30)
	assert.Equal(t, 1, page.Index())
}

func TestRun_PageDefaults(t *testing.T) {
	e := newTestEngine(t)

	page := e.Run(fixture(30), query.Config{Page: query.Page{Index: -4}})

	assert.Equal(t, 1, page.Index())
	assert.Len(t, page.Items(), query.DefaultPageSize)
	assert.True(t, page.HasMore())
}

func TestRun_DoesNotMutateInput(t *testing.T) {
	e := newTestEngine(t)
	recs := fixture(12)
	before := make([]record.Record, len(recs))
	copy(before, recs)

	_ = e.Run(recs, query.Config{Sort: query.Sort{Field: "name", Direction: direction.Desc}})

	assert.Equal(t, before, recs)
}

func TestRun_NullsFirstWithinSortedOutput(t *testing.T) {
	e := newTestEngine(t)

	page := e.Run(fixture(12), query.Config{
		Sort: query.Sort{Field: "updated_at", Direction: direction.Desc},
		Page: query.Page{All: true},
	})

	for i, r := range page.Items() {
		_, ok := r["updated_at"]
		if i < 3 {
			assert.False(t, ok, "position %d should hold a record without updated_at", i)
		} else {
			assert.True(t, ok, "position %d", i)
		}
	}
}

func TestRun_Observer(t *testing.T) {
	obs := &recordingObserver{}
	e := newTestEngine(t, WithObserver(obs))

	e.Run(fixture(10), query.Config{Keyword: "asset", Page: query.Page{Size: 4}})

	require.Len(t, obs.runs, 1)
	assert.Equal(t, 10, obs.runs[0].Input)
	assert.Equal(t, 10, obs.runs[0].Matched)
	assert.Equal(t, 10, obs.runs[0].Total)
	assert.Equal(t, 4, obs.runs[0].Returned)
	assert.False(t, obs.runs[0].Deduped)
}
