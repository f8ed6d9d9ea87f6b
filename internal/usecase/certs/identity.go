package certs

import (
	"github.com/kailas-cloud/assetq/internal/domain/datetime"
	"github.com/kailas-cloud/assetq/internal/domain/query"
	"github.com/kailas-cloud/assetq/internal/domain/record"
	"github.com/kailas-cloud/assetq/internal/domain/record/field"
	"github.com/kailas-cloud/assetq/internal/engine"
)

// identityKey groups the versions of one logical document: the asset plus the schema
// field it fills, else its normalized label, else its file URL. Documents without an
// asset or any of the three stay ungrouped.
func identityKey(e *engine.Engine) query.KeyFunc {
	return func(r record.Record) (string, bool) {
		asset := e.Text(r, "asset_id")
		if asset == "" {
			return "", false
		}
		if id := e.Text(r, "field_id"); id != "" {
			return asset + "|field:" + id, true
		}
		if label := field.Normalize(e.Text(r, "label")); label != "" {
			return asset + "|label:" + label, true
		}
		if url := e.Text(r, "url"); url != "" {
			return asset + "|url:" + url, true
		}
		return "", false
	}
}

// better prefers a document carrying a related date over one without, whatever their
// age. Otherwise the later upload wins.
func better(e *engine.Engine) query.BetterFunc {
	has := func(r record.Record) bool {
		_, ok := e.Resolve(r, "related_date")
		return ok
	}
	created := func(r record.Record) int64 {
		v, ok := e.Resolve(r, "created_at")
		if !ok {
			return 0
		}
		t, ok := datetime.Parse(v)
		if !ok {
			return 0
		}
		return t.UnixMilli()
	}
	return func(a, b record.Record) int {
		ah, bh := has(a), has(b)
		if ah != bh {
			if ah {
				return 1
			}
			return -1
		}
		ac, bc := created(a), created(b)
		switch {
		case ac > bc:
			return 1
		case ac < bc:
			return -1
		}
		return 0
	}
}
