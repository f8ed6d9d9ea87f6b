package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/assetq/internal/domain/datetime"
	"github.com/kailas-cloud/assetq/internal/domain/query"
	"github.com/kailas-cloud/assetq/internal/domain/record"
	"github.com/kailas-cloud/assetq/internal/domain/record/field"
)

func docKey(r record.Record) (string, bool) {
	asset, _ := r["asset_id"].(string)
	label, _ := r["label"].(string)
	if asset == "" {
		return "", false
	}
	return asset + "|" + label, true
}

// hasDateThenNewer prefers a record with a related date, then the later created_at.
func hasDateThenNewer(a, b record.Record) int {
	ad, bd := !field.IsEmpty(a["related_date"]), !field.IsEmpty(b["related_date"])
	if ad != bd {
		if ad {
			return 1
		}
		return -1
	}
	at, _ := datetime.Parse(a["created_at"])
	bt, _ := datetime.Parse(b["created_at"])
	return at.Compare(bt)
}

func TestDedupe_PrefersDatedOverNewer(t *testing.T) {
	dateless := record.Record{"name": "dateless", "asset_id": "A1", "label": "calibration", "created_at": "2024-05-01"}
	dated := record.Record{
		"name": "dated", "asset_id": "A1", "label": "calibration",
		"related_date": "2025-01-01", "created_at": "2024-01-01",
	}

	for _, in := range [][]record.Record{{dateless, dated}, {dated, dateless}} {
		out := Dedupe(in, docKey, hasDateThenNewer)
		require.Len(t, out, 1)
		assert.Equal(t, "dated", out[0]["name"])
	}
}

func TestDedupe_NewerWinsWhenBothDated(t *testing.T) {
	older := record.Record{"name": "older", "asset_id": "A1", "related_date": "2024-01-01", "created_at": "2024-01-01"}
	newer := record.Record{"name": "newer", "asset_id": "A1", "related_date": "2023-01-01", "created_at": "2024-02-01"}

	out := Dedupe([]record.Record{older, newer}, docKey, hasDateThenNewer)

	require.Len(t, out, 1)
	assert.Equal(t, "newer", out[0]["name"])
}

func TestDedupe_IdempotentAndCoversEveryKey(t *testing.T) {
	in := []record.Record{
		{"name": "1", "asset_id": "A1", "label": "x", "created_at": "2024-01-01"},
		{"name": "2", "asset_id": "A2", "label": "x", "created_at": "2024-01-02"},
		{"name": "3", "asset_id": "A1", "label": "x", "created_at": "2024-01-03"},
		{"name": "4", "asset_id": "A1", "label": "y", "related_date": "2024-06-01"},
		{"name": "5", "label": "orphan"},
		{"name": "6", "asset_id": "A2", "label": "x", "created_at": "2023-01-01"},
	}

	once := Dedupe(in, docKey, hasDateThenNewer)
	twice := Dedupe(once, docKey, hasDateThenNewer)

	assert.Equal(t, once, twice)
	assert.Equal(t, []string{"3", "2", "4", "5"}, names(once))

	seen := map[string]int{}
	for _, r := range once {
		if k, ok := docKey(r); ok {
			seen[k]++
		}
	}
	for _, r := range in {
		if k, ok := docKey(r); ok {
			assert.Equal(t, 1, seen[k], "key %s", k)
		}
	}
}

func TestDedupe_DoesNotMutateInput(t *testing.T) {
	in := []record.Record{
		{"name": "1", "asset_id": "A1", "created_at": "2024-01-01"},
		{"name": "2", "asset_id": "A1", "created_at": "2024-02-01"},
	}
	before := names(in)

	_ = Dedupe(in, docKey, hasDateThenNewer)

	assert.Equal(t, before, names(in))
}

func TestDedupe_NilFuncs(t *testing.T) {
	in := []record.Record{{"asset_id": "A1", "name": "first"}, {"asset_id": "A1", "name": "second"}}

	assert.Len(t, Dedupe(in, nil, nil), 2)

	out := Dedupe(in, docKey, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "first", out[0]["name"])
}

func TestRun_DedupesAfterFiltering(t *testing.T) {
	e := newTestEngine(t)
	in := []record.Record{
		{"name": "keep", "asset_id": "A1", "label": "x", "created_at": "2024-01-01"},
		{"name": "filtered newer", "asset_id": "A1", "label": "x", "created_at": "2024-03-01", "hidden": "yes"},
	}
	flag := query.Flag{Name: "visible", Test: func(r record.Record) bool { return r["hidden"] == nil }}

	page := e.Run(in, query.Config{Flags: []query.Flag{flag}, DedupeKey: docKey, Better: hasDateThenNewer})

	assert.Equal(t, []string{"keep"}, names(page.Items()))
	assert.Equal(t, 1, page.TotalAfterFilter())
}
