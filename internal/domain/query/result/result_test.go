package result

import (
	"testing"
	"time"

	"github.com/kailas-cloud/assetq/internal/domain/record"
)

func TestNew(t *testing.T) {
	items := []record.Record{{"id": "a"}, {"id": "b"}}
	p := New(items, 7, 2, 2, false, 3*time.Millisecond)

	if len(p.Items()) != 2 {
		t.Errorf("Items() len = %d", len(p.Items()))
	}
	if p.TotalAfterFilter() != 7 {
		t.Errorf("TotalAfterFilter() = %d", p.TotalAfterFilter())
	}
	if p.Index() != 2 {
		t.Errorf("Index() = %d", p.Index())
	}
	if p.Pages() != 4 {
		t.Errorf("Pages() = %d, want 4", p.Pages())
	}
	if !p.HasMore() {
		t.Error("HasMore() = false on page 2 of 4")
	}
	if p.Took() != 3*time.Millisecond {
		t.Errorf("Took() = %v", p.Took())
	}
}

func TestPage_All(t *testing.T) {
	p := New(make([]record.Record, 5), 5, 1, 25, true, 0)
	if p.Pages() != 1 {
		t.Errorf("Pages() = %d", p.Pages())
	}
	if p.Size() != 5 {
		t.Errorf("Size() = %d", p.Size())
	}
	if p.HasMore() {
		t.Error("HasMore() = true for all")
	}
}

func TestPage_Empty(t *testing.T) {
	p := New(nil, 0, 3, 25, false, 0)
	if p.Pages() != 1 {
		t.Errorf("Pages() = %d", p.Pages())
	}
	if p.HasMore() {
		t.Error("HasMore() = true for empty result")
	}
}

func TestWithItems_KeepsPaging(t *testing.T) {
	p := New([]record.Record{{"id": "a"}}, 9, 3, 4, false, 0)
	d := p.WithItems([]record.Record{{"id": "a", "badge": "x"}})

	if d.TotalAfterFilter() != 9 || d.Index() != 3 || d.Pages() != 3 {
		t.Errorf("paging changed: total %d index %d pages %d", d.TotalAfterFilter(), d.Index(), d.Pages())
	}
	if d.Items()[0]["badge"] != "x" {
		t.Error("items not replaced")
	}
	if _, ok := p.Items()[0]["badge"]; ok {
		t.Error("original page modified")
	}
}
