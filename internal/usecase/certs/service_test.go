package certs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/assetq/internal/domain"
	"github.com/kailas-cloud/assetq/internal/domain/query/result"
	"github.com/kailas-cloud/assetq/internal/domain/record"
	domsnap "github.com/kailas-cloud/assetq/internal/domain/snapshot"
)

// --- Mocks ---

type mockSource struct {
	snap domsnap.Snapshot
	err  error
}

func (m *mockSource) Load(_ context.Context, _ string) (domsnap.Snapshot, error) {
	return m.snap, m.err
}

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func testDocs() []record.Record {
	camera := map[string]any{"name": "Field Camera", "type": "Camera", "assigned_email": "dana@example.com"}
	return []record.Record{
		{
			"id": "c1", "asset_id": "A-100", "asset_type_field_id": 7, "title": "calibration_certificate",
			"related_date": "2024-03-20", "created_at": "2024-01-05T10:00:00Z", "url": "u1", "asset": camera,
		},
		{
			"id": "c2", "asset_id": "A-100", "asset_type_field_id": 7, "title": "calibration_certificate",
			"related_date": "2023-03-20", "created_at": "2023-01-05T10:00:00Z", "url": "u2",
		},
		{
			"id": "c3", "asset_id": "A-100", "asset_type_field_id": 7, "title": "calibration_certificate",
			"created_at": "2024-02-01T10:00:00Z", "url": "u3",
		},
		{
			"id": "c4", "asset_id": "A-102", "title": "Insurance", "related_date": "15/09/2024",
			"created_at": "2024-02-10", "url": "u4",
			"asset": map[string]any{"type": "Laptop", "assigned_to": "Lee"},
		},
		{
			"id": "c5", "asset_id": "A-102", "title": "insurance", "related_date": "2024-03-01",
			"created_at": "2024-01-01", "url": "u5",
		},
		{"id": "c6", "asset_id": "A-103", "url": "u6", "created_at": "2024-03-01"},
		{"id": "c7", "title": "orphan", "related_date": "2024-03-10", "created_at": "2024-03-02"},
	}
}

func newTestService(t *testing.T) (*Service, *mockSource) {
	t.Helper()
	snap, err := domsnap.New("asset_documents", testDocs(), testNow)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	src := &mockSource{snap: snap.WithRevision("rev-3", 3)}
	return New(src, Settings{Clock: func() time.Time { return testNow }}), src
}

func ids(l result.Listing) []string {
	out := make([]string, 0, len(l.Page.Items()))
	for _, r := range l.Page.Items() {
		out = append(out, r["id"].(string))
	}
	return out
}

func assertIDs(t *testing.T, got result.Listing, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("ids = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("ids = %v, want %v", g, want)
		}
	}
}

func list(t *testing.T, svc *Service, ctx context.Context, req Request) result.Listing {
	t.Helper()
	got, err := svc.List(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return got
}

// --- Tests ---

func TestList_LatestPerDocument(t *testing.T) {
	svc, _ := newTestService(t)

	got := list(t, svc, context.Background(), Request{})
	// c1 beats the older c2 and the undated c3; c4 beats c5 by upload time; c7 has no asset.
	assertIDs(t, got, "c4", "c1", "c7", "c6")
	if got.Page.TotalAfterFilter() != 4 {
		t.Errorf("total = %d", got.Page.TotalAfterFilter())
	}
	if got.Revision != "rev-3" {
		t.Errorf("revision = %q", got.Revision)
	}
}

func TestList_ExpiryBadges(t *testing.T) {
	svc, src := newTestService(t)

	got := list(t, svc, context.Background(), Request{})
	want := map[string]struct {
		badge string
		days  any
	}{
		"c4": {"valid", 189},
		"c1": {"expiring", 10},
		"c7": {"expiring", 0},
		"c6": {"none", nil},
	}
	for _, r := range got.Page.Items() {
		id := r["id"].(string)
		if r[FieldExpiry] != want[id].badge || r[FieldDaysLeft] != want[id].days {
			t.Errorf("%s: badge %v days %v, want %v %v", id, r[FieldExpiry], r[FieldDaysLeft], want[id].badge, want[id].days)
		}
	}

	for _, r := range src.snap.Records() {
		if _, ok := r[FieldExpiry]; ok {
			t.Fatal("source record was decorated")
		}
	}
}

func TestList_HistoryListsEveryVersion(t *testing.T) {
	svc, _ := newTestService(t)

	got := list(t, svc, context.Background(), Request{History: true})
	assertIDs(t, got, "c4", "c1", "c7", "c5", "c2", "c6", "c3")
}

func TestList_ExpiryFilter(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		expiry string
		want   []string
	}{
		// expired bypasses the latest-only view
		{"expired", []string{"c5", "c2"}},
		{"expiring", []string{"c1", "c7"}},
		{"soon", []string{"c1", "c7"}},
		{"valid", []string{"c4"}},
		// c3 is alone in its group once the dated versions are filtered out
		{"none", []string{"c6", "c3"}},
	}
	for _, tt := range tests {
		t.Run(tt.expiry, func(t *testing.T) {
			assertIDs(t, list(t, svc, context.Background(), Request{Expiry: tt.expiry}), tt.want...)
		})
	}
}

func TestList_Filters(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name string
		req  Request
		want []string
	}{
		{"label", Request{Label: "Calibration Certificate"}, []string{"c1"}},
		{"type", Request{Type: "laptop"}, []string{"c4"}},
		{"assigned", Request{Assigned: "lee"}, []string{"c4"}},
		{"keyword asset name", Request{Keyword: "camera"}, []string{"c1"}},
		{"keyword label", Request{Keyword: "orphan"}, []string{"c7"}},
		{"date range", Request{From: "2024-03-01", To: "20/03/2024"}, []string{"c1", "c7", "c5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertIDs(t, list(t, svc, context.Background(), tt.req), tt.want...)
		})
	}
}

func TestList_OnlyMine(t *testing.T) {
	svc, _ := newTestService(t)

	ctx := domain.ContextWithCaller(context.Background(), domain.Caller{Email: "dana@example.com"})
	assertIDs(t, list(t, svc, ctx, Request{OnlyMine: true}), "c1")
}

func TestList_SortDaysLeft(t *testing.T) {
	svc, _ := newTestService(t)

	got := list(t, svc, context.Background(), Request{Sort: SortDaysLeft})
	assertIDs(t, got, "c6", "c7", "c1", "c4")
}

func TestList_PageSizes(t *testing.T) {
	svc, _ := newTestService(t)

	got := list(t, svc, context.Background(), Request{History: true, PageSize: 50})
	if got.Page.Size() != 50 {
		t.Errorf("size = %d", got.Page.Size())
	}

	_, err := svc.List(context.Background(), Request{PageSize: 30})
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestList_InvalidRequests(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"expiry", Request{Expiry: "stale"}, domain.ErrInvalidQuery},
		{"from", Request{From: "soon"}, domain.ErrInvalidQuery},
		{"direction", Request{Direction: "up"}, domain.ErrInvalidQuery},
		{"sort", Request{Sort: "colour"}, domain.ErrUnknownSortField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.List(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestList_SourceError(t *testing.T) {
	svc, src := newTestService(t)
	src.err = domain.ErrSnapshotNotFound

	_, err := svc.List(context.Background(), Request{})
	if !errors.Is(err, domain.ErrSnapshotNotFound) {
		t.Errorf("expected ErrSnapshotNotFound, got %v", err)
	}
}

func TestBetter(t *testing.T) {
	svc, _ := newTestService(t)
	b := better(svc.engine)

	dated := record.Record{"related_date": "2020-01-01", "created_at": "2020-01-01"}
	newer := record.Record{"created_at": "2024-01-01"}
	if b(dated, newer) <= 0 || b(newer, dated) >= 0 {
		t.Error("a related date must beat a newer upload")
	}
	older := record.Record{"related_date": "2021-01-01", "created_at": "2019-01-01"}
	if b(dated, older) <= 0 {
		t.Error("later upload must win among dated documents")
	}
	if b(dated, dated) != 0 {
		t.Error("identical documents must tie")
	}
}

func TestIdentityKey(t *testing.T) {
	svc, _ := newTestService(t)
	key := identityKey(svc.engine)

	tests := []struct {
		rec  record.Record
		want string
		ok   bool
	}{
		{record.Record{"asset_id": "A", "asset_type_field_id": 3, "title": "x"}, "A|field:3", true},
		{record.Record{"asset_id": "A", "title": "Service Report"}, "A|label:service_report", true},
		{record.Record{"asset_id": "A", "url": "https://f/1"}, "A|url:https://f/1", true},
		{record.Record{"asset_id": "A"}, "", false},
		{record.Record{"title": "x"}, "", false},
	}
	for _, tt := range tests {
		got, ok := key(tt.rec)
		if got != tt.want || ok != tt.ok {
			t.Errorf("key(%v) = %q/%v, want %q/%v", tt.rec, got, ok, tt.want, tt.ok)
		}
	}
}
