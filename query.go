package assetq

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/assetq/internal/domain"
	"github.com/kailas-cloud/assetq/internal/domain/query/result"
	activityuc "github.com/kailas-cloud/assetq/internal/usecase/activity"
	assetsuc "github.com/kailas-cloud/assetq/internal/usecase/assets"
	certsuc "github.com/kailas-cloud/assetq/internal/usecase/certs"
)

// Activity ranges.
const (
	RangeAll    = activityuc.RangeAll
	Range24h    = activityuc.Range24h
	Range7d     = activityuc.Range7d
	Range30d    = activityuc.Range30d
	RangeCustom = activityuc.RangeCustom
)

// run executes one query as caller and records the operation.
func (c *Client) run(
	ctx context.Context, op string, caller domain.Caller,
	fn func(ctx context.Context) (result.Listing, error),
) (res *Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe(op, start, err) }()

	if !caller.IsZero() {
		ctx = domain.ContextWithCaller(ctx, caller)
	}
	l, err := fn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return toResult(l), nil
}

// AssetQuery is a fluent builder for asset searches.
type AssetQuery struct {
	c      *Client
	req    assetsuc.Request
	caller domain.Caller
}

// Assets starts an asset search. Without a keyword or sort field the most
// recently updated assets come first.
func (c *Client) Assets() *AssetQuery {
	return &AssetQuery{c: c}
}

// Query sets the keyword. Every whitespace-separated token must match.
func (q *AssetQuery) Query(keyword string) *AssetQuery {
	q.req.Keyword = keyword
	return q
}

// Status keeps assets in status. Synonyms such as "available" and "in_service" match.
func (q *AssetQuery) Status(status string) *AssetQuery {
	q.req.Status = status
	return q
}

// Type keeps assets of type, case-insensitively.
func (q *AssetQuery) Type(t string) *AssetQuery {
	q.req.Type = t
	return q
}

// Location keeps assets whose location contains loc.
func (q *AssetQuery) Location(loc string) *AssetQuery {
	q.req.Location = loc
	return q
}

// AssignedTo keeps assets whose assignee contains who.
func (q *AssetQuery) AssignedTo(who string) *AssetQuery {
	q.req.AssignedTo = who
	return q
}

// Unassigned keeps assets nobody holds.
func (q *AssetQuery) Unassigned() *AssetQuery {
	q.req.Unassigned = true
	return q
}

// DueSoon keeps assets due for service within the next week.
func (q *AssetQuery) DueSoon() *AssetQuery {
	q.req.DueSoon = true
	return q
}

// OnlyMine keeps assets assigned to the user with the given id or email.
func (q *AssetQuery) OnlyMine(userID, email string) *AssetQuery {
	q.req.OnlyMine = true
	q.caller = domain.Caller{ID: userID, Email: email}
	return q
}

// SortBy orders by field in dir ("asc" or "desc"; empty picks the field's default).
func (q *AssetQuery) SortBy(field, dir string) *AssetQuery {
	q.req.Sort = field
	q.req.Direction = dir
	return q
}

// NullsLast orders assets without the sort value after the rest.
func (q *AssetQuery) NullsLast() *AssetQuery {
	q.req.NullsLast = true
	return q
}

// Page selects the 1-based page index and size.
func (q *AssetQuery) Page(index, size int) *AssetQuery {
	q.req.Page = index
	q.req.PageSize = size
	return q
}

// All returns every match in one page.
func (q *AssetQuery) All() *AssetQuery {
	q.req.All = true
	return q
}

// Do runs the search.
func (q *AssetQuery) Do(ctx context.Context) (*Result, error) {
	return q.c.run(ctx, "assets", q.caller, func(ctx context.Context) (result.Listing, error) {
		return q.c.assetsSvc.Search(ctx, q.req)
	})
}

// ActivityQuery is a fluent builder for the activity feed.
type ActivityQuery struct {
	c   *Client
	req activityuc.Request
}

// Activity starts an activity feed query, newest first.
func (c *Client) Activity() *ActivityQuery {
	return &ActivityQuery{c: c}
}

// Query sets the keyword.
func (q *ActivityQuery) Query(keyword string) *ActivityQuery {
	q.req.Keyword = keyword
	return q
}

// Types keeps events of any of the given types.
func (q *ActivityQuery) Types(types ...string) *ActivityQuery {
	q.req.Types = append(q.req.Types, types...)
	return q
}

// AssetTypes keeps events about assets of any of the given types.
func (q *ActivityQuery) AssetTypes(types ...string) *ActivityQuery {
	q.req.AssetTypes = append(q.req.AssetTypes, types...)
	return q
}

// Status keeps status changes to status.
func (q *ActivityQuery) Status(status string) *ActivityQuery {
	q.req.Status = status
	return q
}

// Range keeps events from the last 24h, 7d or 30d. RangeAll removes the bound.
// It replaces an earlier Between.
func (q *ActivityQuery) Range(r string) *ActivityQuery {
	q.req.Range = r
	q.req.From, q.req.To = "", ""
	return q
}

// Between keeps events from from through the end of to. Dates are YYYY-MM-DD or
// DD/MM/YYYY; an empty side is open.
func (q *ActivityQuery) Between(from, to string) *ActivityQuery {
	q.req.Range = RangeCustom
	q.req.From = from
	q.req.To = to
	return q
}

// SortBy orders by field in dir.
func (q *ActivityQuery) SortBy(field, dir string) *ActivityQuery {
	q.req.Sort = field
	q.req.Direction = dir
	return q
}

// NullsLast orders events without the sort value after the rest.
func (q *ActivityQuery) NullsLast() *ActivityQuery {
	q.req.NullsLast = true
	return q
}

// Page selects the 1-based page index and size.
func (q *ActivityQuery) Page(index, size int) *ActivityQuery {
	q.req.Page = index
	q.req.PageSize = size
	return q
}

// All returns every match in one page.
func (q *ActivityQuery) All() *ActivityQuery {
	q.req.All = true
	return q
}

// Do runs the query.
func (q *ActivityQuery) Do(ctx context.Context) (*Result, error) {
	return q.c.run(ctx, "activity", domain.Caller{}, func(ctx context.Context) (result.Listing, error) {
		return q.c.activitySvc.Feed(ctx, q.req)
	})
}

// CertQuery is a fluent builder for the document registry.
type CertQuery struct {
	c      *Client
	req    certsuc.Request
	caller domain.Caller
}

// Certs starts a document registry query. Results hold the latest version of each
// document, decorated with "expiry" and "days_left".
func (c *Client) Certs() *CertQuery {
	return &CertQuery{c: c}
}

// Query sets the keyword.
func (q *CertQuery) Query(keyword string) *CertQuery {
	q.req.Keyword = keyword
	return q
}

// Type keeps documents of assets of type t.
func (q *CertQuery) Type(t string) *CertQuery {
	q.req.Type = t
	return q
}

// Assigned keeps documents of assets whose assignee contains who.
func (q *CertQuery) Assigned(who string) *CertQuery {
	q.req.Assigned = who
	return q
}

// OnlyMine keeps documents of assets assigned to the user with the given id or email.
func (q *CertQuery) OnlyMine(userID, email string) *CertQuery {
	q.req.OnlyMine = true
	q.caller = domain.Caller{ID: userID, Email: email}
	return q
}

// Label keeps documents labelled label.
func (q *CertQuery) Label(label string) *CertQuery {
	q.req.Label = label
	return q
}

// Between keeps documents whose related date falls from from through the end of to.
func (q *CertQuery) Between(from, to string) *CertQuery {
	q.req.From = from
	q.req.To = to
	return q
}

// Expiry keeps documents with the badge: "none", "expired", "expiring" or "valid".
func (q *CertQuery) Expiry(badge string) *CertQuery {
	q.req.Expiry = badge
	return q
}

// History lists every version instead of the latest per document.
func (q *CertQuery) History() *CertQuery {
	q.req.History = true
	return q
}

// SortBy orders by field in dir.
func (q *CertQuery) SortBy(field, dir string) *CertQuery {
	q.req.Sort = field
	q.req.Direction = dir
	return q
}

// NullsLast orders documents without the sort value after the rest.
func (q *CertQuery) NullsLast() *CertQuery {
	q.req.NullsLast = true
	return q
}

// Page selects the 1-based page index and size. Sizes are 25, 50 or 100.
func (q *CertQuery) Page(index, size int) *CertQuery {
	q.req.Page = index
	q.req.PageSize = size
	return q
}

// All returns every match in one page.
func (q *CertQuery) All() *CertQuery {
	q.req.All = true
	return q
}

// Do runs the query.
func (q *CertQuery) Do(ctx context.Context) (*Result, error) {
	return q.c.run(ctx, "certs", q.caller, func(ctx context.Context) (result.Listing, error) {
		return q.c.certsSvc.List(ctx, q.req)
	})
}
