// Package certs lists asset certificates and documents, latest version per document by default.
package certs

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/assetq/internal/domain"
	"github.com/kailas-cloud/assetq/internal/domain/datetime"
	"github.com/kailas-cloud/assetq/internal/domain/query"
	"github.com/kailas-cloud/assetq/internal/domain/query/direction"
	"github.com/kailas-cloud/assetq/internal/domain/query/filter"
	"github.com/kailas-cloud/assetq/internal/domain/query/result"
	"github.com/kailas-cloud/assetq/internal/domain/record"
	"github.com/kailas-cloud/assetq/internal/domain/record/field"
	"github.com/kailas-cloud/assetq/internal/engine"
	"github.com/kailas-cloud/assetq/internal/logger"
)

// Item decorations added to every returned document.
const (
	FieldExpiry   = "expiry"
	FieldDaysLeft = "days_left"
)

// Settings configures the registry surface.
type Settings struct {
	Collection      string
	DefaultPageSize int
	MaxPageSize     int
	// ExpiringSoonDays is the window of the expiring badge.
	ExpiringSoonDays int
	Clock            func() time.Time
}

func (s *Settings) applyDefaults() {
	if s.Collection == "" {
		s.Collection = "asset_documents"
	}
	if s.DefaultPageSize <= 0 {
		s.DefaultPageSize = PageSizes[0]
	}
	if s.MaxPageSize <= 0 {
		s.MaxPageSize = PageSizes[len(PageSizes)-1]
	}
	if s.ExpiringSoonDays <= 0 {
		s.ExpiringSoonDays = 30
	}
	if s.Clock == nil {
		s.Clock = time.Now
	}
}

// Service queries the document registry.
type Service struct {
	src      Source
	engine   *engine.Engine
	settings Settings
}

// New creates a registry service.
func New(src Source, settings Settings, opts ...engine.Option) *Service {
	settings.applyDefaults()
	opts = append([]engine.Option{engine.WithClock(settings.Clock)}, opts...)
	return &Service{src: src, engine: engine.MustNew(Schema(), opts...), settings: settings}
}

// List loads the document snapshot, runs req and decorates the page with expiry badges.
func (s *Service) List(ctx context.Context, req Request) (result.Listing, error) {
	now := s.settings.Clock()
	cfg, err := s.buildConfig(ctx, req, now)
	if err != nil {
		return result.Listing{}, err
	}

	snap, err := s.src.Load(ctx, s.settings.Collection)
	if err != nil {
		return result.Listing{}, fmt.Errorf("load documents: %w", err)
	}

	page := s.engine.Run(snap.Records(), cfg)
	page = page.WithItems(s.decorate(page.Items(), now))

	logger.FromContext(ctx).Debug("Document registry",
		zap.String("revision", snap.Revision()),
		zap.Int("records", snap.Len()),
		zap.Bool("latest_only", cfg.DedupeKey != nil),
		zap.Int("total", page.TotalAfterFilter()),
		zap.Duration("took", page.Took()),
	)

	return result.Listing{Page: page, Revision: snap.Revision(), FetchedAt: snap.FetchedAt()}, nil
}

// decorate returns copies of items carrying the expiry badge and days left.
func (s *Service) decorate(items []record.Record, now time.Time) []record.Record {
	out := make([]record.Record, len(items))
	for i, r := range items {
		badge, days := expiryOf(s.engine, r, now, s.settings.ExpiringSoonDays)
		c := r.Clone()
		c[FieldExpiry] = string(badge)
		if badge == ExpiryNone {
			c[FieldDaysLeft] = nil
		} else {
			c[FieldDaysLeft] = days
		}
		out[i] = c
	}
	return out
}

func (s *Service) buildConfig(ctx context.Context, req Request, now time.Time) (query.Config, error) {
	if len(req.Keyword) > query.MaxKeywordLength {
		return query.Config{}, domain.NewInvalidParam("q", fmt.Sprintf("too long (max %d chars)", query.MaxKeywordLength))
	}

	typeCond, err := filter.NewMatch("type", req.Type)
	if err != nil {
		return query.Config{}, fmt.Errorf("type filter: %w", err)
	}
	assignedCond, err := filter.NewContains("assigned_to", req.Assigned)
	if err != nil {
		return query.Config{}, fmt.Errorf("assigned filter: %w", err)
	}
	labelCond, err := filter.NewMatch("label", req.Label)
	if err != nil {
		return query.Config{}, fmt.Errorf("label filter: %w", err)
	}
	filters, err := filter.NewExpression(typeCond, assignedCond, labelCond.WithNormalizer(field.Normalize))
	if err != nil {
		return query.Config{}, domain.NewInvalidParam("filters", err.Error())
	}

	var flags []query.Flag
	if req.OnlyMine {
		c := domain.CallerFromContext(ctx)
		flags = append(flags, s.engine.AnyEqualsFlag("only_mine",
			[]string{"assigned_email", "assigned_uid"}, c.Email, c.ID))
	}
	var expiry Expiry
	if req.Expiry != "" {
		var ok bool
		expiry, ok = ParseExpiry(strings.ToLower(strings.TrimSpace(req.Expiry)))
		if !ok {
			return query.Config{}, domain.NewInvalidParam("expiry",
				fmt.Sprintf("must be one of none, expired, expiring, valid, got %q", req.Expiry))
		}
		window := s.settings.ExpiringSoonDays
		flags = append(flags, query.Flag{Name: "expiry", Test: func(r record.Record) bool {
			badge, _ := expiryOf(s.engine, r, now, window)
			return badge == expiry
		}})
	}

	dr := query.DateRange{Field: SortRelatedDate}
	if req.From != "" {
		from, ok := datetime.ParseText(req.From)
		if !ok {
			return query.Config{}, domain.NewInvalidParam("from", fmt.Sprintf("unrecognized date %q", req.From))
		}
		dr.Start = &from
	}
	if req.To != "" {
		to, ok := datetime.ParseText(req.To)
		if !ok {
			return query.Config{}, domain.NewInvalidParam("to", fmt.Sprintf("unrecognized date %q", req.To))
		}
		dr.End = &to
	}

	sort, err := sortFor(req)
	if err != nil {
		return query.Config{}, err
	}

	size := req.PageSize
	switch {
	case size <= 0:
		size = s.settings.DefaultPageSize
	case !slices.Contains(PageSizes, size):
		return query.Config{}, domain.NewInvalidParam("page_size", fmt.Sprintf("must be one of %v", PageSizes))
	}
	size = min(size, s.settings.MaxPageSize)

	cfg := query.Config{
		Keyword:   req.Keyword,
		Filters:   filters,
		Flags:     flags,
		DateRange: dr,
		Sort:      sort,
		Page:      query.Page{Index: req.Page, Size: size, All: req.All},
		Now:       now,
	}
	// The expired view and history list every version.
	if !req.History && expiry != ExpiryExpired {
		cfg.DedupeKey = identityKey(s.engine)
		cfg.Better = better(s.engine)
	}
	if err := cfg.Validate(); err != nil {
		return query.Config{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	return cfg, nil
}

// sortFor resolves the requested ordering. The default lists the most recent related
// date first with undated documents last.
func sortFor(req Request) (query.Sort, error) {
	if req.Sort == "" {
		dir, ok := direction.Parse(req.Direction, direction.Desc)
		if !ok {
			return query.Sort{}, domain.NewInvalidParam("dir", fmt.Sprintf("must be asc or desc, got %q", req.Direction))
		}
		return query.Sort{Field: SortRelatedDate, Direction: dir, NullsLast: true}, nil
	}
	if !sortFields[req.Sort] {
		return query.Sort{}, fmt.Errorf("%w: %q", domain.ErrUnknownSortField, req.Sort)
	}
	fallback := direction.Asc
	switch req.Sort {
	case SortRelatedDate, SortCreatedAt, SortUpdatedAt:
		fallback = direction.Desc
	}
	dir, ok := direction.Parse(req.Direction, fallback)
	if !ok {
		return query.Sort{}, domain.NewInvalidParam("dir", fmt.Sprintf("must be asc or desc, got %q", req.Direction))
	}
	return query.Sort{Field: req.Sort, Direction: dir, NullsLast: req.NullsLast}, nil
}
