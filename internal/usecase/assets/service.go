// Package assets runs keyword search, filters and quick flags over the asset snapshot.
package assets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/assetq/internal/domain"
	"github.com/kailas-cloud/assetq/internal/domain/query"
	"github.com/kailas-cloud/assetq/internal/domain/query/direction"
	"github.com/kailas-cloud/assetq/internal/domain/query/filter"
	"github.com/kailas-cloud/assetq/internal/domain/query/result"
	"github.com/kailas-cloud/assetq/internal/domain/status"
	"github.com/kailas-cloud/assetq/internal/engine"
	"github.com/kailas-cloud/assetq/internal/logger"
)

// Settings configures the asset surface.
type Settings struct {
	Collection      string
	DefaultPageSize int
	MaxPageSize     int
	// DueSoonDays is the window of the due_soon flag.
	DueSoonDays int
	// Clock defaults to time.Now.
	Clock func() time.Time
}

func (s *Settings) applyDefaults() {
	if s.Collection == "" {
		s.Collection = "assets"
	}
	if s.DefaultPageSize <= 0 {
		s.DefaultPageSize = query.DefaultPageSize
	}
	if s.MaxPageSize <= 0 {
		s.MaxPageSize = query.MaxPageSize
	}
	if s.DueSoonDays <= 0 {
		s.DueSoonDays = 7
	}
	if s.Clock == nil {
		s.Clock = time.Now
	}
}

// Service searches assets.
type Service struct {
	src      Source
	engine   *engine.Engine
	settings Settings
}

// New creates an asset search service.
func New(src Source, settings Settings, opts ...engine.Option) *Service {
	settings.applyDefaults()
	opts = append([]engine.Option{engine.WithClock(settings.Clock)}, opts...)
	return &Service{src: src, engine: engine.MustNew(Schema(), opts...), settings: settings}
}

// Search loads the asset snapshot and runs req against it.
func (s *Service) Search(ctx context.Context, req Request) (result.Listing, error) {
	cfg, err := s.buildConfig(ctx, req)
	if err != nil {
		return result.Listing{}, err
	}

	snap, err := s.src.Load(ctx, s.settings.Collection)
	if err != nil {
		return result.Listing{}, fmt.Errorf("load assets: %w", err)
	}

	page := s.engine.Run(snap.Records(), cfg)

	logger.FromContext(ctx).Debug("Asset search",
		zap.String("revision", snap.Revision()),
		zap.Int("records", snap.Len()),
		zap.Int("total", page.TotalAfterFilter()),
		zap.String("sort", cfg.Sort.Field),
		zap.Duration("took", page.Took()),
	)

	return result.Listing{Page: page, Revision: snap.Revision(), FetchedAt: snap.FetchedAt()}, nil
}

func (s *Service) buildConfig(ctx context.Context, req Request) (query.Config, error) {
	if len(req.Keyword) > query.MaxKeywordLength {
		return query.Config{}, domain.NewInvalidParam("q", fmt.Sprintf("too long (max %d chars)", query.MaxKeywordLength))
	}

	statusCond, err := filter.NewMatch("status", req.Status)
	if err != nil {
		return query.Config{}, fmt.Errorf("status filter: %w", err)
	}
	typeCond, err := filter.NewMatch("type", req.Type)
	if err != nil {
		return query.Config{}, fmt.Errorf("type filter: %w", err)
	}
	locCond, err := filter.NewContains("location", req.Location)
	if err != nil {
		return query.Config{}, fmt.Errorf("location filter: %w", err)
	}
	assignedCond, err := filter.NewContains("assigned_to", req.AssignedTo)
	if err != nil {
		return query.Config{}, fmt.Errorf("assigned filter: %w", err)
	}
	filters, err := filter.NewExpression(statusCond.WithNormalizer(status.Canonical), typeCond, locCond, assignedCond)
	if err != nil {
		return query.Config{}, domain.NewInvalidParam("filters", err.Error())
	}

	now := s.settings.Clock()
	var flags []query.Flag
	if req.Unassigned {
		flags = append(flags, s.engine.EmptyFlag("unassigned", "assigned_to"))
	}
	if req.DueSoon {
		flags = append(flags, s.engine.DueWithinFlag("due_soon", "next_service_date", s.settings.DueSoonDays, now))
	}
	if req.OnlyMine {
		c := domain.CallerFromContext(ctx)
		flags = append(flags, s.engine.AnyEqualsFlag("only_mine",
			[]string{"assigned_email", "assigned_uid"}, c.Email, c.ID))
	}

	sort, err := s.sortFor(req)
	if err != nil {
		return query.Config{}, err
	}

	size := req.PageSize
	if size <= 0 {
		size = s.settings.DefaultPageSize
	}
	size = min(size, s.settings.MaxPageSize)

	cfg := query.Config{
		Keyword: req.Keyword,
		Filters: filters,
		Flags:   flags,
		Sort:    sort,
		Page:    query.Page{Index: req.Page, Size: size, All: req.All},
		Now:     now,
	}
	if err := cfg.Validate(); err != nil {
		return query.Config{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	return cfg, nil
}

// sortFor resolves the requested ordering. Without a field, keyword searches rank by
// relevance and browsing lists the most recently updated assets first.
func (s *Service) sortFor(req Request) (query.Sort, error) {
	field := req.Sort
	if field == "" {
		field = SortUpdatedAt
		if len(query.Tokens(req.Keyword)) > 0 {
			field = SortRelevance
		}
	}
	if !sortFields[field] {
		return query.Sort{}, fmt.Errorf("%w: %q", domain.ErrUnknownSortField, field)
	}

	fallback := direction.Asc
	if field == SortRelevance || field == SortUpdatedAt {
		fallback = direction.Desc
	}
	dir, ok := direction.Parse(req.Direction, fallback)
	if !ok {
		return query.Sort{}, domain.NewInvalidParam("dir", fmt.Sprintf("must be asc or desc, got %q", req.Direction))
	}
	return query.Sort{Field: field, Direction: dir, NullsLast: req.NullsLast}, nil
}
