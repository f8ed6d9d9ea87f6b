// Package activity merges event collections into one feed and queries it.
package activity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/assetq/internal/domain"
	"github.com/kailas-cloud/assetq/internal/domain/datetime"
	"github.com/kailas-cloud/assetq/internal/domain/query"
	"github.com/kailas-cloud/assetq/internal/domain/query/direction"
	"github.com/kailas-cloud/assetq/internal/domain/query/filter"
	"github.com/kailas-cloud/assetq/internal/domain/query/result"
	"github.com/kailas-cloud/assetq/internal/domain/record"
	domsnap "github.com/kailas-cloud/assetq/internal/domain/snapshot"
	"github.com/kailas-cloud/assetq/internal/domain/status"
	"github.com/kailas-cloud/assetq/internal/engine"
	"github.com/kailas-cloud/assetq/internal/logger"
)

// Settings configures the activity surface.
type Settings struct {
	// Collections are merged in order before querying.
	Collections []string
	// Kinds overrides the kind tag per collection.
	Kinds           map[string]string
	DefaultPageSize int
	MaxPageSize     int
	Clock           func() time.Time
}

func (s *Settings) applyDefaults() {
	if len(s.Collections) == 0 {
		s.Collections = []string{"asset_actions", "asset_types", "asset_deletions"}
	}
	if s.DefaultPageSize <= 0 {
		s.DefaultPageSize = query.DefaultPageSize
	}
	if s.MaxPageSize <= 0 {
		s.MaxPageSize = query.MaxPageSize
	}
	if s.Clock == nil {
		s.Clock = time.Now
	}
}

// Service serves the activity feed.
type Service struct {
	src      Source
	engine   *engine.Engine
	settings Settings
}

// New creates an activity feed service.
func New(src Source, settings Settings, opts ...engine.Option) *Service {
	settings.applyDefaults()
	opts = append([]engine.Option{engine.WithClock(settings.Clock)}, opts...)
	return &Service{src: src, engine: engine.MustNew(Schema(), opts...), settings: settings}
}

// Feed merges the event collections and runs req against them.
func (s *Service) Feed(ctx context.Context, req Request) (result.Listing, error) {
	cfg, err := s.buildConfig(req)
	if err != nil {
		return result.Listing{}, err
	}

	events, revision, fetchedAt, err := s.load(ctx)
	if err != nil {
		return result.Listing{}, err
	}

	page := s.engine.Run(events, cfg)

	logger.FromContext(ctx).Debug("Activity feed",
		zap.String("revision", revision),
		zap.Int("events", len(events)),
		zap.Int("total", page.TotalAfterFilter()),
		zap.Duration("took", page.Took()),
	)

	return result.Listing{Page: page, Revision: revision, FetchedAt: fetchedAt}, nil
}

// load reads every event collection concurrently and concatenates them in configured
// order. Missing snapshots are skipped; the feed fails only when all are missing.
// The merged revision joins the per-collection revisions; fetchedAt is the oldest fetch.
func (s *Service) load(ctx context.Context) ([]record.Record, string, time.Time, error) {
	names := s.settings.Collections
	snaps := make([]domsnap.Snapshot, len(names))
	found := make([]bool, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			snap, err := s.src.Load(gctx, name)
			if errors.Is(err, domain.ErrSnapshotNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("load %s: %w", name, err)
			}
			snaps[i], found[i] = snap, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, "", time.Time{}, err
	}

	log := logger.FromContext(ctx)
	var (
		total     int
		revisions []string
		fetchedAt time.Time
	)
	for i := range snaps {
		if !found[i] {
			log.Warn("Event collection has no snapshot", zap.String("collection", names[i]))
			continue
		}
		total += snaps[i].Len()
		revisions = append(revisions, snaps[i].Revision())
		if fetchedAt.IsZero() || snaps[i].FetchedAt().Before(fetchedAt) {
			fetchedAt = snaps[i].FetchedAt()
		}
	}
	if len(revisions) == 0 {
		return nil, "", time.Time{}, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, strings.Join(names, ", "))
	}

	events := make([]record.Record, 0, total)
	for i := range snaps {
		if !found[i] {
			continue
		}
		kind := kindFor(s.settings.Kinds, names[i])
		for _, r := range snaps[i].Records() {
			events = append(events, tagKind(r, kind))
		}
	}
	return events, strings.Join(revisions, "+"), fetchedAt, nil
}

// tagKind returns r, or a tagged copy when r has no kind.
func tagKind(r record.Record, kind string) record.Record {
	if k, ok := r.Get("kind"); ok && k != nil && k != "" {
		return r
	}
	c := r.Clone()
	c["kind"] = kind
	return c
}

func (s *Service) buildConfig(req Request) (query.Config, error) {
	if len(req.Keyword) > query.MaxKeywordLength {
		return query.Config{}, domain.NewInvalidParam("q", fmt.Sprintf("too long (max %d chars)", query.MaxKeywordLength))
	}

	typesCond, err := filter.NewOneOf("type", req.Types)
	if err != nil {
		return query.Config{}, fmt.Errorf("types filter: %w", err)
	}
	assetTypesCond, err := filter.NewOneOf("asset_type", req.AssetTypes)
	if err != nil {
		return query.Config{}, fmt.Errorf("asset types filter: %w", err)
	}
	filters, err := filter.NewExpression(typesCond, assetTypesCond)
	if err != nil {
		return query.Config{}, domain.NewInvalidParam("filters", err.Error())
	}

	now := s.settings.Clock()
	var flags []query.Flag
	if strings.TrimSpace(req.Status) != "" {
		flags = append(flags, s.statusFlag(req.Status))
	}

	dr, err := dateRange(req, now)
	if err != nil {
		return query.Config{}, err
	}

	sort, err := sortFor(req)
	if err != nil {
		return query.Config{}, err
	}

	size := req.PageSize
	if size <= 0 {
		size = s.settings.DefaultPageSize
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
	if err := cfg.Validate(); err != nil {
		return query.Config{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	return cfg, nil
}

// statusFlag keeps status changes whose target status groups with want.
func (s *Service) statusFlag(want string) query.Flag {
	target := status.Group(want)
	return query.Flag{Name: "status", Test: func(r record.Record) bool {
		if !strings.EqualFold(s.engine.Text(r, "type"), TypeStatusChange) {
			return false
		}
		return status.Group(s.engine.Text(r, "status_target")) == target
	}}
}

func dateRange(req Request, now time.Time) (query.DateRange, error) {
	dr := query.DateRange{Field: SortWhen}
	since := func(d time.Duration) *time.Time {
		t := now.Add(-d)
		return &t
	}
	rng := strings.ToLower(strings.TrimSpace(req.Range))
	bounded := strings.TrimSpace(req.From) != "" || strings.TrimSpace(req.To) != ""
	if bounded && rng == "" {
		rng = RangeCustom
	}
	if bounded && rng != RangeCustom {
		return query.DateRange{}, domain.NewInvalidParam("range", fmt.Sprintf("from and to need range custom, got %q", req.Range))
	}
	switch rng {
	case "", RangeAll:
	case Range24h:
		dr.Start = since(datetime.Day)
	case Range7d:
		dr.Start = since(7 * datetime.Day)
	case Range30d:
		dr.Start = since(30 * datetime.Day)
	case RangeCustom:
		if req.From != "" {
			from, ok := datetime.ParseText(req.From)
			if !ok {
				return query.DateRange{}, domain.NewInvalidParam("from", fmt.Sprintf("unrecognized date %q", req.From))
			}
			dr.Start = &from
		}
		if req.To != "" {
			to, ok := datetime.ParseText(req.To)
			if !ok {
				return query.DateRange{}, domain.NewInvalidParam("to", fmt.Sprintf("unrecognized date %q", req.To))
			}
			dr.End = &to
		}
	default:
		return query.DateRange{}, domain.NewInvalidParam("range", fmt.Sprintf("must be one of all, 24h, 7d, 30d, custom, got %q", req.Range))
	}
	return dr, nil
}

func sortFor(req Request) (query.Sort, error) {
	field := req.Sort
	if field == "" {
		field = SortWhen
	}
	switch field {
	case SortWhen, SortType, SortAssetType, SortActor:
	default:
		return query.Sort{}, fmt.Errorf("%w: %q", domain.ErrUnknownSortField, field)
	}
	dir, ok := direction.Parse(req.Direction, direction.Desc)
	if !ok {
		return query.Sort{}, domain.NewInvalidParam("dir", fmt.Sprintf("must be asc or desc, got %q", req.Direction))
	}
	return query.Sort{Field: field, Direction: dir, NullsLast: req.NullsLast}, nil
}
