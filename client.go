package assetq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/assetq/internal/db"
	dbRedis "github.com/kailas-cloud/assetq/internal/db/redis"
	"github.com/kailas-cloud/assetq/internal/domain/query/result"
	"github.com/kailas-cloud/assetq/internal/domain/record"
	domsnap "github.com/kailas-cloud/assetq/internal/domain/snapshot"
	snapshotrepo "github.com/kailas-cloud/assetq/internal/repository/snapshot"
	activityuc "github.com/kailas-cloud/assetq/internal/usecase/activity"
	assetsuc "github.com/kailas-cloud/assetq/internal/usecase/assets"
	certsuc "github.com/kailas-cloud/assetq/internal/usecase/certs"
	healthuc "github.com/kailas-cloud/assetq/internal/usecase/health"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, replaced in tests.
type assetsUseCase interface {
	Search(ctx context.Context, req assetsuc.Request) (result.Listing, error)
}

type activityUseCase interface {
	Feed(ctx context.Context, req activityuc.Request) (result.Listing, error)
}

type certsUseCase interface {
	List(ctx context.Context, req certsuc.Request) (result.Listing, error)
}

type snapshotStore interface {
	Save(ctx context.Context, s domsnap.Snapshot) (domsnap.Snapshot, error)
	Load(ctx context.Context, collection string) (domsnap.Snapshot, error)
	Delete(ctx context.Context, collection string) error
	List(ctx context.Context) ([]string, error)
}

// Client is the assetq entry point.
type Client struct {
	store       db.Store
	snapshots   snapshotStore
	assetsSvc   assetsUseCase
	activitySvc activityUseCase
	certsSvc    certsUseCase
	healthSvc   healthUseCase
	clock       func() time.Time
	obs         *observer
}

// New creates an assetq Client and connects to the snapshot store.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("assetq: database address required (use WithValkey or WithRedis)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("assetq: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	c, err := wireClient(store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

// createStore connects through rueidis. Valkey and Redis share the driver.
func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Username: cfg.username,
			Password: cfg.password,
			DB:       cfg.db,
		})
		if err != nil {
			return nil, fmt.Errorf("assetq: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("assetq: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	codec, err := snapshotrepo.NewCodec(cfg.codec)
	if err != nil {
		return nil, fmt.Errorf("assetq: %w", err)
	}
	repo := snapshotrepo.New(store, cfg.keyPrefix, codec).WithTTL(cfg.ttl)

	assetsSvc := assetsuc.New(repo,
		assetsuc.Settings{Collection: cfg.assets, Clock: cfg.clock},
		obs.engineOptions("assets")...)
	activitySvc := activityuc.New(repo,
		activityuc.Settings{Collections: cfg.events, Clock: cfg.clock},
		obs.engineOptions("activity")...)
	certsSvc := certsuc.New(repo,
		certsuc.Settings{Collection: cfg.documents, Clock: cfg.clock},
		obs.engineOptions("certs")...)
	healthSvc := healthuc.New(store, repo, cfg.collections()...)

	return &Client{
		store:       store,
		snapshots:   repo,
		assetsSvc:   assetsSvc,
		activitySvc: activitySvc,
		certsSvc:    certsSvc,
		healthSvc:   healthSvc,
		clock:       cfg.clock,
		obs:         obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Push replaces the snapshot of collection with records and returns the stored revision.
func (c *Client) Push(ctx context.Context, collection string, records []Record) (info SnapshotInfo, err error) {
	start := time.Now()
	defer func() { c.obs.observe("push", start, err) }()

	recs := make([]record.Record, len(records))
	for i, r := range records {
		recs[i] = record.Record(r)
	}
	snap, err := domsnap.New(collection, recs, c.clock())
	if err != nil {
		return SnapshotInfo{}, fmt.Errorf("push %s: %w", collection, err)
	}
	saved, err := c.snapshots.Save(ctx, snap)
	if err != nil {
		return SnapshotInfo{}, fmt.Errorf("push %s: %w", collection, err)
	}
	return snapshotInfo(saved), nil
}

// Drop deletes the snapshot of collection.
func (c *Client) Drop(ctx context.Context, collection string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("drop", start, err) }()

	if err = c.snapshots.Delete(ctx, collection); err != nil {
		return fmt.Errorf("drop %s: %w", collection, err)
	}
	return nil
}

// Collections describes every stored snapshot, sorted by name.
func (c *Client) Collections(ctx context.Context) (infos []SnapshotInfo, err error) {
	start := time.Now()
	defer func() { c.obs.observe("collections", start, err) }()

	names, err := c.snapshots.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	infos = make([]SnapshotInfo, 0, len(names))
	for _, name := range names {
		s, err := c.snapshots.Load(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
		infos = append(infos, snapshotInfo(s))
	}
	return infos, nil
}
