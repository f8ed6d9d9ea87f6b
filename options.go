package assetq

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "valkey" or "redis"
	addrs    []string
	username string
	password string
	db       int

	keyPrefix        string
	codec            string
	ttl              time.Duration
	readinessTimeout time.Duration

	assets    string
	events    []string
	documents string

	clock      func() time.Time
	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		codec:            "json",
		readinessTimeout: defaultReadinessTimeout,
		assets:           "assets",
		events:           []string{"asset_actions", "asset_types", "asset_deletions"},
		documents:        "asset_documents",
		clock:            time.Now,
	}
}

func (c *clientConfig) collections() []string {
	all := make([]string, 0, len(c.events)+2)
	all = append(all, c.assets)
	all = append(all, c.events...)
	return append(all, c.documents)
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithUsername sets the ACL user for WithValkey and WithRedis.
func WithUsername(username string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
	})
}

// WithDB selects the logical database.
func WithDB(db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.db = db
	})
}

// WithKeyPrefix namespaces snapshot keys. Must match the server's storage.key_prefix.
// Default: "assetq:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithCodec selects the encoding Push writes: "json" (default) or "packed".
// Reads accept either.
func WithCodec(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.codec = name
	})
}

// WithSnapshotTTL expires pushed snapshots after ttl. Zero keeps them until replaced.
func WithSnapshotTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.ttl = ttl
	})
}

// WithReadinessTimeout bounds the wait for the store in New. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithCollections overrides the snapshot names behind the three query surfaces.
// Empty values keep the defaults.
func WithCollections(assets string, events []string, documents string) Option {
	return optionFunc(func(c *clientConfig) {
		if assets != "" {
			c.assets = assets
		}
		if len(events) > 0 {
			c.events = events
		}
		if documents != "" {
			c.documents = documents
		}
	})
}

// WithClock fixes the time used for relative dates, badges and pushed snapshots.
func WithClock(now func() time.Time) Option {
	return optionFunc(func(c *clientConfig) {
		c.clock = now
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts, durations and
// result sizes) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
