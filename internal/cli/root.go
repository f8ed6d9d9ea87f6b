// Package cli implements assetqctl, the command line client for snapshot files and the
// snapshot store.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/kailas-cloud/assetq/internal/config"
	"github.com/kailas-cloud/assetq/internal/db"
	dbRedis "github.com/kailas-cloud/assetq/internal/db/redis"
	logpkg "github.com/kailas-cloud/assetq/internal/logger"
	snapshotrepo "github.com/kailas-cloud/assetq/internal/repository/snapshot"
)

// Output formats.
const (
	OutputAuto  = "auto"
	OutputTable = "table"
	OutputJSON  = "json"
)

// Store is the snapshot store the management commands write to.
type Store interface {
	db.KVStore
	Close()
}

// Option customizes the command tree.
type Option func(*app)

// WithConfigLoader replaces config.Load.
func WithConfigLoader(fn func(env string) (config.Config, error)) Option {
	return func(a *app) { a.loadConfig = fn }
}

// WithStoreOpener replaces the rueidis connection used by push, collections and drop.
func WithStoreOpener(fn func(ctx context.Context, cfg config.DatabaseConfig) (Store, error)) Option {
	return func(a *app) { a.openStore = fn }
}

// WithClock fixes the time used for relative date rules and humanized output.
func WithClock(fn func() time.Time) Option {
	return func(a *app) { a.clock = fn }
}

// WithTerminal overrides terminal detection for the auto output format.
func WithTerminal(fn func(w io.Writer) bool) Option {
	return func(a *app) { a.isTerminal = fn }
}

type app struct {
	env     string
	output  string
	verbose bool

	loadConfig func(env string) (config.Config, error)
	openStore  func(ctx context.Context, cfg config.DatabaseConfig) (Store, error)
	clock      func() time.Time
	isTerminal func(w io.Writer) bool
}

// NewRootCmd builds a fresh assetqctl command tree.
func NewRootCmd(opts ...Option) *cobra.Command {
	a := &app{
		loadConfig: config.Load,
		openStore:  openStore,
		clock:      time.Now,
		isTerminal: isTerminal,
	}
	for _, o := range opts {
		o(a)
	}

	root := &cobra.Command{
		Use:   "assetqctl",
		Short: "Query and manage assetq record snapshots",
		Long: `assetqctl runs asset, activity and document queries against snapshot files
and pushes snapshots to the store the assetq server reads from.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&a.env, "env", "e", config.GetEnv(), "config environment (config/<env>.yaml)")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", OutputAuto, "output format: auto, table, json")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug details to stderr")

	root.AddCommand(
		a.newQueryCmd(),
		a.newWatchCmd(),
		a.newPushCmd(),
		a.newCollectionsCmd(),
		a.newDropCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs assetqctl with os.Args.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commandContext returns the command context carrying a stderr logger.
func (a *app) commandContext(cmd *cobra.Command) context.Context {
	level := "warn"
	if a.verbose {
		level = "debug"
	}
	logger, err := logpkg.NewLogger(a.env, level)
	if err != nil {
		logger = zap.NewNop()
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logpkg.ContextWithLogger(ctx, logger)
}

// repo connects to the configured store. The returned func closes the connection.
func (a *app) repo(ctx context.Context, codecName string) (*snapshotrepo.Repo, config.Config, func(), error) {
	cfg, err := a.loadConfig(a.env)
	if err != nil {
		return nil, config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	if codecName == "" {
		codecName = cfg.Storage.Codec
	}
	codec, err := snapshotrepo.NewCodec(codecName)
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	store, err := a.openStore(ctx, cfg.Database)
	if err != nil {
		return nil, config.Config{}, nil, fmt.Errorf("connect store: %w", err)
	}
	repo := snapshotrepo.New(store, cfg.Storage.KeyPrefix, codec).
		WithTTL(time.Duration(cfg.Storage.TTLSec) * time.Second)
	return repo, cfg, store.Close, nil
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		return nil, err
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
