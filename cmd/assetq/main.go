package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/assetq/internal/config"
	dbRedis "github.com/kailas-cloud/assetq/internal/db/redis"
	"github.com/kailas-cloud/assetq/internal/engine"
	logpkg "github.com/kailas-cloud/assetq/internal/logger"
	"github.com/kailas-cloud/assetq/internal/metrics"
	snapshotrepo "github.com/kailas-cloud/assetq/internal/repository/snapshot"
	chiTransport "github.com/kailas-cloud/assetq/internal/transport/chi"
	activityuc "github.com/kailas-cloud/assetq/internal/usecase/activity"
	assetsuc "github.com/kailas-cloud/assetq/internal/usecase/assets"
	certsuc "github.com/kailas-cloud/assetq/internal/usecase/certs"
	healthuc "github.com/kailas-cloud/assetq/internal/usecase/health"
	"github.com/kailas-cloud/assetq/internal/usecase/source"
	"github.com/kailas-cloud/assetq/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting assetq API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("codec", cfg.Storage.Codec),
	)

	// Valkey and Redis share the rueidis store.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterQueryMetrics()

	codec, err := snapshotrepo.NewCodec(cfg.Storage.Codec)
	if err != nil {
		logger.Fatal("Invalid snapshot codec", zap.Error(err))
	}
	repo := snapshotrepo.New(store, cfg.Storage.KeyPrefix, codec).
		WithTTL(time.Duration(cfg.Storage.TTLSec) * time.Second)
	src := source.NewInstrumented(repo)

	assetSvc := assetsuc.New(src, assetsuc.Settings{
		Collection:      cfg.Collections.Assets,
		DefaultPageSize: cfg.Query.DefaultPageSize,
		MaxPageSize:     cfg.Query.MaxPageSize,
		DueSoonDays:     cfg.Query.DueSoonDays,
	}, engine.WithObserver(metrics.QueryObserver{Surface: "assets"}))
	activitySvc := activityuc.New(src, activityuc.Settings{
		Collections:     cfg.Collections.Events,
		DefaultPageSize: cfg.Query.DefaultPageSize,
		MaxPageSize:     cfg.Query.MaxPageSize,
	}, engine.WithObserver(metrics.QueryObserver{Surface: "activity"}))
	certSvc := certsuc.New(src, certsuc.Settings{
		Collection:       cfg.Collections.Documents,
		MaxPageSize:      cfg.Query.MaxPageSize,
		ExpiringSoonDays: cfg.Query.ExpiringSoonDays,
	}, engine.WithObserver(metrics.QueryObserver{Surface: "certs"}))
	healthSvc := healthuc.New(store, repo, cfg.Collections.All()...)

	server := chiTransport.NewServer(assetSvc, activitySvc, certSvc, healthSvc, logger)
	router := chiTransport.NewRouter(server, logger, cfg.Auth.APIKeys, metrics.Middleware())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.HTTP.IdleTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
