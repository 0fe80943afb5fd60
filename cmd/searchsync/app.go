package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchsync"
	"github.com/kailas-cloud/searchsync/internal/catalog"
	"github.com/kailas-cloud/searchsync/internal/config"
	dbRedis "github.com/kailas-cloud/searchsync/internal/db/redis"
	logpkg "github.com/kailas-cloud/searchsync/internal/logger"
	"github.com/kailas-cloud/searchsync/internal/version"
	"github.com/kailas-cloud/searchsync/store/postgres"
)

// app is the composition root shared by every command.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	metrics *prometheus.Registry
	pool    *pgxpool.Pool
	cache   *dbRedis.Store
	catalog *catalog.Catalog
	store   *postgres.Store
	backend *searchsync.Backend
	closers []func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(envName)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	logger, err := logpkg.New(logpkg.Options{Env: envName, Level: level})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, metrics: prometheus.NewRegistry()}
	a.metrics.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	logger.Info("Starting searchsync",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", envName),
		zap.String("engine", cfg.Backend.Engine),
		zap.String("index", cfg.Backend.IndexName),
		zap.Int("types", len(cfg.Types)),
	)

	if err := a.wire(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context) error {
	cat, err := catalog.Build(a.cfg.Types)
	if err != nil {
		return fmt.Errorf("build types: %w", err)
	}
	a.catalog = cat

	readiness := time.Duration(a.cfg.Database.ReadinessTimeout) * time.Second
	dbCtx, cancel := context.WithTimeout(ctx, readiness)
	defer cancel()

	a.pool, err = postgres.NewPool(dbCtx, a.cfg.Database.DSN, postgres.PoolConfig{
		MaxConns: a.cfg.Database.MaxConns,
		MinConns: a.cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	a.closers = append(a.closers, a.pool.Close)
	a.logger.Info("Connected to database")

	a.store, err = postgres.New(a.pool, cat.Tables...)
	if err != nil {
		return fmt.Errorf("create object store: %w", err)
	}

	opts := []searchsync.Option{
		searchsync.WithIndexName(a.cfg.Backend.IndexName),
		searchsync.WithIndexSettings(a.cfg.Backend.IndexSettings),
		searchsync.WithRegistry(cat.Registry),
		searchsync.WithObjectStore(a.store),
		searchsync.WithLogger(a.logger),
		searchsync.WithPrometheus(a.metrics),
	}
	switch a.cfg.Backend.Engine {
	case config.EngineMeilisearch:
		opts = append(opts, searchsync.WithMeilisearch(a.cfg.Backend.Meilisearch.Host, a.cfg.Backend.Meilisearch.APIKey))
	default:
		opts = append(opts, searchsync.WithAlgolia(a.cfg.Backend.ApplicationID, a.cfg.Backend.AdminAPIKey))
	}

	if a.cfg.Cache.Enabled() {
		a.cache, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:      a.cfg.Cache.Addrs,
			Password:   a.cfg.Cache.Password,
			Standalone: a.cfg.Cache.Standalone,
		})
		if err != nil {
			return fmt.Errorf("create %s cache: %w", a.cfg.Cache.Driver, err)
		}
		a.closers = append(a.closers, a.cache.Close)
		if err := a.cache.WaitForReady(ctx, readiness); err != nil {
			return fmt.Errorf("%s cache not ready: %w", a.cfg.Cache.Driver, err)
		}
		a.logger.Info("Connected to hit cache",
			zap.String("driver", a.cfg.Cache.Driver),
			zap.Strings("addrs", a.cfg.Cache.Addrs),
		)
		opts = append(opts, searchsync.WithHitCache(a.cache, time.Duration(a.cfg.Cache.TTLSec)*time.Second))
	}

	a.backend, err = searchsync.New(opts...)
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}
	return nil
}

// Reindex rebuilds the index from the object store.
func (a *app) Reindex(ctx context.Context) (int, error) {
	return a.backend.Rebuild(ctx, a.store)
}

// Close releases connections in reverse order and flushes the logger.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	_ = a.logger.Sync()
}
