package app

import (
	"context"
	"fmt"
	"net/http"
	"os"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-metrics/internal/config"
	"github.com/riskibarqy/match-metrics/internal/domain/match"
	"github.com/riskibarqy/match-metrics/internal/filter"
	rediscache "github.com/riskibarqy/match-metrics/internal/infrastructure/cache/redis"
	snapshotcache "github.com/riskibarqy/match-metrics/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/match-metrics/internal/infrastructure/repository/file"
	"github.com/riskibarqy/match-metrics/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-metrics/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/match-metrics/internal/interfaces/httpapi"
	"github.com/riskibarqy/match-metrics/internal/platform/cache"
	"github.com/riskibarqy/match-metrics/internal/platform/logging"
	"github.com/riskibarqy/match-metrics/internal/platform/resilience"
	"github.com/riskibarqy/match-metrics/internal/usecase"
)

// Container holds the wired services shared by the HTTP server and the CLI.
type Container struct {
	Reader  match.SnapshotReader
	Metrics *usecase.MetricsService
	H2H     *usecase.H2HService
	Cache   *usecase.CacheService
	Warmup  *usecase.WarmupService

	closers []func() error
}

// Build wires the snapshot reader, the result cache and the query services.
func Build(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}

	c := &Container{}
	reader, closeReader, err := NewSnapshotReader(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, closeReader)
	c.Reader = reader

	backend, closeCache, err := NewResultCache(ctx, cfg, logger)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.closers = append(c.closers, closeCache)

	factory := filter.NewFactory(cfg.MatchLocation, logger)
	policy := usecase.NewTTLPolicy(cfg.CacheTTL, cfg.CacheH2HTTL)
	opts := usecase.MetricsOptions{Thresholds: cfg.MetricsGoalThresholds}

	c.Metrics = usecase.NewMetricsService(reader, factory, backend, policy, opts, logger)
	c.H2H = c.Metrics.H2H()
	c.Cache = usecase.NewCacheService(backend, logger)
	c.Warmup = usecase.NewWarmupService(c.Metrics, usecase.WarmupOptions{
		LeagueIDs: cfg.WarmupLeagueIDs,
		Season:    cfg.WarmupSeason,
		Workers:   cfg.WarmupWorkers,
	}, logger)

	return c, nil
}

// Close releases the store and cache connections in reverse order.
func (c *Container) Close() error {
	var errs error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = crerr.CombineErrors(errs, err)
		}
	}
	c.closers = nil
	return errs
}

func NewHTTPServer(cfg config.Config, c *Container, logger *logging.Logger) (*http.Server, error) {
	handler := httpapi.NewHandler(c.Metrics, c.H2H, c.Cache, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// NewSnapshotReader builds the configured store reader behind the snapshot
// TTL cache.
func NewSnapshotReader(ctx context.Context, cfg config.Config, logger *logging.Logger) (match.SnapshotReader, func() error, error) {
	noop := func() error { return nil }

	var (
		reader match.SnapshotReader
		closer = noop
	)
	switch cfg.SnapshotSource {
	case config.SnapshotSourcePostgres:
		db, err := OpenDB(ctx, cfg.DBURL, cfg.DBDisablePreparedBinary)
		if err != nil {
			return nil, nil, err
		}
		breaker := resilience.NewBreaker(cfg.StoreCircuitBreaker(), logger)
		reader = postgres.NewSnapshotRepository(db, breaker, cfg.SnapshotDecodeWorkers, logger)
		closer = db.Close
	case config.SnapshotSourceFile:
		reader = file.NewSnapshotRepository(cfg.SnapshotFile, logger)
	case config.SnapshotSourceMemory:
		tree := make(match.Tree)
		if cfg.SnapshotFile != "" {
			raw, err := os.ReadFile(cfg.SnapshotFile)
			if err != nil {
				return nil, nil, crerr.Wrapf(err, "read snapshot seed %s", cfg.SnapshotFile)
			}
			if tree, err = file.DecodeExport(raw, logger); err != nil {
				return nil, nil, crerr.Wrapf(err, "decode snapshot seed %s", cfg.SnapshotFile)
			}
		}
		reader = memory.NewSnapshotRepository(tree)
	default:
		return nil, nil, fmt.Errorf("unsupported snapshot source %q", cfg.SnapshotSource)
	}

	logger.Info("snapshot reader ready", "source", cfg.SnapshotSource, "snapshot_cache_ttl", cfg.SnapshotCacheTTL.String())
	if cfg.SnapshotCacheTTL <= 0 || cfg.SnapshotSource == config.SnapshotSourceMemory {
		return reader, closer, nil
	}
	return snapshotcache.NewSnapshotRepository(reader, cfg.SnapshotCacheTTL), closer, nil
}

// NewResultCache returns a nil backend when caching is disabled.
func NewResultCache(ctx context.Context, cfg config.Config, logger *logging.Logger) (usecase.ResultCache, func() error, error) {
	noop := func() error { return nil }
	if !cfg.CacheEnabled {
		logger.Info("result cache disabled", "reason", "CACHE_ENABLED=false")
		return nil, noop, nil
	}

	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		backend, err := rediscache.Dial(ctx, rediscache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, crerr.Mark(err, usecase.ErrDependencyUnavailable)
		}
		logger.Info("result cache ready", "backend", config.CacheBackendRedis, "addr", cfg.RedisAddr)
		return backend, backend.Close, nil
	default:
		logger.Info("result cache ready", "backend", config.CacheBackendMemory, "ttl", cfg.CacheTTL.String())
		return cache.NewStore(cfg.CacheTTL), noop, nil
	}
}
