package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/novelsearch/internal/config"
	"github.com/kailas-cloud/novelsearch/internal/db"
	"github.com/kailas-cloud/novelsearch/internal/db/memory"
	dbRedis "github.com/kailas-cloud/novelsearch/internal/db/redis"
	"github.com/kailas-cloud/novelsearch/internal/domain/cached"
	logpkg "github.com/kailas-cloud/novelsearch/internal/logger"
	"github.com/kailas-cloud/novelsearch/internal/metrics"
	"github.com/kailas-cloud/novelsearch/internal/repository/cache"
	"github.com/kailas-cloud/novelsearch/internal/transport/api"
	chiTransport "github.com/kailas-cloud/novelsearch/internal/transport/chi"
	contestuc "github.com/kailas-cloud/novelsearch/internal/usecase/contest"
	healthuc "github.com/kailas-cloud/novelsearch/internal/usecase/health"
	profileuc "github.com/kailas-cloud/novelsearch/internal/usecase/profile"
	searchuc "github.com/kailas-cloud/novelsearch/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/novelsearch/internal/usecase/session"
	"github.com/kailas-cloud/novelsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
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

	logger.Info("Starting novelsearch BFF",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	store, err := newStore(cfg.Cache)
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Cache store not ready", zap.Error(err))
	}
	logger.Info("Connected to cache store")

	// Register metrics explicitly (no init())
	metrics.RegisterDomainMetrics()
	metrics.RegisterHTTPMetrics()

	platform, err := api.New(&api.Config{
		BaseURL:    cfg.Upstream.BaseURL,
		Timeout:    time.Duration(cfg.Upstream.TimeoutSec) * time.Second,
		HealthPath: cfg.Upstream.HealthPath,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("Failed to create platform client", zap.Error(err))
	}

	ctrlCfg := searchuc.Config{
		ChunkSize:       cfg.Upstream.ChunkSize,
		FollowBatchSize: cfg.Upstream.FollowBatchSize,
		RecentLimit:     cfg.Session.RecentLimit,
	}
	sessions := sessionuc.New(func() *searchuc.Controller {
		return searchuc.NewController(platform, platform, ctrlCfg)
	}, time.Duration(cfg.Session.IdleTimeoutSec)*time.Second, metrics.SessionObserver{})

	if err := sessions.StartEviction(ctx, cfg.Session.EvictionSchedule, logger); err != nil {
		logger.Fatal("Failed to schedule session eviction", zap.Error(err))
	}

	statsTTL := time.Duration(cfg.Cache.StatsTTLSec) * time.Second
	statsCache := cache.New("stats", store, 2*statsTTL, metrics.CacheTotal, logger)
	profiles := profileuc.New(platform, statsCache, cached.FixedTTL(statsTTL))

	var contestPolicy cached.TTLPolicy = cached.Forever{}
	contestTTL := time.Duration(cfg.Cache.ContestTTLSec) * time.Second
	if contestTTL > 0 {
		contestPolicy = cached.FixedTTL(contestTTL)
	}
	contestCache := cache.New("contests", store, contestTTL, metrics.CacheTotal, logger)
	contests := contestuc.New(platform, contestCache, contestPolicy)

	health := healthuc.New(store, platform)

	server := chiTransport.NewServer(sessions, profiles, contests, health, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(chiTransport.RouterOptions{CORSOrigins: cfg.HTTP.CORSOrigins}),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// newStore creates the cache store for the configured driver. Valkey speaks
// the Redis protocol and shares the rueidis store.
func newStore(cfg config.CacheConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverRedis, config.DriverValkey:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("%s store: %w", cfg.Driver, err)
		}
		return s, nil
	case config.DriverMemory:
		return memory.NewStore(time.Duration(cfg.CleanupSec) * time.Second), nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}
