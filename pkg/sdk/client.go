package novelsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/novelsearch/internal/db"
	"github.com/kailas-cloud/novelsearch/internal/db/memory"
	dbRedis "github.com/kailas-cloud/novelsearch/internal/db/redis"
	"github.com/kailas-cloud/novelsearch/internal/domain/cached"
	"github.com/kailas-cloud/novelsearch/internal/repository/cache"
	"github.com/kailas-cloud/novelsearch/internal/transport/api"
	contestuc "github.com/kailas-cloud/novelsearch/internal/usecase/contest"
	healthuc "github.com/kailas-cloud/novelsearch/internal/usecase/health"
	profileuc "github.com/kailas-cloud/novelsearch/internal/usecase/profile"
	searchuc "github.com/kailas-cloud/novelsearch/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCleanupInterval  = time.Minute
)

// Internal interfaces, substituted in tests.
type profileUseCase interface {
	Stats(ctx context.Context, userID string) (json.RawMessage, error)
	Activity(ctx context.Context, userID string) (json.RawMessage, error)
}

type contestUseCase interface {
	ByTag(ctx context.Context, tag string) (json.RawMessage, error)
}

// Client is the novelsearch SDK entry point.
type Client struct {
	store      db.Store
	platform   *api.Client
	creds      api.Credentials
	ctrlCfg    searchuc.Config
	profileSvc profileUseCase
	contestSvc contestUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New creates a Client. The provided context is used for the readiness
// check of the cache store.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{driver: "memory"}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.baseURL == "" {
		return nil, errors.New("novelsearch: platform url required (use WithPlatform)")
	}

	platform, err := api.New(&api.Config{
		BaseURL:    cfg.baseURL,
		Timeout:    cfg.timeout,
		HTTPClient: cfg.httpClient,
		Logger:     zap.NewNop(),
	})
	if err != nil {
		return nil, fmt.Errorf("novelsearch: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("novelsearch: cache not ready: %w", err)
	}

	return wireClient(store, platform, cfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "memory":
		return memory.NewStore(defaultCleanupInterval), nil
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("novelsearch: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("novelsearch: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, platform *api.Client, cfg *clientConfig, obs *observer) *Client {
	statsTTL := cfg.statsTTL
	if statsTTL <= 0 {
		statsTTL = profileuc.DefaultTTL
	}
	statsCache := cache.New("stats", store, 2*statsTTL, nil, zap.NewNop())

	var contestPolicy cached.TTLPolicy = cached.Forever{}
	if cfg.contestTTL > 0 {
		contestPolicy = cached.FixedTTL(cfg.contestTTL)
	}
	contestCache := cache.New("contests", store, cfg.contestTTL, nil, zap.NewNop())

	return &Client{
		store:    store,
		platform: platform,
		creds: api.Credentials{
			Cookie:        cfg.cookie,
			Authorization: cfg.authorization,
		},
		ctrlCfg: searchuc.Config{
			ChunkSize:       cfg.chunkSize,
			FollowBatchSize: cfg.followBatchSize,
		},
		profileSvc: profileuc.New(platform, statsCache, cached.FixedTTL(statsTTL)),
		contestSvc: contestuc.New(platform, contestCache, contestPolicy),
		healthSvc:  healthuc.New(store, platform),
		obs:        obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks cache store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// NewSession starts an empty search session.
func (c *Client) NewSession() *Session {
	return &Session{
		ctrl:  searchuc.NewController(c.platform, c.platform, c.ctrlCfg),
		creds: c.creds,
		obs:   c.obs,
	}
}

// UserStats returns the aggregate stats of a user, cached for the stats TTL.
func (c *Client) UserStats(ctx context.Context, userID string) (_ json.RawMessage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("user_stats", start, err) }()

	raw, err := c.profileSvc.Stats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	return raw, nil
}

// UserActivity returns the recent activity of a user, cached for the stats TTL.
func (c *Client) UserActivity(ctx context.Context, userID string) (_ json.RawMessage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("user_activity", start, err) }()

	raw, err := c.profileSvc.Activity(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user activity: %w", err)
	}
	return raw, nil
}

// ContestsByTag returns the contests using a tag.
func (c *Client) ContestsByTag(ctx context.Context, tag string) (_ json.RawMessage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("contests_by_tag", start, err) }()

	raw, err := c.contestSvc.ByTag(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("contests by tag: %w", err)
	}
	return raw, nil
}
