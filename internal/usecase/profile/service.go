// Package profile serves user statistics and activity through a TTL cache.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/novelsearch/internal/domain/cached"
	"github.com/kailas-cloud/novelsearch/internal/logger"
)

// DefaultTTL is how long fetched stats are served from cache.
const DefaultTTL = 5 * time.Minute

// Cache lookup outcomes.
const (
	ResultHit     = "hit"
	ResultMiss    = "miss"
	ResultExpired = "expired"
)

// Service reads user stats and activity, cache first.
type Service struct {
	client Client
	cache  Cache
	policy cached.TTLPolicy
	now    func() time.Time
}

// New creates a Service. A nil policy means DefaultTTL.
func New(client Client, cache Cache, policy cached.TTLPolicy) *Service {
	if policy == nil {
		policy = cached.FixedTTL(DefaultTTL)
	}
	return &Service{client: client, cache: cache, policy: policy, now: time.Now}
}

// Stats returns the statistics of a user.
func (s *Service) Stats(ctx context.Context, userID string) (json.RawMessage, error) {
	return s.lookup(ctx, StatsKey(userID), func(ctx context.Context) (json.RawMessage, error) {
		return s.client.UserStats(ctx, userID)
	})
}

// Activity returns the recent activity of a user.
func (s *Service) Activity(ctx context.Context, userID string) (json.RawMessage, error) {
	return s.lookup(ctx, ActivityKey(userID), func(ctx context.Context) (json.RawMessage, error) {
		return s.client.UserActivity(ctx, userID)
	})
}

// StatsKey is the cache key of a user's statistics.
func StatsKey(userID string) string { return "user_stats_" + userID }

// ActivityKey is the cache key of a user's activity.
func ActivityKey(userID string) string { return "user_activity_" + userID }

func (s *Service) lookup(
	ctx context.Context,
	key string,
	load func(context.Context) (json.RawMessage, error),
) (json.RawMessage, error) {
	if e, ok := s.cache.Get(ctx, key); ok {
		if s.policy.Fresh(e, s.now()) {
			s.cache.Observe(ResultHit)
			return e.Value, nil
		}
		s.cache.Observe(ResultExpired)
	} else {
		s.cache.Observe(ResultMiss)
	}

	v, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if !json.Valid(v) {
		logger.FromContext(ctx).Warn("upstream returned invalid JSON", zap.String("key", key))
		return nil, fmt.Errorf("load %s: invalid JSON body", key)
	}
	s.cache.Set(ctx, key, v)
	return v, nil
}
