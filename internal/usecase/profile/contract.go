package profile

import (
	"context"
	"encoding/json"

	"github.com/kailas-cloud/novelsearch/internal/domain/cached"
)

// Client reads per-user statistics from the platform API.
type Client interface {
	UserStats(ctx context.Context, userID string) (json.RawMessage, error)
	UserActivity(ctx context.Context, userID string) (json.RawMessage, error)
}

// Cache stores timestamped values. Lookups that fail read as misses.
type Cache interface {
	Get(ctx context.Context, key string) (cached.Entry, bool)
	Set(ctx context.Context, key string, value any)
	Observe(result string)
}
