package contest

import (
	"context"
	"encoding/json"

	"github.com/kailas-cloud/novelsearch/internal/domain/cached"
)

// Client reads contest previews from the platform API.
type Client interface {
	ContestsByTag(ctx context.Context, tag string) (json.RawMessage, error)
}

// Cache stores timestamped values. Lookups that fail read as misses.
type Cache interface {
	Get(ctx context.Context, key string) (cached.Entry, bool)
	Set(ctx context.Context, key string, value any)
	Observe(result string)
}
