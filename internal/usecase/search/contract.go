package search

import (
	"context"

	"github.com/kailas-cloud/novelsearch/internal/domain/search/request"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/result"
)

// Fetcher runs one chunk request against the platform search API.
type Fetcher interface {
	Search(ctx context.Context, req *request.Request) (result.Chunk, error)
}

// FollowClient reads and changes follow relationships of the current viewer.
// Credentials travel in ctx.
type FollowClient interface {
	IsFollowing(ctx context.Context, userID string) (bool, error)
	Follow(ctx context.Context, userID string) error
	Unfollow(ctx context.Context, userID string) error
}
