package search

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/novelsearch/internal/domain/search/item"
	"github.com/kailas-cloud/novelsearch/internal/logger"
)

// ErrNoFollowClient is returned by follow changes when no client is configured.
var ErrNoFollowClient = errors.New("follow client not configured")

// DefaultFollowBatchSize is the number of follow checks issued together.
const DefaultFollowBatchSize = 10

// FollowTracker keeps the set of users the viewer follows among the users
// seen in a session.
type FollowTracker struct {
	client    FollowClient
	batchSize int

	mu       sync.Mutex
	followed map[string]struct{}
}

// NewFollowTracker creates a tracker. batchSize <= 0 selects DefaultFollowBatchSize.
func NewFollowTracker(client FollowClient, batchSize int) *FollowTracker {
	if batchSize <= 0 {
		batchSize = DefaultFollowBatchSize
	}
	return &FollowTracker{
		client:    client,
		batchSize: batchSize,
		followed:  make(map[string]struct{}),
	}
}

// Check asks the platform whether the viewer follows each user. Batches run
// one after another; checks within a batch run concurrently. A failed check
// counts as not following.
func (f *FollowTracker) Check(ctx context.Context, users []item.Item) {
	if f.client == nil {
		return
	}
	log := logger.FromContext(ctx)

	for batch := range slices.Chunk(users, f.batchSize) {
		following := make([]bool, len(batch))

		var g errgroup.Group
		for i, u := range batch {
			id := u.ID()
			if id == "" {
				continue
			}
			g.Go(func() error {
				ok, err := f.client.IsFollowing(ctx, id)
				if err != nil {
					log.Debug("follow check failed", zap.String("user_id", id), zap.Error(err))
					return nil
				}
				following[i] = ok
				return nil
			})
		}
		_ = g.Wait()

		f.mu.Lock()
		for i, u := range batch {
			if following[i] {
				f.followed[u.ID()] = struct{}{}
			}
		}
		f.mu.Unlock()
	}
}

// Follow follows a user and records it on success.
func (f *FollowTracker) Follow(ctx context.Context, userID string) error {
	if f.client == nil {
		return ErrNoFollowClient
	}
	if err := f.client.Follow(ctx, userID); err != nil {
		return err
	}
	f.mu.Lock()
	f.followed[userID] = struct{}{}
	f.mu.Unlock()
	return nil
}

// Unfollow unfollows a user and records it on success.
func (f *FollowTracker) Unfollow(ctx context.Context, userID string) error {
	if f.client == nil {
		return ErrNoFollowClient
	}
	if err := f.client.Unfollow(ctx, userID); err != nil {
		return err
	}
	f.mu.Lock()
	delete(f.followed, userID)
	f.mu.Unlock()
	return nil
}

// IsFollowed reports whether userID is known to be followed.
func (f *FollowTracker) IsFollowed(userID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.followed[userID]
	return ok
}

// Followed returns the followed user IDs in sorted order.
func (f *FollowTracker) Followed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.followed))
	for id := range f.followed {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
