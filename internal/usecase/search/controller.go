package search

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/novelsearch/internal/domain"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/content"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/item"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/page"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/query"
	"github.com/kailas-cloud/novelsearch/internal/logger"
)

// Config tunes a Controller. Zero values select the defaults.
type Config struct {
	ChunkSize       int
	FollowBatchSize int
	RecentLimit     int
}

// Controller owns one search session: the current query, the accumulated
// results and the follow state of listed users. It is safe for concurrent
// use; no lock is held during network calls.
type Controller struct {
	loader  *Loader
	follows *FollowTracker
	recent  *RecentSearches

	mu      sync.Mutex
	query   query.SearchQuery
	started bool
	lastErr string
}

// NewController creates a controller with no active query.
func NewController(fetch Fetcher, follows FollowClient, cfg Config) *Controller {
	return &Controller{
		loader:  NewLoader(fetch, cfg.ChunkSize),
		follows: NewFollowTracker(follows, cfg.FollowBatchSize),
		recent:  NewRecentSearches(cfg.RecentLimit),
		query:   query.Default(),
	}
}

// Apply makes q the current query. A change of any identity-defining field
// starts a new session; other changes reuse the accumulated results. The
// first chunk is loaded if needed and further chunks are loaded until the
// requested page is covered or the upstream is exhausted.
func (c *Controller) Apply(ctx context.Context, q query.SearchQuery) View {
	c.mu.Lock()
	if !c.started || c.query.Identity() != q.Identity() {
		c.loader.Reset(q)
		c.lastErr = ""
		c.recent.Add(q.MustInclude)
	}
	c.query = q.Clone()
	c.started = true
	c.mu.Unlock()

	c.ensureLoaded(ctx)
	c.backfill(ctx)
	return c.View()
}

// Dispatch applies a user command and returns the resulting view together
// with the URL navigation the client should perform.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) (Navigation, View, error) {
	cur := c.Query()
	next, change, err := applyCommand(cur, cmd)
	if err != nil {
		return Navigation{}, View{}, err
	}
	nav := Navigation{Search: "?" + query.Serialize(next), Mode: mode.For(change)}

	if cmd.Type == CmdReload {
		return nav, c.Reload(ctx), nil
	}
	return nav, c.Apply(ctx, next), nil
}

// LoadMore fetches one more chunk. It is a no-op when no session is active,
// the upstream is exhausted or a fetch is already in flight.
func (c *Controller) LoadMore(ctx context.Context) View {
	c.loadMore(ctx)
	return c.View()
}

// Reload discards the session and fetches the current query again.
func (c *Controller) Reload(ctx context.Context) View {
	c.mu.Lock()
	q := c.query.Clone()
	c.loader.Reset(q)
	c.lastErr = ""
	c.started = true
	c.mu.Unlock()

	c.ensureLoaded(ctx)
	c.backfill(ctx)
	return c.View()
}

// Follow follows a listed user.
func (c *Controller) Follow(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrInvalidQuery
	}
	return c.follows.Follow(ctx, userID)
}

// Unfollow unfollows a listed user.
func (c *Controller) Unfollow(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrInvalidQuery
	}
	return c.follows.Unfollow(ctx, userID)
}

// Recent returns the latest search terms of the session, newest first.
func (c *Controller) Recent() []string { return c.recent.List() }

// Query returns a copy of the current query.
func (c *Controller) Query() query.SearchQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query.Clone()
}

// View derives the current page view.
func (c *Controller) View() View {
	c.mu.Lock()
	q := c.query.Clone()
	errMsg := c.lastErr
	c.mu.Unlock()

	return buildView(q, c.loader.Snapshot(), errMsg, c.follows.Followed())
}

func (c *Controller) ensureLoaded(ctx context.Context) {
	items, fetched, err := c.loader.Load(ctx)
	if fetched {
		c.afterFetch(ctx, items, err)
	}
}

func (c *Controller) loadMore(ctx context.Context) bool {
	items, fetched, err := c.loader.LoadMore(ctx)
	if fetched {
		c.afterFetch(ctx, items, err)
	}
	return len(items) > 0
}

// backfill loads chunks until the current page lies within the filtered
// results or nothing more can be loaded.
func (c *Controller) backfill(ctx context.Context) {
	for {
		q := c.Query()
		snap := c.loader.Snapshot()
		if !snap.Loaded || !snap.State.HasMore {
			return
		}
		items, _ := narrowed(snap.Set, q)
		if _, to := page.Bounds(q.Page, q.Size); to <= len(items) {
			return
		}
		if !c.loadMore(ctx) {
			return
		}
	}
}

func (c *Controller) afterFetch(ctx context.Context, items []item.Item, err error) {
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.FromContext(ctx).Warn("search fetch failed", zap.Error(err))
		c.mu.Lock()
		c.lastErr = err.Error()
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	c.lastErr = ""
	isUsers := c.query.Type == content.Users
	c.mu.Unlock()

	if isUsers && len(items) > 0 {
		c.follows.Check(ctx, items)
	}
}
