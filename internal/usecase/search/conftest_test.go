package search

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/kailas-cloud/novelsearch/internal/domain"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/item"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/request"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/result"
)

// --- Fetcher ---

type fakeFetcher struct {
	mu     sync.Mutex
	chunks [][]item.Item // indexed by chunk-1
	total  int
	errAt  map[int]error
	calls  []string // request URLs in call order

	// When non-nil, Search signals started and waits on release before returning.
	started chan int
	release chan struct{}
}

func (f *fakeFetcher) Search(_ context.Context, req *request.Request) (result.Chunk, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req.URL())
	started, release := f.started, f.release
	f.mu.Unlock()

	if started != nil {
		started <- req.Chunk()
		<-release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errAt[req.Chunk()]; err != nil {
		return result.Chunk{}, err
	}
	idx := req.Chunk() - 1
	if idx >= len(f.chunks) {
		return result.Chunk{Total: f.total}, nil
	}
	return result.Chunk{Items: f.chunks[idx], Total: f.total}, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// makeItems builds n items with ids from..from+n-1 and viewCounter = id+1.
func makeItems(from, n int) []item.Item {
	out := make([]item.Item, 0, n)
	for i := from; i < from+n; i++ {
		out = append(out, item.Item{
			"_id":         "p" + strconv.Itoa(i),
			"viewCounter": float64(i + 1),
			"createdAt":   "2024-01-01T00:00:00.000Z",
			"tags":        []any{"t" + strconv.Itoa(i%3)},
		})
	}
	return out
}

// chunked splits n generated items into chunks of the given sizes.
func chunked(sizes ...int) [][]item.Item {
	var out [][]item.Item
	from := 0
	for _, n := range sizes {
		out = append(out, makeItems(from, n))
		from += n
	}
	return out
}

// --- FollowClient ---

type fakeFollows struct {
	mu        sync.Mutex
	following map[string]bool
	failing   map[string]bool
	checked   []string
	followErr error
}

func newFakeFollows() *fakeFollows {
	return &fakeFollows{following: map[string]bool{}, failing: map[string]bool{}}
}

func (f *fakeFollows) IsFollowing(_ context.Context, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checked = append(f.checked, userID)
	if f.failing[userID] {
		return false, errors.New("boom")
	}
	return f.following[userID], nil
}

func (f *fakeFollows) Follow(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.followErr != nil {
		return f.followErr
	}
	f.following[userID] = true
	return nil
}

func (f *fakeFollows) Unfollow(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.followErr != nil {
		return f.followErr
	}
	delete(f.following, userID)
	return nil
}

var errUpstream500 = domain.NewUpstreamError("/api/search", 500)
