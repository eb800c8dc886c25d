package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/novelsearch/internal/domain"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/item"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/query"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/request"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/result"
)

// PageState tracks incremental loading within one session.
type PageState struct {
	LoadedChunks int  `json:"loadedChunks"`
	HasMore      bool `json:"hasMore"`
	FetchingMore bool `json:"fetchingMore"`
}

func initialPageState() PageState {
	return PageState{LoadedChunks: 1, HasMore: true}
}

// Snapshot is a consistent read of the loader state.
type Snapshot struct {
	Set     *result.Set
	State   PageState
	Loaded  bool
	Loading bool
}

// Loader accumulates chunks of upstream results for one session. At most one
// chunk fetch is in flight; concurrent Load/LoadMore calls return immediately.
// Fetches started before a Reset are discarded when they complete.
type Loader struct {
	fetch     Fetcher
	chunkSize int

	mu      sync.Mutex
	query   query.SearchQuery
	set     *result.Set
	state   PageState
	loaded  bool
	loading bool
	gen     uint64
}

// NewLoader creates a loader. chunkSize <= 0 selects request.ChunkSize.
func NewLoader(fetch Fetcher, chunkSize int) *Loader {
	if chunkSize <= 0 {
		chunkSize = request.ChunkSize
	}
	return &Loader{
		fetch:     fetch,
		chunkSize: chunkSize,
		set:       result.New(nil, 0),
		state:     initialPageState(),
	}
}

// ChunkSize returns the configured chunk size.
func (l *Loader) ChunkSize() int { return l.chunkSize }

// Reset clears accumulated results and starts a new session for q.
func (l *Loader) Reset(q query.SearchQuery) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.gen++
	l.query = q.Clone()
	l.set = result.New(nil, 0)
	l.state = initialPageState()
	l.loaded = false
	l.loading = false
}

// Load fetches the first chunk of the session. It returns the fetched items,
// or nil when the first chunk is already loaded, loading, or was superseded
// by a Reset. fetched reports whether a fetch completed for the current
// session, successfully or not. On error the session stays unloaded so Load
// can be retried.
func (l *Loader) Load(ctx context.Context) (items []item.Item, fetched bool, err error) {
	l.mu.Lock()
	if l.loaded || l.loading {
		l.mu.Unlock()
		return nil, false, nil
	}
	l.loading = true
	gen, q := l.gen, l.query
	l.mu.Unlock()

	chunk, err := l.fetchChunk(ctx, q, 1)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return nil, false, nil
	}
	l.loading = false
	if err != nil {
		return nil, true, err
	}

	n := len(chunk.Items)
	l.set = result.New(chunk.Items, chunk.Total)
	l.state = PageState{
		LoadedChunks: 1,
		HasMore:      n == l.chunkSize && (chunk.Total <= 0 || chunk.Total > n),
	}
	l.loaded = true
	return chunk.Items, true, nil
}

// LoadMore fetches the next chunk and appends it. It returns the appended
// items, or nil when nothing was appended: the session is not loaded yet, is
// exhausted, another fetch is in flight, the chunk came back empty, or a
// Reset superseded the fetch. fetched is as for Load. On error the
// accumulated state is untouched.
func (l *Loader) LoadMore(ctx context.Context) (items []item.Item, fetched bool, err error) {
	l.mu.Lock()
	if !l.loaded || !l.state.HasMore || l.state.FetchingMore {
		l.mu.Unlock()
		return nil, false, nil
	}
	l.state.FetchingMore = true
	gen, q, next := l.gen, l.query, l.state.LoadedChunks+1
	l.mu.Unlock()

	chunk, err := l.fetchChunk(ctx, q, next)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return nil, false, nil
	}
	l.state.FetchingMore = false
	if err != nil {
		return nil, true, err
	}
	if len(chunk.Items) == 0 {
		l.state.HasMore = false
		return nil, true, nil
	}

	l.set.Append(chunk.Items, chunk.Total)
	l.state.LoadedChunks = next
	l.state.HasMore = len(chunk.Items) == l.chunkSize
	return chunk.Items, true, nil
}

// Snapshot returns the current state. The returned set is not affected by
// later appends.
func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{
		Set:     l.set.Snapshot(),
		State:   l.state,
		Loaded:  l.loaded,
		Loading: l.loading,
	}
}

func (l *Loader) fetchChunk(ctx context.Context, q query.SearchQuery, chunk int) (result.Chunk, error) {
	req, err := request.New(q, chunk, l.chunkSize)
	if err != nil {
		return result.Chunk{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	res, err := l.fetch.Search(ctx, &req)
	if err != nil {
		return result.Chunk{}, fmt.Errorf("fetch chunk %d: %w", chunk, err)
	}
	return res, nil
}
