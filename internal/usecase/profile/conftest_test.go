package profile

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/kailas-cloud/novelsearch/internal/domain/cached"
)

var errUpstream = errors.New("upstream 500")

type fakeClient struct {
	stats    json.RawMessage
	activity json.RawMessage
	err      error

	mu    sync.Mutex
	calls []string
}

func (f *fakeClient) UserStats(_ context.Context, userID string) (json.RawMessage, error) {
	f.record("stats:" + userID)
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

func (f *fakeClient) UserActivity(_ context.Context, userID string) (json.RawMessage, error) {
	f.record("activity:" + userID)
	if f.err != nil {
		return nil, f.err
	}
	return f.activity, nil
}

func (f *fakeClient) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeCache stamps entries with a controllable clock.
type fakeCache struct {
	now      time.Time
	entries  map[string]cached.Entry
	observed []string
}

func newFakeCache(now time.Time) *fakeCache {
	return &fakeCache{now: now, entries: map[string]cached.Entry{}}
}

func (c *fakeCache) Get(_ context.Context, key string) (cached.Entry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

func (c *fakeCache) Set(_ context.Context, key string, value any) {
	raw, _ := json.Marshal(value)
	c.entries[key] = cached.Entry{Value: raw, Timestamp: c.now}
}

func (c *fakeCache) Observe(result string) { c.observed = append(c.observed, result) }
