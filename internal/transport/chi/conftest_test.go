package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/novelsearch/internal/db/memory"
	"github.com/kailas-cloud/novelsearch/internal/domain"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/item"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/request"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/result"
	"github.com/kailas-cloud/novelsearch/internal/repository/cache"
	"github.com/kailas-cloud/novelsearch/internal/transport/api"
	contestuc "github.com/kailas-cloud/novelsearch/internal/usecase/contest"
	healthuc "github.com/kailas-cloud/novelsearch/internal/usecase/health"
	profileuc "github.com/kailas-cloud/novelsearch/internal/usecase/profile"
	searchuc "github.com/kailas-cloud/novelsearch/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/novelsearch/internal/usecase/session"
)

// fakePlatform stands in for the platform API client.
type fakePlatform struct {
	mu        sync.Mutex
	items     int
	searchErr error
	requests  []string
	creds     []api.Credentials
	following map[string]bool
}

func newFakePlatform(items int) *fakePlatform {
	return &fakePlatform{items: items, following: map[string]bool{}}
}

func (f *fakePlatform) Search(ctx context.Context, req *request.Request) (result.Chunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req.URL())
	f.creds = append(f.creds, api.CredentialsFromContext(ctx))
	if f.searchErr != nil {
		return result.Chunk{}, f.searchErr
	}

	start := (req.Chunk() - 1) * req.Size()
	n := min(max(f.items-start, 0), req.Size())
	items := make([]item.Item, n)
	for i := range n {
		id := start + i
		items[i] = item.Item{
			"_id":            fmt.Sprintf("p%d", id),
			"viewCounter":    float64(id),
			"isAdultContent": id%5 == 0,
			"tags":           []any{"tag"},
		}
	}
	return result.Chunk{Items: items, Total: f.items}, nil
}

func (f *fakePlatform) IsFollowing(_ context.Context, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.following[userID], nil
}

func (f *fakePlatform) Follow(_ context.Context, userID string) error {
	if userID == "blocked" {
		return domain.NewUpstreamError(api.EndpointFollow, http.StatusForbidden)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.following[userID] = true
	return nil
}

func (f *fakePlatform) Unfollow(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.following, userID)
	return nil
}

func (f *fakePlatform) UserStats(_ context.Context, userID string) (json.RawMessage, error) {
	if userID == "missing" {
		return nil, domain.NewUpstreamError(api.EndpointUserStats, http.StatusNotFound)
	}
	return json.RawMessage(`{"posts":7}`), nil
}

func (f *fakePlatform) UserActivity(_ context.Context, _ string) (json.RawMessage, error) {
	return json.RawMessage(`[{"type":"post"}]`), nil
}

func (f *fakePlatform) ContestsByTag(_ context.Context, tag string) (json.RawMessage, error) {
	if tag == "down" {
		return nil, domain.NewUpstreamError(api.EndpointContestsByTag, http.StatusBadGateway)
	}
	return json.RawMessage(`[{"title":"` + tag + `"}]`), nil
}

func (f *fakePlatform) HealthCheck(_ context.Context) error { return nil }

func (f *fakePlatform) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type testEnv struct {
	platform *fakePlatform
	sessions *sessionuc.Service
	handler  http.Handler
}

func newTestEnv(t *testing.T, items int) *testEnv {
	t.Helper()
	platform := newFakePlatform(items)
	store := memory.NewStore(time.Minute)
	t.Cleanup(store.Close)

	logger := zap.NewNop()
	sessions := sessionuc.New(func() *searchuc.Controller {
		return searchuc.NewController(platform, platform, searchuc.Config{})
	}, time.Hour, nil)
	profiles := profileuc.New(platform, cache.New("stats", store, time.Hour, nil, logger), nil)
	contests := contestuc.New(platform, cache.New("contests", store, 0, nil, logger), nil)
	health := healthuc.New(store, platform)

	srv := NewServer(sessions, profiles, contests, health, logger)
	return &testEnv{
		platform: platform,
		sessions: sessions,
		handler:  srv.Router(RouterOptions{CORSOrigins: []string{"http://localhost:3000"}}),
	}
}

func (e *testEnv) do(t *testing.T, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[http.CanonicalHeaderKey(k)] = v
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v (body %s)", v, err, rec.Body.String())
	}
	return v
}
