package novelsearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	healthuc "github.com/kailas-cloud/novelsearch/internal/usecase/health"
)

// --- profileUseCase mock ---

type mockProfileUC struct {
	statsFn    func(ctx context.Context, userID string) (json.RawMessage, error)
	activityFn func(ctx context.Context, userID string) (json.RawMessage, error)
}

func (m *mockProfileUC) Stats(ctx context.Context, userID string) (json.RawMessage, error) {
	return m.statsFn(ctx, userID)
}

func (m *mockProfileUC) Activity(ctx context.Context, userID string) (json.RawMessage, error) {
	return m.activityFn(ctx, userID)
}

// --- contestUseCase mock ---

type mockContestUC struct {
	byTagFn func(ctx context.Context, tag string) (json.RawMessage, error)
}

func (m *mockContestUC) ByTag(ctx context.Context, tag string) (json.RawMessage, error) {
	return m.byTagFn(ctx, tag)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- platform stub ---

// platformStub serves a fixed result list on the search endpoints and
// records the headers of follow calls.
type platformStub struct {
	mu       sync.Mutex
	searches int
	cookies  []string
}

func (p *platformStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/search":
		p.mu.Lock()
		p.searches++
		p.mu.Unlock()
		_, _ = w.Write([]byte(`{"results":[` +
			`{"_id":"a","title":"one","viewCounter":3,"tags":["竜"]},` +
			`{"_id":"b","title":"two","viewCounter":9,"tags":["竜","海"],"isAdultContent":true},` +
			`{"_id":"c","title":"three","viewCounter":1,"tags":["海"]}` +
			`],"total":3}`))
	case r.URL.Path == "/api/users/follow/u1":
		p.mu.Lock()
		p.cookies = append(p.cookies, r.Header.Get("Cookie"))
		p.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	case r.URL.Path == "/":
		w.WriteHeader(http.StatusNotFound)
	default:
		http.NotFound(w, r)
	}
}

func (p *platformStub) searchCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.searches
}

func (p *platformStub) cookieList() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.cookies...)
}

// newPlatformClient creates a Client with an in-memory cache against stub.
func newPlatformClient(t *testing.T, stub http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	c, err := New(context.Background(), append([]Option{WithPlatform(srv.URL)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

// testClient creates a Client with mocked use cases for unit tests.
func testClient(profiles profileUseCase, contests contestUseCase, health healthUseCase) *Client {
	return &Client{
		profileSvc: profiles,
		contestSvc: contests,
		healthSvc:  health,
	}
}
