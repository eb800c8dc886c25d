// Package api is the HTTP client of the platform REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/novelsearch/internal/domain"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/item"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/request"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/result"
	"github.com/kailas-cloud/novelsearch/internal/metrics"
)

// Endpoint labels used in metrics and errors.
const (
	EndpointSearch        = "search"
	EndpointSearchUsers   = "search_users"
	EndpointIsFollowing   = "is_following"
	EndpointFollow        = "follow"
	EndpointUnfollow      = "unfollow"
	EndpointUserStats     = "user_stats"
	EndpointUserActivity  = "user_activity"
	EndpointContestsByTag = "contests_by_tag"
	EndpointHealth        = "health"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 64 << 20
)

// Config holds the platform API client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HealthPath string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the platform REST API.
type Client struct {
	base       *url.URL
	healthPath string
	http       *http.Client
	logger     *zap.Logger
}

// New creates a platform API client.
func New(cfg *Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse upstream base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("upstream base url must be http(s), got %q", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	healthPath := cfg.HealthPath
	if healthPath == "" {
		healthPath = "/"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{base: base, healthPath: healthPath, http: hc, logger: logger}, nil
}

type searchResponse struct {
	Results []item.Item `json:"results"`
	Total   json.Number `json:"total"`
}

// Search implements search.Fetcher.
func (c *Client) Search(ctx context.Context, req *request.Request) (result.Chunk, error) {
	endpoint := EndpointSearch
	if req.Path() == request.SearchUsersPath {
		endpoint = EndpointSearchUsers
	}

	body, err := c.do(ctx, endpoint, http.MethodGet, req.Path(), req.Values(), false)
	if err != nil {
		return result.Chunk{}, err
	}

	var resp searchResponse
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&resp); err != nil {
		return result.Chunk{}, fmt.Errorf("decode %s response: %w", endpoint, err)
	}

	items := resp.Results
	if items == nil {
		items = []item.Item{}
	}
	metrics.UpstreamItemsTotal.WithLabelValues(endpoint).Add(float64(len(items)))
	return result.Chunk{Items: items, Total: parseTotal(resp.Total)}, nil
}

// IsFollowing implements search.FollowClient.
func (c *Client) IsFollowing(ctx context.Context, userID string) (bool, error) {
	body, err := c.do(ctx, EndpointIsFollowing, http.MethodGet,
		"/api/users/"+url.PathEscape(userID)+"/is-following", nil, true)
	if err != nil {
		return false, err
	}
	var resp struct {
		IsFollowing bool `json:"isFollowing"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, fmt.Errorf("decode %s response: %w", EndpointIsFollowing, err)
	}
	return resp.IsFollowing, nil
}

// Follow implements search.FollowClient.
func (c *Client) Follow(ctx context.Context, userID string) error {
	_, err := c.do(ctx, EndpointFollow, http.MethodPost, "/api/users/follow/"+url.PathEscape(userID), nil, true)
	return err
}

// Unfollow implements search.FollowClient.
func (c *Client) Unfollow(ctx context.Context, userID string) error {
	_, err := c.do(ctx, EndpointUnfollow, http.MethodDelete, "/api/users/unfollow/"+url.PathEscape(userID), nil, true)
	return err
}

// UserStats implements profile.Client.
func (c *Client) UserStats(ctx context.Context, userID string) (json.RawMessage, error) {
	return c.do(ctx, EndpointUserStats, http.MethodGet, "/api/users/"+url.PathEscape(userID)+"/stats", nil, false)
}

// UserActivity implements profile.Client.
func (c *Client) UserActivity(ctx context.Context, userID string) (json.RawMessage, error) {
	return c.do(ctx, EndpointUserActivity, http.MethodGet, "/api/users/"+url.PathEscape(userID)+"/activity", nil, false)
}

// ContestsByTag implements contest.Client.
func (c *Client) ContestsByTag(ctx context.Context, tag string) (json.RawMessage, error) {
	return c.do(ctx, EndpointContestsByTag, http.MethodGet, "/api/contests/by-tag/"+url.PathEscape(tag), nil, false)
}

// HealthCheck reports whether the platform API answers. Any status below
// 500 counts as reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(c.healthPath, nil), nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.UpstreamError{Endpoint: EndpointHealth, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode >= http.StatusInternalServerError {
		return domain.NewUpstreamError(EndpointHealth, resp.StatusCode)
	}
	return nil
}

func (c *Client) do(
	ctx context.Context,
	endpoint, method, path string,
	query url.Values,
	credentialed bool,
) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path, query), nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if credentialed {
		CredentialsFromContext(ctx).apply(req.Header)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		c.logger.Warn("upstream request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, &domain.UpstreamError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &domain.UpstreamError{Endpoint: endpoint, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("upstream returned error status",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return nil, domain.NewUpstreamError(endpoint, resp.StatusCode)
	}
	return body, nil
}

// resolve joins the base URL and an already-escaped path.
func (c *Client) resolve(path string, query url.Values) string {
	u := c.base.String() + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// parseTotal accepts integer and decimal totals; anything else is unknown (0).
func parseTotal(n json.Number) int {
	if n == "" {
		return 0
	}
	if v, err := n.Int64(); err == nil {
		return int(v)
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}
