package novelsearch

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration

	cookie        string
	authorization string

	driver   string // "memory", "valkey" or "redis"
	addrs    []string
	password string

	chunkSize       int
	followBatchSize int
	statsTTL        time.Duration
	contestTTL      time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithPlatform sets the base URL of the platform REST API. Required.
func WithPlatform(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = baseURL
	})
}

// WithHTTPClient replaces the HTTP client used for platform calls.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithTimeout sets the per-request timeout of platform calls.
// Ignored when WithHTTPClient is used. Default: 30s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithCredentials forwards a Cookie and/or Authorization header to
// credentialed platform calls (follow status and follow toggles).
func WithCredentials(cookie, authorization string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cookie = cookie
		c.authorization = authorization
	})
}

// WithValkey stores cached lookups in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis stores cached lookups in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithChunkSize sets how many results are fetched per upstream request.
// Default: 500.
func WithChunkSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.chunkSize = n
	})
}

// WithFollowBatchSize sets how many follow-status checks run concurrently.
// Default: 10.
func WithFollowBatchSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.followBatchSize = n
	})
}

// WithStatsTTL sets how long user stats are served from cache. Default: 5m.
func WithStatsTTL(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.statsTTL = d
	})
}

// WithContestTTL sets how long contest previews are served from cache.
// Zero (default) keeps them for the lifetime of the cache.
func WithContestTTL(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.contestTTL = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
