package metrics

import "github.com/prometheus/client_golang/prometheus"

// Upstream, cache and session Prometheus metrics.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "novelsearch",
			Name:      "upstream_requests_total",
			Help:      "Total number of platform API requests",
		},
		[]string{"endpoint", "status"},
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "novelsearch",
			Name:      "upstream_request_duration_seconds",
			Help:      "Platform API request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	UpstreamItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "novelsearch",
			Name:      "upstream_items_total",
			Help:      "Total number of result items received from the platform API",
		},
		[]string{"endpoint"},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "novelsearch",
			Name:      "cache_total",
			Help:      "Cache hits, misses and expirations",
		},
		[]string{"cache", "result"}, // "hit" / "miss" / "expired"
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "novelsearch",
			Name:      "sessions_active",
			Help:      "Number of live search sessions",
		},
	)

	SessionsEvictedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "novelsearch",
			Name:      "sessions_evicted_total",
			Help:      "Total number of search sessions evicted for inactivity",
		},
	)
)

var domainMetricsRegistered bool

// RegisterDomainMetrics registers upstream, cache and session metrics. Must be called once from main.
func RegisterDomainMetrics() {
	if domainMetricsRegistered {
		return
	}
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(UpstreamItemsTotal)
	prometheus.MustRegister(CacheTotal)
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(SessionsEvictedTotal)
	domainMetricsRegistered = true
}

// SessionObserver reports session counts to the session metrics.
type SessionObserver struct{}

// SessionsActive sets the live session gauge.
func (SessionObserver) SessionsActive(n int) { SessionsActive.Set(float64(n)) }

// SessionsEvicted adds to the eviction counter.
func (SessionObserver) SessionsEvicted(n int) { SessionsEvictedTotal.Add(float64(n)) }
