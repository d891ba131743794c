// Package metrics exposes sync counters in prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/umputun/postsync/pkg/domain"
)

// Metrics holds sync collectors registered on a private registry
type Metrics struct {
	registry       *prometheus.Registry
	fetched        *prometheus.CounterVec
	added          *prometheus.CounterVec
	pushed         *prometheus.CounterVec
	accountErrors  *prometheus.CounterVec
	rateLimitWaits prometheus.Counter
	rateLimitSecs  prometheus.Counter
	tokenRefreshes prometheus.Counter
	lastRun        *prometheus.GaugeVec
}

// New makes metrics with all collectors registered
func New() *Metrics {
	res := &Metrics{registry: prometheus.NewRegistry()}

	res.fetched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "postsync_items_fetched_total",
		Help: "Number of items fetched from the platform",
	}, []string{"feed"})

	res.added = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "postsync_items_added_total",
		Help: "Number of items new to the archive",
	}, []string{"feed"})

	res.pushed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "postsync_items_pushed_total",
		Help: "Number of records created in the record store",
	}, []string{"feed"})

	res.accountErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "postsync_account_errors_total",
		Help: "Number of per-account fetch failures",
	}, []string{"feed"})

	res.rateLimitWaits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "postsync_rate_limit_waits_total",
		Help: "Number of waits caused by rate limiting",
	})

	res.rateLimitSecs = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "postsync_rate_limit_wait_seconds_total",
		Help: "Time spent waiting for rate limit windows to reset",
	})

	res.tokenRefreshes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "postsync_token_refreshes_total",
		Help: "Number of access token refreshes",
	})

	res.lastRun = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "postsync_last_run_timestamp",
		Help: "Unix time of the last finished sync run",
	}, []string{"feed"})

	res.registry.MustRegister(res.fetched, res.added, res.pushed, res.accountErrors,
		res.rateLimitWaits, res.rateLimitSecs, res.tokenRefreshes, res.lastRun)
	return res
}

// SyncFinished records the counters of a finished sync
func (m *Metrics) SyncFinished(res domain.SyncResult) {
	feed := string(res.Feed)
	m.fetched.WithLabelValues(feed).Add(float64(res.Fetched))
	m.added.WithLabelValues(feed).Add(float64(res.Added))
	m.pushed.WithLabelValues(feed).Add(float64(res.Pushed))
	m.accountErrors.WithLabelValues(feed).Add(float64(len(res.Errors)))
	if !res.Finished.IsZero() {
		m.lastRun.WithLabelValues(feed).Set(float64(res.Finished.Unix()))
	}
}

// RateLimited records one wait for a rate limit window, matches the transport hook signature
func (m *Metrics) RateLimited(_ string, wait time.Duration) {
	m.rateLimitWaits.Inc()
	m.rateLimitSecs.Add(wait.Seconds())
}

// TokenRefreshed records a successful token refresh
func (m *Metrics) TokenRefreshed() {
	m.tokenRefreshes.Inc()
}

// Registry returns the registry with all collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
