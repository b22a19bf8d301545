package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "aevon_consumption"

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	snapshotHits      prometheus.Counter
	snapshotMisses    prometheus.Counter
	refreshRuns       *prometheus.CounterVec
	refreshDuration   prometheus.Histogram
	reportsEvaluated  *prometheus.CounterVec
	windowsRejected   *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. A nil reg uses a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Histogram of HTTP request durations by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		snapshotHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_cache_hits_total",
			Help:      "Summary requests served from the snapshot cache.",
		}),
		snapshotMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_cache_misses_total",
			Help:      "Summary requests that had to compute a snapshot.",
		}),
		refreshRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_runs_total",
			Help:      "Daily refresh runs by outcome.",
		}, []string{"outcome"}),
		refreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of daily refresh runs.",
			Buckets:   prometheus.DefBuckets,
		}),
		reportsEvaluated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_evaluated_total",
			Help:      "Report evaluations by kind and outcome.",
		}, []string{"kind", "outcome"}),
		windowsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "average_windows_rejected_total",
			Help:      "Rolling average windows left out by the completeness gate, by unit.",
		}, []string{"unit"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.snapshotHits,
		m.snapshotMisses,
		m.refreshRuns,
		m.refreshDuration,
		m.reportsEvaluated,
		m.windowsRejected,
	)
	return m
}

// Middleware records request counts and latency per matched gin route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registered collectors.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) SnapshotHit() {
	if m == nil {
		return
	}
	m.snapshotHits.Inc()
}

func (m *Metrics) SnapshotMiss() {
	if m == nil {
		return
	}
	m.snapshotMisses.Inc()
}

// RefreshRun records one refresh run. failed counts sensors that could not
// be refreshed; any failure marks the run partial.
func (m *Metrics) RefreshRun(duration time.Duration, failed int) {
	if m == nil {
		return
	}
	outcome := "ok"
	if failed > 0 {
		outcome = "partial"
	}
	m.refreshRuns.WithLabelValues(outcome).Inc()
	m.refreshDuration.Observe(duration.Seconds())
}

func (m *Metrics) ReportEvaluated(kind string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.reportsEvaluated.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) WindowsRejected(unit string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.windowsRejected.WithLabelValues(unit).Add(float64(n))
}
