package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics interface {
	ObserveRequest(endpoint string, status int, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncAccountEvent(event string)
	Handler() http.Handler
}

type promMetrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	accountEvents   *prometheus.CounterVec
}

// NewMetrics returns Prometheus metrics on a private registry, or a no-op
// implementation when disabled.
func NewMetrics(enabled bool) Metrics {
	if !enabled {
		return noopMetrics{}
	}
	m := &promMetrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vidtycoon_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vidtycoon_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vidtycoon_leaderboard_cache_hits_total",
			Help: "Leaderboard responses served from cache",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vidtycoon_leaderboard_cache_misses_total",
			Help: "Leaderboard responses built from storage",
		}),
		accountEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vidtycoon_account_events_total",
			Help: "Successful account operations by kind",
		}, []string{"event"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.requestDuration,
		m.cacheHits,
		m.cacheMisses,
		m.accountEvents,
	)
	return m
}

func (m *promMetrics) ObserveRequest(endpoint string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *promMetrics) IncCacheHits()   { m.cacheHits.Inc() }
func (m *promMetrics) IncCacheMisses() { m.cacheMisses.Inc() }

func (m *promMetrics) IncAccountEvent(event string) {
	m.accountEvents.WithLabelValues(event).Inc()
}

func (m *promMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

type noopMetrics struct{}

func (noopMetrics) ObserveRequest(string, int, time.Duration) {}
func (noopMetrics) IncCacheHits()                             {}
func (noopMetrics) IncCacheMisses()                           {}
func (noopMetrics) IncAccountEvent(string)                    {}
func (noopMetrics) Handler() http.Handler                     { return http.NotFoundHandler() }

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// metricsMiddleware labels requests by route pattern so path parameters do not
// explode label cardinality.
func metricsMiddleware(metrics Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			endpoint := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				endpoint = rc.RoutePattern()
			}
			metrics.ObserveRequest(endpoint, sw.status, time.Since(start))
		})
	}
}
