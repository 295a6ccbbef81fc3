package metric

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yndnr/reviewgate/internal/core/domain"
)

const namespace = "reviewgate"

// ResultOK labels a successful operation.
const ResultOK = "ok"

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	LoginsTotal        *prometheus.CounterVec
	VerificationsTotal *prometheus.CounterVec
	CacheLookupsTotal  *prometheus.CounterVec
	EvictionsTotal     *prometheus.CounterVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewRegistry creates a registry with the application metrics and the Go
// runtime and process collectors registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		LoginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result (ok or error code).",
		}, []string{"result"}),
		VerificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_verifications_total",
			Help:      "Session verifications by result (ok or error code).",
		}, []string{"result"}),
		CacheLookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "info_cache_lookups_total",
			Help:      "User info cache lookups by result (hit or miss).",
		}, []string{"result"}),
		EvictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_evicted_total",
			Help:      "Sessions removed from the store by reason.",
		}, []string{"reason"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),
	}

	r.reg.MustRegister(
		r.LoginsTotal,
		r.VerificationsTotal,
		r.CacheLookupsTotal,
		r.EvictionsTotal,
		r.HTTPRequestsTotal,
		r.HTTPRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// MustRegister registers additional collectors.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.reg.MustRegister(cs...)
}

// Gatherer exposes the underlying registry for tests and exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// LoginAttempted counts a login by result.
func (r *Registry) LoginAttempted(err error) {
	r.LoginsTotal.WithLabelValues(resultLabel(err)).Inc()
}

// SessionVerified counts a session verification by result.
func (r *Registry) SessionVerified(err error) {
	r.VerificationsTotal.WithLabelValues(resultLabel(err)).Inc()
}

// InfoCacheLookup counts a cache hit or miss.
func (r *Registry) InfoCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.CacheLookupsTotal.WithLabelValues(result).Inc()
}

// SessionsEvicted counts n sessions removed for reason.
func (r *Registry) SessionsEvicted(reason string, n int) {
	r.EvictionsTotal.WithLabelValues(reason).Add(float64(n))
}

// ObserveHTTPRequest records one served request.
func (r *Registry) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// resultLabel maps an operation error to a bounded label value.
func resultLabel(err error) string {
	if err == nil {
		return ResultOK
	}
	if code := domain.ErrorCode(err); code != "" {
		return code
	}
	return "error"
}
