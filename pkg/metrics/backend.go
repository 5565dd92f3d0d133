package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BackendMetrics records calls made to the hosted data and auth API.
type BackendMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewBackendMetrics registers the backend call metrics on the provided registerer.
func NewBackendMetrics(reg prometheus.Registerer) *BackendMetrics {
	if reg == nil {
		return &BackendMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backend_request_duration_seconds",
		Help:    "Duration of backend requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "method"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backend_requests_total",
		Help: "Backend requests by response status.",
	}, []string{"endpoint", "method", "status"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backend_request_failures_total",
		Help: "Backend requests that failed in transport or returned non-2xx.",
	}, []string{"endpoint", "method"})
	reg.MustRegister(duration, requests, failure)
	return &BackendMetrics{
		duration: duration,
		requests: requests,
		failure:  failure,
	}
}

// ObserveRequest records one backend round trip. status is 0 when the transport failed.
func (b *BackendMetrics) ObserveRequest(endpoint, method string, status int, elapsed time.Duration, err error) {
	if b == nil || b.duration == nil {
		return
	}
	endpoint = normalizeLabel(endpoint)
	method = normalizeLabel(method)
	b.duration.WithLabelValues(endpoint, method).Observe(elapsed.Seconds())
	b.requests.WithLabelValues(endpoint, method, statusLabel(status)).Inc()
	if err != nil || status < 200 || status > 299 {
		b.failure.WithLabelValues(endpoint, method).Inc()
	}
}

func statusLabel(status int) string {
	if status == 0 {
		return "transport_error"
	}
	return strconv.Itoa(status)
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
