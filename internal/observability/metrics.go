package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorCount      *prometheus.CounterVec
	claims          *prometheus.CounterVec
	tokensClaimed   prometheus.Counter
	poolsCreated    prometheus.Counter
	enrollments     prometheus.Counter
}

// NewMetrics registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency distributions.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		errorCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Errors returned to callers by code.",
		}, []string{"method", "path", "code"}),
		claims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vesting_claims_total",
			Help: "Claim attempts by outcome.",
		}, []string{"outcome"}),
		tokensClaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vesting_tokens_claimed_total",
			Help: "Base units released to beneficiaries.",
		}),
		poolsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vesting_pools_created_total",
			Help: "Vesting pools created.",
		}),
		enrollments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vesting_enrollments_total",
			Help: "Beneficiaries enrolled.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestCount,
		m.requestDuration,
		m.errorCount,
		m.claims,
		m.tokensClaimed,
		m.poolsCreated,
		m.enrollments,
	)
	return m
}

// Registry exposes the registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(method, path, code).Inc()
}

// RecordClaim counts a claim outcome and the amount released on success.
func (m *Metrics) RecordClaim(outcome string, amount uint64) {
	if m == nil {
		return
	}
	m.claims.WithLabelValues(outcome).Inc()
	if amount > 0 {
		m.tokensClaimed.Add(float64(amount))
	}
}

// RecordPoolCreated counts a new pool.
func (m *Metrics) RecordPoolCreated() {
	if m == nil {
		return
	}
	m.poolsCreated.Inc()
}

// RecordEnrollment counts a new beneficiary.
func (m *Metrics) RecordEnrollment() {
	if m == nil {
		return
	}
	m.enrollments.Inc()
}
