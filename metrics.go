package dpd

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the request lifecycle
// and the cache/retry layers. It is safe for concurrent use.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	retriesTotal *prometheus.CounterVec

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheSize   prometheus.Gauge

	deduplicationHits *prometheus.CounterVec

	errorsTotal *prometheus.CounterVec
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using supplied registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dpd_client_requests_total",
				Help: "Total number of API requests made",
			},
			[]string{"endpoint", "status_code"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dpd_client_request_duration_seconds",
				Help:    "Duration of API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		requestsInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dpd_client_requests_in_flight",
				Help: "Number of logical calls currently in flight",
			},
			[]string{"endpoint"},
		),
		retriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dpd_client_retries_total",
				Help: "Total number of retry attempts",
			},
			[]string{"endpoint"},
		),
		cacheHits: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dpd_client_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"endpoint"},
		),
		cacheMisses: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dpd_client_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"endpoint"},
		),
		cacheSize: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "dpd_client_cache_entries",
				Help: "Number of entries in the response cache",
			},
		),
		deduplicationHits: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dpd_client_deduplication_hits_total",
				Help: "Total number of calls coalesced into an in-flight duplicate",
			},
			[]string{"endpoint"},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dpd_client_errors_total",
				Help: "Total number of failed calls by error type",
			},
			[]string{"type", "endpoint"},
		),
	}
}

// RecordRequestStart marks a logical call entering flight.
func (mc *MetricsCollector) RecordRequestStart(endpoint string) {
	if mc == nil {
		return
	}
	mc.requestsInFlight.WithLabelValues(endpoint).Inc()
}

// RecordRequestEnd marks a logical call leaving flight.
func (mc *MetricsCollector) RecordRequestEnd(endpoint string) {
	if mc == nil {
		return
	}
	mc.requestsInFlight.WithLabelValues(endpoint).Dec()
}

// RecordRequest records a completed call with its final status and duration.
func (mc *MetricsCollector) RecordRequest(endpoint string, statusCode int, duration time.Duration) {
	if mc == nil {
		return
	}
	mc.requestsTotal.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	mc.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordRetry records one retry attempt.
func (mc *MetricsCollector) RecordRetry(endpoint string) {
	if mc == nil {
		return
	}
	mc.retriesTotal.WithLabelValues(endpoint).Inc()
}

// RecordCacheHit records a cache hit.
func (mc *MetricsCollector) RecordCacheHit(endpoint string) {
	if mc == nil {
		return
	}
	mc.cacheHits.WithLabelValues(endpoint).Inc()
}

// RecordCacheMiss records a cache miss.
func (mc *MetricsCollector) RecordCacheMiss(endpoint string) {
	if mc == nil {
		return
	}
	mc.cacheMisses.WithLabelValues(endpoint).Inc()
}

// RecordCacheSize updates the cache entry gauge.
func (mc *MetricsCollector) RecordCacheSize(size int) {
	if mc == nil {
		return
	}
	mc.cacheSize.Set(float64(size))
}

// RecordDeduplicationHit records a call that waited on an in-flight duplicate.
func (mc *MetricsCollector) RecordDeduplicationHit(endpoint string) {
	if mc == nil {
		return
	}
	mc.deduplicationHits.WithLabelValues(endpoint).Inc()
}

// RecordError records a failed call by error type.
func (mc *MetricsCollector) RecordError(errorType, endpoint string) {
	if mc == nil {
		return
	}
	mc.errorsTotal.WithLabelValues(errorType, endpoint).Inc()
}
