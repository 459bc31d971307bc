package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the directory service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	analyticsEvents *prometheus.CounterVec
	submissions     *prometheus.CounterVec
	catalogWrites   *prometheus.CounterVec
}

// Outcome labels for analytics writes.
const (
	OutcomeRecorded = "recorded"
	OutcomeDropped  = "dropped"
)

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. A private registry lets tests build as many
// instances as they like.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "directory_operation_duration_seconds",
				Help:    "Duration of service operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "directory_external_errors_total",
				Help: "Total errors from backing stores.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "directory_cache_hits_total",
				Help: "Total read-model cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "directory_cache_misses_total",
				Help: "Total read-model cache misses.",
			},
			[]string{"cache"},
		),
		analyticsEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "directory_analytics_events_total",
				Help: "Analytics writes by outcome.",
			},
			[]string{"outcome"},
		),
		submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "directory_submissions_total",
				Help: "Listing applications by workflow result.",
			},
			[]string{"result"},
		),
		catalogWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "directory_catalog_writes_total",
				Help: "Admin catalog mutations by entity.",
			},
			[]string{"entity"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrAnalytics counts one analytics write with the given outcome.
func (m *Metrics) IncrAnalytics(outcome string) {
	m.analyticsEvents.WithLabelValues(outcome).Inc()
}

// IncrSubmission counts one workflow result (listed, pending, approved, rejected).
func (m *Metrics) IncrSubmission(result string) {
	m.submissions.WithLabelValues(result).Inc()
}

// IncrCatalogWrite counts one admin mutation of entity.
func (m *Metrics) IncrCatalogWrite(entity string) {
	m.catalogWrites.WithLabelValues(entity).Inc()
}

// Snapshot is the subset of counters shown on the admin system page.
type Snapshot struct {
	EventsRecorded float64
	EventsDropped  float64
	CacheHits      float64
	CacheMisses    float64
}

// GetSnapshot reads the current counter values.
func (m *Metrics) GetSnapshot(cache string) Snapshot {
	return Snapshot{
		EventsRecorded: getCounterValue(m.analyticsEvents, OutcomeRecorded),
		EventsDropped:  getCounterValue(m.analyticsEvents, OutcomeDropped),
		CacheHits:      getCounterValue(m.cacheHits, cache),
		CacheMisses:    getCounterValue(m.cacheMisses, cache),
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
