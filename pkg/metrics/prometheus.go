// Package metrics provides Prometheus metrics for the brand health service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Dataset lifecycle
	datasetLoads        *prometheus.CounterVec
	datasetLoadFailures *prometheus.CounterVec
	datasetLoadDuration prometheus.Histogram
	marketCount         prometheus.Gauge
	historyLength       prometheus.Gauge

	// Engine
	engineOps     *prometheus.CounterVec
	engineErrors  *prometheus.CounterVec
	engineLatency *prometheus.HistogramVec

	// Export
	exports prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton manager behind the package helpers

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out of /healthz

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "brandhealth",
		subsystem:        "dashboard",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.datasetLoads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_loads_total",
		Help:        "Successful dataset loads by source kind",
		ConstLabels: m.constLabels,
	}, []string{"source"})

	m.datasetLoadFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_load_failures_total",
		Help:        "Failed dataset loads by source kind",
		ConstLabels: m.constLabels,
	}, []string{"source"})

	m.datasetLoadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_load_duration_milliseconds",
		Help:        "Time spent reading and validating a dataset",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.marketCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "markets",
		Help:        "Markets in the loaded dataset",
		ConstLabels: m.constLabels,
	})

	m.historyLength = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "history_quarters",
		Help:        "Quarterly snapshots in the loaded dataset",
		ConstLabels: m.constLabels,
	})

	m.engineOps = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "engine_operations_total",
		Help:        "Derived metric computations by operation",
		ConstLabels: m.constLabels,
	}, []string{"op"})

	m.engineErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "engine_errors_total",
		Help:        "Failed derived metric computations by operation and kind",
		ConstLabels: m.constLabels,
	}, []string{"op", "kind"})

	m.engineLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "engine_latency_milliseconds",
		Help:        "Derived metric computation latency",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"op"})

	m.exports = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "exports_total",
		Help:        "Workbook exports written",
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "HTTP requests by endpoint, method and status",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordDatasetLoad counts a successful load from source.
func RecordDatasetLoad(source string) {
	globalManager.datasetLoads.WithLabelValues(source).Inc()
}

// RecordDatasetLoadFailure counts a failed load from source.
func RecordDatasetLoadFailure(source string) {
	globalManager.datasetLoadFailures.WithLabelValues(source).Inc()
}

// RecordLoadDuration records load latency in milliseconds.
func RecordLoadDuration(ms float64) {
	globalManager.datasetLoadDuration.Observe(ms)
}

// UpdateMarketCount sets the markets gauge.
func UpdateMarketCount(n int) {
	globalManager.marketCount.Set(float64(n))
}

// UpdateHistoryLength sets the history gauge.
func UpdateHistoryLength(n int) {
	globalManager.historyLength.Set(float64(n))
}

// RecordEngineOp counts an engine operation and its latency.
func RecordEngineOp(op string, ms float64) {
	globalManager.engineOps.WithLabelValues(op).Inc()
	globalManager.engineLatency.WithLabelValues(op).Observe(ms)
}

// RecordEngineError counts a failed engine operation.
func RecordEngineError(op, kind string) {
	globalManager.engineErrors.WithLabelValues(op, kind).Inc()
}

// RecordExport counts a written workbook.
func RecordExport() {
	globalManager.exports.Inc()
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP latency in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

// GetRegistry returns the registry served on /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
