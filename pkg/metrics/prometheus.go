// Package metrics provides Prometheus metrics for the academic records dashboard.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the dashboard.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Dataset metrics
	datasetRows         prometheus.Gauge
	datasetColumns      prometheus.Gauge
	datasetLoads        prometheus.Counter
	datasetLoadErrors   prometheus.Counter
	datasetLoadDuration prometheus.Histogram
	datasetLastLoadUnix prometheus.Gauge

	// Pipeline metrics
	filterRuns         prometheus.Counter
	filterLatency      prometheus.Histogram
	filteredRows       prometheus.Gauge
	activeConstraints  prometheus.Gauge
	collapseOperations *prometheus.CounterVec
	aggregations       *prometheus.CounterVec

	// Chart metrics
	chartRenders       *prometheus.CounterVec
	chartRenderLatency *prometheus.HistogramVec
	chartRenderErrors  *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "acadash",
		subsystem:        "dashboard",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: name, Help: help, ConstLabels: m.constLabels,
	}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: name, Help: help, ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogram(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: m.histogramBuckets,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.datasetRows = auto.NewGauge(m.gauge("dataset_rows", "Rows in the loaded dataset"))
	m.datasetColumns = auto.NewGauge(m.gauge("dataset_columns", "Columns in the loaded dataset"))
	m.datasetLoads = auto.NewCounter(m.counter("dataset_loads_total", "Total number of successful dataset loads"))
	m.datasetLoadErrors = auto.NewCounter(m.counter("dataset_load_errors_total", "Total number of failed dataset loads"))
	m.datasetLoadDuration = auto.NewHistogram(m.histogram("dataset_load_duration_milliseconds", "Dataset load duration in milliseconds"))
	m.datasetLastLoadUnix = auto.NewGauge(m.gauge("dataset_last_load_unix", "Unix timestamp of the last dataset load"))

	m.filterRuns = auto.NewCounter(m.counter("filter_runs_total", "Total number of filter evaluations"))
	m.filterLatency = auto.NewHistogram(m.histogram("filter_latency_milliseconds", "Filter evaluation latency in milliseconds"))
	m.filteredRows = auto.NewGauge(m.gauge("filtered_rows", "Rows matched by the most recent filter evaluation"))
	m.activeConstraints = auto.NewGauge(m.gauge("active_constraints", "Active constraints in the most recent filter evaluation"))
	m.collapseOperations = auto.NewCounterVec(
		m.counter("collapse_operations_total", "Category collapse operations by policy"),
		[]string{"policy"},
	)
	m.aggregations = auto.NewCounterVec(
		m.counter("aggregations_total", "Aggregations computed by kind"),
		[]string{"kind"},
	)

	m.chartRenders = auto.NewCounterVec(
		m.counter("chart_renders_total", "Charts rendered by kind"),
		[]string{"kind"},
	)
	m.chartRenderLatency = auto.NewHistogramVec(
		m.histogram("chart_render_latency_milliseconds", "Chart render latency in milliseconds"),
		[]string{"kind"},
	)
	m.chartRenderErrors = auto.NewCounterVec(
		m.counter("chart_render_errors_total", "Chart render failures by kind"),
		[]string{"kind"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counter("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogram("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counter("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counter("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gauge("system_memory_usage_bytes", "Heap memory in use in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gauge("system_goroutine_count", "Number of goroutines"))
}

// Dataset Metrics Functions.

// RecordDatasetLoad records a successful load and the loaded shape.
func RecordDatasetLoad(rows, columns int, duration time.Duration) {
	globalManager.datasetLoads.Inc()
	globalManager.datasetRows.Set(float64(rows))
	globalManager.datasetColumns.Set(float64(columns))
	globalManager.datasetLoadDuration.Observe(milliseconds(duration))
	globalManager.datasetLastLoadUnix.Set(float64(time.Now().Unix()))
}

// RecordDatasetLoadError increments the failed loads counter.
func RecordDatasetLoadError() {
	globalManager.datasetLoadErrors.Inc()
}

// Pipeline Metrics Functions.

// RecordFilter records one filter evaluation.
func RecordFilter(matched, constraints int, duration time.Duration) {
	globalManager.filterRuns.Inc()
	globalManager.filteredRows.Set(float64(matched))
	globalManager.activeConstraints.Set(float64(constraints))
	globalManager.filterLatency.Observe(milliseconds(duration))
}

// RecordCollapse increments the collapse counter for a policy.
func RecordCollapse(policy string) {
	globalManager.collapseOperations.WithLabelValues(policy).Inc()
}

// RecordAggregation increments the aggregation counter for a kind.
func RecordAggregation(kind string) {
	globalManager.aggregations.WithLabelValues(kind).Inc()
}

// Chart Metrics Functions.

// RecordChartRender records a rendered chart and its latency.
func RecordChartRender(kind string, duration time.Duration) {
	globalManager.chartRenders.WithLabelValues(kind).Inc()
	globalManager.chartRenderLatency.WithLabelValues(kind).Observe(milliseconds(duration))
}

// RecordChartRenderError increments the render failure counter for a kind.
func RecordChartRenderError(kind string) {
	globalManager.chartRenderErrors.WithLabelValues(kind).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Metrics Functions.

// UpdateSystemMemoryUsage sets the heap memory in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
