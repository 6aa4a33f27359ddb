// Package metrics provides Prometheus metrics for the reviewlens dashboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Upload and store metrics
	uploads             *prometheus.CounterVec
	storeReviews        prometheus.Gauge
	storeVersion        prometheus.Gauge
	storeBusy           prometheus.Gauge
	storeReplaceLatency prometheus.Histogram
	storeReplaceErrors  prometheus.Counter

	// Aggregation metrics
	aggregationLatency *prometheus.HistogramVec
	dashboardCache     *prometheus.CounterVec

	// Upload queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker metrics
	workerJobs    *prometheus.CounterVec
	workerLatency prometheus.Histogram
	workerCount   prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByComponent   *prometheus.CounterVec

	// Notification metrics
	notifications    *prometheus.CounterVec
	websocketClients prometheus.Gauge

	// Scraper metrics
	scraperPages      *prometheus.CounterVec
	scraperReviews    prometheus.Counter
	scraperDuplicates prometheus.Counter

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide metrics singleton

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager. Without WithPrometheusRegistry the
// collectors are registered on a fresh private registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "reviewlens",
		subsystem:        "dashboard",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		constLabels:      map[string]string{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.uploads = m.counterVec("uploads_total", "Review uploads by outcome", "result")
	m.storeReviews = m.gauge("store_reviews", "Number of reviews in the current collection")
	m.storeVersion = m.gauge("store_version", "Version counter of the current collection")
	m.storeBusy = m.gauge("store_busy", "1 while a collection replacement is in progress")
	m.storeReplaceLatency = m.histogram("store_replace_latency_milliseconds", "Collection replacement latency in milliseconds", m.histogramBuckets)
	m.storeReplaceErrors = m.counter("store_replace_errors_total", "Rejected collection replacements")

	m.aggregationLatency = m.histogramVec("aggregation_latency_milliseconds", "Aggregation latency by view in milliseconds", "view")
	m.dashboardCache = m.counterVec("dashboard_cache_total", "Dashboard cache lookups by result", "result")

	m.queueSize = m.gauge("upload_queue_size", "Upload jobs waiting to be applied")
	m.queueCapacity = m.gauge("upload_queue_capacity", "Maximum number of queued upload jobs")
	m.queueEnqueued = m.counter("upload_queue_enqueued_total", "Upload jobs accepted by the queue")
	m.queueDequeued = m.counter("upload_queue_dequeued_total", "Upload jobs handed to workers")
	m.queueEnqueueErrors = m.counter("upload_queue_enqueue_errors_total", "Upload jobs rejected by the queue")

	m.workerJobs = m.counterVec("worker_jobs_total", "Upload jobs processed by workers", "result")
	m.workerLatency = m.histogram("worker_processing_latency_milliseconds", "Upload job processing latency in milliseconds", m.histogramBuckets)
	m.workerCount = m.gauge("worker_count", "Number of upload workers")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total", "HTTP errors by endpoint", "endpoint", "method", "error_type")
	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component", "component", "error_type")

	m.notifications = m.counterVec("notifications_total", "Notifications delivered by level and sink", "level", "sink")
	m.websocketClients = m.gauge("websocket_clients", "Connected websocket clients")

	m.scraperPages = m.counterVec("scraper_pages_total", "Scraped pages by outcome", "result")
	m.scraperReviews = m.counter("scraper_reviews_total", "Reviews collected by the scraper")
	m.scraperDuplicates = m.counter("scraper_duplicates_total", "Duplicate reviews dropped by the scraper")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "Average GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// Upload and store.

// RecordUpload counts an upload outcome (accepted, applied, parse_error, validation_error, failed, ...).
func RecordUpload(result string) {
	globalManager.uploads.WithLabelValues(result).Inc()
}

// UpdateStoreReviews sets the size of the current collection.
func UpdateStoreReviews(count int) {
	globalManager.storeReviews.Set(float64(count))
}

// UpdateStoreVersion sets the collection version.
func UpdateStoreVersion(version uint64) {
	globalManager.storeVersion.Set(float64(version))
}

// UpdateStoreBusy flips the busy gauge.
func UpdateStoreBusy(busy bool) {
	if busy {
		globalManager.storeBusy.Set(1)
		return
	}
	globalManager.storeBusy.Set(0)
}

// RecordStoreReplaceLatency records a replacement latency in milliseconds.
func RecordStoreReplaceLatency(latencyMs float64) {
	globalManager.storeReplaceLatency.Observe(latencyMs)
}

// RecordStoreReplaceError counts a rejected replacement.
func RecordStoreReplaceError() {
	globalManager.storeReplaceErrors.Inc()
}

// Aggregation.

// RecordAggregationLatency records how long computing a view took.
func RecordAggregationLatency(view string, latencyMs float64) {
	globalManager.aggregationLatency.WithLabelValues(view).Observe(latencyMs)
}

// RecordDashboardCacheHit counts a cached dashboard read.
func RecordDashboardCacheHit() {
	globalManager.dashboardCache.WithLabelValues("hit").Inc()
}

// RecordDashboardCacheMiss counts a dashboard rebuild.
func RecordDashboardCacheMiss() {
	globalManager.dashboardCache.WithLabelValues("miss").Inc()
}

// Queue.

// UpdateQueueSize sets the number of pending upload jobs.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the upload queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue counts an accepted job.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue counts a job handed to a worker.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError counts a rejected job.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// Worker.

// RecordWorkerJob counts a processed job by result (applied, failed).
func RecordWorkerJob(result string) {
	globalManager.workerJobs.WithLabelValues(result).Inc()
}

// RecordWorkerProcessingLatency records job processing latency in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerLatency.Observe(latencyMs)
}

// UpdateWorkerCount sets the number of upload workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an HTTP error.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByComponent records an error raised inside a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// Notifications.

// RecordNotification counts a delivered notification.
func RecordNotification(level, sink string) {
	globalManager.notifications.WithLabelValues(level, sink).Inc()
}

// UpdateWebsocketClients sets the number of connected websocket clients.
func UpdateWebsocketClients(count int) {
	globalManager.websocketClients.Set(float64(count))
}

// Scraper.

// RecordScraperPage counts a scraped page by result (ok, empty, error).
func RecordScraperPage(result string) {
	globalManager.scraperPages.WithLabelValues(result).Inc()
}

// RecordScraperReviews counts collected reviews.
func RecordScraperReviews(n int) {
	globalManager.scraperReviews.Add(float64(n))
}

// RecordScraperDuplicates counts dropped duplicates.
func RecordScraperDuplicates(n int) {
	globalManager.scraperDuplicates.Add(float64(n))
}

// System.

// UpdateSystemMemoryUsage sets the heap memory in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
