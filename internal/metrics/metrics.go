// Package metrics keeps in-process counters and histograms and exposes them
// in Prometheus text format on /metrics. There is no external metrics
// dependency; everything is plain atomics behind a registry.
package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds all application metrics.
type Metrics struct {
	mu sync.RWMutex

	requestCount    map[string]*uint64    // "path:method" -> count
	requestDuration map[string]*Histogram // "path:method" -> duration seconds
	requestErrors   map[string]*uint64    // "path:method:class" -> count

	sourceAttempts  map[string]*uint64 // source name -> attempts
	sourceSuccesses map[string]*uint64 // source name -> successes

	activeWSConnections int64

	startTime time.Time
}

// Histogram tracks a value distribution over fixed buckets.
type Histogram struct {
	mu    sync.Mutex
	count uint64
	sum   float64
	// 5ms .. 10s
	buckets    []float64
	bucketVals []uint64
}

// NewHistogram creates a histogram with the default latency buckets.
func NewHistogram() *Histogram {
	return &Histogram{
		buckets:    []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		bucketVals: make([]uint64, 11),
	}
}

// Observe records a value.
func (h *Histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += v
	for i, b := range h.buckets {
		if v <= b {
			h.bucketVals[i]++
		}
	}
}

// New creates an empty metrics registry.
func New() *Metrics {
	return &Metrics{
		requestCount:    make(map[string]*uint64),
		requestDuration: make(map[string]*Histogram),
		requestErrors:   make(map[string]*uint64),
		sourceAttempts:  make(map[string]*uint64),
		sourceSuccesses: make(map[string]*uint64),
		startTime:       time.Now(),
	}
}

var defaultMetrics = New()

// Default returns the process-wide metrics registry.
func Default() *Metrics {
	return defaultMetrics
}

func (m *Metrics) counter(table map[string]*uint64, key string) *uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if table[key] == nil {
		var zero uint64
		table[key] = &zero
	}
	return table[key]
}

// RecordRequest records one HTTP request.
func (m *Metrics) RecordRequest(method, path string, statusCode int, duration time.Duration) {
	key := fmt.Sprintf("%s:%s", path, method)
	atomic.AddUint64(m.counter(m.requestCount, key), 1)

	m.mu.Lock()
	if m.requestDuration[key] == nil {
		m.requestDuration[key] = NewHistogram()
	}
	hist := m.requestDuration[key]
	m.mu.Unlock()
	hist.Observe(duration.Seconds())

	if statusCode >= 400 {
		errKey := fmt.Sprintf("%s:%d", key, statusCode/100*100)
		atomic.AddUint64(m.counter(m.requestErrors, errKey), 1)
	}
}

// RecordSourceAttempt counts one retrieval attempt against a caption source.
func (m *Metrics) RecordSourceAttempt(source string) {
	atomic.AddUint64(m.counter(m.sourceAttempts, source), 1)
}

// RecordSourceSuccess counts one successful retrieval from a caption source.
func (m *Metrics) RecordSourceSuccess(source string) {
	atomic.AddUint64(m.counter(m.sourceSuccesses, source), 1)
}

// IncWSConnections increments the active websocket connection gauge.
func (m *Metrics) IncWSConnections() {
	atomic.AddInt64(&m.activeWSConnections, 1)
}

// DecWSConnections decrements the active websocket connection gauge.
func (m *Metrics) DecWSConnections() {
	atomic.AddInt64(&m.activeWSConnections, -1)
}

// Handler serves the metrics in Prometheus text exposition format.
func (m *Metrics) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

		var sb strings.Builder

		sb.WriteString("# HELP capr_uptime_seconds Time since the server started\n")
		sb.WriteString("# TYPE capr_uptime_seconds gauge\n")
		fmt.Fprintf(&sb, "capr_uptime_seconds %f\n\n", time.Since(m.startTime).Seconds())

		sb.WriteString("# HELP capr_websocket_connections_active Active WebSocket connections\n")
		sb.WriteString("# TYPE capr_websocket_connections_active gauge\n")
		fmt.Fprintf(&sb, "capr_websocket_connections_active %d\n\n", atomic.LoadInt64(&m.activeWSConnections))

		m.mu.RLock()
		defer m.mu.RUnlock()

		sb.WriteString("# HELP capr_requests_total HTTP requests by path and method\n")
		sb.WriteString("# TYPE capr_requests_total counter\n")
		for _, key := range sortedKeys(m.requestCount) {
			parts := strings.SplitN(key, ":", 2)
			fmt.Fprintf(&sb, "capr_requests_total{path=%q,method=%q} %d\n",
				parts[0], parts[1], atomic.LoadUint64(m.requestCount[key]))
		}
		sb.WriteString("\n")

		sb.WriteString("# HELP capr_request_errors_total HTTP error responses by path, method, and status class\n")
		sb.WriteString("# TYPE capr_request_errors_total counter\n")
		for _, key := range sortedKeys(m.requestErrors) {
			parts := strings.SplitN(key, ":", 3)
			fmt.Fprintf(&sb, "capr_request_errors_total{path=%q,method=%q,class=%q} %d\n",
				parts[0], parts[1], parts[2], atomic.LoadUint64(m.requestErrors[key]))
		}
		sb.WriteString("\n")

		sb.WriteString("# HELP capr_source_attempts_total Caption retrieval attempts by source\n")
		sb.WriteString("# TYPE capr_source_attempts_total counter\n")
		for _, key := range sortedKeys(m.sourceAttempts) {
			fmt.Fprintf(&sb, "capr_source_attempts_total{source=%q} %d\n",
				key, atomic.LoadUint64(m.sourceAttempts[key]))
		}
		sb.WriteString("\n")

		sb.WriteString("# HELP capr_source_successes_total Successful caption retrievals by source\n")
		sb.WriteString("# TYPE capr_source_successes_total counter\n")
		for _, key := range sortedKeys(m.sourceSuccesses) {
			fmt.Fprintf(&sb, "capr_source_successes_total{source=%q} %d\n",
				key, atomic.LoadUint64(m.sourceSuccesses[key]))
		}
		sb.WriteString("\n")

		sb.WriteString("# HELP capr_request_duration_seconds HTTP request duration\n")
		sb.WriteString("# TYPE capr_request_duration_seconds histogram\n")
		for _, key := range sortedHistKeys(m.requestDuration) {
			parts := strings.SplitN(key, ":", 2)
			h := m.requestDuration[key]
			h.mu.Lock()
			cumulative := uint64(0)
			for i, b := range h.buckets {
				cumulative = h.bucketVals[i]
				fmt.Fprintf(&sb, "capr_request_duration_seconds_bucket{path=%q,method=%q,le=\"%g\"} %d\n",
					parts[0], parts[1], b, cumulative)
			}
			fmt.Fprintf(&sb, "capr_request_duration_seconds_bucket{path=%q,method=%q,le=\"+Inf\"} %d\n",
				parts[0], parts[1], h.count)
			fmt.Fprintf(&sb, "capr_request_duration_seconds_sum{path=%q,method=%q} %f\n", parts[0], parts[1], h.sum)
			fmt.Fprintf(&sb, "capr_request_duration_seconds_count{path=%q,method=%q} %d\n", parts[0], parts[1], h.count)
			h.mu.Unlock()
		}

		w.Write([]byte(sb.String()))
	}
}

func sortedKeys(m map[string]*uint64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedHistKeys(m map[string]*Histogram) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
