package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	recommendationRequestsTotal atomic.Uint64
	recommendationFallbackTotal atomic.Uint64
	recommendationErrorsTotal   = newCounterVec()
	bundleLookupsTotal          atomic.Uint64
	bundleNotFoundTotal         atomic.Uint64
	httpPanicsTotal             atomic.Uint64
	recommendationEventsDropped atomic.Uint64

	eventJobsReceived      atomic.Uint64
	eventJobsCompleted     atomic.Uint64
	eventJobsFailed        atomic.Uint64
	eventJobsUnrecoverable atomic.Uint64

	generativeLatency = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000})
)

// IncRecommendationRequests counts recommendation pipeline runs.
func IncRecommendationRequests() {
	recommendationRequestsTotal.Add(1)
}

// IncRecommendationFallback counts responses that served only fallback products.
func IncRecommendationFallback() {
	recommendationFallbackTotal.Add(1)
}

// IncRecommendationError counts pipeline failures by kind (configuration, upstream, parse, transport).
func IncRecommendationError(kind string) {
	recommendationErrorsTotal.Inc(kind)
}

// IncRecommendationEventDropped counts events the recorder failed to store.
func IncRecommendationEventDropped() {
	recommendationEventsDropped.Add(1)
}

// IncEventJobsReceived counts queued events picked up by the worker.
func IncEventJobsReceived() {
	eventJobsReceived.Add(1)
}

// IncEventJobsCompleted counts queued events stored and deleted.
func IncEventJobsCompleted() {
	eventJobsCompleted.Add(1)
}

// IncEventJobsFailed counts queued events left for redelivery.
func IncEventJobsFailed() {
	eventJobsFailed.Add(1)
}

// IncEventJobsDeletedUnrecoverable counts malformed messages deleted without storing.
func IncEventJobsDeletedUnrecoverable() {
	eventJobsUnrecoverable.Add(1)
}

// IncBundleLookup counts bundle page loads.
func IncBundleLookup() {
	bundleLookupsTotal.Add(1)
}

// IncBundleNotFound counts bundle loads with no matching metaobject.
func IncBundleNotFound() {
	bundleNotFoundTotal.Add(1)
}

// IncHTTPPanic counts handler panics turned into 500 responses.
func IncHTTPPanic() {
	httpPanicsTotal.Add(1)
}

// ObserveGenerativeLatencyMs records a generative API call duration in milliseconds.
func ObserveGenerativeLatencyMs(value float64) {
	if value < 0 {
		value = 0
	}
	generativeLatency.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "recommendation_requests_total", "Total recommendation pipeline runs", recommendationRequestsTotal.Load())
	writeCounter(&buf, "recommendation_fallback_total", "Recommendation responses served from fallback products only", recommendationFallbackTotal.Load())
	writeCounterVec(&buf, "recommendation_errors_total", "Recommendation pipeline failures by kind", "kind", recommendationErrorsTotal.Snapshot())
	writeCounter(&buf, "recommendation_events_dropped_total", "Recommendation events that could not be recorded", recommendationEventsDropped.Load())
	writeCounter(&buf, "event_jobs_received_total", "Queued recommendation events received by the worker", eventJobsReceived.Load())
	writeCounter(&buf, "event_jobs_completed_total", "Queued recommendation events stored", eventJobsCompleted.Load())
	writeCounter(&buf, "event_jobs_failed_total", "Queued recommendation events that failed to store", eventJobsFailed.Load())
	writeCounter(&buf, "event_jobs_deleted_unrecoverable_total", "Malformed queue messages deleted", eventJobsUnrecoverable.Load())
	writeCounter(&buf, "bundle_lookups_total", "Total bundle page loads", bundleLookupsTotal.Load())
	writeCounter(&buf, "bundle_not_found_total", "Bundle loads with no matching bundle", bundleNotFoundTotal.Load())
	writeCounter(&buf, "http_panics_total", "Handler panics recovered as 500 responses", httpPanicsTotal.Load())
	writeHistogram(&buf, "generative_latency_ms", "Generative API call duration in milliseconds", generativeLatency.Snapshot())
	return buf.String()
}

type counterVec struct {
	mu     sync.Mutex
	values map[string]uint64
}

func newCounterVec() *counterVec {
	return &counterVec{values: make(map[string]uint64)}
}

func (v *counterVec) Inc(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values[label]++
}

func (v *counterVec) Snapshot() map[string]uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]uint64, len(v.values))
	for k, n := range v.values {
		out[k] = n
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			// Buckets are cumulative at render time.
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeCounterVec(buf *bytes.Buffer, name, help, label string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
