// Package metrics collects in-process counters and latencies for the bridge,
// the Twitter client and the webhook server, and exposes them over HTTP.
package metrics

import (
	"net/http"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Metric names shared by the packages that report into a collector.
const (
	MetricBridgeSerialize   = "bridge_serialize"
	MetricBridgeDeserialize = "bridge_deserialize"
	MetricTwitterAPI        = "twitter_api"
	MetricTwitterRetry      = "twitter_api_retry"
	MetricWebhookEvents     = "webhook_events"
	MetricWebhookRejected   = "webhook_rejected"
)

// LatencyStats summarises the observed durations of one operation, in milliseconds.
type LatencyStats struct {
	Count  int64 `json:"count"`
	LastMs int64 `json:"last_ms"`
	MaxMs  int64 `json:"max_ms"`
}

// Snapshot is a point-in-time copy of everything a collector holds.
type Snapshot struct {
	Counters  map[string]int64        `json:"counters"`
	Latencies map[string]LatencyStats `json:"latencies"`
}

// MetricsCollector is safe for concurrent use. A nil *MetricsCollector is not.
type MetricsCollector struct {
	mu        sync.RWMutex
	counters  map[string]int64
	latencies map[string]LatencyStats
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		counters:  make(map[string]int64),
		latencies: make(map[string]LatencyStats),
	}
}

func (m *MetricsCollector) IncrementCounter(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

// Counter returns the current value of a counter, or zero if it was never incremented.
func (m *MetricsCollector) Counter(name string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[name]
}

func (m *MetricsCollector) RecordLatency(operation string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ms := duration.Milliseconds()
	stats := m.latencies[operation]
	stats.Count++
	stats.LastMs = ms
	if ms > stats.MaxMs {
		stats.MaxMs = ms
	}
	m.latencies[operation] = stats
}

// Latency returns the stats recorded for operation.
func (m *MetricsCollector) Latency(operation string) (LatencyStats, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats, ok := m.latencies[operation]
	return stats, ok
}

// WithLatencyTracking runs fn and records how long it took under operation.
func (m *MetricsCollector) WithLatencyTracking(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	m.RecordLatency(operation, time.Since(start))
	return err
}

func (m *MetricsCollector) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := Snapshot{
		Counters:  make(map[string]int64, len(m.counters)),
		Latencies: make(map[string]LatencyStats, len(m.latencies)),
	}
	for k, v := range m.counters {
		snapshot.Counters[k] = v
	}
	for k, v := range m.latencies {
		snapshot.Latencies[k] = v
	}
	return snapshot
}

// ServeHTTP writes the current snapshot as JSON.
func (m *MetricsCollector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := jsoniter.NewEncoder(w).Encode(m.Snapshot()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
