package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCollector_Counters(t *testing.T) {
	m := NewMetricsCollector()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncrementCounter(MetricBridgeSerialize)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), m.Counter(MetricBridgeSerialize))
	assert.Zero(t, m.Counter(MetricBridgeDeserialize))
}

func TestMetricsCollector_Latency(t *testing.T) {
	m := NewMetricsCollector()

	m.RecordLatency(MetricTwitterAPI, 30*time.Millisecond)
	m.RecordLatency(MetricTwitterAPI, 10*time.Millisecond)

	stats, ok := m.Latency(MetricTwitterAPI)
	require.True(t, ok)
	assert.Equal(t, LatencyStats{Count: 2, LastMs: 10, MaxMs: 30}, stats)

	_, ok = m.Latency(MetricWebhookEvents)
	assert.False(t, ok)
}

func TestMetricsCollector_WithLatencyTracking(t *testing.T) {
	m := NewMetricsCollector()
	want := errors.New("boom")

	err := m.WithLatencyTracking(MetricTwitterAPI, func() error { return want })
	assert.Equal(t, want, err)

	stats, ok := m.Latency(MetricTwitterAPI)
	require.True(t, ok)
	assert.Equal(t, int64(1), stats.Count)
}

func TestMetricsCollector_ServeHTTP(t *testing.T) {
	m := NewMetricsCollector()
	m.IncrementCounter(MetricWebhookRejected)

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"counters":{"webhook_rejected":1},"latencies":{}}`, rec.Body.String())
}
