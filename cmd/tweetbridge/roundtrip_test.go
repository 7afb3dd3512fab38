package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/tweetbridge/pkg/bridge"
	"github.com/NethermindEth/tweetbridge/pkg/twitter"
	"github.com/NethermindEth/tweetbridge/pkg/twitter/dto"
	"github.com/NethermindEth/tweetbridge/pkg/utils/metrics"
)

const testTweet = `{"id": 123, "id_str": "123", "created_at": "Mon Jan 01 00:00:00 +0000 2024", "text": "hello", "user": {"id": 7, "screen_name": "alice", "created_at": "Mon Jan 01 00:00:00 +0000 2024"}}`

func TestRoundTrip(t *testing.T) {
	b, _ := twitter.NewBridge(nil, nil)

	t.Run("single", func(t *testing.T) {
		out, err := roundTrip(b, "tweet", testTweet)
		require.NoError(t, err)

		var got dto.TweetDTO
		require.NoError(t, twitter.NewCodec().Decode(out, &got))
		assert.Equal(t, int64(123), got.ID)
		assert.Equal(t, "hello", got.Text)
		require.NotNil(t, got.User)
		assert.Equal(t, "alice", got.User.ScreenName)
	})

	t.Run("collection", func(t *testing.T) {
		out, err := roundTrip(b, "tweet", " ["+testTweet+", null, "+testTweet+"]")
		require.NoError(t, err)

		var got []*dto.TweetDTO
		require.NoError(t, twitter.NewCodec().Decode(out, &got))
		require.Len(t, got, 3)
		assert.Equal(t, int64(123), got[0].ID)
		assert.Nil(t, got[1])
		assert.Equal(t, int64(123), got[2].ID)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := roundTrip(b, "status", testTweet)
		assert.ErrorContains(t, err, "unknown kind")
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := roundTrip(b, "user", `{"id": "x"`)
		var deserr *bridge.DeserializationError
		assert.ErrorAs(t, err, &deserr)
	})
}

func TestRoundTripKinds(t *testing.T) {
	kinds := roundTripKinds()
	assert.Len(t, kinds, 9)
	assert.IsIncreasing(t, kinds)
}

func TestMonitoringHandler(t *testing.T) {
	collector := metrics.NewMetricsCollector()
	collector.IncrementCounter(metrics.MetricWebhookEvents)
	handler := monitoringHandler(collector)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"counters":{"webhook_events":1},"latencies":{}}`, rec.Body.String())
}
