package twitter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"github.com/NethermindEth/tweetbridge/pkg/bridge"
	"github.com/NethermindEth/tweetbridge/pkg/twitter/dto"
	"github.com/NethermindEth/tweetbridge/pkg/utils/metrics"
)

type request struct {
	method string
	url    string
	query  url.Values
	// body is sent as application/json when set.
	body []byte
}

type executor struct {
	client      *http.Client
	codec       bridge.Codec
	rateLimiter *rate.Limiter
	maxRetries  uint64
	retryDelay  time.Duration
	maxWait     time.Duration
	metrics     *metrics.MetricsCollector
}

// execute sends req and reads the response body into T through the client's bridge.
func execute[T any](ctx context.Context, c *TwitterClient, req *request) (T, error) {
	var zero T

	body, err := c.executor.do(ctx, req)
	if err != nil {
		return zero, err
	}

	result, err := bridge.Deserialize[T](c.bridge, string(body))
	if err != nil {
		return zero, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}

// restoreModels reads a JSON array embedded in a response envelope as models.
func restoreModels[T any](c *TwitterClient, raw jsoniter.RawMessage) ([]T, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	models, err := bridge.Deserialize[[]T](c.bridge, string(raw))
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return models, nil
}

// do sends req, retrying rate limited and server errors. Context errors are
// returned as is.
func (e *executor) do(ctx context.Context, req *request) ([]byte, error) {
	start := time.Now()
	defer func() {
		if e.metrics != nil {
			e.metrics.RecordLatency(metrics.MetricTwitterAPI, time.Since(start))
		}
	}()

	policy := &rateLimitBackOff{
		BackOff: newExponentialBackOff(e.retryDelay),
		maxWait: e.maxWait,
	}
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, e.maxRetries), ctx)

	var body []byte
	operation := func() error {
		if err := e.rateLimiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return backoff.Permanent(ctxErr)
			}
			return backoff.Permanent(fmt.Errorf("rate limiter: %w", err))
		}

		var err error
		body, err = e.attempt(ctx, req, policy)
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return backoff.Permanent(ctxErr)
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		slog.Warn("retrying twitter request", "method", req.method, "url", req.url, "error", err, "wait", wait)
		if e.metrics != nil {
			e.metrics.IncrementCounter(metrics.MetricTwitterRetry)
		}
	}

	err := backoff.RetryNotify(operation, retry, notify)
	if err == nil {
		return body, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Retryable() {
		return nil, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, err)
	}
	return nil, err
}

func (e *executor) attempt(ctx context.Context, req *request, policy *rateLimitBackOff) ([]byte, error) {
	u, err := url.Parse(req.url)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var reader io.Reader
	if req.body != nil {
		reader = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusTooManyRequests {
			policy.resetAt = parseRateLimitReset(resp.Header)
		}
		return nil, e.apiError(resp.StatusCode, body)
	}

	return body, nil
}

func (e *executor) apiError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var errResp dto.ErrorsDTO
	if err := e.codec.Decode(string(body), &errResp); err == nil {
		apiErr.Errors = errResp.Errors
	}
	return apiErr
}

func parseRateLimitReset(header http.Header) time.Time {
	resetStr := header.Get("x-rate-limit-reset")
	if resetStr == "" {
		return time.Time{}
	}
	reset, err := strconv.ParseInt(resetStr, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(reset, 0)
}

func newExponentialBackOff(initial time.Duration) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.MaxElapsedTime = 0
	return b
}

// rateLimitBackOff waits until the advertised rate limit reset when a 429
// carried one, and otherwise defers to the wrapped policy.
type rateLimitBackOff struct {
	backoff.BackOff
	resetAt time.Time
	maxWait time.Duration
}

func (b *rateLimitBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next == backoff.Stop || b.resetAt.IsZero() {
		return next
	}

	wait := time.Until(b.resetAt)
	b.resetAt = time.Time{}
	if wait <= 0 {
		return next
	}
	if wait > b.maxWait {
		wait = b.maxWait
	}
	return wait
}
